package providers

import (
	"github.com/lexperience/backend/internal/providers/email"
	"github.com/lexperience/backend/internal/providers/media"
	"github.com/lexperience/backend/internal/providers/payment"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	payment.Module,
	media.Module,
	email.Module,
)
