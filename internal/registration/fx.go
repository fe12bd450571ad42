package registration

import (
	"github.com/lexperience/backend/internal/registration/repository"
	"github.com/lexperience/backend/internal/registration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("registration.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
