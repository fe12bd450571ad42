package payment

import (
	"github.com/lexperience/backend/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.payment",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Verifier {
	if cfg.Paystack.SecretKey == "" {
		return &NoOpVerifier{}
	}
	return NewPaystack(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL)
}
