package media

import (
	"github.com/lexperience/backend/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.media",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Store {
	switch cfg.Media.Provider {
	case "hosted":
		return NewHosted(cfg.Media.UploadURL, cfg.Media.UploadPreset)
	case "local":
		return NewLocal(cfg.Media.LocalDir)
	default:
		return &NoOpStore{}
	}
}
