package migration

import (
	"github.com/lexperience/backend/internal/config"
	regdomain "github.com/lexperience/backend/internal/registration/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Versioned migrations target PostgreSQL. Other dialects
			// (local sqlite, mysql) fall back to AutoMigrate.
			return conn.AutoMigrate(
				&regdomain.Registration{},
				&regdomain.AddOnPayment{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
