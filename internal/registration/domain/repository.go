package domain

import (
	"context"

	"github.com/lexperience/backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, reg *Registration) error
	Update(ctx context.Context, db *gorm.DB, reg *Registration) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Registration, error)
	FindByEmailForUpdate(ctx context.Context, db *gorm.DB, email string) (*Registration, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*Registration, error)
	CountByState(ctx context.Context, db *gorm.DB) (total, paid int64, byAffiliation map[string]int64, err error)

	InsertAddOn(ctx context.Context, db *gorm.DB, payment *AddOnPayment) error
	FindAddOn(ctx context.Context, db *gorm.DB, email, reference string) (*AddOnPayment, error)
}
