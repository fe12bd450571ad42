package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lexperience/backend/internal/registration/domain"
	"github.com/lexperience/backend/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, reg *domain.Registration) error {
	return db.WithContext(ctx).Create(reg).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, reg *domain.Registration) error {
	return db.WithContext(ctx).Save(reg).Error
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Registration, error) {
	var reg domain.Registration
	err := db.WithContext(ctx).
		Where("email = ?", email).
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repo) FindByEmailForUpdate(ctx context.Context, db *gorm.DB, email string) (*domain.Registration, error) {
	var reg domain.Registration
	stmt := db.WithContext(ctx)
	// SQLite has no row locks; its writes already serialize.
	if db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := stmt.
		Where("email = ?", email).
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*domain.Registration, error) {
	var regs []*domain.Registration
	stmt := db.WithContext(ctx).Model(&domain.Registration{})

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			createdAt, createdAt, id,
		)
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 10
	}

	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *repo) CountByState(ctx context.Context, db *gorm.DB) (int64, int64, map[string]int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&domain.Registration{}).Count(&total).Error; err != nil {
		return 0, 0, nil, err
	}

	var paid int64
	err := db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("payment_state = ?", domain.PaymentPaid).
		Count(&paid).Error
	if err != nil {
		return 0, 0, nil, err
	}

	type affiliationCount struct {
		Affiliation string
		Count       int64
	}
	var rows []affiliationCount
	err = db.WithContext(ctx).
		Model(&domain.Registration{}).
		Select("affiliation, count(*) as count").
		Group("affiliation").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, nil, err
	}

	byAffiliation := make(map[string]int64, len(rows))
	for _, row := range rows {
		byAffiliation[row.Affiliation] = row.Count
	}
	return total, paid, byAffiliation, nil
}

func (r *repo) InsertAddOn(ctx context.Context, db *gorm.DB, payment *domain.AddOnPayment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindAddOn(ctx context.Context, db *gorm.DB, email, reference string) (*domain.AddOnPayment, error) {
	var payment domain.AddOnPayment
	err := db.WithContext(ctx).
		Where("email = ? AND reference = ?", email, reference).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
