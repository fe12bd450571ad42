package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lexperience/backend/internal/observability/metrics"
	"github.com/lexperience/backend/internal/pricing"
	"github.com/lexperience/backend/internal/providers/email"
	"github.com/lexperience/backend/internal/providers/media"
	"github.com/lexperience/backend/internal/providers/payment"
	"github.com/lexperience/backend/internal/registration/domain"
	"github.com/lexperience/backend/internal/tasks"
	dbpkg "github.com/lexperience/backend/pkg/db"
	"github.com/lexperience/backend/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Prices   *pricing.Table
	Verifier payment.Verifier
	Media    media.Store
	Email    email.Provider
	Tasks    tasks.Dispatcher
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	prices   *pricing.Table
	verifier payment.Verifier
	media    media.Store
	email    email.Provider
	tasks    tasks.Dispatcher
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("registration.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		prices:   p.Prices,
		verifier: p.Verifier,
		media:    p.Media,
		email:    p.Email,
		tasks:    p.Tasks,
		metrics:  p.Metrics,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (domain.Registration, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Registration{}, domain.ErrInvalidName
	}

	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.Registration{}, err
	}

	tier, err := s.prices.Lookup(req.Affiliation)
	if err != nil {
		return domain.Registration{}, domain.ErrInvalidAffiliation
	}

	reference := strings.TrimSpace(req.PaymentReference)
	if reference == "" {
		return domain.Registration{}, domain.ErrMissingReference
	}

	if tier.RequiresDocument && strings.TrimSpace(req.IDDocumentName) == "" {
		return domain.Registration{}, domain.ErrDocumentRequired
	}

	// Prices are computed server-side. A client-declared amount is
	// validated against the tier, never trusted.
	if req.Amount != 0 && req.Amount != tier.Amount {
		return domain.Registration{}, domain.ErrAmountMismatch
	}

	state, paidAt, err := s.verifyReference(ctx, reference)
	if err != nil {
		return domain.Registration{}, err
	}

	now := time.Now().UTC()
	reg := domain.Registration{
		ID:               s.genID.Generate(),
		Name:             name,
		Email:            emailAddr,
		Affiliation:      tier.Affiliation,
		TicketAmount:     tier.Amount,
		Interest:         strings.TrimSpace(req.Interest),
		IDDocumentName:   strings.TrimSpace(req.IDDocumentName),
		PaymentState:     state,
		PaymentReference: reference,
		PaidAt:           paidAt,
		Metadata:         datatypes.JSONMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	persisted, err := s.upsert(ctx, reg)
	if err != nil {
		return persisted, err
	}

	s.metrics.RecordRegistration(persisted.Affiliation, string(persisted.PaymentState))
	s.dispatchFollowUps(persisted, req.IDDocumentContent)

	return persisted, nil
}

// upsert inserts the registration, resolving an existing row for the
// same email through a locked merge. Insert-first: the unique index,
// not a pre-read, decides which path runs.
func (s *Service) upsert(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	err := s.repo.Insert(ctx, s.db, &reg)
	if err == nil {
		return reg, nil
	}
	if !dbpkg.IsDuplicateKeyErr(err) {
		return domain.Registration{}, err
	}

	var merged domain.Registration
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByEmailForUpdate(ctx, tx, reg.Email)
		if err != nil {
			return err
		}
		if existing == nil {
			// The conflicting row vanished between the insert and the
			// lock. Retry the insert inside this transaction.
			if err := s.repo.Insert(ctx, tx, &reg); err != nil {
				return err
			}
			merged = reg
			return nil
		}

		if existing.PaymentState == domain.PaymentPaid && reg.PaymentState != domain.PaymentPaid {
			merged = *existing
			return domain.ErrPaidDowngrade
		}

		existing.Name = reg.Name
		existing.Affiliation = reg.Affiliation
		existing.TicketAmount = reg.TicketAmount
		if reg.Interest != "" {
			existing.Interest = reg.Interest
		}
		if reg.IDDocumentName != "" {
			existing.IDDocumentName = reg.IDDocumentName
			existing.IDDocumentURL = ""
		}
		existing.PaymentState = reg.PaymentState
		existing.PaymentReference = reg.PaymentReference
		if reg.PaidAt != nil {
			existing.PaidAt = reg.PaidAt
		}
		existing.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, tx, existing); err != nil {
			return err
		}
		merged = *existing
		return nil
	})
	if txErr != nil {
		// A downgrade conflict still reports the stored record.
		return merged, txErr
	}
	return merged, nil
}

func (s *Service) verifyReference(ctx context.Context, reference string) (domain.PaymentState, *time.Time, error) {
	if !s.verifier.Enabled() {
		return domain.PaymentPending, nil, nil
	}

	verification, err := s.verifier.Verify(ctx, reference)
	if err != nil {
		// Gateway unreachable is not the registrant's fault. Store as
		// pending and let payment confirmation settle it later.
		s.log.Warn("payment verification unavailable",
			zap.String("reference", reference),
			zap.Error(err),
		)
		s.metrics.RecordPaymentVerification("paystack", "error")
		return domain.PaymentPending, nil, nil
	}

	if !verification.Paid {
		s.metrics.RecordPaymentVerification("paystack", "unpaid")
		return "", nil, domain.ErrPaymentNotVerified
	}

	s.metrics.RecordPaymentVerification("paystack", "paid")
	now := time.Now().UTC()
	return domain.PaymentPaid, &now, nil
}

func (s *Service) dispatchFollowUps(reg domain.Registration, documentContent []byte) {
	if len(documentContent) > 0 && reg.IDDocumentName != "" {
		fileName := reg.IDDocumentName
		emailAddr := reg.Email
		s.tasks.Go("upload_id_document", func(ctx context.Context) error {
			url, err := s.media.Upload(ctx, fileName, documentContent)
			if err != nil {
				return err
			}
			if url == "" {
				return nil
			}
			return s.AttachDocument(ctx, emailAddr, fileName, url)
		})
	}

	recipient := reg.Email
	data := map[string]interface{}{
		"name":         reg.Name,
		"affiliation":  reg.Affiliation,
		"amount":       reg.TicketAmount,
		"currency":     s.prices.Currency(),
		"paymentState": string(reg.PaymentState),
	}
	s.tasks.Go("send_confirmation_email", func(ctx context.Context) error {
		return s.email.SendTemplate(ctx, []string{recipient}, "registration_confirmed", data)
	})
}

func (s *Service) ConfirmPayment(ctx context.Context, req domain.ConfirmPaymentRequest) (domain.Registration, error) {
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.Registration{}, err
	}

	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		return domain.Registration{}, domain.ErrMissingReference
	}

	next, err := stateFromStatus(req.Status)
	if err != nil {
		return domain.Registration{}, err
	}

	var updated domain.Registration
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByEmailForUpdate(ctx, tx, emailAddr)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		if existing.PaymentState == domain.PaymentPaid {
			if next == domain.PaymentPaid {
				// Replay of a settled payment is a no-op.
				updated = *existing
				return nil
			}
			updated = *existing
			return domain.ErrPaidDowngrade
		}

		if !existing.PaymentState.CanTransition(next) {
			return domain.ErrInvalidState
		}

		existing.PaymentState = next
		existing.PaymentReference = reference
		if next == domain.PaymentPaid {
			now := time.Now().UTC()
			existing.PaidAt = &now
		}
		existing.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, tx, existing); err != nil {
			return err
		}
		updated = *existing
		return nil
	})
	if txErr != nil {
		return updated, txErr
	}
	return updated, nil
}

func (s *Service) RecordAddOn(ctx context.Context, req domain.RecordAddOnRequest) (domain.AddOnPayment, error) {
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.AddOnPayment{}, err
	}

	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		return domain.AddOnPayment{}, domain.ErrMissingReference
	}

	amount := s.prices.AddOnAmount()
	if req.Amount != 0 && req.Amount != amount {
		return domain.AddOnPayment{}, domain.ErrAmountMismatch
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, emailAddr)
	if err != nil {
		return domain.AddOnPayment{}, err
	}
	if existing == nil {
		return domain.AddOnPayment{}, domain.ErrNotFound
	}

	addOn := domain.AddOnPayment{
		ID:        s.genID.Generate(),
		Email:     emailAddr,
		Reference: reference,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertAddOn(ctx, s.db, &addOn); err != nil {
		if !dbpkg.IsDuplicateKeyErr(err) {
			return domain.AddOnPayment{}, err
		}
		// Idempotent replay: same (email, reference) returns the row
		// recorded the first time.
		replay, findErr := s.repo.FindAddOn(ctx, s.db, emailAddr, reference)
		if findErr != nil {
			return domain.AddOnPayment{}, findErr
		}
		if replay == nil {
			return domain.AddOnPayment{}, err
		}
		return *replay, nil
	}

	s.metrics.RecordAddOnPayment()
	return addOn, nil
}

func (s *Service) AttachDocument(ctx context.Context, emailAddr, fileName, fileURL string) error {
	emailAddr, err := normalizeEmail(emailAddr)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByEmailForUpdate(ctx, tx, emailAddr)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		existing.IDDocumentName = strings.TrimSpace(fileName)
		existing.IDDocumentURL = strings.TrimSpace(fileURL)
		existing.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, tx, existing)
	})
}

func (s *Service) GetByEmail(ctx context.Context, emailAddr string) (domain.Registration, error) {
	emailAddr, err := normalizeEmail(emailAddr)
	if err != nil {
		return domain.Registration{}, err
	}

	item, err := s.repo.FindByEmail(ctx, s.db, emailAddr)
	if err != nil {
		return domain.Registration{}, err
	}
	if item == nil {
		return domain.Registration{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(reg *domain.Registration) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        reg.ID.String(),
			CreatedAt: reg.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	regs := make([]domain.Registration, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		regs = append(regs, *item)
	}

	resp := domain.ListResponse{Registrations: regs}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Stats(ctx context.Context) (domain.StatsResponse, error) {
	total, paid, byAffiliation, err := s.repo.CountByState(ctx, s.db)
	if err != nil {
		return domain.StatsResponse{}, err
	}
	return domain.StatsResponse{
		Total:         total,
		Paid:          paid,
		ByAffiliation: byAffiliation,
	}, nil
}

func normalizeEmail(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if !emailPattern.MatchString(value) {
		return "", domain.ErrInvalidEmail
	}
	return value, nil
}

func stateFromStatus(status string) (domain.PaymentState, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "paid":
		return domain.PaymentPaid, nil
	case "failed":
		return domain.PaymentFailed, nil
	case "pending":
		return domain.PaymentPending, nil
	default:
		return "", domain.ErrInvalidState
	}
}
