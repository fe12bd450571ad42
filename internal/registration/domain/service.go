package domain

import (
	"context"
	"errors"

	"github.com/lexperience/backend/pkg/db/pagination"
)

type SubmitRequest struct {
	Name             string
	Email            string
	Affiliation      string
	Interest         string
	PaymentReference string
	// Amount is the client-declared ticket price. Zero means "not
	// provided"; a non-zero value must match the computed tier price.
	Amount int64

	// IDDocumentName and IDDocumentContent carry an uploaded file. The
	// upload to the media host happens in the background after persist.
	IDDocumentName    string
	IDDocumentContent []byte
}

type ConfirmPaymentRequest struct {
	Email     string
	Reference string
	Status    string
}

type RecordAddOnRequest struct {
	Email     string
	Reference string
	Amount    int64
}

type ListRequest struct {
	PageToken string
	PageSize  int32
}

type ListResponse struct {
	pagination.PageInfo
	Registrations []Registration `json:"registrations"`
}

type StatsResponse struct {
	Total         int64            `json:"total"`
	Paid          int64            `json:"paid"`
	ByAffiliation map[string]int64 `json:"byAffiliation"`
}

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (Registration, error)
	ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (Registration, error)
	RecordAddOn(ctx context.Context, req RecordAddOnRequest) (AddOnPayment, error)
	AttachDocument(ctx context.Context, email, fileName, fileURL string) error
	GetByEmail(ctx context.Context, email string) (Registration, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidAffiliation = errors.New("invalid_affiliation")
	ErrMissingReference   = errors.New("missing_payment_reference")
	ErrDocumentRequired   = errors.New("id_document_required")
	ErrAmountMismatch     = errors.New("amount_mismatch")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidState       = errors.New("invalid_payment_state")
	ErrPaymentNotVerified = errors.New("payment_not_verified")
	ErrNotFound           = errors.New("not_found")
	ErrPaidDowngrade      = errors.New("paid_downgrade")
)
