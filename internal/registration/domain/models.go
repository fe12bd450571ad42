package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Registration struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name             string            `gorm:"not null" json:"name"`
	Email            string            `gorm:"not null;uniqueIndex" json:"email"`
	Affiliation      string            `gorm:"not null" json:"affiliation"`
	TicketAmount     int64             `gorm:"not null;default:0" json:"ticketAmount"`
	Interest         string            `gorm:"not null;default:''" json:"interest,omitempty"`
	IDDocumentName   string            `gorm:"column:id_document_name;not null;default:''" json:"idDocumentName,omitempty"`
	IDDocumentURL    string            `gorm:"column:id_document_url;not null;default:''" json:"idDocumentUrl,omitempty"`
	PaymentState     PaymentState      `gorm:"not null;default:'pending';index" json:"paymentState"`
	PaymentReference string            `gorm:"not null;default:''" json:"paymentReference,omitempty"`
	PaidAt           *time.Time        `json:"paidAt,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Registration) TableName() string {
	return "registrations"
}

// HasDocument reports whether an ID document has been attached.
func (r Registration) HasDocument() bool {
	return r.IDDocumentName != "" || r.IDDocumentURL != ""
}

type AddOnPayment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Email     string       `gorm:"not null;uniqueIndex:idx_addon_payments_email_reference" json:"email"`
	Reference string       `gorm:"not null;uniqueIndex:idx_addon_payments_email_reference" json:"reference"`
	Amount    int64        `gorm:"not null;default:0" json:"amount"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (AddOnPayment) TableName() string {
	return "addon_payments"
}
