package pricing

import (
	"errors"
	"strings"

	"github.com/lexperience/backend/internal/config"
)

var ErrUnknownTier = errors.New("unknown_tier")

// Tier describes a ticket pricing tier.
type Tier struct {
	Affiliation      string
	Amount           int64
	Currency         string
	RequiresDocument bool
}

// Table resolves affiliations to ticket prices. Amounts come from
// configuration so deployments can override them per event.
type Table struct {
	tiers       map[string]Tier
	addOnAmount int64
	currency    string
}

func NewTable(cfg config.Config) *Table {
	currency := cfg.Pricing.Currency
	return &Table{
		tiers: map[string]Tier{
			"student": {
				Affiliation:      "student",
				Amount:           cfg.Pricing.StudentAmount,
				Currency:         currency,
				RequiresDocument: true,
			},
			"general": {
				Affiliation:      "general",
				Amount:           cfg.Pricing.GeneralAmount,
				Currency:         currency,
				RequiresDocument: false,
			},
		},
		addOnAmount: cfg.Pricing.AddOnAmount,
		currency:    currency,
	}
}

// Lookup returns the tier for an affiliation.
func (t *Table) Lookup(affiliation string) (Tier, error) {
	tier, ok := t.tiers[strings.ToLower(strings.TrimSpace(affiliation))]
	if !ok {
		return Tier{}, ErrUnknownTier
	}
	return tier, nil
}

// AddOnAmount returns the fixed add-on payment price.
func (t *Table) AddOnAmount() int64 {
	return t.addOnAmount
}

// Currency returns the configured currency code.
func (t *Table) Currency() string {
	return t.currency
}
