package pricing

import (
	"testing"

	"github.com/lexperience/backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func testConfig() config.Config {
	return config.Config{
		Pricing: config.PricingConfig{
			StudentAmount: 10000,
			GeneralAmount: 15000,
			AddOnAmount:   12000,
			Currency:      "NGN",
		},
	}
}

func TestLookup(t *testing.T) {
	table := NewTable(testConfig())

	student, err := table.Lookup("student")
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), student.Amount)
	assert.True(t, student.RequiresDocument)

	general, err := table.Lookup("  General ")
	assert.NoError(t, err)
	assert.Equal(t, int64(15000), general.Amount)
	assert.False(t, general.RequiresDocument)

	_, err = table.Lookup("vip")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestAddOnAmount(t *testing.T) {
	table := NewTable(testConfig())
	assert.Equal(t, int64(12000), table.AddOnAmount())
	assert.Equal(t, "NGN", table.Currency())
}
