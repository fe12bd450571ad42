package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderRegistrationConfirmed(t *testing.T) {
	body, err := RenderTemplate("registration_confirmed", map[string]interface{}{
		"name":         "Ada Lovelace",
		"affiliation":  "student",
		"amount":       int64(10000),
		"currency":     "NGN",
		"paymentState": "paid",
	})
	assert.NoError(t, err)
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "student")
	assert.Contains(t, body, "NGN 10000")
	assert.Contains(t, body, "paid")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := RenderTemplate("missing_template", nil)
	assert.Error(t, err)
}
