package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tenantID := uuid.New()

	t.Run("normalizes phone and email", func(t *testing.T) {
		c, err := NewClient(tenantID, ClientDetails{
			Name:   "Société Ben Salah",
			Phone:  "22 345 678",
			Email:  " Contact@BenSalah.TN ",
			Sector: "Commerce",
		})
		require.NoError(t, err)
		assert.Equal(t, "+21622345678", c.Phone)
		assert.Equal(t, "contact@bensalah.tn", c.Email)
		assert.True(t, c.IsActive)
		assert.True(t, c.CreditUsed.IsZero())
	})

	t.Run("rejects invalid phone", func(t *testing.T) {
		_, err := NewClient(tenantID, ClientDetails{Name: "X", Phone: "12"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid phone")
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewClient(tenantID, ClientDetails{Name: "X", Phone: "22345678", Email: "nope"})
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewClient(tenantID, ClientDetails{Name: "  ", Phone: "22345678"})
		assert.Error(t, err)
	})
}

func TestClient_Credit(t *testing.T) {
	c, err := NewClient(uuid.New(), ClientDetails{Name: "Amira", Phone: "98765432"})
	require.NoError(t, err)

	require.NoError(t, c.SetCreditLimit(decimal.NewFromInt(1000)))
	c.UpdateCredit(decimal.NewFromInt(300))
	assert.True(t, c.CreditAvailable().Equal(decimal.NewFromInt(700)))

	c.UpdateCredit(decimal.NewFromInt(-500))
	assert.True(t, c.CreditUsed.IsZero())

	assert.Error(t, c.SetCreditLimit(decimal.NewFromInt(-1)))
}
