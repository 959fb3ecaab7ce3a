package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/shared"
)

func createTestQuote(t *testing.T, clientID *uuid.UUID) *Quote {
	t.Helper()
	q, err := NewQuote(uuid.New(), QuoteDetails{
		ClientID:   clientID,
		ClientName: "Prospect Nabeul",
		Lines:      testLines(),
	})
	require.NoError(t, err)
	return q
}

func TestQuoteStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, QuoteStatusDraft.CanTransitionTo(QuoteStatusSent))
	assert.True(t, QuoteStatusSent.CanTransitionTo(QuoteStatusRejected))
	assert.False(t, QuoteStatusAccepted.CanTransitionTo(QuoteStatusDraft))
	assert.False(t, QuoteStatusRejected.CanTransitionTo(QuoteStatusAccepted))
	assert.False(t, QuoteStatusSent.CanTransitionTo(QuoteStatusDraft))
}

func TestNewQuote(t *testing.T) {
	q := createTestQuote(t, nil)
	assert.Equal(t, QuoteStatusDraft, q.Status)
	assert.True(t, q.TotalTTC.Equal(d("24.8")))
	assert.Nil(t, q.ClientID)
}

func TestQuote_CheckConvertible(t *testing.T) {
	now := time.Now()

	t.Run("prospect cannot be converted", func(t *testing.T) {
		q := createTestQuote(t, nil)
		assert.ErrorIs(t, q.CheckConvertible(now), shared.ErrInvalidInput)
	})

	t.Run("rejected quote cannot be converted", func(t *testing.T) {
		clientID := uuid.New()
		q := createTestQuote(t, &clientID)
		require.NoError(t, q.ChangeStatus(QuoteStatusRejected))
		assert.ErrorIs(t, q.CheckConvertible(now), shared.ErrInvalidState)
	})

	t.Run("past validity cannot be converted", func(t *testing.T) {
		clientID := uuid.New()
		q := createTestQuote(t, &clientID)
		yesterday := now.AddDate(0, 0, -2)
		q.ValidUntil = &yesterday
		assert.ErrorIs(t, q.CheckConvertible(now), shared.ErrInvalidState)
	})

	t.Run("client quote converts once", func(t *testing.T) {
		clientID := uuid.New()
		q := createTestQuote(t, &clientID)
		require.NoError(t, q.CheckConvertible(now))
		assert.Len(t, q.SaleLines(), 2)

		q.MarkConverted(uuid.New())
		assert.Equal(t, QuoteStatusAccepted, q.Status)
		assert.Error(t, q.CheckConvertible(now))
	})
}

func TestQuote_UpdateOnlyWhileOpen(t *testing.T) {
	q := createTestQuote(t, nil)
	require.NoError(t, q.ChangeStatus(QuoteStatusRejected))
	err := q.Update(QuoteDetails{ClientName: "X", Lines: testLines()})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
