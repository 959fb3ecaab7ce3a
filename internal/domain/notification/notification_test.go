package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	n, err := New(uuid.New(), "Stock faible", "Il reste 2 unité de Sucre", TypeLowStock, ProductsLink)
	require.NoError(t, err)
	assert.False(t, n.IsRead)
	assert.Equal(t, ProductsLink, n.Link)

	sys, err := New(uuid.New(), "Info", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, TypeSystem, sys.Type)

	_, err = New(uuid.New(), "", "msg", TypeSystem, "")
	assert.Error(t, err)
	_, err = New(uuid.New(), "x", "msg", "promo", "")
	assert.Error(t, err)
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := New(uuid.New(), "t", "m", TypeSystem, "")
	require.NoError(t, err)
	n.MarkRead()
	assert.True(t, n.IsRead)
	updated := n.UpdatedAt
	n.MarkRead()
	assert.Equal(t, updated, n.UpdatedAt)
}
