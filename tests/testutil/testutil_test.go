package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseEvent: shared.NewBaseEvent(eventType, uuid.New(), uuid.New())}
}

func TestEventRecorder(t *testing.T) {
	r := NewEventRecorder()
	assert.Nil(t, r.EventTypes())

	require.NoError(t, r.Handle(context.Background(), newTestEvent("A")))
	require.NoError(t, r.Handle(context.Background(), newTestEvent("B")))
	require.NoError(t, r.Handle(context.Background(), newTestEvent("A")))

	assert.Len(t, r.Events(), 3)
	assert.Len(t, r.OfType("A"), 2)
	assert.Empty(t, r.OfType("C"))

	r.Reset()
	assert.Empty(t, r.Events())
}

func TestAPIClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"name":  body["name"],
			"token": c.GetHeader("Authorization"),
		}})
	})

	client := NewAPIClient(t, engine).WithToken("abc")
	w := client.Do(http.MethodPost, "/echo", map[string]string{"name": "Sami"})
	RequireStatus(t, w, http.StatusOK)

	var data struct {
		Name  string `json:"name"`
		Token string `json:"token"`
	}
	env := Decode(t, w, &data)
	assert.True(t, env.Success)
	assert.Equal(t, "Sami", data.Name)
	assert.Equal(t, "Bearer abc", data.Token)
}
