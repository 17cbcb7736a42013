package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/service"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"bad request", service.BadRequest("Ticket already checked in for this event"), http.StatusBadRequest, "Ticket already checked in for this event"},
		{"wrapped not found", fmt.Errorf("op -> %w", service.NotFound("Order with ID 1 not found")), http.StatusNotFound, "Order with ID 1 not found"},
		{"forbidden", service.Forbidden("Only the owner can do that"), http.StatusForbidden, "Only the owner can do that"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromError(tt.err)
			assert.Equal(t, tt.status, e.StatusCode)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func TestRenderErr(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/refund", nil)

	RenderErr(ctx, FromError(service.BadRequest("Only paid orders can be refunded")))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 400, body["statusCode"])
	assert.Equal(t, "Bad Request", body["error"])
	assert.Equal(t, "Only paid orders can be refunded", body["message"])
	assert.Equal(t, "/api/v1/orders/1/refund", body["path"])
	assert.Equal(t, "POST", body["method"])
	assert.NotEmpty(t, body["timestamp"])
	assert.True(t, ctx.IsAborted())
}
