package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/api/middleware"
	"github.com/ormeet/ormeet-api/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testOrganizer = domain.Actor{UserID: "org-1", Role: domain.RoleOrganizer}
	testUser      = domain.Actor{UserID: "user-1", Role: domain.RoleUser}
)

// as stands in for VerifyJWT; a zero actor leaves the request anonymous.
func as(actor domain.Actor) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if actor.UserID != "" {
			ctx.Set(middleware.CtxKeyUserID, actor.UserID)
			ctx.Set(middleware.CtxKeyRole, string(actor.Role))
		}
		ctx.Next()
	}
}

func serve(r *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) response.Err {
	t.Helper()

	var body response.Err
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
