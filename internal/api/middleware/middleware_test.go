package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/pkg/jwthelper"
)

const signingKey = "test-signing-key"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(NewAuthenticator(signingKey).VerifyJWT())
	r.GET("/me", func(ctx *gin.Context) {
		actor, _ := Actor(ctx)
		ctx.JSON(http.StatusOK, gin.H{"id": actor.UserID, "role": actor.Role})
	})
	r.GET("/admin", RequireRoles(domain.RoleAdmin, domain.RoleOrganizer), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	return r
}

func bearer(t *testing.T, userID string, role domain.Role) string {
	t.Helper()

	token, err := jwthelper.GenerateToken([]byte(signingKey), userID, string(role), "test", time.Hour)
	require.NoError(t, err)

	return "Bearer " + token
}

func TestAuthenticator_VerifyJWT(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid token", bearer(t, "user-1", domain.RoleUser), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthenticator_WrongKey(t *testing.T) {
	token, err := jwthelper.GenerateToken([]byte("another-key"), "user-1", "admin", "test", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newAuthRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	r := newAuthRouter()

	for role, status := range map[domain.Role]int{
		domain.RoleAdmin:     http.StatusNoContent,
		domain.RoleOrganizer: http.StatusNoContent,
		domain.RoleUser:      http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", bearer(t, "user-1", role))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, status, rec.Code, role)
	}
}

func TestRateLimiter(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 2)
	limiter.now = func() time.Time { return time.Unix(6000, 0) }

	r := gin.New()
	r.Use(limiter.Limit())
	r.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	key := "ratelimit:192.0.2.1:100"
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	for _, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Code)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(ctx *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Internal server error"`)
}
