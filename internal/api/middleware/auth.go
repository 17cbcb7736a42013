package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/pkg/jwthelper"
)

const (
	CtxKeyUserID = "userID"
	CtxKeyRole   = "role"
)

var errMissingToken = errors.New("missing bearer token")

type Authenticator struct {
	key []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		key: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores the
// caller's id and role on the context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(fmt.Errorf("jwthelper.ParseToken -> %w", err)))
			return
		}

		ctx.Set(CtxKeyUserID, claims.UserID)
		ctx.Set(CtxKeyRole, claims.Role)
		ctx.Next()
	}
}

// RequireRoles lets the request through only for the listed roles.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, ok := Actor(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}
		if !actor.HasRole(roles...) {
			response.RenderErr(ctx, response.ErrPermissionDenied(
				fmt.Errorf("This action requires one of the roles: %s", joinRoles(roles)),
			))
			return
		}

		ctx.Next()
	}
}

// Actor returns the caller stored by VerifyJWT.
func Actor(ctx *gin.Context) (domain.Actor, bool) {
	userID := ctx.GetString(CtxKeyUserID)
	if userID == "" {
		return domain.Actor{}, false
	}

	return domain.Actor{
		UserID: userID,
		Role:   domain.Role(ctx.GetString(CtxKeyRole)),
	}, true
}

func joinRoles(roles []domain.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
