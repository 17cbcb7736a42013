package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/api/middleware"
	"github.com/ormeet/ormeet-api/internal/domain"
)

var (
	errNoActor    = errors.New("missing authenticated user")
	errNotYours   = errors.New("You can only access your own resources")
	errBadBoolean = errors.New("must be true or false")
)

type validatable interface {
	Validate() error
}

// bindJSON decodes and validates the body, rendering a 400 on failure.
func bindJSON(ctx *gin.Context, req validatable) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	return true
}

func currentActor(ctx *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errNoActor))
		return domain.Actor{}, false
	}

	return actor, true
}

// selfOrStaff passes for the user itself and for admins and organizers.
func selfOrStaff(ctx *gin.Context, actor domain.Actor, userID string) bool {
	if actor.UserID == userID || actor.HasRole(domain.RoleAdmin, domain.RoleOrganizer) {
		return true
	}

	response.RenderErr(ctx, response.ErrPermissionDenied(errNotYours))
	return false
}

func renderErr(ctx *gin.Context, op string, err error) {
	response.RenderErr(ctx, response.FromError(fmt.Errorf("%s -> %w", op, err)))
}

func queryBool(ctx *gin.Context, key string) (*bool, error) {
	raw, ok := ctx.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, errBadBoolean)
	}

	return &v, nil
}

func queryInt(ctx *gin.Context, key string) (*int, error) {
	raw, ok := ctx.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: must be an integer", key)
	}

	return &v, nil
}
