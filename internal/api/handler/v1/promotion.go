package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/request"
	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/domain"
)

type PromotionService interface {
	Create(ctx context.Context, actor domain.Actor, p domain.Promotion) (domain.Promotion, error)
	Get(ctx context.Context, id string) (domain.Promotion, error)
	FindByCode(ctx context.Context, code string) (domain.Promotion, error)
	List(ctx context.Context, filter domain.PromotionFilter) ([]domain.Promotion, error)
	Validate(ctx context.Context, code string) (domain.PromotionValidation, error)
	Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Promotion)) (domain.Promotion, error)
	Deactivate(ctx context.Context, actor domain.Actor, id string) (domain.Promotion, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type PromotionHandler struct {
	svc PromotionService
}

func NewPromotionHandler(svc PromotionService) *PromotionHandler {
	return &PromotionHandler{
		svc: svc,
	}
}

// HandleCreatePromotion godoc
// @Summary      Create a promotion code
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreatePromotionRequest  true  "request body"
// @Success      201  {object}  domain.Promotion
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /promotions [post]
// @Security BearerAuth
func (h *PromotionHandler) HandleCreatePromotion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.CreatePromotionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := h.svc.Create(ctx.Request.Context(), actor, req.ToDomain())
	if err != nil {
		renderErr(ctx, "v1.HandleCreatePromotion -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// HandleListPromotions godoc
// @Summary      List promotions
// @Tags         promotions
// @Produce      json
// @Param        eventId   query  string  false  "event ID"
// @Param        isActive  query  bool    false  "active flag"
// @Success      200  {array}   domain.Promotion
// @Failure      400  {object}  response.Err
// @Router       /promotions [get]
// @Security BearerAuth
func (h *PromotionHandler) HandleListPromotions(ctx *gin.Context) {
	active, err := queryBool(ctx, "isActive")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	promotions, err := h.svc.List(ctx.Request.Context(), domain.PromotionFilter{
		EventID:  ctx.Query("eventId"),
		IsActive: active,
	})
	if err != nil {
		renderErr(ctx, "v1.HandleListPromotions -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, promotions)
}

// HandleGetPromotionByCode godoc
// @Summary      Get a promotion by code
// @Tags         promotions
// @Produce      json
// @Param        code  path      string  true  "promotion code"
// @Success      200  {object}  domain.Promotion
// @Failure      404  {object}  response.Err
// @Router       /promotions/code/{code} [get]
// @Security BearerAuth
func (h *PromotionHandler) HandleGetPromotionByCode(ctx *gin.Context) {
	p, err := h.svc.FindByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetPromotionByCode -> h.svc.FindByCode", err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleValidatePromotion godoc
// @Summary      Check whether a promotion code can be used now
// @Description  Unknown or unusable codes answer 200 with valid=false and a reason.
// @Tags         promotions
// @Produce      json
// @Param        code  path      string  true  "promotion code"
// @Success      200  {object}  domain.PromotionValidation
// @Router       /promotions/validate/{code} [post]
func (h *PromotionHandler) HandleValidatePromotion(ctx *gin.Context) {
	res, err := h.svc.Validate(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		renderErr(ctx, "v1.HandleValidatePromotion -> h.svc.Validate", err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

// HandleGetPromotion godoc
// @Summary      Get a promotion
// @Tags         promotions
// @Produce      json
// @Param        id   path      string  true  "promotion ID"
// @Success      200  {object}  domain.Promotion
// @Failure      404  {object}  response.Err
// @Router       /promotions/{id} [get]
// @Security BearerAuth
func (h *PromotionHandler) HandleGetPromotion(ctx *gin.Context) {
	p, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetPromotion -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleUpdatePromotion godoc
// @Summary      Update a promotion
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "promotion ID"
// @Param        request  body      request.UpdatePromotionRequest  true  "fields to change"
// @Success      200  {object}  domain.Promotion
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /promotions/{id} [patch]
// @Security BearerAuth
func (h *PromotionHandler) HandleUpdatePromotion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.UpdatePromotionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), req.Apply)
	if err != nil {
		renderErr(ctx, "v1.HandleUpdatePromotion -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleDeactivatePromotion godoc
// @Summary      Deactivate a promotion
// @Tags         promotions
// @Produce      json
// @Param        id   path      string  true  "promotion ID"
// @Success      200  {object}  domain.Promotion
// @Failure      403  {object}  response.Err
// @Router       /promotions/{id}/deactivate [post]
// @Security BearerAuth
func (h *PromotionHandler) HandleDeactivatePromotion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	p, err := h.svc.Deactivate(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleDeactivatePromotion -> h.svc.Deactivate", err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleDeletePromotion godoc
// @Summary      Delete a promotion
// @Tags         promotions
// @Param        id   path  string  true  "promotion ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Router       /promotions/{id} [delete]
// @Security BearerAuth
func (h *PromotionHandler) HandleDeletePromotion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		renderErr(ctx, "v1.HandleDeletePromotion -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
