package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/request"
	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/domain"
)

type ReviewService interface {
	Create(ctx context.Context, actor domain.Actor, review domain.Review) (domain.Review, error)
	Get(ctx context.Context, id string) (domain.Review, error)
	List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Review, error)
	AverageRating(ctx context.Context, eventID string) (float64, error)
	Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Review)) (domain.Review, error)
	Approve(ctx context.Context, actor domain.Actor, id string) (domain.Review, error)
	Reject(ctx context.Context, actor domain.Actor, id string) (domain.Review, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type ReviewHandler struct {
	svc ReviewService
}

func NewReviewHandler(svc ReviewService) *ReviewHandler {
	return &ReviewHandler{
		svc: svc,
	}
}

// HandleCreateReview godoc
// @Summary      Review an event
// @Description  One review per user and event. Reviews wait for approval.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateReviewRequest  true  "request body"
// @Success      201  {object}  domain.Review
// @Failure      400  {object}  response.Err
// @Router       /reviews [post]
// @Security BearerAuth
func (h *ReviewHandler) HandleCreateReview(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.CreateReviewRequest
	if !bindJSON(ctx, &req) {
		return
	}

	review, err := h.svc.Create(ctx.Request.Context(), actor, req.ToDomain())
	if err != nil {
		renderErr(ctx, "v1.HandleCreateReview -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, review)
}

// HandleListReviews godoc
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        eventId   query  string  false  "event ID"
// @Param        userId    query  string  false  "author ID"
// @Param        approved  query  bool    false  "approval flag"
// @Success      200  {array}   domain.Review
// @Failure      400  {object}  response.Err
// @Router       /reviews [get]
// @Security BearerAuth
func (h *ReviewHandler) HandleListReviews(ctx *gin.Context) {
	approved, err := queryBool(ctx, "approved")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reviews, err := h.svc.List(ctx.Request.Context(), domain.ReviewFilter{
		EventID:  ctx.Query("eventId"),
		UserID:   ctx.Query("userId"),
		Approved: approved,
	})
	if err != nil {
		renderErr(ctx, "v1.HandleListReviews -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

// HandleListEventReviews godoc
// @Summary      List the approved reviews of an event
// @Tags         reviews
// @Produce      json
// @Param        eventId  path  string  true  "event ID"
// @Success      200  {array}   domain.Review
// @Router       /reviews/event/{eventId} [get]
// @Security BearerAuth
func (h *ReviewHandler) HandleListEventReviews(ctx *gin.Context) {
	reviews, err := h.svc.ListByEvent(ctx.Request.Context(), ctx.Param("eventId"))
	if err != nil {
		renderErr(ctx, "v1.HandleListEventReviews -> h.svc.ListByEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

// HandleEventAverageRating godoc
// @Summary      Average approved rating of an event
// @Tags         reviews
// @Produce      json
// @Param        eventId  path  string  true  "event ID"
// @Success      200  {object}  response.AverageRatingResponse
// @Router       /reviews/event/{eventId}/average [get]
// @Security BearerAuth
func (h *ReviewHandler) HandleEventAverageRating(ctx *gin.Context) {
	eventID := ctx.Param("eventId")

	avg, err := h.svc.AverageRating(ctx.Request.Context(), eventID)
	if err != nil {
		renderErr(ctx, "v1.HandleEventAverageRating -> h.svc.AverageRating", err)
		return
	}

	ctx.JSON(http.StatusOK, response.AverageRatingResponse{EventID: eventID, AverageRating: avg})
}

// HandleGetReview godoc
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "review ID"
// @Success      200  {object}  domain.Review
// @Failure      404  {object}  response.Err
// @Router       /reviews/{id} [get]
// @Security BearerAuth
func (h *ReviewHandler) HandleGetReview(ctx *gin.Context) {
	review, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetReview -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, review)
}

// HandleUpdateReview godoc
// @Summary      Edit a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "review ID"
// @Param        request  body      request.UpdateReviewRequest  true  "fields to change"
// @Success      200  {object}  domain.Review
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /reviews/{id} [patch]
// @Security BearerAuth
func (h *ReviewHandler) HandleUpdateReview(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.UpdateReviewRequest
	if !bindJSON(ctx, &req) {
		return
	}

	review, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), req.Apply)
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateReview -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, review)
}

// HandleApproveReview godoc
// @Summary      Approve a review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "review ID"
// @Success      200  {object}  domain.Review
// @Failure      403  {object}  response.Err
// @Router       /reviews/{id}/approve [post]
// @Security BearerAuth
func (h *ReviewHandler) HandleApproveReview(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	review, err := h.svc.Approve(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleApproveReview -> h.svc.Approve", err)
		return
	}

	ctx.JSON(http.StatusOK, review)
}

// HandleRejectReview godoc
// @Summary      Reject a review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "review ID"
// @Success      200  {object}  domain.Review
// @Failure      403  {object}  response.Err
// @Router       /reviews/{id}/reject [post]
// @Security BearerAuth
func (h *ReviewHandler) HandleRejectReview(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	review, err := h.svc.Reject(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleRejectReview -> h.svc.Reject", err)
		return
	}

	ctx.JSON(http.StatusOK, review)
}

// HandleDeleteReview godoc
// @Summary      Delete a review
// @Tags         reviews
// @Param        id   path  string  true  "review ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Router       /reviews/{id} [delete]
// @Security BearerAuth
func (h *ReviewHandler) HandleDeleteReview(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		renderErr(ctx, "v1.HandleDeleteReview -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
