package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/request"
	"github.com/ormeet/ormeet-api/internal/domain"
)

type EventService interface {
	Create(ctx context.Context, actor domain.Actor, event domain.Event) (domain.Event, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Event)) (domain.Event, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Publish(ctx context.Context, actor domain.Actor, id string) (domain.Event, error)
	Cancel(ctx context.Context, actor domain.Actor, id string) (domain.Event, error)
	IncrementViews(ctx context.Context, id string) (domain.Event, error)
	IncrementFavorites(ctx context.Context, id string) (domain.Event, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  The caller becomes the organizer. Events start as drafts unless a status is given.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "request body"
// @Success      201  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.CreateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	event, err := h.svc.Create(ctx.Request.Context(), actor, req.ToDomain())
	if err != nil {
		renderErr(ctx, "v1.HandleCreateEvent -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleListEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        status       query  string  false  "draft, published or cancelled"
// @Param        category     query  string  false  "category"
// @Param        organizerId  query  string  false  "organizer user ID"
// @Success      200  {array}   domain.Event
// @Router       /events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.List(ctx.Request.Context(), domain.EventFilter{
		Status:      domain.EventStatus(ctx.Query("status")),
		Category:    ctx.Query("category"),
		OrganizerID: ctx.Query("organizerId"),
	})
	if err != nil {
		renderErr(ctx, "v1.HandleListEvents -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "event ID"
// @Success      200  {object}  domain.Event
// @Failure      404  {object}  response.Err
// @Router       /events/{id} [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	event, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetEvent -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "event ID"
// @Param        request  body      request.UpdateEventRequest  true  "fields to change"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /events/{id} [patch]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.UpdateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	event, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), req.Apply)
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateEvent -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Tags         events
// @Param        id   path  string  true  "event ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /events/{id} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		renderErr(ctx, "v1.HandleDeleteEvent -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandlePublishEvent godoc
// @Summary      Publish a draft event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "event ID"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /events/{id}/publish [post]
// @Security BearerAuth
func (h *EventHandler) HandlePublishEvent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	event, err := h.svc.Publish(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandlePublishEvent -> h.svc.Publish", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCancelEvent godoc
// @Summary      Cancel an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "event ID"
// @Success      200  {object}  domain.Event
// @Failure      403  {object}  response.Err
// @Router       /events/{id}/cancel [post]
// @Security BearerAuth
func (h *EventHandler) HandleCancelEvent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	event, err := h.svc.Cancel(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleCancelEvent -> h.svc.Cancel", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleViewEvent godoc
// @Summary      Count a view of an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "event ID"
// @Success      200  {object}  domain.Event
// @Failure      404  {object}  response.Err
// @Router       /events/{id}/view [post]
// @Security BearerAuth
func (h *EventHandler) HandleViewEvent(ctx *gin.Context) {
	event, err := h.svc.IncrementViews(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleViewEvent -> h.svc.IncrementViews", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleFavoriteEvent godoc
// @Summary      Count a favorite of an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "event ID"
// @Success      200  {object}  domain.Event
// @Failure      404  {object}  response.Err
// @Router       /events/{id}/favorite [post]
// @Security BearerAuth
func (h *EventHandler) HandleFavoriteEvent(ctx *gin.Context) {
	event, err := h.svc.IncrementFavorites(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleFavoriteEvent -> h.svc.IncrementFavorites", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}
