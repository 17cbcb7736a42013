package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/request"
	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/domain"
)

type TicketTypeService interface {
	Create(ctx context.Context, actor domain.Actor, tt domain.TicketType) (domain.TicketType, error)
	Get(ctx context.Context, id string) (domain.TicketType, error)
	List(ctx context.Context, eventID string) ([]domain.TicketType, error)
	AvailableQuantity(ctx context.Context, id string) (int, error)
	IsAvailable(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.TicketType)) (domain.TicketType, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type TicketTypeHandler struct {
	svc TicketTypeService
}

func NewTicketTypeHandler(svc TicketTypeService) *TicketTypeHandler {
	return &TicketTypeHandler{
		svc: svc,
	}
}

// HandleCreateTicketType godoc
// @Summary      Create a ticket type for an event
// @Tags         ticket-types
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTicketTypeRequest  true  "request body"
// @Success      201  {object}  domain.TicketType
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /ticket-types [post]
// @Security BearerAuth
func (h *TicketTypeHandler) HandleCreateTicketType(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.CreateTicketTypeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	tt, err := h.svc.Create(ctx.Request.Context(), actor, req.ToDomain())
	if err != nil {
		renderErr(ctx, "v1.HandleCreateTicketType -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, tt)
}

// HandleListTicketTypes godoc
// @Summary      List ticket types
// @Tags         ticket-types
// @Produce      json
// @Param        eventId  query  string  false  "event ID"
// @Success      200  {array}   domain.TicketType
// @Router       /ticket-types [get]
// @Security BearerAuth
func (h *TicketTypeHandler) HandleListTicketTypes(ctx *gin.Context) {
	h.list(ctx, ctx.Query("eventId"))
}

// HandleListEventTicketTypes godoc
// @Summary      List the ticket types of an event
// @Tags         ticket-types
// @Produce      json
// @Param        eventId  path  string  true  "event ID"
// @Success      200  {array}   domain.TicketType
// @Router       /ticket-types/event/{eventId} [get]
// @Security BearerAuth
func (h *TicketTypeHandler) HandleListEventTicketTypes(ctx *gin.Context) {
	h.list(ctx, ctx.Param("eventId"))
}

func (h *TicketTypeHandler) list(ctx *gin.Context, eventID string) {
	types, err := h.svc.List(ctx.Request.Context(), eventID)
	if err != nil {
		renderErr(ctx, "v1.TicketTypeHandler.list -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, types)
}

// HandleGetTicketType godoc
// @Summary      Get a ticket type
// @Tags         ticket-types
// @Produce      json
// @Param        id   path      string  true  "ticket type ID"
// @Success      200  {object}  domain.TicketType
// @Failure      404  {object}  response.Err
// @Router       /ticket-types/{id} [get]
// @Security BearerAuth
func (h *TicketTypeHandler) HandleGetTicketType(ctx *gin.Context) {
	tt, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetTicketType -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, tt)
}

// HandleAvailableQuantity godoc
// @Summary      Tickets left for a ticket type
// @Tags         ticket-types
// @Produce      json
// @Param        id   path      string  true  "ticket type ID"
// @Success      200  {object}  response.AvailableResponse
// @Failure      404  {object}  response.Err
// @Router       /ticket-types/{id}/available [get]
// @Security BearerAuth
func (h *TicketTypeHandler) HandleAvailableQuantity(ctx *gin.Context) {
	id := ctx.Param("id")

	n, err := h.svc.AvailableQuantity(ctx.Request.Context(), id)
	if err != nil {
		renderErr(ctx, "v1.HandleAvailableQuantity -> h.svc.AvailableQuantity", err)
		return
	}

	ctx.JSON(http.StatusOK, response.AvailableResponse{TicketTypeID: id, Available: n})
}

// HandleIsAvailable godoc
// @Summary      Whether a ticket type can be bought now
// @Tags         ticket-types
// @Produce      json
// @Param        id   path      string  true  "ticket type ID"
// @Success      200  {object}  response.IsAvailableResponse
// @Failure      404  {object}  response.Err
// @Router       /ticket-types/{id}/is-available [get]
// @Security BearerAuth
func (h *TicketTypeHandler) HandleIsAvailable(ctx *gin.Context) {
	id := ctx.Param("id")

	available, err := h.svc.IsAvailable(ctx.Request.Context(), id)
	if err != nil {
		renderErr(ctx, "v1.HandleIsAvailable -> h.svc.IsAvailable", err)
		return
	}

	ctx.JSON(http.StatusOK, response.IsAvailableResponse{TicketTypeID: id, IsAvailable: available})
}

// HandleUpdateTicketType godoc
// @Summary      Update a ticket type
// @Tags         ticket-types
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "ticket type ID"
// @Param        request  body      request.UpdateTicketTypeRequest  true  "fields to change"
// @Success      200  {object}  domain.TicketType
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /ticket-types/{id} [patch]
// @Security BearerAuth
func (h *TicketTypeHandler) HandleUpdateTicketType(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.UpdateTicketTypeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	tt, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), req.Apply)
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateTicketType -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, tt)
}

// HandleDeleteTicketType godoc
// @Summary      Delete a ticket type without sold tickets
// @Tags         ticket-types
// @Param        id   path  string  true  "ticket type ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /ticket-types/{id} [delete]
// @Security BearerAuth
func (h *TicketTypeHandler) HandleDeleteTicketType(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		renderErr(ctx, "v1.HandleDeleteTicketType -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
