package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/request"
	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/service"
)

type TicketService interface {
	Create(ctx context.Context, actor domain.Actor, in service.CreateTicketInput) (domain.Ticket, error)
	Get(ctx context.Context, id string) (domain.Ticket, error)
	FindByCode(ctx context.Context, code string) (domain.Ticket, error)
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
	UpdateSeat(ctx context.Context, actor domain.Actor, id string, seat domain.Seat) (domain.Ticket, error)
	Cancel(ctx context.Context, actor domain.Actor, id string) (domain.Ticket, error)
	MarkAsUsed(ctx context.Context, actor domain.Actor, id string) (domain.Ticket, error)
	Transfer(ctx context.Context, actor domain.Actor, id, newOwnerID string) (domain.Ticket, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{
		svc: svc,
	}
}

// HandleCreateTicket godoc
// @Summary      Issue a ticket by hand
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTicketRequest  true  "request body"
// @Success      201  {object}  domain.Ticket
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /tickets [post]
// @Security BearerAuth
func (h *TicketHandler) HandleCreateTicket(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.CreateTicketRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ticket, err := h.svc.Create(ctx.Request.Context(), actor, req.ToInput())
	if err != nil {
		renderErr(ctx, "v1.HandleCreateTicket -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

// HandleListTickets godoc
// @Summary      List tickets
// @Description  Plain users only see the tickets they own.
// @Tags         tickets
// @Produce      json
// @Param        userId   query  string  false  "owner ID"
// @Param        orderId  query  string  false  "order ID"
// @Param        status   query  string  false  "active, used or cancelled"
// @Success      200  {array}   domain.Ticket
// @Router       /tickets [get]
// @Security BearerAuth
func (h *TicketHandler) HandleListTickets(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	filter := domain.TicketFilter{
		OwnerID: ctx.Query("userId"),
		OrderID: ctx.Query("orderId"),
		EventID: ctx.Query("eventId"),
		Status:  domain.TicketStatus(ctx.Query("status")),
	}
	if !actor.HasRole(domain.RoleAdmin, domain.RoleOrganizer) {
		filter.OwnerID = actor.UserID
	}

	tickets, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		renderErr(ctx, "v1.HandleListTickets -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetTicketByCode godoc
// @Summary      Look up a ticket by its QR code
// @Tags         tickets
// @Produce      json
// @Param        code  path      string  true  "ticket code"
// @Success      200  {object}  domain.Ticket
// @Failure      404  {object}  response.Err
// @Router       /tickets/qr/{code} [get]
func (h *TicketHandler) HandleGetTicketByCode(ctx *gin.Context) {
	ticket, err := h.svc.FindByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetTicketByCode -> h.svc.FindByCode", err)
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleListUserTickets godoc
// @Summary      List the tickets of a user
// @Tags         tickets
// @Produce      json
// @Param        userId  path  string  true  "user ID"
// @Success      200  {array}   domain.Ticket
// @Failure      403  {object}  response.Err
// @Router       /tickets/user/{userId} [get]
// @Security BearerAuth
func (h *TicketHandler) HandleListUserTickets(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	userID := ctx.Param("userId")
	if !selfOrStaff(ctx, actor, userID) {
		return
	}

	tickets, err := h.svc.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		renderErr(ctx, "v1.HandleListUserTickets -> h.svc.ListByUser", err)
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetTicket godoc
// @Summary      Get a ticket
// @Tags         tickets
// @Produce      json
// @Param        id   path      string  true  "ticket ID"
// @Success      200  {object}  domain.Ticket
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /tickets/{id} [get]
// @Security BearerAuth
func (h *TicketHandler) HandleGetTicket(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	ticket, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetTicket -> h.svc.Get", err)
		return
	}
	if !selfOrStaff(ctx, actor, ticket.OwnerID) {
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleUpdateTicket godoc
// @Summary      Change the seat of a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "ticket ID"
// @Param        request  body      request.UpdateTicketRequest  true  "seat"
// @Success      200  {object}  domain.Ticket
// @Failure      403  {object}  response.Err
// @Router       /tickets/{id} [patch]
// @Security BearerAuth
func (h *TicketHandler) HandleUpdateTicket(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.UpdateTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.UpdateSeat(ctx.Request.Context(), actor, ctx.Param("id"), req.Seat())
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateTicket -> h.svc.UpdateSeat", err)
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleCancelTicket godoc
// @Summary      Cancel a ticket
// @Tags         tickets
// @Produce      json
// @Param        id   path      string  true  "ticket ID"
// @Success      200  {object}  domain.Ticket
// @Failure      400  {object}  response.Err
// @Router       /tickets/{id}/cancel [post]
// @Security BearerAuth
func (h *TicketHandler) HandleCancelTicket(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	ticket, err := h.svc.Cancel(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleCancelTicket -> h.svc.Cancel", err)
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleUseTicket godoc
// @Summary      Mark a ticket used
// @Tags         tickets
// @Produce      json
// @Param        id   path      string  true  "ticket ID"
// @Success      200  {object}  domain.Ticket
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /tickets/{id}/use [post]
// @Security BearerAuth
func (h *TicketHandler) HandleUseTicket(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	ticket, err := h.svc.MarkAsUsed(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleUseTicket -> h.svc.MarkAsUsed", err)
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleTransferTicket godoc
// @Summary      Give a ticket to another user
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "ticket ID"
// @Param        request  body      request.TransferTicketRequest  true  "new owner"
// @Success      200  {object}  domain.Ticket
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /tickets/{id}/transfer [post]
// @Security BearerAuth
func (h *TicketHandler) HandleTransferTicket(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.TransferTicketRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ticket, err := h.svc.Transfer(ctx.Request.Context(), actor, ctx.Param("id"), req.NewOwnerID)
	if err != nil {
		renderErr(ctx, "v1.HandleTransferTicket -> h.svc.Transfer", err)
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleDeleteTicket godoc
// @Summary      Delete a ticket
// @Tags         tickets
// @Param        id   path  string  true  "ticket ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Router       /tickets/{id} [delete]
// @Security BearerAuth
func (h *TicketHandler) HandleDeleteTicket(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		renderErr(ctx, "v1.HandleDeleteTicket -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
