package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/request"
	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/service"
)

type OrderService interface {
	Create(ctx context.Context, actor domain.Actor, in service.CreateOrderInput) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Update(ctx context.Context, actor domain.Actor, id string, billing domain.Billing) (domain.Order, error)
	ProcessPayment(ctx context.Context, actor domain.Actor, id, provider, paymentID string) (domain.Order, error)
	MarkFailed(ctx context.Context, actor domain.Actor, id string) (domain.Order, error)
	Refund(ctx context.Context, id string) (domain.Order, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{
		svc: svc,
	}
}

// HandleCreateOrder godoc
// @Summary      Place an order
// @Description  Creates a pending order for the caller. Unit prices must match the ticket types.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateOrderRequest  true  "request body"
// @Success      201  {object}  domain.Order
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /orders [post]
// @Security BearerAuth
func (h *OrderHandler) HandleCreateOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.CreateOrderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	order, err := h.svc.Create(ctx.Request.Context(), actor, req.ToInput())
	if err != nil {
		renderErr(ctx, "v1.HandleCreateOrder -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleListOrders godoc
// @Summary      List orders
// @Description  Plain users only see their own orders.
// @Tags         orders
// @Produce      json
// @Param        userId   query  string  false  "buyer ID"
// @Param        eventId  query  string  false  "event ID"
// @Param        status   query  string  false  "pending, paid, failed or refunded"
// @Success      200  {array}   domain.Order
// @Router       /orders [get]
// @Security BearerAuth
func (h *OrderHandler) HandleListOrders(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	filter := domain.OrderFilter{
		UserID:  ctx.Query("userId"),
		EventID: ctx.Query("eventId"),
		Status:  domain.OrderStatus(ctx.Query("status")),
	}
	if !actor.HasRole(domain.RoleAdmin, domain.RoleOrganizer) {
		filter.UserID = actor.UserID
	}

	orders, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		renderErr(ctx, "v1.HandleListOrders -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleListUserOrders godoc
// @Summary      List the orders of a user
// @Tags         orders
// @Produce      json
// @Param        userId  path  string  true  "user ID"
// @Success      200  {array}   domain.Order
// @Failure      403  {object}  response.Err
// @Router       /orders/user/{userId} [get]
// @Security BearerAuth
func (h *OrderHandler) HandleListUserOrders(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	userID := ctx.Param("userId")
	if !selfOrStaff(ctx, actor, userID) {
		return
	}

	orders, err := h.svc.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		renderErr(ctx, "v1.HandleListUserOrders -> h.svc.ListByUser", err)
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleGetOrder godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "order ID"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /orders/{id} [get]
// @Security BearerAuth
func (h *OrderHandler) HandleGetOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	order, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetOrder -> h.svc.Get", err)
		return
	}
	if !selfOrStaff(ctx, actor, order.UserID) {
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleUpdateOrder godoc
// @Summary      Update the billing details of an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "order ID"
// @Param        request  body      request.UpdateOrderRequest  true  "billing fields to change"
// @Success      200  {object}  domain.Order
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /orders/{id} [patch]
// @Security BearerAuth
func (h *OrderHandler) HandleUpdateOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.UpdateOrderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	current, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateOrder -> h.svc.Get", err)
		return
	}

	order, err := h.svc.Update(ctx.Request.Context(), actor, current.ID, req.Merge(current.Billing))
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateOrder -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleProcessPayment godoc
// @Summary      Capture the payment of a pending order
// @Description  Verifies the payment with the provider, then marks the order paid and issues its tickets.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "order ID"
// @Param        request  body      request.ProcessPaymentRequest  true  "payment reference"
// @Success      200  {object}  domain.Order
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /orders/{id}/payment [post]
// @Security BearerAuth
func (h *OrderHandler) HandleProcessPayment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.ProcessPaymentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	order, err := h.svc.ProcessPayment(ctx.Request.Context(), actor, ctx.Param("id"), req.PaymentProvider, req.ProviderPaymentID)
	if err != nil {
		renderErr(ctx, "v1.HandleProcessPayment -> h.svc.ProcessPayment", err)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleFailOrder godoc
// @Summary      Mark a pending order failed
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "order ID"
// @Success      200  {object}  domain.Order
// @Failure      400  {object}  response.Err
// @Router       /orders/{id}/fail [post]
// @Security BearerAuth
func (h *OrderHandler) HandleFailOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	order, err := h.svc.MarkFailed(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleFailOrder -> h.svc.MarkFailed", err)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleRefundOrder godoc
// @Summary      Refund a paid order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "order ID"
// @Success      200  {object}  domain.Order
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /orders/{id}/refund [post]
// @Security BearerAuth
func (h *OrderHandler) HandleRefundOrder(ctx *gin.Context) {
	order, err := h.svc.Refund(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleRefundOrder -> h.svc.Refund", err)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleDeleteOrder godoc
// @Summary      Delete an unpaid order
// @Tags         orders
// @Param        id   path  string  true  "order ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /orders/{id} [delete]
// @Security BearerAuth
func (h *OrderHandler) HandleDeleteOrder(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		renderErr(ctx, "v1.HandleDeleteOrder -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
