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

type AttendanceService interface {
	CheckIn(ctx context.Context, actor domain.Actor, in service.CheckInInput) (domain.Attendance, error)
	Get(ctx context.Context, id string) (domain.Attendance, error)
	List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Attendance, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Attendance, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	StatsByEvent(ctx context.Context, eventID string) (domain.AttendanceStats, error)
	Update(ctx context.Context, actor domain.Actor, id string, method domain.CheckInMethod, metadata map[string]any) (domain.Attendance, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type AttendanceHandler struct {
	svc AttendanceService
}

func NewAttendanceHandler(svc AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		svc: svc,
	}
}

// HandleCheckIn godoc
// @Summary      Check a ticket in at an event
// @Description  Records the attendance and marks the ticket used.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request  body      request.CheckInRequest  true  "request body"
// @Success      201  {object}  domain.Attendance
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /attendance [post]
// @Security BearerAuth
func (h *AttendanceHandler) HandleCheckIn(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.CheckInRequest
	if !bindJSON(ctx, &req) {
		return
	}

	a, err := h.svc.CheckIn(ctx.Request.Context(), actor, req.ToInput())
	if err != nil {
		renderErr(ctx, "v1.HandleCheckIn -> h.svc.CheckIn", err)
		return
	}

	ctx.JSON(http.StatusCreated, a)
}

// HandleListAttendance godoc
// @Summary      List attendance records
// @Tags         attendance
// @Produce      json
// @Param        eventId   query  string  false  "event ID"
// @Param        ticketId  query  string  false  "ticket ID"
// @Success      200  {array}   domain.Attendance
// @Router       /attendance [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleListAttendance(ctx *gin.Context) {
	records, err := h.svc.List(ctx.Request.Context(), domain.AttendanceFilter{
		EventID:  ctx.Query("eventId"),
		TicketID: ctx.Query("ticketId"),
	})
	if err != nil {
		renderErr(ctx, "v1.HandleListAttendance -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// HandleListEventAttendance godoc
// @Summary      List the check-ins of an event
// @Tags         attendance
// @Produce      json
// @Param        eventId  path  string  true  "event ID"
// @Success      200  {array}   domain.Attendance
// @Router       /attendance/event/{eventId} [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleListEventAttendance(ctx *gin.Context) {
	records, err := h.svc.ListByEvent(ctx.Request.Context(), ctx.Param("eventId"))
	if err != nil {
		renderErr(ctx, "v1.HandleListEventAttendance -> h.svc.ListByEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// HandleCountEventAttendance godoc
// @Summary      Count the check-ins of an event
// @Tags         attendance
// @Produce      json
// @Param        eventId  path  string  true  "event ID"
// @Success      200  {object}  response.CountResponse
// @Router       /attendance/event/{eventId}/count [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleCountEventAttendance(ctx *gin.Context) {
	eventID := ctx.Param("eventId")

	n, err := h.svc.CountByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		renderErr(ctx, "v1.HandleCountEventAttendance -> h.svc.CountByEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, response.CountResponse{EventID: eventID, Count: n})
}

// HandleEventAttendanceStats godoc
// @Summary      Check-in statistics of an event
// @Tags         attendance
// @Produce      json
// @Param        eventId  path  string  true  "event ID"
// @Success      200  {object}  domain.AttendanceStats
// @Router       /attendance/event/{eventId}/stats [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleEventAttendanceStats(ctx *gin.Context) {
	stats, err := h.svc.StatsByEvent(ctx.Request.Context(), ctx.Param("eventId"))
	if err != nil {
		renderErr(ctx, "v1.HandleEventAttendanceStats -> h.svc.StatsByEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleListTicketAttendance godoc
// @Summary      List the check-ins of a ticket
// @Tags         attendance
// @Produce      json
// @Param        ticketId  path  string  true  "ticket ID"
// @Success      200  {array}   domain.Attendance
// @Router       /attendance/ticket/{ticketId} [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleListTicketAttendance(ctx *gin.Context) {
	records, err := h.svc.ListByTicket(ctx.Request.Context(), ctx.Param("ticketId"))
	if err != nil {
		renderErr(ctx, "v1.HandleListTicketAttendance -> h.svc.ListByTicket", err)
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// HandleGetAttendance godoc
// @Summary      Get an attendance record
// @Tags         attendance
// @Produce      json
// @Param        id   path      string  true  "attendance ID"
// @Success      200  {object}  domain.Attendance
// @Failure      404  {object}  response.Err
// @Router       /attendance/{id} [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleGetAttendance(ctx *gin.Context) {
	a, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetAttendance -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

// HandleUpdateAttendance godoc
// @Summary      Update the method or metadata of a check-in
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "attendance ID"
// @Param        request  body      request.UpdateAttendanceRequest  true  "fields to change"
// @Success      200  {object}  domain.Attendance
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /attendance/{id} [patch]
// @Security BearerAuth
func (h *AttendanceHandler) HandleUpdateAttendance(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.UpdateAttendanceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	a, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), domain.CheckInMethod(req.Method), req.Metadata)
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateAttendance -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

// HandleDeleteAttendance godoc
// @Summary      Delete an attendance record
// @Description  The ticket stays used.
// @Tags         attendance
// @Param        id   path  string  true  "attendance ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Router       /attendance/{id} [delete]
// @Security BearerAuth
func (h *AttendanceHandler) HandleDeleteAttendance(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		renderErr(ctx, "v1.HandleDeleteAttendance -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
