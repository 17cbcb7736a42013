package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/request"
	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/service"
)

type EmailService interface {
	SendTestReminder(ctx context.Context, in service.TestReminder) error
}

type EmailHandler struct {
	svc EmailService
}

func NewEmailHandler(svc EmailService) *EmailHandler {
	return &EmailHandler{
		svc: svc,
	}
}

// HandleTestReminder godoc
// @Summary      Send a sample event reminder
// @Description  Missing fields are filled with sample values.
// @Tags         email
// @Accept       json
// @Produce      json
// @Param        request  body      request.TestReminderRequest  true  "request body"
// @Success      200  {object}  response.MessageResponse
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /email/test-reminder [post]
// @Security BearerAuth
func (h *EmailHandler) HandleTestReminder(ctx *gin.Context) {
	var req request.TestReminderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := h.svc.SendTestReminder(ctx.Request.Context(), req.ToInput()); err != nil {
		renderErr(ctx, "v1.HandleTestReminder -> h.svc.SendTestReminder", err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "Test reminder email sent to " + req.Email})
}
