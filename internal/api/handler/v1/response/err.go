package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ormeet/ormeet-api/internal/service"
)

// Err is the body of every non-2xx response.
type Err struct {
	Err error `json:"-"`

	StatusCode int    `json:"statusCode"`
	ErrorText  string `json:"error"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
}

func RenderErr(ctx *gin.Context, e *Err) {
	e.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	e.Path = ctx.Request.URL.Path
	e.Method = ctx.Request.Method

	if e.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", e.Method),
			zap.String("path", e.Path),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.StatusCode, e)
}

func newErr(status int, err error, message string) *Err {
	return &Err{
		Err:        err,
		StatusCode: status,
		ErrorText:  http.StatusText(status),
		Message:    message,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err, err.Error())
}

func ErrNotFound(err error) *Err {
	return newErr(http.StatusNotFound, err, err.Error())
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err, err.Error())
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err, "Unauthorized")
}

func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, err, "Invalid email or password")
}

func ErrTooManyRequests() *Err {
	return newErr(http.StatusTooManyRequests, nil, "Too many requests, please try again later")
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, err, "Internal server error")
}

// FromError renders business errors with their own message. Anything else is
// an internal error.
func FromError(err error) *Err {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindBadRequest:
			return newErr(http.StatusBadRequest, err, svcErr.Message)
		case service.KindNotFound:
			return newErr(http.StatusNotFound, err, svcErr.Message)
		case service.KindForbidden:
			return newErr(http.StatusForbidden, err, svcErr.Message)
		}
	}

	return ErrInternalServerError(err)
}
