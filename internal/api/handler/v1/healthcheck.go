package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/db"
)

const (
	statusUp       = "up"
	statusDown     = "down"
	statusDisabled = "disabled"
)

type HealthHandler struct {
	postgres *gorm.DB
	redis    *redis.Client
}

// NewHealthHandler accepts a nil redis client when redis is not configured.
func NewHealthHandler(postgres *gorm.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{
		postgres: postgres,
		redis:    cache,
	}
}

// HandleHealthcheck godoc
// @Summary      Health check
// @Description  Pings postgres and redis.
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.HealthResponse
// @Failure      503  {object}  response.HealthResponse
// @Router       / [get]
func (h *HealthHandler) HandleHealthcheck(ctx *gin.Context) {
	c, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	res := response.HealthResponse{Status: statusUp, Postgres: statusUp, Redis: statusDisabled}

	if err := h.pingPostgres(c); err != nil {
		zap.L().Warn("postgres health check failed", zap.Error(err))
		res.Status, res.Postgres = statusDown, statusDown
	}

	if h.redis != nil {
		res.Redis = statusUp
		if err := db.PingRedis(c, h.redis); err != nil {
			zap.L().Warn("redis health check failed", zap.Error(err))
			res.Status, res.Redis = statusDown, statusDown
		}
	}

	status := http.StatusOK
	if res.Status != statusUp {
		status = http.StatusServiceUnavailable
	}

	ctx.JSON(status, res)
}

func (h *HealthHandler) pingPostgres(ctx context.Context) error {
	sqlDB, err := h.postgres.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}
