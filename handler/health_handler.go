package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zuai/sample-paper-api/types"
)

// Pinger is anything whose liveness the health endpoint reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	mongo Pinger
	redis Pinger
}

func NewHealthHandler(mongo, redis Pinger) *HealthHandler {
	return &HealthHandler{
		mongo: mongo,
		redis: redis,
	}
}

// HandleHealth godoc
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	resp := types.HealthResponse{Status: "ok", Mongo: "ok", Redis: "ok"}
	code := http.StatusOK

	if err := h.mongo.Ping(c); err != nil {
		resp.Mongo = err.Error()
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	if err := h.redis.Ping(c); err != nil {
		resp.Redis = err.Error()
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, resp)
}
