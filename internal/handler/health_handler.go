package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moementrabelsi/mma/internal/store"
	"github.com/moementrabelsi/mma/pkg/logger"
	"go.uber.org/zap"
)

// Version is reported by the API banner
const Version = "1.0.0"

// HealthHandler serves the banner and health endpoints
type HealthHandler struct {
	store store.Store
	now   func() time.Time
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st, now: time.Now}
}

// Banner handles GET on the API root
func (h *HealthHandler) Banner(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "MMA Agriculture API is running!",
		"version":   Version,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Health reports liveness, and store reachability with ?check=db
func (h *HealthHandler) Health(c echo.Context) error {
	body := echo.Map{"status": "ok", "dataSource": h.store.Name()}
	if c.QueryParam("check") != "db" {
		return c.JSON(http.StatusOK, body)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		logger.FromContext(c).Error("Health check failed", zap.Error(err))
		body["status"] = "unavailable"
		return c.JSON(http.StatusServiceUnavailable, body)
	}
	body["database"] = "reachable"
	return c.JSON(http.StatusOK, body)
}
