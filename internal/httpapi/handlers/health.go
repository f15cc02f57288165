package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/httpapi"
	"gorm.io/gorm"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	db *gorm.DB // Database handle probed on each check.
}

// NewHealthHandler constructs a health handler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz pings the database and reports readiness.
func (h *HealthHandler) Healthz(c *gin.Context) error {
	sqlDB, errDB := h.db.DB()
	if errDB != nil {
		return errDB
	}
	if errPing := sqlDB.PingContext(c.Request.Context()); errPing != nil {
		return errPing
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"status": "ok"}, "")
	return nil
}
