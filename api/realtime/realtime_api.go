package realtime

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"labchem.GO/api"
	auditService "labchem.GO/service/audit"
)

func init() {
	api.RegisterModule(RegisterRealtimeRoutes)
}

// RegisterRealtimeRoutes sets up the live audit-progress endpoint the
// scanner UI polls between scans.
func RegisterRealtimeRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/realtime")

	// GET /api/realtime/audit-progress?audit=N
	g.GET("/audit-progress", func(c echo.Context) error {
		start := time.Now()

		auditParam := c.QueryParam("audit")
		if auditParam == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "audit required"})
		}
		auditID, err := strconv.ParseUint(auditParam, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid audit id"})
		}

		snap, err := auditService.AuditProgress(db, uint(auditID))
		duration := time.Since(start).Milliseconds()
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "audit not found"})
		}
		if err != nil {
			log.Printf("audit progress %d: %v", auditID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load progress", "request_duration_ms": duration})
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, snap)
	})
}
