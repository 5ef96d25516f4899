package audit

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"labchem.GO/api"
	auditRepo "labchem.GO/model/repository/audit"
	auditService "labchem.GO/service/audit"
)

func init() {
	api.RegisterModule(RegisterAuditRoutes)
}

func RegisterAuditRoutes(apiGroup *echo.Group, db *gorm.DB) {
	rounds := apiGroup.Group("/audits")

	// POST /api/audits – create a new audit round over a set of locations
	rounds.POST("", func(c echo.Context) error {
		var body struct {
			AuditorID uint        `json:"auditor_id"`
			Locations interface{} `json:"locations"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		}
		res, err := auditService.CreateRound(db, body.AuditorID, body.Locations)
		if err != nil {
			log.Printf("create audit round: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not create audit round"})
		}
		if !res.Success {
			return c.JSON(http.StatusBadRequest, res)
		}
		return c.JSON(http.StatusOK, res)
	})

	// GET /api/audits – list audit rounds
	rounds.GET("", func(c echo.Context) error {
		gs, err := auditRepo.NewAuditRepository(db).FindAllGenerals()
		if err != nil {
			log.Printf("list audit rounds: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not list audit rounds"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "audits": gs})
	})

	// GET /api/audits/:id – one round with its per-location audits
	rounds.GET("/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		repo := auditRepo.NewAuditRepository(db)
		g, err := repo.FindGeneralByID(id)
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "audit round not found"})
		}
		if err != nil {
			log.Printf("get audit round %d: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load audit round"})
		}
		audits, err := repo.FindAuditsByGeneral(id)
		if err != nil {
			log.Printf("get audits for round %d: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load audits"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "audit": g, "location_audits": audits})
	})

	// POST /api/audits/:id/status – manual round status edit
	rounds.POST("/:id/status", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		var body struct {
			Status string `json:"status"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		}
		res, err := auditService.UpdateRoundStatus(db, id, body.Status)
		if err != nil {
			log.Printf("update round %d status: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not update status"})
		}
		if !res.Success {
			return c.JSON(http.StatusBadRequest, res)
		}
		return c.JSON(http.StatusOK, res)
	})

	audits := apiGroup.Group("/location-audits")

	// POST /api/location-audits/:id/verify-location – gate before item scanning
	audits.POST("/:id/verify-location", scanHandler(db, auditService.VerifyLocation))

	// POST /api/location-audits/:id/scan – reconcile one chemical scan
	audits.POST("/:id/scan", scanHandler(db, auditService.ScanChemical))

	// POST /api/location-audits/:id/complete
	audits.POST("/:id/complete", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		res, err := auditService.CompleteAudit(db, id)
		if err != nil {
			log.Printf("complete audit %d: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not complete audit"})
		}
		if res.Status == auditService.ScanAuditNotFound {
			return c.JSON(http.StatusNotFound, res)
		}
		return c.JSON(http.StatusOK, res)
	})

	// POST /api/location-audits/:id/pause
	audits.POST("/:id/pause", statusHandler(db, auditService.PauseAudit))

	// POST /api/location-audits/:id/resume
	audits.POST("/:id/resume", statusHandler(db, auditService.ResumeAudit))
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// scanHandler adapts the QR-taking service funcs to echo handlers.
func scanHandler(db *gorm.DB, fn func(*gorm.DB, uint, string) (*auditService.ScanResult, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		var body struct {
			QR string `json:"qr"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		}
		if body.QR == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "qr is required"})
		}
		res, err := fn(db, id, body.QR)
		if err != nil {
			log.Printf("audit %d scan: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "scan failed"})
		}
		if res.Status == auditService.ScanAuditNotFound {
			return c.JSON(http.StatusNotFound, res)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func statusHandler(db *gorm.DB, fn func(*gorm.DB, uint) (*auditService.ScanResult, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		res, err := fn(db, id)
		if err != nil {
			log.Printf("audit %d status change: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "status change failed"})
		}
		if res.Status == auditService.ScanAuditNotFound {
			return c.JSON(http.StatusNotFound, res)
		}
		return c.JSON(http.StatusOK, res)
	}
}
