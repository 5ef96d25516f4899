package chemical

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"labchem.GO/api"
	chemicalEntity "labchem.GO/model/entity/chemical"
	chemicalRepo "labchem.GO/model/repository/chemical"
)

func init() {
	api.RegisterModule(RegisterChemicalRoutes)
}

// RegisterChemicalRoutes wires the boundary CRUD for chemicals. Thin
// validation + persistence glue; the audit core consumes the
// repository directly.
func RegisterChemicalRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/chemicals")
	repo := chemicalRepo.NewChemicalRepository(db)

	g.GET("", func(c echo.Context) error {
		pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
		page, _ := strconv.Atoi(c.QueryParam("page"))
		var locID *uint
		if v := c.QueryParam("location_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid location_id"})
			}
			u := uint(id)
			locID = &u
		}
		chems, total, err := repo.FindPage(pageSize, page, locID)
		if err != nil {
			log.Printf("list chemicals: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not list chemicals"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "chemicals": chems, "total": total})
	})

	g.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		chem, err := repo.FindByID(uint(id))
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "chemical not found"})
		}
		if err != nil {
			log.Printf("get chemical %d: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load chemical"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "chemical": chem})
	})

	g.POST("", func(c echo.Context) error {
		var chem chemicalEntity.Chemical
		if err := c.Bind(&chem); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		}
		if chem.Name == "" || chem.QRCode == "" || chem.GroupID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "name, qr_code and group_id are required"})
		}
		if chem.Quantity < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "quantity must be non-negative"})
		}
		if err := repo.Create(&chem); err != nil {
			log.Printf("create chemical: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not create chemical"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "chemical": chem})
	})

	g.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		chem, err := repo.FindByID(uint(id))
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "chemical not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load chemical"})
		}
		if err := c.Bind(chem); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		}
		chem.ChemicalID = uint(id)
		if chem.Quantity < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "quantity must be non-negative"})
		}
		if err := repo.Update(chem); err != nil {
			log.Printf("update chemical %d: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not update chemical"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "chemical": chem})
	})

	g.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		if err := repo.Delete(uint(id)); err != nil {
			log.Printf("delete chemical %d: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not delete chemical"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	})
}
