package location

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"labchem.GO/api"
	locationEntity "labchem.GO/model/entity/location"
	locationRepo "labchem.GO/model/repository/location"
)

func init() {
	api.RegisterModule(RegisterLocationRoutes)
}

// RegisterLocationRoutes wires the boundary CRUD for locations.
func RegisterLocationRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/locations")
	repo := locationRepo.NewLocationRepository(db)

	g.GET("", func(c echo.Context) error {
		locs, err := repo.FindAll()
		if err != nil {
			log.Printf("list locations: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not list locations"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "locations": locs})
	})

	g.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		loc, err := repo.FindByID(uint(id))
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "location not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load location"})
		}
		count, err := repo.CountChemicals(uint(id))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not count chemicals"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "location": loc, "chemical_count": count})
	})

	g.POST("", func(c echo.Context) error {
		var loc locationEntity.Location
		if err := c.Bind(&loc); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		}
		if loc.BuildingName == "" || loc.Room == "" || loc.QRCode == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "building_name, room and qr_code are required"})
		}
		if err := repo.Create(&loc); err != nil {
			log.Printf("create location: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not create location"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "location": loc})
	})

	g.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		loc, err := repo.FindByID(uint(id))
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "location not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load location"})
		}
		if err := c.Bind(loc); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		}
		loc.LocationID = uint(id)
		if err := repo.Update(loc); err != nil {
			log.Printf("update location %d: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not update location"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "location": loc})
	})

	g.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
		}
		err = repo.Delete(uint(id))
		if errors.Is(err, locationRepo.ErrLocationNotEmpty) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "location still has chemicals assigned"})
		}
		if err != nil {
			log.Printf("delete location %d: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not delete location"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	})
}
