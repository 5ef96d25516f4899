package location

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	chemicalEntity "labchem.GO/model/entity/chemical"
	locationEntity "labchem.GO/model/entity/location"
)

// ErrLocationNotEmpty is returned by Delete when chemicals still
// reference the location.
var ErrLocationNotEmpty = errors.New("location has chemicals assigned")

type LocationRepository struct {
	db *gorm.DB
}

var (
	instance *LocationRepository
	instOnce sync.Once
)

// GetLocationRepository returns a process-wide repository for the main DB.
func GetLocationRepository(db *gorm.DB) *LocationRepository {
	instOnce.Do(func() {
		instance = NewLocationRepository(db)
	})
	return instance
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) FindByID(id uint) (*locationEntity.Location, error) {
	var loc locationEntity.Location
	if err := r.db.First(&loc, "location_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// FindByBuildingRoom resolves a {buildingName, room} pair to a location.
func (r *LocationRepository) FindByBuildingRoom(buildingName, room string) (*locationEntity.Location, error) {
	var loc locationEntity.Location
	err := r.db.Where("building_name = ? AND room = ?", buildingName, room).First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *LocationRepository) FindByQR(qr string) (*locationEntity.Location, error) {
	var loc locationEntity.Location
	if err := r.db.Where("qr_code = ?", qr).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *LocationRepository) FindAll() ([]locationEntity.Location, error) {
	var locs []locationEntity.Location
	err := r.db.Order("building_name, room").Find(&locs).Error
	return locs, err
}

// CountChemicals returns the number of chemicals currently stored at a location.
func (r *LocationRepository) CountChemicals(locationID uint) (int64, error) {
	var n int64
	err := r.db.Model(&chemicalEntity.Chemical{}).Where("location_id = ?", locationID).Count(&n).Error
	return n, err
}

func (r *LocationRepository) Create(loc *locationEntity.Location) error {
	return r.db.Create(loc).Error
}

func (r *LocationRepository) Update(loc *locationEntity.Location) error {
	return r.db.Save(loc).Error
}

// Delete removes a location. Refused while chemicals still reference it.
func (r *LocationRepository) Delete(id uint) error {
	n, err := r.CountChemicals(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrLocationNotEmpty
	}
	return r.db.Delete(&locationEntity.Location{}, "location_id = ?", id).Error
}
