package chemical

import (
	"sync"

	"gorm.io/gorm"

	"labchem.GO/core/cache"
	auditEntity "labchem.GO/model/entity/audit"
	chemicalEntity "labchem.GO/model/entity/chemical"
)

// Cache tag for QR lookups; any chemical write drops the whole tag.
const qrCacheTag = "chemical:qr"

const qrCacheTTL = 300 // seconds

type ChemicalRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

var (
	instance *ChemicalRepository
	instOnce sync.Once
)

// GetChemicalRepository returns a process-wide repository for the main DB.
func GetChemicalRepository(db *gorm.DB) *ChemicalRepository {
	instOnce.Do(func() {
		instance = NewChemicalRepository(db)
	})
	return instance
}

func NewChemicalRepository(db *gorm.DB) *ChemicalRepository {
	return &ChemicalRepository{db: db, cache: cache.GetInstance()}
}

func (r *ChemicalRepository) FindByID(id uint) (*chemicalEntity.Chemical, error) {
	var chem chemicalEntity.Chemical
	if err := r.db.First(&chem, "chemical_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chem, nil
}

// FindByQR resolves a scanned QR code to a chemical. Read-through
// cached: the scan flow hits this once per item and audits re-scan
// the same codes often enough for a short TTL to pay off.
func (r *ChemicalRepository) FindByQR(qr string) (*chemicalEntity.Chemical, error) {
	if v, ok := r.cache.GetN("chemical", "qr", qr); ok {
		if chem, isChem := v.(*chemicalEntity.Chemical); isChem {
			return chem, nil
		}
	}
	var chem chemicalEntity.Chemical
	if err := r.db.Where("qr_code = ?", qr).First(&chem).Error; err != nil {
		return nil, err
	}
	r.cache.SetN([]interface{}{"chemical", "qr", qr}, &chem, qrCacheTTL, []string{qrCacheTag})
	return &chem, nil
}

// FindByLocation lists chemicals currently stored at a location.
func (r *ChemicalRepository) FindByLocation(locationID uint) ([]chemicalEntity.Chemical, error) {
	var chems []chemicalEntity.Chemical
	err := r.db.Where("location_id = ?", locationID).Order("name").Find(&chems).Error
	return chems, err
}

// FindPage returns a page of chemicals plus the total count.
func (r *ChemicalRepository) FindPage(pageSize, currentPage int, locationID *uint) ([]chemicalEntity.Chemical, int64, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if currentPage <= 0 {
		currentPage = 1
	}
	q := r.db.Model(&chemicalEntity.Chemical{})
	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var chems []chemicalEntity.Chemical
	err := q.Order("chemical_id").Limit(pageSize).Offset((currentPage - 1) * pageSize).Find(&chems).Error
	return chems, total, err
}

func (r *ChemicalRepository) Create(chem *chemicalEntity.Chemical) error {
	if err := r.db.Create(chem).Error; err != nil {
		return err
	}
	r.cache.DeleteByTag(qrCacheTag)
	return nil
}

func (r *ChemicalRepository) Update(chem *chemicalEntity.Chemical) error {
	if err := r.db.Save(chem).Error; err != nil {
		return err
	}
	r.cache.DeleteByTag(qrCacheTag)
	return nil
}

// Delete removes a chemical and cascades to its audit records so no
// reconciliation row points at a vanished chemical.
func (r *ChemicalRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chemical_id = ?", id).Delete(&auditEntity.AuditRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&chemicalEntity.Chemical{}, "chemical_id = ?", id).Error
	})
	if err != nil {
		return err
	}
	r.cache.DeleteByTag(qrCacheTag)
	return nil
}
