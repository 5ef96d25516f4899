package audit

import (
	"sync"
	"time"

	"gorm.io/gorm"

	auditEntity "labchem.GO/model/entity/audit"
)

// AuditRepository persists the audit triad: audit_general rows (one
// per round), audit rows (one per round+location) and audit_record
// rows (one per audit+chemical). All counter mutation goes through the
// Advance*/bulk helpers below, which use single-statement column
// arithmetic so concurrent scans never read-modify-write a counter.
type AuditRepository struct {
	db *gorm.DB
}

var (
	instance *AuditRepository
	instOnce sync.Once
)

// GetAuditRepository returns a process-wide repository for the main DB.
func GetAuditRepository(db *gorm.DB) *AuditRepository {
	instOnce.Do(func() {
		instance = NewAuditRepository(db)
	})
	return instance
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *AuditRepository) WithTx(tx *gorm.DB) *AuditRepository {
	return &AuditRepository{db: tx}
}

// --- audit_general ---

// NextRound computes max(round)+1. Call inside the creation
// transaction so concurrent round creations serialize on the insert.
func (r *AuditRepository) NextRound() (uint, error) {
	var next uint
	err := r.db.Model(&auditEntity.AuditGeneral{}).
		Select("COALESCE(MAX(round), 0) + 1").Scan(&next).Error
	return next, err
}

func (r *AuditRepository) CreateGeneral(g *auditEntity.AuditGeneral) error {
	return r.db.Create(g).Error
}

func (r *AuditRepository) FindGeneralByID(id uint) (*auditEntity.AuditGeneral, error) {
	var g auditEntity.AuditGeneral
	if err := r.db.First(&g, "audit_general_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *AuditRepository) FindGeneralByRound(round uint) (*auditEntity.AuditGeneral, error) {
	var g auditEntity.AuditGeneral
	if err := r.db.First(&g, "round = ?", round).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *AuditRepository) FindAllGenerals() ([]auditEntity.AuditGeneral, error) {
	var gs []auditEntity.AuditGeneral
	err := r.db.Order("round DESC").Find(&gs).Error
	return gs, err
}

func (r *AuditRepository) UpdateGeneralStatus(id uint, status string, at time.Time) error {
	return r.db.Model(&auditEntity.AuditGeneral{}).
		Where("audit_general_id = ?", id).
		Updates(map[string]interface{}{"status": status, "last_audit_date": at}).Error
}

// AdvanceGeneralCounters moves one per-location audit from pending to
// finished on the round row. Returns the row as it stands after the
// update so the caller can decide on cascade completion.
func (r *AuditRepository) AdvanceGeneralCounters(id uint, at time.Time) (*auditEntity.AuditGeneral, error) {
	err := r.db.Model(&auditEntity.AuditGeneral{}).
		Where("audit_general_id = ?", id).
		Updates(map[string]interface{}{
			"finished_count":  gorm.Expr("finished_count + 1"),
			"pending_count":   gorm.Expr("pending_count - 1"),
			"last_audit_date": at,
		}).Error
	if err != nil {
		return nil, err
	}
	return r.FindGeneralByID(id)
}

// --- audit ---

func (r *AuditRepository) CreateAudit(a *auditEntity.Audit) error {
	return r.db.Create(a).Error
}

func (r *AuditRepository) FindAuditByID(id uint) (*auditEntity.Audit, error) {
	var a auditEntity.Audit
	if err := r.db.First(&a, "audit_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AuditRepository) FindAuditsByGeneral(generalID uint) ([]auditEntity.Audit, error) {
	var as []auditEntity.Audit
	err := r.db.Where("audit_general_id = ?", generalID).Order("audit_id").Find(&as).Error
	return as, err
}

func (r *AuditRepository) UpdateAuditStatus(id uint, status string, at time.Time) error {
	return r.db.Model(&auditEntity.Audit{}).
		Where("audit_id = ?", id).
		Updates(map[string]interface{}{"status": status, "last_audit_date": at}).Error
}

// SetScanState persists the server-side scanner mode for an audit.
func (r *AuditRepository) SetScanState(id uint, state string) error {
	return r.db.Model(&auditEntity.Audit{}).
		Where("audit_id = ?", id).
		Update("scan_state", state).Error
}

// AdvanceAuditCounters moves one record from pending to finished on
// the per-location audit row.
func (r *AuditRepository) AdvanceAuditCounters(id uint, at time.Time) error {
	return r.db.Model(&auditEntity.Audit{}).
		Where("audit_id = ?", id).
		Updates(map[string]interface{}{
			"finished_count":  gorm.Expr("finished_count + 1"),
			"pending_count":   gorm.Expr("pending_count - 1"),
			"last_audit_date": at,
		}).Error
}

// FindStaleOngoing returns Ongoing audits with no activity since the cutoff.
func (r *AuditRepository) FindStaleOngoing(cutoff time.Time) ([]auditEntity.Audit, error) {
	var as []auditEntity.Audit
	err := r.db.Where("status = ? AND last_audit_date < ?", auditEntity.StatusOngoing, cutoff).Find(&as).Error
	return as, err
}

// --- audit_record ---

func (r *AuditRepository) CreateRecords(records []auditEntity.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Create(&records).Error
}

func (r *AuditRepository) FindRecords(auditID uint) ([]auditEntity.AuditRecord, error) {
	var recs []auditEntity.AuditRecord
	err := r.db.Where("audit_id = ?", auditID).Order("record_id").Find(&recs).Error
	return recs, err
}

func (r *AuditRepository) FindRecord(auditID, chemicalID uint) (*auditEntity.AuditRecord, error) {
	var rec auditEntity.AuditRecord
	err := r.db.Where("audit_id = ? AND chemical_id = ?", auditID, chemicalID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountRecordsByStatus returns the number of records for an audit with
// the given status; empty status counts all records.
func (r *AuditRepository) CountRecordsByStatus(auditID uint, status string) (int64, error) {
	q := r.db.Model(&auditEntity.AuditRecord{}).Where("audit_id = ?", auditID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// MarkRecordAudited transitions an Unaudited record to Audited.
// The status guard in the WHERE clause makes the transition atomic:
// two concurrent scans of the same chemical race on this UPDATE and
// exactly one sees RowsAffected == 1.
func (r *AuditRepository) MarkRecordAudited(auditID, chemicalID uint, at time.Time) (bool, error) {
	res := r.db.Model(&auditEntity.AuditRecord{}).
		Where("audit_id = ? AND chemical_id = ? AND status = ?", auditID, chemicalID, auditEntity.RecordUnaudited).
		Updates(map[string]interface{}{"status": auditEntity.RecordAudited, "last_audit_date": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkUnauditedMissing bulk-transitions every remaining Unaudited
// record of an audit to Missing. Returns the number of rows changed.
func (r *AuditRepository) MarkUnauditedMissing(auditID uint, at time.Time) (int64, error) {
	res := r.db.Model(&auditEntity.AuditRecord{}).
		Where("audit_id = ? AND status = ?", auditID, auditEntity.RecordUnaudited).
		Updates(map[string]interface{}{"status": auditEntity.RecordMissing, "last_audit_date": at})
	return res.RowsAffected, res.Error
}
