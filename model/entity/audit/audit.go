package audit

import (
	"time"

	"gorm.io/datatypes"
)

// Statuses shared by audit_general and audit rows.
const (
	StatusOngoing   = "Ongoing"
	StatusPaused    = "Paused"
	StatusCompleted = "Completed"
)

// Audit record statuses.
const (
	RecordUnaudited = "Unaudited"
	RecordAudited   = "Audited"
	RecordMissing   = "Missing"
)

// Scan states for a per-location audit. Chemical scans are rejected
// until the location QR has been verified (ScanStateScanning).
const (
	ScanStateAwaitingLocation = "awaiting_location"
	ScanStateScanning         = "scanning"
)

// AuditGeneral represents the audit_general table: one row per audit
// round. PendingCount/FinishedCount count per-location audits, not
// chemicals.
type AuditGeneral struct {
	AuditGeneralID uint      `gorm:"column:audit_general_id;primaryKey;autoIncrement" json:"audit_general_id,omitempty"`
	Round          uint      `gorm:"column:round;not null;uniqueIndex" json:"round"`
	AuditorID      uint      `gorm:"column:auditor_id;not null;index" json:"auditor_id"`
	Status         string    `gorm:"column:status;type:varchar(16);not null;default:'Ongoing'" json:"status"`
	StartDate      time.Time `gorm:"column:start_date;not null" json:"start_date"`
	LastAuditDate  time.Time `gorm:"column:last_audit_date;not null" json:"last_audit_date"`
	PendingCount   int       `gorm:"column:pending_count;not null;default:0" json:"pending_count"`
	FinishedCount  int       `gorm:"column:finished_count;not null;default:0" json:"finished_count"`
}

func (AuditGeneral) TableName() string {
	return "audit_general"
}

// Audit represents the audit table: one row per (round, location).
// PendingCount/FinishedCount count audit records (chemicals).
type Audit struct {
	AuditID        uint      `gorm:"column:audit_id;primaryKey;autoIncrement" json:"audit_id,omitempty"`
	AuditGeneralID uint      `gorm:"column:audit_general_id;not null;index" json:"audit_general_id"`
	LocationID     uint      `gorm:"column:location_id;not null;index" json:"location_id"`
	AuditorID      uint      `gorm:"column:auditor_id;not null" json:"auditor_id"`
	Round          uint      `gorm:"column:round;not null" json:"round"`
	Status         string    `gorm:"column:status;type:varchar(16);not null;default:'Ongoing'" json:"status"`
	ScanState      string    `gorm:"column:scan_state;type:varchar(24);not null;default:'awaiting_location'" json:"scan_state"`
	StartDate      time.Time `gorm:"column:start_date;not null" json:"start_date"`
	LastAuditDate  time.Time `gorm:"column:last_audit_date;not null" json:"last_audit_date"`
	PendingCount   int       `gorm:"column:pending_count;not null;default:0" json:"pending_count"`
	FinishedCount  int       `gorm:"column:finished_count;not null;default:0" json:"finished_count"`
	Notes          string    `gorm:"column:notes;type:text" json:"notes"`
}

func (Audit) TableName() string {
	return "audit"
}

// AuditRecord represents the audit_record table: the atomic
// reconciliation unit, one row per (audit, chemical). LocationID is
// denormalized from the audit for scan verification. People holds the
// operators present at the scan as a JSON array.
type AuditRecord struct {
	RecordID      uint           `gorm:"column:record_id;primaryKey;autoIncrement" json:"record_id,omitempty"`
	AuditID       uint           `gorm:"column:audit_id;not null;uniqueIndex:idx_audit_chemical" json:"audit_id"`
	ChemicalID    uint           `gorm:"column:chemical_id;not null;uniqueIndex:idx_audit_chemical" json:"chemical_id"`
	LocationID    uint           `gorm:"column:location_id;not null;index" json:"location_id"`
	Status        string         `gorm:"column:status;type:varchar(16);not null;default:'Unaudited'" json:"status"`
	AuditDate     time.Time      `gorm:"column:audit_date;not null" json:"audit_date"`
	LastAuditDate time.Time      `gorm:"column:last_audit_date;not null" json:"last_audit_date"`
	Notes         string         `gorm:"column:notes;type:text" json:"notes"`
	People        datatypes.JSON `gorm:"column:people" json:"people,omitempty"`
}

func (AuditRecord) TableName() string {
	return "audit_record"
}
