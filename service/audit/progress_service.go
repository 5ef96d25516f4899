package audit

import (
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	auditEntity "labchem.GO/model/entity/audit"
	auditRepo "labchem.GO/model/repository/audit"
)

// ProgressSnapshot is the live progress view for one per-location
// audit, including the parent round rollup.
type ProgressSnapshot struct {
	AuditID       uint   `json:"audit_id"`
	Status        string `json:"status"`
	ScanState     string `json:"scan_state"`
	PendingCount  int    `json:"pending_count"`
	FinishedCount int    `json:"finished_count"`
	Unaudited     int64  `json:"unaudited"`
	Audited       int64  `json:"audited"`
	Missing       int64  `json:"missing"`
	Round         uint   `json:"round"`
	RoundStatus   string `json:"round_status"`
	RoundPending  int    `json:"round_pending"`
	RoundFinished int    `json:"round_finished"`
}

// AuditProgress assembles a progress snapshot. The record counts and
// the parent round row are independent reads, fetched in parallel.
func AuditProgress(db *gorm.DB, auditID uint) (*ProgressSnapshot, error) {
	repo := auditRepo.NewAuditRepository(db)
	a, err := repo.FindAuditByID(auditID)
	if err != nil {
		return nil, err
	}

	snap := &ProgressSnapshot{
		AuditID:       a.AuditID,
		Status:        a.Status,
		ScanState:     a.ScanState,
		PendingCount:  a.PendingCount,
		FinishedCount: a.FinishedCount,
		Round:         a.Round,
	}

	var g errgroup.Group
	g.Go(func() error {
		n, err := repo.CountRecordsByStatus(auditID, auditEntity.RecordUnaudited)
		snap.Unaudited = n
		return err
	})
	g.Go(func() error {
		n, err := repo.CountRecordsByStatus(auditID, auditEntity.RecordAudited)
		snap.Audited = n
		return err
	})
	g.Go(func() error {
		n, err := repo.CountRecordsByStatus(auditID, auditEntity.RecordMissing)
		snap.Missing = n
		return err
	})
	g.Go(func() error {
		gen, err := repo.FindGeneralByID(a.AuditGeneralID)
		if err != nil {
			return err
		}
		snap.RoundStatus = gen.Status
		snap.RoundPending = gen.PendingCount
		snap.RoundFinished = gen.FinishedCount
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
