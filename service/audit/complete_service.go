package audit

import (
	"time"

	"gorm.io/gorm"

	auditEntity "labchem.GO/model/entity/audit"
	auditRepo "labchem.GO/model/repository/audit"
)

// CompleteResult is the outcome shape for audit completion.
type CompleteResult struct {
	Success        bool   `json:"success"`
	Status         string `json:"status,omitempty"`
	Message        string `json:"message,omitempty"`
	Missing        int64  `json:"missing"`
	RoundCompleted bool   `json:"round_completed"`
}

// CompleteAudit closes a per-location audit: every remaining Unaudited
// record becomes Missing, the audit itself becomes Completed with
// pendingCount 0, and the parent round's counters advance by one
// finished audit. When that drops the round's pendingCount to zero the
// round completes too. Completion propagates bottom-up one level at a
// time, gated by counters.
func CompleteAudit(db *gorm.DB, auditID uint) (*CompleteResult, error) {
	now := time.Now()
	res := &CompleteResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		repo := auditRepo.NewAuditRepository(tx)
		a, err := repo.FindAuditByID(auditID)
		if err == gorm.ErrRecordNotFound {
			res.Status = ScanAuditNotFound
			res.Message = "audit not found"
			return nil
		}
		if err != nil {
			return err
		}
		if a.Status == auditEntity.StatusCompleted {
			res.Status = ScanAuditCompleted
			res.Message = "audit already completed"
			return nil
		}

		missing, err := repo.MarkUnauditedMissing(auditID, now)
		if err != nil {
			return err
		}
		res.Missing = missing

		total, err := repo.CountRecordsByStatus(auditID, "")
		if err != nil {
			return err
		}
		// pending + finished must equal the record count; with nothing
		// pending after completion, finished absorbs the Missing rows.
		err = tx.Model(&auditEntity.Audit{}).
			Where("audit_id = ?", auditID).
			Updates(map[string]interface{}{
				"status":          auditEntity.StatusCompleted,
				"pending_count":   0,
				"finished_count":  total,
				"last_audit_date": now,
			}).Error
		if err != nil {
			return err
		}

		g, err := repo.AdvanceGeneralCounters(a.AuditGeneralID, now)
		if err != nil {
			return err
		}
		if g.PendingCount <= 0 && g.Status != auditEntity.StatusCompleted {
			if err := repo.UpdateGeneralStatus(g.AuditGeneralID, auditEntity.StatusCompleted, now); err != nil {
				return err
			}
			res.RoundCompleted = true
		}

		res.Success = true
		res.Status = ScanSuccess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// PauseAudit marks an audit Paused. Records, counters and the parent
// round are untouched; a paused audit still accepts scans.
func PauseAudit(db *gorm.DB, auditID uint) (*ScanResult, error) {
	return setAuditStatus(db, auditID, auditEntity.StatusPaused)
}

// ResumeAudit marks a Paused audit Ongoing again.
func ResumeAudit(db *gorm.DB, auditID uint) (*ScanResult, error) {
	return setAuditStatus(db, auditID, auditEntity.StatusOngoing)
}

func setAuditStatus(db *gorm.DB, auditID uint, status string) (*ScanResult, error) {
	repo := auditRepo.NewAuditRepository(db)
	a, err := repo.FindAuditByID(auditID)
	if err == gorm.ErrRecordNotFound {
		return &ScanResult{Success: false, Status: ScanAuditNotFound, Message: "audit not found"}, nil
	}
	if err != nil {
		return nil, err
	}
	if a.Status == auditEntity.StatusCompleted {
		return &ScanResult{Success: false, Status: ScanAuditCompleted, Message: "audit already completed"}, nil
	}
	if err := repo.UpdateAuditStatus(auditID, status, time.Now()); err != nil {
		return nil, err
	}
	return &ScanResult{Success: true, Status: ScanSuccess}, nil
}

// CheckRoundCompletion is the idempotent round-level re-check: a round
// with nothing pending and a stale status flips to Completed. Covers
// manual status edits that bypass the scan flow. Returns whether the
// round was flipped.
func CheckRoundCompletion(db *gorm.DB, generalID uint) (bool, error) {
	repo := auditRepo.NewAuditRepository(db)
	g, err := repo.FindGeneralByID(generalID)
	if err != nil {
		return false, err
	}
	if g.PendingCount != 0 || g.Status == auditEntity.StatusCompleted {
		return false, nil
	}
	if err := repo.UpdateGeneralStatus(generalID, auditEntity.StatusCompleted, time.Now()); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateRoundStatus applies a manual status override to a round, then
// re-checks completion.
func UpdateRoundStatus(db *gorm.DB, generalID uint, status string) (*RoundResult, error) {
	switch status {
	case auditEntity.StatusOngoing, auditEntity.StatusPaused, auditEntity.StatusCompleted:
	default:
		return &RoundResult{Success: false, Message: "invalid status"}, nil
	}
	repo := auditRepo.NewAuditRepository(db)
	if _, err := repo.FindGeneralByID(generalID); err == gorm.ErrRecordNotFound {
		return &RoundResult{Success: false, Message: "audit round not found"}, nil
	} else if err != nil {
		return nil, err
	}
	if err := repo.UpdateGeneralStatus(generalID, status, time.Now()); err != nil {
		return nil, err
	}
	if status != auditEntity.StatusCompleted {
		if _, err := CheckRoundCompletion(db, generalID); err != nil {
			return nil, err
		}
	}
	g, err := repo.FindGeneralByID(generalID)
	if err != nil {
		return nil, err
	}
	return &RoundResult{Audit: g, Success: true, Message: "status updated"}, nil
}
