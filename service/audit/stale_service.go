package audit

import (
	"log"
	"time"

	"gorm.io/gorm"

	auditRepo "labchem.GO/model/repository/audit"
)

// PauseStaleAudits pauses every Ongoing audit with no activity for the
// given number of days. Run from the cron scheduler; keeps abandoned
// scanner sessions from lingering as Ongoing forever.
func PauseStaleAudits(db *gorm.DB, staleDays int) (int, error) {
	if staleDays <= 0 {
		staleDays = 7
	}
	cutoff := time.Now().AddDate(0, 0, -staleDays)
	repo := auditRepo.NewAuditRepository(db)
	stale, err := repo.FindStaleOngoing(cutoff)
	if err != nil {
		return 0, err
	}
	paused := 0
	for _, a := range stale {
		if _, err := PauseAudit(db, a.AuditID); err != nil {
			log.Printf("pause stale audit %d: %v", a.AuditID, err)
			continue
		}
		paused++
	}
	return paused, nil
}
