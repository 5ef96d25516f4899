package jobs

import (
	"log"

	"labchem.GO/config"
	"labchem.GO/cron"
	auditService "labchem.GO/service/audit"
)

func init() {
	cron.Register("staleaudits", "0 6 * * *", StaleAuditJob)
}

// StaleAuditJob pauses Ongoing audits nobody has touched for
// AUDIT_STALE_DAYS days.
func StaleAuditJob(args ...string) {
	config.LoadAppConfig()
	db, err := config.NewDB()
	if err != nil {
		log.Printf("stale audit job: db connect: %v", err)
		return
	}
	paused, err := auditService.PauseStaleAudits(db, config.AppConfig.AuditStaleDays)
	if err != nil {
		log.Printf("stale audit job: %v", err)
		return
	}
	if paused > 0 {
		log.Printf("stale audit job: paused %d audits", paused)
	}
}
