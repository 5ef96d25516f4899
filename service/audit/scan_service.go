package audit

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"labchem.GO/config"
	auditEntity "labchem.GO/model/entity/audit"
	auditRepo "labchem.GO/model/repository/audit"
	chemicalRepo "labchem.GO/model/repository/chemical"
	locationRepo "labchem.GO/model/repository/location"
)

// Machine-readable scan outcome tags. The UI branches on these, never
// on message text.
const (
	ScanSuccess             = "success"
	ScanInvalidQR           = "invalid_qr"
	ScanAlreadyScanned      = "already_scanned"
	ScanNotInLocation       = "not_in_location"
	ScanLocationNotVerified = "location_not_verified"
	ScanAuditCompleted      = "audit_completed"
	ScanAuditNotFound       = "audit_not_found"
)

// ScanResult is the outcome shape for scan/verify/complete/pause
// operations.
type ScanResult struct {
	Success  bool   `json:"success"`
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	Expected string `json:"expected,omitempty"` // expected QR, for location mismatch display
}

// VerifyLocation compares a scanned QR against the audit's location
// QR. On a match the audit's scan state moves to scanning, unlocking
// chemical scans for this audit. No other state is touched.
func VerifyLocation(db *gorm.DB, auditID uint, qr string) (*ScanResult, error) {
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
	loc, err := locationRepo.NewLocationRepository(db).FindByID(a.LocationID)
	if err != nil {
		return nil, err
	}
	if qr != loc.QRCode {
		return &ScanResult{
			Success:  false,
			Status:   ScanNotInLocation,
			Message:  "scanned code does not match this audit's location",
			Expected: loc.QRCode,
		}, nil
	}
	if a.ScanState != auditEntity.ScanStateScanning {
		if err := repo.SetScanState(auditID, auditEntity.ScanStateScanning); err != nil {
			return nil, err
		}
	}
	return &ScanResult{Success: true, Status: ScanSuccess, Expected: loc.QRCode}, nil
}

// ScanChemical reconciles one chemical-QR scan against an audit:
// resolve the QR, reject duplicates, transition the matching
// Unaudited record to Audited and advance the audit's counters.
// Paused audits still accept scans; only Completed ones refuse. The
// record transition and counter update share one transaction, and the
// status-guarded UPDATE makes a concurrent duplicate scan lose cleanly
// with already_scanned instead of double-counting.
func ScanChemical(db *gorm.DB, auditID uint, qr string) (*ScanResult, error) {
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
	if a.ScanState != auditEntity.ScanStateScanning {
		return &ScanResult{Success: false, Status: ScanLocationNotVerified, Message: "scan the location code first"}, nil
	}

	chem, err := chemicalRepo.NewChemicalRepository(db).FindByQR(qr)
	if err == gorm.ErrRecordNotFound {
		return &ScanResult{Success: false, Status: ScanInvalidQR, Message: "no chemical matches this code"}, nil
	}
	if err != nil {
		return nil, err
	}

	rec, err := repo.FindRecord(auditID, chem.ChemicalID)
	if err == gorm.ErrRecordNotFound {
		return &ScanResult{Success: false, Status: ScanNotInLocation, Message: "chemical is not expected at this location"}, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.Status == auditEntity.RecordAudited {
		return &ScanResult{Success: false, Status: ScanAlreadyScanned, Message: "chemical already scanned in this audit"}, nil
	}

	now := time.Now()
	transitioned := false
	err = db.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		ok, err := txRepo.MarkRecordAudited(auditID, chem.ChemicalID, now)
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race with a concurrent scan of the same chemical.
			return nil
		}
		transitioned = true
		return txRepo.AdvanceAuditCounters(auditID, now)
	})
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return &ScanResult{Success: false, Status: ScanAlreadyScanned, Message: "chemical already scanned in this audit"}, nil
	}

	publishScanEvent(auditID, chem.ChemicalID, qr)
	return &ScanResult{Success: true, Status: ScanSuccess}, nil
}

// publishScanEvent pushes a scan notification for live progress
// displays. Best effort: a missing or unreachable Redis never fails
// the scan.
func publishScanEvent(auditID, chemicalID uint, qr string) {
	if config.RedisClient == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"audit_id":    auditID,
		"chemical_id": chemicalID,
		"qr":          qr,
		"at":          time.Now().Unix(),
	})
	if err := config.RedisClient.Publish(config.RedisCtx(), "labchem:scans", payload).Err(); err != nil {
		log.Printf("scan event publish failed: %v", err)
	}
}
