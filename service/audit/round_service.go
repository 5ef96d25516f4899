package audit

import (
	"fmt"
	"log"
	"time"

	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	auditEntity "labchem.GO/model/entity/audit"
	auditRepo "labchem.GO/model/repository/audit"
	chemicalRepo "labchem.GO/model/repository/chemical"
	locationRepo "labchem.GO/model/repository/location"
)

// LocationPair is one {buildingName, room} entry of the round-creation
// payload. Decoded weakly so numeric room labels survive JSON.
type LocationPair struct {
	BuildingName string `mapstructure:"buildingName"`
	Room         string `mapstructure:"room"`
}

// RoundResult is the outcome shape for round CRUD. Callers branch on
// Success, never on Message text.
type RoundResult struct {
	Audit    *auditEntity.AuditGeneral `json:"audit,omitempty"`
	Message  string                    `json:"message,omitempty"`
	Success  bool                      `json:"success"`
	Warnings []string                  `json:"warnings,omitempty"`
}

func decodeLocationPairs(raw interface{}) ([]LocationPair, error) {
	var pairs []LocationPair
	cfg := &mapstructure.DecoderConfig{
		Result:           &pairs,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return pairs, nil
}

// CreateRound snapshots the chosen locations into a new audit round:
// one audit_general row, one audit per resolved location and one
// Unaudited audit_record per chemical currently at that location.
// Pairs that resolve to no location are logged and skipped; the round
// is still created and its pendingCount counts only resolved pairs.
// Chemicals moved into a location afterwards are not added to the
// round, it is a snapshot.
func CreateRound(db *gorm.DB, auditorID uint, locations interface{}) (*RoundResult, error) {
	if auditorID == 0 {
		return &RoundResult{Success: false, Message: "auditor id is required"}, nil
	}
	pairs, err := decodeLocationPairs(locations)
	if err != nil {
		return &RoundResult{Success: false, Message: "invalid locations payload"}, nil
	}
	if len(pairs) == 0 {
		return &RoundResult{Success: false, Message: "locations must be a non-empty array"}, nil
	}

	now := time.Now()
	var general *auditEntity.AuditGeneral
	var warnings []string

	err = db.Transaction(func(tx *gorm.DB) error {
		repo := auditRepo.NewAuditRepository(tx)
		locRepo := locationRepo.NewLocationRepository(tx)
		chemRepo := chemicalRepo.NewChemicalRepository(tx)

		round, err := repo.NextRound()
		if err != nil {
			return err
		}

		type resolved struct {
			locationID uint
		}
		var resolvedLocs []resolved
		for _, p := range pairs {
			loc, err := locRepo.FindByBuildingRoom(p.BuildingName, p.Room)
			if err == gorm.ErrRecordNotFound {
				log.Printf("audit round %d: no location for %q / %q, skipping", round, p.BuildingName, p.Room)
				warnings = append(warnings, fmt.Sprintf("no location for %s / %s", p.BuildingName, p.Room))
				continue
			}
			if err != nil {
				return err
			}
			resolvedLocs = append(resolvedLocs, resolved{locationID: loc.LocationID})
		}

		general = &auditEntity.AuditGeneral{
			Round:         round,
			AuditorID:     auditorID,
			Status:        auditEntity.StatusOngoing,
			StartDate:     now,
			LastAuditDate: now,
			PendingCount:  len(resolvedLocs),
			FinishedCount: 0,
		}
		if err := repo.CreateGeneral(general); err != nil {
			return err
		}

		for _, rl := range resolvedLocs {
			chems, err := chemRepo.FindByLocation(rl.locationID)
			if err != nil {
				return err
			}
			a := &auditEntity.Audit{
				AuditGeneralID: general.AuditGeneralID,
				LocationID:     rl.locationID,
				AuditorID:      auditorID,
				Round:          round,
				Status:         auditEntity.StatusOngoing,
				ScanState:      auditEntity.ScanStateAwaitingLocation,
				StartDate:      now,
				LastAuditDate:  now,
				PendingCount:   len(chems),
				FinishedCount:  0,
			}
			if err := repo.CreateAudit(a); err != nil {
				return err
			}
			records := make([]auditEntity.AuditRecord, 0, len(chems))
			for _, chem := range chems {
				records = append(records, auditEntity.AuditRecord{
					AuditID:       a.AuditID,
					ChemicalID:    chem.ChemicalID,
					LocationID:    rl.locationID,
					Status:        auditEntity.RecordUnaudited,
					AuditDate:     now,
					LastAuditDate: now,
				})
			}
			if err := repo.CreateRecords(records); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RoundResult{
		Audit:    general,
		Message:  fmt.Sprintf("audit round %d created", general.Round),
		Success:  true,
		Warnings: warnings,
	}, nil
}
