package servicetest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	auditEntity "labchem.GO/model/entity/audit"
	chemicalEntity "labchem.GO/model/entity/chemical"
	locationEntity "labchem.GO/model/entity/location"
	auditRepo "labchem.GO/model/repository/audit"
	auditService "labchem.GO/service/audit"
)

var qrSeq uint32

// uniqQR returns a QR code unique across the whole test run. The
// chemical QR cache is process-wide, so reusing codes between tests
// with separate databases would serve stale rows.
func uniqQR(prefix string) string {
	return fmt.Sprintf("%s-%04d", prefix, atomic.AddUint32(&qrSeq, 1))
}

func serviceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&locationEntity.Location{},
		&chemicalEntity.Chemical{},
		&auditEntity.AuditGeneral{},
		&auditEntity.Audit{},
		&auditEntity.AuditRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedLocation(t *testing.T, db *gorm.DB, building, room string) *locationEntity.Location {
	t.Helper()
	loc := &locationEntity.Location{
		BuildingCode: "B1", BuildingName: building, Room: room, QRCode: uniqQR("LOC"),
	}
	if err := db.Create(loc).Error; err != nil {
		t.Fatalf("seed location: %v", err)
	}
	return loc
}

func seedChemicals(t *testing.T, db *gorm.DB, loc *locationEntity.Location, n int) []chemicalEntity.Chemical {
	t.Helper()
	chems := make([]chemicalEntity.Chemical, 0, n)
	for i := 0; i < n; i++ {
		c := chemicalEntity.Chemical{
			Name: fmt.Sprintf("Chemical %d", i), QRCode: uniqQR("CHM"), GroupID: 1,
			LocationID: &loc.LocationID,
		}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed chemical: %v", err)
		}
		chems = append(chems, c)
	}
	return chems
}

func pairs(locs ...*locationEntity.Location) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(locs))
	for _, l := range locs {
		out = append(out, map[string]interface{}{"buildingName": l.BuildingName, "room": l.Room})
	}
	return out
}

// createRound is the happy-path harness: seeds nothing, just runs
// CreateRound over the given locations and returns the per-location
// audits in creation order.
func createRound(t *testing.T, db *gorm.DB, locs ...*locationEntity.Location) (*auditEntity.AuditGeneral, []auditEntity.Audit) {
	t.Helper()
	res, err := auditService.CreateRound(db, 1, pairs(locs...))
	if err != nil {
		t.Fatalf("CreateRound: %v", err)
	}
	if !res.Success {
		t.Fatalf("CreateRound failed: %s", res.Message)
	}
	audits, err := auditRepo.NewAuditRepository(db).FindAuditsByGeneral(res.Audit.AuditGeneralID)
	if err != nil {
		t.Fatalf("FindAuditsByGeneral: %v", err)
	}
	return res.Audit, audits
}

// verify unlocks chemical scanning for an audit.
func verify(t *testing.T, db *gorm.DB, auditID uint) {
	t.Helper()
	a, err := auditRepo.NewAuditRepository(db).FindAuditByID(auditID)
	if err != nil {
		t.Fatalf("FindAuditByID: %v", err)
	}
	var loc locationEntity.Location
	if err := db.First(&loc, "location_id = ?", a.LocationID).Error; err != nil {
		t.Fatalf("load location: %v", err)
	}
	res, err := auditService.VerifyLocation(db, auditID, loc.QRCode)
	if err != nil {
		t.Fatalf("VerifyLocation: %v", err)
	}
	if !res.Success {
		t.Fatalf("VerifyLocation failed: %s", res.Message)
	}
}

// checkAuditCounters asserts pending + finished equals the record count
// for an audit row.
func checkAuditCounters(t *testing.T, db *gorm.DB, auditID uint) {
	t.Helper()
	repo := auditRepo.NewAuditRepository(db)
	a, err := repo.FindAuditByID(auditID)
	if err != nil {
		t.Fatalf("FindAuditByID: %v", err)
	}
	total, err := repo.CountRecordsByStatus(auditID, "")
	if err != nil {
		t.Fatalf("CountRecordsByStatus: %v", err)
	}
	if int64(a.PendingCount+a.FinishedCount) != total {
		t.Errorf("audit %d counters %d+%d != %d records", auditID, a.PendingCount, a.FinishedCount, total)
	}
}

// ---------- Round creation ----------

func TestCreateRound_SnapshotsLocations(t *testing.T) {
	db := serviceDB(t)
	locA := seedLocation(t, db, "Chemistry", "101")
	locB := seedLocation(t, db, "Chemistry", "102")
	seedChemicals(t, db, locA, 2)
	seedChemicals(t, db, locB, 3)

	g, audits := createRound(t, db, locA, locB)

	if g.Round != 1 {
		t.Errorf("Round = %d, want 1", g.Round)
	}
	if g.Status != auditEntity.StatusOngoing {
		t.Errorf("Status = %q, want Ongoing", g.Status)
	}
	if g.PendingCount != 2 || g.FinishedCount != 0 {
		t.Errorf("general counters = %d/%d, want 2/0", g.PendingCount, g.FinishedCount)
	}
	if len(audits) != 2 {
		t.Fatalf("audits = %d, want 2", len(audits))
	}

	repo := auditRepo.NewAuditRepository(db)
	wantPending := map[uint]int{locA.LocationID: 2, locB.LocationID: 3}
	for _, a := range audits {
		if a.ScanState != auditEntity.ScanStateAwaitingLocation {
			t.Errorf("audit %d ScanState = %q, want awaiting_location", a.AuditID, a.ScanState)
		}
		if a.PendingCount != wantPending[a.LocationID] {
			t.Errorf("audit %d pending = %d, want %d", a.AuditID, a.PendingCount, wantPending[a.LocationID])
		}
		recs, err := repo.FindRecords(a.AuditID)
		if err != nil {
			t.Fatalf("FindRecords: %v", err)
		}
		if len(recs) != wantPending[a.LocationID] {
			t.Errorf("audit %d records = %d, want %d", a.AuditID, len(recs), wantPending[a.LocationID])
		}
		for _, r := range recs {
			if r.Status != auditEntity.RecordUnaudited {
				t.Errorf("record %d status = %q, want Unaudited", r.RecordID, r.Status)
			}
		}
		checkAuditCounters(t, db, a.AuditID)
	}
}

func TestCreateRound_RequiresAuditor(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")

	res, err := auditService.CreateRound(db, 0, pairs(loc))
	if err != nil {
		t.Fatalf("CreateRound: %v", err)
	}
	if res.Success {
		t.Error("expected failure for missing auditor id")
	}
}

func TestCreateRound_EmptyLocations(t *testing.T) {
	db := serviceDB(t)

	res, err := auditService.CreateRound(db, 1, []map[string]interface{}{})
	if err != nil {
		t.Fatalf("CreateRound: %v", err)
	}
	if res.Success {
		t.Error("expected failure for empty locations")
	}
}

func TestCreateRound_UnknownPairSkipped(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	seedChemicals(t, db, loc, 1)

	locations := append(pairs(loc), map[string]interface{}{"buildingName": "Ghost Hall", "room": "0"})
	res, err := auditService.CreateRound(db, 1, locations)
	if err != nil {
		t.Fatalf("CreateRound: %v", err)
	}
	if !res.Success {
		t.Fatalf("CreateRound failed: %s", res.Message)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(res.Warnings))
	}
	// Only the resolved pair counts toward pending.
	if res.Audit.PendingCount != 1 {
		t.Errorf("pending = %d, want 1", res.Audit.PendingCount)
	}
}

func TestCreateRound_MonotonicRoundNumbers(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")

	g1, _ := createRound(t, db, loc)
	g2, _ := createRound(t, db, loc)
	if g1.Round != 1 || g2.Round != 2 {
		t.Errorf("rounds = %d, %d, want 1, 2", g1.Round, g2.Round)
	}

	// Numbers continue past gaps, never reuse.
	db.Model(&auditEntity.AuditGeneral{}).Where("round = ?", g2.Round).Update("round", 9)
	g3, _ := createRound(t, db, loc)
	if g3.Round != 10 {
		t.Errorf("round after gap = %d, want 10", g3.Round)
	}
}

func TestCreateRound_EmptyLocationStillAudited(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")

	_, audits := createRound(t, db, loc)
	if len(audits) != 1 {
		t.Fatalf("audits = %d, want 1", len(audits))
	}
	if audits[0].PendingCount != 0 {
		t.Errorf("pending = %d, want 0", audits[0].PendingCount)
	}

	// Completing an empty audit works and reports zero missing.
	res, err := auditService.CompleteAudit(db, audits[0].AuditID)
	if err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}
	if !res.Success || res.Missing != 0 {
		t.Errorf("complete = {success:%v missing:%d}, want success with 0 missing", res.Success, res.Missing)
	}
}

func TestCreateRound_IsASnapshot(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	seedChemicals(t, db, loc, 2)

	_, audits := createRound(t, db, loc)

	// A chemical moved in after round creation is not part of the round.
	late := chemicalEntity.Chemical{Name: "Latecomer", QRCode: uniqQR("CHM"), GroupID: 1, LocationID: &loc.LocationID}
	if err := db.Create(&late).Error; err != nil {
		t.Fatalf("seed late chemical: %v", err)
	}

	recs, err := auditRepo.NewAuditRepository(db).FindRecords(audits[0].AuditID)
	if err != nil {
		t.Fatalf("FindRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("records = %d, want 2 (snapshot)", len(recs))
	}

	verify(t, db, audits[0].AuditID)
	res, err := auditService.ScanChemical(db, audits[0].AuditID, late.QRCode)
	if err != nil {
		t.Fatalf("ScanChemical: %v", err)
	}
	if res.Status != auditService.ScanNotInLocation {
		t.Errorf("late scan status = %q, want not_in_location", res.Status)
	}
}

// ---------- Location verification ----------

func TestVerifyLocation_Match(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	_, audits := createRound(t, db, loc)

	res, err := auditService.VerifyLocation(db, audits[0].AuditID, loc.QRCode)
	if err != nil {
		t.Fatalf("VerifyLocation: %v", err)
	}
	if !res.Success || res.Status != auditService.ScanSuccess {
		t.Errorf("result = {%v %q}, want success", res.Success, res.Status)
	}

	a, _ := auditRepo.NewAuditRepository(db).FindAuditByID(audits[0].AuditID)
	if a.ScanState != auditEntity.ScanStateScanning {
		t.Errorf("ScanState = %q, want scanning", a.ScanState)
	}
}

func TestVerifyLocation_WrongQR(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	other := seedLocation(t, db, "Chemistry", "102")
	_, audits := createRound(t, db, loc)

	res, err := auditService.VerifyLocation(db, audits[0].AuditID, other.QRCode)
	if err != nil {
		t.Fatalf("VerifyLocation: %v", err)
	}
	if res.Success || res.Status != auditService.ScanNotInLocation {
		t.Errorf("result = {%v %q}, want not_in_location", res.Success, res.Status)
	}
	if res.Expected != loc.QRCode {
		t.Errorf("Expected = %q, want %q", res.Expected, loc.QRCode)
	}

	// State stays locked.
	a, _ := auditRepo.NewAuditRepository(db).FindAuditByID(audits[0].AuditID)
	if a.ScanState != auditEntity.ScanStateAwaitingLocation {
		t.Errorf("ScanState = %q, want awaiting_location", a.ScanState)
	}
}

func TestVerifyLocation_NotFound(t *testing.T) {
	db := serviceDB(t)
	res, err := auditService.VerifyLocation(db, 404, "LOC-GHOST")
	if err != nil {
		t.Fatalf("VerifyLocation: %v", err)
	}
	if res.Status != auditService.ScanAuditNotFound {
		t.Errorf("status = %q, want audit_not_found", res.Status)
	}
}

// ---------- Chemical scanning ----------

func TestScanChemical_RejectedBeforeVerify(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	chems := seedChemicals(t, db, loc, 1)
	_, audits := createRound(t, db, loc)

	res, err := auditService.ScanChemical(db, audits[0].AuditID, chems[0].QRCode)
	if err != nil {
		t.Fatalf("ScanChemical: %v", err)
	}
	if res.Status != auditService.ScanLocationNotVerified {
		t.Errorf("status = %q, want location_not_verified", res.Status)
	}
}

func TestScanChemical_Success(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	chems := seedChemicals(t, db, loc, 2)
	_, audits := createRound(t, db, loc)
	verify(t, db, audits[0].AuditID)

	res, err := auditService.ScanChemical(db, audits[0].AuditID, chems[0].QRCode)
	if err != nil {
		t.Fatalf("ScanChemical: %v", err)
	}
	if !res.Success || res.Status != auditService.ScanSuccess {
		t.Fatalf("result = {%v %q}, want success", res.Success, res.Status)
	}

	repo := auditRepo.NewAuditRepository(db)
	rec, err := repo.FindRecord(audits[0].AuditID, chems[0].ChemicalID)
	if err != nil {
		t.Fatalf("FindRecord: %v", err)
	}
	if rec.Status != auditEntity.RecordAudited {
		t.Errorf("record status = %q, want Audited", rec.Status)
	}

	a, _ := repo.FindAuditByID(audits[0].AuditID)
	if a.PendingCount != 1 || a.FinishedCount != 1 {
		t.Errorf("counters = %d/%d, want 1/1", a.PendingCount, a.FinishedCount)
	}
	checkAuditCounters(t, db, audits[0].AuditID)
}

func TestScanChemical_Duplicate(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	chems := seedChemicals(t, db, loc, 2)
	_, audits := createRound(t, db, loc)
	verify(t, db, audits[0].AuditID)

	if _, err := auditService.ScanChemical(db, audits[0].AuditID, chems[0].QRCode); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	res, err := auditService.ScanChemical(db, audits[0].AuditID, chems[0].QRCode)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if res.Status != auditService.ScanAlreadyScanned {
		t.Errorf("status = %q, want already_scanned", res.Status)
	}

	// Counters must not move twice.
	a, _ := auditRepo.NewAuditRepository(db).FindAuditByID(audits[0].AuditID)
	if a.PendingCount != 1 || a.FinishedCount != 1 {
		t.Errorf("counters = %d/%d, want 1/1", a.PendingCount, a.FinishedCount)
	}
}

func TestScanChemical_InvalidQR(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	seedChemicals(t, db, loc, 1)
	_, audits := createRound(t, db, loc)
	verify(t, db, audits[0].AuditID)

	res, err := auditService.ScanChemical(db, audits[0].AuditID, uniqQR("GHOST"))
	if err != nil {
		t.Fatalf("ScanChemical: %v", err)
	}
	if res.Status != auditService.ScanInvalidQR {
		t.Errorf("status = %q, want invalid_qr", res.Status)
	}
}

func TestScanChemical_NotInLocation(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	other := seedLocation(t, db, "Chemistry", "102")
	seedChemicals(t, db, loc, 1)
	elsewhere := seedChemicals(t, db, other, 1)
	_, audits := createRound(t, db, loc)
	verify(t, db, audits[0].AuditID)

	res, err := auditService.ScanChemical(db, audits[0].AuditID, elsewhere[0].QRCode)
	if err != nil {
		t.Fatalf("ScanChemical: %v", err)
	}
	if res.Status != auditService.ScanNotInLocation {
		t.Errorf("status = %q, want not_in_location", res.Status)
	}
}

func TestScanChemical_PausedStillAccepts(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	chems := seedChemicals(t, db, loc, 1)
	_, audits := createRound(t, db, loc)
	verify(t, db, audits[0].AuditID)

	if _, err := auditService.PauseAudit(db, audits[0].AuditID); err != nil {
		t.Fatalf("PauseAudit: %v", err)
	}
	res, err := auditService.ScanChemical(db, audits[0].AuditID, chems[0].QRCode)
	if err != nil {
		t.Fatalf("ScanChemical: %v", err)
	}
	if !res.Success {
		t.Errorf("paused audit rejected scan: %q", res.Status)
	}
}

func TestScanChemical_CompletedRefuses(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	chems := seedChemicals(t, db, loc, 1)
	_, audits := createRound(t, db, loc)
	verify(t, db, audits[0].AuditID)

	if _, err := auditService.CompleteAudit(db, audits[0].AuditID); err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}
	res, err := auditService.ScanChemical(db, audits[0].AuditID, chems[0].QRCode)
	if err != nil {
		t.Fatalf("ScanChemical: %v", err)
	}
	if res.Status != auditService.ScanAuditCompleted {
		t.Errorf("status = %q, want audit_completed", res.Status)
	}
}

// ---------- Completion ----------

func TestCompleteAudit_MarksRemainingMissing(t *testing.T) {
	db := serviceDB(t)
	locA := seedLocation(t, db, "Chemistry", "101")
	locB := seedLocation(t, db, "Chemistry", "102")
	chems := seedChemicals(t, db, locA, 3)
	seedChemicals(t, db, locB, 1)
	g, audits := createRound(t, db, locA, locB)

	var target auditEntity.Audit
	for _, a := range audits {
		if a.LocationID == locA.LocationID {
			target = a
		}
	}
	verify(t, db, target.AuditID)
	if _, err := auditService.ScanChemical(db, target.AuditID, chems[0].QRCode); err != nil {
		t.Fatalf("scan: %v", err)
	}

	res, err := auditService.CompleteAudit(db, target.AuditID)
	if err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}
	if !res.Success {
		t.Fatalf("complete failed: %s", res.Message)
	}
	if res.Missing != 2 {
		t.Errorf("missing = %d, want 2", res.Missing)
	}
	if res.RoundCompleted {
		t.Error("round should not complete with another audit pending")
	}

	repo := auditRepo.NewAuditRepository(db)
	a, _ := repo.FindAuditByID(target.AuditID)
	if a.Status != auditEntity.StatusCompleted {
		t.Errorf("status = %q, want Completed", a.Status)
	}
	if a.PendingCount != 0 || a.FinishedCount != 3 {
		t.Errorf("counters = %d/%d, want 0/3", a.PendingCount, a.FinishedCount)
	}
	checkAuditCounters(t, db, target.AuditID)

	gen, _ := repo.FindGeneralByID(g.AuditGeneralID)
	if gen.PendingCount != 1 || gen.FinishedCount != 1 {
		t.Errorf("general counters = %d/%d, want 1/1", gen.PendingCount, gen.FinishedCount)
	}
	if gen.Status != auditEntity.StatusOngoing {
		t.Errorf("general status = %q, want Ongoing", gen.Status)
	}
}

func TestCompleteAudit_LastAuditCompletesRound(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	seedChemicals(t, db, loc, 1)
	g, audits := createRound(t, db, loc)

	res, err := auditService.CompleteAudit(db, audits[0].AuditID)
	if err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}
	if !res.RoundCompleted {
		t.Error("expected round completion on last audit")
	}

	gen, _ := auditRepo.NewAuditRepository(db).FindGeneralByID(g.AuditGeneralID)
	if gen.Status != auditEntity.StatusCompleted {
		t.Errorf("general status = %q, want Completed", gen.Status)
	}
	if gen.PendingCount != 0 || gen.FinishedCount != 1 {
		t.Errorf("general counters = %d/%d, want 0/1", gen.PendingCount, gen.FinishedCount)
	}
}

func TestCompleteAudit_AlreadyCompleted(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	_, audits := createRound(t, db, loc)

	if _, err := auditService.CompleteAudit(db, audits[0].AuditID); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	res, err := auditService.CompleteAudit(db, audits[0].AuditID)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if res.Success || res.Status != auditService.ScanAuditCompleted {
		t.Errorf("result = {%v %q}, want audit_completed failure", res.Success, res.Status)
	}
}

func TestCompleteAudit_NotFound(t *testing.T) {
	db := serviceDB(t)
	res, err := auditService.CompleteAudit(db, 404)
	if err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}
	if res.Status != auditService.ScanAuditNotFound {
		t.Errorf("status = %q, want audit_not_found", res.Status)
	}
}

// ---------- Pause / resume ----------

func TestPauseAndResume(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	_, audits := createRound(t, db, loc)
	repo := auditRepo.NewAuditRepository(db)

	if _, err := auditService.PauseAudit(db, audits[0].AuditID); err != nil {
		t.Fatalf("PauseAudit: %v", err)
	}
	a, _ := repo.FindAuditByID(audits[0].AuditID)
	if a.Status != auditEntity.StatusPaused {
		t.Errorf("status = %q, want Paused", a.Status)
	}

	if _, err := auditService.ResumeAudit(db, audits[0].AuditID); err != nil {
		t.Fatalf("ResumeAudit: %v", err)
	}
	a, _ = repo.FindAuditByID(audits[0].AuditID)
	if a.Status != auditEntity.StatusOngoing {
		t.Errorf("status = %q, want Ongoing", a.Status)
	}
}

func TestPause_CompletedRefuses(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	_, audits := createRound(t, db, loc)

	if _, err := auditService.CompleteAudit(db, audits[0].AuditID); err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}
	res, err := auditService.PauseAudit(db, audits[0].AuditID)
	if err != nil {
		t.Fatalf("PauseAudit: %v", err)
	}
	if res.Success || res.Status != auditService.ScanAuditCompleted {
		t.Errorf("result = {%v %q}, want audit_completed failure", res.Success, res.Status)
	}
}

// ---------- Round status ----------

func TestCheckRoundCompletion_Idempotent(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	g, audits := createRound(t, db, loc)
	if _, err := auditService.CompleteAudit(db, audits[0].AuditID); err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}

	// Round already Completed: re-check must not flip anything.
	flipped, err := auditService.CheckRoundCompletion(db, g.AuditGeneralID)
	if err != nil {
		t.Fatalf("CheckRoundCompletion: %v", err)
	}
	if flipped {
		t.Error("re-check flipped an already-completed round")
	}

	// A round left Ongoing with nothing pending gets repaired.
	db.Model(&auditEntity.AuditGeneral{}).
		Where("audit_general_id = ?", g.AuditGeneralID).
		Update("status", auditEntity.StatusOngoing)
	flipped, err = auditService.CheckRoundCompletion(db, g.AuditGeneralID)
	if err != nil {
		t.Fatalf("CheckRoundCompletion: %v", err)
	}
	if !flipped {
		t.Error("expected repair flip for stale Ongoing round")
	}
}

func TestUpdateRoundStatus_Invalid(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	g, _ := createRound(t, db, loc)

	res, err := auditService.UpdateRoundStatus(db, g.AuditGeneralID, "Bogus")
	if err != nil {
		t.Fatalf("UpdateRoundStatus: %v", err)
	}
	if res.Success {
		t.Error("expected failure for invalid status")
	}
}

func TestUpdateRoundStatus_ReChecksCompletion(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	g, audits := createRound(t, db, loc)
	if _, err := auditService.CompleteAudit(db, audits[0].AuditID); err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}

	// Manually re-opening a round with nothing pending immediately
	// falls back to Completed.
	res, err := auditService.UpdateRoundStatus(db, g.AuditGeneralID, auditEntity.StatusPaused)
	if err != nil {
		t.Fatalf("UpdateRoundStatus: %v", err)
	}
	if !res.Success {
		t.Fatalf("update failed: %s", res.Message)
	}
	if res.Audit.Status != auditEntity.StatusCompleted {
		t.Errorf("status = %q, want Completed after re-check", res.Audit.Status)
	}
}

// ---------- Progress ----------

func TestAuditProgress(t *testing.T) {
	db := serviceDB(t)
	loc := seedLocation(t, db, "Chemistry", "101")
	chems := seedChemicals(t, db, loc, 3)
	g, audits := createRound(t, db, loc)
	verify(t, db, audits[0].AuditID)
	if _, err := auditService.ScanChemical(db, audits[0].AuditID, chems[0].QRCode); err != nil {
		t.Fatalf("scan: %v", err)
	}

	snap, err := auditService.AuditProgress(db, audits[0].AuditID)
	if err != nil {
		t.Fatalf("AuditProgress: %v", err)
	}
	if snap.Audited != 1 || snap.Unaudited != 2 || snap.Missing != 0 {
		t.Errorf("records = %d/%d/%d, want 1 audited, 2 unaudited, 0 missing",
			snap.Audited, snap.Unaudited, snap.Missing)
	}
	if snap.PendingCount != 2 || snap.FinishedCount != 1 {
		t.Errorf("counters = %d/%d, want 2/1", snap.PendingCount, snap.FinishedCount)
	}
	if snap.ScanState != auditEntity.ScanStateScanning {
		t.Errorf("ScanState = %q, want scanning", snap.ScanState)
	}
	if snap.Round != g.Round || snap.RoundPending != 1 {
		t.Errorf("round view = {%d pending:%d}, want round %d with 1 pending", snap.Round, snap.RoundPending, g.Round)
	}
}

// ---------- Stale audits ----------

func TestPauseStaleAudits(t *testing.T) {
	db := serviceDB(t)
	locA := seedLocation(t, db, "Chemistry", "101")
	locB := seedLocation(t, db, "Chemistry", "102")
	_, audits := createRound(t, db, locA, locB)

	// Only the first audit goes stale.
	db.Model(&auditEntity.Audit{}).
		Where("audit_id = ?", audits[0].AuditID).
		Update("last_audit_date", time.Now().AddDate(0, 0, -10))

	paused, err := auditService.PauseStaleAudits(db, 7)
	if err != nil {
		t.Fatalf("PauseStaleAudits: %v", err)
	}
	if paused != 1 {
		t.Errorf("paused = %d, want 1", paused)
	}

	repo := auditRepo.NewAuditRepository(db)
	a0, _ := repo.FindAuditByID(audits[0].AuditID)
	a1, _ := repo.FindAuditByID(audits[1].AuditID)
	if a0.Status != auditEntity.StatusPaused {
		t.Errorf("stale audit status = %q, want Paused", a0.Status)
	}
	if a1.Status != auditEntity.StatusOngoing {
		t.Errorf("fresh audit status = %q, want Ongoing", a1.Status)
	}
}
