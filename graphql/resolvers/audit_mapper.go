package resolvers

import (
	"time"

	gqlmodels "labchem.GO/graphql/models"
	auditEntity "labchem.GO/model/entity/audit"
	chemicalEntity "labchem.GO/model/entity/chemical"
	locationEntity "labchem.GO/model/entity/location"
)

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fmtDate(t time.Time) string {
	return t.Format(time.RFC3339)
}

func mapChemical(c *chemicalEntity.Chemical) *gqlmodels.Chemical {
	m := &gqlmodels.Chemical{
		ID:          int32(c.ChemicalID),
		Name:        c.Name,
		CasNumber:   strPtr(c.CASNumber),
		QrCode:      c.QRCode,
		Quantity:    c.Quantity,
		Type:        strPtr(c.Type),
		Restricted:  c.Restricted,
		GroupID:     int32(c.GroupID),
		Supplier:    strPtr(c.Supplier),
		Description: strPtr(c.Description),
		SubLocation: strPtr(c.SubLocation),
	}
	if c.LocationID != nil {
		id := int32(*c.LocationID)
		m.LocationID = &id
	}
	return m
}

func mapLocation(l *locationEntity.Location, chemicalCount int64) *gqlmodels.Location {
	return &gqlmodels.Location{
		ID:            int32(l.LocationID),
		BuildingCode:  l.BuildingCode,
		BuildingName:  l.BuildingName,
		Room:          l.Room,
		QrCode:        l.QRCode,
		ChemicalCount: int32(chemicalCount),
	}
}

func mapRound(g *auditEntity.AuditGeneral) *gqlmodels.AuditRound {
	return &gqlmodels.AuditRound{
		ID:            int32(g.AuditGeneralID),
		Round:         int32(g.Round),
		AuditorID:     int32(g.AuditorID),
		Status:        g.Status,
		StartDate:     fmtDate(g.StartDate),
		LastAuditDate: fmtDate(g.LastAuditDate),
		PendingCount:  int32(g.PendingCount),
		FinishedCount: int32(g.FinishedCount),
	}
}

func mapAudit(a *auditEntity.Audit, recs []auditEntity.AuditRecord) *gqlmodels.LocationAudit {
	m := &gqlmodels.LocationAudit{
		ID:            int32(a.AuditID),
		LocationID:    int32(a.LocationID),
		Round:         int32(a.Round),
		Status:        a.Status,
		ScanState:     a.ScanState,
		StartDate:     fmtDate(a.StartDate),
		LastAuditDate: fmtDate(a.LastAuditDate),
		PendingCount:  int32(a.PendingCount),
		FinishedCount: int32(a.FinishedCount),
		Notes:         strPtr(a.Notes),
		Records:       []*gqlmodels.AuditRecord{},
	}
	for i := range recs {
		m.Records = append(m.Records, mapRecord(&recs[i]))
	}
	return m
}

func mapRecord(rec *auditEntity.AuditRecord) *gqlmodels.AuditRecord {
	return &gqlmodels.AuditRecord{
		ID:            int32(rec.RecordID),
		ChemicalID:    int32(rec.ChemicalID),
		LocationID:    int32(rec.LocationID),
		Status:        rec.Status,
		AuditDate:     fmtDate(rec.AuditDate),
		LastAuditDate: fmtDate(rec.LastAuditDate),
		Notes:         strPtr(rec.Notes),
	}
}
