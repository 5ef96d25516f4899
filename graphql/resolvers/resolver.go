package resolvers

import (
	"context"

	"gorm.io/gorm"

	gqlmodels "labchem.GO/graphql/models"
	auditRepo "labchem.GO/model/repository/audit"
	chemicalRepo "labchem.GO/model/repository/chemical"
	locationRepo "labchem.GO/model/repository/location"
)

// Resolver wires the query resolvers to the repositories.
type Resolver struct {
	db            *gorm.DB
	ChemicalRepo  *chemicalRepo.ChemicalRepository
	LocationRepo  *locationRepo.LocationRepository
	AuditRepo     *auditRepo.AuditRepository
	SearchService *SearchService
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{
		db:            db,
		ChemicalRepo:  chemicalRepo.NewChemicalRepository(db),
		LocationRepo:  locationRepo.NewLocationRepository(db),
		AuditRepo:     auditRepo.NewAuditRepository(db),
		SearchService: GetSearchService(),
	}
}

func (r *Resolver) Chemical(ctx context.Context, qr string) (*gqlmodels.Chemical, error) {
	chem, err := r.ChemicalRepo.FindByQR(qr)
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mapChemical(chem), nil
}

func (r *Resolver) Chemicals(ctx context.Context, pageSize, currentPage int, locationID *uint) (*gqlmodels.ChemicalPage, error) {
	chems, total, err := r.ChemicalRepo.FindPage(pageSize, currentPage, locationID)
	if err != nil {
		return nil, err
	}
	items := make([]*gqlmodels.Chemical, 0, len(chems))
	for i := range chems {
		items = append(items, mapChemical(&chems[i]))
	}
	return &gqlmodels.ChemicalPage{Items: items, TotalCount: int32(total)}, nil
}

func (r *Resolver) Locations(ctx context.Context) ([]*gqlmodels.Location, error) {
	locs, err := r.LocationRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Location, 0, len(locs))
	for i := range locs {
		count, err := r.LocationRepo.CountChemicals(locs[i].LocationID)
		if err != nil {
			return nil, err
		}
		out = append(out, mapLocation(&locs[i], count))
	}
	return out, nil
}

func (r *Resolver) AuditRounds(ctx context.Context) ([]*gqlmodels.AuditRound, error) {
	gs, err := r.AuditRepo.FindAllGenerals()
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.AuditRound, 0, len(gs))
	for i := range gs {
		round, err := r.buildRound(gs[i].AuditGeneralID)
		if err != nil {
			return nil, err
		}
		out = append(out, round)
	}
	return out, nil
}

func (r *Resolver) AuditRound(ctx context.Context, id uint) (*gqlmodels.AuditRound, error) {
	round, err := r.buildRound(id)
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return round, err
}

// buildRound assembles one round with nested audits and records.
// Rounds are few and their records bounded by location size, so eager
// assembly beats per-field lazy loading here.
func (r *Resolver) buildRound(generalID uint) (*gqlmodels.AuditRound, error) {
	g, err := r.AuditRepo.FindGeneralByID(generalID)
	if err != nil {
		return nil, err
	}
	audits, err := r.AuditRepo.FindAuditsByGeneral(generalID)
	if err != nil {
		return nil, err
	}
	round := mapRound(g)
	for i := range audits {
		recs, err := r.AuditRepo.FindRecords(audits[i].AuditID)
		if err != nil {
			return nil, err
		}
		round.Audits = append(round.Audits, mapAudit(&audits[i], recs))
	}
	if round.Audits == nil {
		round.Audits = []*gqlmodels.LocationAudit{}
	}
	return round, nil
}
