package graphqltest

import (
	"context"

	gql "github.com/graph-gophers/graphql-go"

	"labchem.GO/graphql"
	gqlmodels "labchem.GO/graphql/models"
)

// MockRootResolver is the root for graphql-go tests (no DB).
type MockRootResolver struct{}

func (m *MockRootResolver) Query() *MockQueryResolver {
	return &MockQueryResolver{}
}

type MockQueryResolver struct{}

type mockChemicalArgs struct {
	Qr string
}

func (m *MockQueryResolver) Chemical(ctx context.Context, args mockChemicalArgs) (*gqlmodels.Chemical, error) {
	cas := "64-17-5"
	return &gqlmodels.Chemical{ID: 1, Name: "Mock Ethanol", CasNumber: &cas, QrCode: "CHM-MOCK", Quantity: 2.5, GroupID: 1}, nil
}

type mockChemicalsArgs struct {
	PageSize    int32
	CurrentPage int32
	LocationID  *int32
}

func (m *MockQueryResolver) Chemicals(ctx context.Context, args mockChemicalsArgs) (*gqlmodels.ChemicalPage, error) {
	return &gqlmodels.ChemicalPage{
		Items:      []*gqlmodels.Chemical{{ID: 1, Name: "Mock Chemical", QrCode: "CHM-LIST", GroupID: 1}},
		TotalCount: 1,
	}, nil
}

func (m *MockQueryResolver) Locations(ctx context.Context) ([]*gqlmodels.Location, error) {
	return []*gqlmodels.Location{
		{ID: 1, BuildingCode: "CH", BuildingName: "Mock Building", Room: "101", QrCode: "LOC-MOCK", ChemicalCount: 3},
	}, nil
}

func (m *MockQueryResolver) AuditRounds(ctx context.Context) ([]*gqlmodels.AuditRound, error) {
	round, _ := m.AuditRound(ctx, mockAuditRoundArgs{ID: 1})
	return []*gqlmodels.AuditRound{round}, nil
}

type mockAuditRoundArgs struct {
	ID int32
}

func (m *MockQueryResolver) AuditRound(ctx context.Context, args mockAuditRoundArgs) (*gqlmodels.AuditRound, error) {
	return &gqlmodels.AuditRound{
		ID: 1, Round: 1, AuditorID: 1, Status: "Ongoing",
		StartDate: "2026-08-01T09:00:00Z", LastAuditDate: "2026-08-01T09:30:00Z",
		PendingCount: 1, FinishedCount: 0,
		Audits: []*gqlmodels.LocationAudit{{
			ID: 10, LocationID: 1, Round: 1, Status: "Ongoing", ScanState: "scanning",
			StartDate: "2026-08-01T09:00:00Z", LastAuditDate: "2026-08-01T09:30:00Z",
			PendingCount: 1, FinishedCount: 1,
			Records: []*gqlmodels.AuditRecord{
				{ID: 100, ChemicalID: 1, LocationID: 1, Status: "Audited", AuditDate: "2026-08-01T09:00:00Z", LastAuditDate: "2026-08-01T09:15:00Z"},
				{ID: 101, ChemicalID: 2, LocationID: 1, Status: "Unaudited", AuditDate: "2026-08-01T09:00:00Z", LastAuditDate: "2026-08-01T09:00:00Z"},
			},
		}},
	}, nil
}

type mockSearchArgs struct {
	Query       string
	PageSize    int32
	CurrentPage int32
}

func (m *MockQueryResolver) SearchChemicals(ctx context.Context, args mockSearchArgs) (*gqlmodels.ChemicalPage, error) {
	return &gqlmodels.ChemicalPage{
		Items:      []*gqlmodels.Chemical{{ID: 7, Name: "Mock Search Hit", QrCode: "CHM-SEARCH", GroupID: 1}},
		TotalCount: 1,
	}, nil
}

type mockExtensionArgs struct {
	Name string
	Args *string
}

func (m *MockQueryResolver) Extension(ctx context.Context, args mockExtensionArgs) (*string, error) {
	s := `{"mock":"ok"}`
	return &s, nil
}

// NewMockSchema creates a schema with mock resolvers for tests.
func NewMockSchema() *gql.Schema {
	schema, err := gql.ParseSchema(graphql.Schema(), &MockRootResolver{}, gql.UseFieldResolvers())
	if err != nil {
		panic("mock schema: " + err.Error())
	}
	return schema
}
