package graphqlserver

import (
	"context"
	"encoding/json"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"labchem.GO/graphql"
	gqlmodels "labchem.GO/graphql/models"
	"labchem.GO/graphql/registry"
	"labchem.GO/graphql/resolvers"
)

// RootResolver is the root for graphql-go.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{db: r.DB}
}

// QueryResolver implements Query fields. Delegates to resolvers package.
type QueryResolver struct {
	db *gorm.DB
}

// ChemicalArgs matches the chemical query arguments.
type ChemicalArgs struct {
	Qr string
}

func (r *QueryResolver) Chemical(ctx context.Context, args ChemicalArgs) (*gqlmodels.Chemical, error) {
	return resolvers.NewResolver(r.db).Chemical(ctx, args.Qr)
}

// ChemicalsArgs matches the chemicals query arguments (defaults in schema: pageSize=20, currentPage=1).
type ChemicalsArgs struct {
	PageSize    int32
	CurrentPage int32
	LocationID  *int32
}

func (r *QueryResolver) Chemicals(ctx context.Context, args ChemicalsArgs) (*gqlmodels.ChemicalPage, error) {
	var locID *uint
	if args.LocationID != nil {
		u := uint(*args.LocationID)
		locID = &u
	}
	return resolvers.NewResolver(r.db).Chemicals(ctx, int(args.PageSize), int(args.CurrentPage), locID)
}

func (r *QueryResolver) Locations(ctx context.Context) ([]*gqlmodels.Location, error) {
	return resolvers.NewResolver(r.db).Locations(ctx)
}

func (r *QueryResolver) AuditRounds(ctx context.Context) ([]*gqlmodels.AuditRound, error) {
	return resolvers.NewResolver(r.db).AuditRounds(ctx)
}

// AuditRoundArgs matches the auditRound query arguments.
type AuditRoundArgs struct {
	ID int32
}

func (r *QueryResolver) AuditRound(ctx context.Context, args AuditRoundArgs) (*gqlmodels.AuditRound, error) {
	return resolvers.NewResolver(r.db).AuditRound(ctx, uint(args.ID))
}

// SearchChemicalsArgs matches the searchChemicals query arguments.
type SearchChemicalsArgs struct {
	Query       string
	PageSize    int32
	CurrentPage int32
}

func (r *QueryResolver) SearchChemicals(ctx context.Context, args SearchChemicalsArgs) (*gqlmodels.ChemicalPage, error) {
	return resolvers.NewResolver(r.db).SearchChemicals(ctx, args.Query, int(args.PageSize), int(args.CurrentPage))
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
