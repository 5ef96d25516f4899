package resolvers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/mitchellh/mapstructure"

	gqlmodels "labchem.GO/graphql/models"
)

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// GetSearchService returns singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

// SearchService queries the chemical index in Elasticsearch. Left
// unconfigured (nil client) search returns a typed error and the rest
// of the API keeps working.
type SearchService struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchService() *SearchService {
	host := os.Getenv("ELASTICSEARCH_HOST")
	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = "labchem_chemical"
	}
	if host == "" {
		return &SearchService{index: index}
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &SearchService{index: index}
	}

	return &SearchService{
		client: client,
		index:  index,
	}
}

// SearchChemicals (resolver) delegates to SearchService.
func (r *Resolver) SearchChemicals(ctx context.Context, query string, pageSize, currentPage int) (*gqlmodels.ChemicalPage, error) {
	return r.SearchService.Search(ctx, query, pageSize, currentPage)
}

// chemicalSource mirrors the indexed document shape.
type chemicalSource struct {
	ChemicalID  int32   `mapstructure:"chemical_id"`
	Name        string  `mapstructure:"name"`
	CASNumber   string  `mapstructure:"cas_number"`
	QRCode      string  `mapstructure:"qr_code"`
	Quantity    float64 `mapstructure:"quantity"`
	Type        string  `mapstructure:"type"`
	Restricted  bool    `mapstructure:"restricted"`
	GroupID     int32   `mapstructure:"group_id"`
	LocationID  *int32  `mapstructure:"location_id"`
	Supplier    string  `mapstructure:"supplier"`
	Description string  `mapstructure:"description"`
	SubLocation string  `mapstructure:"sub_location"`
}

// Search runs a multi_match over the chemical index.
func (s *SearchService) Search(ctx context.Context, query string, pageSize, currentPage int) (*gqlmodels.ChemicalPage, error) {
	if s.client == nil {
		return nil, fmt.Errorf("elasticsearch not configured")
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	if currentPage <= 0 {
		currentPage = 1
	}
	from := (currentPage - 1) * pageSize

	body := map[string]interface{}{
		"from": from,
		"size": pageSize,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "cas_number^2", "qr_code^2", "supplier", "description"},
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	items := make([]*gqlmodels.Chemical, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		var src chemicalSource
		cfg := &mapstructure.DecoderConfig{
			Result:           &src,
			TagName:          "mapstructure",
			WeaklyTypedInput: true,
		}
		dec, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(hit.Source); err != nil {
			continue
		}
		items = append(items, &gqlmodels.Chemical{
			ID:          src.ChemicalID,
			Name:        src.Name,
			CasNumber:   strPtr(src.CASNumber),
			QrCode:      src.QRCode,
			Quantity:    src.Quantity,
			Type:        strPtr(src.Type),
			Restricted:  src.Restricted,
			GroupID:     src.GroupID,
			LocationID:  src.LocationID,
			Supplier:    strPtr(src.Supplier),
			Description: strPtr(src.Description),
			SubLocation: strPtr(src.SubLocation),
		})
	}

	return &gqlmodels.ChemicalPage{
		Items:      items,
		TotalCount: int32(esResp.Hits.Total.Value),
	}, nil
}
