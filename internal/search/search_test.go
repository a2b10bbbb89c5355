package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/pkg/batchdata"
)

// fakeClient scripts one search response or error per page request.
type fakeClient struct {
	pages    []*batchdata.SearchResponse
	errs     []error
	requests []batchdata.SearchRequest
}

func (f *fakeClient) Search(_ context.Context, req batchdata.SearchRequest) (*batchdata.SearchResponse, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.pages) {
		return f.pages[i], nil
	}
	return &batchdata.SearchResponse{}, nil
}

func (f *fakeClient) SkipTrace(context.Context, batchdata.SkipTraceRequest) (*batchdata.SkipTraceResponse, error) {
	return &batchdata.SkipTraceResponse{}, nil
}

func page(ids ...string) *batchdata.SearchResponse {
	props := make([]batchdata.Property, len(ids))
	for i, id := range ids {
		props[i] = batchdata.Property{
			ID:      id,
			Address: &batchdata.PropAddr{Street: id + " Main St", City: "Phoenix", State: "AZ", Zip: "85001"},
		}
	}
	return &batchdata.SearchResponse{
		Results: batchdata.SearchResults{
			Meta:       batchdata.ResultMeta{ResultCount: len(props)},
			Properties: props,
		},
	}
}

func testSearcher(c batchdata.Client, opts ...Option) *Searcher {
	base := []Option{WithPacing(rate.NewLimiter(rate.Inf, 1)), WithPageSize(2)}
	return New(c, append(base, opts...)...)
}

func TestSearch_WalksPagesUntilShortPage(t *testing.T) {
	fake := &fakeClient{pages: []*batchdata.SearchResponse{
		page("1", "2"),
		page("3"),
	}}
	s := testSearcher(fake)

	records, err := s.Search(context.Background(), Criteria{City: "Phoenix", State: "AZ"})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "1", records[0].PropertyID)
	assert.Equal(t, "3", records[2].PropertyID)

	require.Len(t, fake.requests, 2)
	assert.Equal(t, "Phoenix, AZ", fake.requests[0].SearchCriteria.Query)
	assert.Equal(t, 0, fake.requests[0].Options.Skip)
	assert.Equal(t, 2, fake.requests[1].Options.Skip)
	assert.Equal(t, 2, s.Requests)
	assert.Equal(t, 2.0, s.EstimatedCredits)
}

func TestSearch_PageFailureReturnsPartial(t *testing.T) {
	fake := &fakeClient{
		pages: []*batchdata.SearchResponse{page("1", "2"), nil},
		errs:  []error{nil, assert.AnError},
	}
	s := testSearcher(fake)

	records, err := s.Search(context.Background(), Criteria{City: "Phoenix", State: "AZ"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSearch_MaxResultsCapsTake(t *testing.T) {
	fake := &fakeClient{pages: []*batchdata.SearchResponse{
		page("1", "2"),
		page("3"),
	}}
	s := testSearcher(fake)

	records, err := s.Search(context.Background(), Criteria{City: "Phoenix", State: "AZ", MaxResults: 3})
	require.NoError(t, err)
	assert.Len(t, records, 3)
	// Second page asks only for the remainder.
	require.Len(t, fake.requests, 2)
	assert.Equal(t, 1, fake.requests[1].Options.Take)
}

func TestSearch_OffsetStartsDeeper(t *testing.T) {
	fake := &fakeClient{pages: []*batchdata.SearchResponse{page("5")}}
	s := testSearcher(fake)

	_, err := s.Search(context.Background(), Criteria{City: "Phoenix", State: "AZ", Offset: 200})
	require.NoError(t, err)
	require.NotEmpty(t, fake.requests)
	assert.Equal(t, 200, fake.requests[0].Options.Skip)
}

func TestSearch_FiltersOnRequest(t *testing.T) {
	fake := &fakeClient{}
	s := testSearcher(fake)

	_, err := s.Search(context.Background(), Criteria{
		City: "Scottsdale", State: "AZ", MinLotSqft: 20000, MinValue: 1_000_000,
	})
	require.NoError(t, err)
	require.NotEmpty(t, fake.requests)
	req := fake.requests[0]
	assert.Equal(t, "residential", req.SearchCriteria.PropertyType)
	require.NotNil(t, req.SearchCriteria.LotSize)
	assert.Equal(t, 20000.0, req.SearchCriteria.LotSize.Min)
	require.NotNil(t, req.SearchCriteria.EstimatedVal)
	assert.Equal(t, 1_000_000.0, req.SearchCriteria.EstimatedVal.Min)
}

func TestNormalize_FullRecord(t *testing.T) {
	sale := "2025-03-15"
	p := batchdata.Property{
		ID:      "prop-1",
		Address: &batchdata.PropAddr{Street: "1 E Camelback Rd", City: "Phoenix", State: "AZ", Zip: "85012"},
		Owner:   &batchdata.Owner{FullName: "John Smith", FirstName: "John", LastName: "Smith"},
		Building: &batchdata.Building{
			TotalBuildingAreaSquareFeet: 3200,
			BedroomCount:                4,
			BathroomCount:               2.5,
			YearBuilt:                   1998,
			StoryCount:                  2,
		},
		Lot:       &batchdata.Lot{LotSizeSquareFeet: 45000, LotSizeAcres: 1.03},
		Valuation: &batchdata.Valuation{EstimatedValue: 1_800_000, Equity: 900_000},
		Sale:      &batchdata.Sale{LastSaleDate: sale, LastSalePrice: 1_500_000},
		QuickList: &batchdata.QuickList{CornerLot: true},
	}

	h := Normalize(&p)
	assert.Equal(t, "prop-1", h.PropertyID)
	assert.Equal(t, "1 E Camelback Rd, Phoenix, AZ, 85012", h.FullAddress)
	assert.Equal(t, "John Smith", h.OwnerName)
	assert.False(t, h.IsCorporate)
	assert.Equal(t, 3200.0, h.BuildingSqft)
	assert.Equal(t, 45000.0, h.LotSizeSqft)
	assert.Equal(t, 1_800_000.0, h.EstimatedValue)
	require.NotNil(t, h.LastSaleDate)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), *h.LastSaleDate)
	assert.True(t, h.CornerLot)
}

func TestNormalize_MissingSubObjects(t *testing.T) {
	h := Normalize(&batchdata.Property{ID: "bare"})
	assert.Equal(t, "bare", h.PropertyID)
	assert.Empty(t, h.FullAddress)
	assert.Zero(t, h.LotSizeSqft)
	assert.Nil(t, h.LastSaleDate)
}

func TestNormalize_LegacyFieldFallbacks(t *testing.T) {
	p := batchdata.Property{
		Building: &batchdata.Building{LivingAreaSquareFeet: 2100},
		Lot:      &batchdata.Lot{SquareFeet: 9000},
		Owner:    &batchdata.Owner{FullName: "Desert Holdings LLC"},
		Sale:     &batchdata.Sale{LastSaleDate: "not-a-date"},
	}
	h := Normalize(&p)
	assert.Equal(t, 2100.0, h.BuildingSqft)
	assert.Equal(t, 9000.0, h.LotSizeSqft)
	assert.True(t, h.IsCorporate)
	assert.Nil(t, h.LastSaleDate)
}
