// Package search drives paged property-search ingestion: it walks the
// provider's result pages, normalizes each property into a homeowner record
// and tracks request and credit spend.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/batchdata"
)

// Criteria narrows a property search.
type Criteria struct {
	City       string
	State      string
	MinLotSqft float64
	MinValue   float64
	MaxResults int
	Offset     int
}

// Query renders the provider query string.
func (c Criteria) Query() string {
	return fmt.Sprintf("%s, %s", c.City, c.State)
}

// Searcher pages through property-search results. Page failures are soft:
// the error is logged and the records gathered so far are returned.
type Searcher struct {
	client   batchdata.Client
	pageSize int
	limiter  *rate.Limiter
	perQuery float64
	log      *zap.Logger

	// Run counters, read by the orchestrator for cost reporting.
	Requests         int
	EstimatedCredits float64
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithPageSize overrides the page size.
func WithPageSize(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithPacing sets the inter-page limiter.
func WithPacing(l *rate.Limiter) Option {
	return func(s *Searcher) {
		s.limiter = l
	}
}

// WithCreditPerQuery sets the estimated credit cost per page request.
func WithCreditPerQuery(c float64) Option {
	return func(s *Searcher) {
		s.perQuery = c
	}
}

// New creates a Searcher over the given provider client.
func New(client batchdata.Client, opts ...Option) *Searcher {
	s := &Searcher{
		client:   client,
		pageSize: 100,
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		perQuery: 1,
		log:      zap.L().With(zap.String("component", "search")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search walks result pages until the provider runs dry or MaxResults is
// reached, returning normalized homeowner records. A failed page ends the
// walk with the partial results, not an error.
func (s *Searcher) Search(ctx context.Context, crit Criteria) ([]model.Homeowner, error) {
	records := make([]model.Homeowner, 0, s.pageSize)
	skip := crit.Offset

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return records, err
		}

		take := s.pageSize
		if crit.MaxResults > 0 && crit.MaxResults-len(records) < take {
			take = crit.MaxResults - len(records)
		}
		if take <= 0 {
			break
		}

		req := s.buildRequest(crit, skip, take)
		s.Requests++
		s.EstimatedCredits += s.perQuery

		resp, err := s.client.Search(ctx, req)
		if err != nil {
			s.log.Warn("search page failed, keeping partial results",
				zap.Int("skip", skip),
				zap.Int("collected", len(records)),
				zap.Error(err),
			)
			return records, nil
		}

		props := resp.Results.Properties
		if len(props) == 0 {
			break
		}
		for i := range props {
			records = append(records, Normalize(&props[i]))
		}
		s.log.Info("search page complete",
			zap.Int("skip", skip),
			zap.Int("page_count", len(props)),
			zap.Int("total", len(records)),
		)

		skip += len(props)
		if len(props) < take {
			break
		}
		if crit.MaxResults > 0 && len(records) >= crit.MaxResults {
			break
		}
	}

	if crit.MaxResults > 0 && len(records) > crit.MaxResults {
		records = records[:crit.MaxResults]
	}
	return records, nil
}

// buildRequest assembles one page request from the criteria.
func (s *Searcher) buildRequest(crit Criteria, skip, take int) batchdata.SearchRequest {
	req := batchdata.SearchRequest{
		SearchCriteria: batchdata.SearchCriteria{
			Query:        crit.Query(),
			PropertyType: "residential",
		},
		Options: batchdata.SearchOptions{Skip: skip, Take: take},
	}
	if crit.MinLotSqft > 0 {
		req.SearchCriteria.LotSize = &batchdata.RangeFilter{Min: crit.MinLotSqft}
	}
	if crit.MinValue > 0 {
		req.SearchCriteria.EstimatedVal = &batchdata.RangeFilter{Min: crit.MinValue}
	}
	return req
}
