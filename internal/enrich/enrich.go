// Package enrich adds skip-trace contact data to homeowner records in bulk
// batches, correlating provider results back to the originating records.
package enrich

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/batchdata"
)

// Enricher runs bulk skip-trace requests. A failed batch is appended
// unenriched so the pipeline never loses records to a provider outage.
type Enricher struct {
	client    batchdata.Client
	batchSize int
	limiter   *rate.Limiter
	perHit    float64
	log       *zap.Logger

	// Run counters, read by the orchestrator for cost reporting.
	Requests         int
	EstimatedCredits float64
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithBatchSize overrides the skip-trace batch size.
func WithBatchSize(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithPacing sets the inter-batch limiter.
func WithPacing(l *rate.Limiter) Option {
	return func(e *Enricher) {
		e.limiter = l
	}
}

// WithCreditPerHit sets the estimated credit cost per traced record.
func WithCreditPerHit(c float64) Option {
	return func(e *Enricher) {
		e.perHit = c
	}
}

// New creates an Enricher over the given provider client.
func New(client batchdata.Client, opts ...Option) *Enricher {
	e := &Enricher{
		client:    client,
		batchSize: 50,
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		perHit:    1,
		log:       zap.L().With(zap.String("component", "enrich")),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SkipTrace enriches a record set batch by batch, preserving input order.
func (e *Enricher) SkipTrace(ctx context.Context, records []model.Homeowner) []model.Homeowner {
	out := make([]model.Homeowner, 0, len(records))
	for start := 0; start < len(records); start += e.batchSize {
		end := start + e.batchSize
		if end > len(records) {
			end = len(records)
		}
		out = append(out, e.traceBatch(ctx, records[start:end])...)
	}
	return out
}

// traceBatch runs one bulk request. Results carry the request ID assigned
// here; when the provider echoes it back the ID drives correlation, with
// positional order as the fallback for providers that do not. A result
// count below the request count is reported per missing record instead of
// shifting the remaining pairs.
func (e *Enricher) traceBatch(ctx context.Context, batch []model.Homeowner) []model.Homeowner {
	if err := e.limiter.Wait(ctx); err != nil {
		return batch
	}

	req := batchdata.SkipTraceRequest{Requests: make([]batchdata.SkipTraceItem, len(batch))}
	ids := make(map[string]int, len(batch))
	for i := range batch {
		id := uuid.NewString()
		ids[id] = i
		req.Requests[i] = batchdata.SkipTraceItem{
			RequestID: id,
			PropertyAddress: batchdata.TraceAddr{
				Street: batch[i].Address.Street,
				City:   batch[i].Address.City,
				State:  batch[i].Address.State,
				Zip:    batch[i].Address.Zip,
			},
		}
	}

	e.Requests++
	resp, err := e.client.SkipTrace(ctx, req)
	if err != nil {
		e.log.Warn("skip-trace batch failed, keeping records unenriched",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		return batch
	}

	persons := resp.Results.Persons
	matched := make([]bool, len(batch))
	for i := range persons {
		idx := -1
		if id := persons[i].RequestID; id != "" {
			if j, ok := ids[id]; ok {
				idx = j
			} else {
				e.log.Warn("skip-trace result carries unknown request id",
					zap.String("request_id", id),
				)
				continue
			}
		} else if i < len(batch) {
			idx = i
		}
		if idx < 0 || matched[idx] {
			continue
		}
		applyPerson(&batch[idx], &persons[i])
		matched[idx] = true
		e.EstimatedCredits += e.perHit
	}

	for i := range batch {
		if !matched[i] {
			e.log.Warn("no skip-trace result for record",
				zap.String("address", batch[i].FullAddress),
			)
		}
	}
	return batch
}

// applyPerson copies trace results onto the record. DNC numbers are
// discarded before selection; the selected phone prefers a reachable
// mobile, then any reachable number, then the first remaining candidate.
func applyPerson(h *model.Homeowner, p *batchdata.Person) {
	if p.Name != nil && h.OwnerName == "" {
		h.FirstName = p.Name.First
		h.LastName = p.Name.Last
		h.OwnerName = p.Name.First + " " + p.Name.Last
	}

	candidates := make([]model.PhoneCandidate, 0, len(p.PhoneNumbers))
	for _, n := range p.PhoneNumbers {
		if n.DNC {
			continue
		}
		candidates = append(candidates, model.PhoneCandidate{
			Number:    n.Number,
			Type:      n.Type,
			Reachable: n.Reachable,
			DNC:       n.DNC,
			Score:     n.Score,
		})
	}
	h.PhoneCandidates = candidates
	h.Phone = selectPhone(candidates)

	for _, em := range p.Emails {
		if em.Email == "" {
			continue
		}
		h.Emails = append(h.Emails, em.Email)
		if h.Email == "" {
			h.Email = em.Email
		}
	}
}

// selectPhone picks the best contact number from already-DNC-filtered
// candidates.
func selectPhone(candidates []model.PhoneCandidate) string {
	var anyReachable string
	for _, c := range candidates {
		if !c.Reachable {
			continue
		}
		if c.IsMobile() {
			return c.Number
		}
		if anyReachable == "" {
			anyReachable = c.Number
		}
	}
	if anyReachable != "" {
		return anyReachable
	}
	if len(candidates) > 0 {
		return candidates[0].Number
	}
	return ""
}
