// Package verify confirms phone line types through carrier lookups. The
// stage is strictly additive: a failed or skipped lookup leaves the record
// unverified, it never drops it.
package verify

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/twilio"
)

// Verifier runs carrier lookups in bounded concurrent batches. A nil client
// turns the whole stage into a passthrough.
type Verifier struct {
	client     twilio.Client
	batchSize  int
	batchDelay time.Duration
	log        *zap.Logger

	// requests counts lookup calls for cost reporting.
	requests atomic.Int64
}

// Requests returns the number of lookup calls made so far.
func (v *Verifier) Requests() int {
	return int(v.requests.Load())
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithBatchSize overrides the concurrent lookup batch size.
func WithBatchSize(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.batchSize = n
		}
	}
}

// WithBatchDelay overrides the pause between batches.
func WithBatchDelay(d time.Duration) Option {
	return func(v *Verifier) {
		v.batchDelay = d
	}
}

// New creates a Verifier. Pass a nil client to disable verification.
func New(client twilio.Client, opts ...Option) *Verifier {
	v := &Verifier{
		client:     client,
		batchSize:  10,
		batchDelay: time.Second,
		log:        zap.L().With(zap.String("component", "verify")),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Enabled reports whether a lookup client is configured.
func (v *Verifier) Enabled() bool {
	return v.client != nil
}

// Verify annotates each record's selected phone with its carrier line type.
// Records whose number fails normalization or lookup stay unverified.
func (v *Verifier) Verify(ctx context.Context, records []model.Homeowner) []model.Homeowner {
	if !v.Enabled() {
		v.log.Info("phone verification disabled, passing records through",
			zap.Int("records", len(records)),
		)
		return records
	}

	verified := 0
	for start := 0; start < len(records); start += v.batchSize {
		end := start + v.batchSize
		if end > len(records) {
			end = len(records)
		}
		if start > 0 {
			select {
			case <-time.After(v.batchDelay):
			case <-ctx.Done():
				return records
			}
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				v.verifyOne(gctx, &records[i])
				return nil
			})
		}
		g.Wait() //nolint:errcheck

		for i := start; i < end; i++ {
			if records[i].PhoneVerified {
				verified++
			}
		}
	}

	v.log.Info("phone verification complete",
		zap.Int("records", len(records)),
		zap.Int("verified", verified),
	)
	return records
}

func (v *Verifier) verifyOne(ctx context.Context, h *model.Homeowner) {
	if h.Phone == "" {
		return
	}
	e164, err := NormalizeE164(h.Phone)
	if err != nil {
		v.log.Debug("phone not normalizable", zap.String("phone", h.Phone), zap.Error(err))
		return
	}

	v.requests.Add(1)
	resp, err := v.client.LookupCarrier(ctx, e164)
	if err != nil {
		v.log.Warn("carrier lookup failed, record stays unverified",
			zap.String("phone", e164),
			zap.Error(err),
		)
		return
	}
	h.PhoneType = resp.Carrier.Type
	h.PhoneVerified = true
}

// NormalizeE164 converts a raw phone string to E.164 form: digits only, a
// US country code prepended to bare 10-digit numbers, then a leading plus.
func NormalizeE164(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 {
		digits = "1" + digits
	}
	if len(digits) < 10 || len(digits) > 15 {
		return "", eris.Errorf("verify: phone %q has %d digits, want 10-15", phone, len(digits))
	}
	return "+" + digits, nil
}
