package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/batchdata"
)

// fakeTracer answers skip-trace requests from a user-supplied function.
type fakeTracer struct {
	fn       func(batchdata.SkipTraceRequest) (*batchdata.SkipTraceResponse, error)
	requests []batchdata.SkipTraceRequest
}

func (f *fakeTracer) Search(context.Context, batchdata.SearchRequest) (*batchdata.SearchResponse, error) {
	return &batchdata.SearchResponse{}, nil
}

func (f *fakeTracer) SkipTrace(_ context.Context, req batchdata.SkipTraceRequest) (*batchdata.SkipTraceResponse, error) {
	f.requests = append(f.requests, req)
	return f.fn(req)
}

func testEnricher(c batchdata.Client, opts ...Option) *Enricher {
	base := []Option{WithPacing(rate.NewLimiter(rate.Inf, 1))}
	return New(c, append(base, opts...)...)
}

func homeowners(streets ...string) []model.Homeowner {
	out := make([]model.Homeowner, len(streets))
	for i, st := range streets {
		out[i] = model.Homeowner{
			Address:     model.Address{Street: st, City: "Phoenix", State: "AZ", Zip: "85001"},
			FullAddress: st + ", Phoenix, AZ, 85001",
		}
	}
	return out
}

func TestSkipTrace_CorrelatesByRequestID(t *testing.T) {
	fake := &fakeTracer{fn: func(req batchdata.SkipTraceRequest) (*batchdata.SkipTraceResponse, error) {
		// Echo results in reverse order; IDs must drive the match.
		persons := make([]batchdata.Person, 0, len(req.Requests))
		for i := len(req.Requests) - 1; i >= 0; i-- {
			persons = append(persons, batchdata.Person{
				RequestID: req.Requests[i].RequestID,
				Name:      &batchdata.PersonName{First: "Owner", Last: req.Requests[i].PropertyAddress.Street},
				PhoneNumbers: []batchdata.PhoneNumber{
					{Number: "480555010" + req.Requests[i].PropertyAddress.Street, Type: "mobile", Reachable: true},
				},
			})
		}
		return &batchdata.SkipTraceResponse{Results: batchdata.SkipTraceResults{Persons: persons}}, nil
	}}

	e := testEnricher(fake)
	out := e.SkipTrace(context.Background(), homeowners("1", "2", "3"))
	require.Len(t, out, 3)
	for i, want := range []string{"1", "2", "3"} {
		assert.Equal(t, "Owner "+want, out[i].OwnerName)
		assert.Equal(t, "480555010"+want, out[i].Phone)
	}
	assert.Equal(t, 3.0, e.EstimatedCredits)
}

func TestSkipTrace_TruncatedPositionalResponse(t *testing.T) {
	// Provider drops request IDs and returns fewer results than requests.
	// The tail records stay unenriched; earlier pairs never shift.
	fake := &fakeTracer{fn: func(req batchdata.SkipTraceRequest) (*batchdata.SkipTraceResponse, error) {
		return &batchdata.SkipTraceResponse{Results: batchdata.SkipTraceResults{Persons: []batchdata.Person{
			{PhoneNumbers: []batchdata.PhoneNumber{{Number: "4805550100", Type: "mobile", Reachable: true}}},
		}}}, nil
	}}

	e := testEnricher(fake)
	out := e.SkipTrace(context.Background(), homeowners("1", "2", "3"))
	require.Len(t, out, 3)
	assert.Equal(t, "4805550100", out[0].Phone)
	assert.Empty(t, out[1].Phone)
	assert.Empty(t, out[2].Phone)
	assert.Equal(t, 1.0, e.EstimatedCredits)
}

func TestSkipTrace_BatchFailureKeepsRecords(t *testing.T) {
	calls := 0
	fake := &fakeTracer{fn: func(batchdata.SkipTraceRequest) (*batchdata.SkipTraceResponse, error) {
		calls++
		if calls == 1 {
			return nil, assert.AnError
		}
		return &batchdata.SkipTraceResponse{Results: batchdata.SkipTraceResults{Persons: []batchdata.Person{
			{PhoneNumbers: []batchdata.PhoneNumber{{Number: "6025550100", Type: "mobile", Reachable: true}}},
		}}}, nil
	}}

	e := testEnricher(fake, WithBatchSize(2))
	out := e.SkipTrace(context.Background(), homeowners("1", "2", "3"))
	require.Len(t, out, 3)
	assert.Empty(t, out[0].Phone)
	assert.Empty(t, out[1].Phone)
	assert.Equal(t, "6025550100", out[2].Phone)
	assert.Equal(t, 2, e.Requests)
}

func TestSkipTrace_BatchSizeSplitsRequests(t *testing.T) {
	fake := &fakeTracer{fn: func(batchdata.SkipTraceRequest) (*batchdata.SkipTraceResponse, error) {
		return &batchdata.SkipTraceResponse{}, nil
	}}
	e := testEnricher(fake, WithBatchSize(2))
	e.SkipTrace(context.Background(), homeowners("1", "2", "3", "4", "5"))
	require.Len(t, fake.requests, 3)
	assert.Len(t, fake.requests[0].Requests, 2)
	assert.Len(t, fake.requests[2].Requests, 1)
}

func TestApplyPerson_PhoneSelection(t *testing.T) {
	tests := []struct {
		name    string
		numbers []batchdata.PhoneNumber
		want    string
		kept    int
	}{
		{
			"reachable mobile wins",
			[]batchdata.PhoneNumber{
				{Number: "1", Type: "landline", Reachable: true},
				{Number: "2", Type: "mobile", Reachable: true},
			},
			"2", 2,
		},
		{
			"reachable landline over unreachable mobile",
			[]batchdata.PhoneNumber{
				{Number: "1", Type: "mobile"},
				{Number: "2", Type: "landline", Reachable: true},
			},
			"2", 2,
		},
		{
			"first remaining when nothing reachable",
			[]batchdata.PhoneNumber{
				{Number: "1", Type: "landline"},
				{Number: "2", Type: "landline"},
			},
			"1", 2,
		},
		{
			"dnc discarded before selection",
			[]batchdata.PhoneNumber{
				{Number: "1", Type: "mobile", Reachable: true, DNC: true},
				{Number: "2", Type: "landline"},
			},
			"2", 1,
		},
		{
			"all dnc leaves no phone",
			[]batchdata.PhoneNumber{
				{Number: "1", DNC: true},
			},
			"", 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := model.Homeowner{}
			applyPerson(&h, &batchdata.Person{PhoneNumbers: tt.numbers})
			assert.Equal(t, tt.want, h.Phone)
			assert.Len(t, h.PhoneCandidates, tt.kept)
		})
	}
}

func TestApplyPerson_NameAndEmails(t *testing.T) {
	h := model.Homeowner{}
	applyPerson(&h, &batchdata.Person{
		Name:   &batchdata.PersonName{First: "Jane", Last: "Doe"},
		Emails: []batchdata.Email{{Email: "jane@example.com"}, {Email: "jd@example.com"}, {}},
	})
	assert.Equal(t, "Jane Doe", h.OwnerName)
	assert.Equal(t, "jane@example.com", h.Email)
	assert.Len(t, h.Emails, 2)

	// Search-provided owner names are not overwritten.
	h2 := model.Homeowner{OwnerName: "Existing Owner"}
	applyPerson(&h2, &batchdata.Person{Name: &batchdata.PersonName{First: "Jane", Last: "Doe"}})
	assert.Equal(t, "Existing Owner", h2.OwnerName)
}
