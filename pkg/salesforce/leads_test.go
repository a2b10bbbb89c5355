package salesforce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSF struct {
	inserted []map[string]any
	results  []CollectionResult
	err      error
}

func (f *fakeSF) Query(context.Context, string, any) error { return nil }

func (f *fakeSF) InsertOne(context.Context, string, map[string]any) (string, error) {
	return "", nil
}

func (f *fakeSF) InsertCollection(_ context.Context, _ string, records []map[string]any) ([]CollectionResult, error) {
	f.inserted = records
	return f.results, f.err
}

func TestLeadRecord_SObject(t *testing.T) {
	rec := LeadRecord{
		FirstName: "John",
		LastName:  "Smith",
		Phone:     "4805550100",
		Email:     "john@example.com",
		Street:    "1 E Main St",
		City:      "Phoenix",
		State:     "AZ",
		Zip:       "85018",
		Source:    "batchdata_import",
	}.sObject()

	assert.Equal(t, "Smith", rec["LastName"])
	assert.Equal(t, "Homeowner", rec["Company"])
	assert.Equal(t, "85018", rec["PostalCode"])
	assert.Equal(t, "john@example.com", rec["Email"])

	corp := LeadRecord{Company: "Desert Holdings LLC"}.sObject()
	assert.Equal(t, "Desert Holdings LLC", corp["Company"])
	assert.Equal(t, "Desert Holdings LLC", corp["LastName"])
	_, hasEmail := corp["Email"]
	assert.False(t, hasEmail)
}

func TestPushLeads(t *testing.T) {
	fake := &fakeSF{results: []CollectionResult{
		{ID: "a", Success: true},
		{Success: false, Errors: []string{"DUPLICATES_DETECTED"}},
	}}

	created, err := PushLeads(context.Background(), fake, []LeadRecord{
		{LastName: "Smith"},
		{LastName: "Doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, fake.inserted, 2)

	created, err = PushLeads(context.Background(), fake, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestPushLeads_CollectionError(t *testing.T) {
	fake := &fakeSF{err: assert.AnError}
	_, err := PushLeads(context.Background(), fake, []LeadRecord{{LastName: "Smith"}})
	require.Error(t, err)
}
