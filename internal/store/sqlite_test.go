package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleLead(address string) *Lead {
	return &Lead{
		WorkspaceID: "ws-1",
		FirstName:   "John",
		LastName:    "Smith",
		Phone:       "4805550100",
		Email:       "john@example.com",
		Address:     address,
		City:        "Phoenix",
		State:       "AZ",
		Zip:         "85001",
		Score:       82,
		Priority:    "HIGH",
		SourceTag:   "batchdata_import",
		Notes:       "Lot: 45000 sqft",
	}
}

func TestSQLite_CreateAndList(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	id, err := s.CreateLead(ctx, sampleLead("1 Main St, Phoenix, AZ, 85001"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	leads, err := s.ListLeads(ctx, "ws-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, id, leads[0].ID)
	assert.Equal(t, "John", leads[0].FirstName)
	assert.Equal(t, 82.0, leads[0].Score)
	assert.Equal(t, "HIGH", leads[0].Priority)

	n, err := s.CountLeads(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Other workspaces see nothing.
	leads, err = s.ListLeads(ctx, "ws-2", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestSQLite_ExistsByAddress(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	addr := "2 Elm St, Phoenix, AZ, 85001"
	exists, err := s.LeadExistsByAddress(ctx, "ws-1", addr)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.CreateLead(ctx, sampleLead(addr))
	require.NoError(t, err)

	exists, err = s.LeadExistsByAddress(ctx, "ws-1", addr)
	require.NoError(t, err)
	assert.True(t, exists)

	// Same address in a different workspace is distinct.
	exists, err = s.LeadExistsByAddress(ctx, "ws-2", addr)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLite_DuplicateAddressRejected(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	addr := "3 Oak St, Phoenix, AZ, 85001"
	_, err := s.CreateLead(ctx, sampleLead(addr))
	require.NoError(t, err)

	_, err = s.CreateLead(ctx, sampleLead(addr))
	require.Error(t, err)

	n, err := s.CountLeads(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSQLite_ListPagination(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for _, addr := range []string{"1 A St", "2 B St", "3 C St"} {
		_, err := s.CreateLead(ctx, sampleLead(addr))
		require.NoError(t, err)
	}

	page, err := s.ListLeads(ctx, "ws-1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = s.ListLeads(ctx, "ws-1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
