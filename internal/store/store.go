// Package store persists qualified leads. Two implementations back the
// same interface: Postgres for shared deployments and SQLite for local
// runs. Leads are unique per workspace on their property address, which is
// what makes re-runs idempotent.
package store

import (
	"context"
	"time"
)

// Lead is one persisted lead row.
type Lead struct {
	ID          string
	WorkspaceID string
	FirstName   string
	LastName    string
	Company     string
	Phone       string
	PhoneType   string
	Email       string
	Address     string
	City        string
	State       string
	Zip         string
	Score       float64
	Priority    string
	SourceTag   string
	AssignedTo  string
	Notes       string
	CreatedAt   time.Time
}

// Store is the destination lead store.
type Store interface {
	// Migrate creates or updates the schema.
	Migrate(ctx context.Context) error
	// LeadExistsByAddress reports whether a lead with this address already
	// exists in the workspace.
	LeadExistsByAddress(ctx context.Context, workspaceID, address string) (bool, error)
	// CreateLead inserts a lead and returns its ID.
	CreateLead(ctx context.Context, lead *Lead) (string, error)
	// ListLeads returns a page of workspace leads, newest first.
	ListLeads(ctx context.Context, workspaceID string, limit, offset int) ([]Lead, error)
	// CountLeads returns the workspace lead count.
	CountLeads(ctx context.Context, workspaceID string) (int, error)
	// Close releases the underlying connections.
	Close() error
}
