package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	first_name   TEXT NOT NULL DEFAULT '',
	last_name    TEXT NOT NULL DEFAULT '',
	company      TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	phone_type   TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	address      TEXT NOT NULL,
	city         TEXT NOT NULL DEFAULT '',
	state        TEXT NOT NULL DEFAULT '',
	zip          TEXT NOT NULL DEFAULT '',
	score        REAL NOT NULL DEFAULT 0,
	priority     TEXT NOT NULL DEFAULT '',
	source_tag   TEXT NOT NULL DEFAULT '',
	assigned_to  TEXT NOT NULL DEFAULT '',
	notes        TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (workspace_id, address)
);

CREATE INDEX IF NOT EXISTS idx_leads_workspace ON leads(workspace_id);
CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(workspace_id, score DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LeadExistsByAddress(ctx context.Context, workspaceID, address string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM leads WHERE workspace_id = ? AND address = ?`,
		workspaceID, address,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: lead exists")
	}
	return n > 0, nil
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, workspace_id, first_name, last_name, company, phone, phone_type,
			email, address, city, state, zip, score, priority, source_tag, assigned_to, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.WorkspaceID, lead.FirstName, lead.LastName, lead.Company, lead.Phone,
		lead.PhoneType, lead.Email, lead.Address, lead.City, lead.State, lead.Zip,
		lead.Score, lead.Priority, lead.SourceTag, lead.AssignedTo, lead.Notes, lead.CreatedAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert lead")
	}
	return lead.ID, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, workspaceID string, limit, offset int) ([]Lead, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workspace_id, first_name, last_name, company, phone, phone_type,
			email, address, city, state, zip, score, priority, source_tag, assigned_to, notes, created_at
		 FROM leads WHERE workspace_id = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		workspaceID, limit, offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close() //nolint:errcheck

	var leads []Lead
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.WorkspaceID, &l.FirstName, &l.LastName, &l.Company,
			&l.Phone, &l.PhoneType, &l.Email, &l.Address, &l.City, &l.State, &l.Zip,
			&l.Score, &l.Priority, &l.SourceTag, &l.AssignedTo, &l.Notes, &l.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}

func (s *SQLiteStore) CountLeads(ctx context.Context, workspaceID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM leads WHERE workspace_id = ?`, workspaceID,
	).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: count leads")
	}
	return n, nil
}
