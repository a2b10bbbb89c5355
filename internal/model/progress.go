package model

import "time"

// LedgerEntry records one successfully imported lead. The ledger is
// append-only and survives across resumed runs of the same job.
type LedgerEntry struct {
	RecordID    string    `json:"record_id"`
	Address     string    `json:"address"`
	Score       float64   `json:"score"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ErrorEntry records one non-fatal error encountered during a run.
type ErrorEntry struct {
	Context   string    `json:"context"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Counters holds the cumulative run statistics. All counts are monotonically
// non-decreasing across resumed runs.
type Counters struct {
	PropertiesFound  int     `json:"properties_found"`
	HomeownersFound  int     `json:"homeowners_found"`
	WithPhone        int     `json:"with_phone"`
	WithMobile       int     `json:"with_mobile"`
	Imported         int     `json:"imported"`
	Skipped          int     `json:"skipped"`
	Failed           int     `json:"failed"`
	AverageScore     float64 `json:"average_score"`
	HighPriority     int     `json:"high_priority"`
	MediumPriority   int     `json:"medium_priority"`
	LowPriority      int     `json:"low_priority"`
	APIRequests      int     `json:"api_requests"`
	EstimatedCredits float64 `json:"estimated_credits"`
}

// Progress is the durable checkpoint state of a pipeline job, cumulative
// across restarts. It is owned exclusively by the orchestrator.
type Progress struct {
	JobID     string        `json:"job_id"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Stage     string        `json:"stage"`
	Counters  Counters      `json:"counters"`
	Ledger    []LedgerEntry `json:"ledger"`
	Errors    []ErrorEntry  `json:"errors"`
}

// NewProgress returns a fresh Progress for a job.
func NewProgress(jobID string) *Progress {
	now := time.Now().UTC()
	return &Progress{
		JobID:     jobID,
		StartedAt: now,
		UpdatedAt: now,
		Stage:     "init",
	}
}

// Processed reports whether an address has already been imported in any run
// of this job.
func (p *Progress) Processed(address string) bool {
	for _, e := range p.Ledger {
		if e.Address == address {
			return true
		}
	}
	return false
}

// RecordImport appends a ledger entry and updates the import counters,
// keeping the running average score consistent.
func (p *Progress) RecordImport(recordID, address string, score float64) {
	p.Ledger = append(p.Ledger, LedgerEntry{
		RecordID:    recordID,
		Address:     address,
		Score:       score,
		ProcessedAt: time.Now().UTC(),
	})
	total := p.Counters.AverageScore*float64(p.Counters.Imported) + score
	p.Counters.Imported++
	p.Counters.AverageScore = total / float64(p.Counters.Imported)
}

// RecordError appends an error entry with the current timestamp.
func (p *Progress) RecordError(context, message string) {
	p.Errors = append(p.Errors, ErrorEntry{
		Context:   context,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// TopErrors returns up to n most recent errors for operator display.
func (p *Progress) TopErrors(n int) []ErrorEntry {
	if len(p.Errors) <= n {
		return p.Errors
	}
	return p.Errors[len(p.Errors)-n:]
}
