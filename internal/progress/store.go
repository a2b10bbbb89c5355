// Package progress persists the pipeline's cumulative run state as a JSON
// checkpoint file so interrupted runs can resume without reprocessing.
package progress

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Store reads and writes the checkpoint file. It is owned exclusively by
// the orchestrator and never accessed concurrently.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the checkpoint file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the checkpoint. A missing file is a fresh run, not an error:
// it returns a new Progress for jobID.
func (s *Store) Load(jobID string) (*model.Progress, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Info("no checkpoint found, starting fresh", zap.String("path", s.path))
			return model.NewProgress(jobID), nil
		}
		return nil, eris.Wrap(err, "progress: read checkpoint")
	}

	var p model.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrap(err, "progress: unmarshal checkpoint")
	}

	zap.L().Info("resuming from checkpoint",
		zap.String("path", s.path),
		zap.Int("ledger_entries", len(p.Ledger)),
		zap.Int("imported", p.Counters.Imported),
	)
	return &p, nil
}

// Save writes the checkpoint durably. The write goes to a temp file in the
// same directory and is renamed into place, so a crash mid-write never
// corrupts the previous checkpoint.
func (s *Store) Save(p *model.Progress) error {
	p.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return eris.Wrap(err, "progress: marshal checkpoint")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".progress-*.json")
	if err != nil {
		return eris.Wrap(err, "progress: create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "progress: write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "progress: close temp file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "progress: rename checkpoint")
	}
	return nil
}
