// Package pipeline orchestrates the lead run: search, skip-trace
// enrichment, region filtering, scoring, phone verification, idempotent
// persistence and reporting, with a durable checkpoint between stages.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/phone"
	"github.com/sells-group/leadgen-cli/internal/progress"
	"github.com/sells-group/leadgen-cli/internal/scorer"
	"github.com/sells-group/leadgen-cli/internal/search"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/internal/verify"
)

// Stage names recorded in the checkpoint.
const (
	StageInit    = "init"
	StageSearch  = "search"
	StageEnrich  = "enrich"
	StageFilter  = "filter"
	StageScore   = "score"
	StageVerify  = "verify"
	StagePersist = "persist"
	StageReport  = "report"
	StageDone    = "done"
	StageError   = "error"
)

// Params control one pipeline run.
type Params struct {
	JobID        string
	Criteria     search.Criteria
	MinScore     float64
	DryRun       bool
	RegionFilter bool
}

// Pipeline wires the run stages together.
type Pipeline struct {
	cfg      *config.Config
	store    store.Store
	searcher *search.Searcher
	enricher *enrich.Enricher
	filter   *phone.Filter
	scorer   *scorer.Scorer
	verifier *verify.Verifier
	progress *progress.Store
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	st store.Store,
	searcher *search.Searcher,
	enricher *enrich.Enricher,
	filter *phone.Filter,
	sc *scorer.Scorer,
	verifier *verify.Verifier,
	prog *progress.Store,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		searcher: searcher,
		enricher: enricher,
		filter:   filter,
		scorer:   sc,
		verifier: verifier,
		progress: prog,
	}
}

// Run executes the full pipeline. Stage failures that can be survived are
// logged into the progress error ledger; the returned error is reserved for
// failures the run cannot continue past.
func (p *Pipeline) Run(ctx context.Context, params Params) (*RunReport, error) {
	log := zap.L().With(zap.String("job_id", params.JobID))
	start := time.Now()

	prog, err := p.progress.Load(params.JobID)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load checkpoint")
	}

	// Dry runs keep progress in memory only; the checkpoint file is
	// never written, so their tallies cannot leak into later real runs.
	saveCheckpoint := func() error {
		if params.DryRun {
			return nil
		}
		return p.progress.Save(prog)
	}

	costsFolded := false
	foldCosts := func() {
		if !costsFolded {
			p.collectCosts(prog)
			costsFolded = true
		}
	}

	// The checkpoint must survive every exit path, including panics in a
	// stage, so the final save is deferred. Costs fold in first so a run
	// that fails before the report stage still checkpoints its spend.
	defer func() {
		foldCosts()
		if saveErr := saveCheckpoint(); saveErr != nil {
			log.Error("pipeline: final checkpoint save failed", zap.Error(saveErr))
		}
	}()

	// Stage tracking helper: advances the checkpoint stage, times the
	// work and persists the checkpoint after each stage.
	runStage := func(name string, fn func() error) error {
		prog.Stage = name
		stageStart := time.Now()
		stageErr := fn()
		duration := time.Since(stageStart)
		if stageErr != nil {
			prog.Stage = StageError
			prog.RecordError(name, stageErr.Error())
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Duration("duration", duration),
				zap.Error(stageErr),
			)
		} else {
			log.Info("pipeline: stage complete",
				zap.String("stage", name),
				zap.Duration("duration", duration),
			)
		}
		if saveErr := saveCheckpoint(); saveErr != nil {
			return eris.Wrap(saveErr, "pipeline: save checkpoint")
		}
		return stageErr
	}

	var records []model.Homeowner

	if err := runStage(StageSearch, func() error {
		found, searchErr := p.searcher.Search(ctx, params.Criteria)
		if searchErr != nil {
			return searchErr
		}
		records = found
		prog.Counters.PropertiesFound += len(records)
		return nil
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: search")
	}

	if err := runStage(StageEnrich, func() error {
		records = p.enricher.SkipTrace(ctx, records)
		for i := range records {
			if records[i].OwnerName != "" || len(records[i].PhoneCandidates) > 0 {
				prog.Counters.HomeownersFound++
			}
			if records[i].HasPhone() {
				prog.Counters.WithPhone++
			}
			if records[i].HasMobile() {
				prog.Counters.WithMobile++
			}
		}
		return nil
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: enrich")
	}

	if params.RegionFilter {
		if err := runStage(StageFilter, func() error {
			records = p.filter.ApplyAll(records)
			return nil
		}); err != nil {
			return nil, eris.Wrap(err, "pipeline: filter")
		}
	}

	if err := runStage(StageScore, func() error {
		for i := range records {
			res := p.scorer.Score(&records[i])
			records[i].Score = res.Total
			records[i].ScoreBreakdown = res.Breakdown
			records[i].Priority = res.Priority
		}
		if params.MinScore > 0 {
			records = scorer.FilterByScore(records, params.MinScore)
		}
		scorer.SortByScore(records)
		return nil
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: score")
	}

	if err := runStage(StageVerify, func() error {
		records = p.verifier.Verify(ctx, records)
		return nil
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: verify")
	}

	if err := runStage(StagePersist, func() error {
		return p.persist(ctx, prog, records, params.DryRun)
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: persist")
	}

	var report *RunReport
	if err := runStage(StageReport, func() error {
		foldCosts()
		report = p.buildReport(params.JobID, prog, time.Since(start))
		return p.export(records, params.JobID)
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: report")
	}

	prog.Stage = StageDone
	log.Info("pipeline: run complete",
		zap.Int("imported", prog.Counters.Imported),
		zap.Int("skipped", prog.Counters.Skipped),
		zap.Int("failed", prog.Counters.Failed),
		zap.Duration("duration", time.Since(start)),
	)
	return report, nil
}

// collectCosts folds the per-stage request counters into the checkpoint.
func (p *Pipeline) collectCosts(prog *model.Progress) {
	prog.Counters.APIRequests += p.searcher.Requests + p.enricher.Requests + p.verifier.Requests()
	prog.Counters.EstimatedCredits += p.searcher.EstimatedCredits + p.enricher.EstimatedCredits
}
