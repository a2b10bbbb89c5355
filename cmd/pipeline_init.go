package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/phone"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/progress"
	"github.com/sells-group/leadgen-cli/internal/scorer"
	"github.com/sells-group/leadgen-cli/internal/search"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/internal/verify"
	"github.com/sells-group/leadgen-cli/pkg/batchdata"
	"github.com/sells-group/leadgen-cli/pkg/twilio"
)

// pipelineEnv holds the initialized store and pipeline used by the run and
// serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Progress *progress.Store
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func delayLimiter(ms int) *rate.Limiter {
	if ms <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Duration(ms)*time.Millisecond), 1)
}

// initPipeline sets up the store and all stage components. Callers should
// defer env.Close().
func initPipeline(ctx context.Context, weights scorer.Weights) (*pipelineEnv, error) {
	if cfg.BatchData.Key == "" {
		return nil, eris.New("batchdata API key is required (LEADGEN_BATCHDATA_KEY)")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var bdOpts []batchdata.Option
	if cfg.BatchData.BaseURL != "" {
		bdOpts = append(bdOpts, batchdata.WithBaseURL(cfg.BatchData.BaseURL))
	}
	bdClient := batchdata.NewClient(cfg.BatchData.Key, bdOpts...)

	searcher := search.New(bdClient,
		search.WithPageSize(cfg.Search.PageSize),
		search.WithPacing(delayLimiter(cfg.Search.RequestDelayMS)),
		search.WithCreditPerQuery(cfg.Search.CreditPerQuery),
	)
	enricher := enrich.New(bdClient,
		enrich.WithBatchSize(cfg.Enrich.BatchSize),
		enrich.WithPacing(delayLimiter(cfg.Enrich.RequestDelayMS)),
		enrich.WithCreditPerHit(cfg.Enrich.CreditPerHit),
	)

	// Verification is optional: no Twilio credentials, no lookups.
	var twClient twilio.Client
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		twClient = twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)
		zap.L().Info("phone verification enabled")
	} else {
		zap.L().Debug("LEADGEN_TWILIO_ACCOUNT_SID not set, phone verification disabled")
	}
	verifier := verify.New(twClient,
		verify.WithBatchSize(cfg.Verify.BatchSize),
		verify.WithBatchDelay(time.Duration(cfg.Verify.BatchDelayMS)*time.Millisecond),
	)

	p := pipeline.New(
		cfg,
		st,
		searcher,
		enricher,
		phone.NewFilter(cfg.Region.AreaCodes),
		scorer.New(weights),
		verifier,
		progress.NewStore(cfg.Pipeline.CheckpointPath),
	)

	return &pipelineEnv{
		Store:    st,
		Pipeline: p,
		Progress: progress.NewStore(cfg.Pipeline.CheckpointPath),
	}, nil
}
