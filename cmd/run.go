package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/scorer"
	"github.com/sells-group/leadgen-cli/internal/search"
)

var (
	runCity        string
	runState       string
	runMaxResults  int
	runOffset      int
	runMinLotSqft  float64
	runMinValue    float64
	runMinScore    float64
	runDryRun      bool
	runNoRegion    bool
	runWeightsPath string
	runJobID       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full lead pipeline for a city",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runCity == "" || runState == "" {
			return eris.New("--city and --state are required")
		}

		weights := scorer.DefaultWeights()
		if runWeightsPath != "" {
			w, err := scorer.LoadWeights(runWeightsPath)
			if err != nil {
				return err
			}
			weights = w
		}

		env, err := initPipeline(cmd.Context(), weights)
		if err != nil {
			return err
		}
		defer env.Close()

		jobID := runJobID
		if jobID == "" {
			jobID = jobIDFor(runCity, runState)
		}

		report, err := env.Pipeline.Run(cmd.Context(), pipeline.Params{
			JobID: jobID,
			Criteria: search.Criteria{
				City:       runCity,
				State:      runState,
				MinLotSqft: runMinLotSqft,
				MinValue:   runMinValue,
				MaxResults: runMaxResults,
				Offset:     runOffset,
			},
			MinScore:     runMinScore,
			DryRun:       runDryRun,
			RegionFilter: !runNoRegion,
		})
		if err != nil {
			return err
		}

		fmt.Print(pipeline.FormatReport(report))
		return nil
	},
}

// jobIDFor derives a stable job ID from the search target, so re-running
// the same city resumes its checkpoint.
func jobIDFor(city, state string) string {
	slug := strings.ToLower(city + "-" + state)
	return strings.ReplaceAll(slug, " ", "-")
}

func init() {
	runCmd.Flags().StringVar(&runCity, "city", "", "target city (required)")
	runCmd.Flags().StringVar(&runState, "state", "", "target state code (required)")
	runCmd.Flags().IntVar(&runMaxResults, "max-results", 0, "cap on properties to ingest (0 = no cap)")
	runCmd.Flags().IntVar(&runOffset, "offset", 0, "skip this many provider results before ingesting")
	runCmd.Flags().Float64Var(&runMinLotSqft, "min-lot", 0, "minimum lot size in sqft")
	runCmd.Flags().Float64Var(&runMinValue, "min-value", 0, "minimum estimated home value")
	runCmd.Flags().Float64Var(&runMinScore, "min-score", 0, "drop leads scoring below this")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "run all stages but write nothing to the store")
	runCmd.Flags().BoolVar(&runNoRegion, "no-region-filter", false, "keep leads regardless of phone area code")
	runCmd.Flags().StringVar(&runWeightsPath, "weights", "", "path to a YAML scoring-weight override file")
	runCmd.Flags().StringVar(&runJobID, "job-id", "", "checkpoint job ID (default derived from city/state)")
	rootCmd.AddCommand(runCmd)
}
