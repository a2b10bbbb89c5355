package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/progress"
)

var progressJobID string

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show the checkpoint state of a run",
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := progress.NewStore(cfg.Pipeline.CheckpointPath).Load(progressJobID)
		if err != nil {
			return err
		}

		c := prog.Counters
		fmt.Printf("Job:        %s\n", prog.JobID)
		fmt.Printf("Stage:      %s\n", prog.Stage)
		fmt.Printf("Started:    %s\n", prog.StartedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Updated:    %s\n\n", prog.UpdatedAt.Format("2006-01-02 15:04:05"))

		fmt.Printf("Properties found:   %d\n", c.PropertiesFound)
		fmt.Printf("Homeowners found:   %d\n", c.HomeownersFound)
		fmt.Printf("With phone:         %d (mobile: %d)\n", c.WithPhone, c.WithMobile)
		fmt.Printf("Imported:           %d\n", c.Imported)
		fmt.Printf("Skipped:            %d\n", c.Skipped)
		fmt.Printf("Failed:             %d\n", c.Failed)
		fmt.Printf("Average score:      %.1f\n", c.AverageScore)
		fmt.Printf("API requests:       %d (est. %.0f credits)\n", c.APIRequests, c.EstimatedCredits)

		buckets := map[string]int{}
		for _, entry := range prog.Ledger {
			buckets[model.DistributionBucket(entry.Score)]++
		}
		fmt.Printf("Score buckets:      75-100: %d | 50-74: %d | 0-49: %d\n",
			buckets["75-100"], buckets["50-74"], buckets["0-49"])

		if errs := prog.TopErrors(5); len(errs) > 0 {
			fmt.Println("\nRecent errors:")
			for _, e := range errs {
				fmt.Printf("  [%s] %s\n", e.Context, e.Message)
			}
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().StringVar(&progressJobID, "job-id", "", "job ID for a fresh checkpoint if none exists")
	rootCmd.AddCommand(progressCmd)
}
