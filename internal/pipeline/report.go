package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// RunReport is the structured end-of-run summary.
type RunReport struct {
	JobID    string             `json:"job_id"`
	Stage    string             `json:"stage"`
	Duration time.Duration      `json:"duration"`
	Counters model.Counters     `json:"counters"`
	Buckets  map[string]int     `json:"score_buckets"`
	Errors   []model.ErrorEntry `json:"top_errors"`
}

// buildReport assembles the run report from the checkpoint state. Score
// buckets use the reporting bands (75/50), which intentionally differ from
// the priority bands counted in the tier counters.
func (p *Pipeline) buildReport(jobID string, prog *model.Progress, duration time.Duration) *RunReport {
	buckets := map[string]int{"75-100": 0, "50-74": 0, "0-49": 0}
	for _, entry := range prog.Ledger {
		buckets[model.DistributionBucket(entry.Score)]++
	}
	return &RunReport{
		JobID:    jobID,
		Stage:    prog.Stage,
		Duration: duration,
		Counters: prog.Counters,
		Buckets:  buckets,
		Errors:   prog.TopErrors(5),
	}
}

// FormatReport renders a report for terminal output.
func FormatReport(r *RunReport) string {
	var b strings.Builder
	c := r.Counters

	fmt.Fprintf(&b, "Run %s finished in %s\n\n", r.JobID, r.Duration.Round(time.Second))
	fmt.Fprintf(&b, "Properties found:   %d\n", c.PropertiesFound)
	fmt.Fprintf(&b, "Homeowners found:   %d\n", c.HomeownersFound)
	fmt.Fprintf(&b, "With phone:         %d (mobile: %d)\n", c.WithPhone, c.WithMobile)
	fmt.Fprintf(&b, "Imported:           %d\n", c.Imported)
	fmt.Fprintf(&b, "Skipped (existing): %d\n", c.Skipped)
	fmt.Fprintf(&b, "Failed:             %d\n", c.Failed)
	fmt.Fprintf(&b, "Average score:      %.1f\n\n", c.AverageScore)

	fmt.Fprintf(&b, "Priority tiers:  HIGH %d | MEDIUM %d | LOW %d\n",
		c.HighPriority, c.MediumPriority, c.LowPriority)
	fmt.Fprintf(&b, "Score buckets:   75-100: %d | 50-74: %d | 0-49: %d\n",
		r.Buckets["75-100"], r.Buckets["50-74"], r.Buckets["0-49"])
	fmt.Fprintf(&b, "API requests:    %d (est. %.0f credits)\n",
		c.APIRequests, c.EstimatedCredits)

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\nRecent errors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  [%s] %s\n", e.Context, e.Message)
		}
	}
	return b.String()
}
