package scorer

import (
	"fmt"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Explain renders the strong factors of an already-scored record as short
// human-readable reasons, suitable for CRM notes. A factor is strong when it
// earned at least 70% of its weight (60% for home age, where the ladder tops
// out more slowly).
func (s *Scorer) Explain(h *model.Homeowner) []string {
	if h.ScoreBreakdown == nil {
		return nil
	}

	reasons := make([]string, 0, 6)
	strong := func(factor string, weight, threshold float64) bool {
		return weight > 0 && h.ScoreBreakdown[factor] >= weight*threshold
	}

	if strong(FactorLotSize, s.weights.LotSize, 0.7) {
		reasons = append(reasons, fmt.Sprintf("Large lot (%.0f sqft)", h.LotSizeSqft))
	}
	if strong(FactorHomeValue, s.weights.HomeValue, 0.7) {
		reasons = append(reasons, fmt.Sprintf("High-value home ($%.0f)", h.EstimatedValue))
	}
	if strong(FactorHomeAge, s.weights.HomeAge, 0.6) && h.YearBuilt > 0 {
		reasons = append(reasons, fmt.Sprintf("Older construction (built %d)", h.YearBuilt))
	}
	if strong(FactorRecentPurchase, s.weights.RecentPurchase, 0.7) {
		reasons = append(reasons, "Recently purchased")
	}
	if strong(FactorLocation, s.weights.Location, 0.7) {
		reasons = append(reasons, "Premium location signals")
	}
	if strong(FactorPhoneQuality, s.weights.PhoneQuality, 0.7) {
		reasons = append(reasons, "Mobile number on file")
	}
	return reasons
}
