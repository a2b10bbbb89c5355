// Package scorer implements the Thirsty Buyer algorithm: a deterministic
// six-factor weighted score on a 0-100 scale with a per-factor breakdown.
package scorer

import (
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Breakdown keys, one per scoring factor.
const (
	FactorLotSize        = "lot_size"
	FactorHomeValue      = "home_value"
	FactorHomeAge        = "home_age"
	FactorRecentPurchase = "recent_purchase"
	FactorLocation       = "location"
	FactorPhoneQuality   = "phone_quality"
)

// Threshold constants for the factor ladders.
const (
	acreSqft     = 43560
	halfAcreSqft = 20000
	quarterSqft  = 10000

	valueExcellent = 3_000_000
	valueGood      = 1_500_000
	valueFair      = 750_000
)

// mainRoadKeywords mark addresses on high-visibility streets.
var mainRoadKeywords = []string{"boulevard", "blvd", "highway", "hwy", "road", "rd", "drive", "dr"}

// defaultPremiumAreas are the premium-area name matches for the default
// Phoenix-metro territory.
var defaultPremiumAreas = []string{"camelback", "biltmore", "arcadia", "paradise valley", "mccormick ranch", "troon", "silverleaf"}

// Result is the outcome of scoring one record.
type Result struct {
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
	Priority  model.Priority     `json:"priority"`
}

// Scorer computes Thirsty Buyer scores. Zero-configured callers should use
// New with DefaultWeights.
type Scorer struct {
	weights      Weights
	premiumAreas []string
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithPremiumAreas overrides the premium-area keyword list.
func WithPremiumAreas(areas []string) Option {
	return func(s *Scorer) {
		s.premiumAreas = areas
	}
}

// New creates a Scorer with the given weights.
func New(w Weights, opts ...Option) *Scorer {
	s := &Scorer{
		weights:      w,
		premiumAreas: defaultPremiumAreas,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the record's score as of now.
func (s *Scorer) Score(h *model.Homeowner) Result {
	return s.ScoreAt(h, time.Now())
}

// ScoreAt computes the record's score as of a reference time. It is a pure
// function of the record and the reference time.
func (s *Scorer) ScoreAt(h *model.Homeowner, now time.Time) Result {
	breakdown := map[string]float64{
		FactorLotSize:        s.scoreLotSize(h),
		FactorHomeValue:      s.scoreHomeValue(h),
		FactorHomeAge:        s.scoreHomeAge(h, now),
		FactorRecentPurchase: s.scoreRecentPurchase(h, now),
		FactorLocation:       s.scoreLocation(h),
		FactorPhoneQuality:   s.scorePhoneQuality(h),
	}

	var total float64
	for _, v := range breakdown {
		total += v
	}
	total = math.Round(total)

	return Result{
		Total:     total,
		Breakdown: breakdown,
		Priority:  model.PriorityFor(total),
	}
}

// scoreLotSize ladders on parcel size. A missing lot size scores 0, not the
// bottom tier: absence is a true unknown penalty, distinct from "small but
// known".
func (s *Scorer) scoreLotSize(h *model.Homeowner) float64 {
	sqft := h.LotSizeSqft
	if sqft == 0 && h.LotSizeAcres > 0 {
		sqft = h.LotSizeAcres * acreSqft
	}
	w := s.weights.LotSize
	switch {
	case sqft >= acreSqft:
		return w
	case sqft >= halfAcreSqft:
		return w * 0.7
	case sqft >= quarterSqft:
		return w * 0.4
	case sqft > 0:
		return w * 0.2
	default:
		return 0
	}
}

// scoreHomeValue ladders on estimated value; missing value scores 0.
func (s *Scorer) scoreHomeValue(h *model.Homeowner) float64 {
	w := s.weights.HomeValue
	switch {
	case h.EstimatedValue >= valueExcellent:
		return w
	case h.EstimatedValue >= valueGood:
		return w * 0.7
	case h.EstimatedValue >= valueFair:
		return w * 0.4
	case h.EstimatedValue > 0:
		return w * 0.2
	default:
		return 0
	}
}

// scoreHomeAge ladders on years since construction. Unknown year built
// scores half the factor weight: newer construction is a genuine negative
// signal, but not knowing the age is not.
func (s *Scorer) scoreHomeAge(h *model.Homeowner, now time.Time) float64 {
	w := s.weights.HomeAge
	if h.YearBuilt == 0 {
		return w * 0.5
	}
	age := now.Year() - h.YearBuilt
	switch {
	case age >= 20:
		return w
	case age >= 10:
		return w * 0.6
	case age >= 5:
		return w * 0.3
	default:
		return 0
	}
}

// scoreRecentPurchase ladders on years since the last sale; no sale data
// scores 0.
func (s *Scorer) scoreRecentPurchase(h *model.Homeowner, now time.Time) float64 {
	if h.LastSaleDate == nil {
		return 0
	}
	w := s.weights.RecentPurchase
	years := now.Sub(*h.LastSaleDate).Hours() / 24 / 365.25
	switch {
	case years <= 1:
		return w
	case years <= 2:
		return w * 0.7
	case years <= 3:
		return w * 0.4
	default:
		return 0
	}
}

// scoreLocation adds independent bonuses for corner lots, main-road
// addresses and premium-area matches, capped at the factor weight.
func (s *Scorer) scoreLocation(h *model.Homeowner) float64 {
	w := s.weights.Location
	addr := strings.ToLower(h.FullAddress)
	if addr == "" {
		addr = strings.ToLower(h.Address.Full())
	}

	var score float64
	if h.CornerLot || strings.Contains(addr, "corner") {
		score += w * 0.5
	}
	for _, kw := range mainRoadKeywords {
		if containsWord(addr, kw) {
			score += w * 0.3
			break
		}
	}
	for _, area := range s.premiumAreas {
		if strings.Contains(addr, area) {
			score += w * 0.2
			break
		}
	}
	if score > w {
		score = w
	}
	return score
}

// scorePhoneQuality rewards mobile-typed candidates, then any phone at all.
func (s *Scorer) scorePhoneQuality(h *model.Homeowner) float64 {
	w := s.weights.PhoneQuality
	switch {
	case h.HasMobile():
		return w
	case h.HasPhone():
		return w * 0.6
	default:
		return 0
	}
}

// containsWord reports whether addr contains kw as a whole word, so "rd"
// does not match inside "richard".
func containsWord(addr, kw string) bool {
	idx := 0
	for {
		i := strings.Index(addr[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isAlnum(addr[start-1])
		afterOK := end == len(addr) || !isAlnum(addr[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// FilterByScore returns the records at or above minScore.
func FilterByScore(records []model.Homeowner, minScore float64) []model.Homeowner {
	kept := make([]model.Homeowner, 0, len(records))
	for _, r := range records {
		if r.Score >= minScore {
			kept = append(kept, r)
		}
	}
	zap.L().Info("score filter applied",
		zap.Float64("min_score", minScore),
		zap.Int("input", len(records)),
		zap.Int("kept", len(kept)),
	)
	return kept
}

// SortByScore orders records by score descending, in place.
func SortByScore(records []model.Homeowner) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
}
