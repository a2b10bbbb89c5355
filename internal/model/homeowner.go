package model

import (
	"strings"
	"time"
)

// Priority buckets a lead by its Thirsty Buyer score.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// PriorityFor maps a score to a priority tier. The 75/60 boundaries are
// intentionally different from the reporting distribution buckets (75/50);
// both bandings are exposed and must not be unified.
func PriorityFor(score float64) Priority {
	switch {
	case score >= 75:
		return PriorityHigh
	case score >= 60:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// DistributionBucket is the reporting-side score banding (75/50), independent
// of the priority tiers.
func DistributionBucket(score float64) string {
	switch {
	case score >= 75:
		return "75-100"
	case score >= 50:
		return "50-74"
	default:
		return "0-49"
	}
}

// Address is the owning address of a property.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Full renders the single-line form used as the persistence natural key.
func (a Address) Full() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.Zip} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

// PhoneCandidate is one contact number attached by skip-trace.
type PhoneCandidate struct {
	Number    string  `json:"number"`
	Type      string  `json:"type,omitempty"` // mobile, landline, voip, unknown
	Reachable bool    `json:"reachable"`
	DNC       bool    `json:"dnc"`
	Score     float64 `json:"score,omitempty"`
}

// IsMobile reports whether the candidate is typed as a mobile line.
func (p PhoneCandidate) IsMobile() bool {
	switch strings.ToLower(p.Type) {
	case "mobile", "cell", "wireless":
		return true
	}
	return false
}

// Homeowner is the unit flowing through every pipeline stage. Stages add
// fields additively; none clears what an earlier stage set.
type Homeowner struct {
	// Identity
	PropertyID  string  `json:"property_id"`
	Address     Address `json:"address"`
	FullAddress string  `json:"full_address"`

	// Owner
	OwnerName   string `json:"owner_name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	IsCorporate bool   `json:"is_corporate,omitempty"`

	// Contact
	Phone           string           `json:"phone,omitempty"` // selected after filtering
	PhoneCandidates []PhoneCandidate `json:"phone_candidates,omitempty"`
	Email           string           `json:"email,omitempty"`
	Emails          []string         `json:"emails,omitempty"`

	// Property attributes
	LotSizeSqft  float64 `json:"lot_size_sqft,omitempty"`
	LotSizeAcres float64 `json:"lot_size_acres,omitempty"`
	BuildingSqft float64 `json:"building_sqft,omitempty"`
	Bedrooms     int     `json:"bedrooms,omitempty"`
	Bathrooms    float64 `json:"bathrooms,omitempty"`
	YearBuilt    int     `json:"year_built,omitempty"`
	Stories      int     `json:"stories,omitempty"`
	CornerLot    bool    `json:"corner_lot,omitempty"`

	// Valuation
	EstimatedValue  float64    `json:"estimated_value,omitempty"`
	EstimatedEquity float64    `json:"estimated_equity,omitempty"`
	LastSaleDate    *time.Time `json:"last_sale_date,omitempty"`
	LastSalePrice   float64    `json:"last_sale_price,omitempty"`

	// Derived by filter / scorer / verifier
	IsRegionPhone  bool               `json:"is_region_phone,omitempty"`
	AreaCode       string             `json:"area_code,omitempty"`
	Score          float64            `json:"score,omitempty"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
	Priority       Priority           `json:"priority,omitempty"`
	PhoneType      string             `json:"phone_type,omitempty"`
	PhoneVerified  bool               `json:"phone_verified,omitempty"`
}

// corporateMarkers are substrings that identify an organizational owner.
// Corporate names are kept whole, never split into first/last.
var corporateMarkers = []string{"llc", "inc", "trust", "corp", "ltd", "company", "properties", "holdings"}

// IsCorporateName reports whether an owner name looks like a business entity.
func IsCorporateName(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range corporateMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// SplitOwnerName parses an owner name into first/last. Corporate entities get
// the whole name as LastName with an empty FirstName, matching how the
// destination store models organizational leads.
func SplitOwnerName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if IsCorporateName(name) {
		return "", name
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

// HasPhone reports whether any phone number is known for the record.
func (h *Homeowner) HasPhone() bool {
	return h.Phone != "" || len(h.PhoneCandidates) > 0
}

// HasMobile reports whether any candidate is typed as mobile.
func (h *Homeowner) HasMobile() bool {
	for _, c := range h.PhoneCandidates {
		if c.IsMobile() {
			return true
		}
	}
	return false
}
