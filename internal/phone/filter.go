package phone

import (
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// FilterStats tallies filter outcomes for reporting.
type FilterStats struct {
	Kept    int
	Dropped int
	NoPhone int
}

// Filter keeps only records whose best phone resolves to an allow-listed
// area code. It is stateless per call but accumulates run statistics.
type Filter struct {
	allowed map[string]bool
	Stats   FilterStats
}

// NewFilter creates a Filter for the given area-code allow-list.
func NewFilter(areaCodes []string) *Filter {
	allowed := make(map[string]bool, len(areaCodes))
	for _, c := range areaCodes {
		allowed[c] = true
	}
	return &Filter{allowed: allowed}
}

// Allowed reports whether an area code is on the allow-list.
func (f *Filter) Allowed(code string) bool {
	return f.allowed[code]
}

// BestPhone selects the record's best contact number: the already-selected
// phone if present, else an allow-listed mobile candidate, else any
// allow-listed candidate, else the first candidate regardless of region.
func (f *Filter) BestPhone(h *model.Homeowner) string {
	if h.Phone != "" {
		return h.Phone
	}
	if len(h.PhoneCandidates) == 0 {
		return ""
	}

	var anyAllowed string
	for _, c := range h.PhoneCandidates {
		code, ok := ExtractAreaCode(c.Number)
		if !ok || !f.allowed[code] {
			continue
		}
		if c.IsMobile() {
			return c.Number
		}
		if anyAllowed == "" {
			anyAllowed = c.Number
		}
	}
	if anyAllowed != "" {
		return anyAllowed
	}
	return h.PhoneCandidates[0].Number
}

// Apply filters one record. A record is kept only if its best phone
// resolves to an allow-listed area code; kept records get Phone, AreaCode
// and IsRegionPhone set. This is a hard gate: an out-of-region phone drops
// the record regardless of any other signal.
func (f *Filter) Apply(h *model.Homeowner) (*model.Homeowner, bool) {
	best := f.BestPhone(h)
	if best == "" {
		f.Stats.NoPhone++
		f.Stats.Dropped++
		return nil, false
	}

	code, ok := ExtractAreaCode(best)
	if !ok || !f.allowed[code] {
		f.Stats.Dropped++
		return nil, false
	}

	h.Phone = best
	h.AreaCode = code
	h.IsRegionPhone = true
	f.Stats.Kept++
	return h, true
}

// ApplyAll filters a record set, logging the outcome counts.
func (f *Filter) ApplyAll(records []model.Homeowner) []model.Homeowner {
	kept := make([]model.Homeowner, 0, len(records))
	for i := range records {
		if rec, ok := f.Apply(&records[i]); ok {
			kept = append(kept, *rec)
		}
	}
	zap.L().Info("region filter applied",
		zap.Int("input", len(records)),
		zap.Int("kept", len(kept)),
		zap.Int("dropped", f.Stats.Dropped),
		zap.Int("no_phone", f.Stats.NoPhone),
	)
	return kept
}
