package phone

import (
	"sort"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// AreaCodeCount is one row of the area-code distribution report.
type AreaCodeCount struct {
	AreaCode string
	Count    int
	Allowed  bool
}

// Distribution builds an area-code histogram over a record set, sorted by
// count descending (area code ascending on ties), with each row annotated
// for allow-list membership. Used for pre/post-filter visibility.
func (f *Filter) Distribution(records []model.Homeowner) []AreaCodeCount {
	counts := make(map[string]int)
	for i := range records {
		best := f.BestPhone(&records[i])
		if best == "" {
			continue
		}
		if code, ok := ExtractAreaCode(best); ok {
			counts[code]++
		}
	}

	result := make([]AreaCodeCount, 0, len(counts))
	for code, n := range counts {
		result = append(result, AreaCodeCount{
			AreaCode: code,
			Count:    n,
			Allowed:  f.allowed[code],
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].AreaCode < result[j].AreaCode
	})
	return result
}
