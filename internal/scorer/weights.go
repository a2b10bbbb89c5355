package scorer

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights holds the point allocation per scoring factor. The defaults sum
// to 100 so the total score lands on a 0-100 scale.
type Weights struct {
	LotSize        float64 `yaml:"lot_size"`
	HomeValue      float64 `yaml:"home_value"`
	HomeAge        float64 `yaml:"home_age"`
	RecentPurchase float64 `yaml:"recent_purchase"`
	Location       float64 `yaml:"location"`
	PhoneQuality   float64 `yaml:"phone_quality"`
}

// DefaultWeights returns the standard Thirsty Buyer allocation.
func DefaultWeights() Weights {
	return Weights{
		LotSize:        25,
		HomeValue:      25,
		HomeAge:        20,
		RecentPurchase: 15,
		Location:       10,
		PhoneQuality:   5,
	}
}

// Total returns the sum of all factor weights.
func (w Weights) Total() float64 {
	return w.LotSize + w.HomeValue + w.HomeAge + w.RecentPurchase + w.Location + w.PhoneQuality
}

// Validate rejects weight sets that do not sum to 100, which would break
// the 0-100 score contract.
func (w Weights) Validate() error {
	if w.Total() != 100 {
		return eris.Errorf("scorer: weights must sum to 100, got %v", w.Total())
	}
	for _, v := range []float64{w.LotSize, w.HomeValue, w.HomeAge, w.RecentPurchase, w.Location, w.PhoneQuality} {
		if v < 0 {
			return eris.New("scorer: weights must be non-negative")
		}
	}
	return nil
}

// LoadWeights reads a weight override file in YAML form. Omitted factors
// default to zero, so override files must state every weight.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, eris.Wrap(err, "scorer: read weights file")
	}
	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, eris.Wrap(err, "scorer: unmarshal weights")
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}
