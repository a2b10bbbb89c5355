package search

import (
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/batchdata"
)

// Normalize maps one provider property onto a homeowner record. Every
// sub-object is optional on the wire; missing ones leave zero values.
// Attributes renamed across provider versions coalesce to the first
// non-zero variant.
func Normalize(p *batchdata.Property) model.Homeowner {
	h := model.Homeowner{PropertyID: p.ID}

	if a := p.Address; a != nil {
		h.Address = model.Address{
			Street: a.Street,
			City:   a.City,
			State:  a.State,
			Zip:    a.Zip,
		}
		h.FullAddress = h.Address.Full()
	}

	if o := p.Owner; o != nil {
		h.OwnerName = o.FullName
		h.FirstName = o.FirstName
		h.LastName = o.LastName
		if h.OwnerName != "" {
			h.IsCorporate = model.IsCorporateName(h.OwnerName)
		}
	}

	if b := p.Building; b != nil {
		h.BuildingSqft = coalesce(b.TotalBuildingAreaSquareFeet, b.LivingAreaSquareFeet)
		h.Bedrooms = b.BedroomCount
		h.Bathrooms = b.BathroomCount
		h.YearBuilt = b.YearBuilt
		h.Stories = b.StoryCount
	}

	if l := p.Lot; l != nil {
		h.LotSizeSqft = coalesce(l.LotSizeSquareFeet, l.SquareFeet)
		h.LotSizeAcres = l.LotSizeAcres
	}

	if v := p.Valuation; v != nil {
		h.EstimatedValue = v.EstimatedValue
		h.EstimatedEquity = v.Equity
	}

	if s := p.Sale; s != nil {
		h.LastSalePrice = s.LastSalePrice
		if s.LastSaleDate != "" {
			if t, err := parseSaleDate(s.LastSaleDate); err == nil {
				h.LastSaleDate = &t
			}
		}
	}

	if q := p.QuickList; q != nil {
		h.CornerLot = q.CornerLot
	}

	return h
}

// parseSaleDate accepts the date shapes the provider has emitted over time.
func parseSaleDate(s string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02", "2006-01-02T15:04:05"}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func coalesce(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
