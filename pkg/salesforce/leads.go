package salesforce

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LeadRecord is the subset of lead fields pushed to Salesforce.
type LeadRecord struct {
	FirstName string
	LastName  string
	Company   string
	Phone     string
	Email     string
	Street    string
	City      string
	State     string
	Zip       string
	Score     float64
	Source    string
	Notes     string
}

// sObject maps a LeadRecord onto the Lead sObject. Salesforce requires
// LastName and Company to be non-empty, so homeowner leads without a
// company carry a self-owned placeholder.
func (l LeadRecord) sObject() map[string]any {
	company := l.Company
	if company == "" {
		company = "Homeowner"
	}
	lastName := l.LastName
	if lastName == "" {
		lastName = l.Company
	}
	rec := map[string]any{
		"FirstName":   l.FirstName,
		"LastName":    lastName,
		"Company":     company,
		"Phone":       l.Phone,
		"Street":      l.Street,
		"City":        l.City,
		"State":       l.State,
		"PostalCode":  l.Zip,
		"LeadSource":  l.Source,
		"Description": l.Notes,
	}
	if l.Email != "" {
		rec["Email"] = l.Email
	}
	return rec
}

// PushLeads inserts leads in collections and returns the number created.
// Per-record rejections are logged and counted, not fatal.
func PushLeads(ctx context.Context, c Client, leads []LeadRecord) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	records := make([]map[string]any, len(leads))
	for i, l := range leads {
		records[i] = l.sObject()
	}

	results, err := c.InsertCollection(ctx, "Lead", records)
	if err != nil {
		return 0, eris.Wrap(err, "sf: push leads")
	}

	created := 0
	for i, r := range results {
		if r.Success {
			created++
			continue
		}
		zap.L().Warn("sf: lead rejected",
			zap.String("last_name", leads[i].LastName),
			zap.Strings("errors", r.Errors),
		)
	}
	return created, nil
}
