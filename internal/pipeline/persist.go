package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// persist writes the qualified records to the destination store. Each record
// is an independent upsert: already-processed and already-stored addresses
// count as skipped, store failures count as failed, and neither stops the
// batch. The checkpoint is saved at a fixed record interval so a crash
// mid-import loses at most one interval of ledger entries.
func (p *Pipeline) persist(ctx context.Context, prog *model.Progress, records []model.Homeowner, dryRun bool) error {
	log := zap.L().With(zap.String("component", "persist"))
	interval := p.cfg.Pipeline.CheckpointInterval
	if interval <= 0 {
		interval = 50
	}

	for i := range records {
		h := &records[i]
		address := h.FullAddress
		if address == "" {
			address = h.Address.Full()
		}
		if address == "" {
			prog.Counters.Failed++
			prog.RecordError("persist", "record has no address")
			continue
		}

		if prog.Processed(address) {
			prog.Counters.Skipped++
			continue
		}

		if dryRun {
			// Tallied for the run report only; dry runs never touch the
			// store, and the orchestrator skips every checkpoint save.
			p.countPriority(prog, h.Priority)
			prog.RecordImport("", address, h.Score)
			continue
		}

		exists, err := p.store.LeadExistsByAddress(ctx, p.cfg.Pipeline.WorkspaceID, address)
		if err != nil {
			prog.Counters.Failed++
			prog.RecordError("persist", fmt.Sprintf("%s: exists check: %v", address, err))
			continue
		}
		if exists {
			prog.Counters.Skipped++
			continue
		}

		id, err := p.store.CreateLead(ctx, p.buildLead(h, address))
		if err != nil {
			prog.Counters.Failed++
			prog.RecordError("persist", fmt.Sprintf("%s: create: %v", address, err))
			continue
		}

		p.countPriority(prog, h.Priority)
		prog.RecordImport(id, address, h.Score)

		if prog.Counters.Imported%interval == 0 {
			if err := p.progress.Save(prog); err != nil {
				return err
			}
			log.Info("persist: checkpoint saved",
				zap.Int("imported", prog.Counters.Imported),
			)
		}
	}
	return nil
}

func (p *Pipeline) countPriority(prog *model.Progress, pr model.Priority) {
	switch pr {
	case model.PriorityHigh:
		prog.Counters.HighPriority++
	case model.PriorityMedium:
		prog.Counters.MediumPriority++
	default:
		prog.Counters.LowPriority++
	}
}

// buildLead maps a scored record onto a store lead. Corporate owner names
// stay whole in the company field; personal names split into first token
// and remainder, title-cased.
func (p *Pipeline) buildLead(h *model.Homeowner, address string) *store.Lead {
	lead := &store.Lead{
		WorkspaceID: p.cfg.Pipeline.WorkspaceID,
		Phone:       h.Phone,
		PhoneType:   h.PhoneType,
		Email:       h.Email,
		Address:     address,
		City:        h.Address.City,
		State:       h.Address.State,
		Zip:         h.Address.Zip,
		Score:       h.Score,
		Priority:    string(h.Priority),
		SourceTag:   p.cfg.Pipeline.SourceTag,
		AssignedTo:  p.cfg.Pipeline.AssignedTo,
		Notes:       leadNotes(h),
	}

	first, last := model.SplitOwnerName(h.OwnerName)
	if h.FirstName != "" || h.LastName != "" {
		first, last = h.FirstName, h.LastName
	}
	if model.IsCorporateName(h.OwnerName) {
		lead.Company = h.OwnerName
	} else {
		lead.FirstName = titleCaser.String(strings.ToLower(first))
		lead.LastName = titleCaser.String(strings.ToLower(last))
	}
	return lead
}

// leadNotes renders the property summary stored on the lead.
func leadNotes(h *model.Homeowner) string {
	var parts []string
	if h.LotSizeSqft > 0 {
		parts = append(parts, fmt.Sprintf("Lot: %.0f sqft", h.LotSizeSqft))
	}
	if h.EstimatedValue > 0 {
		parts = append(parts, fmt.Sprintf("Est. value: $%.0f", h.EstimatedValue))
	}
	if h.YearBuilt > 0 {
		parts = append(parts, fmt.Sprintf("Built: %d", h.YearBuilt))
	}
	if h.Phone != "" {
		phone := h.Phone
		if h.PhoneVerified {
			phone += " (" + h.PhoneType + ", verified)"
		}
		parts = append(parts, "Phone: "+phone)
	}
	if h.Email != "" {
		parts = append(parts, "Email: "+h.Email)
	}
	parts = append(parts, fmt.Sprintf("Score: %.0f (%s)", h.Score, h.Priority))
	return strings.Join(parts, " | ")
}
