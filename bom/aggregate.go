package bom

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ModuleResult is everything computed for one module instance.
type ModuleResult struct {
	Summary  ModuleSummary       `json:"summary"`
	Pieces   []PieceRecord       `json:"pieces"`
	Chapas   []ChapaAggregate    `json:"chapas"`
	Hardware []HardwareAggregate `json:"hardware"`
	Warnings []string            `json:"warnings,omitempty"`

	materials *MaterialLedger
	hardware  *HardwareLedger
}

// EvaluateModule computes a single module instance on its own. It is what the
// quick estimator shows while a module is being edited.
func EvaluateModule(inst ModuleInstance, catalog Catalog, prices PriceBook, standards Standards) ModuleResult {
	return evaluateModule("", "", inst, catalog, prices, standards)
}

func evaluateModule(source, env string, inst ModuleInstance, catalog Catalog, prices PriceBook, standards Standards) ModuleResult {
	tmpl, known := catalog.Modules[inst.TemplateID]

	name := inst.Label
	if name == "" {
		name = tmpl.Name
	}
	if name == "" {
		name = inst.TemplateID
	}
	label := name
	if env != "" {
		label = env + " › " + name
	}

	r := &moduleRun{
		label:     label,
		inst:      inst,
		tmpl:      tmpl,
		catalog:   catalog,
		prices:    prices,
		standards: standards,
		qty:       atLeastOne(inst.Quantity),
		materials: NewMaterialLedger(),
		hardware:  NewHardwareLedger(),
	}

	switch {
	case !known:
		r.warnf("module template %q not in catalog", inst.TemplateID)
	case inst.Width <= 0 || inst.Height <= 0 || inst.Depth <= 0:
		r.warnf("module skipped: measures %gx%gx%g must be positive", inst.Width, inst.Height, inst.Depth)
	default:
		doors := leafCount(tmpl.Doors, inst.DoorCount)
		drawers := leafCount(tmpl.Drawers, inst.DrawerCount)
		r.vars = ResolveDimensions(Dimensions{
			Width:         inst.Width,
			Height:        inst.Height,
			Depth:         inst.Depth,
			Thickness:     prices.Materials[inst.Materials.Interior].Thickness,
			ExtThickness:  prices.Materials[inst.Materials.For(RoleExterior)].Thickness,
			BackThickness: prices.Materials[inst.Materials.For(RoleBack)].Thickness,
			Doors:         doors,
			Drawers:       drawers,
			Quantity:      r.qty,
		})

		r.structural()
		r.panels()
		r.subItems()
		r.leaves(tmpl.Doors, doors, TagDoor)
		r.leaves(tmpl.Drawers, drawers, TagDrawer)
		for _, ci := range inst.Components {
			r.component(ci)
		}
	}

	res := ModuleResult{
		Pieces:    r.pieces,
		Chapas:    r.materials.Aggregates(prices),
		Hardware:  r.hardware.Aggregates(prices),
		Warnings:  r.warnings,
		materials: r.materials,
		hardware:  r.hardware,
	}
	res.Summary = summarize(source, env, name, inst.TemplateID, tmpl.Coefficient, res, r.hardware.Count())
	return res
}

func leafCount(rules *LeafRules, chosen *int) int {
	if rules == nil {
		return 0
	}
	if chosen != nil {
		return max(0, *chosen)
	}
	return max(0, rules.DefaultCount)
}

func summarize(source, env, name, templateID string, coefficient float64, res ModuleResult, hwCount int) ModuleSummary {
	s := ModuleSummary{
		Source:        source,
		Environment:   env,
		Label:         name,
		TemplateID:    templateID,
		HardwareCount: hwCount,
		Coefficient:   coefficient,
	}
	if s.Coefficient <= 0 {
		s.Coefficient = 1
	}
	cost := decimal.Zero
	for _, p := range res.Pieces {
		s.Area += p.Area
		s.EdgeBand += p.EdgeBand
		cost = cost.Add(p.FinishCost)
	}
	for _, c := range res.Chapas {
		s.Sheets += c.Sheets
		cost = cost.Add(c.Cost).Add(c.EdgeBandCost)
	}
	for _, h := range res.Hardware {
		cost = cost.Add(h.Cost)
	}
	s.Cost = cost
	return s
}

// ComputeBOM consolidates a quote and its addenda into one bill of materials.
// Piece areas of every source are summed per material before sheets are
// rounded up. Addenda that do not name quote as their parent are skipped.
func ComputeBOM(quote Quote, addenda []Quote, catalog Catalog, prices PriceBook, standards Standards) BillOfMaterials {
	materials := NewMaterialLedger()
	hardware := NewHardwareLedger()
	var out BillOfMaterials

	sources := []Quote{quote}
	for _, a := range addenda {
		if a.ParentID != quote.ID {
			out.Warnings = append(out.Warnings, fmt.Sprintf("addendum %q skipped: parent is %q, not %q", a.ID, a.ParentID, quote.ID))
			continue
		}
		sources = append(sources, a)
	}

	for _, src := range sources {
		for _, env := range src.Environments {
			for _, inst := range env.Modules {
				res := evaluateModule(src.ID, env.Name, inst, catalog, prices, standards)
				out.Pieces = append(out.Pieces, res.Pieces...)
				out.Modules = append(out.Modules, res.Summary)
				out.Warnings = append(out.Warnings, res.Warnings...)
				materials.Merge(res.materials)
				hardware.Merge(res.hardware)
			}
		}
	}

	out.Chapas = materials.Aggregates(prices)
	out.Hardware = hardware.Aggregates(prices)
	out.Warnings = dedupe(out.Warnings)

	for _, p := range out.Pieces {
		out.FinishCost = out.FinishCost.Add(p.FinishCost)
	}
	for _, c := range out.Chapas {
		out.EdgeBand += c.EdgeBand
		out.EdgeBandCost = out.EdgeBandCost.Add(c.EdgeBandCost)
		out.SheetCost = out.SheetCost.Add(c.Cost)
	}
	for _, h := range out.Hardware {
		out.HardwareCost = out.HardwareCost.Add(h.Cost)
	}
	out.TotalCost = out.SheetCost.Add(out.EdgeBandCost).Add(out.HardwareCost).Add(out.FinishCost)
	return out
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
