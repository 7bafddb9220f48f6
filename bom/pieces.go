package bom

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// For returns the material id chosen for role. Exterior and back fall back to
// the interior material; front falls back to exterior, then interior.
func (m MaterialChoice) For(role MaterialRole) string {
	pick := func(ids ...string) string {
		for _, id := range ids {
			if id != "" {
				return id
			}
		}
		return ""
	}
	switch role {
	case RoleExterior:
		return pick(m.Exterior, m.Interior)
	case RoleBack:
		return pick(m.Back, m.Interior)
	case RoleFront:
		return pick(m.Front, m.Exterior, m.Interior)
	default:
		return m.Interior
	}
}

// moduleRun accumulates everything produced for one module instance.
type moduleRun struct {
	label     string
	inst      ModuleInstance
	tmpl      ModuleTemplate
	catalog   Catalog
	prices    PriceBook
	standards Standards
	vars      Vars
	qty       int

	pieces    []PieceRecord
	materials *MaterialLedger
	hardware  *HardwareLedger
	warnings  []string
}

func (r *moduleRun) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, r.label+": "+fmt.Sprintf(format, args...))
}

// emit evaluates def against vars and records count×repeat pieces of it.
func (r *moduleRun) emit(def PieceDef, vars Vars, count int, tag PieceTag, materialID, label string) {
	if count <= 0 {
		return
	}
	mat, ok := r.prices.Materials[materialID]
	if !ok {
		r.warnf("piece %q skipped: unknown material %q", label, materialID)
		return
	}
	area := EvalArea(def.Area, vars)
	if area <= 0 {
		r.warnf("piece %q skipped: formula %q gave no area", label, def.Area)
		return
	}

	width, height, ok := nominalSize(def.Area, vars, area)
	if !ok {
		r.warnf("piece %q skipped: formula %q gave no area", label, def.Area)
		return
	}
	repeat := def.Repeat
	if repeat < 1 {
		repeat = 1
	}
	quantity := repeat * count

	rec := PieceRecord{
		Source:     r.label,
		Label:      label,
		MaterialID: mat.ID,
		Width:      width,
		Height:     height,
		Quantity:   quantity,
		Area:       area / 1e6 * float64(quantity),
		EdgeBand:   BandLength(def.Edges, width, height) * float64(quantity),
		Tag:        tag,
		FinishCost: decimal.Zero,
	}
	if tag.exterior() && r.inst.FinishID != "" {
		if fin, ok := r.prices.Finishes[r.inst.FinishID]; ok {
			rec.FinishCost = fin.PricePerM2.Mul(decimal.NewFromFloat(rec.Area)).Round(2)
		} else {
			r.warnf("finish %q unknown, not charged", r.inst.FinishID)
		}
	}

	r.pieces = append(r.pieces, rec)
	r.materials.Add(mat.ID, rec.Area, rec.EdgeBand)
}

// nominalSize derives a piece's width and height. A formula that is a single
// top-level product a*b is split exactly, and a side that is not positive
// makes the piece degenerate (ok is false) even when the product is
// positive. Anything else is treated as a square of the computed area.
func nominalSize(formula string, vars Vars, area float64) (w, h float64, ok bool) {
	if left, right, split := splitProduct(formula); split {
		lw, errW := Evaluate(left, vars)
		lh, errH := Evaluate(right, vars)
		if errW == nil && errH == nil {
			if lw <= 0 || lh <= 0 {
				return 0, 0, false
			}
			return lw, lh, true
		}
	}
	side := math.Sqrt(area)
	return side, side, true
}

func splitProduct(formula string) (string, string, bool) {
	depth, star := 0, -1
	for i := 0; i < len(formula); i++ {
		switch formula[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '*':
			if depth == 0 {
				if star >= 0 {
					return "", "", false
				}
				star = i
			}
		case '+', '-', '/', '?', ':', '<', '>', '=':
			if depth == 0 {
				return "", "", false
			}
		}
	}
	if star < 0 {
		return "", "", false
	}
	left := strings.TrimSpace(formula[:star])
	right := strings.TrimSpace(formula[star+1:])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

// structural emits the template's structural pieces.
func (r *moduleRun) structural() {
	for _, def := range r.tmpl.Pieces {
		r.emit(def, r.vars, r.qty, TagStructural, r.inst.Materials.For(roleOr(def.Role, RoleInterior)), def.Name)
	}
}

// panels emits face panels whose face is active on the instance.
func (r *moduleRun) panels() {
	active := make(map[string]bool, len(r.inst.Faces))
	for _, f := range r.inst.Faces {
		active[f] = true
	}
	for _, def := range r.tmpl.Panels {
		if !active[def.Face] {
			continue
		}
		r.emit(def.PieceDef, r.vars, r.qty, TagFacePanel, r.inst.Materials.For(roleOr(def.Role, RoleExterior)), def.Name)
	}
}

// subItems emits module accessories: shelves as one consolidated piece line,
// hardware accessories into the hardware ledger.
func (r *moduleRun) subItems() {
	for _, def := range r.tmpl.SubItems {
		chosen := r.inst.SubItems[def.ID]
		if def.Max > 0 && chosen > def.Max {
			chosen = def.Max
		}
		if chosen <= 0 {
			continue
		}
		label := fmt.Sprintf("%s ×%d", def.Name, chosen)

		switch def.Kind {
		case SubItemHardware:
			qty := chosen * quantityOf(def.Quantity, r.vars) * r.qty
			r.addHardware(def.HardwareID, "", qty, r.label+" › "+label)
		default:
			piece := PieceDef{ID: def.ID, Name: def.Name, Area: def.Area, Role: def.Role, Edges: def.Edges, Repeat: 1}
			r.emit(piece, r.vars, chosen*r.qty, TagSubItem, r.inst.Materials.For(roleOr(def.Role, RoleInterior)), label)
		}
	}
}

// leaves emits door or drawer pieces and hardware for count leaves.
func (r *moduleRun) leaves(rules *LeafRules, count int, tag PieceTag) {
	if rules == nil || count <= 0 {
		return
	}
	for _, def := range rules.Pieces {
		label := def.Name
		if count > 1 {
			label = fmt.Sprintf("%s ×%d", def.Name, count)
		}
		r.emit(def, r.vars, count*r.qty, tag, r.inst.Materials.For(roleOr(def.Role, RoleFront)), label)
	}
	for _, rule := range rules.Hardware {
		qty := quantityOf(rule.Quantity, r.vars) * r.qty
		r.addHardware(rule.HardwareID, "", qty, fmt.Sprintf("%s › %s", r.label, tag))
	}
}

func (r *moduleRun) addHardware(defaultID, override string, qty int, origin string) {
	id := EffectiveHardware(defaultID, override, r.prices, r.standards)
	if _, ok := r.prices.Hardware[id]; !ok {
		r.warnf("hardware %q skipped: not in price book", id)
		return
	}
	r.hardware.Add(id, qty, origin)
}

func roleOr(role, fallback MaterialRole) MaterialRole {
	if role == "" {
		return fallback
	}
	return role
}
