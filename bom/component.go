package bom

import "fmt"

// ComponentVars builds the variable set a component's formulas see: the
// module variables, then the template's derived aliases in order, then each
// configurable variable (clamped override, else default, else inherited).
func ComponentVars(module Vars, tmpl ComponentTemplate, overrides map[string]float64) Vars {
	vars := module.Clone()
	for _, d := range tmpl.Derived {
		vars[d.Name] = EvalArea(d.Formula, vars)
	}
	for _, cv := range tmpl.Variables {
		if v, ok := overrides[cv.Name]; ok {
			vars[cv.Name] = clamp(v, cv.Min, cv.Max)
			continue
		}
		if cv.Default != nil {
			vars[cv.Name] = *cv.Default
		}
	}
	return vars
}

func clamp(v float64, lo, hi *float64) float64 {
	if lo != nil && v < *lo {
		v = *lo
	}
	if hi != nil && v > *hi {
		v = *hi
	}
	return v
}

// component runs one component instance of the module.
func (r *moduleRun) component(ci ComponentInstance) {
	tmpl, ok := r.catalog.Components[ci.TemplateID]
	if !ok {
		r.warnf("component %q skipped: not in catalog", ci.TemplateID)
		return
	}

	name := ci.Label
	if name == "" {
		name = tmpl.Name
	}
	count := atLeastOne(ci.Quantity) * r.qty
	vars := ComponentVars(r.vars, tmpl, ci.Variables)

	for _, def := range tmpl.Pieces {
		label := fmt.Sprintf("%s › %s", name, def.Name)
		r.emit(def, vars, count, TagComponent, r.inst.Materials.For(roleOr(def.Role, RoleInterior)), label)
	}

	if tmpl.Front != nil && r.inst.Materials.Front != "" {
		label := fmt.Sprintf("%s › %s", name, tmpl.Front.Name)
		r.emit(*tmpl.Front, vars, count, TagFront, r.inst.Materials.Front, label)
	}

	for _, sub := range tmpl.SubItems {
		active := sub.DefaultOn
		if on, ok := ci.Toggles[sub.ID]; ok {
			active = on
		}
		if !active {
			continue
		}
		qty := quantityOf(sub.Quantity, vars) * count
		origin := fmt.Sprintf("%s › %s › %s", r.label, name, sub.Name)
		r.addHardware(sub.HardwareID, ci.Overrides[sub.ID], qty, origin)
	}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
