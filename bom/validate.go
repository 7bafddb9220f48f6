package bom

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// Severity grades a catalog diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one finding of ValidateCatalog.
type Diagnostic struct {
	Path     string   `json:"path"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Path, d.Message)
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateCatalog checks a catalog the strict way the live engine does not:
// every formula must evaluate against sample dimensions, every referenced
// material role, hardware item and standard must exist, and price records
// must be within range. It is meant for catalog authoring, not per edit.
func ValidateCatalog(catalog Catalog, prices PriceBook, standards Standards) []Diagnostic {
	c := &checker{prices: prices}

	for _, id := range sortedKeys(prices.Materials) {
		m := prices.Materials[id]
		c.record("materials."+id, m)
		if m.UnitPrice.IsNegative() || m.EdgeBandPrice.IsNegative() {
			c.errorf("materials."+id, "negative price")
		}
		if m.SheetWidth == 0 || m.SheetHeight == 0 {
			c.warnf("materials."+id, "sheet size is zero, every use will count one sheet")
		}
	}
	for _, id := range sortedKeys(prices.Hardware) {
		h := prices.Hardware[id]
		c.record("hardware."+id, h)
		if h.UnitPrice.IsNegative() {
			c.errorf("hardware."+id, "negative price")
		}
	}
	for _, id := range sortedKeys(prices.Finishes) {
		f := prices.Finishes[id]
		c.record("finishes."+id, f)
		if f.PricePerM2.IsNegative() {
			c.errorf("finishes."+id, "negative price")
		}
	}
	for _, category := range sortedKeys(standards) {
		id := standards[category]
		hw, ok := prices.Hardware[id]
		switch {
		case !ok:
			c.errorf("standards."+category, "hardware %q not in price book", id)
		case hw.Category != category:
			c.warnf("standards."+category, "hardware %q belongs to category %q", id, hw.Category)
		}
	}

	sample := SampleVars()
	for _, id := range sortedKeys(catalog.Modules) {
		c.module("modules."+id, catalog.Modules[id], sample)
	}
	for _, id := range sortedKeys(catalog.Components) {
		c.component("components."+id, catalog.Components[id], sample)
	}
	return c.diags
}

type checker struct {
	prices PriceBook
	diags  []Diagnostic
}

func (c *checker) errorf(path, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Path: path, Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) warnf(path, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Path: path, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) record(path string, v any) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			c.errorf(path, "%s fails %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return
	}
	c.errorf(path, "%v", err)
}

// formula checks expr strictly. Area formulas must also be positive.
func (c *checker) formula(path, expr string, vars Vars, area bool) {
	for _, ident := range identPattern.FindAllString(expr, -1) {
		if _, ok := vars[ident]; !ok {
			c.errorf(path, "unknown variable %q in %q", ident, expr)
			return
		}
	}
	v, err := Evaluate(expr, vars)
	if err != nil {
		c.errorf(path, "%v", err)
		return
	}
	if area && v <= 0 {
		c.warnf(path, "formula %q gives %g at sample dimensions", expr, v)
	}
}

func (c *checker) piece(path string, def PieceDef, vars Vars) {
	if def.Area == "" {
		c.errorf(path, "missing area formula")
	} else {
		c.formula(path, def.Area, vars, true)
	}
	switch def.Role {
	case "", RoleInterior, RoleExterior, RoleBack, RoleFront:
	default:
		c.errorf(path, "unknown material role %q", def.Role)
	}
	for _, e := range def.Edges {
		switch e {
		case EdgeFront, EdgeTop, EdgeBack, EdgeAll:
		default:
			c.errorf(path, "unknown edge code %q", e)
		}
	}
	if def.Repeat < 0 {
		c.errorf(path, "negative repeat %d", def.Repeat)
	}
}

func (c *checker) hardwareRef(path, id string) {
	if id == "" {
		c.errorf(path, "missing hardware id")
		return
	}
	if _, ok := c.prices.Hardware[id]; !ok {
		c.errorf(path, "hardware %q not in price book", id)
	}
}

func (c *checker) module(path string, m ModuleTemplate, vars Vars) {
	if len(m.Pieces) == 0 {
		c.warnf(path, "module has no structural pieces")
	}
	for i, def := range m.Pieces {
		c.piece(fmt.Sprintf("%s.pieces[%d]", path, i), def, vars)
	}
	for i, def := range m.Panels {
		p := fmt.Sprintf("%s.panels[%d]", path, i)
		if def.Face == "" {
			c.errorf(p, "panel without face")
		}
		c.piece(p, def.PieceDef, vars)
	}
	for i, sub := range m.SubItems {
		p := fmt.Sprintf("%s.sub_items[%d]", path, i)
		switch sub.Kind {
		case SubItemHardware:
			c.hardwareRef(p, sub.HardwareID)
			if sub.Quantity != "" {
				c.formula(p, sub.Quantity, vars, false)
			}
		case SubItemPiece, "":
			c.piece(p, PieceDef{Area: sub.Area, Role: sub.Role, Edges: sub.Edges}, vars)
		default:
			c.errorf(p, "unknown sub-item kind %q", sub.Kind)
		}
	}
	leaves := []struct {
		name  string
		rules *LeafRules
	}{{"doors", m.Doors}, {"drawers", m.Drawers}}
	for _, leaf := range leaves {
		name, rules := leaf.name, leaf.rules
		if rules == nil {
			continue
		}
		for i, def := range rules.Pieces {
			c.piece(fmt.Sprintf("%s.%s.pieces[%d]", path, name, i), def, vars)
		}
		for i, rule := range rules.Hardware {
			p := fmt.Sprintf("%s.%s.hardware[%d]", path, name, i)
			c.hardwareRef(p, rule.HardwareID)
			c.formula(p, rule.Quantity, vars, false)
		}
	}
}

func (c *checker) component(path string, t ComponentTemplate, sample Vars) {
	vars := sample.Clone()
	for i, d := range t.Derived {
		c.formula(fmt.Sprintf("%s.derived[%d]", path, i), d.Formula, vars, false)
		vars[d.Name] = EvalArea(d.Formula, vars)
	}
	for i, cv := range t.Variables {
		p := fmt.Sprintf("%s.variables[%d]", path, i)
		if cv.Min != nil && cv.Max != nil && *cv.Min > *cv.Max {
			c.errorf(p, "min %g above max %g", *cv.Min, *cv.Max)
		}
		if cv.Default != nil {
			vars[cv.Name] = clamp(*cv.Default, cv.Min, cv.Max)
		} else if _, ok := vars[cv.Name]; !ok {
			vars[cv.Name] = 0
			c.warnf(p, "variable %q has no default and no module value", cv.Name)
		}
	}
	for i, def := range t.Pieces {
		c.piece(fmt.Sprintf("%s.pieces[%d]", path, i), def, vars)
	}
	if t.Front != nil {
		c.piece(path+".front", *t.Front, vars)
	}
	for i, sub := range t.SubItems {
		p := fmt.Sprintf("%s.sub_items[%d]", path, i)
		c.hardwareRef(p, sub.HardwareID)
		if sub.Quantity != "" {
			c.formula(p, sub.Quantity, vars, false)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
