package bom

import (
	"math"
	"testing"
)

func TestComponentVars(t *testing.T) {
	module := SampleVars()
	tmpl := ComponentTemplate{
		Derived: []DerivedVar{
			{Name: "Lg", Formula: "Li-26"},
			{Name: "Lg2", Formula: "Lg/2"},
		},
		Variables: []ConfigVar{
			{Name: "Hg", Default: ptr(150.0), Min: ptr(80.0), Max: ptr(300.0)},
			{Name: "Ap", Max: ptr(1500.0)},
			{Name: "Pg"},
		},
	}

	tests := []struct {
		name      string
		overrides map[string]float64
		checks    map[string]float64
	}{
		{
			name:   "defaults and inherited values",
			checks: map[string]float64{"Lg": 538, "Lg2": 269, "Hg": 150, "Ap": 2100, "L": 600},
		},
		{
			name:      "override clamped to max",
			overrides: map[string]float64{"Hg": 500, "Ap": 1800},
			checks:    map[string]float64{"Hg": 300, "Ap": 1500},
		},
		{
			name:      "override clamped to min",
			overrides: map[string]float64{"Hg": 10},
			checks:    map[string]float64{"Hg": 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := ComponentVars(module, tmpl, tt.overrides)
			for name, want := range tt.checks {
				if got := vars[name]; math.Abs(got-want) > 1e-9 {
					t.Errorf("%s = %v, want %v", name, got, want)
				}
			}
			if _, ok := vars["Pg"]; ok {
				t.Error("variable with no default and no module value should stay unset")
			}
		})
	}

	if module["Lg"] != 0 {
		t.Error("ComponentVars must not modify the module variables")
	}
}

func TestComputeBOM_Component(t *testing.T) {
	inst := armario600()
	inst.Materials.Front = "mdf18-freijo"
	inst.Components = []ComponentInstance{{
		TemplateID: "gaveta-interna",
		Quantity:   2,
		Variables:  map[string]float64{"Hg": 500},
		Toggles:    map[string]bool{"puxador": true},
		Overrides:  map[string]string{"corredica": "corredica-tandem"},
	}}

	b := ComputeBOM(quoteOf("Q1", "", inst), nil, testCatalog(), testPrices(), testStandards())

	side, ok := findPiece(b.Pieces, "Gaveta interna › Lateral gaveta")
	if !ok {
		t.Fatalf("component side missing: %+v", b.Pieces)
	}
	if side.Quantity != 4 || side.Height != 300 || side.Tag != TagComponent {
		t.Errorf("component side = %+v", side)
	}
	if side.MaterialID != "mdf18" {
		t.Errorf("component side material = %q, want interior", side.MaterialID)
	}

	front, ok := findPiece(b.Pieces, "Gaveta interna › Frente")
	if !ok {
		t.Fatal("component front missing")
	}
	if front.MaterialID != "mdf18-freijo" || front.Tag != TagFront {
		t.Errorf("component front = %+v", front)
	}
	if front.Width != 538 || front.Height != 300 || front.Quantity != 2 {
		t.Errorf("component front size = %vx%v x%d", front.Width, front.Height, front.Quantity)
	}

	tandem, ok := findHardware(b.Hardware, "corredica-tandem")
	if !ok || tandem.Quantity != 2 {
		t.Errorf("overridden slides = %+v", tandem)
	}
	if _, ok := findHardware(b.Hardware, "corredica-std"); ok {
		t.Error("override should replace the default slide")
	}
	pulls, ok := findHardware(b.Hardware, "puxador")
	if !ok || pulls.Quantity != 2 {
		t.Errorf("toggled pulls = %+v", pulls)
	}
	if len(pulls.Origins) != 1 || pulls.Origins[0] != "Cozinha › Armário alto › Gaveta interna › Puxador" {
		t.Errorf("pull origins = %v", pulls.Origins)
	}
}

func TestComputeBOM_ComponentFrontNeedsFrontMaterial(t *testing.T) {
	inst := armario600()
	inst.Components = []ComponentInstance{{TemplateID: "gaveta-interna", Quantity: 1}}

	b := ComputeBOM(quoteOf("Q1", "", inst), nil, testCatalog(), testPrices(), testStandards())

	if _, ok := findPiece(b.Pieces, "Gaveta interna › Frente"); ok {
		t.Error("front emitted without a front material")
	}
	if _, ok := findPiece(b.Pieces, "Gaveta interna › Fundo gaveta"); !ok {
		t.Error("component body pieces should still be emitted")
	}
	if _, ok := findHardware(b.Hardware, "puxador"); ok {
		t.Error("pull is off by default")
	}
	slides, _ := findHardware(b.Hardware, "corredica-std")
	if slides.Quantity != 1 {
		t.Errorf("default slides = %d, want 1", slides.Quantity)
	}
}

func TestComputeBOM_UnknownComponent(t *testing.T) {
	inst := armario600()
	inst.Components = []ComponentInstance{{TemplateID: "cabideiro"}}

	b := ComputeBOM(quoteOf("Q1", "", inst), nil, testCatalog(), testPrices(), testStandards())
	if !hasWarning(b.Warnings, `component "cabideiro" skipped`) {
		t.Errorf("warnings = %v", b.Warnings)
	}
	if len(b.Pieces) != 4 {
		t.Errorf("module pieces should be unaffected, got %d", len(b.Pieces))
	}
}
