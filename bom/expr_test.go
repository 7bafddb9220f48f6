package bom

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluate(t *testing.T) {
	vars := Vars{"Li": 564, "Ai": 2064, "L": 600, "A": 2100, "P": 500, "esp": 18, "nPortas": 3, "Ap": 1800}

	tests := []struct {
		name   string
		expr   string
		expect float64
	}{
		{"longest name first", "Li*Ai", 1164096},
		{"short names", "L*A", 1260000},
		{"interior by depth", "Li*P", 282000},
		{"precedence", "2+3*4", 14},
		{"parentheses", "(2+3)*4", 20},
		{"division", "L/4", 150},
		{"unary minus", "-L+1000", 400},
		{"hinge ternary tall door", "nPortas*(Ap<=1600?3:4)", 12},
		{"ternary true branch", "A>2000?2:1", 2},
		{"ternary equality", "esp==18?1:0", 1},
		{"decimal literal", "0.5*L", 300},
		{"whitespace", "  L - 2 * esp ", 564},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr, vars)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.expr, err)
			}
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.expect)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	vars := Vars{"L": 600, "A": 2100, "zero": 0}

	tests := []struct {
		name string
		expr string
		want error
	}{
		{"empty", "", ErrEmptyExpression},
		{"blank", "   ", ErrEmptyExpression},
		{"unknown identifier", "L*X", ErrSyntax},
		{"function call", "max(L,A)", ErrSyntax},
		{"dangling operator", "L*", ErrSyntax},
		{"unbalanced paren", "(L*A", ErrSyntax},
		{"bare comparison", "L>A", ErrSyntax},
		{"two ternaries", "L>1?(A>1?1:2):3", ErrSyntax},
		{"division by zero", "L/zero", ErrDivisionByZero},
		{"missing colon", "L>1?2", ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expr, vars)
			if err == nil {
				t.Fatalf("Evaluate(%q) expected error", tt.expr)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Evaluate(%q) error = %v, want %v", tt.expr, err, tt.want)
			}
		})
	}
}

func TestEvaluate_NegativeVariable(t *testing.T) {
	got, err := Evaluate("L-x", Vars{"L": 10, "x": -5})
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if got != 15 {
		t.Errorf("Evaluate = %v, want 15", got)
	}
}

func TestSoftDefaults(t *testing.T) {
	vars := Vars{"L": 600}

	if got := EvalArea("L*", vars); got != 0 {
		t.Errorf("EvalArea(malformed) = %v, want 0", got)
	}
	if got := EvalQuantity("L*", vars); got != 1 {
		t.Errorf("EvalQuantity(malformed) = %v, want 1", got)
	}
	if got := EvalArea("L*2", vars); got != 1200 {
		t.Errorf("EvalArea(L*2) = %v, want 1200", got)
	}
}

func TestQuantityOf(t *testing.T) {
	vars := Vars{"A": 2100, "nPortas": 2}

	tests := []struct {
		name    string
		formula string
		expect  int
	}{
		{"empty means one", "", 1},
		{"rounds up", "A/1000", 3},
		{"at least one", "0.2", 1},
		{"negative clamps to one", "-4", 1},
		{"malformed means one", "A**", 1},
		{"formula", "nPortas*2", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantityOf(tt.formula, vars); got != tt.expect {
				t.Errorf("quantityOf(%q) = %d, want %d", tt.formula, got, tt.expect)
			}
		})
	}
}

func TestResolveDimensions(t *testing.T) {
	v := ResolveDimensions(Dimensions{Width: 600, Height: 2100, Depth: 500, Thickness: 18, Doors: 2, Drawers: 3, Quantity: 1})

	checks := map[string]float64{
		VarInnerWidth:   564,
		VarInnerHeight:  2064,
		VarInnerDepth:   500,
		VarDoorWidth:    300,
		VarDoorHeight:   2100,
		VarDoorCount:    2,
		VarDrawerCount:  3,
		VarDrawerHeight: 700,
	}
	for name, want := range checks {
		if got := v[name]; got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	noDoors := ResolveDimensions(Dimensions{Width: 600, Height: 2100})
	if noDoors[VarDoorWidth] != 600 {
		t.Errorf("Lp with no doors = %v, want 600", noDoors[VarDoorWidth])
	}
}
