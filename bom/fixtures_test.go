package bom

import (
	"strings"

	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testPrices() PriceBook {
	return PriceBook{
		Materials: map[string]Material{
			"mdf18": {
				ID: "mdf18", Name: "MDF Branco 18mm", Thickness: 18,
				SheetWidth: 2750, SheetHeight: 1850, WastePercent: 15,
				UnitPrice: price("289.90"), EdgeBandPrice: price("1.50"),
			},
			"mdf18-freijo": {
				ID: "mdf18-freijo", Name: "MDF Freijó 18mm", Thickness: 18,
				SheetWidth: 2750, SheetHeight: 1850, WastePercent: 15,
				UnitPrice: price("420.00"), EdgeBandPrice: price("2.80"),
			},
			"mdf6": {
				ID: "mdf6", Name: "MDF Branco 6mm", Thickness: 6,
				SheetWidth: 2750, SheetHeight: 1850, WastePercent: 10,
				UnitPrice: price("95.00"),
			},
		},
		Hardware: map[string]Hardware{
			"dobradica-std":    {ID: "dobradica-std", Name: "Dobradiça 35mm", UnitPrice: price("4.50"), UOM: "un", Category: "dobradica"},
			"dobradica-blum":   {ID: "dobradica-blum", Name: "Dobradiça Blum amortecida", UnitPrice: price("18.90"), UOM: "un", Category: "dobradica"},
			"corredica-std":    {ID: "corredica-std", Name: "Corrediça telescópica 450mm", UnitPrice: price("22.00"), UOM: "par", Category: "corredica"},
			"corredica-tandem": {ID: "corredica-tandem", Name: "Corrediça Tandem", UnitPrice: price("95.00"), UOM: "par", Category: "corredica"},
			"suporte":          {ID: "suporte", Name: "Suporte de prateleira", UnitPrice: price("0.35"), UOM: "un", Category: "suporte"},
			"puxador":          {ID: "puxador", Name: "Puxador perfil", UnitPrice: price("15.00"), UOM: "un", Category: "puxador"},
		},
		Finishes: map[string]Finish{
			"laca":    {ID: "laca", Name: "Laca fosca", PricePerM2: price("180")},
			"natural": {ID: "natural", Name: "Natural", PricePerM2: decimal.Zero},
		},
	}
}

func testStandards() Standards {
	return Standards{"dobradica": "dobradica-blum"}
}

func testCatalog() Catalog {
	return Catalog{
		Modules: map[string]ModuleTemplate{
			"armario": {
				ID: "armario", Name: "Armário alto", Category: "cozinha", Coefficient: 1.8,
				Pieces: []PieceDef{
					{ID: "lateral", Name: "Lateral", Area: "A*P", Edges: []EdgeCode{EdgeFront}, Repeat: 2},
					{ID: "base", Name: "Base", Area: "Li*P", Edges: []EdgeCode{EdgeFront}, Repeat: 2},
					{ID: "fundo", Name: "Fundo", Area: "Li*Ai", Role: RoleBack},
				},
				Panels: []PanelDef{
					{PieceDef: PieceDef{ID: "acab-esq", Name: "Acabamento lateral", Area: "A*P"}, Face: "left"},
				},
				SubItems: []SubItemDef{
					{ID: "prateleira", Name: "Prateleira", Kind: SubItemPiece, Area: "Li*P", Edges: []EdgeCode{EdgeFront}, Max: 4},
					{ID: "suporte", Name: "Suporte", Kind: SubItemHardware, HardwareID: "suporte", Quantity: "4", Max: 4},
				},
				Doors: &LeafRules{
					DefaultCount: 2,
					Pieces:       []PieceDef{{ID: "porta", Name: "Porta", Area: "Lp*Ap", Edges: []EdgeCode{EdgeAll}}},
					Hardware:     []HardwareRule{{HardwareID: "dobradica-std", Quantity: "nPortas*(Ap<=1600?3:4)"}},
				},
			},
			"gaveteiro": {
				ID: "gaveteiro", Name: "Gaveteiro", Category: "cozinha",
				Pieces: []PieceDef{
					{ID: "lateral", Name: "Lateral", Area: "A*P", Edges: []EdgeCode{EdgeFront}, Repeat: 2},
				},
				Drawers: &LeafRules{
					DefaultCount: 3,
					Pieces:       []PieceDef{{ID: "frente", Name: "Frente", Area: "L*Ag", Edges: []EdgeCode{EdgeAll}}},
					Hardware:     []HardwareRule{{HardwareID: "corredica-std", Quantity: "nGavetas"}},
				},
			},
		},
		Components: map[string]ComponentTemplate{
			"gaveta-interna": {
				ID: "gaveta-interna", Name: "Gaveta interna", Kind: "gaveta",
				Derived:   []DerivedVar{{Name: "Lg", Formula: "Li-26"}},
				Variables: []ConfigVar{{Name: "Hg", Default: ptr(150.0), Min: ptr(80.0), Max: ptr(300.0)}},
				Pieces: []PieceDef{
					{ID: "lateral", Name: "Lateral gaveta", Area: "P*Hg", Repeat: 2},
					{ID: "fundo", Name: "Fundo gaveta", Area: "Lg*P"},
				},
				Front: &PieceDef{ID: "frente", Name: "Frente", Area: "Lg*Hg", Edges: []EdgeCode{EdgeAll}},
				SubItems: []ComponentSubItemDef{
					{ID: "corredica", Name: "Corrediça", HardwareID: "corredica-std", Quantity: "1", DefaultOn: true},
					{ID: "puxador", Name: "Puxador", HardwareID: "puxador"},
				},
			},
		},
	}
}

// armario600 is the reference cabinet: 600 wide, 2100 tall, 500 deep.
func armario600() ModuleInstance {
	return ModuleInstance{
		TemplateID: "armario",
		Width:      600, Height: 2100, Depth: 500,
		Quantity:  1,
		Materials: MaterialChoice{Interior: "mdf18", Exterior: "mdf18-freijo", Back: "mdf6"},
	}
}

func quoteOf(id, parent string, modules ...ModuleInstance) Quote {
	return Quote{ID: id, ParentID: parent, Title: id, Environments: []Environment{{Name: "Cozinha", Modules: modules}}}
}

func findPiece(pieces []PieceRecord, label string) (PieceRecord, bool) {
	for _, p := range pieces {
		if p.Label == label {
			return p, true
		}
	}
	return PieceRecord{}, false
}

func findHardware(hw []HardwareAggregate, id string) (HardwareAggregate, bool) {
	for _, h := range hw {
		if h.HardwareID == id {
			return h, true
		}
	}
	return HardwareAggregate{}, false
}

func findChapa(chapas []ChapaAggregate, id string) (ChapaAggregate, bool) {
	for _, c := range chapas {
		if c.MaterialID == id {
			return c, true
		}
	}
	return ChapaAggregate{}, false
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
