// Package bom computes furniture-module bills of materials from parametric
// templates: cut pieces, sheet purchases, hardware and cost roll-ups.
//
// Everything in this package is a pure function of its inputs. Nothing is
// cached, logged or persisted, so concurrent calls never interact.
package bom

import "github.com/shopspring/decimal"

// Material is a sheet good (chapa). Dimensions are millimeters.
type Material struct {
	ID            string          `json:"id" yaml:"id" validate:"required"`
	Name          string          `json:"name" yaml:"name"`
	Thickness     float64         `json:"thickness" yaml:"thickness" validate:"gte=0"`
	SheetWidth    float64         `json:"sheet_width" yaml:"sheet_width" validate:"gte=0"`
	SheetHeight   float64         `json:"sheet_height" yaml:"sheet_height" validate:"gte=0"`
	UnitPrice     decimal.Decimal `json:"unit_price" yaml:"unit_price"`
	WastePercent  float64         `json:"waste_percent" yaml:"waste_percent" validate:"gte=0,lt=100"`
	EdgeBandPrice decimal.Decimal `json:"edge_band_price" yaml:"edge_band_price"`
}

// Hardware is a ferragem priced per unit of measure.
type Hardware struct {
	ID        string          `json:"id" yaml:"id" validate:"required"`
	Name      string          `json:"name" yaml:"name"`
	UnitPrice decimal.Decimal `json:"unit_price" yaml:"unit_price"`
	UOM       string          `json:"uom" yaml:"uom"`
	Category  string          `json:"category" yaml:"category"`
}

// Finish is priced per square meter. Included finishes cost zero.
type Finish struct {
	ID         string          `json:"id" yaml:"id" validate:"required"`
	Name       string          `json:"name" yaml:"name"`
	PricePerM2 decimal.Decimal `json:"price_per_m2" yaml:"price_per_m2"`
}

// PriceBook is the read-only price snapshot used for one evaluation.
type PriceBook struct {
	Materials map[string]Material `json:"materials" yaml:"materials"`
	Hardware  map[string]Hardware `json:"hardware" yaml:"hardware"`
	Finishes  map[string]Finish   `json:"finishes" yaml:"finishes"`
}

// Standards maps a hardware category to the shop's standard hardware id.
type Standards map[string]string

// MaterialRole names which of a module instance's chosen materials a piece
// is cut from.
type MaterialRole string

const (
	RoleInterior MaterialRole = "interior"
	RoleExterior MaterialRole = "exterior"
	RoleBack     MaterialRole = "back"
	RoleFront    MaterialRole = "front"
)

// EdgeCode is one entry of a piece's edge-banding code set.
type EdgeCode string

const (
	EdgeFront EdgeCode = "front"
	EdgeTop   EdgeCode = "top"
	EdgeBack  EdgeCode = "back"
	EdgeAll   EdgeCode = "all"
)

// PieceDef is a structural piece or panel definition. Area is a formula in
// square millimeters over the resolved variables.
type PieceDef struct {
	ID     string       `json:"id" yaml:"id"`
	Name   string       `json:"name" yaml:"name"`
	Area   string       `json:"area" yaml:"area"`
	Role   MaterialRole `json:"material" yaml:"material"`
	Edges  []EdgeCode   `json:"edges,omitempty" yaml:"edges,omitempty"`
	Repeat int          `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// PanelDef is an optional closure panel tied to a named face of the module.
type PanelDef struct {
	PieceDef `yaml:",inline"`
	Face     string `json:"face" yaml:"face"`
}

// SubItemKind tells a module sub-item apart: a cut piece or a hardware line.
type SubItemKind string

const (
	SubItemPiece    SubItemKind = "piece"
	SubItemHardware SubItemKind = "hardware"
)

// SubItemDef is a module-level accessory such as an adjustable shelf.
type SubItemDef struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	Kind       SubItemKind  `json:"kind" yaml:"kind"`
	Area       string       `json:"area,omitempty" yaml:"area,omitempty"`
	Role       MaterialRole `json:"material,omitempty" yaml:"material,omitempty"`
	Edges      []EdgeCode   `json:"edges,omitempty" yaml:"edges,omitempty"`
	HardwareID string       `json:"hardware,omitempty" yaml:"hardware,omitempty"`
	Quantity   string       `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Max        int          `json:"max,omitempty" yaml:"max,omitempty"`
}

// HardwareRule is a hardware line whose quantity is a formula.
type HardwareRule struct {
	HardwareID string `json:"hardware" yaml:"hardware"`
	Quantity   string `json:"quantity" yaml:"quantity"`
}

// LeafRules describe door or drawer leaves of a module. Piece quantities are
// multiplied by the leaf count; hardware formulas carry the count themselves.
type LeafRules struct {
	DefaultCount int            `json:"default_count" yaml:"default_count"`
	Pieces       []PieceDef     `json:"pieces" yaml:"pieces"`
	Hardware     []HardwareRule `json:"hardware,omitempty" yaml:"hardware,omitempty"`
}

// ModuleTemplate is an author-maintained parametric furniture module.
type ModuleTemplate struct {
	ID          string       `json:"id" yaml:"id" validate:"required"`
	Name        string       `json:"name" yaml:"name"`
	Category    string       `json:"category" yaml:"category"`
	Coefficient float64      `json:"coefficient" yaml:"coefficient"`
	Pieces      []PieceDef   `json:"pieces" yaml:"pieces"`
	Panels      []PanelDef   `json:"panels,omitempty" yaml:"panels,omitempty"`
	SubItems    []SubItemDef `json:"sub_items,omitempty" yaml:"sub_items,omitempty"`
	Doors       *LeafRules   `json:"doors,omitempty" yaml:"doors,omitempty"`
	Drawers     *LeafRules   `json:"drawers,omitempty" yaml:"drawers,omitempty"`
}

// ConfigVar is a user-configurable component variable. A nil Default keeps
// the module-level value of the same name when the user gives no override.
type ConfigVar struct {
	Name    string   `json:"name" yaml:"name"`
	Default *float64 `json:"default,omitempty" yaml:"default,omitempty"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// DerivedVar is a component-local alias computed from module variables.
// Derived variables are evaluated in order, so later ones may use earlier ones.
type DerivedVar struct {
	Name    string `json:"name" yaml:"name"`
	Formula string `json:"formula" yaml:"formula"`
}

// ComponentSubItemDef is a hardware line of a component.
type ComponentSubItemDef struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	HardwareID string `json:"hardware" yaml:"hardware"`
	Quantity   string `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	DefaultOn  bool   `json:"default_on" yaml:"default_on"`
}

// ComponentTemplate is a reusable sub-assembly (drawer, door, shelf, rod).
type ComponentTemplate struct {
	ID        string                `json:"id" yaml:"id" validate:"required"`
	Name      string                `json:"name" yaml:"name"`
	Kind      string                `json:"kind" yaml:"kind"`
	Variables []ConfigVar           `json:"variables,omitempty" yaml:"variables,omitempty"`
	Derived   []DerivedVar          `json:"derived,omitempty" yaml:"derived,omitempty"`
	Pieces    []PieceDef            `json:"pieces,omitempty" yaml:"pieces,omitempty"`
	Front     *PieceDef             `json:"front,omitempty" yaml:"front,omitempty"`
	SubItems  []ComponentSubItemDef `json:"sub_items,omitempty" yaml:"sub_items,omitempty"`
}

// Catalog holds the module and component templates.
type Catalog struct {
	Modules    map[string]ModuleTemplate    `json:"modules" yaml:"modules"`
	Components map[string]ComponentTemplate `json:"components" yaml:"components"`
}

// MaterialChoice is the set of materials chosen for one module instance.
type MaterialChoice struct {
	Interior string `json:"interior" yaml:"interior"`
	Exterior string `json:"exterior,omitempty" yaml:"exterior,omitempty"`
	Back     string `json:"back,omitempty" yaml:"back,omitempty"`
	Front    string `json:"front,omitempty" yaml:"front,omitempty"`
}

// ComponentInstance is a component placed in a module instance.
type ComponentInstance struct {
	TemplateID string             `json:"component" yaml:"component"`
	Label      string             `json:"label,omitempty" yaml:"label,omitempty"`
	Quantity   int                `json:"quantity" yaml:"quantity"`
	Variables  map[string]float64 `json:"variables,omitempty" yaml:"variables,omitempty"`
	Toggles    map[string]bool    `json:"toggles,omitempty" yaml:"toggles,omitempty"`
	Overrides  map[string]string  `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// ModuleInstance is a module the user placed in an environment.
type ModuleInstance struct {
	TemplateID  string              `json:"module" yaml:"module"`
	Label       string              `json:"label,omitempty" yaml:"label,omitempty"`
	Width       float64             `json:"width" yaml:"width"`
	Height      float64             `json:"height" yaml:"height"`
	Depth       float64             `json:"depth" yaml:"depth"`
	Quantity    int                 `json:"quantity" yaml:"quantity"`
	Materials   MaterialChoice      `json:"materials" yaml:"materials"`
	Faces       []string            `json:"faces,omitempty" yaml:"faces,omitempty"`
	FinishID    string              `json:"finish,omitempty" yaml:"finish,omitempty"`
	DoorCount   *int                `json:"door_count,omitempty" yaml:"door_count,omitempty"`
	DrawerCount *int                `json:"drawer_count,omitempty" yaml:"drawer_count,omitempty"`
	SubItems    map[string]int      `json:"sub_items,omitempty" yaml:"sub_items,omitempty"`
	Components  []ComponentInstance `json:"components,omitempty" yaml:"components,omitempty"`
}

// Environment (ambiente) groups module instances, e.g. "Cozinha".
type Environment struct {
	Name    string           `json:"name" yaml:"name"`
	Modules []ModuleInstance `json:"modules" yaml:"modules"`
}

// Quote is a quote or, when ParentID is set, an addendum (aditivo) to one.
type Quote struct {
	ID           string        `json:"id" yaml:"id"`
	ParentID     string        `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Title        string        `json:"title" yaml:"title"`
	Environments []Environment `json:"environments" yaml:"environments"`
}

// PieceTag classifies where a piece record came from.
type PieceTag string

const (
	TagStructural PieceTag = "structural"
	TagFacePanel  PieceTag = "face-panel"
	TagSubItem    PieceTag = "sub-item"
	TagDoor       PieceTag = "door"
	TagDrawer     PieceTag = "drawer"
	TagComponent  PieceTag = "component"
	TagFront      PieceTag = "component-front"
)

// exterior reports whether the module finish applies to pieces with this tag.
func (t PieceTag) exterior() bool {
	switch t {
	case TagFacePanel, TagDoor, TagDrawer, TagFront:
		return true
	}
	return false
}

// PieceRecord is one computed cut piece line. Width and Height are the
// nominal millimeter dimensions of a single piece; Area and EdgeBand are
// totals over Quantity.
type PieceRecord struct {
	Source     string          `json:"source"`
	Label      string          `json:"label"`
	MaterialID string          `json:"material"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Quantity   int             `json:"quantity"`
	Area       float64         `json:"area_m2"`
	EdgeBand   float64         `json:"edge_band_m"`
	Tag        PieceTag        `json:"tag"`
	FinishCost decimal.Decimal `json:"finish_cost"`
}

// ChapaAggregate is the sheet purchase requirement for one material.
type ChapaAggregate struct {
	MaterialID   string          `json:"material"`
	Name         string          `json:"name"`
	Area         float64         `json:"area_m2"`
	UsableArea   float64         `json:"usable_area_m2"`
	Sheets       int             `json:"sheets"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Cost         decimal.Decimal `json:"cost"`
	EdgeBand     float64         `json:"edge_band_m"`
	EdgeBandCost decimal.Decimal `json:"edge_band_cost"`
}

// HardwareAggregate is the consolidated quantity of one hardware item.
type HardwareAggregate struct {
	HardwareID string          `json:"hardware"`
	Name       string          `json:"name"`
	UOM        string          `json:"uom"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Cost       decimal.Decimal `json:"cost"`
	Origins    []string        `json:"origins"`
}

// ModuleSummary is the per-module figure set shown by pricing screens.
// Sheets counts the module in isolation and is not additive across modules.
type ModuleSummary struct {
	Source        string          `json:"source"`
	Environment   string          `json:"environment"`
	Label         string          `json:"label"`
	TemplateID    string          `json:"module"`
	Area          float64         `json:"area_m2"`
	EdgeBand      float64         `json:"edge_band_m"`
	Sheets        int             `json:"sheets"`
	HardwareCount int             `json:"hardware_count"`
	Cost          decimal.Decimal `json:"cost"`
	Coefficient   float64         `json:"coefficient"`
}

// BillOfMaterials is the engine output.
type BillOfMaterials struct {
	Pieces       []PieceRecord       `json:"pieces"`
	Chapas       []ChapaAggregate    `json:"chapas"`
	Hardware     []HardwareAggregate `json:"hardware"`
	Modules      []ModuleSummary     `json:"modules"`
	EdgeBand     float64             `json:"edge_band_m"`
	EdgeBandCost decimal.Decimal     `json:"edge_band_cost"`
	SheetCost    decimal.Decimal     `json:"sheet_cost"`
	HardwareCost decimal.Decimal     `json:"hardware_cost"`
	FinishCost   decimal.Decimal     `json:"finish_cost"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
	Warnings     []string            `json:"warnings,omitempty"`
}
