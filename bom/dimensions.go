package bom

// Variable names formulas may reference. The catalog documents these.
const (
	VarWidth          = "L"
	VarHeight         = "A"
	VarDepth          = "P"
	VarThickness      = "esp"
	VarInnerWidth     = "Li"
	VarInnerHeight    = "Ai"
	VarInnerDepth     = "Pi"
	VarDoorCount      = "nPortas"
	VarDoorWidth      = "Lp"
	VarDoorHeight     = "Ap"
	VarDrawerCount    = "nGavetas"
	VarDrawerHeight   = "Ag"
	VarExtThickness   = "espExt"
	VarBackThickness  = "espFundo"
	VarModuleQuantity = "qtd"
)

// DocumentedVars lists every module-level variable name in a stable order.
var DocumentedVars = []string{
	VarWidth, VarHeight, VarDepth, VarThickness,
	VarInnerWidth, VarInnerHeight, VarInnerDepth,
	VarDoorCount, VarDoorWidth, VarDoorHeight,
	VarDrawerCount, VarDrawerHeight,
	VarExtThickness, VarBackThickness, VarModuleQuantity,
}

// Dimensions is the input to ResolveDimensions.
type Dimensions struct {
	Width, Height, Depth float64
	Thickness            float64 // interior material
	ExtThickness         float64
	BackThickness        float64
	Doors, Drawers       int
	Quantity             int
}

// ResolveDimensions derives the interior, door-leaf and drawer measures of a
// module from its base measures and interior material thickness.
func ResolveDimensions(d Dimensions) Vars {
	v := Vars{
		VarWidth:          d.Width,
		VarHeight:         d.Height,
		VarDepth:          d.Depth,
		VarThickness:      d.Thickness,
		VarInnerWidth:     d.Width - 2*d.Thickness,
		VarInnerHeight:    d.Height - 2*d.Thickness,
		VarInnerDepth:     d.Depth,
		VarDoorCount:      float64(d.Doors),
		VarDoorWidth:      d.Width,
		VarDoorHeight:     d.Height,
		VarDrawerCount:    float64(d.Drawers),
		VarDrawerHeight:   d.Height,
		VarExtThickness:   d.ExtThickness,
		VarBackThickness:  d.BackThickness,
		VarModuleQuantity: float64(d.Quantity),
	}
	if d.Doors > 0 {
		v[VarDoorWidth] = d.Width / float64(d.Doors)
	}
	if d.Drawers > 0 {
		v[VarDrawerHeight] = d.Height / float64(d.Drawers)
	}
	return v
}

// SampleVars is a plausible module used to exercise formulas during catalog
// validation.
func SampleVars() Vars {
	return ResolveDimensions(Dimensions{
		Width: 600, Height: 2100, Depth: 500,
		Thickness: 18, ExtThickness: 18, BackThickness: 6,
		Doors: 2, Drawers: 3, Quantity: 1,
	})
}
