package bom

import (
	"math"

	"github.com/shopspring/decimal"
)

// sheetEpsilon absorbs float noise so an exact multiple of the usable area
// does not round up to an extra sheet.
const sheetEpsilon = 1e-9

// MaterialLedger accumulates piece area and band length per material.
// Sources are merged into one ledger before sheets are counted.
type MaterialLedger struct {
	order []string
	area  map[string]float64
	band  map[string]float64
}

func NewMaterialLedger() *MaterialLedger {
	return &MaterialLedger{area: map[string]float64{}, band: map[string]float64{}}
}

// Add records areaM2 square meters and bandM meters of edge band.
func (l *MaterialLedger) Add(materialID string, areaM2, bandM float64) {
	if _, seen := l.area[materialID]; !seen {
		l.order = append(l.order, materialID)
	}
	l.area[materialID] += math.Max(0, areaM2)
	l.band[materialID] += math.Max(0, bandM)
}

// Merge adds every entry of o into l.
func (l *MaterialLedger) Merge(o *MaterialLedger) {
	for _, id := range o.order {
		l.Add(id, o.area[id], o.band[id])
	}
}

// Area returns the accumulated area for materialID in square meters.
func (l *MaterialLedger) Area(materialID string) float64 { return l.area[materialID] }

// SheetCount is how many whole sheets cover areaM2 when each sheet yields
// usableM2. A non-positive usable area needs no sheet for no area and one
// sheet otherwise.
func SheetCount(areaM2, usableM2 float64) int {
	if areaM2 <= 0 {
		return 0
	}
	if usableM2 <= 0 {
		return 1
	}
	return int(math.Ceil(areaM2/usableM2 - sheetEpsilon))
}

// UsableArea is the sheet area in square meters net of the waste allowance.
func UsableArea(m Material) float64 {
	sheet := (m.SheetWidth / 1000) * (m.SheetHeight / 1000)
	return sheet * (1 - m.WastePercent/100)
}

// Aggregates rounds each material's total area up to whole sheets and prices
// sheets and edge band. Materials missing from prices are left out.
func (l *MaterialLedger) Aggregates(prices PriceBook) []ChapaAggregate {
	out := make([]ChapaAggregate, 0, len(l.order))
	for _, id := range l.order {
		mat, ok := prices.Materials[id]
		if !ok {
			continue
		}
		usable := UsableArea(mat)
		sheets := SheetCount(l.area[id], usable)
		band := l.band[id]
		out = append(out, ChapaAggregate{
			MaterialID:   id,
			Name:         mat.Name,
			Area:         l.area[id],
			UsableArea:   usable,
			Sheets:       sheets,
			UnitPrice:    mat.UnitPrice,
			Cost:         mat.UnitPrice.Mul(decimal.NewFromInt(int64(sheets))),
			EdgeBand:     band,
			EdgeBandCost: mat.EdgeBandPrice.Mul(decimal.NewFromFloat(band)).Round(2),
		})
	}
	return out
}
