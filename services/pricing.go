// Package services turns computed bills of materials into prices, display
// strings and export files.
package services

import (
	"github.com/shopspring/decimal"

	"marcenaria/bom"
)

var (
	hundred        = decimal.NewFromInt(100)
	fallbackMarkup = decimal.NewFromInt(3)
)

// SumFees adds up fee percentages.
func SumFees(fees []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, f := range fees {
		total = total.Add(f)
	}
	return total
}

// SalePrice grosses cost up so that the fee percentages, charged on the sale
// price, still leave cost: cost / (1 - Σfees/100). When the fees reach 100%
// that has no answer and the price falls back to three times cost.
func SalePrice(cost decimal.Decimal, fees []decimal.Decimal) decimal.Decimal {
	total := SumFees(fees)
	if total.GreaterThanOrEqual(hundred) {
		return cost.Mul(fallbackMarkup).Round(2)
	}
	divisor := decimal.NewFromInt(1).Sub(total.Div(hundred))
	return cost.Div(divisor).Round(2)
}

// ModulePrice is the priced line of one module instance.
type ModulePrice struct {
	Summary   bom.ModuleSummary `json:"summary"`
	Cost      decimal.Decimal   `json:"cost"`
	SalePrice decimal.Decimal   `json:"sale_price"`
}

// Pricing is the priced view of a bill of materials.
type Pricing struct {
	Fees      []decimal.Decimal `json:"fees"`
	Cost      decimal.Decimal   `json:"cost"`
	SalePrice decimal.Decimal   `json:"sale_price"`
	Modules   []ModulePrice     `json:"modules"`
}

// PriceBOM prices the whole bill and each module. The quote sale price is
// derived from the consolidated cost; module prices apply the template
// coefficient to the module's own cost and are for display.
func PriceBOM(b bom.BillOfMaterials, fees []decimal.Decimal) Pricing {
	p := Pricing{
		Fees:      fees,
		Cost:      b.TotalCost,
		SalePrice: SalePrice(b.TotalCost, fees),
		Modules:   make([]ModulePrice, 0, len(b.Modules)),
	}
	for _, m := range b.Modules {
		p.Modules = append(p.Modules, PriceModule(m, fees))
	}
	return p
}

// PriceModule prices one module summary with its template coefficient.
func PriceModule(m bom.ModuleSummary, fees []decimal.Decimal) ModulePrice {
	coefficient := decimal.NewFromFloat(m.Coefficient)
	if m.Coefficient <= 0 {
		coefficient = decimal.NewFromInt(1)
	}
	return ModulePrice{
		Summary:   m,
		Cost:      m.Cost,
		SalePrice: SalePrice(m.Cost.Mul(coefficient), fees),
	}
}
