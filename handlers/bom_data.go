package handlers

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/shopspring/decimal"

	"marcenaria/bom"
	"marcenaria/catalog"
	"marcenaria/collections"
	"marcenaria/config"
	"marcenaria/services"
	"marcenaria/templates"
)

// quoteBOM is a quote recomputed from the stored catalog.
type quoteBOM struct {
	Bundle  collections.QuoteBundle
	Catalog *catalog.File
	BOM     bom.BillOfMaterials
	Pricing services.Pricing
}

// computeQuoteBOM loads the quote, its approved addenda and the current
// catalog, and evaluates them. Engine warnings are logged, never fatal.
func computeQuoteBOM(app *pocketbase.PocketBase, quoteID string, fees []decimal.Decimal) (quoteBOM, error) {
	bundle, err := collections.LoadQuote(app, quoteID)
	if err != nil {
		return quoteBOM{}, err
	}
	file, err := collections.LoadCatalog(app)
	if err != nil {
		return quoteBOM{}, fmt.Errorf("load catalog: %w", err)
	}

	return evaluateQuote(bundle, file, fees, "computeQuoteBOM"), nil
}

// evaluateQuote runs the engine over an already loaded quote. funcName tags
// the logged warnings with the calling handler.
func evaluateQuote(bundle collections.QuoteBundle, file *catalog.File, fees []decimal.Decimal, funcName string) quoteBOM {
	b := bom.ComputeBOM(bundle.Quote, bundle.Addenda, file.Catalog(), file.PriceBook(), file.HardwareStandards())
	config.LogWarnings(config.Logger(), "handlers", funcName, b.Warnings)

	return quoteBOM{
		Bundle:  bundle,
		Catalog: file,
		BOM:     b,
		Pricing: services.PriceBOM(b, fees),
	}
}

func (q quoteBOM) addendaTitles() []string {
	titles := make([]string, 0, len(q.Bundle.Addenda))
	for _, a := range q.Bundle.Addenda {
		titles = append(titles, a.Title)
	}
	return titles
}

func (q quoteBOM) materialNames() map[string]string {
	names := make(map[string]string, len(q.Catalog.Materials))
	for _, m := range q.Catalog.Materials {
		names[m.ID] = m.Name
	}
	return names
}

// exportData builds the export payload for the quote.
func (q quoteBOM) exportData() services.BOMExportData {
	return services.BOMExportData{
		Title:         q.Bundle.Quote.Title,
		ProjectName:   q.Bundle.ProjectName,
		CreatedDate:   q.Bundle.Created,
		Sources:       append([]string{q.Bundle.Quote.Title}, q.addendaTitles()...),
		BOM:           q.BOM,
		Pricing:       q.Pricing,
		MaterialNames: q.materialNames(),
	}
}

// viewData formats the bill for the HTML view.
func (q quoteBOM) viewData() templates.BOMViewData {
	names := q.materialNames()
	b := q.BOM

	data := templates.BOMViewData{
		QuoteID:      q.Bundle.Quote.ID,
		Title:        q.Bundle.Quote.Title,
		ProjectName:  q.Bundle.ProjectName,
		CreatedDate:  q.Bundle.Created,
		Addenda:      q.addendaTitles(),
		ExportURL:    fmt.Sprintf("/quotes/%s/bom/export/excel", q.Bundle.Quote.ID),
		SheetCost:    services.FormatBRL(b.SheetCost),
		EdgeBandCost: services.FormatBRL(b.EdgeBandCost),
		HardwareCost: services.FormatBRL(b.HardwareCost),
		FinishCost:   services.FormatBRL(b.FinishCost),
		TotalCost:    services.FormatBRL(b.TotalCost),
		Fees:         formatFees(q.Pricing.Fees),
		SalePrice:    services.FormatBRL(q.Pricing.SalePrice),
		Warnings:     b.Warnings,
	}

	for _, mp := range q.Pricing.Modules {
		m := mp.Summary
		data.Modules = append(data.Modules, templates.ModuleRowView{
			Environment:   m.Environment,
			Label:         m.Label,
			Area:          services.FormatNumber(m.Area, 2),
			EdgeBand:      services.FormatNumber(m.EdgeBand, 2),
			Sheets:        fmt.Sprintf("%d", m.Sheets),
			HardwareCount: fmt.Sprintf("%d", m.HardwareCount),
			Cost:          services.FormatBRL(mp.Cost),
			SalePrice:     services.FormatBRL(mp.SalePrice),
		})
	}

	for _, p := range b.Pieces {
		material := names[p.MaterialID]
		if material == "" {
			material = p.MaterialID
		}
		data.Pieces = append(data.Pieces, templates.PieceRowView{
			Source:   p.Source,
			Label:    p.Label,
			Material: material,
			Size:     services.FormatNumber(p.Width, 0) + " × " + services.FormatNumber(p.Height, 0),
			Quantity: fmt.Sprintf("%d", p.Quantity),
			Area:     services.FormatNumber(p.Area, 3),
			EdgeBand: services.FormatNumber(p.EdgeBand, 2),
		})
	}

	for _, c := range b.Chapas {
		data.Chapas = append(data.Chapas, templates.ChapaRowView{
			Name:         c.Name,
			Area:         services.FormatNumber(c.Area, 2),
			Sheets:       fmt.Sprintf("%d", c.Sheets),
			Cost:         services.FormatBRL(c.Cost),
			EdgeBand:     services.FormatNumber(c.EdgeBand, 2),
			EdgeBandCost: services.FormatBRL(c.EdgeBandCost),
		})
	}

	for _, h := range b.Hardware {
		data.Hardware = append(data.Hardware, templates.HardwareRowView{
			Name:     h.Name,
			Quantity: fmt.Sprintf("%d", h.Quantity),
			UOM:      h.UOM,
			Cost:     services.FormatBRL(h.Cost),
			Origins:  strings.Join(h.Origins, "; "),
		})
	}

	return data
}

// formatFees renders fee percentages as "10% + 5%".
func formatFees(fees []decimal.Decimal) string {
	if len(fees) == 0 {
		return "0%"
	}
	parts := make([]string, len(fees))
	for i, f := range fees {
		parts[i] = strings.Replace(f.String(), ".", ",", 1) + "%"
	}
	return strings.Join(parts, " + ")
}
