package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type ModuleRowView struct {
	Environment   string
	Label         string
	Area          string
	EdgeBand      string
	Sheets        string
	HardwareCount string
	Cost          string
	SalePrice     string
}

type PieceRowView struct {
	Source   string
	Label    string
	Material string
	Size     string
	Quantity string
	Area     string
	EdgeBand string
}

type ChapaRowView struct {
	Name         string
	Area         string
	Sheets       string
	Cost         string
	EdgeBand     string
	EdgeBandCost string
}

type HardwareRowView struct {
	Name     string
	Quantity string
	UOM      string
	Cost     string
	Origins  string
}

// BOMViewData is the display-ready bill of materials of one quote.
// Every figure is already formatted.
type BOMViewData struct {
	QuoteID     string
	Title       string
	ProjectName string
	CreatedDate string
	Addenda     []string
	ExportURL   string

	Modules  []ModuleRowView
	Pieces   []PieceRowView
	Chapas   []ChapaRowView
	Hardware []HardwareRowView

	SheetCost    string
	EdgeBandCost string
	HardwareCost string
	FinishCost   string
	TotalCost    string
	Fees         string
	SalePrice    string
	Warnings     []string
}

var numeric = []string{"", "", "num", "num", "num", "num", "num", "num"}

// BOMViewContent renders the bill of materials without the page shell, for
// HTMX swaps.
func BOMViewContent(data BOMViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="bom" class="bom">`)

		h.raw(`<header><h1>`)
		h.text(data.Title)
		h.raw(`</h1><p class="meta">`)
		if data.ProjectName != "" {
			h.text(data.ProjectName + " · ")
		}
		h.text(data.CreatedDate)
		h.raw(`</p>`)
		if len(data.Addenda) > 0 {
			h.raw(`<p class="addenda">Inclui aditivos: `)
			h.text(strings.Join(data.Addenda, ", "))
			h.raw(`</p>`)
		}
		if data.ExportURL != "" {
			h.raw(`<a class="btn" href="`)
			h.text(data.ExportURL)
			h.raw(`">Exportar Excel</a>`)
		}
		h.raw(`</header>`)

		if len(data.Warnings) > 0 {
			h.raw(`<ul class="warnings">`)
			for _, w := range data.Warnings {
				h.cell("li", "", w)
			}
			h.raw(`</ul>`)
		}

		h.raw(`<h2>Módulos</h2><table class="modules"><thead>`)
		h.row("th", nil, "Ambiente", "Módulo", "Área (m²)", "Fita (m)", "Chapas", "Ferragens", "Custo", "Preço de venda")
		h.raw(`</thead><tbody>`)
		for _, m := range data.Modules {
			h.row("td", numeric, m.Environment, m.Label, m.Area, m.EdgeBand, m.Sheets, m.HardwareCount, m.Cost, m.SalePrice)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<h2>Chapas</h2><table class="chapas"><thead>`)
		h.row("th", nil, "Material", "Área (m²)", "Chapas", "Custo", "Fita (m)", "Custo da fita")
		h.raw(`</thead><tbody>`)
		for _, c := range data.Chapas {
			h.row("td", numeric[1:], c.Name, c.Area, c.Sheets, c.Cost, c.EdgeBand, c.EdgeBandCost)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<h2>Ferragens</h2><table class="hardware"><thead>`)
		h.row("th", nil, "Ferragem", "Qtd", "Unid.", "Custo", "Origens")
		h.raw(`</thead><tbody>`)
		for _, hw := range data.Hardware {
			h.row("td", []string{"", "num", "", "num", "origins"}, hw.Name, hw.Quantity, hw.UOM, hw.Cost, hw.Origins)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<details class="pieces"><summary>Peças (`)
		h.text(itoa(len(data.Pieces)))
		h.raw(`)</summary><table><thead>`)
		h.row("th", nil, "Origem", "Peça", "Material", "Medidas (mm)", "Qtd", "Área (m²)", "Fita (m)")
		h.raw(`</thead><tbody>`)
		for _, p := range data.Pieces {
			h.row("td", []string{"", "", "", "", "num", "num", "num"}, p.Source, p.Label, p.Material, p.Size, p.Quantity, p.Area, p.EdgeBand)
		}
		h.raw(`</tbody></table></details>`)

		h.raw(`<dl class="totals">`)
		totals := [][2]string{
			{"Chapas", data.SheetCost},
			{"Fita de borda", data.EdgeBandCost},
			{"Ferragens", data.HardwareCost},
			{"Acabamento", data.FinishCost},
			{"Custo total", data.TotalCost},
			{"Preço de venda (taxas " + data.Fees + ")", data.SalePrice},
		}
		for _, t := range totals {
			h.cell("dt", "", t[0])
			h.cell("dd", "", t[1])
		}
		h.raw(`</dl></section>`)
		return h.err
	})
}

// BOMViewPage wraps BOMViewContent in a full HTML document.
func BOMViewPage(data BOMViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8"><title>`)
		h.text(data.Title)
		h.raw(`</title><link rel="stylesheet" href="/static/css/app.css"><script src="https://unpkg.com/htmx.org@2.0.4"></script></head><body><main>`)
		if h.err != nil {
			return h.err
		}
		if err := BOMViewContent(data).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
