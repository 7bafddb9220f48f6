package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Resumo"
	sheetPieces   = "Peças"
	sheetChapas   = "Chapas"
	sheetHardware = "Ferragens"
)

type sheetStyles struct {
	title, subtitle, header, row, label, value int
}

// table is one tabular block of a sheet.
type table struct {
	sheet   string
	headers []string
	widths  []float64
}

// GenerateBOMExcel creates a workbook for a quote's bill of materials with a
// summary sheet followed by the cut list, sheet purchases and hardware.
func GenerateBOMExcel(data BOMExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName(f.GetSheetName(0), sheetSummary); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	for _, name := range []string{sheetPieces, sheetChapas, sheetHardware} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	if err := writeSummarySheet(f, st, data); err != nil {
		return nil, err
	}
	if err := writePiecesSheet(f, st, data); err != nil {
		return nil, err
	}
	if err := writeChapasSheet(f, st, data); err != nil {
		return nil, err
	}
	if err := writeHardwareSheet(f, st, data); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, st sheetStyles, data BOMExportData) error {
	t := table{
		sheet:   sheetSummary,
		headers: []string{"Ambiente", "Módulo", "Área (m²)", "Fita (m)", "Chapas*", "Ferragens", "Custo", "Preço de venda"},
		widths:  []float64{18, 34, 12, 12, 10, 12, 16, 18},
	}
	lastCol, _ := excelize.ColumnNumberToName(len(t.headers))

	title := data.Title
	if title == "" {
		title = "Lista de materiais"
	}
	if err := f.MergeCell(t.sheet, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(t.sheet, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(t.sheet, "A1", lastCol+"1", st.title)

	subtitles := []string{"Data: " + data.CreatedDate}
	if data.ProjectName != "" {
		subtitles = append([]string{"Projeto: " + data.ProjectName}, subtitles...)
	}
	if len(data.Sources) > 1 {
		subtitles = append(subtitles, "Inclui: "+strings.Join(data.Sources[1:], ", "))
	}
	for i, s := range subtitles {
		cell := fmt.Sprintf("A%d", i+2)
		f.SetCellValue(t.sheet, cell, sanitizeExcelCell(s))
		f.SetCellStyle(t.sheet, cell, cell, st.subtitle)
	}

	rows := make([][]any, 0, len(data.Pricing.Modules))
	for _, m := range data.Pricing.Modules {
		s := m.Summary
		rows = append(rows, []any{
			sanitizeExcelCell(s.Environment),
			sanitizeExcelCell(s.Label),
			round(s.Area, 3),
			round(s.EdgeBand, 2),
			s.Sheets,
			s.HardwareCount,
			FormatBRL(m.Cost),
			FormatBRL(m.SalePrice),
		})
	}
	row, err := writeTable(f, st, t, len(subtitles)+3, rows)
	if err != nil {
		return err
	}

	b := data.BOM
	totals := []struct {
		label string
		value string
	}{
		{"Chapas:", FormatBRL(b.SheetCost)},
		{"Fita de borda:", FormatBRL(b.EdgeBandCost)},
		{"Ferragens:", FormatBRL(b.HardwareCost)},
		{"Acabamento:", FormatBRL(b.FinishCost)},
		{"Custo total:", FormatBRL(b.TotalCost)},
		{fmt.Sprintf("Preço de venda (taxas %s%%):", SumFees(data.Pricing.Fees).String()), FormatBRL(data.Pricing.SalePrice)},
	}
	row++
	for _, tot := range totals {
		label := fmt.Sprintf("F%d", row)
		value := fmt.Sprintf("G%d", row)
		f.SetCellValue(t.sheet, label, tot.label)
		f.SetCellStyle(t.sheet, label, label, st.label)
		f.SetCellValue(t.sheet, value, tot.value)
		f.SetCellStyle(t.sheet, value, value, st.value)
		row++
	}

	row++
	note := fmt.Sprintf("A%d", row)
	f.SetCellValue(t.sheet, note, "* Chapas por módulo isolado; a compra consolidada está na aba Chapas.")
	f.SetCellStyle(t.sheet, note, note, st.subtitle)

	if len(b.Warnings) > 0 {
		row += 2
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(t.sheet, cell, "Avisos")
		f.SetCellStyle(t.sheet, cell, cell, st.label)
		for _, w := range b.Warnings {
			row++
			f.SetCellValue(t.sheet, fmt.Sprintf("A%d", row), sanitizeExcelCell(w))
		}
	}
	return nil
}

func writePiecesSheet(f *excelize.File, st sheetStyles, data BOMExportData) error {
	t := table{
		sheet:   sheetPieces,
		headers: []string{"Origem", "Peça", "Material", "Largura (mm)", "Altura (mm)", "Qtd", "Área (m²)", "Fita (m)", "Acabamento"},
		widths:  []float64{30, 34, 24, 12, 12, 8, 12, 10, 14},
	}
	rows := make([][]any, 0, len(data.BOM.Pieces))
	for _, p := range data.BOM.Pieces {
		rows = append(rows, []any{
			sanitizeExcelCell(p.Source),
			sanitizeExcelCell(p.Label),
			sanitizeExcelCell(data.materialName(p.MaterialID)),
			round(p.Width, 1),
			round(p.Height, 1),
			p.Quantity,
			round(p.Area, 3),
			round(p.EdgeBand, 2),
			FormatBRL(p.FinishCost),
		})
	}
	_, err := writeTable(f, st, t, 1, rows)
	return err
}

func writeChapasSheet(f *excelize.File, st sheetStyles, data BOMExportData) error {
	t := table{
		sheet:   sheetChapas,
		headers: []string{"Material", "Área (m²)", "Área útil por chapa (m²)", "Chapas", "Preço unitário", "Custo", "Fita (m)", "Custo da fita"},
		widths:  []float64{28, 12, 22, 10, 16, 16, 10, 16},
	}
	rows := make([][]any, 0, len(data.BOM.Chapas))
	for _, c := range data.BOM.Chapas {
		rows = append(rows, []any{
			sanitizeExcelCell(c.Name),
			round(c.Area, 3),
			round(c.UsableArea, 3),
			c.Sheets,
			FormatBRL(c.UnitPrice),
			FormatBRL(c.Cost),
			round(c.EdgeBand, 2),
			FormatBRL(c.EdgeBandCost),
		})
	}
	_, err := writeTable(f, st, t, 1, rows)
	return err
}

func writeHardwareSheet(f *excelize.File, st sheetStyles, data BOMExportData) error {
	t := table{
		sheet:   sheetHardware,
		headers: []string{"Ferragem", "Qtd", "Unid.", "Preço unitário", "Custo", "Origens"},
		widths:  []float64{34, 8, 8, 16, 16, 60},
	}
	rows := make([][]any, 0, len(data.BOM.Hardware))
	for _, h := range data.BOM.Hardware {
		rows = append(rows, []any{
			sanitizeExcelCell(h.Name),
			h.Quantity,
			sanitizeExcelCell(h.UOM),
			FormatBRL(h.UnitPrice),
			FormatBRL(h.Cost),
			sanitizeExcelCell(strings.Join(h.Origins, "; ")),
		})
	}
	_, err := writeTable(f, st, t, 1, rows)
	return err
}

// writeTable writes a header row at startRow followed by rows and returns
// the first row after the table.
func writeTable(f *excelize.File, st sheetStyles, t table, startRow int, rows [][]any) (int, error) {
	lastCol, err := excelize.ColumnNumberToName(len(t.headers))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", t.sheet, err)
	}
	for i, w := range t.widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(t.sheet, col, col, w); err != nil {
			return 0, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	for i, h := range t.headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, startRow)
		f.SetCellValue(t.sheet, cell, h)
	}
	f.SetCellStyle(t.sheet, fmt.Sprintf("A%d", startRow), fmt.Sprintf("%s%d", lastCol, startRow), st.header)

	row := startRow + 1
	for _, values := range rows {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(t.sheet, cell, v)
		}
		f.SetCellStyle(t.sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), st.row)
		row++
	}
	return row, nil
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var st sheetStyles
	defs := []struct {
		name  string
		dst   *int
		style *excelize.Style
	}{
		{"title", &st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{"subtitle", &st.subtitle, &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{"header", &st.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorders(),
		}},
		{"row", &st.row, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{"label", &st.label, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{"value", &st.value, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.dst = id
	}
	return st, nil
}

func round(v float64, places int32) float64 {
	r, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return r
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
