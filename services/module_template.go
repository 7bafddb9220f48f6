package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateModuleImportTemplate creates a downloadable .xlsx sheet for the
// batch estimator. Module and material columns get drop-down lists backed by
// a hidden sheet with the catalog codes.
func GenerateModuleImportTemplate(modules, materials, finishes []string) ([]byte, error) {
	fields := ModuleImportFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Módulos"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := columns[i] + "1"
		if field.Required {
			f.SetCellValue(sheetName, cell, field.Label+" *")
			f.SetCellStyle(sheetName, cell, cell, requiredHeaderStyle)
		} else {
			f.SetCellValue(sheetName, cell, field.Label)
			f.SetCellStyle(sheetName, cell, cell, optionalHeaderStyle)
		}

		width := float64(len(field.Label)) * 1.3
		if width < 15 {
			width = 15
		}
		f.SetColWidth(sheetName, columns[i], columns[i], width)
	}

	lists := addListsSheet(f, map[string][]string{
		"module":   modules,
		"material": materials,
		"finish":   finishes,
	})
	for i, field := range fields {
		list := field.Key
		if isMaterialField(field.Key) {
			list = "material"
		}
		ref, ok := lists[list]
		if !ok {
			continue
		}
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])
		dv.SetSqrefDropList(ref)
		f.AddDataValidation(sheetName, dv)
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addListsSheet writes each non-empty code list into its own column of a
// hidden sheet and returns the range reference per list name.
func addListsSheet(f *excelize.File, lists map[string][]string) map[string]string {
	sheet := "Listas"
	f.NewSheet(sheet)

	refs := make(map[string]string, len(lists))
	col := 0
	for _, name := range []string{"module", "material", "finish"} {
		codes := lists[name]
		if len(codes) == 0 {
			continue
		}
		col++
		letter, _ := excelize.ColumnNumberToName(col)
		f.SetCellValue(sheet, letter+"1", name)
		for i, code := range codes {
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", letter, i+2), code)
		}
		refs[name] = fmt.Sprintf("%s!$%s$2:$%s$%d", sheet, letter, letter, len(codes)+1)
	}

	f.SetSheetVisible(sheet, false)
	return refs
}

// addInstructionsSheet creates a hidden sheet with field descriptions.
func addInstructionsSheet(f *excelize.File, fields []TemplateField) {
	instSheet := "Instruções"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Importação de módulos - Instruções")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(4)
	for i, h := range []string{"Coluna", "Obrigatória?", "Descrição", "Exemplo"} {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range fields {
		row := fmt.Sprintf("%d", i+4)
		reqLabel := "Não"
		if field.Required {
			reqLabel = "Sim"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, reqLabel)
		f.SetCellValue(instSheet, cols[2]+row, field.Description)
		f.SetCellValue(instSheet, cols[3]+row, field.ExampleValue)
	}

	for i, w := range []float64{20, 14, 50, 20} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}

func isMaterialField(key string) bool {
	for _, k := range materialFieldKeys {
		if k == key {
			return true
		}
	}
	return false
}
