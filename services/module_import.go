package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"marcenaria/bom"
)

// defaultEnvironment groups rows with an empty environment column.
const defaultEnvironment = "Geral"

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportRefs holds the catalog codes an import sheet may reference.
type ImportRefs struct {
	Modules   map[string]bool
	Materials map[string]bool
	Finishes  map[string]bool
}

// ModuleImportResult is returned after parsing and validating an uploaded
// module sheet. Environments holds only the rows without errors, grouped in
// order of first appearance.
type ModuleImportResult struct {
	FileName     string            `json:"file_name"`
	TotalRows    int               `json:"total_rows"`
	ValidRows    int               `json:"valid_rows"`
	ErrorRows    int               `json:"error_rows"`
	Errors       []ValidationError `json:"errors"`
	Environments []bom.Environment `json:"environments"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("não foi possível ler o CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("o arquivo precisa ter uma linha de cabeçalho e pelo menos uma linha de dados")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("não foi possível abrir o arquivo Excel: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("não foi possível ler a planilha: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("o arquivo precisa ter uma linha de cabeçalho e pelo menos uma linha de dados")
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		for _, alias := range f.Aliases {
			labelToKey[alias] = f.Key
		}
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// groupedThousands matches integers written with dot thousand separators
// ("1.200", "12.345.678").
var groupedThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseMeasure accepts plain decimals ("1200.5") and Brazilian notation
// ("1.200,5", "1.200"). A dot followed by exactly three digits and no comma
// is a thousands separator, so "1.200" is 1200 and never 1.2.
func ParseMeasure(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case groupedThousands.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// ParseModuleSheet parses an uploaded .csv or .xlsx module sheet and
// validates each row against the catalog codes in refs.
func ParseModuleSheet(file io.Reader, fileName string, refs ImportRefs) (*ModuleImportResult, error) {
	fields := ModuleImportFields()

	var (
		headers  []string
		dataRows [][]string
		err      error
	)
	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("formato de arquivo não suportado: use .csv ou .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToFields(headers, fields)
	present := make(map[string]bool, len(columnKeys))
	for _, key := range columnKeys {
		present[key] = true
	}
	var missing []string
	for _, f := range fields {
		if f.Required && !present[f.Key] {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("colunas obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}

	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	result := &ModuleImportResult{FileName: fileName}
	envIndex := make(map[string]int)

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string, len(columnKeys))
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[colIdx])
			rowData[key] = value
			if value != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		result.TotalRows++

		inst, rowErrors := moduleFromRow(rowNum, rowData, refs, keyToLabel)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}

		env := rowData["environment"]
		if env == "" {
			env = defaultEnvironment
		}
		i, ok := envIndex[env]
		if !ok {
			i = len(result.Environments)
			envIndex[env] = i
			result.Environments = append(result.Environments, bom.Environment{Name: env})
		}
		result.Environments[i].Modules = append(result.Environments[i].Modules, inst)
	}
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

// moduleFromRow builds one module instance and collects every problem with
// the row instead of stopping at the first.
func moduleFromRow(rowNum int, data map[string]string, refs ImportRefs, labels map[string]string) (bom.ModuleInstance, []ValidationError) {
	var errs []ValidationError
	fail := func(key, format string, args ...any) {
		errs = append(errs, ValidationError{Row: rowNum, Field: labels[key], Message: fmt.Sprintf(format, args...)})
	}

	inst := bom.ModuleInstance{
		TemplateID: data["module"],
		Label:      data["label"],
		Quantity:   1,
		FinishID:   data["finish"],
		Materials: bom.MaterialChoice{
			Interior: data["interior"],
			Exterior: data["exterior"],
			Back:     data["back"],
			Front:    data["front"],
		},
	}

	switch {
	case inst.TemplateID == "":
		fail("module", "Módulo é obrigatório")
	case !refs.Modules[inst.TemplateID]:
		fail("module", "nenhum módulo com o código %q", inst.TemplateID)
	}

	measures := []struct {
		key string
		dst *float64
	}{
		{"width", &inst.Width},
		{"height", &inst.Height},
		{"depth", &inst.Depth},
	}
	for _, m := range measures {
		raw := data[m.key]
		if raw == "" {
			fail(m.key, "%s é obrigatório", labels[m.key])
			continue
		}
		v, err := ParseMeasure(raw)
		if err != nil || v <= 0 {
			fail(m.key, "%s deve ser um número positivo em milímetros, recebido %q", labels[m.key], raw)
			continue
		}
		*m.dst = v
	}

	if raw := data["quantity"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail("quantity", "Quantidade deve ser um número inteiro maior ou igual a 1, recebido %q", raw)
		} else {
			inst.Quantity = n
		}
	}

	for _, key := range materialFieldKeys {
		code := data[key]
		switch {
		case code == "" && key == "interior":
			fail(key, "%s é obrigatório", labels[key])
		case code != "" && !refs.Materials[code]:
			fail(key, "nenhum material com o código %q", code)
		}
	}

	if inst.FinishID != "" && !refs.Finishes[inst.FinishID] {
		fail("finish", "nenhum acabamento com o código %q", inst.FinishID)
	}

	inst.DoorCount = optionalCount(data["doors"], func(raw string) { fail("doors", "Portas deve ser um número inteiro, recebido %q", raw) })
	inst.DrawerCount = optionalCount(data["drawers"], func(raw string) { fail("drawers", "Gavetas deve ser um número inteiro, recebido %q", raw) })

	return inst, errs
}

// optionalCount parses a non-negative count; empty means "template default".
func optionalCount(raw string, onError func(string)) *int {
	if raw == "" {
		return nil
	}
	v, err := ParseMeasure(raw)
	if err != nil || v < 0 || v != math.Trunc(v) {
		onError(raw)
		return nil
	}
	n := int(v)
	return &n
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Erros"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Linha")
	f.SetCellValue(sheet, "B1", "Coluna")
	f.SetCellValue(sheet, "C1", "Erro")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 60)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
