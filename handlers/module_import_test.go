package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"marcenaria/bom"
	"marcenaria/testhelpers"
)

const kitchenSheet = "Ambiente,Módulo,Descrição,Largura,Altura,Profundidade,Material interno,Fundo,Frente\n" +
	"Cozinha,balcao-cozinha,Balcão pia,1200,720,560,mdf-branco-18,mdf-branco-6,mdf-grafite-18\n" +
	"Cozinha,gaveteiro,Gaveteiro,500,720,560,mdf-branco-18,mdf-branco-6,mdf-grafite-18\n"

func uploadModuleSheet(t *testing.T, app *pocketbase.PocketBase, target, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(content))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleModuleImport(app, testFees)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestHandleModuleImport_JSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.SeedTestCatalog(t, app)

	rec := uploadModuleSheet(t, app, "/estimate/import", "Cozinha Souza.csv", kitchenSheet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		BOM       bom.BillOfMaterials `json:"bom"`
		SalePrice decimal.Decimal     `json:"sale_price"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(resp.BOM.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(resp.BOM.Modules))
	}
	for _, m := range resp.BOM.Modules {
		if m.Source != importQuoteID || m.Environment != "Cozinha" {
			t.Errorf("unexpected module summary: %+v", m)
		}
	}
	if !resp.BOM.TotalCost.IsPositive() {
		t.Errorf("total cost = %s", resp.BOM.TotalCost)
	}
	want := resp.BOM.TotalCost.Div(decimal.RequireFromString("0.85")).Round(2)
	if !resp.SalePrice.Equal(want) {
		t.Errorf("sale price = %s, want %s", resp.SalePrice, want)
	}
}

func TestHandleModuleImport_Excel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.SeedTestCatalog(t, app)

	rec := uploadModuleSheet(t, app, "/estimate/import?format=xlsx", "Cozinha Souza.csv", kitchenSheet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="Materiais_Cozinha-Souza_`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("body is not a workbook: %v", err)
	}
	defer f.Close()
	if title, _ := f.GetCellValue("Resumo", "A1"); title != "Cozinha Souza" {
		t.Errorf("title = %q", title)
	}
}

func TestHandleModuleImport_InvalidRows(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.SeedTestCatalog(t, app)

	sheet := kitchenSheet + "Sala,estante,Estante,800,2000,350,mdf-branco-18,,\n"
	rec := uploadModuleSheet(t, app, "/estimate/import", "sala.csv", sheet)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result struct {
			ErrorRows int `json:"error_rows"`
			Errors    []struct {
				Row   int    `json:"row"`
				Field string `json:"field"`
			} `json:"errors"`
		} `json:"result"`
		BOM *bom.BillOfMaterials `json:"bom"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.Result.ErrorRows != 1 || len(resp.Result.Errors) != 1 {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
	if e := resp.Result.Errors[0]; e.Row != 4 || e.Field != "Módulo" {
		t.Errorf("unexpected error: %+v", e)
	}
	if resp.BOM != nil {
		t.Error("no bill should be computed when rows are invalid")
	}
}

func TestHandleModuleImport_BadFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.SeedTestCatalog(t, app)

	tests := []struct {
		name     string
		fileName string
		content  string
	}{
		{"wrong extension", "modulos.txt", kitchenSheet},
		{"missing columns", "modulos.csv", "Módulo,Largura\nnicho,600\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := uploadModuleSheet(t, app, "/estimate/import", tt.fileName, tt.content)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap: none on error")
			}
		})
	}
}

func TestHandleModuleImportTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.SeedTestCatalog(t, app)

	req := httptest.NewRequest(http.MethodGet, "/estimate/import/template", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleModuleImportTemplate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("body is not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Listas")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	found := false
	for _, row := range rows {
		if len(row) > 0 && row[0] == "balcao-cozinha" {
			found = true
		}
	}
	if !found {
		t.Error("module list should include the stored balcao-cozinha template")
	}
}

func TestHandleModuleImportErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := `[{"row": 4, "field": "Módulo", "message": "nenhum módulo com o código \"estante\""}]`
	req := httptest.NewRequest(http.MethodPost, "/estimate/import/errors", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleModuleImportErrorReport()(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "Modulos_Erros_") {
		t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a valid xlsx: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Erros", "A2"); got != "4" {
		t.Errorf("A2 = %q, want 4", got)
	}

	bad := httptest.NewRequest(http.MethodPost, "/estimate/import/errors", strings.NewReader("not json"))
	badRec := httptest.NewRecorder()
	if err := HandleModuleImportErrorReport()(newTestRequestEvent(app, bad, badRec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if badRec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", badRec.Code)
	}
}
