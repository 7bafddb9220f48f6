package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"marcenaria/collections"
	"marcenaria/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "Cozinha Souza", "Cozinha-Souza"},
		{"slashes to hyphens", "path/to/file", "path-to-file"},
		{"backslashes", "path\\to\\file", "path-to-file"},
		{"colons", "Aditivo 1: nicho", "Aditivo-1--nicho"},
		{"quotes dropped", `Sala "nova"`, "Sala-nova"},
		{"no special chars", "simple", "simple"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHandleQuoteBOMExportExcel_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := seededQuote(t, app)
	testhelpers.CreateTestQuote(t, app, "", quote.Id, "Aditivo 1", collections.StatusApproved, testhelpers.KitchenEnvironments())

	req := httptest.NewRequest(http.MethodGet, "/quotes/"+quote.Id+"/bom/export/excel", nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleQuoteBOMExportExcel(app, testFees)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	ct := rec.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type = %q", ct)
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

	title, _ := f.GetCellValue("Resumo", "A1")
	if title != "Cozinha Souza" {
		t.Errorf("title = %q", title)
	}
	addenda, _ := f.GetCellValue("Resumo", "A4")
	if addenda != "Inclui: Aditivo 1" {
		t.Errorf("addenda line = %q", addenda)
	}
}

func TestHandleQuoteBOMExportExcel_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleQuoteBOMExportExcel(app, testFees)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleQuoteBOMExportExcel_MissingID(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleQuoteBOMExportExcel(app, testFees)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
