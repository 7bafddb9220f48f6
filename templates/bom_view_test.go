package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func sampleView() BOMViewData {
	return BOMViewData{
		QuoteID:     "q1",
		Title:       "Cozinha <Silva>",
		ProjectName: "Apartamento 302",
		CreatedDate: "15/10/2026",
		Addenda:     []string{"Aditivo 1"},
		ExportURL:   "/quotes/q1/bom/export/excel",
		Modules: []ModuleRowView{
			{Environment: "Cozinha", Label: "Balcão", Area: "2,66", Sheets: "1", Cost: "R$ 308,86", SalePrice: "R$ 363,36"},
		},
		Chapas:    []ChapaRowView{{Name: "MDF Branco 18mm", Sheets: "1", Cost: "R$ 289,90"}},
		Hardware:  []HardwareRowView{{Name: "Dobradiça 35mm", Quantity: "4", UOM: "un", Origins: "Cozinha › Balcão › door"}},
		Pieces:    []PieceRowView{{Source: "Cozinha › Balcão", Label: "Lateral", Size: "720 × 560"}},
		TotalCost: "R$ 308,86",
		Fees:      "15%",
		SalePrice: "R$ 363,36",
		Warnings:  []string{`finish "x" unknown`},
	}
}

func TestBOMViewContent(t *testing.T) {
	var buf bytes.Buffer
	if err := BOMViewContent(sampleView()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	body := buf.String()

	for _, frag := range []string{
		`<section id="bom"`,
		"Cozinha &lt;Silva&gt;",
		"Inclui aditivos: Aditivo 1",
		`href="/quotes/q1/bom/export/excel"`,
		`<td class="num">R$ 308,86</td>`,
		"Dobradiça 35mm",
		"Peças (1)",
		"finish &#34;x&#34; unknown",
		"Preço de venda (taxas 15%)",
	} {
		if !strings.Contains(body, frag) {
			t.Errorf("content missing %q", frag)
		}
	}
	if strings.Contains(body, "<html") {
		t.Error("content must not include the page shell")
	}
	if strings.Contains(body, "<Silva>") {
		t.Error("title was not escaped")
	}
}

func TestBOMViewContent_NoOptionalBlocks(t *testing.T) {
	var buf bytes.Buffer
	if err := BOMViewContent(BOMViewData{Title: "Vazio"}).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	body := buf.String()
	for _, frag := range []string{`class="warnings"`, `class="addenda"`, `class="btn"`} {
		if strings.Contains(body, frag) {
			t.Errorf("empty view should not render %q", frag)
		}
	}
	if !strings.Contains(body, "Peças (0)") {
		t.Error("piece counter missing")
	}
}

func TestBOMViewPage(t *testing.T) {
	var buf bytes.Buffer
	if err := BOMViewPage(sampleView()).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	body := buf.String()
	if !strings.HasPrefix(body, "<!DOCTYPE html>") {
		t.Errorf("page should start with doctype, got %q", body[:20])
	}
	if !strings.Contains(body, `<section id="bom"`) || !strings.HasSuffix(body, "</html>") {
		t.Error("page should wrap the content")
	}
}
