package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"marcenaria/bom"
	"marcenaria/catalog"
	"marcenaria/collections"
	"marcenaria/config"
	"marcenaria/services"
)

// importQuoteID is the source id of modules read from an uploaded sheet.
const importQuoteID = "importacao"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func importRefs(file *catalog.File) services.ImportRefs {
	refs := services.ImportRefs{
		Modules:   make(map[string]bool, len(file.Modules)),
		Materials: make(map[string]bool, len(file.Materials)),
		Finishes:  make(map[string]bool, len(file.Finishes)),
	}
	for _, m := range file.Modules {
		refs.Modules[m.ID] = true
	}
	for _, m := range file.Materials {
		refs.Materials[m.ID] = true
	}
	for _, f := range file.Finishes {
		refs.Finishes[f.ID] = true
	}
	return refs
}

// HandleModuleImportTemplate downloads an empty module sheet with drop-downs
// filled from the stored catalog.
// Route: GET /estimate/import/template
func HandleModuleImportTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, err := collections.LoadCatalog(app)
		if err != nil {
			config.LogError(config.Logger(), "handlers", "HandleModuleImportTemplate", "load catalog", nil, err)
			return e.String(http.StatusInternalServerError, "Falha ao carregar o catálogo")
		}

		var modules, materials, finishes []string
		for _, m := range file.Modules {
			modules = append(modules, m.ID)
		}
		for _, m := range file.Materials {
			materials = append(materials, m.ID)
		}
		for _, f := range file.Finishes {
			finishes = append(finishes, f.ID)
		}

		xlsxBytes, err := services.GenerateModuleImportTemplate(modules, materials, finishes)
		if err != nil {
			config.LogError(config.Logger(), "handlers", "HandleModuleImportTemplate", "generate", nil, err)
			return e.String(http.StatusInternalServerError, "Falha ao gerar o modelo")
		}

		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Modulos_Modelo.xlsx"`)
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}

// HandleModuleImport is the batch estimator: a .csv or .xlsx sheet of
// module rows is evaluated as one quote. Any invalid row fails the whole
// sheet with 422 and the per-row errors. With ?format=xlsx the bill is
// returned as the materials workbook instead of JSON.
// Route: POST /estimate/import
func HandleModuleImport(app *pocketbase.PocketBase, fees []decimal.Decimal) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Arquivo muito grande ou formulário inválido")
		}

		upload, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Selecione um arquivo para enviar")
		}
		defer upload.Close()

		file, err := collections.LoadCatalog(app)
		if err != nil {
			config.LogError(config.Logger(), "handlers", "HandleModuleImport", "load catalog", nil, err)
			return ErrorToast(e, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		}

		result, err := services.ParseModuleSheet(upload, header.Filename, importRefs(file))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}
		if result.ErrorRows > 0 {
			return e.JSON(http.StatusUnprocessableEntity, map[string]any{"result": result})
		}

		title := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
		bundle := collections.QuoteBundle{
			Quote: bom.Quote{
				ID:           importQuoteID,
				Title:        title,
				Environments: result.Environments,
			},
			Created: time.Now().Format("02/01/2006"),
		}
		q := evaluateQuote(bundle, file, fees, "HandleModuleImport")

		if e.Request.URL.Query().Get("format") == "xlsx" {
			xlsxBytes, err := services.GenerateBOMExcel(q.exportData())
			if err != nil {
				config.LogError(config.Logger(), "handlers", "HandleModuleImport", "generate workbook", header.Filename, err)
				return e.String(http.StatusInternalServerError, "Falha ao gerar o arquivo Excel")
			}
			filename := fmt.Sprintf("Materiais_%s_%d.xlsx", sanitizeFilename(title), time.Now().Year())
			e.Response.Header().Set("Content-Type", xlsxContentType)
			e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
			_, err = e.Response.Write(xlsxBytes)
			return err
		}

		return e.JSON(http.StatusOK, map[string]any{
			"result":     result,
			"bom":        q.BOM,
			"sale_price": q.Pricing.SalePrice,
			"fees":       q.Pricing.Fees,
			"modules":    q.Pricing.Modules,
		})
	}
}

// HandleModuleImportErrorReport downloads posted validation errors as an
// Excel file.
// Route: POST /estimate/import/errors
func HandleModuleImportErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var errs []services.ValidationError
		if err := json.NewDecoder(e.Request.Body).Decode(&errs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados de erro inválidos")
		}

		xlsxBytes, err := services.GenerateErrorReport(errs)
		if err != nil {
			config.LogError(config.Logger(), "handlers", "HandleModuleImportErrorReport", "generate", len(errs), err)
			return ErrorToast(e, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		}

		filename := fmt.Sprintf("Modulos_Erros_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}
