package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"marcenaria/config"
	"marcenaria/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

// HandleQuoteBOMExportExcel returns a handler that generates and downloads the
// bill of materials of a quote as an Excel workbook.
func HandleQuoteBOMExportExcel(app *pocketbase.PocketBase, fees []decimal.Decimal) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "ID do orçamento ausente")
		}

		q, err := computeQuoteBOM(app, quoteID, fees)
		if err != nil {
			return quoteBOMError(e, "HandleQuoteBOMExportExcel", quoteID, err)
		}

		data := q.exportData()
		xlsxBytes, err := services.GenerateBOMExcel(data)
		if err != nil {
			config.LogError(config.Logger(), "handlers", "HandleQuoteBOMExportExcel", "generate workbook", map[string]string{"quote": quoteID}, err)
			return e.String(http.StatusInternalServerError, "Falha ao gerar o arquivo Excel")
		}

		filename := fmt.Sprintf("Materiais_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}
