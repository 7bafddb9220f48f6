package handlers

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"marcenaria/collections"
	"marcenaria/config"
	"marcenaria/templates"
)

// quoteBOMError maps a computeQuoteBOM failure to a response.
func quoteBOMError(e *core.RequestEvent, funcName, quoteID string, err error) error {
	config.LogError(config.Logger(), "handlers", funcName, "compute quote bom", map[string]string{"quote": quoteID}, err)

	status, message := http.StatusInternalServerError, "Falha ao calcular a lista de materiais"
	if errors.Is(err, collections.ErrNotFound) {
		status, message = http.StatusNotFound, "Orçamento não encontrado"
	}
	if e.Request.Header.Get("HX-Request") == "true" {
		return ErrorToast(e, status, message)
	}
	return e.String(status, message)
}

// HandleQuoteBOM returns the authoritative bill of materials of a quote and
// its approved addenda as JSON.
func HandleQuoteBOM(app *pocketbase.PocketBase, fees []decimal.Decimal) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "ID do orçamento ausente")
		}

		q, err := computeQuoteBOM(app, quoteID, fees)
		if err != nil {
			return quoteBOMError(e, "HandleQuoteBOM", quoteID, err)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"bom":        q.BOM,
			"sale_price": q.Pricing.SalePrice,
			"fees":       q.Pricing.Fees,
			"modules":    q.Pricing.Modules,
		})
	}
}

// HandleQuoteBOMView renders the bill of materials page, or only its content
// for HTMX requests.
func HandleQuoteBOMView(app *pocketbase.PocketBase, fees []decimal.Decimal) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "ID do orçamento ausente")
		}

		q, err := computeQuoteBOM(app, quoteID, fees)
		if err != nil {
			return quoteBOMError(e, "HandleQuoteBOMView", quoteID, err)
		}
		data := q.viewData()

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.BOMViewContent(data)
		} else {
			component = templates.BOMViewPage(data)
		}
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return component.Render(e.Request.Context(), e.Response)
	}
}
