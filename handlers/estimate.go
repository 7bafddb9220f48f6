package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"marcenaria/bom"
	"marcenaria/collections"
	"marcenaria/config"
	"marcenaria/services"
)

var validate = validator.New()

// estimateShape is what an estimate needs before the engine runs.
type estimateShape struct {
	Module string  `validate:"required"`
	Width  float64 `validate:"gt=0"`
	Height float64 `validate:"gt=0"`
	Depth  float64 `validate:"gt=0"`
}

type estimateResponse struct {
	Result    bom.ModuleResult `json:"result"`
	Cost      decimal.Decimal  `json:"cost"`
	SalePrice decimal.Decimal  `json:"sale_price"`
}

// HandleEstimate is the quick estimator: one module instance in, its pieces,
// sheets, hardware and price out. It runs the same engine as the quote bill.
func HandleEstimate(app *pocketbase.PocketBase, fees []decimal.Decimal) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var inst bom.ModuleInstance
		if err := json.NewDecoder(e.Request.Body).Decode(&inst); err != nil {
			return e.String(http.StatusBadRequest, "JSON do módulo inválido")
		}
		shape := estimateShape{Module: inst.TemplateID, Width: inst.Width, Height: inst.Height, Depth: inst.Depth}
		if err := validate.Struct(shape); err != nil {
			return e.String(http.StatusBadRequest, "O módulo precisa de um modelo e medidas positivas")
		}

		file, err := collections.LoadCatalog(app)
		if err != nil {
			config.LogError(config.Logger(), "handlers", "HandleEstimate", "load catalog", nil, err)
			return e.String(http.StatusInternalServerError, "Falha ao carregar o catálogo")
		}
		if _, ok := file.Catalog().Modules[inst.TemplateID]; !ok {
			return e.String(http.StatusNotFound, "Modelo de módulo não encontrado")
		}

		result := bom.EvaluateModule(inst, file.Catalog(), file.PriceBook(), file.HardwareStandards())
		config.LogWarnings(config.Logger(), "handlers", "HandleEstimate", result.Warnings)

		price := services.PriceModule(result.Summary, fees)
		return e.JSON(http.StatusOK, estimateResponse{
			Result:    result,
			Cost:      price.Cost,
			SalePrice: price.SalePrice,
		})
	}
}
