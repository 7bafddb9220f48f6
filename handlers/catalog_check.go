package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"marcenaria/bom"
	"marcenaria/collections"
	"marcenaria/config"
)

// HandleCatalogDiagnostics runs the strict catalog checks over the stored
// catalog. The response is 200 even when errors are found; "ok" tells them
// apart.
func HandleCatalogDiagnostics(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, err := collections.LoadCatalog(app)
		if err != nil {
			config.LogError(config.Logger(), "handlers", "HandleCatalogDiagnostics", "load catalog", nil, err)
			return e.String(http.StatusInternalServerError, "Falha ao carregar o catálogo")
		}

		diags := file.Validate()
		if diags == nil {
			diags = []bom.Diagnostic{}
		}
		return e.JSON(http.StatusOK, map[string]any{
			"ok":          !bom.HasErrors(diags),
			"diagnostics": diags,
		})
	}
}
