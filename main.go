package main

import (
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"marcenaria/catalog"
	"marcenaria/collections"
	"marcenaria/config"
	"marcenaria/handlers"
)

func main() {
	logger := config.Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	app := pocketbase.New()
	app.RootCmd.AddCommand(newCatalogCheckCmd(app, cfg))

	// Create collections and seed the catalog on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)

		file, err := sourceCatalog(cfg)
		if err != nil {
			config.LogError(logger, "main", "OnServe", "load seed catalog", cfg.CatalogPath, err)
			return se.Next()
		}
		if err := collections.Seed(app, file); err != nil {
			config.LogError(logger, "main", "OnServe", "seed", nil, err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// ── Quote bill of materials ──────────────────────────────
		se.Router.GET("/quotes/{id}/bom/export/excel", handlers.HandleQuoteBOMExportExcel(app, cfg.Fees))
		se.Router.GET("/quotes/{id}/bom/view", handlers.HandleQuoteBOMView(app, cfg.Fees))
		se.Router.GET("/quotes/{id}/bom", handlers.HandleQuoteBOM(app, cfg.Fees))

		// ── Quick estimator ──────────────────────────────────────
		se.Router.POST("/estimate", handlers.HandleEstimate(app, cfg.Fees))
		se.Router.GET("/estimate/import/template", handlers.HandleModuleImportTemplate(app))
		se.Router.POST("/estimate/import", handlers.HandleModuleImport(app, cfg.Fees))
		se.Router.POST("/estimate/import/errors", handlers.HandleModuleImportErrorReport())

		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/catalog/diagnostics", handlers.HandleCatalogDiagnostics(app))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.String(http.StatusOK, "marcenaria")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal(err)
	}
}

// sourceCatalog is the catalog used for seeding and file checks: the
// configured file when set, else the embedded default.
func sourceCatalog(cfg config.Config) (*catalog.File, error) {
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default()
}
