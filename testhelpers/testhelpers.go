// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"marcenaria/bom"
	"marcenaria/catalog"
	"marcenaria/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// SeedTestCatalog stores the embedded default catalog and returns it.
func SeedTestCatalog(t *testing.T, app *pocketbase.PocketBase) *catalog.File {
	t.Helper()

	f, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load default catalog: %v", err)
	}
	if err := collections.SaveCatalog(app, f); err != nil {
		t.Fatalf("failed to save test catalog: %v", err)
	}
	return f
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("client_name", "Cliente Teste")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestQuote creates a quote record. A non-empty parentID makes it an
// addendum of that quote.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, projectID, parentID, title, status string, envs []bom.Environment) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("title", title)
	record.Set("status", status)
	record.Set("environments", envs)
	if parentID != "" {
		record.Set("parent_quote", parentID)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// KitchenEnvironments is a one-module kitchen using codes from the default
// catalog.
func KitchenEnvironments() []bom.Environment {
	return []bom.Environment{{
		Name: "Cozinha",
		Modules: []bom.ModuleInstance{{
			TemplateID: "balcao-cozinha",
			Label:      "Balcão pia",
			Width:      1200,
			Height:     720,
			Depth:      560,
			Quantity:   1,
			Materials:  bom.MaterialChoice{Interior: "mdf-branco-18", Back: "mdf-branco-6", Front: "mdf-grafite-18"},
		}},
	}}
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
