package collections

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"marcenaria/bom"
	"marcenaria/catalog"
)

// ErrNotFound is returned when a quote id does not resolve.
var ErrNotFound = errors.New("not found")

// LoadCatalog reads every catalog collection into a catalog file, ordered by
// code. The record code is the id the engine sees.
func LoadCatalog(app *pocketbase.PocketBase) (*catalog.File, error) {
	f := &catalog.File{Standards: map[string]string{}}

	materials, err := findAllByCode(app, "materials")
	if err != nil {
		return nil, err
	}
	for _, r := range materials {
		f.Materials = append(f.Materials, bom.Material{
			ID:            r.GetString("code"),
			Name:          r.GetString("name"),
			Thickness:     r.GetFloat("thickness"),
			SheetWidth:    r.GetFloat("sheet_width"),
			SheetHeight:   r.GetFloat("sheet_height"),
			UnitPrice:     decimal.NewFromFloat(r.GetFloat("unit_price")),
			WastePercent:  r.GetFloat("waste_percent"),
			EdgeBandPrice: decimal.NewFromFloat(r.GetFloat("edge_band_price")),
		})
	}

	hardware, err := findAllByCode(app, "hardware")
	if err != nil {
		return nil, err
	}
	for _, r := range hardware {
		f.Hardware = append(f.Hardware, bom.Hardware{
			ID:        r.GetString("code"),
			Name:      r.GetString("name"),
			UnitPrice: decimal.NewFromFloat(r.GetFloat("unit_price")),
			UOM:       r.GetString("uom"),
			Category:  r.GetString("category"),
		})
	}

	finishes, err := findAllByCode(app, "finishes")
	if err != nil {
		return nil, err
	}
	for _, r := range finishes {
		f.Finishes = append(f.Finishes, bom.Finish{
			ID:         r.GetString("code"),
			Name:       r.GetString("name"),
			PricePerM2: decimal.NewFromFloat(r.GetFloat("price_per_m2")),
		})
	}

	modules, err := findAllByCode(app, "module_templates")
	if err != nil {
		return nil, err
	}
	for _, r := range modules {
		var m bom.ModuleTemplate
		if err := unmarshalJSONField(r, "definition", &m); err != nil {
			return nil, fmt.Errorf("module template %q: %w", r.GetString("code"), err)
		}
		m.ID = r.GetString("code")
		m.Name = r.GetString("name")
		m.Category = r.GetString("category")
		f.Modules = append(f.Modules, m)
	}

	components, err := findAllByCode(app, "component_templates")
	if err != nil {
		return nil, err
	}
	for _, r := range components {
		var c bom.ComponentTemplate
		if err := unmarshalJSONField(r, "definition", &c); err != nil {
			return nil, fmt.Errorf("component template %q: %w", r.GetString("code"), err)
		}
		c.ID = r.GetString("code")
		c.Name = r.GetString("name")
		c.Kind = r.GetString("kind")
		f.Components = append(f.Components, c)
	}

	standardsCol, err := app.FindCollectionByNameOrId("hardware_standards")
	if err != nil {
		return nil, fmt.Errorf("could not find hardware_standards collection: %w", err)
	}
	standards, err := app.FindAllRecords(standardsCol)
	if err != nil {
		return nil, fmt.Errorf("could not query hardware_standards: %w", err)
	}
	for _, r := range standards {
		f.Standards[r.GetString("category")] = r.GetString("hardware")
	}

	return f, nil
}

func findAllByCode(app *pocketbase.PocketBase, name string) ([]*core.Record, error) {
	col, err := app.FindCollectionByNameOrId(name)
	if err != nil {
		return nil, fmt.Errorf("could not find %s collection: %w", name, err)
	}
	records, err := app.FindRecordsByFilter(col, "code != ''", "code", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("could not query %s: %w", name, err)
	}
	return records, nil
}

// QuoteBundle is a quote record with its approved addenda, ready for the
// engine.
type QuoteBundle struct {
	Quote       bom.Quote
	Addenda     []bom.Quote
	ProjectName string
	Created     string
}

// LoadQuote reads a quote and the approved addenda that point at it, oldest
// first. Draft addenda are left out of the bill.
func LoadQuote(app *pocketbase.PocketBase, id string) (QuoteBundle, error) {
	record, err := app.FindRecordById("quotes", id)
	if err != nil {
		return QuoteBundle{}, fmt.Errorf("quote %s: %w", id, ErrNotFound)
	}

	quote, err := QuoteFromRecord(record)
	if err != nil {
		return QuoteBundle{}, err
	}
	bundle := QuoteBundle{Quote: quote, Created: "—"}
	if dt := record.GetDateTime("created"); !dt.IsZero() {
		bundle.Created = dt.Time().Format("02/01/2006")
	}

	if projectID := record.GetString("project"); projectID != "" {
		if project, err := app.FindRecordById("projects", projectID); err == nil {
			bundle.ProjectName = project.GetString("name")
		}
	}

	addenda, err := app.FindRecordsByFilter(
		"quotes",
		"parent_quote = {:id} && status = {:status}",
		"created",
		0,
		0,
		map[string]any{"id": id, "status": StatusApproved},
	)
	if err != nil {
		return QuoteBundle{}, fmt.Errorf("could not query addenda of %s: %w", id, err)
	}
	for _, r := range addenda {
		a, err := QuoteFromRecord(r)
		if err != nil {
			return QuoteBundle{}, err
		}
		bundle.Addenda = append(bundle.Addenda, a)
	}
	return bundle, nil
}

// QuoteFromRecord converts a quotes record to the engine's quote.
func QuoteFromRecord(r *core.Record) (bom.Quote, error) {
	q := bom.Quote{
		ID:       r.Id,
		ParentID: r.GetString("parent_quote"),
		Title:    r.GetString("title"),
	}
	if err := unmarshalJSONField(r, "environments", &q.Environments); err != nil {
		return bom.Quote{}, fmt.Errorf("quote %s environments: %w", r.Id, err)
	}
	return q, nil
}

// unmarshalJSONField treats an unset field as empty instead of a decode error.
func unmarshalJSONField(r *core.Record, key string, dst any) error {
	raw := strings.TrimSpace(r.GetString(key))
	if raw == "" || raw == "null" {
		return nil
	}
	return r.UnmarshalJSONField(key, dst)
}
