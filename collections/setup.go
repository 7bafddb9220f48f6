package collections

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"marcenaria/config"
)

// Quote statuses. Only approved addenda take part in a quote's bill.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
)

// Setup programmatically creates/ensures the catalog collections (materials,
// hardware, finishes, templates, standards) and the projects and quotes
// collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "thickness"})
		c.Fields.Add(&core.NumberField{Name: "sheet_width", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sheet_height", Required: true})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})
		c.Fields.Add(&core.NumberField{Name: "waste_percent"})
		c.Fields.Add(&core.NumberField{Name: "edge_band_price"})
		c.AddIndex("idx_materials_code", true, "code", "")
	})

	ensureCollection(app, "hardware", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})
		c.Fields.Add(&core.TextField{Name: "uom"})
		c.Fields.Add(&core.TextField{Name: "category"})
		c.AddIndex("idx_hardware_code", true, "code", "")
	})

	ensureCollection(app, "finishes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price_per_m2"})
		c.AddIndex("idx_finishes_code", true, "code", "")
	})

	ensureCollection(app, "module_templates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "category"})
		c.Fields.Add(&core.JSONField{Name: "definition", Required: true})
		c.AddIndex("idx_module_templates_code", true, "code", "")
	})

	ensureCollection(app, "component_templates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "kind"})
		c.Fields.Add(&core.JSONField{Name: "definition", Required: true})
		c.AddIndex("idx_component_templates_code", true, "code", "")
	})

	ensureCollection(app, "hardware_standards", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "category", Required: true})
		c.Fields.Add(&core.TextField{Name: "hardware", Required: true})
		c.AddIndex("idx_hardware_standards_category", true, "category", "")
	})

	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	quotes := ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      false,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{StatusDraft, StatusApproved},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "environments"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	// The addendum link points back at quotes, so it can only be added once
	// the collection has an id.
	if quotes.Fields.GetByName("parent_quote") == nil {
		quotes.Fields.Add(&core.RelationField{
			Name:          "parent_quote",
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		if err := app.Save(quotes); err != nil {
			config.Logger().WithField("collection", "quotes").Fatalf("failed to add parent_quote: %v", err)
		}
	}
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	logger := config.Logger().WithField("collection", name)

	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logger.Debug("collection already exists, skipping creation")
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		logger.Fatalf("failed to create collection: %v", err)
	}

	logger.WithField("id", collection.Id).Info("created collection")
	return collection
}
