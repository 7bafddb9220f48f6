package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"marcenaria/bom"
	"marcenaria/catalog"
	"marcenaria/config"
)

// Seed stores the catalog and a sample project with a kitchen quote and one
// approved addendum. It is safe to call on every startup because it returns
// early if any material records already exist.
func Seed(app *pocketbase.PocketBase, f *catalog.File) error {
	materialsCol, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: could not find materials collection: %w", err)
	}
	existing, err := app.FindAllRecords(materialsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query materials: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	logger := config.Logger().WithField("module", "seed")
	logger.Info("materials collection is empty, inserting catalog and sample quote")

	if err := SaveCatalog(app, f); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("seed: could not find quotes collection: %w", err)
	}

	project := core.NewRecord(projectsCol)
	project.Set("name", "Apartamento 302")
	project.Set("client_name", "Família Souza")
	if err := app.Save(project); err != nil {
		return fmt.Errorf("seed: could not save project: %w", err)
	}

	quote := core.NewRecord(quotesCol)
	quote.Set("project", project.Id)
	quote.Set("title", "Cozinha e quarto")
	quote.Set("status", StatusApproved)
	quote.Set("environments", sampleEnvironments())
	if err := app.Save(quote); err != nil {
		return fmt.Errorf("seed: could not save quote: %w", err)
	}

	addendum := core.NewRecord(quotesCol)
	addendum.Set("project", project.Id)
	addendum.Set("parent_quote", quote.Id)
	addendum.Set("title", "Aditivo 1: nicho da sala")
	addendum.Set("status", StatusApproved)
	addendum.Set("environments", []bom.Environment{{
		Name: "Sala",
		Modules: []bom.ModuleInstance{{
			TemplateID: "nicho",
			Width:      800,
			Height:     400,
			Depth:      300,
			Quantity:   2,
			Materials:  bom.MaterialChoice{Interior: "mdf-freijo-18", Back: "mdf-branco-6"},
		}},
	}})
	if err := app.Save(addendum); err != nil {
		return fmt.Errorf("seed: could not save addendum: %w", err)
	}

	logger.WithFields(logrus.Fields{"project": project.Id, "quote": quote.Id}).Info("seed data inserted")
	return nil
}

// SaveCatalog writes every entity of f as a new record.
func SaveCatalog(app *pocketbase.PocketBase, f *catalog.File) error {
	cols := map[string]*core.Collection{}
	for _, name := range []string{"materials", "hardware", "finishes", "module_templates", "component_templates", "hardware_standards"} {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return fmt.Errorf("could not find %s collection: %w", name, err)
		}
		cols[name] = col
	}

	save := func(r *core.Record, what string) error {
		if err := app.Save(r); err != nil {
			return fmt.Errorf("could not save %s %q: %w", r.Collection().Name, what, err)
		}
		return nil
	}

	for _, m := range f.Materials {
		r := core.NewRecord(cols["materials"])
		r.Set("code", m.ID)
		r.Set("name", m.Name)
		r.Set("thickness", m.Thickness)
		r.Set("sheet_width", m.SheetWidth)
		r.Set("sheet_height", m.SheetHeight)
		r.Set("unit_price", m.UnitPrice.InexactFloat64())
		r.Set("waste_percent", m.WastePercent)
		r.Set("edge_band_price", m.EdgeBandPrice.InexactFloat64())
		if err := save(r, m.ID); err != nil {
			return err
		}
	}

	for _, h := range f.Hardware {
		r := core.NewRecord(cols["hardware"])
		r.Set("code", h.ID)
		r.Set("name", h.Name)
		r.Set("unit_price", h.UnitPrice.InexactFloat64())
		r.Set("uom", h.UOM)
		r.Set("category", h.Category)
		if err := save(r, h.ID); err != nil {
			return err
		}
	}

	for _, x := range f.Finishes {
		r := core.NewRecord(cols["finishes"])
		r.Set("code", x.ID)
		r.Set("name", x.Name)
		r.Set("price_per_m2", x.PricePerM2.InexactFloat64())
		if err := save(r, x.ID); err != nil {
			return err
		}
	}

	for _, m := range f.Modules {
		r := core.NewRecord(cols["module_templates"])
		r.Set("code", m.ID)
		r.Set("name", m.Name)
		r.Set("category", m.Category)
		r.Set("definition", m)
		if err := save(r, m.ID); err != nil {
			return err
		}
	}

	for _, c := range f.Components {
		r := core.NewRecord(cols["component_templates"])
		r.Set("code", c.ID)
		r.Set("name", c.Name)
		r.Set("kind", c.Kind)
		r.Set("definition", c)
		if err := save(r, c.ID); err != nil {
			return err
		}
	}

	for category, hardwareID := range f.Standards {
		r := core.NewRecord(cols["hardware_standards"])
		r.Set("category", category)
		r.Set("hardware", hardwareID)
		if err := save(r, category); err != nil {
			return err
		}
	}

	return nil
}

func sampleEnvironments() []bom.Environment {
	two := 2
	return []bom.Environment{
		{
			Name: "Cozinha",
			Modules: []bom.ModuleInstance{
				{
					TemplateID: "balcao-cozinha",
					Label:      "Balcão pia",
					Width:      1200,
					Height:     720,
					Depth:      560,
					Quantity:   1,
					Materials:  bom.MaterialChoice{Interior: "mdf-branco-18", Back: "mdf-branco-6", Front: "mdf-grafite-18"},
					Faces:      []string{"left"},
					FinishID:   "laca-fosca",
					DoorCount:  &two,
					SubItems:   map[string]int{"prateleira": 1, "suporte": 1, "pes": 1},
				},
				{
					TemplateID: "aereo-cozinha",
					Width:      1200,
					Height:     700,
					Depth:      350,
					Quantity:   1,
					Materials:  bom.MaterialChoice{Interior: "mdf-branco-15", Back: "mdf-branco-6", Front: "mdf-grafite-18"},
					SubItems:   map[string]int{"prateleira": 1, "suporte": 1},
				},
				{
					TemplateID: "gaveteiro",
					Width:      500,
					Height:     720,
					Depth:      560,
					Quantity:   1,
					Materials:  bom.MaterialChoice{Interior: "mdf-branco-18", Back: "mdf-branco-6", Front: "mdf-grafite-18"},
					Components: []bom.ComponentInstance{
						{TemplateID: "gaveta-interna", Quantity: 1, Variables: map[string]float64{"Hg": 120}},
					},
				},
			},
		},
		{
			Name: "Quarto",
			Modules: []bom.ModuleInstance{
				{
					TemplateID: "roupeiro",
					Width:      1800,
					Height:     2400,
					Depth:      600,
					Quantity:   1,
					Materials:  bom.MaterialChoice{Interior: "mdp-branco-15", Exterior: "mdf-freijo-18", Back: "mdf-branco-6", Front: "mdf-freijo-18"},
					Faces:      []string{"left", "right"},
					Components: []bom.ComponentInstance{
						{TemplateID: "cabideiro", Quantity: 1},
						{TemplateID: "prateleira-avulsa", Quantity: 2},
					},
				},
			},
		},
	}
}
