// Package catalog reads and writes shop catalogs: price records, hardware
// standards and the parametric module and component templates, as YAML.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"marcenaria/bom"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrDuplicateID = errors.New("duplicate id")

var validate = validator.New()

// File is the on-disk shape of a catalog. Lists keep authoring order;
// the engine works on the id-keyed maps returned by PriceBook and Catalog.
type File struct {
	Materials  []bom.Material          `yaml:"materials" validate:"dive"`
	Hardware   []bom.Hardware          `yaml:"hardware" validate:"dive"`
	Finishes   []bom.Finish            `yaml:"finishes" validate:"dive"`
	Standards  map[string]string       `yaml:"standards"`
	Modules    []bom.ModuleTemplate    `yaml:"modules" validate:"dive"`
	Components []bom.ComponentTemplate `yaml:"components" validate:"dive"`
}

// Load decodes a catalog and checks record shape and id uniqueness.
// Unknown keys are rejected so a misspelled field does not silently vanish.
// Formula checks are left to bom.ValidateCatalog.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if err := f.checkIDs(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

// Default returns the catalog shipped with the binary.
func Default() (*File, error) {
	return Load(bytes.NewReader(defaultYAML))
}

// Encode writes f as YAML.
func (f *File) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}
	return enc.Close()
}

func (f *File) checkIDs() error {
	groups := []struct {
		name string
		ids  []string
	}{
		{"materials", idsOf(f.Materials, func(m bom.Material) string { return m.ID })},
		{"hardware", idsOf(f.Hardware, func(h bom.Hardware) string { return h.ID })},
		{"finishes", idsOf(f.Finishes, func(x bom.Finish) string { return x.ID })},
		{"modules", idsOf(f.Modules, func(m bom.ModuleTemplate) string { return m.ID })},
		{"components", idsOf(f.Components, func(c bom.ComponentTemplate) string { return c.ID })},
	}
	for _, g := range groups {
		seen := make(map[string]bool, len(g.ids))
		for _, id := range g.ids {
			if seen[id] {
				return fmt.Errorf("catalog: %s %q: %w", g.name, id, ErrDuplicateID)
			}
			seen[id] = true
		}
	}
	return nil
}

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

// PriceBook indexes the price records by id.
func (f *File) PriceBook() bom.PriceBook {
	pb := bom.PriceBook{
		Materials: make(map[string]bom.Material, len(f.Materials)),
		Hardware:  make(map[string]bom.Hardware, len(f.Hardware)),
		Finishes:  make(map[string]bom.Finish, len(f.Finishes)),
	}
	for _, m := range f.Materials {
		pb.Materials[m.ID] = m
	}
	for _, h := range f.Hardware {
		pb.Hardware[h.ID] = h
	}
	for _, x := range f.Finishes {
		pb.Finishes[x.ID] = x
	}
	return pb
}

// Catalog indexes the templates by id.
func (f *File) Catalog() bom.Catalog {
	c := bom.Catalog{
		Modules:    make(map[string]bom.ModuleTemplate, len(f.Modules)),
		Components: make(map[string]bom.ComponentTemplate, len(f.Components)),
	}
	for _, m := range f.Modules {
		c.Modules[m.ID] = m
	}
	for _, t := range f.Components {
		c.Components[t.ID] = t
	}
	return c
}

func (f *File) HardwareStandards() bom.Standards {
	out := make(bom.Standards, len(f.Standards))
	for k, v := range f.Standards {
		out[k] = v
	}
	return out
}

// Validate runs the strict formula and reference checks over the whole file.
func (f *File) Validate() []bom.Diagnostic {
	return bom.ValidateCatalog(f.Catalog(), f.PriceBook(), f.HardwareStandards())
}
