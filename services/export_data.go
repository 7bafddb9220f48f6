package services

import "marcenaria/bom"

// BOMExportData holds all data needed to export a quote's bill of materials.
type BOMExportData struct {
	Title         string
	ProjectName   string
	CreatedDate   string
	Sources       []string // quote and addenda titles, in evaluation order
	BOM           bom.BillOfMaterials
	Pricing       Pricing
	MaterialNames map[string]string
}

// materialName falls back to the id when the name is unknown.
func (d BOMExportData) materialName(id string) string {
	if name, ok := d.MaterialNames[id]; ok && name != "" {
		return name
	}
	return id
}
