package services

// TemplateField describes one column of the module import sheet.
type TemplateField struct {
	Key          string   // internal name
	Label        string   // header shown in Excel
	Aliases      []string // other accepted headers, lower case
	Description  string   // shown on the Instructions sheet
	ExampleValue string
	Required     bool
}

// ModuleImportFields returns the ordered columns of the module import sheet.
func ModuleImportFields() []TemplateField {
	return []TemplateField{
		{Key: "environment", Label: "Ambiente", Aliases: []string{"environment"}, Description: "Ambiente onde o módulo fica; vazio agrupa em \"Geral\"", ExampleValue: "Cozinha"},
		{Key: "module", Label: "Módulo", Aliases: []string{"modulo", "module"}, Description: "Código do modelo de módulo", ExampleValue: "balcao-cozinha", Required: true},
		{Key: "label", Label: "Descrição", Aliases: []string{"descricao", "label"}, Description: "Nome do módulo no orçamento", ExampleValue: "Balcão pia"},
		{Key: "width", Label: "Largura", Aliases: []string{"width", "l"}, Description: "Largura em mm", ExampleValue: "1200", Required: true},
		{Key: "height", Label: "Altura", Aliases: []string{"height", "a"}, Description: "Altura em mm", ExampleValue: "720", Required: true},
		{Key: "depth", Label: "Profundidade", Aliases: []string{"depth", "p"}, Description: "Profundidade em mm", ExampleValue: "560", Required: true},
		{Key: "quantity", Label: "Quantidade", Aliases: []string{"quantity", "qtd"}, Description: "Número de módulos iguais; vazio vale 1", ExampleValue: "1"},
		{Key: "interior", Label: "Material interno", Aliases: []string{"interno", "interior"}, Description: "Código do material da caixa", ExampleValue: "mdf-branco-18", Required: true},
		{Key: "exterior", Label: "Material externo", Aliases: []string{"externo", "exterior"}, Description: "Código do material das faces; vazio usa o interno", ExampleValue: "mdf-branco-18"},
		{Key: "back", Label: "Fundo", Aliases: []string{"back"}, Description: "Código do material do fundo; vazio usa o interno", ExampleValue: "mdf-branco-6"},
		{Key: "front", Label: "Frente", Aliases: []string{"front"}, Description: "Código do material de portas e frentes", ExampleValue: "mdf-grafite-18"},
		{Key: "finish", Label: "Acabamento", Aliases: []string{"finish"}, Description: "Código do acabamento externo", ExampleValue: "laca-fosca"},
		{Key: "doors", Label: "Portas", Aliases: []string{"doors"}, Description: "Número de portas; vazio usa o padrão do modelo", ExampleValue: "2"},
		{Key: "drawers", Label: "Gavetas", Aliases: []string{"drawers"}, Description: "Número de gavetas; vazio usa o padrão do modelo", ExampleValue: "0"},
	}
}

// materialFieldKeys are the columns that must name a known material.
var materialFieldKeys = []string{"interior", "exterior", "back", "front"}
