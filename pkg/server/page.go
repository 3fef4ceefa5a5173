package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/matzehuels/geotrig/pkg/buildinfo"
	"github.com/matzehuels/geotrig/pkg/calc"
	"github.com/matzehuels/geotrig/pkg/geom"
)

//go:embed templates/index.html
var templates embed.FS

type pageModule struct {
	ID    string
	Label string
	Ops   []*calc.Operation
}

type pageData struct {
	Version string
	Modules []pageModule
}

var choiceLabels = map[string]string{
	"rot":   "Rotation",
	"dil":   "Dilation",
	"side":  "Find side c",
	"angle": "Find angle C",
}

func choiceLabel(v string) string {
	if l, ok := choiceLabels[v]; ok {
		return l
	}
	return geom.ReflectMode(v).Label()
}

// renderPage executes the page template once; the page only depends on the
// operation registry.
func renderPage() ([]byte, error) {
	tmpl, err := template.New("index.html").
		Funcs(template.FuncMap{"choiceLabel": choiceLabel}).
		ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	data := pageData{
		Version: buildinfo.Version,
		Modules: []pageModule{
			{ID: calc.ModuleGeo, Label: "Geometry"},
			{ID: calc.ModuleTrig, Label: "Trigonometry"},
		},
	}
	for _, op := range calc.Operations() {
		for i := range data.Modules {
			if data.Modules[i].ID == op.Module {
				data.Modules[i].Ops = append(data.Modules[i].Ops, op)
			}
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
