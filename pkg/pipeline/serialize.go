package pipeline

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/viant/codegraph/pkg/model"
)

// document is the spec §6 persistence format: one top-level section per
// entity kind, a flat relationships list, and a flows section keyed by
// "entries" -- grounded on the teacher's identity.go convention of tagging
// every exported field for direct (un)marshalling rather than hand-rolling a
// wire format.
type document struct {
	Modules       []*moduleRecord   `yaml:"modules"`
	Types         []*model.TypeDecl `yaml:"types"`
	Routines      []*model.Routine  `yaml:"routines"`
	Attributes    []*model.Attribute `yaml:"attributes"`
	Relationships []model.Edge      `yaml:"relationships"`
	Flows         flowsSection      `yaml:"flows"`
}

type flowsSection struct {
	Entries []*model.FlowTrace `yaml:"entries"`
}

// moduleRecord is Module stripped of its nested Types/Functions/Constants,
// which already have their own top-level section; everything else about a
// Module is still of interest to a downstream renderer (path, language,
// package, namespace, imports, assets, degraded-provenance notes).
type moduleRecord struct {
	ID         string          `yaml:"id"`
	Path       string          `yaml:"path"`
	Language   model.Language  `yaml:"language"`
	Package    string          `yaml:"package,omitempty"`
	Namespace  string          `yaml:"namespace,omitempty"`
	Imports    []*model.Import `yaml:"imports,omitempty"`
	Assets     []*model.Asset  `yaml:"assets,omitempty"`
	Diagnostic []string        `yaml:"diagnostic,omitempty"`
}

// Serialize writes sm to w in the spec §6 persistence format. It walks the
// model's own flat slices rather than sm.Root's namespace tree, since every
// section the format names is already a flat, insertion-ordered list on
// SemanticModel.
func Serialize(w io.Writer, sm *model.SemanticModel) error {
	doc := document{
		Modules:       make([]*moduleRecord, 0, len(sm.Modules)),
		Types:         sm.Types,
		Routines:      sm.Routines,
		Attributes:    sm.Attributes,
		Relationships: edgesOrEmpty(sm.Edges),
		Flows:         flowsSection{Entries: sm.Flows},
	}
	for _, mod := range sm.Modules {
		doc.Modules = append(doc.Modules, &moduleRecord{
			ID:         mod.ID,
			Path:       mod.Path,
			Language:   mod.Language,
			Package:    mod.Package,
			Namespace:  mod.Namespace,
			Imports:    mod.Imports,
			Assets:     mod.Assets,
			Diagnostic: mod.Diagnostic,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

func edgesOrEmpty(edges []model.Edge) []model.Edge {
	if edges == nil {
		return []model.Edge{}
	}
	return edges
}
