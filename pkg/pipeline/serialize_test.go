package pipeline_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/viant/codegraph/pkg/model"
	"github.com/viant/codegraph/pkg/pipeline"
)

func TestSerializeProducesNamedSections(t *testing.T) {
	sm := model.NewSemanticModel()
	mod := &model.Module{ID: "module:a.py", Path: "a.py", Language: model.LangPython}
	fn := &model.Routine{ID: "routine:a.py:run", Name: "run", IsExported: true}
	sm.AddModule(mod)
	sm.AddRoutine(fn)
	sm.AddEdge(model.Edge{Source: mod.ID, Target: mod.ID, Kind: model.EdgeImports})
	sm.AddFlow(&model.FlowTrace{Entry: fn.ID, Terminal: model.TerminalLeaf})

	var buf bytes.Buffer
	err := pipeline.Serialize(&buf, sm)
	assert.NoError(t, err)

	var doc map[string]any
	assert.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	for _, section := range []string{"modules", "types", "routines", "attributes", "relationships", "flows"} {
		_, ok := doc[section]
		assert.Truef(t, ok, "missing %q section in serialized output", section)
	}

	flows, ok := doc["flows"].(map[string]any)
	if assert.True(t, ok, "flows section should be a mapping") {
		_, ok := flows["entries"]
		assert.True(t, ok, "flows section should have an entries key")
	}
}

func TestConfigValidateRejectsNegativeDepthAndNoLanguages(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.FlowMaxDepth = -1
	assert.Error(t, cfg.Validate())

	cfg = pipeline.DefaultConfig()
	cfg.Python.Enabled = false
	cfg.PHP.Enabled = false
	cfg.JSTS.Enabled = false
	assert.Error(t, cfg.Validate())

	cfg = pipeline.DefaultConfig()
	assert.NoError(t, cfg.Validate())
}
