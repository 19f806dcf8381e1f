package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/model"
)

func TestSemanticModelIndexesByID(t *testing.T) {
	sm := model.NewSemanticModel()
	mod := &model.Module{ID: "module:a.py", Path: "a.py"}
	typ := &model.TypeDecl{ID: "type:a.py:User", Name: "User"}
	routine := &model.Routine{ID: "routine:a.py:User.save", Name: "save"}
	attr := &model.Attribute{ID: "attribute:a.py:User.name", Name: "name"}

	sm.AddModule(mod)
	sm.AddType(typ)
	sm.AddRoutine(routine)
	sm.AddAttribute(attr)

	assert.Same(t, mod, sm.GetModule(mod.ID))
	assert.Same(t, typ, sm.GetType(typ.ID))
	assert.Same(t, routine, sm.GetRoutine(routine.ID))
	assert.Same(t, attr, sm.GetAttribute(attr.ID))
	assert.Nil(t, sm.GetModule("module:missing.py"))
}

func TestEdgesByKindFiltersAndBuildSummaryCounts(t *testing.T) {
	sm := model.NewSemanticModel()
	sm.AddEdge(model.Edge{Source: "a", Target: "b", Kind: model.EdgeInherits})
	sm.AddEdge(model.Edge{Source: "a", Target: "c", Kind: model.EdgeAssociates})
	sm.AddEdge(model.Edge{Source: "b", Target: "c", Kind: model.EdgeInherits})
	sm.AddFlow(&model.FlowTrace{Entry: "x", Terminal: model.TerminalLeaf})
	sm.AddFlow(&model.FlowTrace{Entry: "y", Terminal: model.TerminalDepthLimit})

	inherits := sm.EdgesByKind(model.EdgeInherits)
	assert.Len(t, inherits, 2)

	summary := sm.BuildSummary()
	assert.Equal(t, 2, summary.Edges[model.EdgeInherits])
	assert.Equal(t, 1, summary.Edges[model.EdgeAssociates])
	assert.Equal(t, 1, summary.Terminals[model.TerminalLeaf])
	assert.Equal(t, 1, summary.Terminals[model.TerminalDepthLimit])
}
