package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/flow"
	"github.com/viant/codegraph/pkg/model"
)

// chainModule builds a() -> b() -> c() -> d() -> e() -> f(), each a
// module-level function with exactly one outgoing call (S4).
func chainModule() *model.SemanticModel {
	sm := model.NewSemanticModel()
	mod := &model.Module{ID: "module:chain.py", Path: "chain.py"}

	names := []string{"a", "b", "c", "d", "e", "f"}
	routines := make([]*model.Routine, len(names))
	for i, name := range names {
		routines[i] = &model.Routine{
			ID: "routine:chain.py:" + name, Name: name, IsExported: name == "a",
		}
	}
	for i := 0; i < len(routines)-1; i++ {
		routines[i].CallSites = []*model.CallSite{{Callee: routines[i+1].Name, Line: i + 1}}
	}
	mod.Functions = routines
	sm.AddModule(mod)
	for _, r := range routines {
		sm.AddRoutine(r)
	}
	return sm
}

func TestFlowDepthLimit(t *testing.T) {
	sm := chainModule()

	flow.Analyze(sm, flow.Config{MaxDepth: 3})

	if assert.Len(t, sm.Flows, 1) {
		trace := sm.Flows[0]
		assert.Equal(t, "routine:chain.py:a", trace.Entry)
		assert.Equal(t, model.TerminalDepthLimit, trace.Terminal)
		if assert.Len(t, trace.Hops, 3) {
			assert.Equal(t, "routine:chain.py:b", trace.Hops[0].Callee)
			assert.Equal(t, "routine:chain.py:c", trace.Hops[1].Callee)
			assert.Equal(t, "routine:chain.py:d", trace.Hops[2].Callee)
		}
	}
}

// TestFlowFingerprintIsDeterministic exercises model.Hash's wiring into
// FlowTrace.Fingerprint: re-running Analyze over an identical model must
// reproduce the same fingerprint (spec §8.1 byte-identical output).
func TestFlowFingerprintIsDeterministic(t *testing.T) {
	sm1 := chainModule()
	flow.Analyze(sm1, flow.Config{MaxDepth: 3})
	sm2 := chainModule()
	flow.Analyze(sm2, flow.Config{MaxDepth: 3})

	if assert.Len(t, sm1.Flows, 1) && assert.Len(t, sm2.Flows, 1) {
		assert.NotZero(t, sm1.Flows[0].Fingerprint)
		assert.Equal(t, sm1.Flows[0].Fingerprint, sm2.Flows[0].Fingerprint)
	}
}

func TestFlowLeafTerminal(t *testing.T) {
	sm := model.NewSemanticModel()
	mod := &model.Module{ID: "module:leaf.py", Path: "leaf.py"}
	entry := &model.Routine{ID: "routine:leaf.py:start", Name: "start", IsExported: true}
	leaf := &model.Routine{ID: "routine:leaf.py:stop", Name: "stop"}
	entry.CallSites = []*model.CallSite{{Callee: "stop", Line: 1}}
	mod.Functions = []*model.Routine{entry, leaf}
	sm.AddModule(mod)
	sm.AddRoutine(entry)
	sm.AddRoutine(leaf)

	flow.Analyze(sm, flow.Config{MaxDepth: 5})

	if assert.Len(t, sm.Flows, 1) {
		assert.Equal(t, model.TerminalLeaf, sm.Flows[0].Terminal)
		assert.Len(t, sm.Flows[0].Hops, 1)
	}
}

func TestFlowUnresolvedCallIsExternal(t *testing.T) {
	sm := model.NewSemanticModel()
	mod := &model.Module{ID: "module:ext.py", Path: "ext.py"}
	entry := &model.Routine{ID: "routine:ext.py:start", Name: "start", IsExported: true}
	entry.CallSites = []*model.CallSite{{Callee: "some_external_sdk_call", Line: 1}}
	mod.Functions = []*model.Routine{entry}
	sm.AddModule(mod)
	sm.AddRoutine(entry)

	flow.Analyze(sm, flow.Config{MaxDepth: 5})

	if assert.Len(t, sm.Flows, 1) {
		trace := sm.Flows[0]
		assert.Equal(t, model.TerminalUnresolved, trace.Terminal)
		assert.True(t, model.IsExternal(trace.Hops[0].Callee))
	}
}

// TestFlowLeftMostBaseWins exercises the multiple-inheritance tie-break:
// Hybrid itself does not declare speak(), but both of its bases Dog and Cat
// do, so the left-most base Dog wins and the hop carries a tie note.
func TestFlowLeftMostBaseWins(t *testing.T) {
	sm := model.NewSemanticModel()
	mod := &model.Module{ID: "module:zoo.py", Path: "zoo.py"}

	dogSpeak := &model.Routine{ID: "routine:zoo.py:Dog.speak", Name: "speak"}
	catSpeak := &model.Routine{ID: "routine:zoo.py:Cat.speak", Name: "speak"}
	dog := &model.TypeDecl{ID: "type:zoo.py:Dog", Name: "Dog", Methods: []*model.Routine{dogSpeak}}
	cat := &model.TypeDecl{ID: "type:zoo.py:Cat", Name: "Cat", Methods: []*model.Routine{catSpeak}}
	hybrid := &model.TypeDecl{
		ID: "type:zoo.py:Hybrid", Name: "Hybrid",
		Bases: []*model.TypeRef{{Text: "Dog", ID: dog.ID}, {Text: "Cat", ID: cat.ID}},
	}

	entry := &model.Routine{
		ID: "routine:zoo.py:make_noise", Name: "make_noise", IsExported: true, Owner: mod.ID,
		Parameters: []*model.Parameter{{Name: "h", Type: &model.TypeRef{Text: "Hybrid", ID: hybrid.ID}}},
		CallSites:  []*model.CallSite{{Receiver: "h", Callee: "speak", Line: 1}},
	}

	mod.Functions = []*model.Routine{entry}
	sm.AddModule(mod)
	sm.AddType(dog)
	sm.AddType(cat)
	sm.AddType(hybrid)
	sm.AddRoutine(dogSpeak)
	sm.AddRoutine(catSpeak)
	sm.AddRoutine(entry)

	flow.Analyze(sm, flow.Config{MaxDepth: 5})

	if assert.Len(t, sm.Flows, 1) {
		trace := sm.Flows[0]
		if assert.Len(t, trace.Hops, 1) {
			assert.Equal(t, dogSpeak.ID, trace.Hops[0].Callee)
			assert.Contains(t, trace.Hops[0].Note, "Dog")
		}
	}
}
