package relate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/model"
	"github.com/viant/codegraph/pkg/relate"
)

// buildCar constructs the S3 end-to-end scenario: a class Car whose
// constructor composes a freshly built Engine and aggregates a Driver
// supplied as a constructor parameter.
func buildCar() *model.SemanticModel {
	sm := model.NewSemanticModel()

	engine := &model.TypeDecl{ID: "type:car.py:Engine", Name: "Engine", Owner: "module:car.py"}
	driver := &model.TypeDecl{ID: "type:car.py:Driver", Name: "Driver", Owner: "module:car.py"}

	ctor := &model.Routine{
		ID:   "routine:car.py:Car.__init__",
		Name: "__init__",
		Parameters: []*model.Parameter{
			{Name: "driver", Type: &model.TypeRef{Text: "Driver", ID: driver.ID}},
		},
	}
	car := &model.TypeDecl{
		ID: "type:car.py:Car", Name: "Car", Owner: "module:car.py",
		Members: []*model.Attribute{
			{ID: "attribute:car.py:Car.engine", Name: "engine", Owner: "type:car.py:Car", Default: "Engine()"},
			{ID: "attribute:car.py:Car.driver", Name: "driver", Owner: "type:car.py:Car", Default: "driver"},
		},
		Methods: []*model.Routine{ctor},
	}

	for _, t := range []*model.TypeDecl{engine, driver, car} {
		sm.AddType(t)
	}
	for _, a := range car.Members {
		sm.AddAttribute(a)
	}
	sm.AddRoutine(ctor)

	return sm
}

func TestDetectComposesAndAggregates(t *testing.T) {
	sm := buildCar()

	relate.Detect(sm)

	var composes, aggregates []model.Edge
	for _, e := range sm.Edges {
		switch e.Kind {
		case model.EdgeComposes:
			composes = append(composes, e)
		case model.EdgeAggregates:
			aggregates = append(aggregates, e)
		}
	}

	if assert.Len(t, composes, 1) {
		assert.Equal(t, "type:car.py:Car", composes[0].Source)
		assert.Equal(t, "type:car.py:Engine", composes[0].Target)
	}
	if assert.Len(t, aggregates, 1) {
		assert.Equal(t, "type:car.py:Car", aggregates[0].Source)
		assert.Equal(t, "type:car.py:Driver", aggregates[0].Target)
	}

	// No other relationship edges between these three types (S3).
	assert.Len(t, sm.Edges, 2)
}

func TestDetectInheritanceEdges(t *testing.T) {
	sm := model.NewSemanticModel()
	base := &model.TypeDecl{ID: "type:a.py:Animal", Name: "Animal"}
	sub := &model.TypeDecl{
		ID: "type:a.py:Dog", Name: "Dog",
		Bases: []*model.TypeRef{{Text: "Animal", ID: base.ID}},
	}
	sm.AddType(base)
	sm.AddType(sub)

	relate.Detect(sm)

	assert.Len(t, sm.Edges, 1)
	assert.Equal(t, model.EdgeInherits, sm.Edges[0].Kind)
	assert.Equal(t, sub.ID, sm.Edges[0].Source)
	assert.Equal(t, base.ID, sm.Edges[0].Target)
}

func TestDetectImportsSkipsUnresolved(t *testing.T) {
	sm := model.NewSemanticModel()
	target := &model.Module{ID: "module:b.py", Path: "b.py"}
	source := &model.Module{
		ID: "module:a.py", Path: "a.py",
		Imports: []*model.Import{
			{Path: "b", Resolved: target.ID},
			{Path: "unknown_pkg", Resolved: model.ExternalRef("unknown_pkg")},
		},
	}
	sm.AddModule(source)
	sm.AddModule(target)

	relate.Detect(sm)

	if assert.Len(t, sm.Edges, 1) {
		assert.Equal(t, model.EdgeImports, sm.Edges[0].Kind)
		assert.Equal(t, target.ID, sm.Edges[0].Target)
	}
}
