package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/builder"
	"github.com/viant/codegraph/pkg/diag"
	"github.com/viant/codegraph/pkg/model"
	"github.com/viant/codegraph/pkg/walker"
)

// twoModules builds a tiny Python project: models.py declares User, and
// service.py imports it and references User in a function signature.
func twoModules() []*model.Module {
	userType := &model.TypeDecl{Name: "User", QualifiedName: "User", Kind: model.TypeClass}
	modelsMod := &model.Module{
		Path: "app/models.py", Language: model.LangPython,
		Types: []*model.TypeDecl{userType},
	}

	loadFn := &model.Routine{
		Name: "load_user", Kind: model.RoutineFunction, IsExported: true,
		Returns: &model.TypeRef{Text: "User"},
	}
	serviceMod := &model.Module{
		Path: "app/service.py", Language: model.LangPython,
		Imports: []*model.Import{
			{Name: "User", Path: "app.models"},
		},
		Functions: []*model.Routine{loadFn},
	}

	return []*model.Module{modelsMod, serviceMod}
}

func TestBuildAssignsDeterministicIDs(t *testing.T) {
	modules := twoModules()
	collector := &diag.Collector{}

	sm := builder.New(collector).Build(modules, nil)

	modelsMod := sm.GetModule(model.BuildID(model.KindModule, "app/models.py", "", 0))
	assert.NotNil(t, modelsMod)
	assert.Equal(t, "app/models.py", modelsMod.Path)

	userType := modules[0].Types[0]
	assert.Equal(t, "type:app/models.py:User", userType.ID)
	assert.Equal(t, modelsMod.ID, userType.Owner)
}

func TestBuildResolvesImportAndCrossModuleReference(t *testing.T) {
	modules := twoModules()
	collector := &diag.Collector{}

	sm := builder.New(collector).Build(modules, nil)

	serviceMod := modules[1]
	assert.False(t, model.IsExternal(serviceMod.Imports[0].Resolved))

	loadFn := serviceMod.Functions[0]
	assert.Equal(t, "type:app/models.py:User", loadFn.Returns.ID)

	summary := sm.BuildSummary()
	assert.Equal(t, 2, summary.Entities[model.KindModule])
	assert.Equal(t, 1, summary.Entities[model.KindType])
}

func TestBuildReportsUnresolvedReferenceAsExternal(t *testing.T) {
	orphan := &model.Module{
		Path: "app/orphan.py", Language: model.LangPython,
		Functions: []*model.Routine{
			{Name: "mystery", Kind: model.RoutineFunction, Returns: &model.TypeRef{Text: "NotAType"}},
		},
	}
	collector := &diag.Collector{}

	builder.New(collector).Build([]*model.Module{orphan}, nil)

	ret := orphan.Functions[0].Returns
	assert.True(t, model.IsExternal(ret.ID))
	assert.Equal(t, 1, collector.CountKind(diag.ResolutionMiss))
}

func TestBuildDisambiguatesDuplicateQualifiedNames(t *testing.T) {
	mod := &model.Module{
		Path: "app/dup.py", Language: model.LangPython,
		Functions: []*model.Routine{
			{Name: "handler", Kind: model.RoutineFunction},
			{Name: "handler", Kind: model.RoutineFunction},
		},
	}
	collector := &diag.Collector{}

	builder.New(collector).Build([]*model.Module{mod}, nil)

	assert.NotEqual(t, mod.Functions[0].ID, mod.Functions[1].ID)
	assert.Equal(t, 1, collector.CountKind(diag.IdentifierCollision))
}

func TestBuildRecordsUnresolvedImportOnModuleDiagnostic(t *testing.T) {
	mod := &model.Module{
		Path: "app/orphan.py", Language: model.LangPython,
		Imports: []*model.Import{{Path: "some.missing.module"}},
	}
	collector := &diag.Collector{}

	builder.New(collector).Build([]*model.Module{mod}, nil)

	assert.True(t, model.IsExternal(mod.Imports[0].Resolved))
	if assert.Len(t, mod.Diagnostic, 1) {
		assert.Contains(t, mod.Diagnostic[0], "some.missing.module")
	}
}

func TestBuildAttachesAssetsToModuleSharingDirectory(t *testing.T) {
	modules := twoModules()
	assets := []walker.AssetFile{
		{AbsPath: "/proj/app/README.md", RelPath: "app/README.md"},
		{AbsPath: "/proj/top.cfg", RelPath: "top.cfg"},
	}
	collector := &diag.Collector{}

	builder.New(collector).Build(modules, assets)

	modelsMod := modules[0]
	if assert.Len(t, modelsMod.Assets, 1) {
		assert.Equal(t, "README.md", modelsMod.Assets[0].Name)
		assert.Equal(t, "app/README.md", modelsMod.Assets[0].Path)
	}
	assert.Empty(t, modules[1].Assets)
}
