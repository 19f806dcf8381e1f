package frontend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/diag"
	"github.com/viant/codegraph/pkg/frontend"
	"github.com/viant/codegraph/pkg/model"
)

type stubFrontend struct{ lang model.Language }

func (s stubFrontend) Language() model.Language { return s.lang }
func (s stubFrontend) Parse(_ context.Context, relPath string, _ []byte) (*model.Module, []diag.Diagnostic, error) {
	return &model.Module{Path: relPath, Language: s.lang}, nil, nil
}

func TestRegistryDispatchesByExtension(t *testing.T) {
	r := frontend.NewRegistry()
	r.Register(stubFrontend{lang: model.LangPython}, []string{".py"})
	r.Register(stubFrontend{lang: model.LangPHP}, []string{"php"})

	fe, ok := r.For("app/models.py")
	assert.True(t, ok)
	assert.Equal(t, model.LangPython, fe.Language())

	fe, ok = r.For("app/Controller.PHP")
	assert.True(t, ok)
	assert.Equal(t, model.LangPHP, fe.Language())

	_, ok = r.For("app/index.ts")
	assert.False(t, ok)
}

func TestRegistryLanguagesDeduplicates(t *testing.T) {
	r := frontend.NewRegistry()
	py := stubFrontend{lang: model.LangPython}
	r.Register(py, []string{".py", ".pyi"})

	langs := r.Languages()
	assert.Len(t, langs, 1)
	assert.Equal(t, model.LangPython, langs[0].Language())
}
