package walker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/pkg/model"
	"github.com/viant/codegraph/pkg/walker"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectProjectFindsShallowestMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), "[project]\nname = \"widgets\"\n")
	nested := filepath.Join(root, "src", "widgets")
	assert.NoError(t, os.MkdirAll(nested, 0o755))

	proj, err := walker.DetectProject(nested)
	assert.NoError(t, err)
	assert.Equal(t, "python", proj.Type)
	assert.Equal(t, "widgets", proj.Name)
	resolvedRoot, err := filepath.EvalSymlinks(root)
	assert.NoError(t, err)
	resolvedProjRoot, err := filepath.EvalSymlinks(proj.RootPath)
	assert.NoError(t, err)
	assert.Equal(t, resolvedRoot, resolvedProjRoot)
}

func TestDetectProjectUnknownWhenNoMarkerFound(t *testing.T) {
	root := t.TempDir()
	proj, err := walker.DetectProject(root)
	assert.NoError(t, err)
	assert.Equal(t, "unknown", proj.Type)
}

func TestWalkDispatchesByExtensionInStableOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "a.py"), "y = 2\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored\n")
	writeFile(t, filepath.Join(root, "node_modules", "dep.js"), "ignored too\n")

	w := walker.New(
		[]string{"node_modules"},
		nil,
		[]walker.LanguageConfig{{Language: model.LangPython, Enabled: true, Extensions: []string{".py"}}},
	)

	tasks, assets, diags, err := w.Walk(context.Background(), root)
	assert.NoError(t, err)
	assert.Empty(t, diags)
	if assert.Len(t, tasks, 2) {
		assert.Equal(t, "a.py", tasks[0].RelPath)
		assert.Equal(t, "b.py", tasks[1].RelPath)
		assert.Equal(t, model.LangPython, tasks[0].Language)
	}
	if assert.Len(t, assets, 1) {
		assert.Equal(t, "notes.txt", assets[0].RelPath)
	}
}

func TestWalkSkipsExcludedFilePattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "keep_test.py"), "x = 1\n")

	w := walker.New(
		nil,
		[]string{"*_test.py"},
		[]walker.LanguageConfig{{Language: model.LangPython, Enabled: true, Extensions: []string{".py"}}},
	)

	tasks, _, _, err := w.Walk(context.Background(), root)
	assert.NoError(t, err)
	if assert.Len(t, tasks, 1) {
		assert.Equal(t, "keep.py", tasks[0].RelPath)
	}
}

func TestReadReturnsFileContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.py")
	writeFile(t, path, "x = 1\n")

	w := walker.New(nil, nil, []walker.LanguageConfig{{Language: model.LangPython, Enabled: true, Extensions: []string{".py"}}})
	content, err := w.Read(context.Background(), path)
	assert.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(content))
}
