// Package walker implements the Source Walker (spec.md §4.1, component C1):
// it enumerates files under a project root, applies include/exclude rules,
// and dispatches each file to a language tag by extension. Grounded on the
// fs.Walk/storage.OnVisit pattern in analyzer/package.go's analyzePackages.
package walker

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/viant/codegraph/pkg/diag"
	"github.com/viant/codegraph/pkg/model"
)

// LanguageConfig maps a language tag to the extensions the Walker should
// dispatch to it (spec §6 "languages.<lang>.extensions").
type LanguageConfig struct {
	Language   model.Language
	Enabled    bool
	Extensions []string
}

// FileTask is one enumerated source file, ready for a front-end (spec §4.1
// contract).
type FileTask struct {
	AbsPath  string
	RelPath  string // forward-slash, project-relative
	Language model.Language
}

// AssetFile is a non-language file the Walker found under the project root
// (no configured extension claimed it). SPEC_FULL.md §3's asset-capture
// feature carries these into the Model Builder so a package's non-code
// files (READMEs, fixtures, config) survive into the model alongside its
// Modules, grounded on the teacher's graph.Asset/ReadAssetsRecursively.
type AssetFile struct {
	AbsPath string
	RelPath string // forward-slash, project-relative
}

// Walker enumerates a project tree per spec.md §4.1.
type Walker struct {
	fs           afs.Service
	excludeDirs  map[string]bool
	excludeFiles []string // glob patterns
	extToLang    map[string]model.Language
}

// New creates a Walker. excludeDirs is matched against a bare directory
// name at any depth; excludeFiles holds filepath.Match-style globs matched
// against the file's base name.
func New(excludeDirs, excludeFiles []string, languages []LanguageConfig) *Walker {
	w := &Walker{
		fs:           afs.New(),
		excludeDirs:  make(map[string]bool, len(excludeDirs)),
		excludeFiles: excludeFiles,
		extToLang:    make(map[string]model.Language),
	}
	for _, d := range excludeDirs {
		w.excludeDirs[d] = true
	}
	for _, lc := range languages {
		if !lc.Enabled {
			continue
		}
		for _, ext := range lc.Extensions {
			w.extToLang[strings.ToLower(ext)] = lc.Language
		}
	}
	return w
}

// Walk enumerates root and returns every matching file, in stable
// lexicographic order by relative path (spec §4.1 "Ordering is stable"),
// together with every non-language file found (as assets) and any
// WalkFailure diagnostics for unreadable entries.
func (w *Walker) Walk(ctx context.Context, root string) ([]FileTask, []AssetFile, []diag.Diagnostic, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, nil, err
	}

	var tasks []FileTask
	var assets []AssetFile
	var diags []diag.Diagnostic

	visitor := func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			if info.Name() != "" && w.excludeDirs[info.Name()] {
				return false, nil // prune: never descend into an excluded directory
			}
			return true, nil
		}

		if w.matchesExcludedFile(info.Name()) {
			return true, nil
		}

		fullPath := url.Join(baseURL, parent, info.Name())
		absPath := url.Path(fullPath)
		if escapesRoot(absRoot, absPath) {
			diags = append(diags, diag.Diagnostic{
				Kind: diag.WalkFailure, Path: absPath,
				Message: "symlink target escapes project root, skipped",
			})
			return true, nil
		}

		relPath, err := filepath.Rel(absRoot, absPath)
		if err != nil {
			diags = append(diags, diag.Diagnostic{Kind: diag.WalkFailure, Path: absPath, Message: err.Error()})
			return true, nil
		}
		relPath = filepath.ToSlash(relPath)

		ext := strings.ToLower(filepath.Ext(info.Name()))
		lang, ok := w.extToLang[ext]
		if !ok {
			assets = append(assets, AssetFile{AbsPath: absPath, RelPath: relPath})
			return true, nil
		}

		tasks = append(tasks, FileTask{
			AbsPath:  absPath,
			RelPath:  relPath,
			Language: lang,
		})
		return true, nil
	}

	if err := w.fs.Walk(ctx, absRoot, storage.OnVisit(visitor)); err != nil {
		diags = append(diags, diag.Diagnostic{Kind: diag.WalkFailure, Path: absRoot, Message: err.Error()})
		return nil, nil, diags, nil
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].RelPath < tasks[j].RelPath })
	sort.Slice(assets, func(i, j int) bool { return assets[i].RelPath < assets[j].RelPath })
	return tasks, assets, diags, nil
}

// Read loads one file's content through the same afs.Service the walk used,
// so a future remote scheme needs no change to front-ends (SPEC_FULL.md §2).
func (w *Walker) Read(ctx context.Context, absPath string) ([]byte, error) {
	return w.fs.DownloadWithURL(ctx, absPath)
}

func (w *Walker) matchesExcludedFile(name string) bool {
	for _, pattern := range w.excludeFiles {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// escapesRoot reports whether a symlink resolves outside root; the Walker
// must never follow a link that does (spec §4.1 "Failure semantics").
func escapesRoot(root, path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false // not a symlink, or target missing: let the caller surface the real error
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return true
	}
	return strings.HasPrefix(rel, "..")
}
