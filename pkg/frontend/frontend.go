// Package frontend defines the capability contract every Language
// Front-End (spec.md §4.2, component C2) implements, and a Registry that
// dispatches a file to the right one by extension. Grounded on the
// Inspector interface + Factory pair in inspector/inspector.go, generalised
// from a fixed switch over three hard-coded languages to a registration
// table so the JS/TS front-end's helper-pool degradation (spec §4.2.3) can
// sit behind the same contract as Python and PHP.
package frontend

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/viant/codegraph/pkg/diag"
	"github.com/viant/codegraph/pkg/model"
)

// Frontend parses one source file into a Module populated with Raw Entity
// Records (spec §4.2 contract): entities carry their original qualified
// name and text references, not yet assigned final identifiers — that is
// the Model Builder's job (spec §4.3).
type Frontend interface {
	// Language identifies which Language this front-end implements.
	Language() model.Language

	// Parse extracts a Module from src. relPath is the project-relative,
	// forward-slash path recorded on the Module. Non-fatal issues are
	// returned as diagnostics rather than errors so one bad file never
	// aborts the pipeline (spec §4.2 "Failure semantics").
	Parse(ctx context.Context, relPath string, src []byte) (*model.Module, []diag.Diagnostic, error)
}

// Registry dispatches a file path to the Frontend registered for its
// extension, mirroring Factory.GetInspector's switch but as a table so new
// extensions can be added without touching dispatch logic.
type Registry struct {
	byExt map[string]Frontend
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Frontend)}
}

// Register associates every extension in extensions (case-insensitive,
// leading dot optional) with f. A later call overwrites an earlier one for
// the same extension.
func (r *Registry) Register(f Frontend, extensions []string) {
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.byExt[ext] = f
	}
}

// For returns the Frontend registered for path's extension.
func (r *Registry) For(path string) (Frontend, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := r.byExt[ext]
	return f, ok
}

// Languages returns the distinct Frontend values registered, for callers
// that need to enumerate (e.g. the JS/TS helper pool's shutdown hook).
func (r *Registry) Languages() []Frontend {
	seen := make(map[model.Language]bool, len(r.byExt))
	var out []Frontend
	for _, f := range r.byExt {
		if seen[f.Language()] {
			continue
		}
		seen[f.Language()] = true
		out = append(out, f)
	}
	return out
}
