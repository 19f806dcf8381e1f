// Package builder implements the Model Builder (spec.md §4.3, component
// C3): it takes the Raw Entity Records produced by each Language Front-End
// and assembles the unified Semantic Model, in the four steps spec.md
// describes -- namespace tree assembly, identifier allocation, intra-
// project reference resolution, and cross-file link sealing. Grounded on
// inspector/graph/project.go's Project/Package path-normalisation and
// adjustPackageTypes backfill pattern, generalised from a single Go-module
// project shape to the three-language namespace conventions spec §4.3
// step 1 requires (directory hierarchy for Python and JS/TS, explicit
// namespace declarations for PHP).
package builder

import (
	"path"
	"strings"

	"github.com/viant/codegraph/pkg/diag"
	"github.com/viant/codegraph/pkg/model"
	"github.com/viant/codegraph/pkg/walker"
)

// Builder assembles a SemanticModel from parsed modules.
type Builder struct {
	diags *diag.Collector

	typeAlloc      *model.IdentifierAllocator
	routineAlloc   *model.IdentifierAllocator
	attributeAlloc *model.IdentifierAllocator

	// typesByName indexes every resolved TypeDecl by its bare Name across
	// the whole project, in first-seen (stable, path-sorted) order, for
	// the project-wide fallback step of reference resolution.
	typesByName map[string][]*model.TypeDecl

	// modulesByID resolves an import's target Module ID back to the
	// Module itself during reference resolution.
	modulesByID map[string]*model.Module
}

// New creates a Builder that reports non-fatal issues (identifier
// collisions, unresolved references) to diags.
func New(diags *diag.Collector) *Builder {
	return &Builder{
		diags:          diags,
		typeAlloc:      model.NewIdentifierAllocator(model.KindType),
		routineAlloc:   model.NewIdentifierAllocator(model.KindRoutine),
		attributeAlloc: model.NewIdentifierAllocator(model.KindAttribute),
		typesByName:    make(map[string][]*model.TypeDecl),
		modulesByID:    make(map[string]*model.Module),
	}
}

// Build assembles a SemanticModel from modules, which must already be
// sorted by Path (spec §5 determinism: parallel Parse output is re-sorted
// before reaching the Builder). Build never mutates the input slice order.
// assets is the Walker's non-language-file list (SPEC_FULL.md §3 asset
// capture); pass nil when the caller has none.
func (b *Builder) Build(modules []*model.Module, assets []walker.AssetFile) *model.SemanticModel {
	sm := model.NewSemanticModel()

	b.assignModuleIDs(modules)
	sm.Root = b.buildNamespaceTree(modules)

	for _, mod := range modules {
		sm.AddModule(mod)
		b.modulesByID[mod.ID] = mod
		b.assignEntityIDs(mod)
	}
	b.attachAssets(modules, assets)
	for _, mod := range modules {
		for _, t := range mod.Types {
			sm.AddType(t)
			b.indexTypeName(t)
			for _, m := range t.Methods {
				sm.AddRoutine(m)
			}
			for _, a := range t.Members {
				sm.AddAttribute(a)
			}
		}
		for _, fn := range mod.Functions {
			sm.AddRoutine(fn)
		}
		for _, c := range mod.Constants {
			sm.AddAttribute(c)
		}
	}

	b.resolveImports(modules, sm)
	b.resolveReferences(modules, sm)

	return sm
}

// assignModuleIDs gives every Module a deterministic ID keyed by its own
// path (spec §3's <kind>:<file>:<qualified-name> shape, with the path
// itself standing in as the qualified name for a Module entity). The
// Walker guarantees distinct paths, so no disambiguator is ever needed
// here.
func (b *Builder) assignModuleIDs(modules []*model.Module) {
	seen := make(map[string]bool, len(modules))
	for _, mod := range modules {
		mod.ID = model.BuildID(model.KindModule, mod.Path, "", 0)
		if seen[mod.ID] {
			b.diags.Add(diag.Diagnostic{
				Kind: diag.IdentifierCollision, Path: mod.Path,
				Message: "duplicate module path",
			})
		}
		seen[mod.ID] = true
	}
}

// buildNamespaceTree assembles the project's namespace hierarchy (spec
// §4.3 step 1). Python and JS/TS modules are placed by directory path;
// PHP modules are placed by their declared namespace (Module.Package),
// falling back to directory path when the file declares none.
func (b *Builder) buildNamespaceTree(modules []*model.Module) *model.Namespace {
	root := &model.Namespace{ID: "namespace:", Name: "", Path: ""}
	index := map[string]*model.Namespace{"": root}

	ensure := func(dotted string) *model.Namespace {
		if dotted == "" {
			return root
		}
		if ns, ok := index[dotted]; ok {
			return ns
		}
		segments := strings.Split(dotted, ".")
		parent := root
		built := ""
		for _, seg := range segments {
			if seg == "" {
				continue
			}
			if built == "" {
				built = seg
			} else {
				built = built + "." + seg
			}
			if ns, ok := index[built]; ok {
				parent = ns
				continue
			}
			ns := &model.Namespace{ID: "namespace:" + built, Name: seg, Path: built, Parent: parent}
			parent.Children = append(parent.Children, ns)
			index[built] = ns
			parent = ns
		}
		return parent
	}

	for _, mod := range modules {
		dotted := mod.Namespace
		if dotted == "" {
			dotted = namespaceFor(mod)
		}
		ns := ensure(dotted)
		ns.Modules = append(ns.Modules, mod)
		mod.Namespace = dotted
	}
	return root
}

// namespaceFor derives a dotted namespace path for a module that didn't
// already carry one: PHP's declared Package when present, otherwise the
// file's directory path with slashes turned to dots (spec §4.3 step 1's
// directory-hierarchy rule for Python/JS-TS).
func namespaceFor(mod *model.Module) string {
	if mod.Language == model.LangPHP && mod.Package != "" {
		return strings.ReplaceAll(mod.Package, "\\", ".")
	}
	dir := path.Dir(mod.Path)
	if dir == "." || dir == "" {
		return ""
	}
	return strings.ReplaceAll(dir, "/", ".")
}

// attachAssets assigns each Walker-discovered non-language file to the
// Module sharing its directory, so the package's non-code files travel
// with the Module they belong to (SPEC_FULL.md §3 asset capture). When
// several Modules share a directory the first in path order is the owner,
// matching the stable ordering the rest of Build relies on. An asset whose
// directory holds no parsed Module is dropped: there is no owning entity
// to attach it to.
func (b *Builder) attachAssets(modules []*model.Module, assets []walker.AssetFile) {
	if len(assets) == 0 {
		return
	}
	byDir := make(map[string]*model.Module, len(modules))
	for _, mod := range modules {
		dir := path.Dir(mod.Path)
		if _, ok := byDir[dir]; !ok {
			byDir[dir] = mod
		}
	}
	for _, a := range assets {
		mod, ok := byDir[path.Dir(a.RelPath)]
		if !ok {
			continue
		}
		mod.Assets = append(mod.Assets, &model.Asset{Name: path.Base(a.RelPath), Path: a.RelPath})
	}
}

// assignEntityIDs allocates final identifiers for every type, routine, and
// attribute owned (directly or transitively) by mod (spec §4.3 step 2),
// preserving each entity's QualifiedName for display and recording a
// diagnostic whenever a collision forced a disambiguator.
func (b *Builder) assignEntityIDs(mod *model.Module) {
	for _, t := range mod.Types {
		b.allocType(mod, t)
	}
	for _, fn := range mod.Functions {
		b.allocRoutine(mod, mod.ID, fn.Name, fn)
	}
	for _, c := range mod.Constants {
		b.allocAttribute(mod, mod.ID, c.Name, c)
	}
}

func (b *Builder) allocType(mod *model.Module, t *model.TypeDecl) {
	id, collided := b.typeAlloc.Allocate(mod.Path, t.QualifiedName)
	if collided {
		b.diags.Add(diag.Diagnostic{
			Kind: diag.IdentifierCollision, Path: mod.Path,
			Message: "duplicate type qualified name " + t.QualifiedName + ", disambiguated",
		})
	}
	t.ID = id
	t.Owner = mod.ID
	for _, m := range t.Methods {
		b.allocRoutine(mod, t.ID, t.QualifiedName+"."+m.Name, m)
	}
	for _, a := range t.Members {
		b.allocAttribute(mod, t.ID, t.QualifiedName+"."+a.Name, a)
	}
}

func (b *Builder) allocRoutine(mod *model.Module, ownerID, qualifiedName string, r *model.Routine) {
	id, collided := b.routineAlloc.Allocate(mod.Path, qualifiedName)
	if collided {
		b.diags.Add(diag.Diagnostic{
			Kind: diag.IdentifierCollision, Path: mod.Path,
			Message: "duplicate routine qualified name " + qualifiedName + ", disambiguated",
		})
	}
	r.ID = id
	r.Owner = ownerID
}

func (b *Builder) allocAttribute(mod *model.Module, ownerID, qualifiedName string, a *model.Attribute) {
	id, collided := b.attributeAlloc.Allocate(mod.Path, qualifiedName)
	if collided {
		b.diags.Add(diag.Diagnostic{
			Kind: diag.IdentifierCollision, Path: mod.Path,
			Message: "duplicate attribute qualified name " + qualifiedName + ", disambiguated",
		})
	}
	a.ID = id
	a.Owner = ownerID
}

func (b *Builder) indexTypeName(t *model.TypeDecl) {
	b.typesByName[t.Name] = append(b.typesByName[t.Name], t)
}

// resolveImports walks every Module's raw Import list and fills in
// Resolved (spec §4.3 step 3's first cascade tier): a Module ID when the
// import's path matches a known module by path or package, External
// otherwise.
func (b *Builder) resolveImports(modules []*model.Module, sm *model.SemanticModel) {
	byPath := make(map[string]*model.Module, len(modules))
	byPackage := make(map[string]*model.Module, len(modules))
	for _, mod := range modules {
		byPath[mod.Path] = mod
		if mod.Package != "" {
			byPackage[mod.Package] = mod
		}
	}

	for _, mod := range modules {
		for _, imp := range mod.Imports {
			imp.Resolved = resolveImportTarget(mod, imp, byPath, byPackage)
			if model.IsExternal(imp.Resolved) {
				msg := "import " + imp.Path + " could not be resolved within the project"
				b.diags.Add(diag.Diagnostic{
					Kind: diag.ResolutionMiss, Path: mod.Path, Line: importLine(imp),
					Message: msg,
				})
				mod.Diagnostic = append(mod.Diagnostic, msg)
			}
		}
	}
}

func importLine(imp *model.Import) int {
	if imp.Location == nil {
		return 0
	}
	return imp.Location.Line
}

func resolveImportTarget(mod *model.Module, imp *model.Import, byPath, byPackage map[string]*model.Module) string {
	candidates := importCandidates(mod, imp)
	for _, c := range candidates {
		if target, ok := byPath[c]; ok {
			return target.ID
		}
	}
	dotted := strings.ReplaceAll(strings.Trim(imp.Path, "./\\"), "/", ".")
	dotted = strings.ReplaceAll(dotted, "\\", ".")
	if target, ok := byPackage[dotted]; ok {
		return target.ID
	}
	if target, ok := byPackage[imp.Path]; ok {
		return target.ID
	}
	return model.ExternalRef(imp.Path)
}

// importCandidates builds the set of project-relative file paths imp might
// refer to, accounting for Python-style relative dotted imports and bare
// JS/TS relative paths; PHP namespace imports are resolved via byPackage
// instead since they never look like file paths.
func importCandidates(mod *model.Module, imp *model.Import) []string {
	base := path.Dir(mod.Path)
	raw := imp.Path

	if imp.Relative || strings.HasPrefix(raw, ".") {
		dir := base
		for i := 0; i < imp.Depth-1; i++ {
			dir = path.Dir(dir)
		}
		rel := strings.ReplaceAll(strings.TrimLeft(raw, "."), ".", "/")
		rel = strings.TrimPrefix(rel, "/")
		joined := path.Clean(path.Join(dir, rel))
		return withExtensions(joined)
	}

	if strings.Contains(raw, "/") {
		return withExtensions(path.Clean(path.Join(base, raw)))
	}

	slashed := strings.ReplaceAll(raw, ".", "/")
	candidates := withExtensions(slashed)
	candidates = append(candidates, withExtensions(path.Join(base, slashed))...)
	return candidates
}

func withExtensions(p string) []string {
	exts := []string{".py", ".php", ".js", ".jsx", ".ts", ".tsx", ".mjs", ".mts", ".cjs", ".cts"}
	out := make([]string, 0, len(exts)+1)
	out = append(out, p)
	for _, e := range exts {
		out = append(out, p+e)
	}
	return out
}

// resolveReferences seals every TypeRef in the model -- base/implements/
// uses-trait lists, parameter and return types, attribute types -- against
// a concrete TypeDecl ID or External, per the three-tier cascade of spec
// §4.3 step 3: (a) the referencing module's resolved imports, (b) the
// same module's own types, (c) a project-wide name index. Ambiguity on
// tier (c) resolves to the first match in stable path order, since the
// project-wide index was built while iterating modules in that order.
func (b *Builder) resolveReferences(modules []*model.Module, sm *model.SemanticModel) {
	for _, mod := range modules {
		for _, t := range mod.Types {
			b.resolveRefList(mod, t.Bases)
			b.resolveRefList(mod, t.Implements)
			b.resolveRefList(mod, t.UsesTraits)
			for _, m := range t.Methods {
				b.resolveRoutineRefs(mod, m)
			}
			for _, a := range t.Members {
				b.resolveAttributeRef(mod, a)
			}
		}
		for _, fn := range mod.Functions {
			b.resolveRoutineRefs(mod, fn)
		}
		for _, c := range mod.Constants {
			b.resolveAttributeRef(mod, c)
		}
	}
}

func (b *Builder) resolveRoutineRefs(mod *model.Module, r *model.Routine) {
	for _, p := range r.Parameters {
		b.resolveRef(mod, p.Type)
	}
	b.resolveRef(mod, r.Returns)
}

func (b *Builder) resolveAttributeRef(mod *model.Module, a *model.Attribute) {
	b.resolveRef(mod, a.Type)
}

func (b *Builder) resolveRefList(mod *model.Module, refs []*model.TypeRef) {
	for _, ref := range refs {
		b.resolveRef(mod, ref)
	}
}

// resolveRef fills ref.ID following the tier (a)/(b)/(c) cascade. A nil
// ref (no declared type) is left untouched.
func (b *Builder) resolveRef(mod *model.Module, ref *model.TypeRef) {
	if ref == nil || ref.Text == "" {
		return
	}
	bare := bareTypeName(ref.Text)
	if bare == "" {
		ref.ID = model.ExternalRef(ref.Text)
		return
	}

	for _, imp := range mod.Imports {
		name := imp.Name
		if name == "" {
			name = path.Base(strings.TrimRight(imp.Path, "/"))
		}
		if name != bare || model.IsExternal(imp.Resolved) {
			continue
		}
		if target := b.lookupModule(imp.Resolved); target != nil {
			if t := target.LookupType(bare); t != nil {
				ref.ID = t.ID
				return
			}
		}
	}

	if t := mod.LookupType(bare); t != nil {
		ref.ID = t.ID
		return
	}

	if cands := b.typesByName[bare]; len(cands) > 0 {
		ref.ID = cands[0].ID
		return
	}

	ref.ID = model.ExternalRef(ref.Text)
	b.diags.Add(diag.Diagnostic{
		Kind: diag.ResolutionMiss, Path: mod.Path,
		Message: "reference " + ref.Text + " could not be resolved within the project",
	})
}

func (b *Builder) lookupModule(id string) *model.Module {
	return b.modulesByID[id]
}

// bareTypeName strips generics, array markers, and nullability sigils from
// a raw type-reference string down to the identifier the project-wide
// index is keyed on; a generic reference reduces to its last type argument
// (e.g. "List[User]" -> "User", "?Order" -> "Order",
// "Animal[]" -> "Animal", "App\\Models\\User" -> "User").
func bareTypeName(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "?")
	s = strings.TrimSuffix(s, "[]")
	if i := strings.IndexAny(s, "[<"); i >= 0 {
		inner := strings.TrimRight(s[i+1:], "]>")
		if j := strings.LastIndex(inner, ","); j >= 0 {
			inner = inner[j+1:]
		}
		if strings.TrimSpace(inner) != "" {
			return bareTypeName(inner)
		}
		s = s[:i]
	}
	if i := strings.LastIndex(s, "\\"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

