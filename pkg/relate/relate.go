// Package relate implements the Relationship Detector (spec.md §4.4,
// component C4): it derives composition/aggregation/association/imports
// edges from the already-resolved Semantic Model and appends them to the
// flat edge table. inherits/implements/uses-trait edges are emitted
// straight from the Model Builder's already-resolved TypeDecl.Bases/
// Implements/UsesTraits lists, without resolving them again.
//
// Grounded on the teacher's relationship-walking style in
// analyzer/linage/scope.go (attribute-by-attribute scan building one edge
// per resolved reference), generalised to the five relationship kinds
// spec §4.4 names. Recognising "freshly constructed" vs. "supplied by a
// constructor parameter" initialisers is done the same way
// walker/detector.go recognises project markers: a small regular
// expression over the verbatim initialiser text captured by each
// front-end, rather than re-parsing source.
package relate

import (
	"regexp"
	"strings"

	"github.com/viant/codegraph/pkg/model"
)

// constructorNames lists the per-language constructor method name each
// front-end uses, checked in order since a TypeDecl's Owner module fixes
// its language.
var constructorNames = []string{"__init__", "__construct", "constructor"}

// freshConstruction matches a bare "Identifier(..." or "new Identifier("
// initialiser -- spec §4.4 rule 2's "constructor invocation of T on the
// right-hand side".
var freshConstruction = regexp.MustCompile(`^(?:new\s+)?([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// bareIdentifier matches an initialiser that is just a name, e.g. the
// `self.driver = driver` shape of spec §4.4 rule 3.
var bareIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Detect appends every relationship edge spec §4.4 describes to sm.Edges:
// inherits/implements/uses-trait first (straight from the Builder's
// already-resolved lists), then imports, then one composition/
// aggregation/association pass per TypeDecl.
func Detect(sm *model.SemanticModel) {
	detectInheritance(sm)
	detectImports(sm)

	byName := typesByName(sm)
	for _, t := range sm.Types {
		detectFieldRelationships(sm, t, byName)
		detectAssociations(sm, t)
	}
}

func typesByName(sm *model.SemanticModel) map[string][]*model.TypeDecl {
	idx := make(map[string][]*model.TypeDecl, len(sm.Types))
	for _, t := range sm.Types {
		idx[t.Name] = append(idx[t.Name], t)
	}
	return idx
}

func detectInheritance(sm *model.SemanticModel) {
	for _, t := range sm.Types {
		emitEdge(sm, t, t.Bases, model.EdgeInherits)
		emitEdge(sm, t, t.Implements, model.EdgeImplements)
		emitEdge(sm, t, t.UsesTraits, model.EdgeUsesTrait)
	}
}

func emitEdge(sm *model.SemanticModel, t *model.TypeDecl, refs []*model.TypeRef, kind model.EdgeKind) {
	for _, ref := range refs {
		if ref == nil || ref.ID == "" {
			continue
		}
		sm.AddEdge(model.Edge{
			Source: t.ID, Target: ref.ID, Kind: kind,
			Cardinality: model.CardinalityOne,
			Provenance:  model.Provenance{File: ownerPath(sm, t), Line: locLine(t.Location)},
		})
	}
}

// detectImports emits one imports edge per resolved Import, from the
// owning Module to the Import's resolved Module ID. An import resolved to
// External gets no edge; its External ID stays on Import.Resolved for
// diagnostics (spec §4.4 rule 1).
func detectImports(sm *model.SemanticModel) {
	for _, mod := range sm.Modules {
		for _, imp := range mod.Imports {
			if model.IsExternal(imp.Resolved) {
				continue
			}
			sm.AddEdge(model.Edge{
				Source: mod.ID, Target: imp.Resolved, Kind: model.EdgeImports,
				Cardinality: model.CardinalityOne,
				Provenance:  model.Provenance{File: mod.Path, Line: importLine(imp)},
			})
		}
	}
}

// detectFieldRelationships implements spec §4.4 rules 2/3/5: for every
// instance attribute of t, decide whether its initialiser is a fresh
// construction of its declared (or inferred) type -- composition -- or a
// pass-through of a same-named constructor parameter -- aggregation.
// Each rule fires at most once per (source, target) pair; composition
// wins the tie when the same target qualifies for both on different
// attributes (spec §4.4 rule 2 "if both sides are present").
func detectFieldRelationships(sm *model.SemanticModel, t *model.TypeDecl, byName map[string][]*model.TypeDecl) {
	ctor := findConstructor(t)
	ctorParamTypes := paramTypesByName(sm, ctor)

	type pick struct {
		kind     model.EdgeKind
		many     bool
		optional bool
		line     int
	}
	best := make(map[string]pick)
	order := make([]string, 0, len(t.Members))

	consider := func(target string, kind model.EdgeKind, many, optional bool, line int) {
		if target == "" || target == t.ID {
			return
		}
		cur, exists := best[target]
		if !exists {
			order = append(order, target)
			best[target] = pick{kind: kind, many: many, optional: optional, line: line}
			return
		}
		if priority(kind) < priority(cur.kind) {
			cur.kind = kind
			best[target] = cur
		}
	}

	for _, a := range t.Members {
		if a.IsStatic {
			continue
		}
		def := strings.TrimSpace(a.Default)
		many := a.Type != nil && isContainerType(a.Type.Text)
		optional := a.Type != nil && isOptionalType(a.Type.Text)
		line := locLine(a.Location)

		if m := freshConstruction.FindStringSubmatch(def); m != nil {
			if target := resolveTypeRef(a, m[1], byName); target != "" {
				consider(target, model.EdgeComposes, many, optional, line)
				continue
			}
		}
		if bareIdentifier.MatchString(def) {
			if pt, ok := ctorParamTypes[def]; ok {
				consider(pt.ID, model.EdgeAggregates, many, optional, line)
				continue
			}
		}
	}

	for _, target := range order {
		p := best[target]
		sm.AddEdge(model.Edge{
			Source: t.ID, Target: target, Kind: p.kind,
			Cardinality: cardinality(p.many), Optional: p.optional,
			Provenance: model.Provenance{File: ownerPath(sm, t), Line: p.line},
		})
	}
}

// detectAssociations implements spec §4.4 rule 4: a method of t
// referencing a project type T in a parameter or return type, where t
// does not already hold an edge of any kind (inheritance included) to T.
func detectAssociations(sm *model.SemanticModel, t *model.TypeDecl) {
	existing := make(map[string]bool)
	for _, e := range sm.Edges {
		if e.Source == t.ID {
			existing[e.Target] = true
		}
	}

	for _, m := range t.Methods {
		for _, p := range m.Parameters {
			associateFromRef(sm, t, p.Type, existing)
		}
		associateFromRef(sm, t, m.Returns, existing)
	}
}

func associateFromRef(sm *model.SemanticModel, t *model.TypeDecl, ref *model.TypeRef, existing map[string]bool) {
	if ref == nil || ref.ID == "" || ref.ID == t.ID || model.IsExternal(ref.ID) || existing[ref.ID] {
		return
	}
	existing[ref.ID] = true
	sm.AddEdge(model.Edge{
		Source: t.ID, Target: ref.ID, Kind: model.EdgeAssociates,
		Cardinality: cardinality(isContainerType(ref.Text)), Optional: isOptionalType(ref.Text),
		Provenance: model.Provenance{File: ownerPath(sm, t), Line: locLine(t.Location)},
	})
}

// findConstructor returns t's constructor method under whichever of the
// three per-language names it was declared with, or nil.
func findConstructor(t *model.TypeDecl) *model.Routine {
	for _, name := range constructorNames {
		if m := t.GetMethod(name); m != nil {
			return m
		}
	}
	return nil
}

// paramTypesByName indexes ctor's parameters by name to their resolved
// TypeDecl, for aggregation's "assigned from a constructor parameter"
// check. A parameter with no declared type, or one that resolves to
// External, is simply absent from the index.
func paramTypesByName(sm *model.SemanticModel, ctor *model.Routine) map[string]*model.TypeDecl {
	out := make(map[string]*model.TypeDecl)
	if ctor == nil {
		return out
	}
	for _, p := range ctor.Parameters {
		if p.Type == nil || p.Type.ID == "" || model.IsExternal(p.Type.ID) {
			continue
		}
		if t := sm.GetType(p.Type.ID); t != nil {
			out[p.Name] = t
		}
	}
	return out
}

// resolveTypeRef prefers the attribute's own already-resolved declared
// type, falling back to a by-name lookup of the constructed identifier
// when the attribute carries no declared type annotation (the common case
// for Python's `self.x = Engine()` with no PEP 526 annotation).
func resolveTypeRef(a *model.Attribute, constructedName string, byName map[string][]*model.TypeDecl) string {
	if a.Type != nil && a.Type.ID != "" && !model.IsExternal(a.Type.ID) {
		return a.Type.ID
	}
	if cands := byName[constructedName]; len(cands) > 0 {
		return cands[0].ID
	}
	return ""
}

// priority ranks composition(1) over aggregation(2), matching spec §4.4
// rule 2's "if both sides are present, composition wins".
func priority(k model.EdgeKind) int {
	if k == model.EdgeComposes {
		return 1
	}
	return 2
}

func cardinality(many bool) model.Cardinality {
	if many {
		return model.CardinalityMany
	}
	return model.CardinalityOne
}

func isOptionalType(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "?")
}

// isContainerType reports whether text looks like a container-of-T
// declaration (spec §4.4 rule 5's cardinality hint): List[T]/T[]/array<T>
// shapes across the three front-ends.
func isContainerType(text string) bool {
	t := strings.TrimSpace(text)
	for _, marker := range []string{"[]", "[", "<"} {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

func importLine(imp *model.Import) int {
	if imp.Location == nil {
		return 0
	}
	return imp.Location.Line
}

func ownerPath(sm *model.SemanticModel, t *model.TypeDecl) string {
	if mod := sm.GetModule(t.Owner); mod != nil {
		return mod.Path
	}
	return ""
}

func locLine(loc *model.Location) int {
	if loc == nil {
		return 0
	}
	return loc.Line
}
