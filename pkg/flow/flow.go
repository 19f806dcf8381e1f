// Package flow implements the Flow Analyzer (spec.md §4.5, component C5):
// it walks call sites recorded by the Language Front-Ends outward from
// every entry routine, resolving each callee through the cascade spec
// §4.5 step 2 describes, and emits one bounded Flow Trace per top-level
// call site.
//
// Grounded on the teacher's scope-walking style in analyzer/linage/
// scope.go (name resolution against an enclosing scope, then a parent
// chain) generalised to the inheritance-aware MRO cascade spec §4.5
// requires; the call-site-scan-then-resolve split mirrors how each
// front-end already separates body capture (Routine.CallSites, filled at
// parse time) from resolution (done here, once the whole model exists).
package flow

import (
	"strconv"
	"strings"

	"github.com/viant/codegraph/pkg/model"
)

// DefaultMaxDepth is spec §6's default for flow.max_depth.
const DefaultMaxDepth = 5

// Config controls entry-routine selection and recursion bounds.
type Config struct {
	// MaxDepth bounds call-chain recursion (spec §4.5 step 3). <= 0 is
	// treated as DefaultMaxDepth.
	MaxDepth int

	// EntryPoints optionally restricts entry routines to this explicit
	// set of Routine IDs (spec §6 "flow.entry_points"). Empty means "every
	// public routine in the project" (spec §4.5 default rule).
	EntryPoints []string
}

// Analyze computes and appends one Flow Trace per top-level call site of
// every entry routine in sm (spec §4.5 step 4), in entry-routine order
// (itself in the deterministic order SemanticModel.Routines was built).
func Analyze(sm *model.SemanticModel, cfg Config) {
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	r := newResolver(sm)
	for _, entry := range selectEntries(sm, cfg) {
		for _, cs := range entry.CallSites {
			trace := r.trace(entry, cs, maxDepth)
			sm.AddFlow(trace)
		}
	}
}

// selectEntries returns the ordered set of entry routines: the explicit
// EntryPoints list when given, otherwise every exported routine in the
// project (spec §4.5 "by default, every public ... routine").
func selectEntries(sm *model.SemanticModel, cfg Config) []*model.Routine {
	if len(cfg.EntryPoints) > 0 {
		var out []*model.Routine
		for _, id := range cfg.EntryPoints {
			if r := sm.GetRoutine(id); r != nil {
				out = append(out, r)
			}
		}
		return out
	}
	var out []*model.Routine
	for _, r := range sm.Routines {
		if r.IsExported {
			out = append(out, r)
		}
	}
	return out
}

// resolver carries the lookup indexes used by the callee-resolution
// cascade (spec §4.5 step 2), built once and reused across every trace.
type resolver struct {
	sm *model.SemanticModel

	// byModuleAndName resolves a module-level function/lambda by name
	// within the module it was declared in (cascade tier a).
	byModuleAndName map[string]map[string]*model.Routine

	// typeOfRoutine maps a method's Routine ID back to its owning
	// TypeDecl, for the self/this cascade tier (b).
	typeOfRoutine map[string]*model.TypeDecl

	// moduleOfRoutine maps any routine's ID back to its declaring Module.
	moduleOfRoutine map[string]*model.Module
}

func newResolver(sm *model.SemanticModel) *resolver {
	r := &resolver{
		sm:              sm,
		byModuleAndName: make(map[string]map[string]*model.Routine),
		typeOfRoutine:   make(map[string]*model.TypeDecl),
		moduleOfRoutine: make(map[string]*model.Module),
	}
	for _, mod := range sm.Modules {
		names := make(map[string]*model.Routine, len(mod.Functions))
		for _, fn := range mod.Functions {
			names[fn.Name] = fn
			r.moduleOfRoutine[fn.ID] = mod
		}
		r.byModuleAndName[mod.ID] = names
	}
	for _, t := range sm.Types {
		mod := sm.GetModule(t.Owner)
		for _, m := range t.Methods {
			r.typeOfRoutine[m.ID] = t
			if mod != nil {
				r.moduleOfRoutine[m.ID] = mod
			}
		}
	}
	return r
}

// trace walks outward from one top-level call site of entry, bounded by
// maxDepth, cycle-breaking on any routine revisited along the current
// path (spec §4.5 step 3).
func (r *resolver) trace(entry *model.Routine, root *model.CallSite, maxDepth int) *model.FlowTrace {
	ft := &model.FlowTrace{Entry: entry.ID}
	visited := map[string]bool{entry.ID: true}
	r.walk(entry, root, 1, maxDepth, visited, ft)
	ft.Fingerprint, _ = model.Hash([]byte(fingerprintKey(ft)))
	return ft
}

// fingerprintKey builds the deterministic byte string FlowTrace.Fingerprint
// is hashed from: the entry routine, every hop in order, and the terminal
// marker, so two traces are recognised as the same call chain regardless of
// when or how many times they were recomputed.
func fingerprintKey(ft *model.FlowTrace) string {
	var b strings.Builder
	b.WriteString(ft.Entry)
	for _, h := range ft.Hops {
		b.WriteByte('|')
		b.WriteString(h.Caller)
		b.WriteByte('>')
		b.WriteString(h.Callee)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(h.Line))
	}
	b.WriteByte('|')
	b.WriteString(string(ft.Terminal))
	return b.String()
}

// walk resolves one call site and either appends a terminal hop or
// recurses into the resolved callee, exactly one hop per call.
func (r *resolver) walk(caller *model.Routine, cs *model.CallSite, depth, maxDepth int, visited map[string]bool, ft *model.FlowTrace) {
	callee, note := r.resolve(caller, cs)

	if callee == nil {
		ft.Hops = append(ft.Hops, model.Hop{
			Caller: caller.ID, Callee: model.ExternalRef(calleeText(cs)),
			CallText: calleeText(cs), Line: cs.Line, Note: note,
		})
		ft.Terminal = model.TerminalUnresolved
		return
	}

	hop := model.Hop{
		Caller: caller.ID, Callee: callee.ID,
		CallText: calleeText(cs), Line: cs.Line, Note: note,
	}

	if visited[callee.ID] {
		ft.Hops = append(ft.Hops, hop)
		ft.Terminal = model.TerminalCycleBreak
		return
	}
	if depth >= maxDepth {
		ft.Hops = append(ft.Hops, hop)
		ft.Terminal = model.TerminalDepthLimit
		return
	}
	if len(callee.CallSites) == 0 {
		ft.Hops = append(ft.Hops, hop)
		ft.Terminal = model.TerminalLeaf
		return
	}

	ft.Hops = append(ft.Hops, hop)
	visited[callee.ID] = true
	// Only the first outgoing call of an inner routine continues this
	// trace; a routine's remaining call sites are only explored when they
	// are themselves entry routines (spec §4.5 step 4: "one trace per
	// top-level branch" of the entry routine, not a full call tree).
	r.walk(callee, callee.CallSites[0], depth+1, maxDepth, visited, ft)
}

func calleeText(cs *model.CallSite) string {
	if cs.Receiver != "" {
		return cs.Receiver + "." + cs.Callee
	}
	return cs.Callee
}

// resolve implements spec §4.5 step 2's cascade, returning the matched
// Routine (or nil, meaning External) and an optional tie-break note.
func (r *resolver) resolve(caller *model.Routine, cs *model.CallSite) (*model.Routine, string) {
	// (a) direct name match in the enclosing scope: same module's
	// functions, or (when caller is a method) the owning type's own
	// methods for a bare unqualified call.
	if cs.Receiver == "" {
		if owner, ok := r.typeOfRoutine[caller.ID]; ok {
			if m := owner.GetMethod(cs.Callee); m != nil {
				return m, ""
			}
		}
		if mod, ok := r.moduleOfRoutine[caller.ID]; ok {
			if names := r.byModuleAndName[mod.ID]; names != nil {
				if fn, ok := names[cs.Callee]; ok {
					return fn, "" // local name wins over imported, spec §4.5 tie-break
				}
			}
		}
	}

	// (b) self.method(...) / this.method(...): owning TypeDecl's method
	// set, then walk inheritance (MRO).
	if isSelfReceiver(cs.Receiver) {
		if owner, ok := r.typeOfRoutine[caller.ID]; ok {
			if m, note := r.resolveInType(owner, cs.Callee); m != nil {
				return m, note
			}
		}
	}

	// (c) receiver with a known declared type: parameter annotation or
	// attribute declared type, resolved as a method lookup with
	// inheritance walk.
	if cs.Receiver != "" {
		if t := r.receiverType(caller, cs.Receiver); t != nil {
			if m, note := r.resolveInType(t, cs.Callee); m != nil {
				return m, note
			}
		}
	}

	return nil, ""
}

// resolveInType looks up name directly on t, then walks t's resolved base
// types (MRO) -- left-to-right depth-first with duplicate suppression, per
// spec §4.5 step 2b. A note is attached only when more than one base
// could have supplied the match (a true multiple-inheritance tie).
func (r *resolver) resolveInType(t *model.TypeDecl, name string) (*model.Routine, string) {
	if m := t.GetMethod(name); m != nil {
		return m, ""
	}
	seen := map[string]bool{t.ID: true}
	return r.resolveInBases(t, name, seen, len(t.Bases) > 1)
}

func (r *resolver) resolveInBases(t *model.TypeDecl, name string, seen map[string]bool, multiBase bool) (*model.Routine, string) {
	for i, ref := range t.Bases {
		if ref == nil || seen[ref.ID] || model.IsExternal(ref.ID) {
			continue
		}
		seen[ref.ID] = true
		base := r.sm.GetType(ref.ID)
		if base == nil {
			continue
		}
		if m := base.GetMethod(name); m != nil {
			if multiBase && r.declaredInAny(t.Bases[i+1:], name) {
				return m, "resolved via left-most base " + base.Name
			}
			return m, ""
		}
		if m, note := r.resolveInBases(base, name, seen, multiBase); m != nil {
			return m, note
		}
	}
	return nil, ""
}

// declaredInAny reports whether any of refs directly declares a method
// named name.
func (r *resolver) declaredInAny(refs []*model.TypeRef, name string) bool {
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		if b := r.sm.GetType(ref.ID); b != nil && b.GetMethod(name) != nil {
			return true
		}
	}
	return false
}

// receiverType resolves a call-site receiver expression to a declared
// TypeDecl: a parameter of caller with that name, or an attribute of
// caller's owning type with that name (spec §4.5 step 2c).
func (r *resolver) receiverType(caller *model.Routine, receiver string) *model.TypeDecl {
	for _, p := range caller.Parameters {
		if p.Name == receiver && p.Type != nil {
			return r.sm.GetType(p.Type.ID)
		}
	}
	if owner, ok := r.typeOfRoutine[caller.ID]; ok {
		if a := owner.GetMember(receiver); a != nil && a.Type != nil {
			return r.sm.GetType(a.Type.ID)
		}
	}
	return nil
}

func isSelfReceiver(receiver string) bool {
	return receiver == "self" || receiver == "this"
}
