package model

// SemanticModel is the unified, cross-language, read-after-build project
// representation (spec §3/§GLOSSARY). It is assembled once by the Model
// Builder, then only ever appended to (never mutated structurally) by the
// Relationship Detector and Flow Analyzer, per the lifecycle rule in
// spec §3.
type SemanticModel struct {
	Root       *Namespace
	Modules    []*Module
	Types      []*TypeDecl
	Routines   []*Routine
	Attributes []*Attribute
	Edges      []Edge
	Flows      []*FlowTrace

	// Incomplete is set when a cancellation signal truncated the pipeline
	// between phase boundaries (spec §5 "Cancellation").
	Incomplete bool

	modulesByID    map[string]*Module
	typesByID      map[string]*TypeDecl
	routinesByID   map[string]*Routine
	attributesByID map[string]*Attribute
}

// NewSemanticModel returns an empty model ready for the Model Builder to
// populate.
func NewSemanticModel() *SemanticModel {
	return &SemanticModel{
		modulesByID:    make(map[string]*Module),
		typesByID:      make(map[string]*TypeDecl),
		routinesByID:   make(map[string]*Routine),
		attributesByID: make(map[string]*Attribute),
	}
}

// AddModule appends a module and indexes it by ID.
func (m *SemanticModel) AddModule(mod *Module) {
	m.Modules = append(m.Modules, mod)
	m.modulesByID[mod.ID] = mod
}

// AddType appends a type and indexes it by ID.
func (m *SemanticModel) AddType(t *TypeDecl) {
	m.Types = append(m.Types, t)
	m.typesByID[t.ID] = t
}

// AddRoutine appends a routine and indexes it by ID.
func (m *SemanticModel) AddRoutine(r *Routine) {
	m.Routines = append(m.Routines, r)
	m.routinesByID[r.ID] = r
}

// AddAttribute appends an attribute and indexes it by ID.
func (m *SemanticModel) AddAttribute(a *Attribute) {
	m.Attributes = append(m.Attributes, a)
	m.attributesByID[a.ID] = a
}

// AddEdge appends a relationship edge to the flat edge table (spec §9).
func (m *SemanticModel) AddEdge(e Edge) {
	m.Edges = append(m.Edges, e)
}

// AddFlow appends a Flow Trace.
func (m *SemanticModel) AddFlow(f *FlowTrace) {
	m.Flows = append(m.Flows, f)
}

// GetModule resolves a Module by ID.
func (m *SemanticModel) GetModule(id string) *Module { return m.modulesByID[id] }

// GetType resolves a TypeDecl by ID.
func (m *SemanticModel) GetType(id string) *TypeDecl { return m.typesByID[id] }

// GetRoutine resolves a Routine by ID.
func (m *SemanticModel) GetRoutine(id string) *Routine { return m.routinesByID[id] }

// GetAttribute resolves an Attribute by ID.
func (m *SemanticModel) GetAttribute(id string) *Attribute { return m.attributesByID[id] }

// EdgesByKind returns the edges of exactly one kind, in insertion order.
func (m *SemanticModel) EdgesByKind(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range m.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Summary is the spec §6 AnalysisResult summary: counts per entity kind, per
// edge kind, and per terminal marker.
type Summary struct {
	Entities   map[Kind]int
	Edges      map[EdgeKind]int
	Terminals  map[Terminal]int
}

// BuildSummary computes the §6 summary counts from the current model state.
func (m *SemanticModel) BuildSummary() Summary {
	s := Summary{
		Entities:  make(map[Kind]int),
		Edges:     make(map[EdgeKind]int),
		Terminals: make(map[Terminal]int),
	}
	s.Entities[KindModule] = len(m.Modules)
	s.Entities[KindType] = len(m.Types)
	s.Entities[KindRoutine] = len(m.Routines)
	s.Entities[KindAttribute] = len(m.Attributes)
	for _, e := range m.Edges {
		s.Edges[e.Kind]++
	}
	for _, f := range m.Flows {
		s.Terminals[f.Terminal]++
	}
	return s
}
