package model

// TypeKind distinguishes the four polymorphic TypeDecl variants spec.md §3
// requires (class, interface, trait, enum). A tagged field rather than
// separate Go types keeps identifier uniqueness (§8.2) checkable without a
// type switch per spec.md §9's guidance.
type TypeKind string

const (
	TypeClass     TypeKind = "class"
	TypeInterface TypeKind = "interface"
	TypeTrait     TypeKind = "trait"
	TypeEnum      TypeKind = "enum"
)

// Visibility captures language visibility modifiers (PHP public/protected/
// private, TypeScript accessibility, JS #private names); the Python
// front-end derives it from a leading underscore in the name.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityUnset     Visibility = ""
)

// TypeRef is a not-yet-or-already-resolved reference to another TypeDecl:
// Text is the raw source expression, ID is either a TypeDecl
// identifier or External once the Model Builder has resolved it
// (spec §4.3 step 3/4).
type TypeRef struct {
	Text string `yaml:"text,omitempty"`
	ID   string `yaml:"id,omitempty"`
}

// TypeDecl is the spec's §3 polymorphic class/interface/trait/enum entity.
type TypeDecl struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	QualifiedName string        `yaml:"qualified_name,omitempty"` // preserved pre-disambiguation name, spec §4.3 step 2
	Kind          TypeKind      `yaml:"kind"`
	Owner         string        `yaml:"owner"` // owning Module ID
	Bases         []*TypeRef    `yaml:"bases,omitempty"`
	Implements    []*TypeRef    `yaml:"implements,omitempty"`
	UsesTraits    []*TypeRef    `yaml:"uses_traits,omitempty"`
	Members       []*Attribute  `yaml:"members,omitempty"`
	Methods       []*Routine    `yaml:"methods,omitempty"`
	Location      *Location     `yaml:"location,omitempty"`
	Doc           *LocationNode `yaml:"doc,omitempty"`
	Decorators    []*Decorator  `yaml:"decorators,omitempty"` // spec §4.2.3; empty for Python/PHP types
	Visibility    Visibility    `yaml:"visibility,omitempty"`
	IsAbstract    bool          `yaml:"is_abstract,omitempty"`
	IsFinal       bool          `yaml:"is_final,omitempty"`
	IsExported    bool          `yaml:"is_exported,omitempty"` // non-underscore-prefixed / public, spec §4.5 entry rule
	BestEffort    bool          `yaml:"best_effort,omitempty"` // set when produced by a degraded/fallback front-end

	memberIdx map[string]int
	methodIdx map[string]int
}

func (t *TypeDecl) indexMembers() {
	t.memberIdx = make(map[string]int, len(t.Members))
	for i, m := range t.Members {
		if m == nil {
			continue
		}
		if _, ok := t.memberIdx[m.Name]; !ok {
			t.memberIdx[m.Name] = i
		}
	}
}

// GetMember looks up a field/property/constant by name.
func (t *TypeDecl) GetMember(name string) *Attribute {
	if t.memberIdx == nil {
		t.indexMembers()
	}
	if idx, ok := t.memberIdx[name]; ok && idx < len(t.Members) {
		return t.Members[idx]
	}
	return nil
}

func (t *TypeDecl) indexMethods() {
	t.methodIdx = make(map[string]int, len(t.Methods))
	for i, m := range t.Methods {
		if m == nil {
			continue
		}
		if _, ok := t.methodIdx[m.Name]; !ok {
			t.methodIdx[m.Name] = i
		}
	}
}

// GetMethod looks up a method declared directly on this type (does not walk
// inheritance; that is the Flow Analyzer's job, spec §4.5 step 2b).
func (t *TypeDecl) GetMethod(name string) *Routine {
	if t.methodIdx == nil {
		t.indexMethods()
	}
	if idx, ok := t.methodIdx[name]; ok && idx < len(t.Methods) {
		return t.Methods[idx]
	}
	return nil
}

// AttributeKind is the spec §3 Attribute kind tag.
type AttributeKind string

const (
	AttrInstance AttributeKind = "instance"
	AttrClass    AttributeKind = "class-level"
	AttrProperty AttributeKind = "property"
	AttrConstant AttributeKind = "constant"
)

// Attribute is the spec's §3 Attribute entity (instance/class field,
// property, or constant).
type Attribute struct {
	ID         string        `yaml:"id"`
	Name       string        `yaml:"name"`
	Owner      string        `yaml:"owner,omitempty"` // owning TypeDecl ID, or the owning Module ID for module-level constants
	Type       *TypeRef      `yaml:"type,omitempty"`
	Default    string        `yaml:"default,omitempty"` // verbatim default/initialiser expression
	Kind       AttributeKind `yaml:"kind"`
	Visibility Visibility    `yaml:"visibility,omitempty"`
	IsStatic   bool          `yaml:"is_static,omitempty"`
	Location   *Location     `yaml:"location,omitempty"`
	Doc        string        `yaml:"doc,omitempty"`
}
