package model

// RoutineKind distinguishes the polymorphic Routine variants of spec §3:
// function, method, arrow/lambda, generator, async (the last two surface as
// flags, not separate kinds, since a routine can be both async and a
// generator).
type RoutineKind string

const (
	RoutineFunction RoutineKind = "function"
	RoutineMethod   RoutineKind = "method"
	RoutineLambda   RoutineKind = "lambda"
)

// Decorator is a syntactic decorator/annotation attached to a routine or
// type declaration, captured as raw name + argument list per spec §4.2.3
// (JS/TS `@decorator(args)`); Python decorators are consumed into flags
// (static/classmethod/abstract) rather than stored here, since spec.md only
// asks for structured decorator capture from the JS/TS front-end.
type Decorator struct {
	Name string `yaml:"name"`
	Args string `yaml:"args,omitempty"` // verbatim argument-list text, including parens; "" if none
}

// Parameter is an ordered formal parameter as described in spec §3/§4.2.1.
type Parameter struct {
	Name       string   `yaml:"name"`
	Type       *TypeRef `yaml:"type,omitempty"` // declared annotation, nil if absent/untyped
	HasDefault bool     `yaml:"has_default,omitempty"`
	Variadic   bool     `yaml:"variadic,omitempty"` // *args/**kwargs, PHP ...$x, JS ...rest
}

// Routine is the spec's §3 polymorphic function/method/lambda entity.
type Routine struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Kind        RoutineKind       `yaml:"kind"`
	Owner       string            `yaml:"owner,omitempty"` // Module ID (file-level) or TypeDecl ID (method)
	Parameters  []*Parameter      `yaml:"parameters,omitempty"`
	Returns     *TypeRef          `yaml:"returns,omitempty"` // declared return type, nil if absent/untyped
	IsStatic    bool              `yaml:"is_static,omitempty"`
	IsAbstract  bool              `yaml:"is_abstract,omitempty"`
	IsAsync     bool              `yaml:"is_async,omitempty"`
	IsGenerator bool              `yaml:"is_generator,omitempty"`
	Visibility  Visibility        `yaml:"visibility,omitempty"`
	Location    *Location         `yaml:"location,omitempty"`
	Doc         *LocationNode     `yaml:"doc,omitempty"`
	ParamDocs   map[string]string `yaml:"param_docs,omitempty"` // name -> extracted description, spec §4.2.1/.2/.3
	Signature   string            `yaml:"signature,omitempty"`  // display signature built by the front-end from the declaration
	Decorators  []*Decorator      `yaml:"decorators,omitempty"` // spec §4.2.3; empty for Python/PHP routines

	// Body is the raw source text of the routine body, filled in by the
	// front-end. The Flow Analyzer does not read it; it works from
	// CallSites, which the front-end extracts from the body.
	Body *LocationNode `yaml:"-"`

	// CallSites are the syntactic call expressions found in Body, populated
	// by the front-end during parsing (cheaper than a second parse pass).
	CallSites []*CallSite `yaml:"-"`

	IsExported bool `yaml:"is_exported,omitempty"` // non-underscore-prefixed / non-private, spec §4.5 entry rule
	BestEffort bool `yaml:"best_effort,omitempty"`
}

// CallSite is one syntactic call expression captured while parsing a
// routine body (spec §4.5 step 1).
type CallSite struct {
	Callee   string `yaml:"callee"`            // called name without its receiver, e.g. "save" for self.save(), "helper"
	Receiver string `yaml:"receiver,omitempty"` // verbatim receiver expression, "" if none
	Line     int    `yaml:"line"`
}
