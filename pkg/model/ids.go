package model

import (
	"fmt"
	"strings"
)

// Kind tags every addressable entity in the Semantic Model. Using a string
// enum (rather than runtime type switches over interface{}) lets identifier
// uniqueness (spec §8.2) be checked by construction, per the polymorphism
// guidance in spec.md §9.
type Kind string

const (
	KindModule    Kind = "module"
	KindNamespace Kind = "namespace"
	KindType      Kind = "type"
	KindRoutine   Kind = "routine"
	KindAttribute Kind = "attribute"
	KindFlow      Kind = "flow"
)

// External is the sentinel identifier used whenever a reference cannot be
// bound to a project entity (spec §3 invariant 1, §GLOSSARY).
const External = "external:unresolved"

// ExternalRef builds an External-flavoured identifier that still carries the
// original unresolved text, so diagnostics remain useful without breaking
// the invariant that External edges all point at the same sentinel family.
// Its result is stored as the ID of unresolved references, imports and flow
// hops; callers test for the family with IsExternal.
func ExternalRef(text string) string {
	if text == "" {
		return External
	}
	return External + ":" + text
}

// IsExternal reports whether id names the External sentinel family.
func IsExternal(id string) bool {
	return id == External || strings.HasPrefix(id, External+":")
}

// BuildID constructs the deterministic identifier described in spec.md §3:
// <kind>:<file>:<qualified-name>[:<disambiguator>]. file and qualifiedName
// are expected to already be normalised (forward-slash, project-relative).
func BuildID(kind Kind, file, qualifiedName string, disambiguator int) string {
	var b strings.Builder
	b.WriteString(string(kind))
	b.WriteByte(':')
	b.WriteString(file)
	b.WriteByte(':')
	b.WriteString(qualifiedName)
	if disambiguator > 0 {
		fmt.Fprintf(&b, ":%d", disambiguator)
	}
	return b.String()
}

// IdentifierAllocator hands out deterministic identifiers for a single kind,
// disambiguating collisions with an ordinal-within-file suffix exactly as
// spec.md §4.3 step 2 describes. One allocator is scoped to the whole build
// so collisions are detected project-wide, not per file.
type IdentifierAllocator struct {
	kind  Kind
	seen  map[string]int // id without disambiguator -> next ordinal
	taken map[string]bool
}

// NewIdentifierAllocator creates an allocator for the given entity kind.
func NewIdentifierAllocator(kind Kind) *IdentifierAllocator {
	return &IdentifierAllocator{
		kind:  kind,
		seen:  make(map[string]int),
		taken: make(map[string]bool),
	}
}

// Allocate returns a fresh, unique identifier for (file, qualifiedName),
// reporting whether a collision required a disambiguator suffix to be
// appended (logged as a warning by callers, per spec §4.3 step 2).
func (a *IdentifierAllocator) Allocate(file, qualifiedName string) (id string, disambiguated bool) {
	base := BuildID(a.kind, file, qualifiedName, 0)
	count := a.seen[base]
	a.seen[base] = count + 1
	if count == 0 && !a.taken[base] {
		a.taken[base] = true
		return base, false
	}
	for d := count; ; d++ {
		if d == 0 {
			continue // disambiguator 0 renders as the bare base, already taken
		}
		candidate := BuildID(a.kind, file, qualifiedName, d)
		if !a.taken[candidate] {
			a.taken[candidate] = true
			return candidate, true
		}
	}
}
