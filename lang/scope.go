package lang

import (
	"maps"
	"slices"
)

// Scope maps symbol names to stored values: a scalar *TokenExpr, a
// *Dictionary, or a *FunctionExpr.
//
// A Scope is not safe for concurrent use.
type Scope struct {
	parent *Scope
	vars   map[string]Node
}

// NewScope returns an empty top-level scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]Node)}
}

// Child returns a scope whose lookups fall through to s and whose
// assignments stay local.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, vars: make(map[string]Node)}
}

// Lookup returns the value bound to name in s or any enclosing scope.
func (s *Scope) Lookup(name string) (Node, bool) {
	for c := s; c != nil; c = c.parent {
		if v, ok := c.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Set binds name to v in s, replacing any previous binding.
func (s *Scope) Set(name string, v Node) {
	s.vars[name] = v
}

// Names returns the sorted names visible from s.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})

	for c := s; c != nil; c = c.parent {
		for name := range c.vars {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Len returns the number of names bound directly in s.
func (s *Scope) Len() int { return len(s.vars) }
