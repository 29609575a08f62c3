package lang

import (
	"iter"
	"maps"
	"slices"
)

// Env is one scope in the environment chain.
//
// Lookups walk outward through parents; bindings are only ever written to
// the receiver, never to an enclosing scope.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv returns an empty scope enclosed by parent. A nil parent makes a
// root scope.
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Parent returns the enclosing scope, or nil for the root.
func (e *Env) Parent() *Env { return e.parent }

// Get resolves name through the scope chain.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}

	return Value{}, false
}

// Local resolves name in this scope only.
func (e *Env) Local(name string) (Value, bool) {
	v, ok := e.vars[name]

	return v, ok
}

// Set binds name in this scope, shadowing any outer binding.
func (e *Env) Set(name string, v Value) { e.vars[name] = v }

// Len returns the number of bindings in this scope.
func (e *Env) Len() int { return len(e.vars) }

// Locals iterates this scope's bindings in name order.
func (e *Env) Locals() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range slices.Sorted(maps.Keys(e.vars)) {
			if !yield(name, e.vars[name]) {
				return
			}
		}
	}
}

// Names returns every name visible from this scope, sorted and unique.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})

	for s := e; s != nil; s = s.parent {
		for name := range s.vars {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
