package lang

import (
	"context"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/frisp/log"
)

// noParent marks a root scope.
const noParent = -1

// arena owns every scope of one interpreter runtime. Scopes are addressed
// by index and refer to their parent by index, so a scope never holds a
// pointer into another. Call scopes are recycled when the call returns
// unless a lexical lambda captured them.
type arena struct {
	cfg    config
	scopes []scope
	free   []int
}

type scope struct {
	vars   map[string]Binding
	parent int
	pinned bool
}

func (a *arena) alloc(parent int, pinned bool) int {
	s := scope{vars: map[string]Binding{}, parent: parent, pinned: pinned}

	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.scopes[id] = s

		return id
	}

	a.scopes = append(a.scopes, s)

	return len(a.scopes) - 1
}

// release recycles an unpinned call scope.
func (a *arena) release(id int) {
	if a.scopes[id].pinned {
		return
	}

	a.scopes[id] = scope{parent: noParent}
	a.free = append(a.free, id)
}

// pin keeps id and its ancestors alive for the life of the arena.
func (a *arena) pin(id int) {
	for ; id != noParent && !a.scopes[id].pinned; id = a.scopes[id].parent {
		a.scopes[id].pinned = true
	}
}

// Environment is a handle on one scope of an interpreter runtime. Name
// resolution walks from this scope through its ancestors.
//
// An Environment is not safe for concurrent use.
type Environment struct {
	rt *arena
	id int
}

// NewEnvironment returns an empty root environment.
func NewEnvironment(opts ...Option) *Environment {
	rt := &arena{cfg: makeConfig(opts...)}

	return &Environment{rt: rt, id: rt.alloc(noParent, true)}
}

// Sub returns a new child scope of e. Definitions made in the child do
// not affect e.
func (e *Environment) Sub() *Environment {
	id := e.rt.alloc(e.id, true)

	e.logger().Trace("scope", slog.Int("id", id), slog.Int("parent", e.id))

	return &Environment{rt: e.rt, id: id}
}

// Parent returns the enclosing scope, if any.
func (e *Environment) Parent() (*Environment, bool) {
	p := e.rt.scopes[e.id].parent
	if p == noParent {
		return nil, false
	}

	return &Environment{rt: e.rt, id: p}, true
}

// Scoping returns the lambda call scoping strategy of the runtime.
func (e *Environment) Scoping() Scoping { return e.rt.cfg.scoping }

// Capabilities returns the enabled optional special forms.
func (e *Environment) Capabilities() Capability { return e.rt.cfg.caps }

// Define binds name to the constant v in this scope, replacing any
// binding of the same name in this scope only.
func (e *Environment) Define(name string, v Value) {
	e.bind(name, Binding{value: v})
}

// DefineBuiltin binds b under its name in this scope.
func (e *Environment) DefineBuiltin(b *Builtin) {
	e.bind(b.Name, Binding{builtin: b})
}

func (e *Environment) bind(name string, b Binding) {
	e.rt.scopes[e.id].vars[name] = b
}

// Lookup resolves name, innermost scope first.
func (e *Environment) Lookup(name string) (Binding, bool) {
	for id := e.id; id != noParent; id = e.rt.scopes[id].parent {
		if b, ok := e.rt.scopes[id].vars[name]; ok {
			return b, true
		}
	}

	return Binding{}, false
}

// Local returns the sorted names bound in this scope only.
func (e *Environment) Local() []string {
	return slices.Sorted(maps.Keys(e.rt.scopes[e.id].vars))
}

// All yields every binding visible from e: this scope's bindings, then
// each ancestor's, each scope in name order. A shadowed name is yielded
// once per scope defining it; the first occurrence is the one
// [Environment.Lookup] resolves.
func (e *Environment) All() iter.Seq2[string, Binding] {
	return func(yield func(string, Binding) bool) {
		for id := e.id; id != noParent; id = e.rt.scopes[id].parent {
			vars := e.rt.scopes[id].vars
			for _, name := range slices.Sorted(maps.Keys(vars)) {
				if !yield(name, vars[name]) {
					return
				}
			}
		}
	}
}

// Visible returns the sorted, de-duplicated names visible from e.
func (e *Environment) Visible() []string {
	seen := map[string]struct{}{}
	for name := range e.All() {
		seen[name] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Invoke resolves name in e and calls it with args.
func (e *Environment) Invoke(ctx context.Context, name string, args ...Value) (Value, error) {
	b, ok := e.Lookup(name)
	if !ok {
		return Unit, ErrEval.With(slog.String("proc", name)).Wrapf("proc not found: %s", name)
	}

	return e.invoke(ctx, name, b, args)
}

func (e *Environment) logger() log.Logger { return e.rt.cfg.logger }

// Binding is a named entry of a scope: either a builtin operation or a
// constant value. Lambdas are bound as constants holding a Lambda value.
type Binding struct {
	builtin *Builtin
	value   Value
}

// Constant returns the value of a constant binding. Builtins have no
// constant form, so referencing one by bare name yields a SymbolRef.
func (b Binding) Constant() (Value, bool) { return b.value, b.builtin == nil }

// Builtin returns the operation of a builtin binding.
func (b Binding) Builtin() (*Builtin, bool) { return b.builtin, b.builtin != nil }
