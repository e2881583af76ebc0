package eval

import (
	"fmt"
	"strings"
)

// Env is the runtime symbol table: a flat, mutable mapping from variable
// names to their current values. Blocks of 'repeat' and 'if' do not introduce
// scopes, so a single Env serves a whole run. The order in which names were
// first bound is preserved for reporting.
type Env struct {
	values map[string]int64
	names  []string
}

// Binding is a name and its value.
type Binding struct {
	Name  string `json:"name" yaml:"name"`
	Value int64  `json:"value" yaml:"value"`
}

// NewEnv returns an empty Env.
func NewEnv() *Env {
	return &Env{values: make(map[string]int64)}
}

// Get returns the value bound to name and whether it is bound.
func (env *Env) Get(name string) (int64, bool) {
	v, ok := env.values[name]
	return v, ok
}

// Set binds or rebinds name to v.
func (env *Env) Set(name string, v int64) {
	if _, ok := env.values[name]; !ok {
		env.names = append(env.names, name)
	}
	env.values[name] = v
}

// Len returns the number of bound names.
func (env *Env) Len() int { return len(env.names) }

// Names returns the bound names, in the order they were first bound.
func (env *Env) Names() []string {
	return append([]string(nil), env.names...)
}

// Bindings returns all bindings, in the order they were first bound.
func (env *Env) Bindings() []Binding {
	bindings := make([]Binding, len(env.names))
	for i, name := range env.names {
		bindings[i] = Binding{name, env.values[name]}
	}
	return bindings
}

// EnvFromBindings builds an Env from a list of bindings, applied in order.
func EnvFromBindings(bindings []Binding) *Env {
	env := NewEnv()
	for _, b := range bindings {
		env.Set(b.Name, b.Value)
	}
	return env
}

// String returns a "name = value" line for each binding.
func (env *Env) String() string {
	var sb strings.Builder
	for _, name := range env.names {
		fmt.Fprintf(&sb, "%s = %d\n", name, env.values[name])
	}
	return sb.String()
}
