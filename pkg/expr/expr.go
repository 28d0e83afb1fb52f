package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/macropower/aspects/pkg/aspect"
)

// ErrNotBool is returned when a filter expression does not evaluate to a bool.
var ErrNotBool = errors.New("expression result is not a bool")

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment].
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := createEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// createEnvironment creates the [*cel.Env] using the global mutex.
func createEnvironment(opts ...cel.EnvOption) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts, cel.Lib(&lib{}))

	celEnv, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles a CEL expression and returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}

// Filter is a compiled boolean expression over aspects.
type Filter struct {
	program    cel.Program
	expression string
}

// NewFilter compiles expression into a [Filter]. The expression must have
// type bool.
func (e *Environment) NewFilter(expression string) (*Filter, error) {
	program, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}

	return &Filter{program: program, expression: expression}, nil
}

func (f *Filter) String() string {
	return f.expression
}

// Match evaluates the filter for n. The values are the effective tastes of
// n; when nil, the declared defaults are used.
func (f *Filter) Match(r *aspect.Registry, n *aspect.Node, values map[string]aspect.Value) (bool, error) {
	out, _, err := f.program.Eval(Vars(r, n, values))
	if err != nil {
		return false, fmt.Errorf("evaluate %q for %s: %w", f.expression, n, err)
	}

	match, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %s", ErrNotBool, f.expression, out.Type().TypeName())
	}

	return match, nil
}

// Select returns the aspects of r that match the filter, in registration
// order. The values function supplies the effective tastes of each aspect
// and may be nil.
func (f *Filter) Select(r *aspect.Registry, values func(*aspect.Node) map[string]aspect.Value) ([]*aspect.Node, error) {
	var selected []*aspect.Node

	for _, n := range r.Nodes() {
		var v map[string]aspect.Value
		if values != nil {
			v = values(n)
		}

		ok, err := f.Match(r, n, v)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, n)
		}
	}

	return selected, nil
}

// Vars returns the CEL activation describing n.
func Vars(r *aspect.Registry, n *aspect.Node, values map[string]aspect.Value) map[string]any {
	if values == nil {
		values = map[string]aspect.Value{}
		for name, t := range r.ResolveTastes(n) {
			values[name] = t.Default()
		}
	}

	parent := ""
	if p := n.Parent(); p != nil {
		parent = p.Name()
	}

	return map[string]any{
		"aspect": ConvertToCELValue(map[string]any{
			"name":        n.Name(),
			"path":        n.String(),
			"parent":      parent,
			"depth":       n.Depth(),
			"root":        n.IsRoot(),
			"leaf":        len(n.Children()) == 0,
			"description": n.Description(),
			"language":    n.Docs().ExampleLanguage,
			"own":         n.TasteNames(),
			"tastes":      values,
		}),
	}
}
