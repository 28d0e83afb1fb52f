package aspect

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// PathSeparator joins aspect names in dotted paths. [Registry.LookupPath]
// also accepts "/".
const PathSeparator = "."

// maxSuggestions limits the suggestions attached to a [*NotFoundError].
const maxSuggestions = 3

// RegisterOpt configures a [Registry.Register] call.
type RegisterOpt func(*registerOptions)

type registerOptions struct {
	description string
}

// WithDescription sets the one-paragraph description of the aspect.
// Surrounding whitespace and common indentation are removed.
func WithDescription(description string) RegisterOpt {
	return func(o *registerOptions) {
		o.description = Dedent(description)
	}
}

// Registry is a single-rooted tree of aspects, indexed by name.
//
// Registration must happen on one goroutine, parents before children. After
// [Registry.Seal] succeeds, the registry is never modified and all read
// methods are safe for concurrent use without further synchronization.
type Registry struct {
	nodes    map[string]*Node
	root     *Node
	order    []*Node
	failures []error
	sealed   bool
}

// NewRegistry creates an empty [Registry] in its initialization phase.
func NewRegistry() *Registry {
	return &Registry{
		nodes: map[string]*Node{},
	}
}

// Register declares an aspect named name under the aspect named parent, or as
// the root when parent is empty. The docs and every taste are validated, and
// no taste name may be declared twice on the same aspect. Redeclaring a taste
// of an ancestor is allowed and shadows it.
//
// Registration is all-or-nothing: on error a [*RegistrationError] is
// returned and the registry is unchanged, except that the failure is
// remembered and makes [Registry.Seal] fail.
func (r *Registry) Register(name, parent string, docs Docs, tastes []*Taste, opts ...RegisterOpt) (*Node, error) {
	n, err := r.register(name, parent, docs, tastes, opts)
	if err != nil {
		regErr := &RegistrationError{Aspect: name, Err: err}
		if !errors.Is(err, ErrSealed) {
			r.failures = append(r.failures, regErr)
		}

		return nil, regErr
	}

	return n, nil
}

// MustRegister is like [Registry.Register] but panics on error.
func (r *Registry) MustRegister(name, parent string, docs Docs, tastes []*Taste, opts ...RegisterOpt) *Node {
	n, err := r.Register(name, parent, docs, tastes, opts...)
	if err != nil {
		panic(err)
	}

	return n
}

func (r *Registry) register(name, parent string, docs Docs, tastes []*Taste, opts []RegisterOpt) (*Node, error) {
	if r.sealed {
		return nil, ErrSealed
	}

	err := checkName(name)
	if err != nil {
		return nil, err
	}

	if _, ok := r.nodes[name]; ok {
		return nil, ErrDuplicateAspect
	}

	var p *Node
	if parent == "" {
		if r.root != nil {
			return nil, fmt.Errorf("%w %q", ErrMultipleRoots, r.root.name)
		}
	} else {
		p = r.nodes[parent]
		if p == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParent, parent)
		}
	}

	err = docs.Validate()
	if err != nil {
		return nil, err
	}

	options := &registerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	n := &Node{
		name:        name,
		description: options.description,
		parent:      p,
		docs:        docs,
		tastes:      make(map[string]*Taste, len(tastes)),
		tasteNames:  make([]string, 0, len(tastes)),
	}
	if p != nil {
		n.depth = p.depth + 1
	}

	for _, t := range tastes {
		if t == nil {
			return nil, fmt.Errorf("%w: nil taste", ErrInvalidTaste)
		}

		err := t.check()
		if err != nil {
			return nil, err
		}

		if _, ok := n.tastes[t.name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTaste, t.name)
		}

		n.tastes[t.name] = t.clone(n)
		n.tasteNames = append(n.tasteNames, t.name)
	}

	// Every check passed; link the node into the tree.
	r.nodes[name] = n
	r.order = append(r.order, n)
	if p == nil {
		r.root = n
	} else {
		p.children = append(p.children, n)
	}

	return n, nil
}

func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	case strings.ContainsAny(name, "./"):
		return fmt.Errorf("%w %q: must not contain '.' or '/'", ErrInvalidName, name)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%w %q: surrounding whitespace", ErrInvalidName, name)
	}

	return nil
}

// Seal ends the initialization phase. It fails, leaving the registry
// unsealed, if any [Registry.Register] call failed or no root was
// registered; a malformed taxonomy must not be served. After a successful
// Seal, Register always fails with [ErrSealed]. Sealing twice is a no-op.
func (r *Registry) Seal() error {
	if r.sealed {
		return nil
	}
	if len(r.failures) > 0 {
		return fmt.Errorf("seal registry: %w", errors.Join(r.failures...))
	}
	if r.root == nil {
		return fmt.Errorf("seal registry: %w", ErrNoRoot)
	}

	r.sealed = true

	return nil
}

// Sealed reports whether [Registry.Seal] has succeeded.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Root returns the root aspect, or nil if none is registered.
func (r *Registry) Root() *Node {
	return r.root
}

// Len returns the number of registered aspects.
func (r *Registry) Len() int {
	return len(r.order)
}

// Nodes returns every aspect in registration order, so parents always come
// before their children.
func (r *Registry) Nodes() []*Node {
	return slices.Clone(r.order)
}

// Names returns the name of every aspect in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, n := range r.order {
		names[i] = n.name
	}

	return names
}

// Lookup returns the aspect with the given name. Unknown names yield a
// [*NotFoundError] with suggestions.
func (r *Registry) Lookup(name string) (*Node, error) {
	if n, ok := r.nodes[name]; ok {
		return n, nil
	}

	return nil, &NotFoundError{
		Name:        name,
		Suggestions: suggest(name, r.Names()),
	}
}

// LookupPath returns the aspect addressed by a dotted ("Root.Metadata") or
// slash-delimited ("Root/Metadata") path from the root. The root segment may
// be omitted. A single name is looked up as with [Registry.Lookup].
func (r *Registry) LookupPath(path string) (*Node, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, &NotFoundError{Name: path}
	}
	if len(segments) == 1 {
		return r.Lookup(segments[0])
	}

	if r.root != nil && segments[0] != r.root.name {
		segments = append([]string{r.root.name}, segments...)
	}

	n, ok := r.nodes[segments[len(segments)-1]]
	if ok && slices.Equal(n.path(), segments) {
		return n, nil
	}

	paths := make([]string, len(r.order))
	for i, node := range r.order {
		paths[i] = node.dottedPath()
	}

	return nil, &NotFoundError{
		Name:        path,
		Suggestions: suggest(strings.Join(segments, PathSeparator), paths),
	}
}

func splitPath(path string) []string {
	path = strings.ReplaceAll(path, "/", PathSeparator)
	path = strings.Trim(strings.TrimSpace(path), PathSeparator)
	if path == "" {
		return nil
	}

	return strings.Split(path, PathSeparator)
}

func suggest(pattern string, candidates []string) []string {
	matches := fuzzy.Find(pattern, candidates)

	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}

		suggestions = append(suggestions, m.Str)
	}

	return suggestions
}

// PathOf returns the names from the root to n, inclusive.
func (r *Registry) PathOf(n *Node) []string {
	if n == nil {
		return nil
	}

	return n.path()
}

// ResolveTastes returns every taste in effect for n: its own tastes and those
// of all its ancestors. When a name is declared at several levels, the
// declaration nearest to n wins.
func (r *Registry) ResolveTastes(n *Node) map[string]*Taste {
	resolved := map[string]*Taste{}
	for cur := n; cur != nil; cur = cur.parent {
		for name, t := range cur.tastes {
			if _, ok := resolved[name]; !ok {
				resolved[name] = t
			}
		}
	}

	return resolved
}

// EffectiveTastes returns the same tastes as [Registry.ResolveTastes] as an
// ordered list: names appear in the order they were first declared walking
// from the root down to n, and each entry holds the nearest declaration.
func (r *Registry) EffectiveTastes(n *Node) []*Taste {
	if n == nil {
		return nil
	}

	chain := make([]*Node, n.depth+1)
	for cur := n; cur != nil; cur = cur.parent {
		chain[cur.depth] = cur
	}

	var (
		tastes []*Taste
		index  = map[string]int{}
	)
	for _, cur := range chain {
		for _, tn := range cur.tasteNames {
			t := cur.tastes[tn]
			if i, ok := index[tn]; ok {
				tastes[i] = t
				continue
			}

			index[tn] = len(tastes)
			tastes = append(tastes, t)
		}
	}

	return tastes
}

// ResolveValues resolves every taste in effect for n against overrides. Each
// invalid override is replaced by the taste's default; the returned error
// joins one [*ValidationError] per rejected override, so the map is always
// complete and usable.
func (r *Registry) ResolveValues(n *Node, overrides map[string]Value) (map[string]Value, error) {
	var errs []error

	values := map[string]Value{}
	for _, t := range r.EffectiveTastes(n) {
		v, err := t.Resolve(overrides)
		if err != nil {
			errs = append(errs, err)
		}

		values[t.name] = v
	}

	return values, errors.Join(errs...)
}

// Walk calls fn for every aspect in depth-first pre-order, starting at the
// root and visiting children in registration order. If fn returns
// [ErrSkipChildren], the children of that node are skipped; any other error
// stops the walk and is returned.
func (r *Registry) Walk(fn func(*Node) error) error {
	if r.root == nil {
		return nil
	}

	return walk(r.root, fn)
}

func walk(n *Node, fn func(*Node) error) error {
	err := fn(n)
	if errors.Is(err, ErrSkipChildren) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, c := range n.children {
		err := walk(c, fn)
		if err != nil {
			return err
		}
	}

	return nil
}
