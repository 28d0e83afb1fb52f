// Package catalog exports the documentation of an aspect registry as plain
// data, ready to be encoded as YAML or JSON.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/yaml"
)

// Format is an output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var (
	// ErrUnknownFormat is returned for unsupported output formats.
	ErrUnknownFormat = errors.New("unknown format")

	// AllFormats contains all supported formats.
	AllFormats = []string{
		string(FormatYAML),
		string(FormatJSON),
	}
)

// ParseFormat returns the [Format] named by s.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if !slices.Contains([]Format{FormatYAML, FormatJSON}, f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}

	return f, nil
}

// Catalog is the documentation tree of a registry.
type Catalog struct {
	Root  *Aspect `json:"root"`
	Count int     `json:"count"`
}

// Aspect documents one aspect.
type Aspect struct {
	Name        string          `json:"name"`
	Path        string          `json:"path"`
	Description string          `json:"description,omitempty"`
	Docs        *Docs           `json:"docs,omitempty"`
	Tastes      []Taste         `json:"tastes,omitempty"`
	Resolved    []ResolvedTaste `json:"resolved,omitempty"`
	Subaspects  []*Aspect       `json:"subaspects,omitempty"`
}

// Docs holds the documentation bundle of an aspect.
type Docs struct {
	Example          string `json:"example"`
	ExampleLanguage  string `json:"exampleLanguage"`
	ImportanceReason string `json:"importanceReason"`
	FixSuggestions   string `json:"fixSuggestions"`
}

// Taste documents one taste declaration.
type Taste struct {
	Default     any    `json:"default"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Allowed     []any  `json:"allowed"`
}

// ResolvedTaste is a taste in effect for an aspect, with its effective value.
type ResolvedTaste struct {
	Value      any    `json:"value"`
	DeclaredIn string `json:"declaredIn"`
	Taste      `json:",inline"`
}

type options struct {
	resolution *config.Resolution
	summary    bool
}

// Opt configures how aspects are exported.
type Opt func(*options)

// WithResolution adds the resolved tastes of every aspect, with the values
// from res.
func WithResolution(res *config.Resolution) Opt {
	return func(o *options) {
		o.resolution = res
	}
}

// WithSummary omits docs and taste details, keeping names, paths and
// descriptions.
func WithSummary() Opt {
	return func(o *options) {
		o.summary = true
	}
}

// New exports the whole tree of r.
func New(r *aspect.Registry, opts ...Opt) *Catalog {
	o := newOptions(opts)

	var build func(n *aspect.Node) *Aspect
	build = func(n *aspect.Node) *Aspect {
		a := describe(r, n, o)
		for _, c := range n.Children() {
			a.Subaspects = append(a.Subaspects, build(c))
		}

		return a
	}

	c := &Catalog{Count: r.Len()}
	if root := r.Root(); root != nil {
		c.Root = build(root)
	}

	return c
}

// Describe exports a single aspect without its subaspects.
func Describe(r *aspect.Registry, n *aspect.Node, opts ...Opt) *Aspect {
	return describe(r, n, newOptions(opts))
}

// List exports the given aspects as a flat list.
func List(r *aspect.Registry, nodes []*aspect.Node, opts ...Opt) []*Aspect {
	o := newOptions(opts)

	list := make([]*Aspect, len(nodes))
	for i, n := range nodes {
		list[i] = describe(r, n, o)
	}

	return list
}

func newOptions(opts []Opt) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

func describe(r *aspect.Registry, n *aspect.Node, o *options) *Aspect {
	a := &Aspect{
		Name:        n.Name(),
		Path:        strings.Join(r.PathOf(n), aspect.PathSeparator),
		Description: n.Description(),
	}
	if o.summary {
		return a
	}

	d := n.Docs()
	a.Docs = &Docs{
		Example:          d.Example,
		ExampleLanguage:  d.ExampleLanguage,
		ImportanceReason: d.ImportanceReason,
		FixSuggestions:   d.FixSuggestions,
	}

	for _, name := range n.TasteNames() {
		t, _ := n.Taste(name)
		a.Tastes = append(a.Tastes, NewTaste(t))
	}

	if o.resolution != nil {
		for _, t := range r.EffectiveTastes(n) {
			rt := ResolvedTaste{
				Taste:      NewTaste(t),
				DeclaredIn: t.Aspect().String(),
			}
			if v, ok := o.resolution.Value(n, t.Name()); ok {
				rt.Value = v.Interface()
			}

			a.Resolved = append(a.Resolved, rt)
		}
	}

	return a
}

// NewTaste exports a taste declaration.
func NewTaste(t *aspect.Taste) Taste {
	allowed := t.AllowedValues()

	values := make([]any, len(allowed))
	for i, v := range allowed {
		values[i] = v.Interface()
	}

	return Taste{
		Name:        t.Name(),
		Description: t.Description(),
		Kind:        t.Kind().String(),
		Allowed:     values,
		Default:     t.Default().Interface(),
	}
}

// Encode writes v to w in the given format.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)

		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("close yaml encoder: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
