// Package schema generates the JSON schema of TasteConfig files for an
// aspect registry.
//
// The generic structure comes from reflecting
// [github.com/macropower/aspects/api/v1beta1/tasteconfigs.TasteConfig]; the
// tastes and aspects sections are then filled in from the registry, so that
// editors and [yaml.Validator] know every taste, its kind and its allowed
// values.
package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/yaml"
)

// URL identifies the generated schema when it is compiled.
const URL = "/tasteconfigs.v1beta1.json"

// Generator builds the TasteConfig schema for one registry.
type Generator struct {
	registry  *aspect.Registry
	reflector *jsonschema.Reflector
	title     cases.Caser
}

// GeneratorOpt configures a [Generator].
type GeneratorOpt func(*Generator)

// WithGoComments reads Go doc comments of the given packages, relative to
// base, into schema descriptions. The sources must be available on disk, so
// this is only useful when generating the schema file from a checkout.
func WithGoComments(base string, paths ...string) GeneratorOpt {
	return func(g *Generator) {
		for _, p := range paths {
			err := g.reflector.AddGoComments(base, p)
			if err != nil {
				panic(fmt.Sprintf("add go comments for %s: %v", p, err))
			}
		}
	}
}

// NewGenerator creates a [Generator] for r.
func NewGenerator(r *aspect.Registry, opts ...GeneratorOpt) *Generator {
	g := &Generator{
		registry: r,
		reflector: &jsonschema.Reflector{
			ExpandedStruct:             true,
			DoNotReference:             true,
			RequiredFromJSONSchemaTags: true,
		},
		title: cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Schema returns the generated schema.
func (g *Generator) Schema() *jsonschema.Schema {
	jss := g.reflector.Reflect(tasteconfigs.New())
	jss.Title = "TasteConfig"
	jss.Required = []string{"apiVersion", "kind"}

	_, _ = jss.Properties.Set("tastes", g.globalTastes())
	_, _ = jss.Properties.Set("aspects", g.aspects())

	return jss
}

// Generate returns the generated schema as indented JSON.
func (g *Generator) Generate() ([]byte, error) {
	b, err := json.MarshalIndent(g.Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// NewValidator generates the schema for r and compiles it.
func NewValidator(r *aspect.Registry) (*yaml.Validator, error) {
	data, err := NewGenerator(r).Generate()
	if err != nil {
		return nil, err
	}

	v, err := yaml.NewValidator(URL, data)
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	return v, nil
}

// globalTastes describes the top-level tastes section.
func (g *Generator) globalTastes() *jsonschema.Schema {
	return g.tasteObject(
		"Tastes",
		"Overrides for every aspect that declares or inherits the taste.",
		g.registry.Nodes(),
	)
}

// tasteObject describes an object holding overrides for the tastes declared
// on nodes. A taste name that is declared on several aspects accepts a value
// that any declaration allows.
func (g *Generator) tasteObject(title, description string, nodes []*aspect.Node) *jsonschema.Schema {
	byName := map[string][]*aspect.Taste{}

	var names []string
	for _, n := range nodes {
		for _, name := range n.TasteNames() {
			t, _ := n.Taste(name)
			if _, ok := byName[name]; !ok {
				names = append(names, name)
			}

			byName[name] = append(byName[name], t)
		}
	}

	props := jsonschema.NewProperties()
	for _, name := range names {
		decls := byName[name]
		if len(decls) == 1 {
			props.Set(name, g.taste(decls[0]))
			continue
		}

		s := &jsonschema.Schema{Title: g.tasteTitle(name)}
		for _, t := range decls {
			s.AnyOf = append(s.AnyOf, g.taste(t))
		}

		props.Set(name, s)
	}

	return &jsonschema.Schema{
		Type:                 "object",
		Title:                title,
		Description:          description,
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// aspects describes the aspects section. Every aspect can be addressed by
// name, by its dotted path, or by its dotted path without the root.
func (g *Generator) aspects() *jsonschema.Schema {
	props := jsonschema.NewProperties()

	for _, n := range g.registry.Nodes() {
		s := g.aspect(n)
		for _, key := range Keys(g.registry, n) {
			props.Set(key, s)
		}
	}

	return &jsonschema.Schema{
		Type:                 "object",
		Title:                "Aspects",
		Description:          "Overrides for one aspect and its subaspects, keyed by aspect name or path.",
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// Keys returns the keys under which n may appear in the aspects section of a
// TasteConfig, name first.
func Keys(r *aspect.Registry, n *aspect.Node) []string {
	path := r.PathOf(n)

	keys := []string{n.Name()}
	for _, k := range []string{
		strings.Join(path, aspect.PathSeparator),
		strings.Join(path[1:], aspect.PathSeparator),
	} {
		if k != "" && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}

	return keys
}

// aspect describes the overrides accepted for n: the tastes declared on n,
// its ancestors and its subaspects.
func (g *Generator) aspect(n *aspect.Node) *jsonschema.Schema {
	var scope []*aspect.Node
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		scope = slices.Insert(scope, 0, cur)
	}

	return g.tasteObject(n.Name(), n.Description(), appendSubtree(scope, n))
}

func appendSubtree(nodes []*aspect.Node, n *aspect.Node) []*aspect.Node {
	nodes = append(nodes, n)
	for _, c := range n.Children() {
		nodes = appendSubtree(nodes, c)
	}

	return nodes
}

func (g *Generator) taste(t *aspect.Taste) *jsonschema.Schema {
	allowed := t.AllowedValues()

	enum := make([]any, len(allowed))
	for i, v := range allowed {
		enum[i] = v.Interface()
	}

	return &jsonschema.Schema{
		Type:        t.Kind().JSONType(),
		Title:       g.tasteTitle(t.Name()),
		Description: t.Description(),
		Default:     t.Default().Interface(),
		Enum:        enum,
	}
}

// tasteTitle turns a taste name such as "max_shortlog_length" into
// "Max Shortlog Length".
func (g *Generator) tasteTitle(name string) string {
	return g.title.String(strings.ReplaceAll(name, "_", " "))
}
