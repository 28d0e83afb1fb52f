package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/log"
	"github.com/macropower/aspects/pkg/yaml"
)

var (
	// ErrUnknownTaste indicates an override for a taste that no relevant aspect
	// declares.
	ErrUnknownTaste = errors.New("unknown taste")

	// ErrConflictingOverride indicates two aspects entries that address the
	// same aspect and set the same taste to different values.
	ErrConflictingOverride = errors.New("conflicting override")
)

// override is one value from a TasteConfig together with the keys leading to
// it in the document.
type override struct {
	value aspect.Value
	keys  []string
}

// problem is a dropped override. node is the aspect its entry addresses and
// taste the name of a global override; both are empty when the override
// applies to no aspect at all.
type problem struct {
	err   error
	node  *aspect.Node
	taste string
}

// appliesTo reports whether the dropped override would have been in effect
// for n, whose effective tastes are inEffect.
func (p problem) appliesTo(n *aspect.Node, inEffect map[string]*aspect.Taste) bool {
	if p.node != nil {
		for cur := n; cur != nil; cur = cur.Parent() {
			if cur == p.node {
				return true
			}
		}

		return false
	}

	_, ok := inEffect[p.taste]

	return p.taste != "" && ok
}

// Overrides holds the overrides of a TasteConfig, indexed by the aspects
// they apply to.
type Overrides struct {
	global   map[string]override
	byNode   map[*aspect.Node]map[string]override
	problems []problem
}

// NewOverrides indexes the overrides in cfg by aspect. Overrides that cannot
// be applied (unsupported values, unknown aspects or unknown tastes) are
// dropped and reported by [Overrides.Problems]. A nil cfg has no overrides.
func NewOverrides(r *aspect.Registry, cfg *tasteconfigs.TasteConfig) *Overrides {
	o := &Overrides{
		global: map[string]override{},
		byNode: map[*aspect.Node]map[string]override{},
	}
	if cfg == nil {
		return o
	}

	declared := map[string]bool{}
	for _, n := range r.Nodes() {
		for _, name := range n.TasteNames() {
			declared[name] = true
		}
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Tastes)) {
		keys := []string{"tastes", name}
		if !declared[name] {
			o.report(problem{err: fmt.Errorf("%w %q", ErrUnknownTaste, name)}, keys)
			continue
		}

		v, err := aspect.ValueOf(cfg.Tastes[name])
		if err != nil {
			o.report(problem{err: err, taste: name}, keys)
			continue
		}

		o.global[name] = override{value: v, keys: keys}
	}

	for _, key := range slices.Sorted(maps.Keys(cfg.Aspects)) {
		n, err := r.LookupPath(key)
		if err != nil {
			o.report(problem{err: err}, []string{"aspects", key})
			continue
		}

		scope := ScopeTastes(r, n)
		entries := o.byNode[n]
		if entries == nil {
			entries = map[string]override{}
			o.byNode[n] = entries
		}

		values := cfg.Aspects[key]
		for _, name := range slices.Sorted(maps.Keys(values)) {
			keys := []string{"aspects", key, name}
			if _, ok := scope[name]; !ok {
				o.report(problem{err: fmt.Errorf("%w %q for aspect %s", ErrUnknownTaste, name, n), node: n}, keys)
				continue
			}

			v, err := aspect.ValueOf(values[name])
			if err != nil {
				o.report(problem{err: err, node: n}, keys)
				continue
			}

			// Keys are visited in sorted order, so the first of two entries
			// for the same aspect wins.
			if prev, ok := entries[name]; ok {
				if prev.value != v {
					o.report(problem{
						err: fmt.Errorf("%w: %s for aspect %s is already set to %s by %s",
							ErrConflictingOverride, name, n, prev.value.Quote(), yaml.PathOf(prev.keys...)),
						node: n,
					}, keys)
				}

				continue
			}

			entries[name] = override{value: v, keys: keys}
		}
	}

	return o
}

func (o *Overrides) report(p problem, keys []string) {
	p.err = yaml.NewError(p.err, yaml.WithPath(yaml.PathOf(keys...)))
	o.problems = append(o.problems, p)
}

// Problems returns one [*yaml.Error] per override that was dropped.
func (o *Overrides) Problems() []error {
	errs := make([]error, len(o.problems))
	for i, p := range o.problems {
		errs[i] = p.err
	}

	return errs
}

// For returns the overrides in effect for n: the global tastes, then the
// entries of each aspect from the root down to n, nearer entries winning.
func (o *Overrides) For(n *aspect.Node) map[string]aspect.Value {
	values := map[string]aspect.Value{}
	for name, ov := range o.sources(n) {
		values[name] = ov.value
	}

	return values
}

func (o *Overrides) sources(n *aspect.Node) map[string]override {
	var chain []*aspect.Node
	for cur := n; cur != nil; cur = cur.Parent() {
		chain = append(chain, cur)
	}

	sources := maps.Clone(o.global)
	for _, cur := range slices.Backward(chain) {
		maps.Copy(sources, o.byNode[cur])
	}

	return sources
}

// ScopeTastes returns the tastes an aspects entry for n may set: those in
// effect for n and those declared on any of its subaspects. A name declared
// several times maps to the declaration in effect for n, or else to the
// first declaration in depth-first order.
func ScopeTastes(r *aspect.Registry, n *aspect.Node) map[string]*aspect.Taste {
	scope := r.ResolveTastes(n)

	var visit func(*aspect.Node)
	visit = func(cur *aspect.Node) {
		for _, name := range cur.TasteNames() {
			if _, ok := scope[name]; !ok {
				scope[name], _ = cur.Taste(name)
			}
		}
		for _, c := range cur.Children() {
			visit(c)
		}
	}
	visit(n)

	return scope
}

// Resolution holds the effective value of every taste for every aspect of a
// registry.
type Resolution struct {
	registry *aspect.Registry
	values   map[*aspect.Node]map[string]aspect.Value
	byNode   map[*aspect.Node][]error
	problems []error
}

// Resolve computes the effective tastes of every aspect in r under cfg, which
// may be nil. Invalid overrides are logged at WARN, reported by
// [Resolution.Problems], and replaced by the declared default. Each rejected
// value is reported once per taste declaration, however many aspects inherit
// it.
func Resolve(ctx context.Context, r *aspect.Registry, cfg *tasteconfigs.TasteConfig) *Resolution {
	logger := log.WithContext(ctx)

	overrides := NewOverrides(r, cfg)
	for _, p := range overrides.problems {
		logger.WarnContext(ctx, "ignore taste override", slog.Any("error", p.err))
	}

	res := &Resolution{
		registry: r,
		values:   map[*aspect.Node]map[string]aspect.Value{},
		byNode:   map[*aspect.Node][]error{},
		problems: overrides.Problems(),
	}

	reported := map[string]error{}
	for _, n := range r.Nodes() {
		sources := overrides.sources(n)
		inEffect := r.ResolveTastes(n)

		for _, p := range overrides.problems {
			if p.appliesTo(n, inEffect) {
				res.byNode[n] = append(res.byNode[n], p.err)
			}
		}

		values, err := r.ResolveValues(n, overrides.For(n))
		res.values[n] = values

		for _, verr := range validationErrors(err) {
			src := sources[verr.Taste]

			key := strings.Join(src.keys, ".") + "|" + verr.Path
			if perr, ok := reported[key]; ok {
				res.byNode[n] = append(res.byNode[n], perr)
				continue
			}

			logger.WarnContext(ctx, "invalid taste override, using default",
				slog.String("aspect", n.String()),
				slog.String("taste", verr.Taste),
				slog.String("value", verr.Value.Quote()),
				slog.String("allowed", aspect.FormatValues(verr.Allowed)),
			)

			perr := yaml.NewError(verr, yaml.WithPath(yaml.PathOf(src.keys...)))
			reported[key] = perr
			res.problems = append(res.problems, perr)
			res.byNode[n] = append(res.byNode[n], perr)
		}
	}

	return res
}

func validationErrors(err error) []*aspect.ValidationError {
	if err == nil {
		return nil
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	var verrs []*aspect.ValidationError
	for _, e := range errs {
		var verr *aspect.ValidationError
		if errors.As(e, &verr) {
			verrs = append(verrs, verr)
		}
	}

	return verrs
}

// Registry returns the registry the resolution was computed for.
func (res *Resolution) Registry() *aspect.Registry {
	return res.registry
}

// Values returns the effective taste values for n.
func (res *Resolution) Values(n *aspect.Node) map[string]aspect.Value {
	return maps.Clone(res.values[n])
}

// Value returns the effective value of the named taste for n.
func (res *Resolution) Value(n *aspect.Node, taste string) (aspect.Value, bool) {
	v, ok := res.values[n][taste]
	return v, ok
}

// Problems returns every override that was ignored, as [*yaml.Error]s
// carrying the path of the override in the TasteConfig.
func (res *Resolution) Problems() []error {
	return slices.Clone(res.problems)
}

// ProblemsFor returns the ignored overrides that would have been in effect
// for n: rejected values of its effective tastes and dropped entries of n or
// its ancestors.
func (res *Resolution) ProblemsFor(n *aspect.Node) []error {
	return slices.Clone(res.byNode[n])
}

// Err joins all problems, or returns nil when every override was applied.
func (res *Resolution) Err() error {
	return errors.Join(res.problems...)
}
