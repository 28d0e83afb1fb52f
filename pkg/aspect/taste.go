package aspect

import (
	"fmt"
	"slices"
	"strings"
)

// Taste is a typed, user-configurable parameter declared on an aspect.
//
// A Taste is immutable once constructed. Its declaration is validated by
// [NewTaste] and again when it is registered:
//   - the name is not empty;
//   - there is at least one allowed value and no value appears twice;
//   - every allowed value and the default have the declared kind;
//   - the default is one of the allowed values.
type Taste struct {
	aspect      *Node
	name        string
	description string
	allowed     []Value
	def         Value
	kind        Kind
}

// NewTaste creates a [Taste] with an explicit kind and allowed values.
func NewTaste(name, description string, kind Kind, allowed []Value, def Value) (*Taste, error) {
	t := &Taste{
		name:        name,
		description: description,
		kind:        kind,
		allowed:     slices.Clone(allowed),
		def:         def,
	}

	err := t.check()
	if err != nil {
		return nil, err
	}

	return t, nil
}

// MustTaste panics if err is non-nil and returns t otherwise. It is meant to
// wrap the taste constructors in taxonomy declarations:
//
//	aspect.MustTaste(aspect.BoolTaste("shortlog_colon", "...", true))
func MustTaste(t *Taste, err error) *Taste {
	if err != nil {
		panic(err)
	}

	return t
}

// BoolTaste creates a boolean [Taste]; its allowed values are true and false.
func BoolTaste(name, description string, def bool) (*Taste, error) {
	return NewTaste(name, description, KindBool, []Value{Bool(true), Bool(false)}, Bool(def))
}

// IntTaste creates an integer [Taste].
func IntTaste(name, description string, allowed []int64, def int64) (*Taste, error) {
	values := make([]Value, len(allowed))
	for i, a := range allowed {
		values[i] = Int(a)
	}

	return NewTaste(name, description, KindInt, values, Int(def))
}

// StringTaste creates a string [Taste].
func StringTaste(name, description string, allowed []string, def string) (*Taste, error) {
	return NewTaste(name, description, KindString, stringValues(allowed), String(def))
}

// EnumTaste creates an enumerated-string [Taste].
func EnumTaste(name, description string, allowed []string, def string) (*Taste, error) {
	return NewTaste(name, description, KindEnum, stringValues(allowed), String(def))
}

func stringValues(ss []string) []Value {
	values := make([]Value, len(ss))
	for i, s := range ss {
		values[i] = String(s)
	}

	return values
}

// check validates the declaration.
func (t *Taste) check() error {
	if strings.TrimSpace(t.name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTaste)
	}
	if !t.kind.Valid() {
		return fmt.Errorf("%w %q: unknown kind %s", ErrInvalidTaste, t.name, t.kind)
	}
	if len(t.allowed) == 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidTaste, t.name, ErrNoAllowedValues)
	}

	want := t.kind.primitive()
	for i, v := range t.allowed {
		if v.Kind() != want {
			return fmt.Errorf("%w %q: allowed value %s is %s, want %s: %w",
				ErrInvalidTaste, t.name, v.Quote(), v.Kind(), want, ErrWrongKind)
		}
		if slices.Contains(t.allowed[:i], v) {
			return fmt.Errorf("%w %q: %w %s", ErrInvalidTaste, t.name, ErrDuplicateAllowedValue, v.Quote())
		}
	}

	if t.def.Kind() != want {
		return fmt.Errorf("%w %q: default %s is %s, want %s: %w",
			ErrInvalidTaste, t.name, t.def.Quote(), t.def.Kind(), want, ErrWrongKind)
	}
	if !slices.Contains(t.allowed, t.def) {
		return fmt.Errorf("%w %q: %w: %s not in %s",
			ErrInvalidTaste, t.name, ErrDefaultNotAllowed, t.def.Quote(), FormatValues(t.allowed))
	}

	return nil
}

// clone returns a copy of t owned by n.
func (t *Taste) clone(n *Node) *Taste {
	c := *t
	c.allowed = slices.Clone(t.allowed)
	c.aspect = n

	return &c
}

// Name returns the taste name, unique within its declaring aspect.
func (t *Taste) Name() string {
	return t.name
}

// Description returns the human-readable description.
func (t *Taste) Description() string {
	return t.description
}

// Kind returns the declared kind.
func (t *Taste) Kind() Kind {
	return t.kind
}

// AllowedValues returns a copy of the allowed values, in declaration order.
func (t *Taste) AllowedValues() []Value {
	return slices.Clone(t.allowed)
}

// Default returns the default value.
func (t *Taste) Default() Value {
	return t.def
}

// Aspect returns the aspect that declares the taste, or nil if the taste has
// not been registered.
func (t *Taste) Aspect() *Node {
	return t.aspect
}

// Path returns the dotted path of the taste: the path of its declaring
// aspect followed by the taste name. Unregistered tastes return their name.
func (t *Taste) Path() string {
	if t.aspect == nil {
		return t.name
	}

	return t.aspect.dottedPath() + "." + t.name
}

// Validate accepts v iff its kind matches the declared kind exactly and it is
// one of the allowed values. Otherwise it returns a [*ValidationError].
func (t *Taste) Validate(v Value) error {
	var err error

	switch t.kind {
	case KindBool, KindInt, KindString, KindEnum:
		if v.Kind() != t.kind.primitive() {
			err = ErrWrongKind
		} else if !slices.Contains(t.allowed, v) {
			err = ErrNotAllowed
		}

	default:
		err = ErrWrongKind
	}

	if err == nil {
		return nil
	}

	return &ValidationError{
		Err:     err,
		Path:    t.Path(),
		Taste:   t.name,
		Value:   v,
		Allowed: t.AllowedValues(),
	}
}

// Resolve returns the value configured for the taste in overrides, which maps
// taste names to values. Without an override it returns the default. With an
// invalid override it returns the default together with the
// [*ValidationError], so callers can report the problem and carry on.
func (t *Taste) Resolve(overrides map[string]Value) (Value, error) {
	v, ok := overrides[t.name]
	if !ok {
		return t.def, nil
	}

	err := t.Validate(v)
	if err != nil {
		return t.def, err
	}

	return v, nil
}

func (t *Taste) String() string {
	return fmt.Sprintf("%s (%s, default %s, allowed %s)",
		t.name, t.kind, t.def.Quote(), FormatValues(t.allowed))
}
