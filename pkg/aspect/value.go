package aspect

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the declared value kind of a [Taste].
type Kind int

const (
	kindInvalid Kind = iota

	KindBool
	KindInt
	KindString
	// KindEnum is a string kind whose allowed values form an enumeration.
	// Its values have the primitive kind [KindString].
	KindEnum
)

// AllKinds lists every valid kind name, in declaration order.
var AllKinds = []string{
	KindBool.String(),
	KindInt.String(),
	KindString.String(),
	KindEnum.String(),
}

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// JSONType returns the JSON Schema type name for values of the kind.
func (k Kind) JSONType() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindString, KindEnum:
		return "string"
	default:
		return ""
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindBool && k <= KindEnum
}

// primitive returns the kind a [Value] of this taste kind carries.
func (k Kind) primitive() Kind {
	if k == KindEnum {
		return KindString
	}

	return k
}

// ParseKind parses a kind name as returned by [Kind.String].
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer":
		return KindInt, nil
	case "string", "str":
		return KindString, nil
	case "enum":
		return KindEnum, nil
	}

	return kindInvalid, fmt.Errorf("unknown kind %q, must be one of %v", s, AllKinds)
}

// Value is a literal taste value of one primitive kind: [KindBool],
// [KindInt] or [KindString]. Values are comparable with ==.
type Value struct {
	s    string
	i    int64
	kind Kind
	b    bool
}

// Bool returns a boolean [Value].
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer [Value].
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// String returns a string [Value].
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// ValueOf converts a decoded configuration primitive into a [Value]. Every Go
// integer type becomes [KindInt]; floats, collections and nil are rejected
// with [ErrUnsupportedValue]. Values are never converted between kinds.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return uintValue(x)
	}

	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, u)
	}

	return Int(int64(u)), nil
}

// Kind returns the primitive kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the zero Value, which holds no kind.
func (v Value) IsZero() bool {
	return v.kind == kindInvalid
}

// Interface returns the value as a plain Go bool, int64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindString, KindEnum:
		return v.s
	default:
		return nil
	}
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString, KindEnum:
		return v.s
	default:
		return "<none>"
	}
}

// Quote formats v so that its kind is visible: strings are quoted.
func (v Value) Quote() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}

	return v.String()
}
