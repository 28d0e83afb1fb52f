package expr

import (
	"math"
	"strings"
	"unicode"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/macropower/aspects/pkg/aspect"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		cel.Variable("aspect", cel.MapType(cel.StringType, cel.DynType)),

		// `pathBase` returns the last segment of an aspect path.
		// Example: pathBase(aspect.path) == "Shortlog".
		cel.Function("pathBase",
			cel.Overload("path_base", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(path ref.Val) ref.Val {
					pathValue, ok := path.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathBase: invalid string value")
					}

					segments := strings.Split(pathValue, aspect.PathSeparator)

					return types.String(segments[len(segments)-1])
				}),
			),
		),

		// `pathParent` returns all but the last segment of an aspect path.
		// Example: pathParent(aspect.path) == "Root.Metadata".
		cel.Function("pathParent",
			cel.Overload("path_parent", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(path ref.Val) ref.Val {
					pathValue, ok := path.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathParent: invalid string value")
					}

					i := strings.LastIndex(pathValue, aspect.PathSeparator)
					if i < 0 {
						return types.String("")
					}

					return types.String(pathValue[:i])
				}),
			),
		),

		// `isUnder` reports whether a path equals or descends from another,
		// comparing whole segments. The root segment may be omitted.
		// Example: isUnder(aspect.path, "Metadata.CommitMessage").
		cel.Function("isUnder",
			cel.Overload("is_under", []*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(path, ancestor ref.Val) ref.Val {
					pathValue, ok := path.(types.String).Value().(string)
					if !ok {
						return types.NewErr("isUnder: invalid path value")
					}

					ancestorValue, ok := ancestor.(types.String).Value().(string)
					if !ok {
						return types.NewErr("isUnder: invalid ancestor value")
					}

					return types.Bool(IsUnder(pathValue, ancestorValue))
				}),
			),
		),

		// `fold` lowercases text and strips diacritics, for forgiving matches.
		// Example: fold(aspect.description).contains("imperative").
		cel.Function("fold",
			cel.Overload("fold_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(s ref.Val) ref.Val {
					str, ok := s.(types.String).Value().(string)
					if !ok {
						return types.NewErr("fold: invalid string value")
					}

					return types.String(Fold(str))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// IsUnder reports whether the dotted path equals ancestor or descends from
// it. When ancestor does not start with the root segment of path, it is
// matched below the root.
func IsUnder(path, ancestor string) bool {
	segments := strings.Split(path, aspect.PathSeparator)

	want := strings.Split(strings.ReplaceAll(ancestor, "/", aspect.PathSeparator), aspect.PathSeparator)
	if len(want) == 0 || want[0] == "" {
		return false
	}
	if want[0] != segments[0] {
		want = append([]string{segments[0]}, want...)
	}
	if len(want) > len(segments) {
		return false
	}

	for i, s := range want {
		if segments[i] != s {
			return false
		}
	}

	return true
}

// Fold lowercases s and removes diacritics.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strings.ToLower(folded)
}

// ConvertToCELValue converts a Go value to a CEL value.
// Handles common config types and returns null for unsupported types.
//
//nolint:ireturn // Following CEL's function signature.
func ConvertToCELValue(value any) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue

	case bool:
		return types.Bool(v)

	case int:
		return types.Int(v)

	case int64:
		return types.Int(v)

	case uint64:
		// Check for overflow when converting to int64.
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case float64:
		return types.Double(v)

	case string:
		return types.String(v)

	case aspect.Value:
		return ConvertToCELValue(v.Interface())

	case []string:
		celValues := make([]ref.Val, len(v))
		for i, item := range v {
			celValues[i] = types.String(item)
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, celValues)

	case []any:
		celValues := make([]ref.Val, len(v))
		for i, item := range v {
			celValues[i] = ConvertToCELValue(item)
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, celValues)

	case map[string]aspect.Value:
		celMap := make(map[ref.Val]ref.Val, len(v))
		for key, val := range v {
			celMap[types.String(key)] = ConvertToCELValue(val)
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	case map[string]any:
		celMap := make(map[ref.Val]ref.Val, len(v))
		for key, val := range v {
			celMap[types.String(key)] = ConvertToCELValue(val)
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	default:
		// For unsupported types, return null instead of erroring.
		return types.NullValue
	}
}
