package aspect_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/aspects/pkg/aspect"
)

func TestValueOf(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in      any
		want    aspect.Value
		wantErr error
	}{
		"bool": {
			in:   true,
			want: aspect.Bool(true),
		},
		"string": {
			in:   "imperative",
			want: aspect.String("imperative"),
		},
		"int": {
			in:   72,
			want: aspect.Int(72),
		},
		"uint64 from yaml": {
			in:   uint64(50),
			want: aspect.Int(50),
		},
		"negative int64": {
			in:   int64(-1),
			want: aspect.Int(-1),
		},
		"value passes through": {
			in:   aspect.String("x"),
			want: aspect.String("x"),
		},
		"uint64 overflow": {
			in:      uint64(math.MaxUint64),
			wantErr: aspect.ErrUnsupportedValue,
		},
		"float is not coerced": {
			in:      72.0,
			wantErr: aspect.ErrUnsupportedValue,
		},
		"nil": {
			in:      nil,
			wantErr: aspect.ErrUnsupportedValue,
		},
		"list": {
			in:      []any{1, 2},
			wantErr: aspect.ErrUnsupportedValue,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := aspect.ValueOf(tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	t.Parallel()

	b, ok := aspect.Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = aspect.Bool(true).AsInt()
	assert.False(t, ok)

	i, ok := aspect.Int(80).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(80), i)

	s, ok := aspect.String("past").AsString()
	assert.True(t, ok)
	assert.Equal(t, "past", s)

	assert.True(t, aspect.Value{}.IsZero())
	assert.Nil(t, aspect.Value{}.Interface())
	assert.Equal(t, int64(80), aspect.Int(80).Interface())
	assert.Equal(t, `"80"`, aspect.String("80").Quote())
	assert.Equal(t, "80", aspect.Int(80).Quote())
	assert.NotEqual(t, aspect.String("80"), aspect.Int(80))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, name := range aspect.AllKinds {
		k, err := aspect.ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.String())
		assert.True(t, k.Valid())
		assert.NotEmpty(t, k.JSONType())
	}

	_, err := aspect.ParseKind("float")
	require.Error(t, err)
}
