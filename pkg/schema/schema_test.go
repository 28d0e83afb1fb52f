package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/schema"
	"github.com/macropower/aspects/pkg/taxonomy"

	pkgyaml "github.com/macropower/aspects/pkg/yaml"
)

func newRegistry(t *testing.T) *aspect.Registry {
	t.Helper()

	r, err := taxonomy.New()
	require.NoError(t, err)

	return r
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	data, err := schema.NewGenerator(newRegistry(t)).Generate()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "TasteConfig", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "apiVersion")
	assert.Contains(t, props, "kind")

	tastes, ok := props["tastes"].(map[string]any)
	require.True(t, ok)

	tasteProps, ok := tastes["properties"].(map[string]any)
	require.True(t, ok)

	length, ok := tasteProps["max_shortlog_length"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", length["type"])
	assert.Equal(t, "Max Shortlog Length", length["title"])
	assert.Equal(t, []any{float64(50), float64(72), float64(80)}, length["enum"])
	assert.InDelta(t, 72, length["default"], 0)

	tense, ok := tasteProps["shortlog_tense"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", tense["type"])
	assert.Contains(t, tense["enum"], "imperative")

	aspects, ok := props["aspects"].(map[string]any)
	require.True(t, ok)

	aspectProps, ok := aspects["properties"].(map[string]any)
	require.True(t, ok)

	for _, key := range []string{
		"Shortlog",
		"Root.Metadata.CommitMessage.Shortlog",
		"Metadata.CommitMessage.Shortlog",
	} {
		assert.Contains(t, aspectProps, key)
	}
}

func TestGenerator_Shadowing(t *testing.T) {
	t.Parallel()

	r := aspect.NewRegistry()
	docs := aspect.MustDocs("x", "All", "reason", "fix")

	r.MustRegister("Root", "", docs, nil)
	r.MustRegister("Wide", "Root", docs, []*aspect.Taste{
		aspect.MustTaste(aspect.IntTaste("width", "Width.", []int64{80, 100}, 80)),
	})
	r.MustRegister("Narrow", "Wide", docs, []*aspect.Taste{
		aspect.MustTaste(aspect.IntTaste("width", "Width.", []int64{40, 60}, 40)),
	})
	r.MustRegister("Other", "Root", docs, []*aspect.Taste{
		aspect.MustTaste(aspect.BoolTaste("strict", "Strict.", false)),
	})
	require.NoError(t, r.Seal())

	jss := schema.NewGenerator(r).Schema()

	tastes, ok := jss.Properties.Get("tastes")
	require.True(t, ok)

	width, ok := tastes.Properties.Get("width")
	require.True(t, ok)
	require.Len(t, width.AnyOf, 2)

	aspects, ok := jss.Properties.Get("aspects")
	require.True(t, ok)

	other, ok := aspects.Properties.Get("Other")
	require.True(t, ok)

	_, ok = other.Properties.Get("width")
	assert.False(t, ok)

	strict, ok := other.Properties.Get("strict")
	require.True(t, ok)
	assert.Equal(t, []any{true, false}, strict.Enum)

	root, ok := aspects.Properties.Get("Root")
	require.True(t, ok)

	rootWidth, ok := root.Properties.Get("width")
	require.True(t, ok)
	require.Len(t, rootWidth.AnyOf, 2)
	assert.Equal(t, []any{int64(80), int64(100)}, rootWidth.AnyOf[0].Enum)
}

func TestKeys(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	tcs := map[string]struct {
		name string
		want []string
	}{
		"root": {
			name: taxonomy.RootName,
			want: []string{"Root"},
		},
		"child of root": {
			name: taxonomy.Metadata,
			want: []string{"Metadata", "Root.Metadata"},
		},
		"nested": {
			name: taxonomy.Shortlog,
			want: []string{"Shortlog", "Root.Metadata.CommitMessage.Shortlog", "Metadata.CommitMessage.Shortlog"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			n, err := r.Lookup(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, schema.Keys(r, n))
		})
	}
}

func TestNewValidator(t *testing.T) {
	t.Parallel()

	validator, err := schema.NewValidator(newRegistry(t))
	require.NoError(t, err)

	tcs := map[string]struct {
		input    string
		wantPath string
	}{
		"default file": {
			input: string(tasteconfigs.DefaultYAML()),
		},
		"allowed overrides": {
			input: `
apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
tastes:
  max_shortlog_length: 50
  shortlog_tense: past
aspects:
  Metadata.CommitMessage.Shortlog:
    shortlog_period: true
  BodyLength:
    max_body_length: 80
`,
		},
		"value not allowed": {
			input: `
apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
tastes:
  max_shortlog_length: 90
`,
			wantPath: "$.tastes.max_shortlog_length",
		},
		"wrong kind": {
			input: `
apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
tastes:
  shortlog_colon: "yes"
`,
			wantPath: "$.tastes.shortlog_colon",
		},
		"unknown taste": {
			input: `
apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
tastes:
  max_shortlog_lenght: 72
`,
			wantPath: "$.tastes",
		},
		"unknown aspect": {
			input: `
apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
aspects:
  Shortlg:
    shortlog_period: true
`,
			wantPath: "$.aspects",
		},
		"taste not in effect for aspect": {
			input: `
apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
aspects:
  Body:
    shortlog_period: true
`,
			wantPath: "$.aspects.Body",
		},
		"wrong kind field": {
			input: `
apiVersion: aspects.coala.io/v1beta1
kind: Tastes
`,
			wantPath: "$.kind",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var data any
			require.NoError(t, yaml.Unmarshal([]byte(tc.input), &data))

			err := validator.Validate(data)
			if tc.wantPath == "" {
				require.NoError(t, err)
				return
			}

			var yamlErr *pkgyaml.Error
			require.ErrorAs(t, err, &yamlErr)
			assert.Equal(t, tc.wantPath, yamlErr.Path.String())
		})
	}
}
