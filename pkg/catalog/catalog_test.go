package catalog_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/catalog"
	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/taxonomy"
)

func newRegistry(t *testing.T) *aspect.Registry {
	t.Helper()

	r, err := taxonomy.New()
	require.NoError(t, err)

	return r
}

func count(a *catalog.Aspect) int {
	n := 1
	for _, s := range a.Subaspects {
		n += count(s)
	}

	return n
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	c := catalog.New(r)

	require.NotNil(t, c.Root)
	assert.Equal(t, "Root", c.Root.Path)
	assert.Equal(t, r.Len(), c.Count)
	assert.Equal(t, r.Len(), count(c.Root))

	metadata := c.Root.Subaspects[0]
	assert.Equal(t, "Metadata", metadata.Name)
	assert.Equal(t, "Root.Metadata", metadata.Path)
	require.NotNil(t, metadata.Docs)
	assert.NotEmpty(t, metadata.Docs.ImportanceReason)
	assert.Empty(t, metadata.Resolved)
}

func TestNew_Empty(t *testing.T) {
	t.Parallel()

	c := catalog.New(aspect.NewRegistry())
	assert.Nil(t, c.Root)
	assert.Zero(t, c.Count)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	cfg := tasteconfigs.New()
	cfg.Aspects["Shortlog"] = map[string]any{"max_shortlog_length": 50}

	res := config.Resolve(t.Context(), r, cfg)
	require.NoError(t, res.Err())

	n, err := r.Lookup(taxonomy.ShortlogLength)
	require.NoError(t, err)

	a := catalog.Describe(r, n, catalog.WithResolution(res))
	assert.Equal(t, "Root.Metadata.CommitMessage.Shortlog.ShortlogLength", a.Path)
	assert.Empty(t, a.Subaspects)

	require.Len(t, a.Tastes, 1)
	assert.Equal(t, catalog.Taste{
		Name:        "max_shortlog_length",
		Description: a.Tastes[0].Description,
		Kind:        "int",
		Allowed:     []any{int64(50), int64(72), int64(80)},
		Default:     int64(72),
	}, a.Tastes[0])

	require.Len(t, a.Resolved, 1)
	assert.Equal(t, int64(50), a.Resolved[0].Value)
	assert.Equal(t, a.Path, a.Resolved[0].DeclaredIn)

	summary := catalog.Describe(r, n, catalog.WithSummary())
	assert.Nil(t, summary.Docs)
	assert.Empty(t, summary.Tastes)
}

func TestList(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	list := catalog.List(r, r.Nodes(), catalog.WithSummary())
	require.Len(t, list, r.Len())

	for i, n := range r.Nodes() {
		assert.Equal(t, n.Name(), list[i].Name)
		assert.Equal(t, n.String(), list[i].Path)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	n, err := r.Lookup(taxonomy.Tense)
	require.NoError(t, err)

	res := config.Resolve(t.Context(), r, nil)
	a := catalog.Describe(r, n, catalog.WithResolution(res))

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		require.NoError(t, catalog.Encode(buf, a, catalog.FormatJSON))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "Tense", got["name"])

		resolved, ok := got["resolved"].([]any)
		require.True(t, ok)
		require.Len(t, resolved, 1)

		first, ok := resolved[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "shortlog_tense", first["name"])
		assert.Equal(t, "imperative", first["value"])
		assert.Equal(t, "Root.Metadata.CommitMessage.Shortlog.Tense", first["declaredIn"])
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		require.NoError(t, catalog.Encode(buf, a, catalog.FormatYAML))
		assert.Contains(t, buf.String(), "name: Tense\n")
		assert.Contains(t, buf.String(), "value: imperative")
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		err := catalog.Encode(&bytes.Buffer{}, a, catalog.Format("toml"))
		require.ErrorIs(t, err, catalog.ErrUnknownFormat)
	})
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := catalog.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, catalog.FormatJSON, f)

	_, err = catalog.ParseFormat("xml")
	require.ErrorIs(t, err, catalog.ErrUnknownFormat)
}
