package taxonomy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/taxonomy"
)

func TestNew(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)
	assert.True(t, r.Sealed())
	assert.Equal(t, 13, r.Len())
	assert.Equal(t, taxonomy.RootName, r.Root().Name())

	for _, n := range r.Nodes() {
		require.NoError(t, n.Docs().Validate(), n.Name())
		assert.NotEmpty(t, n.Description(), n.Name())
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	a, err := taxonomy.Default()
	require.NoError(t, err)

	b, err := taxonomy.Default()
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestRegister_Twice(t *testing.T) {
	t.Parallel()

	r := aspect.NewRegistry()
	require.NoError(t, taxonomy.Register(r))

	err := taxonomy.Register(r)
	require.ErrorIs(t, err, aspect.ErrDuplicateAspect)
}

func TestTastes(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)

	tcs := map[string]struct {
		path    string
		taste   string
		kind    aspect.Kind
		def     aspect.Value
		allowed []aspect.Value
	}{
		"shortlog colon": {
			path:    "Metadata.CommitMessage.Shortlog.ColonExistence",
			taste:   "shortlog_colon",
			kind:    aspect.KindBool,
			def:     aspect.Bool(true),
			allowed: []aspect.Value{aspect.Bool(true), aspect.Bool(false)},
		},
		"shortlog period": {
			path:    "Metadata.CommitMessage.Shortlog.TrailingPeriod",
			taste:   "shortlog_period",
			kind:    aspect.KindBool,
			def:     aspect.Bool(false),
			allowed: []aspect.Value{aspect.Bool(true), aspect.Bool(false)},
		},
		"shortlog tense": {
			path:  "Tense",
			taste: "shortlog_tense",
			kind:  aspect.KindEnum,
			def:   aspect.String(taxonomy.TenseImperative),
			allowed: []aspect.Value{
				aspect.String("imperative"),
				aspect.String("present continuous"),
				aspect.String("past"),
			},
		},
		"shortlog length": {
			path:    "Root/Metadata/CommitMessage/Shortlog/ShortlogLength",
			taste:   "max_shortlog_length",
			kind:    aspect.KindInt,
			def:     aspect.Int(72),
			allowed: []aspect.Value{aspect.Int(50), aspect.Int(72), aspect.Int(80)},
		},
		"first character": {
			path:    "FirstCharacter",
			taste:   "shortlog_starts_upper_case",
			kind:    aspect.KindBool,
			def:     aspect.Bool(true),
			allowed: []aspect.Value{aspect.Bool(true), aspect.Bool(false)},
		},
		"body length": {
			path:    "Metadata/CommitMessage/Body/BodyLength",
			taste:   "max_body_length",
			kind:    aspect.KindInt,
			def:     aspect.Int(72),
			allowed: []aspect.Value{aspect.Int(50), aspect.Int(72), aspect.Int(80)},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			n, err := r.LookupPath(tc.path)
			require.NoError(t, err)

			taste, ok := n.Taste(tc.taste)
			require.True(t, ok)
			assert.Equal(t, tc.kind, taste.Kind())
			assert.Equal(t, tc.def, taste.Default())
			assert.Equal(t, tc.allowed, taste.AllowedValues())
			assert.NotEmpty(t, taste.Description())
		})
	}
}

func TestDocs(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)

	metadata, err := r.Lookup(taxonomy.Metadata)
	require.NoError(t, err)
	assert.True(t, metadata.Docs().LanguageIndependent())

	length, err := r.Lookup(taxonomy.ShortlogLength)
	require.NoError(t, err)
	assert.Equal(t, "English", length.Docs().ExampleLanguage)
	assert.Contains(t, length.Docs().FixSuggestions, "\n- Omitting a trailing period saves another character\n")

	commit, err := r.Lookup(taxonomy.CommitMessage)
	require.NoError(t, err)
	assert.Contains(t, commit.Docs().ImportanceReason, "(e.g. through\n`git bisect`)")
}

func TestStructure(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)

	var got []string
	err = r.Walk(func(n *aspect.Node) error {
		got = append(got, n.String())
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Root",
		"Root.Metadata",
		"Root.Metadata.CommitMessage",
		"Root.Metadata.CommitMessage.Emptiness",
		"Root.Metadata.CommitMessage.Shortlog",
		"Root.Metadata.CommitMessage.Shortlog.ColonExistence",
		"Root.Metadata.CommitMessage.Shortlog.TrailingPeriod",
		"Root.Metadata.CommitMessage.Shortlog.Tense",
		"Root.Metadata.CommitMessage.Shortlog.ShortlogLength",
		"Root.Metadata.CommitMessage.Shortlog.FirstCharacter",
		"Root.Metadata.CommitMessage.Body",
		"Root.Metadata.CommitMessage.Body.Existence",
		"Root.Metadata.CommitMessage.Body.BodyLength",
	}, got)
}
