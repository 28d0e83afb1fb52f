package config_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/taxonomy"
	"github.com/macropower/aspects/pkg/yaml"
)

func lookup(t *testing.T, r *aspect.Registry, path string) *aspect.Node {
	t.Helper()

	n, err := r.LookupPath(path)
	require.NoError(t, err)

	return n
}

func TestOverrides_For(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)

	cfg := tasteconfigs.New()
	cfg.Tastes["max_shortlog_length"] = 80
	cfg.Tastes["shortlog_period"] = true
	cfg.Aspects["Shortlog"] = map[string]any{"max_shortlog_length": 50}
	cfg.Aspects["Metadata.CommitMessage.Shortlog.ShortlogLength"] = map[string]any{"max_shortlog_length": 72}

	o := config.NewOverrides(r, cfg)
	require.Empty(t, o.Problems())

	tcs := map[string]struct {
		want map[string]aspect.Value
		path string
	}{
		"root gets global tastes": {
			path: "Root",
			want: map[string]aspect.Value{
				"max_shortlog_length": aspect.Int(80),
				"shortlog_period":     aspect.Bool(true),
			},
		},
		"aspect entry overrides global": {
			path: "Metadata.CommitMessage.Shortlog.Tense",
			want: map[string]aspect.Value{
				"max_shortlog_length": aspect.Int(50),
				"shortlog_period":     aspect.Bool(true),
			},
		},
		"nearest entry wins": {
			path: "Metadata.CommitMessage.Shortlog.ShortlogLength",
			want: map[string]aspect.Value{
				"max_shortlog_length": aspect.Int(72),
				"shortlog_period":     aspect.Bool(true),
			},
		},
		"sibling subtree is unaffected": {
			path: "Metadata.CommitMessage.Body.BodyLength",
			want: map[string]aspect.Value{
				"max_shortlog_length": aspect.Int(80),
				"shortlog_period":     aspect.Bool(true),
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, o.For(lookup(t, r, tc.path)))
		})
	}
}

func TestNewOverrides_Problems(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)

	tcs := map[string]struct {
		setup    func(cfg *tasteconfigs.TasteConfig)
		wantErr  error
		wantPath string
	}{
		"unknown global taste": {
			setup: func(cfg *tasteconfigs.TasteConfig) {
				cfg.Tastes["max_shortlog_lenght"] = 72
			},
			wantErr:  config.ErrUnknownTaste,
			wantPath: "$.tastes.max_shortlog_lenght",
		},
		"unsupported value": {
			setup: func(cfg *tasteconfigs.TasteConfig) {
				cfg.Tastes["max_body_length"] = 72.5
			},
			wantErr:  aspect.ErrUnsupportedValue,
			wantPath: "$.tastes.max_body_length",
		},
		"unknown aspect": {
			setup: func(cfg *tasteconfigs.TasteConfig) {
				cfg.Aspects["Shortlg"] = map[string]any{"shortlog_period": true}
			},
			wantErr:  aspect.ErrNotFound,
			wantPath: "$.aspects.Shortlg",
		},
		"taste outside aspect scope": {
			setup: func(cfg *tasteconfigs.TasteConfig) {
				cfg.Aspects["Body"] = map[string]any{"shortlog_period": true}
			},
			wantErr:  config.ErrUnknownTaste,
			wantPath: "$.aspects.Body.shortlog_period",
		},
		"conflicting entries for one aspect": {
			setup: func(cfg *tasteconfigs.TasteConfig) {
				cfg.Aspects["ShortlogLength"] = map[string]any{"max_shortlog_length": 50}
				cfg.Aspects["Metadata.CommitMessage.Shortlog.ShortlogLength"] = map[string]any{"max_shortlog_length": 80}
			},
			wantErr:  config.ErrConflictingOverride,
			wantPath: "$.aspects.ShortlogLength.max_shortlog_length",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := tasteconfigs.New()
			tc.setup(cfg)

			problems := config.NewOverrides(r, cfg).Problems()
			require.Len(t, problems, 1)
			require.ErrorIs(t, problems[0], tc.wantErr)

			var yamlErr *yaml.Error
			require.ErrorAs(t, problems[0], &yamlErr)
			assert.Equal(t, tc.wantPath, yamlErr.Path.String())
		})
	}
}

func TestNewOverrides_SameAspectTwice(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)

	n := lookup(t, r, "ShortlogLength")

	tcs := map[string]struct {
		short        any
		want         aspect.Value
		wantProblems int
	}{
		"same value": {
			short: 80,
			want:  aspect.Int(80),
		},
		"different value keeps first key": {
			short:        50,
			want:         aspect.Int(80),
			wantProblems: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := tasteconfigs.New()
			cfg.Aspects["ShortlogLength"] = map[string]any{"max_shortlog_length": tc.short}
			cfg.Aspects["Metadata.CommitMessage.Shortlog.ShortlogLength"] = map[string]any{"max_shortlog_length": 80}

			o := config.NewOverrides(r, cfg)
			assert.Len(t, o.Problems(), tc.wantProblems)
			assert.Equal(t, tc.want, o.For(n)["max_shortlog_length"])
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()

		res := config.Resolve(t.Context(), r, nil)
		require.NoError(t, res.Err())
		assert.Same(t, r, res.Registry())

		n := lookup(t, r, "Metadata.CommitMessage.Shortlog.ShortlogLength")
		assert.Equal(t, map[string]aspect.Value{"max_shortlog_length": aspect.Int(72)}, res.Values(n))
	})

	t.Run("valid overrides apply", func(t *testing.T) {
		t.Parallel()

		cfg := tasteconfigs.New()
		cfg.Tastes["shortlog_tense"] = "past"
		cfg.Aspects["BodyLength"] = map[string]any{"max_body_length": uint64(80)}

		res := config.Resolve(t.Context(), r, cfg)
		require.NoError(t, res.Err())

		v, ok := res.Value(lookup(t, r, "Tense"), "shortlog_tense")
		require.True(t, ok)
		assert.Equal(t, aspect.String("past"), v)

		v, ok = res.Value(lookup(t, r, "BodyLength"), "max_body_length")
		require.True(t, ok)
		assert.Equal(t, aspect.Int(80), v)

		_, ok = res.Value(lookup(t, r, "Metadata"), "max_body_length")
		assert.False(t, ok)
	})

	t.Run("invalid override falls back to default", func(t *testing.T) {
		t.Parallel()

		cfg := tasteconfigs.New()
		cfg.Tastes["max_shortlog_length"] = 90
		cfg.Tastes["shortlog_colon"] = "yes"

		res := config.Resolve(t.Context(), r, cfg)

		v, ok := res.Value(lookup(t, r, "ShortlogLength"), "max_shortlog_length")
		require.True(t, ok)
		assert.Equal(t, aspect.Int(72), v)

		v, ok = res.Value(lookup(t, r, "ColonExistence"), "shortlog_colon")
		require.True(t, ok)
		assert.Equal(t, aspect.Bool(true), v)

		problems := res.Problems()
		require.Len(t, problems, 2)

		var verr *aspect.ValidationError
		require.ErrorAs(t, res.Err(), &verr)
		require.ErrorIs(t, res.Err(), aspect.ErrNotAllowed)
		require.ErrorIs(t, res.Err(), aspect.ErrWrongKind)
		assert.Contains(t, res.Err().Error(), "{50, 72, 80}")

		var yamlErr *yaml.Error
		require.ErrorAs(t, problems[0], &yamlErr)
		assert.Contains(t, []string{"$.tastes.max_shortlog_length", "$.tastes.shortlog_colon"}, yamlErr.Path.String())
	})
}

func TestResolution_ProblemsFor(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)

	cfg := tasteconfigs.New()
	cfg.Tastes["max_shortlog_length"] = 90
	cfg.Tastes["max_shortlog_lenght"] = 72
	cfg.Aspects["Body"] = map[string]any{"max_body_length": 90, "shortlog_period": true}
	cfg.Aspects["Shortlg"] = map[string]any{"shortlog_period": true}

	res := config.Resolve(t.Context(), r, cfg)
	require.Len(t, res.Problems(), 5)

	tcs := map[string]struct {
		path      string
		wantPaths []string
	}{
		"rejected global taste": {
			path:      "ShortlogLength",
			wantPaths: []string{"$.tastes.max_shortlog_length"},
		},
		"entries of an ancestor": {
			path:      "BodyLength",
			wantPaths: []string{"$.aspects.Body.shortlog_period", "$.aspects.Body.max_body_length"},
		},
		"dropped entry of the aspect itself": {
			path:      "Body",
			wantPaths: []string{"$.aspects.Body.shortlog_period"},
		},
		"unrelated aspect": {
			path: "Metadata",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var paths []string
			for _, p := range res.ProblemsFor(lookup(t, r, tc.path)) {
				var yamlErr *yaml.Error
				require.ErrorAs(t, p, &yamlErr)

				paths = append(paths, yamlErr.Path.String())
			}

			assert.Equal(t, tc.wantPaths, paths)
		})
	}
}

//nolint:paralleltest // Replaces the default logger.
func TestResolve_LogsWarnings(t *testing.T) {
	buf := &bytes.Buffer{}

	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r, err := taxonomy.New()
	require.NoError(t, err)

	cfg := tasteconfigs.New()
	cfg.Aspects["Shortlog"] = map[string]any{"max_shortlog_length": 90}

	res := config.Resolve(t.Context(), r, cfg)
	require.Len(t, res.Problems(), 1)

	out := buf.String()
	assert.Contains(t, out, `"msg":"invalid taste override, using default"`)
	assert.Contains(t, out, `"taste":"max_shortlog_length"`)
	assert.Contains(t, out, `"value":"90"`)
	assert.Contains(t, out, `"allowed":"{50, 72, 80}"`)
	assert.Contains(t, out, `"aspect":"Root.Metadata.CommitMessage.Shortlog.ShortlogLength"`)
}

func TestResolve_ShadowedDeclarations(t *testing.T) {
	t.Parallel()

	docs := aspect.MustDocs("x", aspect.LanguageAll, "reason", "fix")

	r := aspect.NewRegistry()
	r.MustRegister("Root", "", docs, nil)
	r.MustRegister("Wide", "Root", docs, []*aspect.Taste{
		aspect.MustTaste(aspect.IntTaste("width", "Width.", []int64{80, 100}, 80)),
	})
	r.MustRegister("Narrow", "Wide", docs, []*aspect.Taste{
		aspect.MustTaste(aspect.IntTaste("width", "Width.", []int64{40, 60}, 40)),
	})
	r.MustRegister("Leaf", "Wide", docs, nil)
	require.NoError(t, r.Seal())

	cfg := tasteconfigs.New()
	cfg.Tastes["width"] = 60

	res := config.Resolve(t.Context(), r, cfg)

	v, _ := res.Value(lookup(t, r, "Narrow"), "width")
	assert.Equal(t, aspect.Int(60), v)

	v, _ = res.Value(lookup(t, r, "Leaf"), "width")
	assert.Equal(t, aspect.Int(80), v)

	// Rejected once for the Wide declaration, although Leaf inherits it too.
	require.Len(t, res.Problems(), 1)
	assert.Contains(t, res.Err().Error(), "Root.Wide.width")
}

func TestScopeTastes(t *testing.T) {
	t.Parallel()

	r, err := taxonomy.New()
	require.NoError(t, err)

	tcs := map[string]struct {
		path string
		want []string
	}{
		"leaf": {
			path: "BodyLength",
			want: []string{"max_body_length"},
		},
		"inner aspect includes subtree": {
			path: "Body",
			want: []string{"max_body_length"},
		},
		"unrelated branch": {
			path: "Emptiness",
			want: []string{},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			scope := config.ScopeTastes(r, lookup(t, r, tc.path))

			got := []string{}
			for name, taste := range scope {
				got = append(got, name)
				assert.Equal(t, name, taste.Name())
			}

			assert.ElementsMatch(t, tc.want, got)
		})
	}

	scope := config.ScopeTastes(r, r.Root())
	assert.Len(t, scope, 6)
}
