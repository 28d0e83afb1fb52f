package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/schema"
	"github.com/macropower/aspects/pkg/taxonomy"
	"github.com/macropower/aspects/pkg/yaml"
)

func createTempFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".aspects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func newValidator(t *testing.T) *yaml.Validator {
	t.Helper()

	r, err := taxonomy.Default()
	require.NoError(t, err)

	v, err := schema.NewValidator(r)
	require.NoError(t, err)

	return v
}

func TestNewLoaderFromFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setupFile func(t *testing.T) string
		wantErr   bool
	}{
		"valid file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return createTempFile(t, "apiVersion: aspects.coala.io/v1beta1\nkind: TasteConfig\n")
			},
		},
		"non-existent file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "missing.yaml")
			},
			wantErr: true,
		},
		"directory instead of file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := config.NewLoaderFromFile(tc.setupFile(t), tasteconfigs.New, nil)
			if tc.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestLoader_Validate(t *testing.T) {
	t.Parallel()

	validator := newValidator(t)

	tcs := map[string]struct {
		input  string
		errMsg string
	}{
		"valid config": {
			input: `apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
tastes:
  max_body_length: 80
`,
		},
		"invalid yaml": {
			input: `apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
tastes: [unclosed
`,
			errMsg: "sequence end token ']' not found",
		},
		"missing required fields": {
			input:  "tastes: {}\n",
			errMsg: "missing properties 'apiVersion', 'kind'",
		},
		"value not allowed": {
			input: `apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
tastes:
  max_shortlog_length: 90
`,
			errMsg: "[4:3]",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewLoaderFromBytes([]byte(tc.input), tasteconfigs.New, validator)

			err := cl.Validate()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		errMsg  string
		want    *tasteconfigs.TasteConfig
		wantErr bool
	}{
		"overrides": {
			input: `apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
tastes:
  shortlog_period: true
aspects:
  Shortlog:
    max_shortlog_length: 50
`,
			want: &tasteconfigs.TasteConfig{
				Tastes: map[string]any{"shortlog_period": true},
				Aspects: map[string]map[string]any{
					"Shortlog": {"max_shortlog_length": uint64(50)},
				},
			},
		},
		"empty document gets defaults": {
			input: "apiVersion: aspects.coala.io/v1beta1\nkind: TasteConfig\n",
			want: &tasteconfigs.TasteConfig{
				Tastes:  map[string]any{},
				Aspects: map[string]map[string]any{},
			},
		},
		"invalid yaml": {
			input:   "tastes: [unclosed\n",
			wantErr: true,
			errMsg:  "sequence end token ']' not found",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewLoaderFromBytes([]byte(tc.input), tasteconfigs.New, nil)

			cfg, err := cl.Load()
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tasteconfigs.Kind, cfg.GetKind())
			assert.Equal(t, tc.want.Tastes, cfg.Tastes)
			assert.Equal(t, tc.want.Aspects, cfg.Aspects)
		})
	}
}

func TestLoader_Annotate(t *testing.T) {
	t.Parallel()

	input := `apiVersion: aspects.coala.io/v1beta1
kind: TasteConfig
tastes:
  shortlog_period: 1.5
  max_body_length: [80]
`

	cl := config.NewLoaderFromBytes([]byte(input), tasteconfigs.New, nil)

	cfg, err := cl.Load()
	require.NoError(t, err)

	err = cl.Annotate(cfg.Validate())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[4:3]")
	assert.Contains(t, err.Error(), "[5:3]")

	require.NoError(t, cl.Annotate(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, cl.Annotate(plain))
	assert.Equal(t, []byte(input), cl.Data())
}
