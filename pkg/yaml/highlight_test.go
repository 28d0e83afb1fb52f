package yaml_test

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/aspects/pkg/yaml"
)

func TestHighlight(t *testing.T) {
	t.Parallel()

	src := []byte("tastes:\n  shortlog_colon: true\n")

	got, err := yaml.Highlight(src, termenv.Ascii)
	require.NoError(t, err)
	assert.Equal(t, src, got)

	got, err = yaml.Highlight(src, termenv.TrueColor)
	require.NoError(t, err)
	assert.Contains(t, string(got), "\x1b[")
	assert.Contains(t, string(got), "shortlog_colon")
}

func TestDiff(t *testing.T) {
	t.Parallel()

	oldData := []byte("max_shortlog_length: 72\nshortlog_colon: true\n")
	newData := []byte("max_shortlog_length: 50\nshortlog_colon: true\n")

	assert.Empty(t, yaml.Diff("defaults", "effective", oldData, oldData, false))

	got := yaml.Diff("defaults", "effective", oldData, newData, false)
	assert.Contains(t, got, "--- defaults")
	assert.Contains(t, got, "+++ effective")
	assert.Contains(t, got, "-max_shortlog_length: 72")
	assert.Contains(t, got, "+max_shortlog_length: 50")
	assert.True(t, strings.HasSuffix(got, "\n"))

	colored := yaml.Diff("defaults", "effective", oldData, newData, true)
	assert.Contains(t, colored, "max_shortlog_length: 50")
}
