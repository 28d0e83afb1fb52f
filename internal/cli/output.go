package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/catalog"
	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/taxonomy"
	"github.com/macropower/aspects/pkg/yaml"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int.
}

// writeYAML writes YAML data to the command output, highlighted on terminals.
func writeYAML(cmd *cobra.Command, data []byte) error {
	w := cmd.OutOrStdout()

	if isTerminal(w) {
		highlighted, err := yaml.Highlight(data, termenv.NewOutput(w).EnvColorProfile())
		if err != nil {
			slog.DebugContext(cmd.Context(), "highlight yaml", slog.Any("err", err))
		} else {
			data = highlighted
		}
	}

	_, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// encode writes v to the command output in the given format.
func encode(cmd *cobra.Command, v any, format catalog.Format) error {
	buf := &bytes.Buffer{}

	err := catalog.Encode(buf, v, format)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	if format == catalog.FormatYAML {
		return writeYAML(cmd, buf.Bytes())
	}

	_, err = buf.WriteTo(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func registry() (*aspect.Registry, error) {
	r, err := taxonomy.Default()
	if err != nil {
		return nil, fmt.Errorf("build aspect registry: %w", err)
	}

	return r, nil
}

// tasteFile is a discovered taste file. A missing file resolves to the
// defaults unless it was named explicitly.
type tasteFile struct {
	Config *tasteconfigs.TasteConfig
	Path   string
	Source config.Source
	Data   []byte
}

func (tf *tasteFile) Exists() bool {
	return tf.Data != nil
}

// discoverTasteFile finds the taste file for ra and loads it without checking
// it against the registry, so that invalid overrides can be reported and
// replaced by their defaults.
func discoverTasteFile(ctx context.Context, ra *RootArgs) (*tasteFile, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	path, source, err := config.Discover(ctx, ra.ConfigPath, wd)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	return loadTasteFile(path, source)
}

func loadTasteFile(path string, source config.Source) (*tasteFile, error) {
	tf := &tasteFile{Path: path, Source: source}

	l, err := config.NewLoaderFromFile(path, tasteconfigs.New, nil)
	if errors.Is(err, os.ErrNotExist) && source != config.SourceFlag {
		return tf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read taste file %q: %w", path, err)
	}

	tf.Config, err = l.Load()
	if err != nil {
		return nil, fmt.Errorf("load taste file %q: %w", path, err)
	}

	tf.Data = l.Data()

	return tf, nil
}

// resolve resolves the tastes of tf, or the defaults when tf has no config.
func (tf *tasteFile) resolve(ctx context.Context, r *aspect.Registry) *config.Resolution {
	return config.Resolve(ctx, r, tf.Config)
}
