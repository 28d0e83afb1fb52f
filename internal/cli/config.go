package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/macropower/aspects/api"
	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/schema"
	"github.com/macropower/aspects/pkg/yaml"
)

// ErrNotInteractive is returned when a prompt is needed but stdin is not a
// terminal.
var ErrNotInteractive = errors.New("not running interactively")

func NewConfigCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage taste files",
	}

	cmd.AddCommand(
		newConfigValidateCmd(rootArgs),
		newConfigSetCmd(rootArgs),
		newConfigInitCmd(rootArgs),
	)

	return cmd
}

func newConfigValidateCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Strictly validate a taste file against the aspect registry",
		Long: `Validate a taste file against the schema of the aspect registry. Unlike
resolve, every unknown aspect or taste and every value a taste does not allow
is an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, span := startSpan(cmd.Context(), "config validate")
			defer span.End()

			path := rootArgs.ConfigPath
			if len(args) > 0 {
				path = args[0]
			}

			tf, err := discoverTasteFile(ctx, &RootArgs{ConfigPath: path})
			if err != nil {
				return err
			}
			if !tf.Exists() {
				return fmt.Errorf("read taste file %q: %w", tf.Path, os.ErrNotExist)
			}

			return validateTasteFile(ctx, cmd, tf)
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func validateTasteFile(ctx context.Context, cmd *cobra.Command, tf *tasteFile) error {
	r, err := registry()
	if err != nil {
		return err
	}

	v, err := schema.NewValidator(r)
	if err != nil {
		return fmt.Errorf("create schema validator: %w", err)
	}

	err = config.Check(ctx, r, tf.Data, v, config.WithColor(isTerminal(cmd.ErrOrStderr())))
	if err != nil {
		return fmt.Errorf("invalid taste file %q:\n%w", tf.Path, err)
	}

	mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", tf.Path))

	return nil
}

func newConfigSetCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <name|path> <taste> [value]",
		Short: "Override a taste for an aspect and its subaspects",
		Long: `Set a taste override in the aspects section of the taste file, keeping its
comments. Without a value, the allowed values are offered in a prompt.`,
		Example: `  aspects config set Shortlog max_shortlog_length 50
  aspects config set Metadata.CommitMessage.Shortlog.Tense shortlog_tense`,
		Args:              cobra.RangeArgs(2, 3),
		ValidArgsFunction: tasteCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			if len(args) == 3 {
				value = args[2]
			}

			return setTaste(cmd, rootArgs, args[0], args[1], value, len(args) == 3)
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func setTaste(cmd *cobra.Command, ra *RootArgs, target, name, raw string, hasValue bool) error {
	ctx, span := startSpan(cmd.Context(), "config set")
	defer span.End()

	r, err := registry()
	if err != nil {
		return err
	}

	n, err := r.LookupPath(target)
	if err != nil {
		return err //nolint:wrapcheck // Carries suggestions.
	}

	t, ok := config.ScopeTastes(r, n)[name]
	if !ok {
		return fmt.Errorf("%w %q for aspect %s", config.ErrUnknownTaste, name, n)
	}

	if !hasValue {
		raw, err = promptValue(ctx, n, t)
		if err != nil {
			return err
		}
	}

	v, err := parseValue(t, raw)
	if err != nil {
		return err
	}

	tf, err := discoverTasteFile(ctx, ra)
	if err != nil {
		return err
	}

	data := tf.Data
	if !tf.Exists() {
		data = tasteconfigs.DefaultYAML()
	}

	key := entryKey(r, tf.Config, n)

	data, err = yaml.MergeAt(data, []string{"aspects", key, t.Name()}, v.Interface())
	if err != nil {
		return fmt.Errorf("set taste: %w", err)
	}

	vr, err := schema.NewValidator(r)
	if err != nil {
		return fmt.Errorf("create schema validator: %w", err)
	}

	err = config.Check(ctx, r, data, vr, config.WithColor(isTerminal(cmd.ErrOrStderr())))
	if err != nil {
		return fmt.Errorf("taste file %q would be invalid:\n%w", tf.Path, err)
	}

	err = api.WriteFile(tf.Path, data)
	if err != nil {
		return fmt.Errorf("write taste file: %w", err)
	}

	slog.InfoContext(ctx, "set taste",
		slog.String("path", tf.Path),
		slog.String("aspect", key),
		slog.String("taste", t.Name()),
		slog.String("value", v.Quote()),
	)

	return nil
}

// entryKey returns the key of the existing aspects entry for n in cfg, or
// the name of n when there is none.
func entryKey(r *aspect.Registry, cfg *tasteconfigs.TasteConfig, n *aspect.Node) string {
	if cfg != nil {
		for _, key := range slices.Sorted(maps.Keys(cfg.Aspects)) {
			target, err := r.LookupPath(key)
			if err == nil && target == n {
				return key
			}
		}
	}

	return n.Name()
}

// parseValue parses a command line argument as a value of the kind of t.
func parseValue(t *aspect.Taste, s string) (aspect.Value, error) {
	var v aspect.Value

	switch t.Kind() {
	case aspect.KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return v, fmt.Errorf("invalid argument: taste %s expects a bool: %w", t.Name(), err)
		}

		v = aspect.Bool(b)

	case aspect.KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return v, fmt.Errorf("invalid argument: taste %s expects an integer: %w", t.Name(), err)
		}

		v = aspect.Int(i)

	case aspect.KindString, aspect.KindEnum:
		v = aspect.String(s)
	}

	err := t.Validate(v)
	if err != nil {
		return v, fmt.Errorf("invalid argument: %w", err)
	}

	return v, nil
}

func promptValue(ctx context.Context, n *aspect.Node, t *aspect.Taste) (string, error) {
	if !isTerminal(os.Stdin) {
		return "", fmt.Errorf("%w: a value for %s is required", ErrNotInteractive, t.Name())
	}

	allowed := t.AllowedValues()

	options := make([]huh.Option[string], len(allowed))
	for i, v := range allowed {
		label := v.String()
		if v == t.Default() {
			label += " (default)"
		}

		options[i] = huh.NewOption(label, v.String())
	}

	value := t.Default().String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(t.Name()).
				Description(fmt.Sprintf("%s\n\nApplies to %s and its subaspects.", t.Description(), n)),

			huh.NewSelect[string]().
				Options(options...).
				Value(&value),
		),
	).
		WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("run taste prompt: %w", err)
	}

	return value, nil
}

func newConfigInitCmd(rootArgs *RootArgs) *cobra.Command {
	var force, project bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the commented default taste file",
		Long: `Write the commented default taste file to --config, to .aspects.yaml in the
working directory with --project, or else to the user taste file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := rootArgs.ConfigPath

			switch {
			case path != "":
			case project:
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}

				path = filepath.Join(wd, tasteconfigs.FileNames[0])

			default:
				path = tasteconfigs.GetPath()
			}

			err := tasteconfigs.WriteDefault(path, force)
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped.
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), path))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Back up and replace an existing taste file")
	cmd.Flags().BoolVar(&project, "project", false, "Write .aspects.yaml in the working directory")

	bindEnvVars(cmd)

	return cmd
}
