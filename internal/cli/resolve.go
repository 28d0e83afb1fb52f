package cli

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	goyaml "github.com/goccy/go-yaml"

	"github.com/macropower/aspects/api"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/yaml"
)

type ResolveArgs struct {
	*RootArgs

	Diff  bool
	Watch bool
}

func NewResolveCmd(rootArgs *RootArgs) *cobra.Command {
	ra := &ResolveArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:   "resolve [name|path]",
		Short: "Print the effective taste values, with invalid overrides replaced by defaults",
		Long: `Print the effective taste values of every aspect, or of one aspect and its
subaspects. Overrides that name unknown aspects or tastes, or values that a
taste does not allow, are logged as warnings and the default is used.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: aspectCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) > 0 {
				target = args[0]
			}

			return resolve(cmd, ra, target)
		},
	}

	cmd.Flags().BoolVarP(&ra.Diff, "diff", "d", false, "Show a diff between the defaults and the effective values")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Resolve again whenever the taste file changes")

	bindEnvVars(cmd)

	return cmd
}

func resolve(cmd *cobra.Command, ra *ResolveArgs, target string) error {
	ctx := cmd.Context()

	r, err := registry()
	if err != nil {
		return err
	}

	start := r.Root()
	if target != "" {
		start, err = r.LookupPath(target)
		if err != nil {
			return err //nolint:wrapcheck // Carries suggestions.
		}
	}

	tf, err := discoverTasteFile(ctx, ra.RootArgs)
	if err != nil {
		return err
	}

	err = printResolution(ctx, cmd, ra, r, tf, start)
	if err != nil || !ra.Watch {
		return err
	}

	return config.Watch(ctx, tf.Path, func(ctx context.Context, evt fsnotify.Event) {
		slog.InfoContext(ctx, "taste file changed", slog.String("op", evt.Op.String()))

		reloaded, err := loadTasteFile(tf.Path, tf.Source)
		if err != nil {
			slog.ErrorContext(ctx, "reload taste file", slog.Any("err", err))
			return
		}

		err = printResolution(ctx, cmd, ra, r, reloaded, start)
		if err != nil {
			slog.ErrorContext(ctx, "resolve tastes", slog.Any("err", err))
		}
	})
}

func printResolution(
	ctx context.Context,
	cmd *cobra.Command,
	ra *ResolveArgs,
	r *aspect.Registry,
	tf *tasteFile,
	start *aspect.Node,
) error {
	ctx, span := startSpan(ctx, "resolve")
	defer span.End()

	res := tf.resolve(ctx, r)

	effective, err := api.MarshalYAML(effectiveValues(res, start))
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	if !ra.Diff {
		return writeYAML(cmd, effective)
	}

	defaults, err := api.MarshalYAML(effectiveValues(config.Resolve(ctx, r, nil), start))
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	d := yaml.Diff("defaults", tf.Path, defaults, effective, isTerminal(cmd.OutOrStdout()))
	if d == "" {
		slog.InfoContext(ctx, "no overrides in effect",
			slog.String("path", tf.Path),
			slog.Bool("exists", tf.Exists()),
		)

		return nil
	}

	mustN(fmt.Fprint(cmd.OutOrStdout(), d))

	return nil
}

// effectiveValues returns the effective tastes of start and its subaspects,
// keyed by aspect path, in registration order. Aspects without tastes are
// omitted.
func effectiveValues(res *config.Resolution, start *aspect.Node) goyaml.MapSlice {
	var out goyaml.MapSlice

	var walk func(n *aspect.Node)
	walk = func(n *aspect.Node) {
		values := res.Values(n)
		if len(values) > 0 {
			tastes := make(goyaml.MapSlice, 0, len(values))
			for _, name := range slices.Sorted(maps.Keys(values)) {
				tastes = append(tastes, goyaml.MapItem{Key: name, Value: values[name].Interface()})
			}

			out = append(out, goyaml.MapItem{Key: n.String(), Value: tastes})
		}

		for _, c := range n.Children() {
			walk(c)
		}
	}
	if start != nil {
		walk(start)
	}

	return out
}
