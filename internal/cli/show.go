package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/aspects/pkg/catalog"
)

type ShowArgs struct {
	*RootArgs

	Output string
}

func NewShowCmd(rootArgs *RootArgs) *cobra.Command {
	sa := &ShowArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:               "show <name|path>",
		Short:             "Show the documentation and tastes of an aspect",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: aspectCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, span := startSpan(cmd.Context(), "show")
			defer span.End()

			format, err := catalog.ParseFormat(sa.Output)
			if err != nil {
				return fmt.Errorf("invalid argument: %w", err)
			}

			r, err := registry()
			if err != nil {
				return err
			}

			n, err := r.LookupPath(args[0])
			if err != nil {
				return err //nolint:wrapcheck // Carries suggestions.
			}

			tf, err := discoverTasteFile(ctx, sa.RootArgs)
			if err != nil {
				return err
			}

			return encode(cmd, catalog.Describe(r, n, catalog.WithResolution(tf.resolve(ctx, r))), format)
		},
	}

	cmd.Flags().StringVarP(&sa.Output, "output", "o", string(catalog.FormatYAML),
		fmt.Sprintf("Output format, one of: %s", catalog.AllFormats))

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(catalog.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	bindEnvVars(cmd)

	return cmd
}
