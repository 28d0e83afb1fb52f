package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/aspects/pkg/catalog"
)

func NewExportCmd(rootArgs *RootArgs) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the documentation catalog of every aspect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, span := startSpan(cmd.Context(), "export")
			defer span.End()

			f, err := catalog.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("invalid argument: %w", err)
			}

			r, err := registry()
			if err != nil {
				return err
			}

			tf, err := discoverTasteFile(ctx, rootArgs)
			if err != nil {
				return err
			}

			return encode(cmd, catalog.New(r, catalog.WithResolution(tf.resolve(ctx, r))), f)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(catalog.FormatYAML),
		fmt.Sprintf("Output format, one of: %s", catalog.AllFormats))

	err := cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(catalog.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	bindEnvVars(cmd)

	return cmd
}
