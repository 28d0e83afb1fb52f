package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/aspects/api"
	"github.com/macropower/aspects/pkg/schema"
)

func NewSchemaCmd(_ *RootArgs) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of taste files for the aspect registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, span := startSpan(cmd.Context(), "schema")
			defer span.End()

			r, err := registry()
			if err != nil {
				return err
			}

			b, err := schema.NewGenerator(r).Generate()
			if err != nil {
				return fmt.Errorf("generate schema: %w", err)
			}

			if output != "" {
				return api.WriteFile(output, b) //nolint:wrapcheck // Already wrapped.
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), string(b)))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the schema to this file instead of stdout")

	err := cmd.MarkFlagFilename("output", "json")
	if err != nil {
		panic(fmt.Errorf("mark output flag: %w", err))
	}

	bindEnvVars(cmd)

	return cmd
}
