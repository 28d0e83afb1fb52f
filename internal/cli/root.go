package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/aspects/pkg/log"
)

const (
	cmdName = "aspects"
	cmdDesc = `Browse the aspect taxonomy and manage taste overrides.`

	cmdExamples = `  # Show the aspect tree:
  aspects list --tree

  # Find aspects with a CEL filter:
  aspects list --filter 'isUnder(aspect.path, "Metadata.CommitMessage.Shortlog")'

  # Show the effective tastes, compared with the defaults:
  aspects resolve --diff

  # Override a taste for one aspect and its subaspects:
  aspects config set Shortlog max_shortlog_length 50

  # Serve the taxonomy to agents over MCP:
  aspects serve-mcp`
)

type RootArgs struct {
	shutdown     func(context.Context) error
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
	ConfigPath   string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "Export traces to this OTLP gRPC endpoint (host:port)")
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the taste file, default is the nearest .aspects.yaml or the user taste file")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:                cmdName,
		Short:              cmdDesc,
		Example:            cmdExamples,
		PersistentPreRunE:  setup(args),
		PersistentPostRunE: teardown(args),
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewListCmd(args),
		NewShowCmd(args),
		NewResolveCmd(args),
		NewConfigCmd(args),
		NewSchemaCmd(args),
		NewExportCmd(args),
		NewServeMCPCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		err := log.Setup(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		ra.shutdown, err = setupTracing(cmd.Context(), ra.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if ra.shutdown == nil {
			return nil
		}

		err := ra.shutdown(context.WithoutCancel(cmd.Context()))
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.WarnContext(cmd.Context(), "flush traces", slog.Any("err", err))
		}

		return nil
	}
}
