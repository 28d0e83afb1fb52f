package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/mcp"
)

func NewServeMCPCmd(rootArgs *RootArgs) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the aspect registry over the Model Context Protocol",
		Long: `Serve the aspect registry over MCP. With no address the server speaks over
stdio; otherwise it serves streamable HTTP, with Prometheus metrics at /metrics.
The taste file is reloaded when it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			r, err := registry()
			if err != nil {
				return err
			}

			tf, err := discoverTasteFile(ctx, rootArgs)
			if err != nil {
				return err
			}

			s, err := mcp.NewServer(address, r, mcp.WithConfig(tf.Config))
			if err != nil {
				return fmt.Errorf("create MCP server: %w", err)
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			go watchTasteFile(ctx, tf, s)

			return s.Serve(ctx) //nolint:wrapcheck // Already wrapped.
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Serve streamable HTTP at this address (e.g. localhost:8080) instead of stdio")

	bindEnvVars(cmd)

	return cmd
}

// watchTasteFile reloads the server's overrides whenever the taste file
// changes, until ctx is canceled.
func watchTasteFile(ctx context.Context, tf *tasteFile, s *mcp.Server) {
	info, err := os.Stat(filepath.Dir(tf.Path))
	if err != nil || !info.IsDir() {
		slog.DebugContext(ctx, "not watching taste file", slog.String("path", tf.Path))
		return
	}

	err = config.Watch(ctx, tf.Path, func(ctx context.Context, _ fsnotify.Event) {
		reloaded, err := loadTasteFile(tf.Path, tf.Source)
		if err != nil {
			slog.ErrorContext(ctx, "reload taste file", slog.Any("err", err))
			return
		}

		s.SetConfig(ctx, reloaded.Config)
		slog.InfoContext(ctx, "reloaded taste file", slog.String("path", tf.Path))
	})
	if err != nil {
		slog.ErrorContext(ctx, "watch taste file", slog.Any("err", err))
	}
}
