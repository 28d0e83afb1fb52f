package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/config"
	"github.com/macropower/aspects/pkg/expr"
	"github.com/macropower/aspects/pkg/version"
)

// MetricsPath is where Prometheus metrics are served in HTTP mode.
const MetricsPath = "/metrics"

// Server implements the MCP server for an aspect registry.
type Server struct {
	registry   *aspect.Registry
	env        *expr.Environment
	server     *mcp.Server
	tracer     trace.Tracer
	config     *tasteconfigs.TasteConfig
	resolution *config.Resolution
	address    string
	mu         sync.RWMutex
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithConfig sets the taste overrides that tools resolve against.
func WithConfig(cfg *tasteconfigs.TasteConfig) ServerOpt {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithTracer sets the tracer used for tool call spans.
func WithTracer(tracer trace.Tracer) ServerOpt {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// NewServer creates a new MCP server for r. An empty address serves over
// stdio; otherwise the server listens for streamable HTTP on address.
func NewServer(address string, r *aspect.Registry, opts ...ServerOpt) (*Server, error) {
	env, err := expr.NewEnvironment()
	if err != nil {
		return nil, fmt.Errorf("create expression environment: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address:  address,
		registry: r,
		env:      env,
		server:   mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:   otel.Tracer("mcp-server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.SetConfig(context.Background(), s.config)
	s.registerTools()

	return s, nil
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_aspects",
		Description: "List registered aspects with their paths and descriptions. Optionally filter with a CEL expression over the 'aspect' variable.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"filter": {
					Type: "string",
					Description: "A CEL expression that must evaluate to a bool, e.g. " +
						`'isUnder(aspect.path, "Metadata.CommitMessage.Shortlog")' or '"max_body_length" in aspect.tastes'. ` +
						"Available keys: name, path, parent, depth, root, leaf, description, language, own, tastes.",
				},
			},
		},
	}, WithTracing(s.tracer, s.handleListAspects))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_aspect",
		Description: "Get the documentation and tastes of a specific aspect. You MUST use a name or path from the list_aspects output EXACTLY.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"aspect": newAspectSchema(),
			},
			Required: []string{"aspect"},
		},
	}, WithTracing(s.tracer, s.handleGetAspect))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_tastes",
		Description: "Resolve the effective tastes of an aspect with the given overrides applied on top of the current taste file. Rejected overrides are reported and fall back to their defaults.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"aspect": newAspectSchema(),
				"tastes": {
					Type:        "object",
					Description: "Taste overrides by taste name, e.g. {\"max_shortlog_length\": 50}.",
				},
			},
			Required: []string{"aspect"},
		},
	}, WithTracing(s.tracer, s.handleResolveTastes))
}

// SetConfig replaces the taste overrides that tools resolve against. A nil
// config resolves every taste to its default.
func (s *Server) SetConfig(ctx context.Context, cfg *tasteconfigs.TasteConfig) {
	res := config.Resolve(ctx, s.registry, cfg)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = cfg
	s.resolution = res
}

func (s *Server) current() (*tasteconfigs.TasteConfig, *config.Resolution) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config, s.resolution
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server and blocks until ctx is canceled or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve Stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

// Handler returns the HTTP handler serving MCP and Prometheus metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.Handler())
	mux.Handle("/", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil))

	return mux
}

func (s *Server) serveHTTP(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "shut down MCP server", slog.Any("err", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)
	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
