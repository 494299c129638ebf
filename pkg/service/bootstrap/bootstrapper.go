// Package bootstrap assembles the server from its configuration:
// redactor, API client, MCP server, tool registration, transport.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
	"github.com/komodo-tools/komodo-mcp/pkg/komodo"
	"github.com/komodo-tools/komodo-mcp/pkg/redact"
	"github.com/komodo-tools/komodo-mcp/pkg/service/tools"
)

// Bootstrapper wires the components together in dependency order. The
// redactor is created before the client so both credentials are
// registered before any request can be made.
type Bootstrapper struct {
	logger   *slog.Logger
	config   *config.Config
	version  string
	redactor *redact.Redactor
	client   *komodo.Client
}

func New(logger *slog.Logger, cfg *config.Config, version string) *Bootstrapper {
	red := redact.New()
	return &Bootstrapper{
		logger:   logger,
		config:   cfg,
		version:  version,
		redactor: red,
		client:   komodo.New(cfg.URL, cfg.APIKey, cfg.APISecret, red),
	}
}

// CheckConnectivity verifies the configured core is reachable and the
// credentials work, so misconfiguration fails at startup instead of on
// the first tool call.
func (b *Bootstrapper) CheckConnectivity(ctx context.Context) error {
	version, err := b.client.GetVersion(ctx)
	if err != nil {
		return errors.Errorf("cannot reach Komodo core at %s: %s",
			b.config.URL, b.redactor.Sanitize(err.Error()))
	}
	b.logger.Info("connected to Komodo core",
		slog.String("url", b.config.URL),
		slog.String("core_version", version.Version))
	return nil
}

// CreateMCPServer creates the mcp-go server with capabilities.
func (b *Bootstrapper) CreateMCPServer() *server.MCPServer {
	return server.NewMCPServer(
		"komodo-mcp",
		b.version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)
}

// RegisterComponents runs every declared tool through the registration
// gate and logs how many survived the access and category filters.
func (b *Bootstrapper) RegisterComponents(mcpServer *server.MCPServer) error {
	deps := tools.ToolDependencies{
		Client:   b.client,
		Redactor: b.redactor,
		Config:   b.config,
		Logger:   b.logger,
	}
	declared := len(tools.AllToolConfigs())
	registered := tools.RegisterAll(mcpServer, deps)
	if registered == 0 {
		return errors.New("no tools registered: check access level and category settings")
	}
	b.logger.Info("registered tools",
		slog.Int("registered", registered),
		slog.Int("declared", declared),
		slog.String("access", b.config.Access.String()))
	return nil
}

// Run serves the configured transport until ctx is cancelled. Stdio
// returns when the client closes the stream; HTTP shuts down
// gracefully on cancellation.
func (b *Bootstrapper) Run(ctx context.Context, mcpServer *server.MCPServer) error {
	switch b.config.Transport {
	case config.TransportStdio:
		b.logger.Info("serving on stdio")
		if err := server.ServeStdio(mcpServer); err != nil && ctx.Err() == nil {
			return errors.Wrap(err, "stdio transport")
		}
		return nil

	case config.TransportHTTP:
		addr := net.JoinHostPort(b.config.HTTPAddr, fmt.Sprintf("%d", b.config.HTTPPort))
		httpServer := server.NewStreamableHTTPServer(mcpServer)
		b.logger.Info("serving on http", slog.String("addr", addr))

		errCh := make(chan error, 1)
		go func() {
			errCh <- httpServer.Start(addr)
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "http shutdown")
			}
			return nil
		case err := <-errCh:
			if err != nil {
				return errors.Wrap(err, "http transport")
			}
			return nil
		}

	default:
		return errors.Errorf("unsupported transport %q", b.config.Transport)
	}
}
