// Package mcptools exposes the study controller as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/mavinms/prism-project/internal/app"
)

const serverName = "prism-mcp-server"

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds an MCP server with every prism tool registered.
func NewServer(a *app.App, version string) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
	)
	handlers := map[string]toolRegisterer{
		"terms":       NewTermsHandler(a),
		"history":     NewHistoryHandler(a),
		"collections": NewCollectionsHandler(a),
	}
	for name, h := range handlers {
		if err := h.RegisterTools(s); err != nil {
			return nil, fmt.Errorf("register %s tools: %w", name, err)
		}
	}
	return s, nil
}

// ServeStdio serves s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer, log zerolog.Logger) error {
	log.Info().Msg("Starting prism MCP server (stdio transport)")
	return server.ServeStdio(s)
}

// ServeHTTP serves s over streamable HTTP on addr until ctx is cancelled.
func ServeHTTP(ctx context.Context, s *server.MCPServer, addr string, log zerolog.Logger) error {
	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           streamSrv,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting prism MCP server (streamable HTTP)")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down MCP HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
