package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	healthlog "github.com/healthlog-app/healthlog/pkg"
	"github.com/healthlog-app/healthlog/pkg/app"
	"github.com/healthlog-app/healthlog/pkg/storage"
	"github.com/healthlog-app/healthlog/pkg/utils"
)

type HealthlogMCPServer struct {
	mcpServer *server.MCPServer
	app       *app.App
	store     *storage.LocalStore
	DbPath    string
}

// NewHealthlogMCPServer spins up an MCP server backed by the local guest
// store at dbPath and loads both datasets into a session.
func NewHealthlogMCPServer(dbPath string) (*HealthlogMCPServer, error) {
	resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"Healthlog MCP Server",
		healthlog.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	store, err := storage.OpenLocalStore(resolvedPath, true, "FULL")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store at '%s': %w", resolvedPath, err)
	}

	rec := storage.NewReconciler(store)
	a := app.New(rec)
	if err := a.Load(context.Background()); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load datasets: %w", err)
	}

	return &HealthlogMCPServer{
		mcpServer: s,
		app:       a,
		store:     store,
		DbPath:    resolvedPath,
	}, nil
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *HealthlogMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// App returns the underlying session.
func (s *HealthlogMCPServer) App() *app.App {
	return s.app
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *HealthlogMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close flushes pending saves and releases the local store.
func (s *HealthlogMCPServer) Close() error {
	if err := s.app.Flush(context.Background()); err != nil {
		return err
	}
	return s.store.Close()
}

// RegisterAllTools wires every healthlog tool onto the server.
func (s *HealthlogMCPServer) RegisterAllTools() {
	RegisterPingTool(s.mcpServer)
	RegisterBuildContextTool(s.mcpServer, s.app)
	RegisterLogEntryTools(s.mcpServer, s.app)
	RegisterTagOptionTools(s.mcpServer, s.app)
	RegisterStatsTool(s.mcpServer, s.app)
}
