// Package app wires codex storage, domain behavior, and the MCP surface
// into a runnable server.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lorekeep/chronicle/internal/services/codex/api/mcpapi"
	"github.com/lorekeep/chronicle/internal/services/codex/domain"
	"github.com/lorekeep/chronicle/internal/services/codex/narrative"
	"github.com/lorekeep/chronicle/internal/services/codex/storage/sqlite"
)

const (
	serverName    = "chronicle-codex"
	serverVersion = "0.1.0"
)

// Config holds the runtime settings for the codex server.
type Config struct {
	// StoragePath is the SQLite database file path.
	StoragePath string
}

// Server hosts the codex MCP server over stdio.
type Server struct {
	mcpServer *mcp.Server
	store     *sqlite.Store
}

// New opens storage and binds every codex tool to a fresh MCP server.
func New(cfg Config) (*Server, error) {
	store, err := sqlite.Open(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open codex storage: %w", err)
	}

	server, err := newServer(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	server.store = store
	return server, nil
}

func newServer(store *sqlite.Store) (*Server, error) {
	service := domain.NewService(newDomainStoreAdapter(store), nil, nil)
	resolver := narrative.NewResolver(newNarrativeStoreAdapter(store))
	composer := narrative.NewComposer(resolver)

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	if err := mcpapi.Register(mcpServer, service, resolver, composer); err != nil {
		return nil, fmt.Errorf("register codex tools: %w", err)
	}
	return &Server{mcpServer: mcpServer}, nil
}

// Serve runs the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("server is not configured")
	}
	log.Printf("codex MCP server %s %s serving on stdio", serverName, serverVersion)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Close releases the storage held by the server.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}
