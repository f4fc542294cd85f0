package app

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewOpensStorageAndRegistersTools(t *testing.T) {
	t.Parallel()

	server, err := New(Config{StoragePath: filepath.Join(t.TempDir(), "codex.db")})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if server.mcpServer == nil {
		t.Fatal("mcpServer is nil")
	}
	if err := server.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestNewRejectsBlankStoragePath(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{StoragePath: "  "}); err == nil {
		t.Fatal("New with blank storage path expected error, got nil")
	}
}

func TestServeRequiresConfiguredServer(t *testing.T) {
	t.Parallel()

	var server *Server
	if err := server.Serve(context.Background()); err == nil {
		t.Fatal("Serve on nil server expected error, got nil")
	}
}
