// Package server wires the BMAD MCP components and creates the server
// instance.
//
// This is the composition root: it builds logging, discovery options,
// the manifest cache, the history store, and the orchestrator, then
// registers the unified bmad tool, one prompt per agent, and the
// manifest resources. No command semantics live here, only wiring.
package server

import (
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/history"
	"github.com/bmad-method/bmad-mcp/internal/logging"
	"github.com/bmad-method/bmad-mcp/internal/manifest"
	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config carries everything main resolves from flags and environment.
// Zero values mean "use the process defaults".
type Config struct {
	// BmadRoots are explicit --bmad-root paths, in flag order.
	BmadRoots []string
	LogLevel  string
	NoHistory bool
	// HistoryDB overrides the default history database location.
	HistoryDB string
	WorkDir   string
	HomeDir   string
}

// New creates and configures the MCP server: the bmad tool, per-agent
// prompts, and the manifest resources. The returned cleanup function
// closes the history store and must be called on shutdown (typically
// via defer). It is always non-nil and safe to call even if history
// init failed.
func New(cfg Config) (*server.MCPServer, func(), error) {
	log := logging.NewStderr(logging.ParseLevel(cfg.LogLevel))

	workDir := cfg.WorkDir
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	homeDir := cfg.HomeDir
	if homeDir == "" {
		homeDir, _ = os.UserHomeDir()
	}

	disc := discovery.Options{
		WorkDir:  workDir,
		CLIRoots: cfg.BmadRoots,
		HomeDir:  homeDir,
		Log:      log,
	}

	// Every cache (re)build runs a fresh discovery pass, so a reload
	// also picks up installations created after startup.
	cache := manifest.NewCache(func() (*manifest.Master, error) {
		res := discovery.Resolve(disc)
		return manifest.Build(res.Locations, nil, log)
	})

	// History is an independent subsystem: when it cannot open, the
	// server still serves content and *stats reports it disabled.
	cleanup := noop
	var store *history.Store
	if !cfg.NoHistory {
		path := cfg.HistoryDB
		if path == "" {
			path = history.DefaultPath()
		}
		st, err := history.New(path)
		if err != nil {
			log.Warnf("server: history disabled: %v", err)
		} else {
			store = st
			cleanup = func() {
				if err := st.Close(); err != nil {
					log.Warnf("server: history close: %v", err)
				}
			}
		}
	}

	s := server.NewMCPServer(
		"bmad-mcp-server",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	var orch *orchestrator.Orchestrator
	orch = orchestrator.New(orchestrator.Config{
		Cache:     cache,
		Discovery: disc,
		History:   store,
		Log:       log,
		OnReload: func(m *manifest.Master) {
			registerAgentPrompts(s, orch, m)
		},
	})

	s.AddTool(bmadTool(), bmadHandler(orch))

	// Prompts come from the current master. Without an installation the
	// tool still answers; prompts appear once *doctor --reload finds one.
	if m, err := cache.Get(); err == nil {
		registerAgentPrompts(s, orch, m)
	} else {
		log.Warnf("server: agent prompts unavailable: %v", err)
	}

	registerResources(s, cache, disc)

	return s, cleanup, nil
}

// noop is the default cleanup when history is disabled.
func noop() {}
