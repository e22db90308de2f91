// bmad-mcp: BMAD Method content server (MCP)
//
// An MCP stdio server that delivers BMAD agents, workflows, and tasks
// to any MCP-capable client (Claude Code, Cursor, OpenCode, Gemini CLI,
// VS Code Copilot). It discovers BMAD installations across ranked
// sources, merges their manifests, and exposes a single bmad tool plus
// per-agent prompts.
//
// Usage:
//
//	bmad-mcp serve    # Start MCP server (stdio transport)
//	bmad-mcp doctor   # Diagnose discovery from the terminal
//	bmad-mcp update   # Update to the latest version
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/format"
	"github.com/bmad-method/bmad-mcp/internal/history"
	"github.com/bmad-method/bmad-mcp/internal/logging"
	"github.com/bmad-method/bmad-mcp/internal/manifest"
	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
	bmadserver "github.com/bmad-method/bmad-mcp/internal/server"
	"github.com/bmad-method/bmad-mcp/internal/updater"
)

func main() {
	args := os.Args[1:]
	cmd := "serve"
	switch {
	case len(args) == 0:
	case args[0] == "help" || args[0] == "--help" || args[0] == "-h":
		cmd = "help"
		args = nil
	case args[0] == "version" || args[0] == "--version" || args[0] == "-v":
		cmd = "version"
		args = nil
	case strings.HasPrefix(args[0], "-"):
		// Bare flags imply serve: bmad-mcp --bmad-root /path
	default:
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "serve":
		cfg, rest, err := parseConfig(args)
		if err == nil && len(rest) > 0 {
			err = fmt.Errorf("unknown argument: %s", rest[0])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			printUsage()
			os.Exit(1)
		}
		if err := run(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "doctor":
		cfg, rest, err := parseConfig(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			printUsage()
			os.Exit(1)
		}
		os.Exit(runDoctor(cfg, rest))
	case "update":
		runUpdate()
	case "help":
		printUsage()
	case "version":
		fmt.Printf("bmad-mcp v%s\n", bmadserver.Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

// parseConfig reads the shared flags, leaving anything it does not
// recognize in rest (the doctor subcommand forwards those). Environment
// variables fill in whatever the flags leave empty.
func parseConfig(args []string) (bmadserver.Config, []string, error) {
	cfg := bmadserver.Config{
		LogLevel:  os.Getenv("BMAD_LOG_LEVEL"),
		HistoryDB: os.Getenv("BMAD_HISTORY_DB"),
	}
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--bmad-root":
			i++
			if i >= len(args) {
				return cfg, nil, errors.New("--bmad-root requires a path")
			}
			cfg.BmadRoots = append(cfg.BmadRoots, args[i])
		case "--log-level":
			i++
			if i >= len(args) {
				return cfg, nil, errors.New("--log-level requires a level (debug, info, warn, error)")
			}
			cfg.LogLevel = args[i]
		case "--no-history":
			cfg.NoHistory = true
		default:
			rest = append(rest, args[i])
		}
	}
	return cfg, rest, nil
}

func run(cfg bmadserver.Config) error {
	s, cleanup, err := bmadserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check prints to stderr so it never touches
	// MCP's stdio transport on stdout.
	go checkForUpdates()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdio := server.NewStdioServer(s)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runDoctor answers the *doctor command from the terminal, without the
// MCP surface. It opens the history database only when it already
// exists: a diagnostic run reads state, it never creates it.
func runDoctor(cfg bmadserver.Config, args []string) int {
	log := logging.NewStderr(logging.ParseLevel(cfg.LogLevel))

	workDir, _ := os.Getwd()
	homeDir, _ := os.UserHomeDir()
	disc := discovery.Options{
		WorkDir:  workDir,
		CLIRoots: cfg.BmadRoots,
		HomeDir:  homeDir,
		Log:      log,
	}
	cache := manifest.NewCache(func() (*manifest.Master, error) {
		res := discovery.Resolve(disc)
		return manifest.Build(res.Locations, nil, log)
	})

	var store *history.Store
	if !cfg.NoHistory {
		path := cfg.HistoryDB
		if path == "" {
			path = history.DefaultPath()
		}
		if _, err := os.Stat(path); err == nil {
			if st, err := history.New(path); err == nil {
				store = st
				defer func() { _ = st.Close() }()
			}
		}
	}

	orch := orchestrator.New(orchestrator.Config{
		Cache:     cache,
		Discovery: disc,
		History:   store,
		Log:       log,
	})

	command := "*doctor"
	if len(args) > 0 {
		command += " " + strings.Join(args, " ")
	}
	res := orch.Execute(context.Background(), command)
	fmt.Println(format.Render(res))
	return res.ExitCode
}

// checkForUpdates runs a best-effort version check and prints a notice
// to stderr when an update is available. Network failures stay silent.
func checkForUpdates() {
	result := updater.CheckVersion(bmadserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: bmad-mcp update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest release.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(bmadserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(bmadserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart bmad-mcp to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `bmad-mcp v%s — BMAD Method content server (MCP)

Usage:
  bmad-mcp [serve] [flags]    Start the MCP server (stdio transport)
  bmad-mcp doctor [args]      Diagnose discovery and the master manifest
  bmad-mcp update             Update to the latest version
  bmad-mcp version            Print the version

Flags (serve and doctor):
  --bmad-root <path>    Add an explicit BMAD installation root (repeatable)
  --log-level <level>   debug, info, warn, or error (default info)
  --no-history          Disable the invocation history database

Environment:
  BMAD_ROOT         Extra installation root
  BMAD_PATHS        List of roots, joined with the OS path list separator
  BMAD_LOG_LEVEL    Log level when --log-level is absent
  BMAD_HISTORY_DB   History database path (default ~/.bmad-mcp/history.db)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "bmad": {
        "command": "bmad-mcp",
        "args": ["serve"]
      }
    }
  }

Learn more: https://github.com/bmad-method/bmad-mcp
`, bmadserver.Version)
}
