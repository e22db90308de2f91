// Package orchestrator routes validated bmad commands to their
// handlers and assembles result payloads.
//
// It owns dispatch policy: which commands need the master manifest,
// what happens when no installation exists, exit codes, and the
// invocation history trail. Rendering payloads to markdown lives in
// the format package.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bmad-method/bmad-mcp/internal/command"
	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/history"
	"github.com/bmad-method/bmad-mcp/internal/logging"
	"github.com/bmad-method/bmad-mcp/internal/manifest"
)

// Config wires an Orchestrator.
type Config struct {
	Cache     *manifest.Cache
	Discovery discovery.Options
	// History may be nil; recording and *stats degrade gracefully.
	History *history.Store
	Log     *logging.Logger
	// SessionID groups this process's history rows. Generated when empty.
	SessionID string
	// OnReload runs after *doctor --reload successfully rebuilds the
	// master manifest. The server uses it to refresh agent prompts.
	OnReload func(*manifest.Master)
}

// Orchestrator executes parsed commands against the cached master
// manifest.
type Orchestrator struct {
	cache    *manifest.Cache
	disc     discovery.Options
	history  *history.Store
	log      *logging.Logger
	session  string
	onReload func(*manifest.Master)

	mu     sync.Mutex
	cursor *listCursor
}

// New builds an Orchestrator from cfg.
func New(cfg Config) *Orchestrator {
	log := cfg.Log
	if log == nil {
		log = logging.Nop()
	}
	session := cfg.SessionID
	if session == "" {
		session = uuid.NewString()
	}
	return &Orchestrator{
		cache:    cfg.Cache,
		disc:     cfg.Discovery,
		history:  cfg.History,
		log:      log,
		session:  session,
		onReload: cfg.OnReload,
	}
}

// Execute parses, validates, dispatches and records one raw command.
func (o *Orchestrator) Execute(ctx context.Context, raw string) *Result {
	start := time.Now()

	inv, perr := command.Parse(raw)
	var res *Result
	if perr != nil {
		res = errorResult(perr.Code, perr.Message, perr.Suggestions, 1)
	} else {
		res = o.dispatch(ctx, inv)
	}

	o.record(raw, inv, res, time.Since(start))
	return res
}

func (o *Orchestrator) dispatch(ctx context.Context, inv command.Invocation) *Result {
	switch inv.Kind {
	case command.KindDoctor:
		return o.doctor(inv.Args)
	case command.KindInit:
		return o.initialize(inv.Args)
	case command.KindStats:
		return o.stats()
	case command.KindHelp:
		return o.help()
	}

	// The rest operates on the master manifest.
	m, err := o.cache.Get()
	if err != nil {
		return noInstallationResult(err)
	}

	switch inv.Kind {
	case command.KindAgentLoad:
		inv.Name = command.ResolveAlias(inv.Name, m)
		if perr := command.Validate(inv, m); perr != nil {
			return errorResult(perr.Code, perr.Message, perr.Suggestions, 1)
		}
		return o.loadAgent(m, inv.Name)
	case command.KindWorkflowRun:
		if perr := command.Validate(inv, m); perr != nil {
			return errorResult(perr.Code, perr.Message, perr.Suggestions, 1)
		}
		return o.runWorkflow(m, inv.Name)
	case command.KindListAgents:
		return o.list(m, ListTypeAgents, 0)
	case command.KindListWorkflows:
		return o.list(m, ListTypeWorkflows, 0)
	case command.KindListTasks:
		return o.list(m, ListTypeTasks, 0)
	case command.KindListModules:
		return o.list(m, ListTypeModules, 0)
	case command.KindMore:
		return o.more(m)
	case command.KindExport:
		return o.export(m, inv.Args)
	}

	return errorResult("INTERNAL", fmt.Sprintf("unhandled command kind %q", inv.Kind), nil, 1)
}

// help renders the command reference. It works without an installation;
// counts simply read zero.
func (o *Orchestrator) help() *Result {
	p := &HelpPayload{Root: "(no installation found)"}
	if m, err := o.cache.Get(); err == nil {
		if active := activeLocation(m); active != nil {
			p.Root = active.ResolvedRoot
		}
		p.Agents, p.Workflows, _ = m.Counts()
	}
	return &Result{Kind: ResultHelp, Success: true, Help: p}
}

func (o *Orchestrator) record(raw string, inv command.Invocation, res *Result, took time.Duration) {
	if o.history == nil {
		return
	}
	p := history.RecordParams{
		SessionID: o.session,
		Command:   raw,
		Kind:      string(res.Kind),
		Name:      inv.Name,
		Success:   res.Success,
		ExitCode:  res.ExitCode,
		Duration:  took,
	}
	if res.Err != nil {
		p.Error = res.Err.Code
	}
	if _, err := o.history.Record(p); err != nil {
		o.log.Debugf("orchestrator: history record failed: %v", err)
	}
}

// activeLocation returns the highest-priority usable location the
// master manifest was built from.
func activeLocation(m *manifest.Master) *discovery.Location {
	for i := range m.Locations {
		if m.Locations[i].Usable() {
			return &m.Locations[i]
		}
	}
	return nil
}

func errorResult(code, message string, suggestions []string, exitCode int) *Result {
	return &Result{
		Kind:     ResultError,
		Success:  false,
		ExitCode: exitCode,
		Err:      &ErrorPayload{Code: code, Message: message, Suggestions: suggestions},
	}
}

func noInstallationResult(err error) *Result {
	if !errors.Is(err, manifest.ErrNoValidOrigins) {
		return errorResult("MANIFEST_ERROR",
			fmt.Sprintf("Error: Failed to build master manifest\n\n%v", err), nil, 1)
	}
	return errorResult("NO_INSTALLATION", `Error: No BMAD installation found

No usable BMAD installation was discovered in any search location.

Searched: ./bmad in the working directory, --bmad-root arguments,
BMAD_ROOT and BMAD_PATHS, the enclosing git repository, and ~/.bmad.

Run 'bmad *doctor' for a per-location report, or 'bmad *init' to create
a fresh installation.`, nil, 1)
}
