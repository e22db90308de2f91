package orchestrator

import (
	"time"

	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/history"
	"github.com/bmad-method/bmad-mcp/internal/manifest"
)

// ResultKind tags which payload a Result carries.
type ResultKind string

const (
	ResultAgent    ResultKind = "agent"
	ResultWorkflow ResultKind = "workflow"
	ResultList     ResultKind = "list"
	ResultHelp     ResultKind = "help"
	ResultDoctor   ResultKind = "doctor"
	ResultInit     ResultKind = "init"
	ResultExport   ResultKind = "export"
	ResultStats    ResultKind = "stats"
	ResultError    ResultKind = "error"
)

// Result is the outcome of one dispatched command. Exactly one payload
// pointer matching Kind is set; formatting happens downstream.
type Result struct {
	Kind     ResultKind
	Success  bool
	ExitCode int

	Agent    *AgentPayload
	Workflow *WorkflowPayload
	List     *ListPayload
	Help     *HelpPayload
	Doctor   *DoctorPayload
	Init     *InitPayload
	Export   *ExportPayload
	Stats    *StatsPayload
	Err      *ErrorPayload
}

// AgentPayload carries everything needed to render a loaded agent.
// Definition and Customize hold file contents with placeholders already
// rewritten; the *Err fields hold inline failure reasons instead.
type AgentPayload struct {
	Name          string
	DisplayName   string
	Title         string
	Module        string
	Path          string
	Definition    string
	DefinitionErr string
	CustomizePath string
	Customize     string
	CustomizeErr  string
}

// WorkflowPayload carries a workflow's configuration and surrounding
// execution context.
type WorkflowPayload struct {
	Name         string
	Description  string
	Module       string
	Path         string
	YAML         string
	YAMLErr      string
	Instructions string
	Context      WorkflowContext
}

// WorkflowContext tells the executing model where server resources live
// so it does not go hunting through the user's workspace.
type WorkflowContext struct {
	ServerRoot   string
	ManifestPath string
	AgentCount   int
	Roster       []RosterEntry
}

// RosterEntry is one agent in the workflow context roster.
type RosterEntry struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Title       string `json:"title"`
	Module      string `json:"module"`
}

// ListPayload.Type values.
const (
	ListTypeAgents    = "agents"
	ListTypeWorkflows = "workflows"
	ListTypeTasks     = "tasks"
	ListTypeModules   = "modules"
)

// ListPayload is one page of a listing. Records holds the window
// starting at Offset; Modules is set for the module listing instead.
type ListPayload struct {
	Type    string
	Records []manifest.Record
	Modules []ModuleCount
	Offset  int
	Total   int
	// NoMore marks a *more with nothing left to continue.
	NoMore bool
}

// ModuleCount aggregates per-kind record counts for one module.
type ModuleCount struct {
	Module    string
	Agents    int
	Workflows int
	Tasks     int
}

// HelpPayload parameterizes the command reference text.
type HelpPayload struct {
	Root      string
	Agents    int
	Workflows int
}

// DoctorPayload is the full diagnostic report.
type DoctorPayload struct {
	Locations []discovery.Location
	Active    *discovery.Location
	// Checked is the classification of a single path argument.
	Checked *discovery.Location

	Agents    int
	Workflows int
	Tasks     int
	BuiltAt   time.Time
	// ManifestErr explains why no master manifest is available.
	ManifestErr string

	Reloaded      bool
	PrevAgents    int
	PrevWorkflows int
	PrevTasks     int

	Full        bool
	Broken      []manifest.Record
	Orphans     []manifest.Record
	Recent      []history.Invocation
	HistoryNote string
}

// InitPayload reports a scaffolded installation, or carries the usage
// text when no target was given.
type InitPayload struct {
	Usage   bool
	Dir     string
	Created []string
}

// ExportPayload carries the master manifest export, inline or on disk.
type ExportPayload struct {
	Path      string
	JSON      string
	Agents    int
	Workflows int
	Tasks     int
}

// StatsPayload wraps the invocation history summary.
type StatsPayload struct {
	Disabled bool
	Stats    *history.Stats
}

// ErrorPayload is a failed parse, validation, or dispatch.
type ErrorPayload struct {
	Code        string
	Message     string
	Suggestions []string
}
