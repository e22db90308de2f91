package format

import (
	"strings"
	"testing"
	"time"

	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/history"
	"github.com/bmad-method/bmad-mcp/internal/manifest"
	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

func wantContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n---\n%s", w, out)
		}
	}
}

func wantAbsent(t *testing.T, out string, nots ...string) {
	t.Helper()
	for _, n := range nots {
		if strings.Contains(out, n) {
			t.Errorf("output unexpectedly contains %q", n)
		}
	}
}

func TestRenderAgent(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultAgent,
		Success: true,
		Agent: &orchestrator.AgentPayload{
			Name:          "analyst",
			DisplayName:   "Mary",
			Title:         "Business Analyst",
			Path:          "/bmad/bmm/agents/analyst.md",
			Definition:    "# Analyst\n\nUses {mcp-resources}/bmad data.",
			CustomizePath: "bmad/_cfg/agents/bmm-analyst.customize.yaml",
			Customize:     "communication_language: english",
		},
	})

	wantContains(t, out,
		"# BMAD Agent: Mary",
		"**Title:** Business Analyst",
		"## Agent Definition",
		"**File:** `/bmad/bmm/agents/analyst.md`",
		"```markdown\n# Analyst",
		"## Agent Customization",
		"**File:** `bmad/_cfg/agents/bmm-analyst.customize.yaml`",
		"```yaml\ncommunication_language: english\n```",
		"## BMAD Processing Instructions",
		"Use these tools to access BMAD workflows and tasks as needed.",
	)
}

func TestRenderAgentReadFailures(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultAgent,
		Success: true,
		Agent: &orchestrator.AgentPayload{
			DisplayName:   "Ghost",
			Title:         "BMAD Agent",
			Path:          "/bmad/bmm/agents/ghost.md",
			DefinitionErr: "content: ghost.md not found in any root",
			CustomizePath: "bmad/_cfg/agents/bmm-ghost.customize.yaml",
			CustomizeErr:  "content: file not found",
		},
	})

	wantContains(t, out,
		"[Error reading agent file: content: ghost.md not found in any root]",
		"[Customization file not found or error: content: file not found]",
	)
	wantAbsent(t, out, "```markdown", "```yaml")
}

func TestRenderAgentWithoutPath(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultAgent,
		Success: true,
		Agent: &orchestrator.AgentPayload{
			DisplayName:   "Inline",
			Title:         "BMAD Agent",
			CustomizePath: "bmad/_cfg/agents/core-inline.customize.yaml",
			CustomizeErr:  "missing",
		},
	})
	wantAbsent(t, out, "## Agent Definition")
	wantContains(t, out, "## Agent Customization")
}

func TestRenderWorkflow(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultWorkflow,
		Success: true,
		Workflow: &orchestrator.WorkflowPayload{
			Name:         "party-mode",
			Description:  "Group chat with all agents",
			Path:         "/bmad/bmm/workflows/party-mode/workflow.yaml",
			YAML:         "name: party-mode\nsteps:\n  - greet",
			Instructions: "Moderate the discussion.",
			Context: orchestrator.WorkflowContext{
				ServerRoot:   "/srv/bmad",
				ManifestPath: "/srv/bmad/_cfg/agent-manifest.csv",
				AgentCount:   2,
				Roster: []orchestrator.RosterEntry{
					{Name: "analyst", DisplayName: "Mary", Title: "Business Analyst", Module: "bmm"},
					{Name: "bmad-master", DisplayName: "BMad Master", Module: "core"},
				},
			},
		},
	})

	wantContains(t, out,
		"# Workflow: party-mode",
		"**Description:** Group chat with all agents",
		"## Workflow Context",
		"**MCP Server Resources (use these, not user's workspace):**",
		"- MCP Server Root: `/srv/bmad`",
		"- Agent Manifest: `/srv/bmad/_cfg/agent-manifest.csv`",
		"- Available Agents: 2",
		"**NOTE:** All `{mcp-resources}` references in this workflow point to the MCP server,",
		"**Agent Roster (MCP Server Data):**",
		"\"name\": \"analyst\"",
		"## Workflow Configuration",
		"**File:** `/bmad/bmm/workflows/party-mode/workflow.yaml`",
		"```yaml\nname: party-mode",
		"## Workflow Instructions",
		"```markdown\nModerate the discussion.\n```",
		"Begin workflow execution now.",
	)
}

func TestRenderWorkflowReadFailure(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultWorkflow,
		Success: true,
		Workflow: &orchestrator.WorkflowPayload{
			Name:    "ghost-flow",
			Path:    "/bmad/bmm/workflows/ghost-flow/workflow.yaml",
			YAMLErr: "content: workflow.yaml not found in any root",
		},
	})
	wantContains(t, out,
		"```yaml\n[Error reading workflow file: content: workflow.yaml not found in any root]\n```")
	wantAbsent(t, out, "## Workflow Instructions", "**Agent Roster")
}

func listPage(listType string, offset, total int, recs []manifest.Record) *orchestrator.Result {
	return &orchestrator.Result{
		Kind:    orchestrator.ResultList,
		Success: true,
		List: &orchestrator.ListPayload{
			Type:    listType,
			Records: recs,
			Offset:  offset,
			Total:   total,
		},
	}
}

func TestRenderAgentListPaging(t *testing.T) {
	var recs []manifest.Record
	for i := 0; i < 20; i++ {
		recs = append(recs, manifest.Record{Kind: manifest.KindAgent, Name: "agent-aa", Module: "bmm"})
	}

	out := Render(listPage(orchestrator.ListTypeAgents, 0, 25, recs))
	wantContains(t, out, "Found 25 agents:", "1. **agent-aa** (`agent-aa`)")
	if !strings.HasSuffix(out, "Showing 1-20 of 25. Use *more to continue.") {
		t.Errorf("missing continuation footer:\n%s", out)
	}

	out = Render(listPage(orchestrator.ListTypeAgents, 20, 25, recs[:5]))
	wantContains(t, out, "21. **agent-aa**")
	if !strings.HasSuffix(out, "Showing 21-25 of 25.") {
		t.Errorf("final page footer wrong:\n%s", out)
	}

	out = Render(listPage(orchestrator.ListTypeAgents, 0, 5, recs[:5]))
	wantAbsent(t, out, "Showing")
}

func TestRenderAgentListDefaults(t *testing.T) {
	out := Render(listPage(orchestrator.ListTypeAgents, 0, 1, []manifest.Record{
		{Kind: manifest.KindAgent, Name: "pm"},
	}))
	wantContains(t, out,
		"1. **pm** (`pm`)",
		"   - Role: No role specified",
		"   - Module: core",
		"   - Command: `bmad pm`",
		"- Example: `bmad analyst` loads Mary, the Business Analyst",
	)
}

func TestRenderWorkflowList(t *testing.T) {
	out := Render(listPage(orchestrator.ListTypeWorkflows, 0, 2, []manifest.Record{
		{Kind: manifest.KindWorkflow, Name: "party-mode", Trigger: "party", Description: "Group chat", Module: "bmm"},
		{Kind: manifest.KindWorkflow, Name: "dev-story", Module: "bmm"},
	}))
	wantContains(t, out,
		"Found 2 workflows:",
		"1. **party** - Group chat",
		"   - Command: `bmad *party`",
		"2. **dev-story** - No description",
		"   - Command: `bmad *dev-story`",
		"- Example: `bmad *party-mode` starts group discussion",
	)
}

func TestRenderTaskList(t *testing.T) {
	out := Render(listPage(orchestrator.ListTypeTasks, 0, 1, []manifest.Record{
		{Kind: manifest.KindTask, Name: "code-review", DisplayName: "Code Review", Description: "Review a change set", Module: "core"},
	}))
	wantContains(t, out,
		"Found 1 tasks:",
		"1. **Code Review**",
		"   - Review a change set",
		"   - Module: core",
		"**Note:** Tasks are referenced within workflows and agent instructions.",
	)
}

func TestRenderEmptyLists(t *testing.T) {
	for listType, sentence := range map[string]string{
		orchestrator.ListTypeAgents:    "No agents found in manifest.",
		orchestrator.ListTypeWorkflows: "No workflows found in manifest.",
		orchestrator.ListTypeTasks:     "No tasks found in manifest.",
		orchestrator.ListTypeModules:   "No modules found in manifest.",
	} {
		out := Render(listPage(listType, 0, 0, nil))
		wantContains(t, out, sentence)
		wantAbsent(t, out, "Found ")
	}
}

func TestRenderModuleList(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultList,
		Success: true,
		List: &orchestrator.ListPayload{
			Type:  orchestrator.ListTypeModules,
			Total: 2,
			Modules: []orchestrator.ModuleCount{
				{Module: "bmm", Agents: 3, Workflows: 2},
				{Module: "core", Agents: 1, Tasks: 1},
			},
		},
	})
	wantContains(t, out,
		"Found 2 modules:",
		"1. **bmm**",
		"   - Agents: 3",
		"   - Workflows: 2",
		"2. **core**",
		"   - Tasks: 1",
	)
}

func TestRenderNoMore(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultList,
		Success: true,
		List:    &orchestrator.ListPayload{NoMore: true},
	})
	wantContains(t, out, "No more results to show.", "`bmad *more`")
}

func TestRenderHelp(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultHelp,
		Success: true,
		Help:    &orchestrator.HelpPayload{Root: "/srv/bmad", Agents: 11, Workflows: 7},
	})
	wantContains(t, out,
		"# BMAD MCP Server - Command Reference",
		"- `bmad *list-modules` → Show modules with per-kind counts",
		"- `bmad *doctor [path] [--reload] [--full]` → Diagnose discovery and manifests",
		"All resources are loaded from: `/srv/bmad`",
		"- Agents: 11 available",
		"- Workflows: 7 available",
		"For more information about specific agents or workflows, use the `*list-*` commands.",
	)
}

func TestRenderDoctor(t *testing.T) {
	active := discovery.Location{
		DisplayName:  "project bmad/",
		Source:       discovery.SourceProject,
		Priority:     1,
		OriginalPath: "/work/bmad",
		ResolvedRoot: "/work/bmad",
		Status:       discovery.StatusValid,
		Version:      discovery.VersionV6,
		ManifestDir:  "/work/bmad/_cfg",
	}
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultDoctor,
		Success: true,
		Doctor: &orchestrator.DoctorPayload{
			Locations: []discovery.Location{
				active,
				{DisplayName: "user ~/.bmad", Source: discovery.SourceUser, Priority: 5,
					OriginalPath: "/home/u/.bmad", Status: discovery.StatusNotFound},
			},
			Active:        &active,
			Agents:        4,
			Workflows:     3,
			Tasks:         1,
			BuiltAt:       time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
			Reloaded:      true,
			PrevAgents:    3,
			PrevWorkflows: 3,
			PrevTasks:     1,
			Full:          true,
			Broken: []manifest.Record{
				{Kind: manifest.KindAgent, Name: "ghost", Module: "bmm", Path: "/bmad/bmm/agents/ghost.md"},
			},
			Orphans: []manifest.Record{
				{Kind: manifest.KindAgent, Name: "rogue", Module: "bmm", Path: "bmm/agents/rogue.md"},
			},
			HistoryNote: "history disabled",
		},
	})

	wantContains(t, out,
		"# BMAD Doctor Report",
		"1. **project bmad/** (project, priority 1)",
		"   - Status: valid (v6)",
		"   - Manifests: `/work/bmad/_cfg`",
		"2. **user ~/.bmad** (user, priority 5)",
		"   - Status: not-found",
		"Active installation: **project bmad/** (`/work/bmad`)",
		"Reloaded: agents 3 → 4, workflows 3 → 3, tasks 1 → 1",
		"- Built: 2026-08-23T10:00:00Z",
		"- Agents: 4",
		"Broken records (manifest entry, no file):",
		"- agent `ghost` (module bmm): `/bmad/bmm/agents/ghost.md`",
		"Orphan files (on disk, not in any manifest):",
		"- agent `rogue` (module bmm): `bmm/agents/rogue.md`",
		"## Recent Invocations",
		"history disabled",
	)
}

func TestRenderDoctorManifestError(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultDoctor,
		Success: true,
		Doctor:  &orchestrator.DoctorPayload{ManifestErr: "manifest: no valid origins"},
	})
	wantContains(t, out, "No usable BMAD installation found.", "Error: manifest: no valid origins")
	wantAbsent(t, out, "- Built:")
}

func TestRenderInit(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultInit,
		Success: true,
		Init:    &orchestrator.InitPayload{Usage: true},
	})
	wantContains(t, out, "bmad *init --project", "Refuses to overwrite an existing installation.")

	out = Render(&orchestrator.Result{
		Kind:    orchestrator.ResultInit,
		Success: true,
		Init: &orchestrator.InitPayload{
			Dir:     "/work/bmad",
			Created: []string{"/work/bmad/_cfg", "/work/bmad/_cfg/agent-manifest.csv"},
		},
	})
	wantContains(t, out,
		"# BMAD Installation Created",
		"Initialized: `/work/bmad`",
		"- `/work/bmad/_cfg/agent-manifest.csv`",
		"Run `bmad *doctor` to confirm the installation is discovered",
	)
}

func TestRenderExport(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultExport,
		Success: true,
		Export:  &orchestrator.ExportPayload{JSON: `{"records": []}`, Agents: 4},
	})
	wantContains(t, out, "# Master Manifest", "```json\n{\"records\": []}\n```", "- Agents: 4")

	out = Render(&orchestrator.Result{
		Kind:    orchestrator.ResultExport,
		Success: true,
		Export:  &orchestrator.ExportPayload{Path: "/tmp/master.json", Agents: 4, Workflows: 3, Tasks: 1},
	})
	wantContains(t, out, "# Master Manifest Exported", "Written to: `/tmp/master.json`")
	wantAbsent(t, out, "```json")
}

func TestRenderStats(t *testing.T) {
	out := Render(&orchestrator.Result{
		Kind:    orchestrator.ResultStats,
		Success: true,
		Stats:   &orchestrator.StatsPayload{Disabled: true},
	})
	wantContains(t, out, "Invocation history is disabled.")

	out = Render(&orchestrator.Result{
		Kind:    orchestrator.ResultStats,
		Success: true,
		Stats: &orchestrator.StatsPayload{
			Stats: &history.Stats{
				TotalInvocations: 6,
				FirstRecordedAt:  "2026-08-20 09:00:00",
				ByKind:           []history.NameCount{{Name: "agent", Count: 4}, {Name: "workflow", Count: 1}},
				TopAgents:        []history.NameCount{{Name: "analyst", Count: 3}},
				RecentErrors: []history.Invocation{
					{Command: "anaylst", Error: "UNKNOWN_AGENT", CreatedAt: "2026-08-21 10:00:00"},
				},
			},
		},
	})
	wantContains(t, out,
		"# BMAD Usage Stats",
		"- Total invocations: 6",
		"- Recording since: 2026-08-20 09:00:00",
		"- agent: 4",
		"**Top agents:**",
		"1. analyst (3)",
		"**Recent errors:**",
		"- [2026-08-21 10:00:00] `anaylst` → UNKNOWN_AGENT",
	)
}

func TestRenderErrorIsMessageOnly(t *testing.T) {
	msg := "Error: Unknown agent 'anaylst'\n\nDid you mean: analyst?"
	out := Render(&orchestrator.Result{
		Kind:     orchestrator.ResultError,
		ExitCode: 1,
		Err:      &orchestrator.ErrorPayload{Code: "UNKNOWN_AGENT", Message: msg, Suggestions: []string{"analyst"}},
	})
	if out != msg {
		t.Errorf("error render = %q, want message verbatim", out)
	}
}
