package format

import (
	"fmt"

	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

// renderHelp produces the command reference. Only the resource footer
// varies; everything else is static text.
func renderHelp(h *orchestrator.HelpPayload) string {
	parts := []string{
		"# BMAD MCP Server - Command Reference\n",
		"## Available Commands\n",
		"### Load Agents",
		"Load and interact with BMAD agents:",
		"- `bmad \"\"` or `bmad` (empty) → Load bmad-master (default agent)",
		"- `bmad <agent-name>` → Load specific agent",
		"- Examples:",
		"  - `bmad analyst` → Load Mary (Business Analyst)",
		"  - `bmad dev` → Load Olivia (Senior Developer)",
		"  - `bmad tea` → Load Murat (Master Test Architect)\n",

		"### Execute Workflows",
		"Run BMAD workflows (prefix with `*`):",
		"- `bmad *<workflow-name>` → Execute workflow",
		"- Examples:",
		"  - `bmad *party-mode` → Start group discussion with all agents",
		"  - `bmad *framework` → Initialize test framework\n",

		"### Discovery Commands",
		"Explore available BMAD resources:",
		"- `bmad *list-agents` → Show all available agents",
		"- `bmad *list-workflows` → Show all available workflows",
		"- `bmad *list-tasks` → Show all available tasks",
		"- `bmad *list-modules` → Show modules with per-kind counts",
		"- `bmad *more` → Continue the previous list",
		"- `bmad *help` → Show this help message\n",

		"### Maintenance Commands",
		"Inspect and manage the BMAD installation:",
		"- `bmad *doctor [path] [--reload] [--full]` → Diagnose discovery and manifests",
		"- `bmad *init [--project | --user | <path>]` → Scaffold a fresh installation",
		"- `bmad *export-master-manifest [file]` → Export the merged manifest as JSON",
		"- `bmad *stats` → Show invocation history summary\n",

		"## Quick Start",
		"1. **Discover agents:** `bmad *list-agents`",
		"2. **Load an agent:** `bmad analyst`",
		"3. **Discover workflows:** `bmad *list-workflows`",
		"4. **Run a workflow:** `bmad *party-mode`\n",

		"## Agent vs Workflow",
		"- **Agents** provide personas and interactive menus (no `*` prefix)",
		"- **Workflows** execute automated tasks (use `*` prefix)\n",

		"## MCP Resources",
		fmt.Sprintf("All resources are loaded from: `%s`", h.Root),
		fmt.Sprintf("- Agents: %d available", h.Agents),
		fmt.Sprintf("- Workflows: %d available\n", h.Workflows),

		"For more information about specific agents or workflows, use the `*list-*` commands.",
	}
	return join(parts)
}
