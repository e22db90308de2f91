package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bmad-method/bmad-mcp/internal/format"
	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

// bmadDescription teaches the client the full command grammar. Clients
// pick tools by description, so it carries the routing rules and the
// common mistakes rather than a one-liner.
const bmadDescription = `Unified BMAD tool with instruction-based routing.

**Command Patterns:**

1. Load default agent (bmad-master):
   - Input: "" (empty string)
   - Example: bmad

2. Load specific agent:
   - Input: "<agent-name>"
   - Example: "analyst" loads the Business Analyst agent
   - Example: "architect" loads the Architect agent
   - Use "*list-agents" to see every agent the manifest provides

3. Execute workflow:
   - Input: "*<workflow-name>" (note the asterisk prefix)
   - Example: "*party-mode" executes the party-mode workflow
   - Example: "*brainstorm-project" executes brainstorming workflow
   - The asterisk (*) is REQUIRED for workflows

4. Discovery commands (built-in):
   - Input: "*list-agents" → Show all available BMAD agents
   - Input: "*list-workflows" → Show all available workflows
   - Input: "*list-tasks" → Show all available tasks
   - Input: "*list-modules" → Show modules with per-kind counts
   - Input: "*more" → Continue the previous list
   - Input: "*help" → Show command reference and usage guide

5. Maintenance commands (built-in):
   - Input: "*doctor" → Diagnose discovery and the master manifest
   - Input: "*init --project <dir>" → Scaffold a fresh BMAD installation
   - Input: "*export-master-manifest [file]" → Export the merged manifest
   - Input: "*stats" → Show invocation statistics

**Naming Rules:**
- Agent names: lowercase letters and hyphens only (e.g., "analyst", "bmad-master")
- Workflow names: lowercase letters, numbers, and hyphens (e.g., "party-mode", "dev-story")
- Names must be 2-50 characters
- Case-sensitive matching

**Important:**
- To execute a workflow, you MUST prefix the name with an asterisk (*)
- Without the asterisk, the tool will try to load an agent with that name
- Use only ONE argument at a time
- Discovery commands are built-in and work independently

**Examples:**
- bmad → Load bmad-master (default orchestrator)
- bmad analyst → Load Mary the Business Analyst
- bmad *party-mode → Execute party-mode workflow
- bmad *list-agents → See all available agents
- bmad *list-workflows → See all workflows you can run
- bmad *help → Show complete command reference

**Error Handling:**
The tool provides helpful suggestions if you:
- Misspell an agent or workflow name (fuzzy matching)
- Forget the asterisk for a workflow
- Use invalid characters or formatting`

// bmadTool defines the single unified tool. The command argument is
// optional: omitting it loads the default agent.
func bmadTool() mcp.Tool {
	return mcp.NewTool("bmad",
		mcp.WithDescription(bmadDescription),
		mcp.WithString("command",
			mcp.Description("Command to execute: empty string for default agent, 'agent-name' for agents, '*workflow-name' for workflows"),
		),
	)
}

// bmadHandler routes every call through the orchestrator and renders
// the result as markdown. Failed commands come back as error results
// so the client can flag them, with the rendered message as the body.
func bmadHandler(orch *orchestrator.Orchestrator) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		command := req.GetString("command", "")
		res := orch.Execute(ctx, command)
		text := format.Render(res)
		if !res.Success {
			return mcp.NewToolResultError(text), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}
