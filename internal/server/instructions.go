package server

// serverInstructions is sent to the client once per session. It teaches
// the model when to reach for the bmad tool and how the command grammar
// routes, so the first call is usually the right one.
func serverInstructions() string {
	return `You have access to BMAD, an agent and workflow content server for the
BMAD Method (Breakthrough Method of Agile AI-Driven Development).

## WHEN TO ACTIVATE BMAD

Use the bmad tool when the user:
- Asks to work with a BMAD agent (analyst, architect, dev, pm, sm, ...)
- Asks to run a BMAD workflow or mentions a *-prefixed command
- Asks what BMAD agents, workflows, or tasks are available
- Wants to plan, brainstorm, or structure work "the BMAD way"

You do NOT need bmad for ordinary coding questions or edits that never
mention BMAD.

## CRITICAL: How the Tool Works

bmad is a CONTENT tool, not an AI tool. It returns agent definitions and
workflow instructions as markdown; YOU then embody the agent or execute
the workflow steps yourself. The server never runs anything on your
behalf.

One tool, one string argument, routed by shape:
- "" (empty) loads the default orchestrator agent (bmad-master)
- "analyst" loads the agent named analyst
- "*party-mode" executes the workflow named party-mode
- The asterisk is REQUIRED for workflows and for built-in commands

Built-in commands:
- *list-agents, *list-workflows, *list-tasks, *list-modules — browse
  the manifest (20 per page, *more continues)
- *help — full command reference
- *doctor [path] [--reload] [--full] — diagnose discovery and the
  master manifest
- *init --project <dir> — scaffold a fresh BMAD installation
- *export-master-manifest [file] — dump the merged manifest as JSON
- *stats — invocation statistics

## After Loading an Agent

Adopt the agent's persona from the returned definition and follow its
activation instructions. File references inside the content use the
{mcp-resources} prefix: they live on the MCP server, not in the user's
workspace — request them through bmad, never through local file reads.

## After Starting a Workflow

Execute the returned instructions step by step. The Workflow Context
section carries the server root, the manifest path, and the agent
roster; use that data instead of scanning the user's project.

## When a Command Fails

Error results include suggestions (closest names, missing-asterisk
hints). Relay the suggestion or retry with the corrected command; use
*list-agents or *list-workflows when unsure what exists.

## Prompts and Resources

Every agent is also exposed as a prompt named bmad-<agent> for clients
that surface prompts as slash commands. The resources
bmad://master-manifest and bmad://locations provide the merged manifest
and the discovery report as JSON.`
}
