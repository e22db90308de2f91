package format

import (
	"encoding/json"
	"fmt"

	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

// renderWorkflow assembles the execution package for a workflow: its
// context (server paths plus the inline agent roster), the yaml
// configuration, optional instructions, and the execution contract.
func renderWorkflow(w *orchestrator.WorkflowPayload) string {
	parts := []string{
		fmt.Sprintf("# Workflow: %s", w.Name),
		fmt.Sprintf("\n**Description:** %s\n", w.Description),
	}

	c := w.Context
	parts = append(parts,
		"## Workflow Context\n",
		"**MCP Server Resources (use these, not user's workspace):**\n",
		fmt.Sprintf("- MCP Server Root: `%s`", c.ServerRoot),
		fmt.Sprintf("- Agent Manifest: `%s`", c.ManifestPath),
		fmt.Sprintf("- Available Agents: %d\n", c.AgentCount),
		"**NOTE:** All `{mcp-resources}` references in this workflow point to the MCP server,",
		"not the user's workspace. Use the Agent Roster data provided below.\n",
	)
	if len(c.Roster) > 0 {
		roster, _ := json.MarshalIndent(c.Roster, "", "  ")
		parts = append(parts, "**Agent Roster (MCP Server Data):**\n")
		parts = append(parts, fence("json", string(roster))...)
	}

	if w.YAML != "" || w.YAMLErr != "" {
		body := w.YAML
		if w.YAMLErr != "" {
			body = fmt.Sprintf("[Error reading workflow file: %s]", w.YAMLErr)
		}
		parts = append(parts,
			"## Workflow Configuration\n",
			fmt.Sprintf("**File:** `%s`\n", w.Path),
		)
		parts = append(parts, fence("yaml", body)...)
	}

	if w.Instructions != "" {
		parts = append(parts, "## Workflow Instructions\n")
		parts = append(parts, fence("markdown", w.Instructions)...)
	}

	parts = append(parts, executionInstructions)
	return join(parts)
}

// executionInstructions is the static contract appended to every
// workflow response. The roster reminder matters: clients otherwise go
// hunting for manifest files in the user's workspace.
const executionInstructions = `## Execution Instructions

Process this workflow according to BMAD workflow execution methodology:

1. **Read the complete workflow.yaml configuration**
2. **IMPORTANT - MCP Resource Resolution:**
   - All ` + "`{mcp-resources}`" + ` placeholders refer to the MCP server installation
   - DO NOT search the user's workspace for manifest files or agent data
   - USE the Agent Roster JSON provided in the Workflow Context section above
   - The MCP server has already resolved all paths and loaded all necessary data
3. **Resolve variables:** Replace any ` + "`{{variables}}`" + ` with user input or defaults
4. **Follow instructions:** Execute steps in exact order as defined
5. **Generate content:** Process ` + "`<template-output>`" + ` sections as needed
6. **Request input:** Use ` + "`<elicit-required>`" + ` sections to gather additional user input

**CRITICAL:** The Agent Roster JSON in the Workflow Context contains all agent metadata
from the MCP server. Use this data directly - do not attempt to read files from the
user's workspace.

Begin workflow execution now.`
