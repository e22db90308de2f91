package format

import (
	"fmt"

	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

// renderAgent assembles the persona document a client adopts: header,
// definition file, customization file, then the processing
// instructions. Read failures appear inline where the file would be.
func renderAgent(a *orchestrator.AgentPayload) string {
	parts := []string{
		fmt.Sprintf("# BMAD Agent: %s", a.DisplayName),
		fmt.Sprintf("**Title:** %s\n", a.Title),
	}

	if a.Path != "" {
		parts = append(parts,
			"## Agent Definition\n",
			fmt.Sprintf("**File:** `%s`\n", a.Path),
		)
		if a.DefinitionErr != "" {
			parts = append(parts, fmt.Sprintf("[Error reading agent file: %s]\n", a.DefinitionErr))
		} else {
			parts = append(parts, fence("markdown", a.Definition)...)
		}
	}

	parts = append(parts,
		"## Agent Customization\n",
		fmt.Sprintf("**File:** `%s`\n", a.CustomizePath),
	)
	if a.CustomizeErr != "" {
		parts = append(parts, fmt.Sprintf("[Customization file not found or error: %s]\n", a.CustomizeErr))
	} else {
		parts = append(parts, fence("yaml", a.Customize)...)
	}

	parts = append(parts, agentInstructions)
	return join(parts)
}

// agentInstructions is the static processing contract appended to every
// loaded agent.
const agentInstructions = `## BMAD Processing Instructions

This agent is part of the BMAD (BMad Methodology for Agile Development) framework.

**How to Process:**
1. Read the agent definition markdown to understand role, identity, and principles
2. Apply the communication style specified in the agent definition
3. Use the customization YAML for any project-specific overrides
4. Access available BMAD tools and workflows as needed
5. Follow the agent's core principles when making decisions

**Agent Activation:**
- You are now embodying this agent's persona
- Communicate using the specified communication style
- Apply the agent's principles to all recommendations
- Use the agent's identity and role to guide your responses

**Available BMAD Tools:**
The following MCP tools are available for workflow execution:
- ` + "`bmad *<workflow-name>`" + ` - Execute a BMAD workflow
- Use the bmad tool to discover and execute workflows as needed

Use these tools to access BMAD workflows and tasks as needed.`
