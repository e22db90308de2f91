package command

import (
	"fmt"
	"strings"

	"github.com/bmad-method/bmad-mcp/internal/manifest"
)

// Error message builders. The texts are part of the tool's contract with
// MCP clients; change them only deliberately.

func tooManyArgsMessage(parts []string) string {
	return fmt.Sprintf(`Error: Too many arguments

The bmad tool accepts only one argument at a time.

You provided: %s

Did you mean one of these?
  - bmad %s (load %s agent)
  - bmad *%s (execute %s workflow)

Usage:
  bmad                  → Load bmad-master
  bmad <agent-name>     → Load specified agent
  bmad *<workflow-name> → Execute specified workflow`,
		strings.Join(parts, " "), parts[0], parts[0], parts[1], parts[1])
}

func doubleAsteriskMessage(rest string) string {
	return fmt.Sprintf(`Error: Invalid syntax

Workflows require exactly one asterisk (*) prefix, not two (**).

Correct syntax:
  bmad *%s

Try: bmad *%s`, rest, rest)
}

func missingWorkflowNameMessage() string {
	return `Error: Missing workflow name

The asterisk (*) prefix requires a workflow name.

Correct syntax:
  bmad *<workflow-name>

Example:
  bmad *party-mode

To list all workflows, try:
  bmad *list-workflows`
}

func missingAsteriskMessage(name string) string {
	return fmt.Sprintf(`Error: Missing workflow prefix

'%s' appears to be a workflow name, but is missing the asterisk (*) prefix.

Workflows must be invoked with the asterisk prefix:
  Correct:   bmad *%s
  Incorrect: bmad %s

To load an agent instead, use:
  bmad <agent-name>

Did you mean: bmad *%s?`, name, name, name, name)
}

func dangerousCharsMessage(chars []string) string {
	return fmt.Sprintf(`Error: Invalid characters detected

The command contains potentially dangerous characters: %s

For security reasons, the following characters are not allowed:
  ; & | $ `+"`"+` < > ( )

Agent and workflow names use only:
  - Lowercase letters (a-z)
  - Numbers (0-9, workflows only)
  - Hyphens (-)

Try: bmad analyst`, strings.Join(chars, ", "))
}

func nonASCIIMessage(chars []string) string {
	return fmt.Sprintf(`Error: Non-ASCII characters detected

The command contains non-ASCII characters: %s

Agent and workflow names must use ASCII characters only:
  - Lowercase letters (a-z)
  - Numbers (0-9, workflows only)
  - Hyphens (-)

Try using ASCII equivalents.`, strings.Join(chars, ", "))
}

func nameTooShortMessage(entity, name, available string) string {
	return fmt.Sprintf(`Error: %s name too short

%s name '%s' is only %d character(s) long. Names must be at least %d characters.

%s

Try: bmad <agent-name>`, entity, entity, name, len(name), minNameLength, available)
}

func nameTooLongMessage(length int) string {
	return fmt.Sprintf(`Error: Name too long

The provided name is %d characters long. Names must be at most %d characters.

Please use a shorter agent or workflow name.`, length, maxNameLength)
}

func invalidAgentFormatMessage(name string) string {
	return fmt.Sprintf(`Error: Invalid agent name format

Agent name '%s' contains invalid characters.

Agent names must:
  - Use lowercase letters only
  - Use hyphens (-) to separate words
  - Start and end with a letter
  - Not contain numbers or special characters

Valid examples:
  - analyst
  - bmad-master
  - game-dev`, name)
}

func invalidWorkflowFormatMessage(name string) string {
	return fmt.Sprintf(`Error: Invalid workflow name format

Workflow name '%s' contains invalid characters.

Workflow names must:
  - Use lowercase letters and numbers
  - Use hyphens (-) to separate words
  - Start and end with alphanumeric character
  - Not contain underscores or special characters

Valid examples:
  - party-mode
  - brainstorm-project
  - dev-story`, name)
}

func unknownAgentMessage(name string, suggestions []string, m *manifest.Master) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: Unknown agent '%s'\n\n", name)
	if len(suggestions) > 0 {
		fmt.Fprintf(&b, "Did you mean: %s?\n\n", strings.Join(suggestions, ", "))
	}
	fmt.Fprintf(&b, "The agent '%s' is not available in the BMAD system.\n\n", name)
	b.WriteString(availableAgents(m))
	b.WriteString("\nTry: bmad <agent-name>\nExample: bmad analyst")
	return b.String()
}

func unknownWorkflowMessage(name string, suggestions []string, m *manifest.Master) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: Unknown workflow '*%s'\n\n", name)
	if len(suggestions) > 0 {
		starred := make([]string, len(suggestions))
		for i, s := range suggestions {
			starred[i] = "*" + s
		}
		fmt.Fprintf(&b, "Did you mean: %s?\n\n", strings.Join(starred, ", "))
	}
	fmt.Fprintf(&b, "The workflow '%s' is not available in the BMAD system.\n\n", name)
	b.WriteString(availableWorkflows(m))
	b.WriteString("\nTry: bmad *<workflow-name>\nExample: bmad *party-mode")
	return b.String()
}

func caseMismatchMessage(entity, name, correct string) string {
	invoke := correct
	if entity == "Workflow" {
		invoke = "*" + correct
	}
	return fmt.Sprintf(`Error: Case sensitivity mismatch

%s names are case-sensitive. '%s' does not match '%s'.

Did you mean: bmad %s?

Note: All agent and workflow names use lowercase letters only.`, entity, name, correct, invoke)
}

// availableListCap bounds how many names an error message enumerates.
const availableListCap = 10

func availableAgents(m *manifest.Master) string {
	agents := m.Agents()
	lines := []string{"Available agents:"}
	for i, a := range agents {
		if i == availableListCap {
			break
		}
		lines = append(lines, fmt.Sprintf("  - %s (%s)", a.Name, a.Title))
	}
	if n := len(agents) - availableListCap; n > 0 {
		lines = append(lines, fmt.Sprintf("  ... (%d more)", n))
	}
	return strings.Join(lines, "\n")
}

func availableWorkflows(m *manifest.Master) string {
	workflows := m.Workflows()
	lines := []string{"Available workflows:"}
	for i, w := range workflows {
		if i == availableListCap {
			break
		}
		lines = append(lines, fmt.Sprintf("  - *%s (%s)", w.Name, w.Description))
	}
	if n := len(workflows) - availableListCap; n > 0 {
		lines = append(lines, fmt.Sprintf("  ... (%d more, use list-workflows for complete list)", n))
	}
	return strings.Join(lines, "\n")
}
