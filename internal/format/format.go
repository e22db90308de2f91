// Package format renders orchestrator results as markdown.
//
// One renderer per result kind, all pure string builders. The
// orchestrator decides WHAT happened; this package decides how it
// reads in an MCP client. Error results render as their message text
// alone so transports can flag them without re-wrapping.
package format

import (
	"encoding/json"
	"strings"

	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

// Render turns a result into the markdown text a client sees.
func Render(res *orchestrator.Result) string {
	switch res.Kind {
	case orchestrator.ResultAgent:
		return renderAgent(res.Agent)
	case orchestrator.ResultWorkflow:
		return renderWorkflow(res.Workflow)
	case orchestrator.ResultList:
		return renderList(res.List)
	case orchestrator.ResultHelp:
		return renderHelp(res.Help)
	case orchestrator.ResultDoctor:
		return renderDoctor(res.Doctor)
	case orchestrator.ResultInit:
		return renderInit(res.Init)
	case orchestrator.ResultExport:
		return renderExport(res.Export)
	case orchestrator.ResultStats:
		return renderStats(res.Stats)
	case orchestrator.ResultError:
		return res.Err.Message
	}

	// Unknown kinds dump as JSON rather than vanish.
	b, _ := json.MarshalIndent(res, "", "  ")
	return string(b)
}

// fence wraps body in a fenced code block, trailing blank line
// included, matching how every renderer spaces its sections.
func fence(lang, body string) []string {
	return []string{"```" + lang, body, "```\n"}
}

func join(parts []string) string {
	return strings.Join(parts, "\n")
}
