package format

import (
	"encoding/json"
	"fmt"

	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

const noMoreText = "No more results to show.\n\n" +
	"Run a list command first (`bmad *list-agents`, `bmad *list-workflows`,\n" +
	"`bmad *list-tasks`, `bmad *list-modules`); `bmad *more` then continues it."

func renderList(p *orchestrator.ListPayload) string {
	if p.NoMore {
		return noMoreText
	}
	switch p.Type {
	case orchestrator.ListTypeAgents:
		return renderAgentList(p)
	case orchestrator.ListTypeWorkflows:
		return renderWorkflowList(p)
	case orchestrator.ListTypeTasks:
		return renderTaskList(p)
	case orchestrator.ListTypeModules:
		return renderModuleList(p)
	}
	b, _ := json.MarshalIndent(p, "", "  ")
	return string(b)
}

func renderAgentList(p *orchestrator.ListPayload) string {
	parts := []string{"# Available BMAD Agents\n"}

	if p.Total == 0 {
		parts = append(parts, "No agents found in manifest.\n")
	} else {
		parts = append(parts, fmt.Sprintf("Found %d agents:\n", p.Total))
		for idx, rec := range p.Records {
			name := rec.Name
			parts = append(parts,
				fmt.Sprintf("\n%d. **%s** (`%s`)", p.Offset+idx+1, orDefault(rec.DisplayName, name), name),
				"   - Role: "+orDefault(rec.Role, "No role specified"),
				"   - Module: "+orDefault(rec.Module, "core"),
				fmt.Sprintf("   - Command: `bmad %s`\n", name),
			)
		}
	}

	parts = append(parts,
		"\n**Usage:**",
		"- Load an agent: `bmad <agent-name>`",
		"- Example: `bmad analyst` loads Mary, the Business Analyst\n",
	)
	return join(parts) + pageFooter(p)
}

func renderWorkflowList(p *orchestrator.ListPayload) string {
	parts := []string{"# Available BMAD Workflows\n"}

	if p.Total == 0 {
		parts = append(parts, "No workflows found in manifest.\n")
	} else {
		parts = append(parts, fmt.Sprintf("Found %d workflows:\n", p.Total))
		for idx, rec := range p.Records {
			trigger := orDefault(rec.Trigger, rec.Name)
			parts = append(parts,
				fmt.Sprintf("\n%d. **%s** - %s", p.Offset+idx+1, trigger, orDefault(rec.Description, "No description")),
				"   - Module: "+orDefault(rec.Module, "core"),
				fmt.Sprintf("   - Command: `bmad *%s`\n", trigger),
			)
		}
	}

	parts = append(parts,
		"\n**Usage:**",
		"- Execute a workflow: `bmad *<workflow-name>`",
		"- Example: `bmad *party-mode` starts group discussion\n",
	)
	return join(parts) + pageFooter(p)
}

func renderTaskList(p *orchestrator.ListPayload) string {
	parts := []string{"# Available BMAD Tasks\n"}

	if p.Total == 0 {
		parts = append(parts, "No tasks found in manifest.\n")
	} else {
		parts = append(parts, fmt.Sprintf("Found %d tasks:\n", p.Total))
		for idx, rec := range p.Records {
			parts = append(parts,
				fmt.Sprintf("\n%d. **%s**", p.Offset+idx+1, orDefault(rec.DisplayName, rec.Name)),
				"   - "+orDefault(rec.Description, "No description"),
				"   - Module: "+orDefault(rec.Module, "core")+"\n",
			)
		}
	}

	parts = append(parts, "\n**Note:** Tasks are referenced within workflows and agent instructions.\n")
	return join(parts) + pageFooter(p)
}

func renderModuleList(p *orchestrator.ListPayload) string {
	parts := []string{"# Available BMAD Modules\n"}

	if p.Total == 0 {
		parts = append(parts, "No modules found in manifest.\n")
	} else {
		parts = append(parts, fmt.Sprintf("Found %d modules:\n", p.Total))
		for idx, mc := range p.Modules {
			parts = append(parts,
				fmt.Sprintf("\n%d. **%s**", p.Offset+idx+1, mc.Module),
				fmt.Sprintf("   - Agents: %d", mc.Agents),
				fmt.Sprintf("   - Workflows: %d", mc.Workflows),
				fmt.Sprintf("   - Tasks: %d\n", mc.Tasks),
			)
		}
	}

	parts = append(parts, "\n**Note:** Modules group related agents, workflows, and tasks.\n")
	return join(parts) + pageFooter(p)
}

// pageFooter reports the window position for paginated output. A
// single complete page stays footer-free.
func pageFooter(p *orchestrator.ListPayload) string {
	shown := len(p.Records)
	if p.Type == orchestrator.ListTypeModules {
		shown = len(p.Modules)
	}
	if shown == 0 || (p.Offset == 0 && shown == p.Total) {
		return ""
	}
	start, end := p.Offset+1, p.Offset+shown
	if end < p.Total {
		return fmt.Sprintf("\nShowing %d-%d of %d. Use *more to continue.", start, end, p.Total)
	}
	return fmt.Sprintf("\nShowing %d-%d of %d.", start, end, p.Total)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
