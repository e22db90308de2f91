package orchestrator

import (
	"fmt"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bmad-method/bmad-mcp/internal/manifest"
)

// workflowDoc is the subset of workflow.yaml the server itself reads.
// The full document goes to the client verbatim.
type workflowDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// runWorkflow assembles the payload for a validated workflow name.
func (o *Orchestrator) runWorkflow(m *manifest.Master, name string) *Result {
	rec, ok := m.Find(manifest.KindWorkflow, name)
	if !ok {
		return errorResult("WORKFLOW_NOT_FOUND",
			fmt.Sprintf("Workflow '%s' not found in manifest", name), nil, 2)
	}
	o.log.Infof("orchestrator: executing workflow %s", name)

	p := &WorkflowPayload{
		Name:        rec.Name,
		Description: rec.Description,
		Module:      rec.Module,
		Path:        rec.Path,
	}

	if rec.Path != "" {
		if text, err := readRecord(m, rec); err != nil {
			p.YAMLErr = err.Error()
			o.log.Errorf("orchestrator: reading workflow file %s: %v", rec.Path, err)
		} else {
			p.YAML = rewritePlaceholders(text)

			var doc workflowDoc
			if err := yaml.Unmarshal([]byte(text), &doc); err == nil {
				if p.Description == "" {
					p.Description = doc.Description
				}
			} else {
				o.log.Debugf("orchestrator: workflow %s yaml not parseable: %v", name, err)
			}
		}

		// instructions.md next to workflow.yaml is optional.
		instrPath := path.Join(path.Dir(rec.Path), "instructions.md")
		if text, err := m.Reader().Read(instrPath); err == nil {
			p.Instructions = rewritePlaceholders(text)
		}
	}

	p.Context = o.workflowContext(m)
	return &Result{Kind: ResultWorkflow, Success: true, Workflow: p}
}

// workflowContext points the executing model at the server's own
// resources and hands it the agent roster inline.
func (o *Orchestrator) workflowContext(m *manifest.Master) WorkflowContext {
	ctx := WorkflowContext{}
	if active := activeLocation(m); active != nil {
		ctx.ServerRoot = active.ResolvedRoot
		ctx.ManifestPath = filepath.Join(active.ManifestDir, "agent-manifest.csv")
	}
	agents := m.Agents()
	ctx.AgentCount = len(agents)
	for _, a := range agents {
		ctx.Roster = append(ctx.Roster, RosterEntry{
			Name:        a.Name,
			DisplayName: a.DisplayName,
			Title:       a.Title,
			Module:      a.Module,
		})
	}
	return ctx
}
