package orchestrator

import (
	"fmt"
	"strings"

	"github.com/bmad-method/bmad-mcp/internal/manifest"
)

// loadAgent assembles the payload for a validated agent name. File
// reads are best effort: failures become inline placeholders and the
// result still succeeds.
func (o *Orchestrator) loadAgent(m *manifest.Master, name string) *Result {
	rec, ok := m.Find(manifest.KindAgent, name)
	if !ok {
		// Validation passed against a different snapshot; treat as a
		// dispatch-time miss.
		return errorResult("AGENT_NOT_FOUND",
			fmt.Sprintf("Agent '%s' not found in manifest", name), nil, 2)
	}
	o.log.Infof("orchestrator: loading agent %s", name)

	p := &AgentPayload{
		Name:        rec.Name,
		DisplayName: rec.DisplayName,
		Title:       rec.Title,
		Module:      rec.Module,
		Path:        rec.Path,
	}
	if p.DisplayName == "" {
		p.DisplayName = rec.Name
	}
	if p.Title == "" {
		p.Title = "BMAD Agent"
	}

	if rec.Path != "" {
		if text, err := readRecord(m, rec); err != nil {
			p.DefinitionErr = err.Error()
			o.log.Errorf("orchestrator: reading agent file %s: %v", rec.Path, err)
		} else {
			p.Definition = rewritePlaceholders(text)
		}
	}

	module := rec.Module
	if module == "" {
		module = "core"
	}
	p.CustomizePath = fmt.Sprintf("bmad/_cfg/agents/%s-%s.customize.yaml", module, rec.Name)
	if text, err := m.Reader().Read(p.CustomizePath); err != nil {
		p.CustomizeErr = err.Error()
	} else {
		p.Customize = rewritePlaceholders(text)
	}

	return &Result{Kind: ResultAgent, Success: true, Agent: p}
}

// readRecord reads a record's file through the content chain, trying
// the winning path first and then any origin-specific paths.
func readRecord(m *manifest.Master, rec manifest.Record) (string, error) {
	reader := m.Reader()
	paths := []string{rec.Path}
	for _, or := range rec.Origins {
		if or.Path != "" && or.Path != rec.Path {
			paths = append(paths, or.Path)
		}
	}

	var firstErr error
	for _, p := range paths {
		if p == "" {
			continue
		}
		text, err := reader.Read(p)
		if err == nil {
			return text, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("orchestrator: record %s has no file path", rec.Name)
	}
	return "", firstErr
}

// rewritePlaceholders redirects {project-root} references at the MCP
// server's own resources so clients do not search their workspace.
func rewritePlaceholders(s string) string {
	return strings.ReplaceAll(s, "{project-root}", "{mcp-resources}")
}
