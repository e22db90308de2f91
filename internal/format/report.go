package format

import (
	"fmt"
	"time"

	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/history"
	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

// renderDoctor lays out the diagnostic report: every search location,
// the active installation, master manifest state, and with --full the
// per-record verification and recent history.
func renderDoctor(d *orchestrator.DoctorPayload) string {
	parts := []string{"# BMAD Doctor Report\n", "## Search Locations\n"}

	if len(d.Locations) == 0 {
		parts = append(parts, "No search locations configured.\n")
	}
	for i, loc := range d.Locations {
		parts = append(parts, fmt.Sprintf("\n%d. **%s** (%s, priority %d)", i+1, loc.DisplayName, loc.Source, loc.Priority))
		parts = append(parts, locationDetail(loc)...)
	}

	if d.Active != nil {
		parts = append(parts, fmt.Sprintf("\nActive installation: **%s** (`%s`)\n", d.Active.DisplayName, d.Active.ResolvedRoot))
	} else {
		parts = append(parts, "\nNo usable BMAD installation found.\n")
	}

	if d.Checked != nil {
		parts = append(parts, "## Checked Path\n", fmt.Sprintf("\n**%s**", d.Checked.OriginalPath))
		parts = append(parts, locationDetail(*d.Checked)...)
		parts = append(parts, "")
	}

	parts = append(parts, "## Master Manifest\n")
	if d.Reloaded {
		parts = append(parts, fmt.Sprintf("Reloaded: agents %d → %d, workflows %d → %d, tasks %d → %d\n",
			d.PrevAgents, d.Agents, d.PrevWorkflows, d.Workflows, d.PrevTasks, d.Tasks))
	}
	if d.ManifestErr != "" {
		parts = append(parts, fmt.Sprintf("Error: %s\n", d.ManifestErr))
		return join(parts)
	}
	parts = append(parts,
		fmt.Sprintf("- Built: %s", d.BuiltAt.Format(time.RFC3339)),
		fmt.Sprintf("- Agents: %d", d.Agents),
		fmt.Sprintf("- Workflows: %d", d.Workflows),
		fmt.Sprintf("- Tasks: %d\n", d.Tasks),
	)

	if !d.Full {
		return join(parts)
	}

	parts = append(parts, "## File Verification\n")
	if len(d.Broken) == 0 && len(d.Orphans) == 0 {
		parts = append(parts, "All manifest records verified.\n")
	}
	if len(d.Broken) > 0 {
		parts = append(parts, "Broken records (manifest entry, no file):")
		for _, rec := range d.Broken {
			parts = append(parts, fmt.Sprintf("- %s `%s` (module %s): `%s`", rec.Kind, rec.Name, rec.Module, rec.Path))
		}
		parts = append(parts, "")
	}
	if len(d.Orphans) > 0 {
		parts = append(parts, "Orphan files (on disk, not in any manifest):")
		for _, rec := range d.Orphans {
			parts = append(parts, fmt.Sprintf("- %s `%s` (module %s): `%s`", rec.Kind, rec.Name, rec.Module, rec.Path))
		}
		parts = append(parts, "")
	}

	parts = append(parts, "## Recent Invocations\n")
	switch {
	case d.HistoryNote != "":
		parts = append(parts, d.HistoryNote)
	case len(d.Recent) == 0:
		parts = append(parts, "No invocations recorded.")
	default:
		for _, inv := range d.Recent {
			outcome := "ok"
			if !inv.Success {
				outcome = fmt.Sprintf("exit %d (%s)", inv.ExitCode, inv.Error)
			}
			parts = append(parts, fmt.Sprintf("- [%s] `%s` → %s", inv.CreatedAt, inv.Command, outcome))
		}
	}
	return join(parts)
}

func locationDetail(loc discovery.Location) []string {
	status := string(loc.Status)
	if loc.Version != "" && loc.Version != discovery.VersionUnknown {
		status += " (" + string(loc.Version) + ")"
	}
	lines := []string{
		fmt.Sprintf("   - Path: `%s`", loc.OriginalPath),
		"   - Status: " + status,
	}
	if loc.ResolvedRoot != "" && loc.ResolvedRoot != loc.OriginalPath {
		lines = append(lines, fmt.Sprintf("   - Resolved: `%s`", loc.ResolvedRoot))
	}
	if loc.ManifestDir != "" {
		lines = append(lines, fmt.Sprintf("   - Manifests: `%s`", loc.ManifestDir))
	}
	if loc.Details != "" {
		lines = append(lines, "   - Details: "+loc.Details)
	}
	return lines
}

const initUsage = `# BMAD Init

Usage:
  bmad *init --project    Create bmad/ in the working directory
  bmad *init --user       Create ~/.bmad
  bmad *init <path>       Create <path>/bmad

Creates _cfg/ with header-only manifests plus an empty core module.
Refuses to overwrite an existing installation.`

func renderInit(p *orchestrator.InitPayload) string {
	if p.Usage {
		return initUsage
	}

	parts := []string{
		"# BMAD Installation Created\n",
		fmt.Sprintf("Initialized: `%s`\n", p.Dir),
		"Created:",
	}
	for _, c := range p.Created {
		parts = append(parts, fmt.Sprintf("- `%s`", c))
	}
	parts = append(parts,
		"\nNext steps:",
		"- Add agent rows to `_cfg/agent-manifest.csv`",
		"- Run `bmad *doctor` to confirm the installation is discovered",
	)
	return join(parts)
}

func renderExport(p *orchestrator.ExportPayload) string {
	if p.Path != "" {
		parts := []string{
			"# Master Manifest Exported\n",
			fmt.Sprintf("Written to: `%s`\n", p.Path),
			fmt.Sprintf("- Agents: %d", p.Agents),
			fmt.Sprintf("- Workflows: %d", p.Workflows),
			fmt.Sprintf("- Tasks: %d", p.Tasks),
		}
		return join(parts)
	}

	parts := []string{
		"# Master Manifest\n",
		fmt.Sprintf("- Agents: %d", p.Agents),
		fmt.Sprintf("- Workflows: %d", p.Workflows),
		fmt.Sprintf("- Tasks: %d\n", p.Tasks),
	}
	parts = append(parts, fence("json", p.JSON)...)
	return join(parts)
}

func renderStats(p *orchestrator.StatsPayload) string {
	if p.Disabled {
		return "Invocation history is disabled. Start the server without --no-history to record usage."
	}
	s := p.Stats

	parts := []string{
		"# BMAD Usage Stats\n",
		fmt.Sprintf("- Total invocations: %d", s.TotalInvocations),
	}
	if s.FirstRecordedAt != "" {
		parts = append(parts, "- Recording since: "+s.FirstRecordedAt)
	}
	parts = append(parts, "")

	if len(s.ByKind) > 0 {
		parts = append(parts, "**By kind:**")
		for _, kc := range s.ByKind {
			parts = append(parts, fmt.Sprintf("- %s: %d", kc.Name, kc.Count))
		}
		parts = append(parts, "")
	}
	parts = append(parts, nameCountSection("**Top agents:**", s.TopAgents)...)
	parts = append(parts, nameCountSection("**Top workflows:**", s.TopWorkflows)...)

	if len(s.RecentErrors) > 0 {
		parts = append(parts, "**Recent errors:**")
		for _, inv := range s.RecentErrors {
			parts = append(parts, fmt.Sprintf("- [%s] `%s` → %s", inv.CreatedAt, inv.Command, inv.Error))
		}
	}
	return join(parts)
}

func nameCountSection(heading string, counts []history.NameCount) []string {
	if len(counts) == 0 {
		return nil
	}
	lines := []string{heading}
	for i, nc := range counts {
		lines = append(lines, fmt.Sprintf("%d. %s (%d)", i+1, nc.Name, nc.Count))
	}
	return append(lines, "")
}
