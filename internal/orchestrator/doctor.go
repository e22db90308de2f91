package orchestrator

import (
	"strings"

	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/manifest"
)

// doctor produces the diagnostic report. It always succeeds: a broken
// installation is a finding, not a failure.
//
//	*doctor            fresh discovery over every source
//	*doctor <path>     additionally classify one candidate path
//	*doctor --reload   rebuild the master manifest, report old vs new
//	*doctor --full     deep-verify files and attach recent history
func (o *Orchestrator) doctor(args []string) *Result {
	var (
		reload  bool
		full    bool
		pathArg string
	)
	for _, a := range args {
		switch {
		case a == "--reload":
			reload = true
		case a == "--full":
			full = true
		case strings.HasPrefix(a, "--"):
			// Unknown flags are reported, not fatal.
			o.log.Warnf("orchestrator: doctor: unknown flag %s", a)
		case pathArg == "":
			pathArg = a
		}
	}

	p := &DoctorPayload{Full: full}

	res := discovery.Resolve(o.disc)
	p.Locations = res.Locations
	p.Active = res.Active

	if pathArg != "" {
		checked := discovery.Inspect(pathArg, o.disc.WorkDir)
		p.Checked = &checked
	}

	if reload {
		if prev := o.cache.Cached(); prev != nil {
			p.PrevAgents, p.PrevWorkflows, p.PrevTasks = prev.Counts()
		}
		p.Reloaded = true
		if _, err := o.cache.Reload(); err != nil {
			p.ManifestErr = err.Error()
		}
	}

	m, err := o.cache.Get()
	if err != nil {
		p.ManifestErr = err.Error()
		return &Result{Kind: ResultDoctor, Success: true, Doctor: p}
	}
	p.Agents, p.Workflows, p.Tasks = m.Counts()
	p.BuiltAt = m.BuiltAt
	if reload && o.onReload != nil {
		o.onReload(m)
	}

	if full {
		for _, rec := range m.Records {
			switch rec.Status {
			case manifest.StatusNoFileFound:
				p.Broken = append(p.Broken, rec)
			case manifest.StatusNotInManifest:
				p.Orphans = append(p.Orphans, rec)
			}
		}
		if o.history == nil {
			p.HistoryNote = "history disabled"
		} else if recent, err := o.history.Recent(10); err != nil {
			p.HistoryNote = "history unavailable: " + err.Error()
		} else {
			p.Recent = recent
		}
	}

	return &Result{Kind: ResultDoctor, Success: true, Doctor: p}
}
