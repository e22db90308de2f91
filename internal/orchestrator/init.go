package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
)

// manifestHeaders are the header rows a fresh installation starts with.
var manifestHeaders = map[string]string{
	"agent-manifest.csv":    "name,displayName,title,icon,role,identity,communicationStyle,principles,module,path\n",
	"workflow-manifest.csv": "name,description,trigger,standalone,module,path\n",
	"task-manifest.csv":     "name,displayName,description,module,path\n",
}

// initialize scaffolds a fresh installation: _cfg with header-only
// manifests plus an empty core module. It refuses to touch a directory
// that already holds one.
//
//	*init --project    <cwd>/bmad
//	*init --user       ~/.bmad
//	*init <path>       <path>/bmad (unless path already names a bmad dir)
func (o *Orchestrator) initialize(args []string) *Result {
	target := ""
	for _, a := range args {
		switch a {
		case "--help":
			return &Result{Kind: ResultInit, Success: true, Init: &InitPayload{Usage: true}}
		case "--project":
			target = filepath.Join(o.disc.WorkDir, "bmad")
		case "--user":
			target = filepath.Join(o.disc.HomeDir, ".bmad")
		default:
			base := filepath.Base(a)
			if base == "bmad" || base == ".bmad" {
				target = a
			} else {
				target = filepath.Join(a, "bmad")
			}
		}
	}
	if target == "" {
		return &Result{Kind: ResultInit, Success: true, Init: &InitPayload{Usage: true}}
	}

	cfgDir := filepath.Join(target, "_cfg")
	if info, err := os.Stat(cfgDir); err == nil && info.IsDir() {
		return errorResult("INIT_EXISTS", fmt.Sprintf(`Error: BMAD installation already exists

Refusing to overwrite the existing installation at: %s

Remove its _cfg directory first, or initialize a different path.`, target), nil, 1)
	}

	p := &InitPayload{Dir: target}
	dirs := []string{
		cfgDir,
		filepath.Join(target, "core", "agents"),
		filepath.Join(target, "core", "workflows"),
		filepath.Join(target, "core", "tasks"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return errorResult("INIT_IO", fmt.Sprintf("Error: Failed to initialize %s: %v", target, err), nil, 1)
		}
		p.Created = append(p.Created, d)
	}
	for _, name := range []string{"agent-manifest.csv", "workflow-manifest.csv", "task-manifest.csv"} {
		path := filepath.Join(cfgDir, name)
		if err := os.WriteFile(path, []byte(manifestHeaders[name]), 0o644); err != nil {
			return errorResult("INIT_IO", fmt.Sprintf("Error: Failed to initialize %s: %v", target, err), nil, 1)
		}
		p.Created = append(p.Created, path)
	}

	o.cache.Invalidate()
	o.log.Infof("orchestrator: initialized BMAD installation at %s", target)
	return &Result{Kind: ResultInit, Success: true, Init: p}
}
