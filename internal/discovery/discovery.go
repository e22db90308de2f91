// Package discovery locates BMAD installations across ranked sources.
//
// A discovery pass probes the project directory, CLI overrides, environment
// variables, the enclosing git repository, and the user home, in that fixed
// priority order. Discovery never fails: every candidate becomes a Location
// whose Status records what the probe found, so a diagnostic report can be
// rendered even when no installation is usable.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmad-method/bmad-mcp/internal/logging"
)

// Source identifies where a candidate root came from.
type Source string

const (
	SourceProject Source = "project"
	SourceCLI     Source = "cli"
	SourceEnv     Source = "env"
	SourceGit     Source = "git"
	SourceUser    Source = "user"
)

// Fixed source priorities; lower wins, project highest.
const (
	priorityProject = 1
	priorityCLI     = 2
	priorityEnv     = 3
	priorityGit     = 4
	priorityUser    = 5
)

// Status classifies what a probe found at a candidate path.
type Status string

const (
	StatusValid    Status = "valid"
	StatusMissing  Status = "missing"   // directory exists, no BMAD structure inside
	StatusNotFound Status = "not-found" // path absent
	StatusInvalid  Status = "invalid"   // path exists but is not a usable directory
)

// Version is the detected BMAD layout generation.
type Version string

const (
	VersionV6      Version = "v6"
	VersionV4      Version = "v4"
	VersionUnknown Version = "unknown"
)

// Location describes one candidate root and what was found there.
// Constructed once per discovery pass and immutable afterward.
type Location struct {
	DisplayName  string  `json:"displayName"`
	Source       Source  `json:"source"`
	Priority     int     `json:"priority"`
	OriginalPath string  `json:"originalPath"`
	ResolvedRoot string  `json:"resolvedRoot,omitempty"`
	Status       Status  `json:"status"`
	ManifestDir  string  `json:"manifestDir,omitempty"`
	Version      Version `json:"version"`
	Details      string  `json:"details,omitempty"`
}

// Usable reports whether manifests can be loaded from this location.
// Legacy v4 roots are valid but carry no loadable manifest directory.
func (l Location) Usable() bool {
	return l.Status == StatusValid && l.ManifestDir != ""
}

// Options configures a discovery pass. Zero values fall back to the real
// process environment; tests inject their own.
type Options struct {
	WorkDir  string              // defaults to os.Getwd()
	CLIRoots []string            // --bmad-root values, in flag order
	Env      func(string) string // defaults to os.Getenv
	HomeDir  string              // defaults to os.UserHomeDir()
	Log      *logging.Logger
}

// Resolution aggregates one discovery pass. Active points into Locations
// at the highest-priority usable entry, or is nil when nothing is usable.
type Resolution struct {
	Locations   []Location `json:"locations"`
	Active      *Location  `json:"active,omitempty"`
	ProjectRoot string     `json:"projectRoot,omitempty"`
	UserPath    string     `json:"userPath,omitempty"`
}

// Resolve probes every source and returns the ranked classification of all
// candidates. It never returns an error: probe failures degrade to Status
// values on the affected Location.
func Resolve(opts Options) Resolution {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}

	wd := opts.WorkDir
	if wd == "" {
		if d, err := os.Getwd(); err == nil {
			wd = d
		} else {
			log.Debugf("discovery: working directory unavailable: %v", err)
		}
	}
	getenv := opts.Env
	if getenv == nil {
		getenv = os.Getenv
	}
	home := opts.HomeDir
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		} else {
			log.Debugf("discovery: home directory unavailable: %v", err)
		}
	}

	var locs []Location
	seen := make(map[string]bool)

	// Same physical install reachable through two sources is listed once;
	// append order is priority order, so the first (higher-priority)
	// source keeps the entry.
	add := func(src Source, prio int, display, path string) {
		loc := classify(src, prio, display, path, wd)
		key := loc.ResolvedRoot
		if key == "" {
			key = absPath(path, wd)
		}
		if seen[key] {
			return
		}
		seen[key] = true
		log.Debugf("discovery: %s %q -> %s", src, path, loc.Status)
		locs = append(locs, loc)
	}

	if wd != "" {
		add(SourceProject, priorityProject, "Project bmad directory", filepath.Join(wd, "bmad"))
	}
	for _, p := range opts.CLIRoots {
		add(SourceCLI, priorityCLI, "CLI flag --bmad-root", p)
	}
	if v := strings.TrimSpace(getenv("BMAD_ROOT")); v != "" {
		add(SourceEnv, priorityEnv, "BMAD_ROOT environment variable", v)
	}
	if v := strings.TrimSpace(getenv("BMAD_PATHS")); v != "" {
		for _, p := range filepath.SplitList(v) {
			if p = strings.TrimSpace(p); p != "" {
				add(SourceEnv, priorityEnv, "BMAD_PATHS environment variable", p)
			}
		}
	}
	if wd != "" {
		if root, ok := gitRoot(wd); ok && root != wd {
			add(SourceGit, priorityGit, "Repository root bmad directory", filepath.Join(root, "bmad"))
			add(SourceGit, priorityGit, "Repository root src/bmad directory", filepath.Join(root, "src", "bmad"))
		}
	}
	if home != "" {
		add(SourceUser, priorityUser, "User bmad directory", filepath.Join(home, ".bmad"))
	}

	sort.SliceStable(locs, func(i, j int) bool { return locs[i].Priority < locs[j].Priority })

	res := Resolution{Locations: locs, ProjectRoot: wd}
	if home != "" {
		res.UserPath = filepath.Join(home, ".bmad")
	}
	for i := range locs {
		if locs[i].Usable() {
			res.Active = &locs[i]
			break
		}
	}
	if res.Active == nil {
		log.Warnf("discovery: no usable BMAD installation among %d candidates", len(locs))
	}
	return res
}

// Inspect classifies a single candidate path outside the normal source
// chain. Doctor uses it to diagnose an arbitrary directory on request.
func Inspect(path, workDir string) Location {
	return classify(SourceCLI, 0, path, path, workDir)
}

// classify stats one candidate path and fills in a Location. The candidate
// may be the bmad directory itself, a project root, or a repository root;
// the manifest directory is probed at each of those depths.
func classify(src Source, prio int, display, path, wd string) Location {
	loc := Location{
		DisplayName:  display,
		Source:       src,
		Priority:     prio,
		OriginalPath: path,
		Status:       StatusNotFound,
		Version:      VersionUnknown,
	}

	abs := absPath(path, wd)

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			loc.Details = "path does not exist"
			return loc
		}
		loc.Status = StatusInvalid
		loc.Details = fmt.Sprintf("cannot stat: %v", err)
		return loc
	}
	if !info.IsDir() {
		loc.Status = StatusInvalid
		loc.Details = "path is a file, not a directory"
		return loc
	}

	// Resolve symlinks so the same physical install found through two
	// sources dedupes to one Location.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	loc.ResolvedRoot = abs

	for _, probe := range []struct{ root, cfg string }{
		{abs, filepath.Join(abs, "_cfg")},
		{filepath.Join(abs, "bmad"), filepath.Join(abs, "bmad", "_cfg")},
		{filepath.Join(abs, "src", "bmad"), filepath.Join(abs, "src", "bmad", "_cfg")},
	} {
		if isDir(probe.cfg) {
			loc.Status = StatusValid
			loc.ResolvedRoot = probe.root
			loc.ManifestDir = probe.cfg
			loc.Version = detectVersion(probe.cfg)
			return loc
		}
	}

	// Legacy v4 installs carry bmad-core/ or install-manifest.yaml instead
	// of a _cfg manifest directory. Recognized but not loadable.
	if isDir(filepath.Join(abs, "bmad-core")) || isFile(filepath.Join(abs, "install-manifest.yaml")) {
		loc.Status = StatusValid
		loc.Version = VersionV4
		loc.Details = "legacy v4 layout; manifests not loadable"
		return loc
	}

	loc.Status = StatusMissing
	loc.Details = "directory exists but contains no recognizable BMAD structure"
	return loc
}

func detectVersion(cfgDir string) Version {
	if isFile(filepath.Join(cfgDir, "agent-manifest.csv")) {
		return VersionV6
	}
	return VersionUnknown
}

// gitRoot walks up from dir looking for a .git entry.
func gitRoot(dir string) (string, bool) {
	d := dir
	for {
		if _, err := os.Stat(filepath.Join(d, ".git")); err == nil {
			return d, true
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", false
		}
		d = parent
	}
}

func absPath(path, wd string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if wd != "" {
		return filepath.Join(wd, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
