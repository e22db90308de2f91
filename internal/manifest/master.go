package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmad-method/bmad-mcp/internal/content"
	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/logging"
)

// ErrNoValidOrigins is returned by Build when not a single discovered
// location can supply manifests.
var ErrNoValidOrigins = errors.New("manifest: no valid origins")

// Kind distinguishes master manifest record types.
type Kind string

const (
	KindAgent    Kind = "agent"
	KindWorkflow Kind = "workflow"
	KindTask     Kind = "task"
)

// RecordStatus classifies a master record against on-disk content.
type RecordStatus string

const (
	// StatusVerified: in some origin's manifest AND the file exists under
	// some origin's root (not necessarily the same origin).
	StatusVerified RecordStatus = "verified"
	// StatusNotInManifest: a content file on disk that no origin's
	// manifest references (an orphan).
	StatusNotInManifest RecordStatus = "not-in-manifest"
	// StatusNoFileFound: manifest entry whose file exists nowhere.
	StatusNoFileFound RecordStatus = "no-file-found"
)

// Origin ties a record occurrence to the location that provided it.
type Origin struct {
	Source      discovery.Source `json:"source"`
	Priority    int              `json:"priority"`
	Root        string           `json:"root"`
	ManifestDir string           `json:"manifestDir,omitempty"`
	Path        string           `json:"path,omitempty"` // path column as written in that origin's CSV
}

// Record is one merged master manifest entry. The highest-priority origin
// supplies the descriptive fields; Origins lists every occurrence.
type Record struct {
	Kind               Kind         `json:"kind"`
	Name               string       `json:"name"`
	DisplayName        string       `json:"displayName,omitempty"`
	Title              string       `json:"title,omitempty"`
	Description        string       `json:"description,omitempty"`
	Trigger            string       `json:"trigger,omitempty"`
	Standalone         bool         `json:"standalone,omitempty"`
	Icon               string       `json:"icon,omitempty"`
	Role               string       `json:"role,omitempty"`
	Identity           string       `json:"identity,omitempty"`
	CommunicationStyle string       `json:"communicationStyle,omitempty"`
	Principles         string       `json:"principles,omitempty"`
	Module             string       `json:"module"`
	Path               string       `json:"path,omitempty"`
	Status             RecordStatus `json:"status"`
	Origins            []Origin     `json:"origins"`
}

// Master is the cross-origin merged manifest plus the discovery report it
// was built from. Immutable once built; replaced wholesale on reload.
type Master struct {
	BuiltAt   time.Time            `json:"builtAt"`
	Locations []discovery.Location `json:"locations"`
	Records   []Record             `json:"records"`

	reader *content.Reader
}

// Reader returns the content chain matching this master manifest's roots.
func (m *Master) Reader() *content.Reader {
	return m.reader
}

// Agents returns the agent records in canonical order.
func (m *Master) Agents() []Record { return m.byKind(KindAgent) }

// Workflows returns the workflow records in canonical order.
func (m *Master) Workflows() []Record { return m.byKind(KindWorkflow) }

// Tasks returns the task records in canonical order.
func (m *Master) Tasks() []Record { return m.byKind(KindTask) }

func (m *Master) byKind(k Kind) []Record {
	var out []Record
	for _, r := range m.Records {
		if r.Kind == k {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the first record of the kind with the exact name, in
// canonical order (same-name records from two modules resolve to the
// lexically first module).
func (m *Master) Find(kind Kind, name string) (Record, bool) {
	for _, r := range m.Records {
		if r.Kind == kind && r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// Names returns the record names of one kind in canonical order, adjacent
// duplicates (same name from several modules) collapsed.
func (m *Master) Names(kind Kind) []string {
	var out []string
	for _, r := range m.Records {
		if r.Kind != kind {
			continue
		}
		if n := len(out); n > 0 && out[n-1] == r.Name {
			continue
		}
		out = append(out, r.Name)
	}
	return out
}

// Counts returns per-kind record totals.
func (m *Master) Counts() (agents, workflows, tasks int) {
	for _, r := range m.Records {
		switch r.Kind {
		case KindAgent:
			agents++
		case KindWorkflow:
			workflows++
		case KindTask:
			tasks++
		}
	}
	return
}

// ContentRoots returns the serveable roots of a discovery pass in priority
// order. Legacy v4 roots carry no manifests but can still satisfy file
// probes, so they are included.
func ContentRoots(locs []discovery.Location) []string {
	var roots []string
	for _, l := range locs {
		if l.Status == discovery.StatusValid && l.ResolvedRoot != "" {
			roots = append(roots, l.ResolvedRoot)
		}
	}
	return roots
}

// Build merges every usable location's manifests into a master manifest,
// scans all valid roots for orphan content files, and verifies each record
// against the content chain. Locations must already be in priority order
// (discovery guarantees this).
func Build(locs []discovery.Location, reader *content.Reader, log *logging.Logger) (*Master, error) {
	if log == nil {
		log = logging.Nop()
	}

	usable := 0
	for _, l := range locs {
		if l.Usable() {
			usable++
		}
	}
	if usable == 0 {
		return nil, ErrNoValidOrigins
	}
	if reader == nil {
		reader = content.NewReader(ContentRoots(locs)...)
	}

	type key struct {
		kind   Kind
		module string
		name   string
	}
	merged := make(map[key]*Record)
	var order []key

	add := func(k key, rec Record, origin Origin) {
		if existing, ok := merged[k]; ok {
			existing.Origins = append(existing.Origins, origin)
			return
		}
		rec.Origins = []Origin{origin}
		merged[k] = &rec
		order = append(order, k)
	}

	for _, loc := range locs {
		if !loc.Usable() {
			continue
		}
		set, err := LoadSet(loc.ManifestDir, log)
		if err != nil {
			log.Warnf("manifest: %s: %v", loc.DisplayName, err)
		}
		base := Origin{
			Source:      loc.Source,
			Priority:    loc.Priority,
			Root:        loc.ResolvedRoot,
			ManifestDir: loc.ManifestDir,
		}
		for _, a := range set.Agents {
			o := base
			o.Path = a.Path
			add(key{KindAgent, a.Module, a.Name}, Record{
				Kind:               KindAgent,
				Name:               a.Name,
				DisplayName:        a.DisplayName,
				Title:              a.Title,
				Icon:               a.Icon,
				Role:               a.Role,
				Identity:           a.Identity,
				CommunicationStyle: a.CommunicationStyle,
				Principles:         a.Principles,
				Module:             a.Module,
				Path:               a.Path,
			}, o)
		}
		for _, w := range set.Workflows {
			o := base
			o.Path = w.Path
			add(key{KindWorkflow, w.Module, w.Name}, Record{
				Kind:        KindWorkflow,
				Name:        w.Name,
				Description: w.Description,
				Trigger:     w.Trigger,
				Standalone:  w.Standalone,
				Module:      w.Module,
				Path:        w.Path,
			}, o)
		}
		for _, tk := range set.Tasks {
			o := base
			o.Path = tk.Path
			add(key{KindTask, tk.Module, tk.Name}, Record{
				Kind:        KindTask,
				Name:        tk.Name,
				DisplayName: tk.DisplayName,
				Description: tk.Description,
				Module:      tk.Module,
				Path:        tk.Path,
			}, o)
		}
	}

	// Orphan scan: content files on disk that no manifest references.
	for _, loc := range locs {
		if loc.Status != discovery.StatusValid || loc.ResolvedRoot == "" {
			continue
		}
		base := Origin{
			Source:      loc.Source,
			Priority:    loc.Priority,
			Root:        loc.ResolvedRoot,
			ManifestDir: loc.ManifestDir,
		}
		for _, f := range scanContent(loc.ResolvedRoot) {
			k := key{f.kind, f.module, f.name}
			o := base
			o.Path = f.rel
			if rec, ok := merged[k]; ok {
				if rec.Status == StatusNotInManifest {
					rec.Origins = append(rec.Origins, o)
				}
				continue
			}
			merged[k] = &Record{
				Kind:        f.kind,
				Name:        f.name,
				DisplayName: f.name,
				Module:      f.module,
				Path:        f.rel,
				Status:      StatusNotInManifest,
				Origins:     []Origin{o},
			}
			order = append(order, k)
		}
	}

	// Verification: a record is verified when ANY origin's path resolves
	// through the chain, not necessarily the origin that won the merge.
	for _, k := range order {
		rec := merged[k]
		if rec.Status == StatusNotInManifest {
			continue
		}
		rec.Status = StatusNoFileFound
		for _, o := range rec.Origins {
			if o.Path != "" && reader.Exists(o.Path) {
				rec.Status = StatusVerified
				break
			}
		}
	}

	records := make([]Record, 0, len(order))
	for _, k := range order {
		records = append(records, *merged[k])
	}
	sortRecords(records)

	m := &Master{
		BuiltAt:   time.Now(),
		Locations: append([]discovery.Location(nil), locs...),
		Records:   records,
		reader:    reader,
	}
	a, w, tk := m.Counts()
	log.Infof("manifest: master built: %d agents, %d workflows, %d tasks across %d origins", a, w, tk, usable)
	return m, nil
}

// sortRecords applies the canonical ordering every listing shares:
// kind (agents, workflows, tasks), then name, then module, byte order.
func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Kind != records[j].Kind {
			return kindRank(records[i].Kind) < kindRank(records[j].Kind)
		}
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].Module < records[j].Module
	})
}

func kindRank(k Kind) int {
	switch k {
	case KindAgent:
		return 0
	case KindWorkflow:
		return 1
	default:
		return 2
	}
}

type contentFile struct {
	kind   Kind
	module string
	name   string
	rel    string
}

// scanContent walks the conventional content layout under one root:
// <module>/agents/*.md, <module>/workflows/<name>/workflow.yaml (or flat
// <module>/workflows/<name>.yaml), <module>/tasks/*.md. Unreadable
// directories are skipped silently.
func scanContent(root string) []contentFile {
	var files []contentFile

	modules, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, mod := range modules {
		if !mod.IsDir() {
			continue
		}
		name := mod.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		modDir := filepath.Join(root, name)

		for _, e := range readDirNames(filepath.Join(modDir, "agents")) {
			if strings.HasSuffix(e, ".md") {
				files = append(files, contentFile{
					kind:   KindAgent,
					module: name,
					name:   strings.TrimSuffix(e, ".md"),
					rel:    filepath.ToSlash(filepath.Join(name, "agents", e)),
				})
			}
		}
		wfDir := filepath.Join(modDir, "workflows")
		if entries, err := os.ReadDir(wfDir); err == nil {
			for _, e := range entries {
				if e.IsDir() {
					wf := filepath.Join(wfDir, e.Name(), "workflow.yaml")
					if fi, err := os.Stat(wf); err == nil && fi.Mode().IsRegular() {
						files = append(files, contentFile{
							kind:   KindWorkflow,
							module: name,
							name:   e.Name(),
							rel:    filepath.ToSlash(filepath.Join(name, "workflows", e.Name(), "workflow.yaml")),
						})
					}
					continue
				}
				if strings.HasSuffix(e.Name(), ".yaml") {
					files = append(files, contentFile{
						kind:   KindWorkflow,
						module: name,
						name:   strings.TrimSuffix(e.Name(), ".yaml"),
						rel:    filepath.ToSlash(filepath.Join(name, "workflows", e.Name())),
					})
				}
			}
		}
		for _, e := range readDirNames(filepath.Join(modDir, "tasks")) {
			if strings.HasSuffix(e, ".md") {
				files = append(files, contentFile{
					kind:   KindTask,
					module: name,
					name:   strings.TrimSuffix(e, ".md"),
					rel:    filepath.ToSlash(filepath.Join(name, "tasks", e)),
				})
			}
		}
	}
	return files
}

func readDirNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
