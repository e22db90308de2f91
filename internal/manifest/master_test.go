package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bmad-method/bmad-mcp/internal/discovery"
)

func writeContent(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func validLoc(src discovery.Source, prio int, root string) discovery.Location {
	return discovery.Location{
		DisplayName:  string(src) + " install",
		Source:       src,
		Priority:     prio,
		OriginalPath: root,
		ResolvedRoot: root,
		Status:       discovery.StatusValid,
		ManifestDir:  filepath.Join(root, "_cfg"),
		Version:      discovery.VersionV6,
	}
}

// twoOriginFixture builds a project install and a user install with
// overlapping and disjoint records:
//
//	project: analyst (file present), ghost (file nowhere),
//	         crossref (file only under the user root),
//	         workflow party-mode (file present)
//	user:    analyst (lower-priority duplicate), pm (file present),
//	         plus an orphan file bmm/agents/rogue.md
func twoOriginFixture(t *testing.T) []discovery.Location {
	t.Helper()
	proj := t.TempDir()
	user := t.TempDir()

	writeCSV(t, filepath.Join(proj, "_cfg"), "agent-manifest.csv",
		"name,displayName,title,icon,role,identity,communicationStyle,principles,module,path\n"+
			"analyst,Mary (project),Business Analyst,📊,Analyst,,,,bmm,/bmad/bmm/agents/analyst.md\n"+
			"ghost,Ghost,,,,,,,bmm,/bmad/bmm/agents/ghost.md\n"+
			"crossref,Crossref,,,,,,,bmm,/bmad/bmm/agents/crossref.md\n")
	writeCSV(t, filepath.Join(proj, "_cfg"), "workflow-manifest.csv",
		"name,description,module,path\n"+
			"party-mode,Group chat with all agents,bmm,/bmad/bmm/workflows/party-mode/workflow.yaml\n")
	writeContent(t, filepath.Join(proj, "bmm", "agents", "analyst.md"), "# Analyst\n")
	writeContent(t, filepath.Join(proj, "bmm", "workflows", "party-mode", "workflow.yaml"), "name: party-mode\n")

	writeCSV(t, filepath.Join(user, "_cfg"), "agent-manifest.csv",
		"name,displayName,title,icon,role,identity,communicationStyle,principles,module,path\n"+
			"analyst,Mary (user),Business Analyst,,,,,,bmm,/bmad/bmm/agents/analyst.md\n"+
			"pm,John,Product Manager,,,,,,bmm,/bmad/bmm/agents/pm.md\n")
	writeContent(t, filepath.Join(user, "bmm", "agents", "pm.md"), "# PM\n")
	writeContent(t, filepath.Join(user, "bmm", "agents", "crossref.md"), "# Crossref\n")
	writeContent(t, filepath.Join(user, "bmm", "agents", "rogue.md"), "# Rogue\n")

	return []discovery.Location{
		validLoc(discovery.SourceProject, 1, proj),
		validLoc(discovery.SourceUser, 5, user),
	}
}

func TestBuildMergesByPriority(t *testing.T) {
	m, err := Build(twoOriginFixture(t), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	analyst, ok := m.Find(KindAgent, "analyst")
	if !ok {
		t.Fatal("analyst missing from master manifest")
	}
	if analyst.DisplayName != "Mary (project)" {
		t.Errorf("displayName = %q, want the higher-priority origin's value", analyst.DisplayName)
	}
	if len(analyst.Origins) != 2 {
		t.Errorf("origins = %d, want 2", len(analyst.Origins))
	}
	if analyst.Status != StatusVerified {
		t.Errorf("analyst status = %s, want verified", analyst.Status)
	}
}

func TestBuildVerificationStatuses(t *testing.T) {
	m, err := Build(twoOriginFixture(t), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		kind   Kind
		name   string
		status RecordStatus
	}{
		{KindAgent, "analyst", StatusVerified},
		{KindAgent, "pm", StatusVerified},
		{KindAgent, "ghost", StatusNoFileFound},
		// In the project manifest, file only under the user root:
		// verified by ANY origin, not just the winning one.
		{KindAgent, "crossref", StatusVerified},
		{KindAgent, "rogue", StatusNotInManifest},
		{KindWorkflow, "party-mode", StatusVerified},
	}
	for _, tc := range cases {
		rec, ok := m.Find(tc.kind, tc.name)
		if !ok {
			t.Errorf("%s %s missing from master manifest", tc.kind, tc.name)
			continue
		}
		if rec.Status != tc.status {
			t.Errorf("%s %s status = %s, want %s", tc.kind, tc.name, rec.Status, tc.status)
		}
	}
}

func TestBuildCanonicalOrder(t *testing.T) {
	m, err := Build(twoOriginFixture(t), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	names := m.Names(KindAgent)
	want := []string{"analyst", "crossref", "ghost", "pm", "rogue"}
	if len(names) != len(want) {
		t.Fatalf("agent names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("agent names = %v, want %v", names, want)
		}
	}

	// Kinds group agents first, then workflows, then tasks.
	lastRank := -1
	for _, r := range m.Records {
		rank := kindRank(r.Kind)
		if rank < lastRank {
			t.Fatalf("records not grouped by kind: %+v", m.Records)
		}
		lastRank = rank
	}
}

func TestBuildNoValidOrigins(t *testing.T) {
	locs := []discovery.Location{
		{Source: discovery.SourceProject, Priority: 1, Status: discovery.StatusNotFound},
	}
	if _, err := Build(locs, nil, nil); !errors.Is(err, ErrNoValidOrigins) {
		t.Errorf("err = %v, want ErrNoValidOrigins", err)
	}
}

func TestContentRootsIncludesLegacy(t *testing.T) {
	v4 := discovery.Location{
		Source:       discovery.SourceUser,
		Priority:     5,
		ResolvedRoot: "/tmp/legacy",
		Status:       discovery.StatusValid,
		Version:      discovery.VersionV4,
	}
	missing := discovery.Location{Status: discovery.StatusMissing, ResolvedRoot: "/tmp/x"}
	usable := validLoc(discovery.SourceProject, 1, "/tmp/proj")

	roots := ContentRoots([]discovery.Location{usable, v4, missing})
	if len(roots) != 2 || roots[0] != "/tmp/proj" || roots[1] != "/tmp/legacy" {
		t.Errorf("roots = %v", roots)
	}
}

func TestCacheGetReloadInvalidate(t *testing.T) {
	builds := 0
	fail := false
	cache := NewCache(func() (*Master, error) {
		if fail {
			return nil, errors.New("boom")
		}
		builds++
		return &Master{}, nil
	})

	first, err := cache.Get()
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Get()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Get without Reload must return the identical object")
	}
	if builds != 1 {
		t.Errorf("builds = %d, want 1", builds)
	}

	third, err := cache.Reload()
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("Reload must force a rebuild")
	}
	if builds != 2 {
		t.Errorf("builds = %d, want 2", builds)
	}

	// A failed reload keeps the previous master manifest.
	fail = true
	if _, err := cache.Reload(); err == nil {
		t.Fatal("expected reload failure")
	}
	if got := cache.Cached(); got != third {
		t.Error("failed reload must keep the old master manifest")
	}

	fail = false
	cache.Invalidate()
	if cache.Cached() != nil {
		t.Error("Invalidate must drop the cached master manifest")
	}
	if _, err := cache.Get(); err != nil {
		t.Fatal(err)
	}
	if builds != 3 {
		t.Errorf("builds = %d, want 3 after invalidate", builds)
	}
}
