package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const sampleAgentCSV = `name,displayName,title,icon,role,identity,communicationStyle,principles,module,path
analyst,Mary,Business Analyst,📊,Strategic analyst,Senior market analyst,Professional and data-driven,Evidence over opinion,bmm,/bmad/bmm/agents/analyst.md
architect,Winston,Architect,🏗️,System architect,Principal architect,Calm and measured,Boring is beautiful,bmm,/bmad/bmm/agents/architect.md
helper,Helper,,,,,,,,"/bmad/core/agents/helper.md"
`

const sampleWorkflowCSV = `name,description,trigger,standalone,module,path
party-mode,"Group chat with all agents, in one room",party,true,bmm,/bmad/bmm/workflows/party-mode/workflow.yaml
brainstorming,Structured ideation session,brainstorm,FALSE,bmm,/bmad/bmm/workflows/brainstorming/workflow.yaml
`

const sampleTaskCSV = `name,displayName,description,module,path
code-review,Code Review,Review code for issues,core,/bmad/core/tasks/code-review.md
`

func TestLoadSetParsesAllThree(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "agent-manifest.csv", sampleAgentCSV)
	writeCSV(t, dir, "workflow-manifest.csv", sampleWorkflowCSV)
	writeCSV(t, dir, "task-manifest.csv", sampleTaskCSV)

	set, err := LoadSet(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(set.Agents) != 3 {
		t.Fatalf("agents = %d, want 3", len(set.Agents))
	}
	a := set.Agents[0]
	if a.Name != "analyst" || a.DisplayName != "Mary" || a.Title != "Business Analyst" {
		t.Errorf("first agent mismatch: %+v", a)
	}
	if a.Module != "bmm" || a.Path != "/bmad/bmm/agents/analyst.md" {
		t.Errorf("agent module/path mismatch: %+v", a)
	}
	if a.Role != "Strategic analyst" || a.CommunicationStyle != "Professional and data-driven" {
		t.Errorf("agent detail columns mismatch: %+v", a)
	}

	// Blank module defaults to core.
	if set.Agents[2].Module != "core" {
		t.Errorf("blank module = %q, want core", set.Agents[2].Module)
	}

	if len(set.Workflows) != 2 {
		t.Fatalf("workflows = %d, want 2", len(set.Workflows))
	}
	w := set.Workflows[0]
	if w.Name != "party-mode" || w.Trigger != "party" || !w.Standalone {
		t.Errorf("first workflow mismatch: %+v", w)
	}
	if w.Description != "Group chat with all agents, in one room" {
		t.Errorf("quoted description mangled: %q", w.Description)
	}
	if set.Workflows[1].Standalone {
		t.Error("FALSE should parse as false")
	}

	if len(set.Tasks) != 1 || set.Tasks[0].Name != "code-review" {
		t.Errorf("tasks mismatch: %+v", set.Tasks)
	}
}

func TestLoadSetMissingFilesAreEmpty(t *testing.T) {
	set, err := LoadSet(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("missing manifests must not error, got %v", err)
	}
	if len(set.Agents)+len(set.Workflows)+len(set.Tasks) != 0 {
		t.Errorf("expected empty set, got %+v", set)
	}
}

func TestLoadSetHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "agent-manifest.csv", "name,displayName,module,path\n")

	set, err := LoadSet(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Agents) != 0 {
		t.Errorf("agents = %d, want 0", len(set.Agents))
	}
}

func TestLoadSetSkipsBlankAndPadsShortRows(t *testing.T) {
	dir := t.TempDir()
	csv := "name,displayName,description,module,path\n" +
		",,,,\n" +
		"quick,Quick Task\n" +
		"full,Full Task,Does everything,core,/bmad/core/tasks/full.md\n"
	writeCSV(t, dir, "task-manifest.csv", csv)

	set, err := LoadSet(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2 (blank row dropped): %+v", len(set.Tasks), set.Tasks)
	}
	if set.Tasks[0].Name != "quick" || set.Tasks[0].Description != "" {
		t.Errorf("short row not padded: %+v", set.Tasks[0])
	}
}

func TestLoadSetGarbledFileStillLoadsOthers(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "agent-manifest.csv", sampleAgentCSV)
	writeCSV(t, dir, "workflow-manifest.csv", "name,description,module,path\n\"unclosed,x,y,z\n")

	set, err := LoadSet(dir, nil)
	if err == nil {
		t.Fatal("expected an error for the garbled workflow manifest")
	}
	if len(set.Agents) != 3 {
		t.Errorf("agents should still load, got %d", len(set.Agents))
	}
}

func TestSetLookupHelpers(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "agent-manifest.csv", sampleAgentCSV)
	writeCSV(t, dir, "workflow-manifest.csv", sampleWorkflowCSV)
	writeCSV(t, dir, "task-manifest.csv", sampleTaskCSV)

	set, err := LoadSet(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	if a, ok := set.AgentByName("architect"); !ok || a.DisplayName != "Winston" {
		t.Errorf("AgentByName(architect) = %+v, %v", a, ok)
	}
	if _, ok := set.AgentByName("Architect"); ok {
		t.Error("lookups must be case-sensitive")
	}
	if w, ok := set.WorkflowByName("brainstorming"); !ok || w.Trigger != "brainstorm" {
		t.Errorf("WorkflowByName(brainstorming) = %+v, %v", w, ok)
	}
	if _, ok := set.TaskByName("nope"); ok {
		t.Error("unknown task lookup should miss")
	}
}

func TestParseBool(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{" True ", true},
		{"false", false},
		{"yes", false},
		{"1", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := parseBool(tc.in); got != tc.want {
			t.Errorf("parseBool(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
