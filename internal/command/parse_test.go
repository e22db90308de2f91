package command

import (
	"strings"
	"testing"
)

func TestParseDefaultsToMaster(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		inv, perr := Parse(raw)
		if perr != nil {
			t.Fatalf("Parse(%q) error: %v", raw, perr)
		}
		if inv.Kind != KindAgentLoad || inv.Name != "bmad-master" || !inv.Default {
			t.Errorf("Parse(%q) = %+v, want default bmad-master load", raw, inv)
		}
	}
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
		name string
		args []string
	}{
		{"analyst", KindAgentLoad, "analyst", nil},
		{"  analyst  ", KindAgentLoad, "analyst", nil},
		{"*party-mode", KindWorkflowRun, "party-mode", nil},
		{"*list-agents", KindListAgents, "", nil},
		{"*list-workflows", KindListWorkflows, "", nil},
		{"*list-tasks", KindListTasks, "", nil},
		{"*list-modules", KindListModules, "", nil},
		{"*more", KindMore, "", nil},
		{"*help", KindHelp, "", nil},
		{"*stats", KindStats, "", nil},
		{"*doctor", KindDoctor, "", nil},
		{"*doctor /tmp/bmad --full", KindDoctor, "", []string{"/tmp/bmad", "--full"}},
		{"*init --project", KindInit, "", []string{"--project"}},
		{"*export-master-manifest", KindExport, "", nil},
		{"*export-master-manifest out.json", KindExport, "", []string{"out.json"}},
		{"*dump-master-manifest", KindExport, "", nil},
	}
	for _, tc := range tests {
		inv, perr := Parse(tc.raw)
		if perr != nil {
			t.Errorf("Parse(%q) error: %v", tc.raw, perr)
			continue
		}
		if inv.Kind != tc.kind || inv.Name != tc.name {
			t.Errorf("Parse(%q) = %+v, want kind %s name %q", tc.raw, inv, tc.kind, tc.name)
		}
		if len(inv.Args) != len(tc.args) {
			t.Errorf("Parse(%q) args = %v, want %v", tc.raw, inv.Args, tc.args)
			continue
		}
		for i := range tc.args {
			if inv.Args[i] != tc.args[i] {
				t.Errorf("Parse(%q) args = %v, want %v", tc.raw, inv.Args, tc.args)
			}
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		raw  string
		code string
	}{
		{"analyst architect", "TOO_MANY_ARGUMENTS"},
		{"*list-agents extra", "TOO_MANY_ARGUMENTS"},
		{"*party mode", "TOO_MANY_ARGUMENTS"},
		{"**party-mode", "INVALID_ASTERISK_COUNT"},
		{"**", "INVALID_ASTERISK_COUNT"},
		{"*", "MISSING_WORKFLOW_NAME"},
		{"*   ", "MISSING_WORKFLOW_NAME"},
		{"analyst; rm -rf /", "INVALID_CHARACTERS"},
		{"$(whoami)", "INVALID_CHARACTERS"},
		{"analyst|grep x", "INVALID_CHARACTERS"},
		{"caf\u00e9", "NON_ASCII_CHARACTERS"},
		{"\u5206\u6790", "NON_ASCII_CHARACTERS"},
	}
	for _, tc := range tests {
		_, perr := Parse(tc.raw)
		if perr == nil {
			t.Errorf("Parse(%q) succeeded, want %s", tc.raw, tc.code)
			continue
		}
		if perr.Code != tc.code {
			t.Errorf("Parse(%q) code = %s, want %s", tc.raw, perr.Code, tc.code)
		}
	}
}

func TestParseSecurityScreenRunsFirst(t *testing.T) {
	// Dangerous characters outrank the argument-count error.
	_, perr := Parse("analyst; architect")
	if perr == nil || perr.Code != "INVALID_CHARACTERS" {
		t.Fatalf("perr = %v, want INVALID_CHARACTERS", perr)
	}
	// And the built-in table. A poisoned built-in never dispatches.
	_, perr = Parse("*help`id`")
	if perr == nil || perr.Code != "INVALID_CHARACTERS" {
		t.Fatalf("perr = %v, want INVALID_CHARACTERS", perr)
	}
}

func TestParseDangerousCharListing(t *testing.T) {
	_, perr := Parse("$(whoami)")
	if perr == nil {
		t.Fatal("expected error")
	}
	// Offenders are listed in table order.
	if !strings.Contains(perr.Message, "dangerous characters: $, (, )") {
		t.Errorf("message = %q", perr.Message)
	}
}

func TestParseDoubleAsteriskSuggestion(t *testing.T) {
	_, perr := Parse("**party-mode")
	if perr == nil {
		t.Fatal("expected error")
	}
	if len(perr.Suggestions) != 1 || perr.Suggestions[0] != "*party-mode" {
		t.Errorf("suggestions = %v", perr.Suggestions)
	}

	_, perr = Parse("**")
	if perr == nil {
		t.Fatal("expected error")
	}
	if len(perr.Suggestions) != 0 {
		t.Errorf("bare ** suggestions = %v, want none", perr.Suggestions)
	}
}

func TestParseTooManyArgumentsMessage(t *testing.T) {
	_, perr := Parse("analyst architect")
	if perr == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{
		"You provided: analyst architect",
		"bmad analyst (load analyst agent)",
		"bmad *architect (execute architect workflow)",
	} {
		if !strings.Contains(perr.Message, want) {
			t.Errorf("message missing %q:\n%s", want, perr.Message)
		}
	}
}
