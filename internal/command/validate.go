package command

import (
	"regexp"
	"strings"

	"github.com/bmad-method/bmad-mcp/internal/manifest"
)

var (
	agentNamePattern    = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)
	workflowNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

const (
	minNameLength = 2
	maxNameLength = 50
)

// Validate checks a parsed invocation's name against the master
// manifest. Built-ins carry no name and always pass. Aliases must be
// resolved before calling Validate.
func Validate(inv Invocation, m *manifest.Master) *ParseError {
	switch inv.Kind {
	case KindAgentLoad:
		return validateAgent(inv.Name, m)
	case KindWorkflowRun:
		return validateWorkflow(inv.Name, m)
	}
	return nil
}

func validateAgent(name string, m *manifest.Master) *ParseError {
	if len(name) < minNameLength {
		return &ParseError{
			Code:    "NAME_TOO_SHORT",
			Message: nameTooShortMessage("Agent", name, availableAgents(m)),
		}
	}
	if len(name) > maxNameLength {
		return &ParseError{
			Code:    "NAME_TOO_LONG",
			Message: nameTooLongMessage(len(name)),
		}
	}
	if !agentNamePattern.MatchString(name) {
		return &ParseError{
			Code:    "INVALID_NAME_FORMAT",
			Message: invalidAgentFormatMessage(name),
		}
	}
	if _, ok := m.Find(manifest.KindAgent, name); ok {
		return nil
	}
	// A bare name that is actually a workflow means the asterisk was
	// forgotten, not that the agent is unknown.
	if _, ok := m.Find(manifest.KindWorkflow, name); ok {
		return &ParseError{
			Code:        "MISSING_ASTERISK",
			Message:     missingAsteriskMessage(name),
			Suggestions: []string{"*" + name},
		}
	}
	if correct, ok := caseMismatch(name, m.Names(manifest.KindAgent)); ok {
		return &ParseError{
			Code:        "CASE_MISMATCH",
			Message:     caseMismatchMessage("Agent", name, correct),
			Suggestions: []string{correct},
		}
	}
	suggestions := prefixCandidates(name, m)
	if len(suggestions) < 2 {
		suggestions = nil
		if best, ok := closestMatch(name, m.Names(manifest.KindAgent)); ok {
			suggestions = []string{best}
		}
	}
	return &ParseError{
		Code:        "UNKNOWN_AGENT",
		Message:     unknownAgentMessage(name, suggestions, m),
		Suggestions: suggestions,
	}
}

func validateWorkflow(name string, m *manifest.Master) *ParseError {
	if len(name) < minNameLength {
		return &ParseError{
			Code:    "NAME_TOO_SHORT",
			Message: nameTooShortMessage("Workflow", name, availableWorkflows(m)),
		}
	}
	if len(name) > maxNameLength {
		return &ParseError{
			Code:    "NAME_TOO_LONG",
			Message: nameTooLongMessage(len(name)),
		}
	}
	if !workflowNamePattern.MatchString(name) {
		return &ParseError{
			Code:    "INVALID_NAME_FORMAT",
			Message: invalidWorkflowFormatMessage(name),
		}
	}
	if _, ok := m.Find(manifest.KindWorkflow, name); ok {
		return nil
	}
	if correct, ok := caseMismatch(name, m.Names(manifest.KindWorkflow)); ok {
		return &ParseError{
			Code:        "CASE_MISMATCH",
			Message:     caseMismatchMessage("Workflow", name, correct),
			Suggestions: []string{correct},
		}
	}
	var suggestions []string
	if best, ok := closestMatch(name, m.Names(manifest.KindWorkflow)); ok {
		suggestions = []string{best}
	}
	return &ParseError{
		Code:        "UNKNOWN_WORKFLOW",
		Message:     unknownWorkflowMessage(name, suggestions, m),
		Suggestions: suggestions,
	}
}

// caseMismatch reports a manifest name that equals the input ignoring
// case but differs exactly.
func caseMismatch(name string, valid []string) (string, bool) {
	lower := strings.ToLower(name)
	for _, v := range valid {
		if strings.ToLower(v) == lower && v != name {
			return v, true
		}
	}
	return "", false
}
