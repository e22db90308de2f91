// Package command parses and validates the bmad command grammar.
//
// Parsing is a pure function over the raw tool input and never touches
// manifests. Validation is a separate phase that checks parsed names
// against the master manifest, with case-mismatch detection and fuzzy
// suggestions for near misses.
package command

import "strings"

// Kind identifies what a parsed invocation asks the server to do.
type Kind string

const (
	KindAgentLoad     Kind = "agent"
	KindWorkflowRun   Kind = "workflow"
	KindListAgents    Kind = "list-agents"
	KindListWorkflows Kind = "list-workflows"
	KindListTasks     Kind = "list-tasks"
	KindListModules   Kind = "list-modules"
	KindMore          Kind = "more"
	KindHelp          Kind = "help"
	KindDoctor        Kind = "doctor"
	KindInit          Kind = "init"
	KindExport        Kind = "export"
	KindStats         Kind = "stats"
)

// Invocation is a successfully parsed command.
type Invocation struct {
	Kind Kind
	// Name is the agent or workflow name for KindAgentLoad and
	// KindWorkflowRun; empty for built-ins.
	Name string
	// Args carries trailing arguments for built-ins that accept them
	// (*doctor, *init and the export pair).
	Args []string
	// Default marks the empty-input fallback to bmad-master.
	Default bool
}

// ParseError is a grammar or validation failure. Message holds the full
// user-facing text; Suggestions the bare replacement names, if any.
type ParseError struct {
	Code        string
	Message     string
	Suggestions []string
}

func (e *ParseError) Error() string { return e.Message }

// dangerousChars are rejected anywhere in a command before any parsing.
// Order matters: error messages list offenders in table order.
var dangerousChars = []rune{';', '&', '|', '$', '`', '<', '>', '\n', '\r', '(', ')', 0}

type builtin struct {
	kind      Kind
	takesArgs bool
}

var builtins = map[string]builtin{
	"*list-agents":            {KindListAgents, false},
	"*list-workflows":         {KindListWorkflows, false},
	"*list-tasks":             {KindListTasks, false},
	"*list-modules":           {KindListModules, false},
	"*more":                   {KindMore, false},
	"*help":                   {KindHelp, false},
	"*stats":                  {KindStats, false},
	"*doctor":                 {KindDoctor, true},
	"*init":                   {KindInit, true},
	"*export-master-manifest": {KindExport, true},
	"*dump-master-manifest":   {KindExport, true},
}

// Parse turns raw tool input into an Invocation. Exactly one of the
// returned values is set. Ordering: trim, empty default, security screen
// over the whole command, built-in table, argument split, asterisk
// shapes, bare agent name.
func Parse(raw string) (Invocation, *ParseError) {
	s := strings.TrimSpace(raw)

	if s == "" {
		return Invocation{Kind: KindAgentLoad, Name: "bmad-master", Default: true}, nil
	}

	if perr := screen(s); perr != nil {
		return Invocation{}, perr
	}

	fields := strings.Fields(s)
	if b, ok := builtins[fields[0]]; ok {
		if b.takesArgs {
			return Invocation{Kind: b.kind, Args: fields[1:]}, nil
		}
		if len(fields) > 1 {
			return Invocation{}, tooManyArguments(fields)
		}
		return Invocation{Kind: b.kind}, nil
	}
	if len(fields) > 1 {
		return Invocation{}, tooManyArguments(fields)
	}

	if strings.HasPrefix(s, "**") {
		rest := s[2:]
		perr := &ParseError{
			Code:    "INVALID_ASTERISK_COUNT",
			Message: doubleAsteriskMessage(rest),
		}
		if rest != "" {
			perr.Suggestions = []string{"*" + rest}
		}
		return Invocation{}, perr
	}
	if strings.HasPrefix(s, "*") {
		name := strings.TrimSpace(s[1:])
		if name == "" {
			return Invocation{}, &ParseError{
				Code:    "MISSING_WORKFLOW_NAME",
				Message: missingWorkflowNameMessage(),
			}
		}
		return Invocation{Kind: KindWorkflowRun, Name: name}, nil
	}

	return Invocation{Kind: KindAgentLoad, Name: s}, nil
}

// screen rejects dangerous and non-ASCII characters before the grammar
// looks at anything else.
func screen(s string) *ParseError {
	var found []string
	for _, c := range dangerousChars {
		if strings.ContainsRune(s, c) {
			found = append(found, string(c))
		}
	}
	if len(found) > 0 {
		return &ParseError{
			Code:    "INVALID_CHARACTERS",
			Message: dangerousCharsMessage(found),
		}
	}

	var nonASCII []string
	for _, r := range s {
		if r > 127 {
			nonASCII = append(nonASCII, string(r))
		}
	}
	if len(nonASCII) > 0 {
		return &ParseError{
			Code:    "NON_ASCII_CHARACTERS",
			Message: nonASCIIMessage(nonASCII),
		}
	}
	return nil
}

func tooManyArguments(parts []string) *ParseError {
	return &ParseError{
		Code:    "TOO_MANY_ARGUMENTS",
		Message: tooManyArgsMessage(parts),
	}
}
