// Package manifest loads BMAD CSV manifests and merges them across
// discovered installations into the master manifest.
//
// Each installation's _cfg directory carries up to three CSVs: agents,
// workflows, tasks. Manifest absence never crashes anything — a location
// may intentionally ship only some of the three kinds.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmad-method/bmad-mcp/internal/logging"
)

const (
	agentManifestFile    = "agent-manifest.csv"
	workflowManifestFile = "workflow-manifest.csv"
	taskManifestFile     = "task-manifest.csv"
)

// Agent is one row of agent-manifest.csv.
type Agent struct {
	Name               string
	DisplayName        string
	Title              string
	Icon               string
	Role               string
	Identity           string
	CommunicationStyle string
	Principles         string
	Module             string
	Path               string
}

// Workflow is one row of workflow-manifest.csv. Trigger and Standalone
// columns are optional in the CSV.
type Workflow struct {
	Name        string
	Description string
	Trigger     string
	Standalone  bool
	Module      string
	Path        string
}

// Task is one row of task-manifest.csv.
type Task struct {
	Name        string
	DisplayName string
	Description string
	Module      string
	Path        string
}

// Set bundles the three manifests loaded from one _cfg directory.
type Set struct {
	Dir       string
	Agents    []Agent
	Workflows []Workflow
	Tasks     []Task
}

// LoadSet loads the three manifests from dir. A missing CSV contributes an
// empty slice and a warning; an unreadable or garbled CSV contributes what
// parsed before the failure plus an error, but the remaining files still
// load (errors are joined).
func LoadSet(dir string, log *logging.Logger) (Set, error) {
	if log == nil {
		log = logging.Nop()
	}
	set := Set{Dir: dir}
	var errs []error

	rows, found, err := readManifest(filepath.Join(dir, agentManifestFile))
	if err != nil {
		errs = append(errs, err)
	}
	if !found {
		log.Warnf("manifest: %s not found in %s", agentManifestFile, dir)
	}
	for _, r := range rows {
		a := Agent{
			Name:               r["name"],
			DisplayName:        r["displayName"],
			Title:              r["title"],
			Icon:               r["icon"],
			Role:               r["role"],
			Identity:           r["identity"],
			CommunicationStyle: r["communicationStyle"],
			Principles:         r["principles"],
			Module:             r["module"],
			Path:               r["path"],
		}
		if a.Module == "" {
			a.Module = "core"
		}
		set.Agents = append(set.Agents, a)
	}

	rows, found, err = readManifest(filepath.Join(dir, workflowManifestFile))
	if err != nil {
		errs = append(errs, err)
	}
	if !found {
		log.Warnf("manifest: %s not found in %s", workflowManifestFile, dir)
	}
	for _, r := range rows {
		set.Workflows = append(set.Workflows, Workflow{
			Name:        r["name"],
			Description: r["description"],
			Trigger:     r["trigger"],
			Standalone:  parseBool(r["standalone"]),
			Module:      r["module"],
			Path:        r["path"],
		})
	}

	rows, found, err = readManifest(filepath.Join(dir, taskManifestFile))
	if err != nil {
		errs = append(errs, err)
	}
	if !found {
		log.Warnf("manifest: %s not found in %s", taskManifestFile, dir)
	}
	for _, r := range rows {
		set.Tasks = append(set.Tasks, Task{
			Name:        r["name"],
			DisplayName: r["displayName"],
			Description: r["description"],
			Module:      r["module"],
			Path:        r["path"],
		})
	}

	return set, errors.Join(errs...)
}

// AgentByName returns the first agent with the exact name.
func (s Set) AgentByName(name string) (Agent, bool) {
	for _, a := range s.Agents {
		if a.Name == name {
			return a, true
		}
	}
	return Agent{}, false
}

// WorkflowByName returns the first workflow with the exact name.
func (s Set) WorkflowByName(name string) (Workflow, bool) {
	for _, w := range s.Workflows {
		if w.Name == name {
			return w, true
		}
	}
	return Workflow{}, false
}

// TaskByName returns the first task with the exact name.
func (s Set) TaskByName(name string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return Task{}, false
}

// readManifest parses one CSV into header-keyed rows. Reports found=false
// for a missing file. Rows whose fields are all empty are dropped; short
// records are padded rather than rejected; fields are trimmed.
func readManifest(path string) (rows []map[string]string, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("manifest: open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, true, nil
		}
		return nil, true, fmt.Errorf("manifest: read %s header: %w", filepath.Base(path), err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, true, fmt.Errorf("manifest: parse %s: %w", filepath.Base(path), err)
		}
		row := make(map[string]string, len(header))
		empty := true
		for i, col := range header {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			if v != "" {
				empty = false
			}
			row[col] = v
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, true, nil
}

// parseBool reads boolean-like CSV fields: "true" (any case) is true,
// anything else is false.
func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
