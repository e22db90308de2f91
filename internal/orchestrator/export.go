package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/manifest"
)

// exportDoc is the JSON shape of a master manifest export. The same
// document backs the bmad://master-manifest resource.
type exportDoc struct {
	BuiltAt   time.Time            `json:"builtAt"`
	Counts    map[string]int       `json:"counts"`
	Locations []discovery.Location `json:"locations"`
	Records   []manifest.Record    `json:"records"`
}

// MarshalMaster serializes a master manifest to the export document.
func MarshalMaster(m *manifest.Master) ([]byte, error) {
	agents, workflows, tasks := m.Counts()
	doc := exportDoc{
		BuiltAt: m.BuiltAt,
		Counts: map[string]int{
			"agents":    agents,
			"workflows": workflows,
			"tasks":     tasks,
		},
		Locations: m.Locations,
		Records:   m.Records,
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: marshal master manifest: %w", err)
	}
	return b, nil
}

// export emits the master manifest as JSON, inline or to a file.
func (o *Orchestrator) export(m *manifest.Master, args []string) *Result {
	b, err := MarshalMaster(m)
	if err != nil {
		return errorResult("EXPORT_MARSHAL", fmt.Sprintf("Error: Export failed\n\n%v", err), nil, 1)
	}

	p := &ExportPayload{}
	p.Agents, p.Workflows, p.Tasks = m.Counts()

	if len(args) == 0 {
		p.JSON = string(b)
		return &Result{Kind: ResultExport, Success: true, Export: p}
	}

	target := args[0]
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	if err := os.WriteFile(abs, b, 0o644); err != nil {
		return errorResult("EXPORT_IO",
			fmt.Sprintf("Error: Export failed\n\nCould not write the master manifest to '%s': %v", target, err), nil, 1)
	}
	p.Path = abs
	o.log.Infof("orchestrator: exported master manifest to %s", abs)
	return &Result{Kind: ResultExport, Success: true, Export: p}
}
