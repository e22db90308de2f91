package orchestrator

import (
	"sort"

	"github.com/bmad-method/bmad-mcp/internal/manifest"
)

// listPageSize bounds how many records one listing page shows.
const listPageSize = 20

// listCursor remembers where the last listing stopped so *more can
// continue it.
type listCursor struct {
	listType string
	offset   int
}

// list renders one page of a listing starting at offset and arms the
// continuation cursor when records remain.
func (o *Orchestrator) list(m *manifest.Master, listType string, offset int) *Result {
	p := &ListPayload{Type: listType, Offset: offset}

	if listType == ListTypeModules {
		p.Modules = moduleCounts(m)
		p.Total = len(p.Modules)
		end := clampPage(offset, p.Total)
		p.Modules = p.Modules[offset:end]
		o.armCursor(listType, end, p.Total)
		return &Result{Kind: ResultList, Success: true, List: p}
	}

	records := listRecords(m, listType)
	p.Total = len(records)
	end := clampPage(offset, p.Total)
	p.Records = records[offset:end]
	o.armCursor(listType, end, p.Total)
	return &Result{Kind: ResultList, Success: true, List: p}
}

// more continues the most recent listing. Without one, or past the
// end, it reports that there is nothing to continue.
func (o *Orchestrator) more(m *manifest.Master) *Result {
	o.mu.Lock()
	cur := o.cursor
	o.mu.Unlock()

	if cur != nil {
		// The master may have shrunk under the cursor after a reload.
		if total := listTotal(m, cur.listType); cur.offset < total {
			return o.list(m, cur.listType, cur.offset)
		}
		o.mu.Lock()
		o.cursor = nil
		o.mu.Unlock()
	}
	return &Result{Kind: ResultList, Success: true, List: &ListPayload{NoMore: true}}
}

func listTotal(m *manifest.Master, listType string) int {
	if listType == ListTypeModules {
		return len(moduleCounts(m))
	}
	return len(listRecords(m, listType))
}

func (o *Orchestrator) armCursor(listType string, nextOffset, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if nextOffset < total {
		o.cursor = &listCursor{listType: listType, offset: nextOffset}
	} else {
		o.cursor = nil
	}
}

func clampPage(offset, total int) int {
	end := offset + listPageSize
	if end > total {
		end = total
	}
	return end
}

func listRecords(m *manifest.Master, listType string) []manifest.Record {
	switch listType {
	case ListTypeAgents:
		return m.Agents()
	case ListTypeWorkflows:
		return m.Workflows()
	case ListTypeTasks:
		return m.Tasks()
	}
	return nil
}

// moduleCounts aggregates records per module, sorted by module name.
func moduleCounts(m *manifest.Master) []ModuleCount {
	byModule := make(map[string]*ModuleCount)
	for _, rec := range m.Records {
		module := rec.Module
		if module == "" {
			module = "core"
		}
		mc, ok := byModule[module]
		if !ok {
			mc = &ModuleCount{Module: module}
			byModule[module] = mc
		}
		switch rec.Kind {
		case manifest.KindAgent:
			mc.Agents++
		case manifest.KindWorkflow:
			mc.Workflows++
		case manifest.KindTask:
			mc.Tasks++
		}
	}

	out := make([]ModuleCount, 0, len(byModule))
	for _, mc := range byModule {
		out = append(out, *mc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out
}
