package command

import "github.com/bmad-method/bmad-mcp/internal/manifest"

// agentAliases maps shorthand names onto canonical manifest names.
var agentAliases = map[string]string{
	"master": "bmad-master",
}

// ResolveAlias maps an agent shorthand to its manifest name. Fixed
// aliases win; otherwise a name that is absent from the manifest but
// matches exactly one agent named <module>-<name> resolves to that
// agent. Ambiguous prefixes are left alone for validation to report.
func ResolveAlias(name string, m *manifest.Master) string {
	if target, ok := agentAliases[name]; ok {
		return target
	}
	if _, ok := m.Find(manifest.KindAgent, name); ok {
		return name
	}
	if cands := prefixCandidates(name, m); len(cands) == 1 {
		return cands[0]
	}
	return name
}

// prefixCandidates lists agents whose name is <their module>-<name>, in
// manifest order.
func prefixCandidates(name string, m *manifest.Master) []string {
	if name == "" {
		return nil
	}
	var out []string
	for _, a := range m.Agents() {
		if a.Module != "" && a.Name == a.Module+"-"+name {
			out = append(out, a.Name)
		}
	}
	return out
}
