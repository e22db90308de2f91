package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bmad-method/bmad-mcp/internal/discovery"
	"github.com/bmad-method/bmad-mcp/internal/manifest"
	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

// registerResources exposes read-only JSON views of the server state:
// the merged master manifest and the discovery chain that produced it.
func registerResources(s *server.MCPServer, cache *manifest.Cache, disc discovery.Options) {
	s.AddResource(
		mcp.NewResource("bmad://master-manifest", "BMAD Master Manifest",
			mcp.WithResourceDescription("Merged agent, workflow, and task manifest across all discovered BMAD installations"),
			mcp.WithMIMEType("application/json"),
		),
		func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			m, err := cache.Get()
			if err != nil {
				return nil, fmt.Errorf("master manifest: %w", err)
			}
			data, err := orchestrator.MarshalMaster(m)
			if err != nil {
				return nil, err
			}
			return jsonContents(req.Params.URI, data), nil
		},
	)

	s.AddResource(
		mcp.NewResource("bmad://locations", "BMAD Search Locations",
			mcp.WithResourceDescription("Every path searched for a BMAD installation, with per-location status and the active root"),
			mcp.WithMIMEType("application/json"),
		),
		func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			res := discovery.Resolve(disc)
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("locations: %w", err)
			}
			return jsonContents(req.Params.URI, data), nil
		},
	)
}

func jsonContents(uri string, data []byte) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}
}
