package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bmad-method/bmad-mcp/internal/format"
	"github.com/bmad-method/bmad-mcp/internal/manifest"
	"github.com/bmad-method/bmad-mcp/internal/orchestrator"
)

// registerAgentPrompts exposes every agent in the master manifest as an
// MCP prompt, so clients can surface them as slash commands. Called at
// startup and again after *doctor --reload; AddPrompt replaces prompts
// by name, so a reload refreshes existing entries in place.
func registerAgentPrompts(s *server.MCPServer, orch *orchestrator.Orchestrator, m *manifest.Master) {
	for _, rec := range m.Agents() {
		s.AddPrompt(
			mcp.NewPrompt(promptName(rec.Name),
				mcp.WithPromptDescription(fmt.Sprintf("%s - %s", displayName(rec), agentTitle(rec))),
			),
			agentPromptHandler(orch, rec.Name, displayName(rec), agentTitle(rec)),
		)
	}
}

// promptName namespaces agent prompts under bmad- without doubling the
// prefix for agents already named that way.
func promptName(agent string) string {
	if strings.HasPrefix(agent, "bmad-") {
		return agent
	}
	return "bmad-" + agent
}

func displayName(rec manifest.Record) string {
	if rec.DisplayName != "" {
		return rec.DisplayName
	}
	return rec.Name
}

func agentTitle(rec manifest.Record) string {
	if rec.Title != "" {
		return rec.Title
	}
	return "BMAD Agent"
}

// agentPromptHandler loads the agent through the orchestrator so prompt
// invocations share validation, placeholder rewriting, and history with
// the bmad tool. Load failures still return a prompt result; the error
// text becomes the message body.
func agentPromptHandler(orch *orchestrator.Orchestrator, agent, display, title string) func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		res := orch.Execute(ctx, agent)
		text := format.Render(res)
		description := fmt.Sprintf("BMAD Agent: %s - %s", display, title)
		if !res.Success {
			description = "Error loading agent"
		}
		return &mcp.GetPromptResult{
			Description: description,
			Messages: []mcp.PromptMessage{
				{Role: mcp.RoleUser, Content: mcp.NewTextContent(text)},
			},
		}, nil
	}
}
