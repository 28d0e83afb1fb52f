package mcp

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/aspects/pkg/aspect"
)

// ListAspectsParams defines parameters for the list_aspects tool.
type ListAspectsParams struct {
	Filter string `json:"filter,omitempty"`
}

// AspectSummary describes an aspect in list_aspects output.
type AspectSummary struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Parent      string   `json:"parent,omitempty"`
	Description string   `json:"description,omitempty"`
	Tastes      []string `json:"tastes"`
	Depth       int      `json:"depth"`
}

// ListAspectsResult contains the result of listing aspects.
type ListAspectsResult struct {
	Error       string          `json:"error,omitempty"`
	Message     string          `json:"message"`
	Aspects     []AspectSummary `json:"aspects"`
	AspectCount int             `json:"aspectCount"`
}

// handleListAspects handles the list_aspects tool call.
func (s *Server) handleListAspects(
	_ context.Context,
	_ *mcp.CallToolRequest,
	args ListAspectsParams,
) (*mcp.CallToolResult, ListAspectsResult, error) {
	_, res := s.current()

	nodes := s.registry.Nodes()

	if args.Filter != "" {
		f, err := s.env.NewFilter(args.Filter)
		if err == nil {
			nodes, err = f.Select(s.registry, res.Values)
		}
		if err != nil {
			return createListAspectsResult(ListAspectsResult{
				Aspects: []AspectSummary{},
				Error:   err.Error(),
			})
		}
	}

	result := ListAspectsResult{
		Aspects:     make([]AspectSummary, 0, len(nodes)),
		AspectCount: len(nodes),
	}
	for _, n := range nodes {
		result.Aspects = append(result.Aspects, s.summarize(n))
	}

	return createListAspectsResult(result)
}

func (s *Server) summarize(n *aspect.Node) AspectSummary {
	a := AspectSummary{
		Name:        n.Name(),
		Path:        n.String(),
		Description: n.Description(),
		Depth:       n.Depth(),
		Tastes:      slices.Sorted(maps.Keys(s.registry.ResolveTastes(n))),
	}
	if a.Tastes == nil {
		a.Tastes = []string{}
	}
	if p := n.Parent(); p != nil {
		a.Parent = p.Name()
	}

	return a
}

// createListAspectsResult creates the MCP tool result from ListAspectsResult.
func createListAspectsResult(result ListAspectsResult) (*mcp.CallToolResult, ListAspectsResult, error) {
	msg := fmt.Sprintf("Found %d aspects.", result.AspectCount)
	if result.Error != "" {
		msg = fmt.Sprintf("INVALID INPUT ERROR: Filter failed: %s. The filter MUST be a CEL expression that evaluates to a bool.", result.Error)
	}

	result.Message = msg

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: msg,
			},
		},
	}, result, nil
}
