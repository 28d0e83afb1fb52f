package mcp

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/config"
)

// ResolveTastesParams defines parameters for the resolve_tastes tool.
type ResolveTastesParams struct {
	Tastes map[string]any `json:"tastes,omitempty"`
	Aspect string         `json:"aspect"`
}

// ResolveTastesResult contains the effective tastes of an aspect.
type ResolveTastesResult struct {
	Values      map[string]any `json:"values,omitempty"`
	Aspect      string         `json:"aspect,omitempty"`
	Message     string         `json:"message"`
	Problems    []string       `json:"problems,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Found       bool           `json:"found"`
}

// handleResolveTastes handles the resolve_tastes tool call.
func (s *Server) handleResolveTastes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	args ResolveTastesParams,
) (*mcp.CallToolResult, ResolveTastesResult, error) {
	base, _ := s.current()

	n, suggestions, err := s.lookup(args.Aspect)
	if err != nil {
		return nil, ResolveTastesResult{}, err
	}
	if n == nil {
		return createResolveTastesResult(ResolveTastesResult{Suggestions: suggestions}, args)
	}

	cfg := overlay(s.registry, base, n, args.Tastes)
	res := config.Resolve(ctx, s.registry, cfg)

	result := ResolveTastesResult{
		Found:  true,
		Aspect: n.String(),
		Values: map[string]any{},
	}
	for name, v := range res.Values(n) {
		result.Values[name] = v.Interface()
	}
	for _, p := range res.ProblemsFor(n) {
		result.Problems = append(result.Problems, p.Error())
	}

	return createResolveTastesResult(result, args)
}

// overlay returns a copy of base with tastes applied to n. Entries of base
// that address n under another key are folded into the new entry, so that
// tastes take precedence over them.
func overlay(r *aspect.Registry, base *tasteconfigs.TasteConfig, n *aspect.Node, tastes map[string]any) *tasteconfigs.TasteConfig {
	cfg := tasteconfigs.New()
	entry := map[string]any{}

	if base != nil {
		maps.Copy(cfg.Tastes, base.Tastes)

		for _, key := range slices.Sorted(maps.Keys(base.Aspects)) {
			target, err := r.LookupPath(key)
			if err == nil && target == n {
				maps.Copy(entry, base.Aspects[key])
				continue
			}

			cfg.Aspects[key] = base.Aspects[key]
		}
	}

	for name, v := range tastes {
		entry[name] = fromJSON(v)
	}

	if len(entry) > 0 {
		cfg.Aspects[n.String()] = entry
	}

	return cfg
}

// createResolveTastesResult creates the MCP tool result from ResolveTastesResult.
func createResolveTastesResult(result ResolveTastesResult, params ResolveTastesParams) (*mcp.CallToolResult, ResolveTastesResult, error) {
	msg := notFoundMessage(params.Aspect, result.Suggestions)
	if result.Found {
		msg = fmt.Sprintf("Resolved %d tastes for %s.", len(result.Values), result.Aspect)
		if len(result.Problems) > 0 {
			msg += fmt.Sprintf(" %d overrides were rejected and use their defaults.", len(result.Problems))
		}
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
