package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/catalog"
)

// GetAspectParams defines parameters for the get_aspect tool.
type GetAspectParams struct {
	Aspect string `json:"aspect"`
}

// TasteDetails describes a taste in effect for an aspect.
type TasteDetails struct {
	Value       any    `json:"value"`
	Default     any    `json:"default"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	DeclaredIn  string `json:"declaredIn"`
	Allowed     []any  `json:"allowed"`
}

// AspectDetails contains the documentation of an aspect.
type AspectDetails struct {
	Docs        *catalog.Docs  `json:"docs,omitempty"`
	Name        string         `json:"name"`
	Path        string         `json:"path"`
	Description string         `json:"description,omitempty"`
	Tastes      []TasteDetails `json:"tastes"`
	Subaspects  []string       `json:"subaspects"`
}

// GetAspectResult contains the result of getting an aspect.
type GetAspectResult struct {
	Aspect      *AspectDetails `json:"aspect,omitempty"`
	Message     string         `json:"message"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Found       bool           `json:"found"`
}

// handleGetAspect handles the get_aspect tool call.
func (s *Server) handleGetAspect(
	_ context.Context,
	_ *mcp.CallToolRequest,
	args GetAspectParams,
) (*mcp.CallToolResult, GetAspectResult, error) {
	_, res := s.current()

	n, suggestions, err := s.lookup(args.Aspect)
	if err != nil {
		return nil, GetAspectResult{}, err
	}
	if n == nil {
		return createGetAspectResult(GetAspectResult{Suggestions: suggestions}, args)
	}

	a := catalog.Describe(s.registry, n, catalog.WithResolution(res))

	details := &AspectDetails{
		Docs:        a.Docs,
		Name:        a.Name,
		Path:        a.Path,
		Description: a.Description,
		Tastes:      make([]TasteDetails, 0, len(a.Resolved)),
		Subaspects:  make([]string, 0, len(n.Children())),
	}
	for _, t := range a.Resolved {
		details.Tastes = append(details.Tastes, newTasteDetails(t))
	}
	for _, c := range n.Children() {
		details.Subaspects = append(details.Subaspects, c.Name())
	}

	return createGetAspectResult(GetAspectResult{Found: true, Aspect: details}, args)
}

func newTasteDetails(t catalog.ResolvedTaste) TasteDetails {
	return TasteDetails{
		Value:       t.Value,
		Default:     t.Default,
		Name:        t.Name,
		Description: t.Description,
		Kind:        t.Kind,
		DeclaredIn:  t.DeclaredIn,
		Allowed:     t.Allowed,
	}
}

// lookup finds the aspect addressed by a name or path. Unknown aspects
// yield a nil node and suggestions rather than an error.
func (s *Server) lookup(key string) (*aspect.Node, []string, error) {
	n, err := s.registry.LookupPath(key)
	if err == nil {
		return n, nil, nil
	}

	var nfErr *aspect.NotFoundError
	if errors.As(err, &nfErr) {
		return nil, nfErr.Suggestions, nil
	}

	return nil, nil, fmt.Errorf("look up aspect %q: %w", key, err)
}

func notFoundMessage(key string, suggestions []string) string {
	msg := fmt.Sprintf("INVALID INPUT ERROR: Aspect %q not found.", key)
	if len(suggestions) > 0 {
		msg += fmt.Sprintf(" Did you mean %s?", strings.Join(suggestions, ", "))
	}

	return msg + " Use an EXACT name or path from the list_aspects tool."
}

// createGetAspectResult creates the MCP tool result from GetAspectResult.
func createGetAspectResult(result GetAspectResult, params GetAspectParams) (*mcp.CallToolResult, GetAspectResult, error) {
	msg := notFoundMessage(params.Aspect, result.Suggestions)
	if result.Found {
		msg = fmt.Sprintf("Found aspect %s.", result.Aspect.Path)
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
