// Package mcp serves the aspect registry over the Model Context Protocol, so
// that agents can browse aspects and check taste overrides before writing a
// taste file.
package mcp

import (
	"math"

	"github.com/google/jsonschema-go/jsonschema"
)

const (
	name         = "aspects"
	instructions = `MCP Server 'aspects' exposes a taxonomy of code analysis aspects. Each aspect may declare tastes: typed, documented settings with a default value and a fixed set of allowed values. Subaspects inherit the tastes of their ancestors.

When to use these tools:
- Finding which aspect covers a code property (e.g. the length of a commit shortlog)
- Reading the documentation, example and fix suggestions of an aspect
- Checking which values a taste accepts before editing a taste file
- Previewing the effective tastes of an aspect under a set of overrides

REQUIRED workflow:
1. Use 'list_aspects' first, optionally with a CEL filter, to find aspects and their paths
2. STOP and carefully READ the output
3. Use 'get_aspect' with an EXACT name or path from 'list_aspects' output
4. Use 'resolve_tastes' to check overrides; only values listed as allowed are accepted
`
)

func newAspectSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "The name (e.g. \"ShortlogLength\") or dotted path (e.g. \"Metadata.CommitMessage.Shortlog\") of an aspect.",
	}
}

// fromJSON converts whole JSON numbers into integers. JSON arguments decode
// every number as float64, while tastes only accept integers.
func fromJSON(v any) any {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return v
	}

	return int64(f)
}
