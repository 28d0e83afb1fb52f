// Package taxonomy declares the built-in aspects.
//
// The tree is rooted at [RootName] and currently carries the Metadata
// subtree, which describes commit message conventions. Use [Default] to get
// the shared, sealed registry, or [New] to build an independent one.
package taxonomy

import (
	"fmt"
	"sync"

	"github.com/macropower/aspects/pkg/aspect"
)

// RootName is the name of the root aspect.
const RootName = "Root"

// Default returns the process-wide registry of built-in aspects. It is built
// and sealed on first use; later calls return the same registry.
var Default = sync.OnceValues(New)

// New builds and seals a fresh registry of built-in aspects.
func New() (*aspect.Registry, error) {
	r := aspect.NewRegistry()

	err := Register(r)
	if err != nil {
		return nil, err
	}

	err = r.Seal()
	if err != nil {
		return nil, fmt.Errorf("build taxonomy: %w", err)
	}

	return r, nil
}

// Register declares every built-in aspect in r, which must be empty and
// unsealed. It stops at the first failure.
func Register(r *aspect.Registry) error {
	decls := []declaration{rootAspect}
	decls = append(decls, metadataAspects...)

	for _, d := range decls {
		_, err := r.Register(d.name, d.parent, d.docs, d.tastes, aspect.WithDescription(d.description))
		if err != nil {
			return err
		}
	}

	return nil
}

type declaration struct {
	name        string
	parent      string
	description string
	docs        aspect.Docs
	tastes      []*aspect.Taste
}

var rootAspect = declaration{
	name: RootName,
	description: `
		The root aspect. Every other aspect is a subaspect of this one.
	`,
	docs: aspect.MustDocs(
		"Any quality concern about source code or its metadata.",
		aspect.LanguageAll,
		`
		Grouping concerns into a single tree lets analysis results and
		configuration be addressed consistently.
		`,
		"Select one of the subaspects to configure a concrete concern.",
	),
}
