// Package aspect implements the aspect taxonomy: a single-rooted tree of
// named quality concerns, each carrying structured documentation and typed,
// validated parameters called tastes.
//
// A [Registry] is built in two phases. During initialization, aspects are
// declared parent-first with [Registry.Register]; each call validates the
// [Docs] and every [Taste] it is given and either inserts the node or changes
// nothing. [Registry.Seal] then ends the initialization phase. A sealed
// registry is never written again, so any number of goroutines may call
// [Registry.Lookup], [Registry.ResolveTastes] and [Registry.PathOf]
// concurrently without locking. To extend a taxonomy at runtime, build a new
// registry.
//
// Taste resolution follows nearest-definition-wins: a subaspect may redeclare
// a taste declared by one of its ancestors, and the redeclaration shadows the
// ancestor's for that subaspect and its descendants.
//
//	r := aspect.NewRegistry()
//	_, _ = r.Register("Metadata", "", metadataDocs, nil)
//	_, _ = r.Register("CommitMessage", "Metadata", commitDocs, nil)
//	_, _ = r.Register("Shortlog", "CommitMessage", shortlogDocs, []*aspect.Taste{
//		aspect.MustTaste(aspect.IntTaste("max_shortlog_length",
//			"The maximal number of characters the shortlog may contain.",
//			[]int64{50, 72, 80}, 72)),
//	})
//	if err := r.Seal(); err != nil {
//		// The taxonomy is malformed; do not serve it.
//	}
//
//	node, _ := r.Lookup("Shortlog")
//	v, err := r.ResolveTastes(node)["max_shortlog_length"].Resolve(overrides)
package aspect
