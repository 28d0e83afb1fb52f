// Package config loads TasteConfig files and resolves them against an aspect
// registry.
//
// Loading is split in two steps, as for every versioned kind: [Loader.Validate]
// checks the raw document against a JSON schema and [Loader.Load] decodes it.
// [Resolve] then computes the effective value of every taste for every
// aspect. Problems with individual overrides never stop resolution; they are
// reported and the declared default is used instead.
package config
