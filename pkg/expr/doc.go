// Package expr provides CEL (Common Expression Language) functionality
// for selecting aspects with boolean expressions.
//
// It creates CEL environments with custom functions for:
//   - Aspect path operations (pathBase, pathParent, isUnder)
//   - Accent and case insensitive text matching (fold)
//
// CEL expressions have access to the variable `aspect` (map<string, dyn>)
// with the keys:
//   - `name` (string): The aspect name
//   - `path` (string): The dotted path from the root
//   - `parent` (string): The parent's name, empty for the root
//   - `depth` (int): The distance from the root
//   - `root`, `leaf` (bool): Position in the tree
//   - `description` (string): The aspect description
//   - `language` (string): The language of the documentation example
//   - `own` (list<string>): Names of the tastes declared on the aspect
//   - `tastes` (map<string, dyn>): Effective taste values
//
// Example: `isUnder(aspect.path, "Root.Metadata.CommitMessage.Shortlog") && aspect.leaf`.
package expr
