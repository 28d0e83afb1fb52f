package aspect

import "strings"

// LanguageAll is the [Docs.ExampleLanguage] of examples that apply to every
// language.
const LanguageAll = "all"

// Docs is the structured documentation attached to every aspect. All fields
// are required.
type Docs struct {
	// Example shows text that exhibits the concern.
	Example string `json:"example" yaml:"example"`
	// ExampleLanguage names the language of Example, or [LanguageAll].
	ExampleLanguage string `json:"exampleLanguage" yaml:"exampleLanguage"`
	// ImportanceReason explains why the concern matters.
	ImportanceReason string `json:"importanceReason" yaml:"importanceReason"`
	// FixSuggestions explains how to address the concern.
	FixSuggestions string `json:"fixSuggestions" yaml:"fixSuggestions"`
}

// NewDocs creates validated [Docs]. Surrounding whitespace and common
// indentation are removed from every field.
func NewDocs(example, exampleLanguage, importanceReason, fixSuggestions string) (Docs, error) {
	d := Docs{
		Example:          Dedent(example),
		ExampleLanguage:  strings.TrimSpace(exampleLanguage),
		ImportanceReason: Dedent(importanceReason),
		FixSuggestions:   Dedent(fixSuggestions),
	}

	err := d.Validate()
	if err != nil {
		return Docs{}, err
	}

	return d, nil
}

// MustDocs is like [NewDocs] but panics on error.
func MustDocs(example, exampleLanguage, importanceReason, fixSuggestions string) Docs {
	d, err := NewDocs(example, exampleLanguage, importanceReason, fixSuggestions)
	if err != nil {
		panic(err)
	}

	return d
}

// Validate returns a [*DocsError] naming the first empty field.
func (d Docs) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"example", d.Example},
		{"example_language", d.ExampleLanguage},
		{"importance_reason", d.ImportanceReason},
		{"fix_suggestions", d.FixSuggestions},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &DocsError{Field: f.name}
		}
	}

	return nil
}

// LanguageIndependent reports whether the example applies to all languages.
func (d Docs) LanguageIndependent() bool {
	return strings.EqualFold(d.ExampleLanguage, LanguageAll)
}

// Dedent removes the longest common leading whitespace from every non-blank
// line of s, then trims leading and trailing blank lines. It lets long
// documentation be written as indented raw string literals.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")

	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false

			continue
		}

		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		} else {
			lines[i] = strings.TrimRight(strings.TrimPrefix(line, prefix), " \t")
		}
	}

	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
