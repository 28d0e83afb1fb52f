package aspect

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for registration.
var (
	ErrDuplicateAspect = errors.New("aspect already registered")
	ErrUnknownParent   = errors.New("parent aspect not registered")
	ErrMultipleRoots   = errors.New("registry already has a root aspect")
	ErrInvalidName     = errors.New("invalid aspect name")
	ErrDuplicateTaste  = errors.New("taste declared twice on the same aspect")
	ErrInvalidTaste    = errors.New("invalid taste")
	ErrSealed          = errors.New("registry is sealed")
	ErrNoRoot          = errors.New("registry has no root aspect")
)

// Sentinel errors describing why a taste declaration is invalid. They are
// always wrapped together with [ErrInvalidTaste].
var (
	ErrNoAllowedValues       = errors.New("no allowed values")
	ErrDuplicateAllowedValue = errors.New("duplicate allowed value")
	ErrDefaultNotAllowed     = errors.New("default is not an allowed value")
)

// Sentinel errors for value validation and lookup.
var (
	ErrWrongKind        = errors.New("value has the wrong kind")
	ErrNotAllowed       = errors.New("value is not allowed")
	ErrUnsupportedValue = errors.New("unsupported value type")
	ErrNotFound         = errors.New("aspect not found")

	// ErrSkipChildren is returned by a [Registry.Walk] callback to skip the
	// children of the current node.
	ErrSkipChildren = errors.New("skip children")
)

// RegistrationError is returned by [Registry.Register] when an aspect cannot
// be added to the tree. Nothing is registered when it is returned.
type RegistrationError struct {
	Err    error  // Underlying cause, e.g. [ErrDuplicateAspect] or a [*DocsError].
	Aspect string // Name of the aspect that failed to register.
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register aspect %q: %v", e.Aspect, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// DocsError reports a missing or empty [Docs] field.
type DocsError struct {
	Field string
}

func (e *DocsError) Error() string {
	return fmt.Sprintf("docs: %s must not be empty", e.Field)
}

// ValidationError reports a candidate taste value that was rejected. It
// carries everything an end user needs to correct their configuration.
type ValidationError struct {
	Err     error   // [ErrWrongKind] or [ErrNotAllowed].
	Path    string  // Dotted path of the taste, e.g. "Root.Metadata.max_body_length".
	Taste   string  // Taste name.
	Value   Value   // Rejected value.
	Allowed []Value // Every value the taste accepts.
}

func (e *ValidationError) Error() string {
	name := e.Path
	if name == "" {
		name = e.Taste
	}

	return fmt.Sprintf("taste %s: %v: got %s, allowed values are %s",
		name, e.Err, e.Value.Quote(), FormatValues(e.Allowed))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when a lookup names no registered aspect.
type NotFoundError struct {
	Name        string
	Suggestions []string // Registered names similar to Name, best match first.
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%v: %q", ErrNotFound, e.Name)
	}

	return fmt.Sprintf("%v: %q (did you mean %s?)",
		ErrNotFound, e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// FormatValues formats values as a set, e.g. {50, 72, 80}.
func FormatValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Quote()
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
