// Package v1beta1 contains the v1beta1 API types for aspects configuration.
package v1beta1

import "github.com/invopop/jsonschema"

// Group is the API group of all aspects configuration kinds.
const Group = "aspects.coala.io"

// APIVersion is the current API version for all aspects configuration kinds.
const APIVersion = Group + "/v1beta1"

// ValidAPIVersions contains all valid API versions.
var ValidAPIVersions = []string{APIVersion}

// TypeMeta contains the API version and kind metadata common to all config types.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// GetAPIVersion returns the API version.
func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

// GetKind returns the kind.
func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Object is the interface that all config types implement.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of a
// JSON schema to the given constants. It panics if either property is
// missing, which means the type does not embed [TypeMeta].
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	constrain(jss, "apiVersion", "API Version", apiVersions)
	constrain(jss, "kind", "Kind", kinds)
}

func constrain(jss *jsonschema.Schema, property, title string, values []string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(property + " property not found in schema")
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	_, _ = jss.Properties.Set(property, prop)
}
