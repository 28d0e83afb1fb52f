// Package tasteconfigs provides the TasteConfig configuration type, which
// carries user overrides for aspect tastes.
package tasteconfigs

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/aspects/api"
	"github.com/macropower/aspects/api/v1beta1"
	"github.com/macropower/aspects/pkg/aspect"
	"github.com/macropower/aspects/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -o tasteconfigs.v1beta1.json

// Kind is the kind of [TasteConfig] documents.
const Kind = "TasteConfig"

var (
	//go:embed tastes.yaml
	defaultTastesYAML []byte

	// FileNames contains the valid names for project taste files.
	FileNames = []string{
		".aspects.yaml",
		"aspects.yaml",
	}

	// ValidKinds contains the valid kind values for taste configurations.
	ValidKinds = []string{Kind}

	// Compile-time interface checks.
	_ v1beta1.Object = (*TasteConfig)(nil)
)

// TasteConfig holds taste overrides. Values are plain YAML scalars; they
// are checked against the taste declarations when the config is resolved.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type TasteConfig struct {
	// Tastes apply to every aspect that declares or inherits the taste.
	Tastes map[string]any `json:"tastes,omitempty" jsonschema:"title=Tastes"`
	// Aspects maps an aspect name or dotted path to taste overrides for that
	// aspect and its subaspects.
	Aspects          map[string]map[string]any `json:"aspects,omitempty" jsonschema:"title=Aspects"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates an empty [TasteConfig].
func New() *TasteConfig {
	c := &TasteConfig{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *TasteConfig) EnsureDefaults() {
	if c.Tastes == nil {
		c.Tastes = map[string]any{}
	}
	if c.Aspects == nil {
		c.Aspects = map[string]map[string]any{}
	}
}

// Validate checks that every override is a supported scalar and every
// aspect key is well-formed. It does not know which aspects or tastes
// exist; that is checked when the config is resolved against a registry.
// Each problem is reported as a [*yaml.Error] with the path of the value.
func (c *TasteConfig) Validate() error {
	var errs []error

	for _, name := range slices.Sorted(maps.Keys(c.Tastes)) {
		_, err := aspect.ValueOf(c.Tastes[name])
		if err != nil {
			errs = append(errs, yaml.NewError(err, yaml.WithPath(yaml.PathOf("tastes", name))))
		}
	}

	for _, key := range slices.Sorted(maps.Keys(c.Aspects)) {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, yaml.NewError(
				errors.New("aspect key must not be empty"),
				yaml.WithPath(yaml.PathOf("aspects")),
			))

			continue
		}

		overrides := c.Aspects[key]
		for _, name := range slices.Sorted(maps.Keys(overrides)) {
			_, err := aspect.ValueOf(overrides[name])
			if err != nil {
				errs = append(errs, yaml.NewError(err, yaml.WithPath(yaml.PathOf("aspects", key, name))))
			}
		}
	}

	return errors.Join(errs...)
}

func (c TasteConfig) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c TasteConfig) MarshalYAML() ([]byte, error) {
	type alias TasteConfig

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal taste config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path if it doesn't already exist.
func (c TasteConfig) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write taste config: %w", err)
	}

	return nil
}

// DefaultYAML returns the commented default taste file.
func DefaultYAML() []byte {
	return slices.Clone(defaultTastesYAML)
}

// WriteDefault writes the commented default taste file to the specified path.
// Using force backs up and replaces an existing file.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultTastesYAML, force, "tastes")
	if err != nil {
		return fmt.Errorf("write default tastes: %w", err)
	}

	return nil
}

// GetPath returns the path to the user's taste file.
func GetPath() string {
	return api.GetConfigPath("tastes.yaml")
}

// Find searches for a project taste file starting from targetPath and
// walking up the directory tree. It returns an empty string if none exists.
func Find(targetPath string) (string, error) {
	path, err := api.FindConfigFile(targetPath, FileNames)
	if err != nil {
		return "", fmt.Errorf("find taste config: %w", err)
	}

	return path, nil
}
