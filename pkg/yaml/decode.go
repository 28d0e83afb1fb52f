package yaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

// Decoder reads YAML documents and converts [yaml.Error]s into [*Error]s
// that keep the offending token.
type Decoder struct {
	d *yaml.Decoder
}

// NewDecoder creates a [Decoder]. Duplicate mapping keys are rejected.
func NewDecoder(r io.Reader, opts ...yaml.DecodeOption) *Decoder {
	return &Decoder{
		d: yaml.NewDecoder(r, opts...),
	}
}

func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}
