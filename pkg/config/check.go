package config

import (
	"context"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/aspect"
)

// Check strictly validates taste file data for r. The document must match
// the schema of v, every value must be a supported scalar, and every override
// must apply to a known aspect and taste with an allowed value.
func Check(ctx context.Context, r *aspect.Registry, data []byte, v Validator, opts ...LoaderOpt) error {
	l := NewLoaderFromBytes(data, tasteconfigs.New, v, opts...)

	err := l.Validate()
	if err != nil {
		return err
	}

	cfg, err := l.Load()
	if err != nil {
		return err
	}

	err = cfg.Validate()
	if err != nil {
		return l.Annotate(err)
	}

	return l.Annotate(Resolve(ctx, r, cfg).Err())
}
