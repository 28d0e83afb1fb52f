package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/macropower/aspects/api/v1beta1/tasteconfigs"
	"github.com/macropower/aspects/pkg/log"
)

// Source tells where a discovered taste file came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceProject Source = "project"
	SourceUser    Source = "user"
)

// Discover returns the taste file to use. An explicit path always wins.
// Otherwise the nearest project file found walking up from dir is used, and
// finally the user's taste file. The returned path may not exist when it
// comes from [SourceUser].
func Discover(ctx context.Context, explicit, dir string) (string, Source, error) {
	logger := log.WithContext(ctx)

	if explicit != "" {
		return explicit, SourceFlag, nil
	}

	path, err := tasteconfigs.Find(dir)
	if err != nil {
		return "", "", fmt.Errorf("discover taste config: %w", err)
	}
	if path != "" {
		logger.DebugContext(ctx, "found project taste config", slog.String("path", path))
		return path, SourceProject, nil
	}

	path = tasteconfigs.GetPath()
	logger.DebugContext(ctx, "using user taste config", slog.String("path", path))

	return path, SourceUser, nil
}
