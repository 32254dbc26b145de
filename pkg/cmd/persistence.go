// Package cmd provides the shared initialization used by the voxflow
// binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/persistence/file"
	"github.com/voxflow/voxflow/pkg/persistence/postgresql"
)

// NewPersistence picks the implementation from the URL scheme: postgres://
// and postgresql:// go to PostgreSQL, anything else is a file root.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	}

	return file.NewPersistence(databaseURL), nil
}
