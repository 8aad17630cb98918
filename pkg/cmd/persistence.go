// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/docstore"
	"github.com/dukex/flowdesk/pkg/persistence/file"
	"github.com/dukex/flowdesk/pkg/persistence/postgresql"
	"github.com/dukex/flowdesk/pkg/persistence/redis"
	"github.com/dukex/flowdesk/pkg/persistence/sqlite"
)

var supportedPersistenceProviders = []string{"file", "mem", "sqlite", "redis", "postgres", "postgresql"}

// NewPersistence opens the storage backend named by the scheme of databaseURL. A URL
// without a scheme is a file store directory.
//
//nolint:ireturn
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	provider, err := parsePersistenceProvider(databaseURL)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "opening persistence", "provider", provider)

	switch provider {
	case "mem":
		return docstore.New(docstore.NewMemoryStore()), nil
	case "sqlite":
		return sqlite.NewPersistence(ctx, logger, databaseURL)
	case "redis":
		return redis.NewPersistence(ctx, databaseURL)
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) (string, error) {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file", nil
	}

	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider, nil
		}
	}

	return "", fmt.Errorf("%w: %s", persistence.ErrUnsupportedProvider, provider)
}
