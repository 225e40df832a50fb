package config

import (
	"context"
	"log/slog"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/repository"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	RepositoryMemory    = "memory"
	RepositoryFirestore = "firestore"
	RepositorySQLite    = "sqlite"
)

// Repository selects the durable store.
type Repository struct {
	backend   string
	firestore Firestore
	sqlite    SQLite
}

func (x *Repository) Flags() []cli.Flag {
	return joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "repository",
				Usage:       "Durable store [memory|firestore|sqlite]",
				Category:    "Repository",
				Value:       RepositoryMemory,
				Destination: &x.backend,
				Sources:     cli.EnvVars("FEELCAST_REPOSITORY"),
			},
		},
		x.firestore.Flags(),
		x.sqlite.Flags(),
	)
}

func (x Repository) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("backend", x.backend)}
	switch x.backend {
	case RepositoryFirestore:
		attrs = append(attrs, slog.Any("firestore", x.firestore))
	case RepositorySQLite:
		attrs = append(attrs, slog.Any("sqlite", x.sqlite))
	}
	return slog.GroupValue(attrs...)
}

// Configure opens the selected store. The closer is always callable.
func (x *Repository) Configure(ctx context.Context) (interfaces.Repository, func(), error) {
	noop := func() {}

	switch x.backend {
	case RepositoryMemory, "":
		logging.From(ctx).Warn("using in-memory repository, data is lost on exit")
		return repository.NewMemory(), noop, nil

	case RepositoryFirestore:
		repo, err := x.firestore.Configure(ctx)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() { closeRepository(ctx, repo) }, nil

	case RepositorySQLite:
		repo, err := x.sqlite.Configure(ctx)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() { closeRepository(ctx, repo) }, nil
	}

	return nil, noop, goerr.New("unknown repository backend", goerr.V("repository", x.backend))
}

func closeRepository(ctx context.Context, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		logging.From(ctx).Warn("failed to close repository", logging.ErrAttr(err))
	}
}

// Firestore returns the Firestore settings, used by migrate.
func (x *Repository) Firestore() *Firestore {
	return &x.firestore
}
