package config

import (
	"context"
	"log/slog"

	"github.com/feelcast/feelcast/pkg/repository"
	"github.com/urfave/cli/v3"
)

type SQLite struct {
	path string
}

func (x *SQLite) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database file",
			Category:    "SQLite",
			Value:       "feelcast.db",
			Destination: &x.path,
			Sources:     cli.EnvVars("FEELCAST_SQLITE_PATH"),
		},
	}
}

func (x SQLite) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

func (x *SQLite) Configure(ctx context.Context) (*repository.SQLite, error) {
	return repository.NewSQLite(ctx, x.path)
}
