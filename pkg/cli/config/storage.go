package config

import (
	"context"
	"log/slog"

	"github.com/feelcast/feelcast/pkg/adapter/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

type Storage struct {
	bucket    string
	prefix    string
	projectID string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "Cloud Storage bucket for voice audio. Audio is kept in memory when unset",
			Category:    "Storage",
			Destination: &x.bucket,
			Sources:     cli.EnvVars("FEELCAST_STORAGE_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Usage:       "Object prefix inside the bucket",
			Category:    "Storage",
			Destination: &x.prefix,
			Sources:     cli.EnvVars("FEELCAST_STORAGE_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "storage-project-id",
			Usage:       "Quota project ID for Cloud Storage",
			Category:    "Storage",
			Destination: &x.projectID,
			Sources:     cli.EnvVars("FEELCAST_STORAGE_PROJECT_ID"),
		},
	}
}

func (x *Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
		slog.String("project_id", x.projectID),
	)
}

func (x *Storage) Configure(ctx context.Context) (*storage.Client, error) {
	if x.bucket == "" {
		return nil, goerr.New("storage bucket is not set")
	}

	var opts []option.ClientOption
	if x.projectID != "" {
		opts = append(opts, option.WithQuotaProject(x.projectID))
	}

	return storage.New(ctx, x.bucket, opts...)
}

func (x *Storage) Bucket() string {
	return x.bucket
}

func (x *Storage) Prefix() string {
	return x.prefix
}

func (x *Storage) IsConfigured() bool {
	return x.bucket != ""
}
