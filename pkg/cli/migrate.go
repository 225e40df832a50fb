package cli

import (
	"context"
	"time"

	firestoreadmin "cloud.google.com/go/firestore/apiv1/admin"
	adminpb "cloud.google.com/go/firestore/apiv1/admin/adminpb"
	"github.com/feelcast/feelcast/pkg/cli/config"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/feelcast/feelcast/pkg/utils/safe"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/iterator"
)

func cmdMigrate() *cli.Command {
	var cfg config.Firestore
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create Firestore indexes used by session queries",
		Flags: append(cfg.Flags(),
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Show what would be changed without applying",
				Destination: &dryRun,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			return runMigrate(ctx, &cfg, dryRun)
		},
	}
}

func runMigrate(ctx context.Context, cfg *config.Firestore, dryRun bool) error {
	logger := logging.From(ctx)

	projectID := cfg.ProjectID()
	databaseID := cfg.DatabaseID()

	if projectID == "" {
		return goerr.New("firestore-project-id is required")
	}

	logger.Info("Starting Firestore migration",
		"project_id", projectID,
		"database_id", databaseID,
		"dry_run", dryRun,
	)

	indexConfig := defineFirestoreIndexes()

	opts := []fireconf.Option{fireconf.WithLogger(logger)}
	if dryRun {
		logger.Info("Dry-run mode: showing planned changes without applying")
		opts = append(opts, fireconf.WithDryRun(true))
	}

	client, err := fireconf.NewClient(ctx, projectID, databaseID, opts...)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		)
	}

	if err := client.Migrate(ctx, indexConfig); err != nil {
		return goerr.Wrap(err, "failed to migrate indexes",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
			goerr.V("dry_run", dryRun),
		)
	}

	if !dryRun {
		if err := waitForIndexesReady(ctx, projectID, databaseID, indexConfig, logger.With("phase", "wait_ready")); err != nil {
			return goerr.Wrap(err, "indexes did not become ready",
				goerr.V("project_id", projectID),
				goerr.V("database_id", databaseID),
			)
		}
	}

	logger.Info("Migration completed")
	return nil
}

// waitForIndexesReady polls the Admin API until no managed index is still
// being built.
func waitForIndexesReady(ctx context.Context, projectID, databaseID string, cfg *fireconf.Config, logger interface{ Info(string, ...any) }) error {
	adminClient, err := firestoreadmin.NewFirestoreAdminClient(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to create firestore admin client")
	}
	defer safe.Close(ctx, adminClient)

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		pending := 0

		for _, col := range cfg.Collections {
			parent := "projects/" + projectID + "/databases/" + databaseID + "/collectionGroups/" + col.Name

			it := adminClient.ListIndexes(ctx, &adminpb.ListIndexesRequest{Parent: parent})
			for {
				idx, err := it.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to list indexes", goerr.V("collection", col.Name))
				}

				state := idx.GetState()
				if state == adminpb.Index_CREATING || state == adminpb.Index_NEEDS_REPAIR {
					pending++
					logger.Info("Index not yet ready, waiting",
						"collection", col.Name,
						"index", idx.GetName(),
						"state", state.String(),
					)
				}
			}
		}

		if pending == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// defineFirestoreIndexes lists the composite indexes the session queries
// need. Equality on user_id alone is served by single-field indexes.
func defineFirestoreIndexes() *fireconf.Config {
	sessions := fireconf.Collection{
		Name: "sessions",
		Indexes: []fireconf.Index{
			// history page
			{
				QueryScope: fireconf.QueryScopeCollection,
				Fields: []fireconf.IndexField{
					{Path: "user_id", Order: fireconf.OrderAscending},
					{Path: "created_at", Order: fireconf.OrderDescending},
				},
			},
			// scored sessions in a time range, for trends
			{
				QueryScope: fireconf.QueryScopeCollection,
				Fields: []fireconf.IndexField{
					{Path: "user_id", Order: fireconf.OrderAscending},
					{Path: "status", Order: fireconf.OrderAscending},
					{Path: "analyze_time", Order: fireconf.OrderAscending},
				},
			},
			// latest scored session
			{
				QueryScope: fireconf.QueryScopeCollection,
				Fields: []fireconf.IndexField{
					{Path: "user_id", Order: fireconf.OrderAscending},
					{Path: "status", Order: fireconf.OrderAscending},
					{Path: "analyze_time", Order: fireconf.OrderDescending},
				},
			},
		},
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{sessions},
	}
}
