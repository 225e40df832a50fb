package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/feelcast/feelcast/pkg/adapter/emotion"
	"github.com/feelcast/feelcast/pkg/adapter/storage"
	"github.com/feelcast/feelcast/pkg/cli/config"
	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/usecase"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, flag := range flags {
		result = append(result, flag...)
	}
	return result
}

// backend bundles everything the use cases are built from. Commands that
// touch stored data share it so their flags stay consistent.
type backend struct {
	repository  config.Repository
	storage     config.Storage
	gemini      config.Gemini
	synthesizer config.Synthesizer
	analyzer    config.Analyzer
	pipeline    config.Pipeline
}

func (x *backend) Flags() []cli.Flag {
	return joinFlags(
		x.repository.Flags(),
		x.storage.Flags(),
		x.gemini.Flags(),
		x.synthesizer.Flags(),
		x.analyzer.Flags(),
		x.pipeline.Flags(),
	)
}

func (x *backend) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("repository", x.repository),
		slog.Any("storage", &x.storage),
		slog.Any("gemini", x.gemini),
		slog.Any("synthesizer", x.synthesizer),
		slog.Any("analyzer", x.analyzer),
		slog.Any("pipeline", x.pipeline),
	)
}

// Configure builds the use cases. The closer releases opened clients and is
// always callable.
func (x *backend) Configure(ctx context.Context) (*usecase.UseCases, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	repo, closeRepo, err := x.repository.Configure(ctx)
	if err != nil {
		return nil, closeAll, err
	}
	closers = append(closers, closeRepo)

	var storageClient interfaces.StorageClient
	var resolve emotion.URIResolver
	if x.storage.IsConfigured() {
		gcs, err := x.storage.Configure(ctx)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() { gcs.Close(ctx) })
		storageClient = gcs
		resolve = gcs.URI
	} else {
		logging.From(ctx).Warn("storage bucket is not set, voice audio is kept in memory")
		storageClient = storage.NewMemoryClient()
	}

	synthesizer, err := x.synthesizer.Configure(ctx, &x.gemini)
	if err != nil {
		return nil, closeAll, err
	}
	analyzer, err := x.analyzer.Configure(ctx, &x.gemini, resolve)
	if err != nil {
		return nil, closeAll, err
	}
	pipelineOpts, err := x.pipeline.Options()
	if err != nil {
		return nil, closeAll, err
	}

	opts := append([]usecase.Option{
		usecase.WithRepository(repo),
		usecase.WithStorageClient(storageClient),
		usecase.WithStoragePrefix(x.storage.Prefix()),
		usecase.WithSynthesizer(synthesizer),
		usecase.WithEmotionAnalyzer(analyzer),
	}, pipelineOpts...)

	return usecase.New(opts...), closeAll, nil
}

// userScope is what per-user commands run with.
type userScope struct {
	uc     *usecase.UseCases
	userID types.UserID
}

// withUser configures the use cases and resolves the --user reference
// before running fn.
func (x *backend) withUser(userRef *string, fn func(ctx context.Context, d userScope) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		uc, closer, err := x.Configure(ctx)
		defer closer()
		if err != nil {
			return err
		}
		u, err := lookupUser(ctx, uc, *userRef)
		if err != nil {
			return err
		}
		return fn(ctx, userScope{uc: uc, userID: u.ID})
	}
}

func userRefFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "user",
		Aliases:     []string{"u"},
		Usage:       "User reference, <socialID>_<socialType>",
		Required:    true,
		Destination: dst,
		Sources:     cli.EnvVars("FEELCAST_USER"),
	}
}

func lookupUser(ctx context.Context, uc *usecase.UseCases, ref string) (*user.User, error) {
	u, err := uc.LookupUser(ctx, ref)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve user", goerr.V("user", ref))
	}
	return u, nil
}

var output io.Writer = os.Stdout

func printYAML(v any) error {
	enc := yaml.NewEncoder(output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return enc.Close()
}
