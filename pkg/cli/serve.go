package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feelcast/feelcast/pkg/cli/config"
	server "github.com/feelcast/feelcast/pkg/controller/http"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		addr         string
		maxAudioSize int64
		be           backend
		sentryCfg    config.Sentry
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Sources:     cli.EnvVars("FEELCAST_ADDR"),
				Usage:       "Listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.Int64Flag{
				Name:        "max-audio-size",
				Sources:     cli.EnvVars("FEELCAST_MAX_AUDIO_SIZE"),
				Usage:       "Max size of an uploaded answer in bytes",
				Value:       server.DefaultMaxAudioSize,
				Destination: &maxAudioSize,
			},
		},
		be.Flags(),
		sentryCfg.Flags(),
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.From(ctx).Info("starting server",
				"addr", addr,
				"backend", &be,
				"sentry", sentryCfg,
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			uc, closer, err := be.Configure(ctx)
			defer closer()
			if err != nil {
				return err
			}

			loc, err := be.pipeline.Location()
			if err != nil {
				return err
			}

			httpServer := http.Server{
				Addr: addr,
				Handler: server.New(uc,
					server.WithLocation(loc),
					server.WithMaxAudioSize(maxAudioSize),
				),
				ReadTimeout:       30 * time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			errCh := make(chan error, 1)
			go func() {
				defer close(errCh)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				logging.From(ctx).Info("shutting down server")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(ctx)
			}
		},
	}
}
