package cli

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdVoice() *cli.Command {
	var be backend

	return &cli.Command{
		Name:  "voice",
		Usage: "Manage the prompt voice cache",
		Flags: be.Flags(),
		Commands: []*cli.Command{
			{
				Name:  "warm",
				Usage: "Synthesize and store the voice of every prompt in the catalog",
				Action: func(ctx context.Context, c *cli.Command) error {
					logging.From(ctx).Info("warming voice cache", "backend", &be)

					uc, closer, err := be.Configure(ctx)
					defer closer()
					if err != nil {
						return err
					}

					voices, err := uc.WarmVoices(ctx)
					if err != nil {
						return err
					}

					var total int64
					for _, v := range voices {
						total += v.Size
					}
					logging.From(ctx).Info("voice cache is ready",
						"voices", len(voices),
						"total_size", humanize.Bytes(uint64(total)))
					return nil
				},
			},
		},
	}
}
