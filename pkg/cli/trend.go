package cli

import (
	"context"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/trend"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type pointView struct {
	Date            string  `yaml:"date"`
	AvgFeelingState float64 `yaml:"avg_feeling_state"`
}

func printTrend(points []trend.Point) error {
	out := make([]pointView, 0, len(points))
	for _, p := range points {
		out = append(out, pointView{Date: p.DateString(), AvgFeelingState: p.AvgFeelingState})
	}
	return printYAML(out)
}

// parseDay reads YYYY-MM-DD in loc. Empty yields today.
func parseDay(v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Now().In(loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, loc)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid date, expected YYYY-MM-DD", goerr.V("date", v))
	}
	return t, nil
}

func cmdTrend() *cli.Command {
	var (
		be       backend
		userRef  string
		asOf     string
		from, to string
	)

	return &cli.Command{
		Name:  "trend",
		Usage: "Show average feeling state per day",
		Flags: append(be.Flags(), userRefFlag(&userRef)),
		Commands: []*cli.Command{
			{
				Name:  "weekly",
				Usage: "Seven days ending with --as-of",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "as-of",
						Usage:       "Last day of the week, YYYY-MM-DD (default: today)",
						Destination: &asOf,
					},
				},
				Action: be.withUser(&userRef, func(ctx context.Context, d userScope) error {
					loc, err := be.pipeline.Location()
					if err != nil {
						return err
					}
					day, err := parseDay(asOf, loc)
					if err != nil {
						return err
					}
					points, err := d.uc.WeeklyTrend(ctx, d.userID, day)
					if err != nil {
						return err
					}
					return printTrend(points)
				}),
			},
			{
				Name:  "daily",
				Usage: "Every day from --from to --to, both inclusive",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "from",
						Usage:       "First day, YYYY-MM-DD",
						Required:    true,
						Destination: &from,
					},
					&cli.StringFlag{
						Name:        "to",
						Usage:       "Last day, YYYY-MM-DD (default: today)",
						Destination: &to,
					},
				},
				Action: be.withUser(&userRef, func(ctx context.Context, d userScope) error {
					loc, err := be.pipeline.Location()
					if err != nil {
						return err
					}
					first, err := parseDay(from, loc)
					if err != nil {
						return err
					}
					last, err := parseDay(to, loc)
					if err != nil {
						return err
					}
					points, err := d.uc.DailyTrend(ctx, d.userID, first, last)
					if err != nil {
						return err
					}
					return printTrend(points)
				}),
			},
		},
	}
}
