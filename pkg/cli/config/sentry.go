package config

import (
	"log/slog"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry reports unexpected server errors. Reporting is off without a DSN.
type Sentry struct {
	dsn        string
	env        string
	release    string
	sampleRate float64
}

func (x *Sentry) Flags() []cli.Flag {
	const category = "Sentry"
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "DSN errors are reported to",
			Category:    category,
			Sources:     cli.EnvVars("FEELCAST_SENTRY_DSN"),
			Destination: &x.dsn,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Environment name attached to reports",
			Category:    category,
			Sources:     cli.EnvVars("FEELCAST_SENTRY_ENV"),
			Destination: &x.env,
		},
		&cli.StringFlag{
			Name:        "sentry-release",
			Usage:       "Release attached to reports",
			Category:    category,
			Sources:     cli.EnvVars("FEELCAST_SENTRY_RELEASE"),
			Destination: &x.release,
		},
		&cli.Float64Flag{
			Name:        "sentry-sample-rate",
			Usage:       "Share of errors reported, 0.0 to 1.0",
			Category:    category,
			Sources:     cli.EnvVars("FEELCAST_SENTRY_SAMPLE_RATE"),
			Value:       1.0,
			Destination: &x.sampleRate,
		},
	}
}

func (x Sentry) Enabled() bool {
	return x.dsn != ""
}

func (x Sentry) LogValue() slog.Value {
	if !x.Enabled() {
		return slog.StringValue("disabled")
	}
	return slog.GroupValue(
		slog.String("env", x.env),
		slog.String("release", x.release),
		slog.Float64("sample_rate", x.sampleRate),
	)
}

// Configure initializes the global Sentry hub that errs.Handle reports to.
func (x *Sentry) Configure() error {
	if !x.Enabled() {
		logging.Default().Warn("Sentry DSN is not set, errors are only logged")
		return nil
	}
	if x.sampleRate < 0 || x.sampleRate > 1 {
		return goerr.New("sentry sample rate must be between 0 and 1",
			goerr.V("sample_rate", x.sampleRate),
			goerr.T(errs.TagInvalidArgument))
	}

	opts := sentry.ClientOptions{
		Dsn:              x.dsn,
		Environment:      x.env,
		Release:          x.release,
		SampleRate:       x.sampleRate,
		AttachStacktrace: true,
	}
	if err := sentry.Init(opts); err != nil {
		return goerr.Wrap(err, "failed to initialize sentry", goerr.V("env", x.env))
	}
	return nil
}
