package config

import (
	"log/slog"
	"time"

	"github.com/feelcast/feelcast/pkg/service/emotion"
	"github.com/feelcast/feelcast/pkg/service/voicecache"
	"github.com/feelcast/feelcast/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Pipeline tunes synthesis and analysis fan-out.
type Pipeline struct {
	voiceConcurrency    int
	analysisConcurrency int
	synthesisTimeout    time.Duration
	analysisTimeout     time.Duration
	timezone            string
}

func (x *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "voice-concurrency",
			Usage:       "Max prompts synthesized at once per session",
			Category:    "Pipeline",
			Value:       voicecache.DefaultConcurrency,
			Destination: &x.voiceConcurrency,
			Sources:     cli.EnvVars("FEELCAST_VOICE_CONCURRENCY"),
		},
		&cli.IntFlag{
			Name:        "analysis-concurrency",
			Usage:       "Max analysis calls in flight per session",
			Category:    "Pipeline",
			Value:       emotion.DefaultConcurrency,
			Destination: &x.analysisConcurrency,
			Sources:     cli.EnvVars("FEELCAST_ANALYSIS_CONCURRENCY"),
		},
		&cli.DurationFlag{
			Name:        "synthesis-timeout",
			Usage:       "Deadline of one synthesis call",
			Category:    "Pipeline",
			Value:       voicecache.DefaultSynthesisTimeout,
			Destination: &x.synthesisTimeout,
			Sources:     cli.EnvVars("FEELCAST_SYNTHESIS_TIMEOUT"),
		},
		&cli.DurationFlag{
			Name:        "analysis-timeout",
			Usage:       "Deadline of one analysis call",
			Category:    "Pipeline",
			Value:       emotion.DefaultAnalysisTimeout,
			Destination: &x.analysisTimeout,
			Sources:     cli.EnvVars("FEELCAST_ANALYSIS_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "IANA time zone trend days are computed in",
			Category:    "Pipeline",
			Value:       "UTC",
			Destination: &x.timezone,
			Sources:     cli.EnvVars("FEELCAST_TIMEZONE"),
		},
	}
}

func (x Pipeline) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("voice_concurrency", x.voiceConcurrency),
		slog.Int("analysis_concurrency", x.analysisConcurrency),
		slog.Duration("synthesis_timeout", x.synthesisTimeout),
		slog.Duration("analysis_timeout", x.analysisTimeout),
		slog.String("timezone", x.timezone),
	)
}

func (x *Pipeline) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(x.timezone)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid timezone", goerr.V("timezone", x.timezone))
	}
	return loc, nil
}

func (x *Pipeline) Options() ([]usecase.Option, error) {
	if x.voiceConcurrency < 1 || x.analysisConcurrency < 1 {
		return nil, goerr.New("concurrency must be positive",
			goerr.V("voice_concurrency", x.voiceConcurrency),
			goerr.V("analysis_concurrency", x.analysisConcurrency))
	}
	if x.synthesisTimeout <= 0 || x.analysisTimeout <= 0 {
		return nil, goerr.New("timeouts must be positive",
			goerr.V("synthesis_timeout", x.synthesisTimeout),
			goerr.V("analysis_timeout", x.analysisTimeout))
	}
	loc, err := x.Location()
	if err != nil {
		return nil, err
	}

	return []usecase.Option{
		usecase.WithVoiceConcurrency(x.voiceConcurrency),
		usecase.WithAnalysisConcurrency(x.analysisConcurrency),
		usecase.WithSynthesisTimeout(x.synthesisTimeout),
		usecase.WithAnalysisTimeout(x.analysisTimeout),
		usecase.WithLocation(loc),
	}, nil
}
