package config

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/feelcast/feelcast/pkg/adapter/emotion"
	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	AnalyzerNone   = "none"
	AnalyzerHTTP   = "http"
	AnalyzerGemini = "gemini"
)

// Analyzer selects the emotion analysis service.
type Analyzer struct {
	backend  string
	endpoint string
	apiKey   string
	timeout  time.Duration
	model    string
}

func (x *Analyzer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "analyzer",
			Usage:       "Emotion analysis service [http|gemini|none]",
			Category:    "Analyzer",
			Value:       AnalyzerNone,
			Destination: &x.backend,
			Sources:     cli.EnvVars("FEELCAST_ANALYZER"),
		},
		&cli.StringFlag{
			Name:        "analyzer-endpoint",
			Usage:       "URL of the HTTP analysis endpoint",
			Category:    "Analyzer",
			Destination: &x.endpoint,
			Sources:     cli.EnvVars("FEELCAST_ANALYZER_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "analyzer-api-key",
			Usage:       "API key sent to the HTTP analysis endpoint",
			Category:    "Analyzer",
			Destination: &x.apiKey,
			Sources:     cli.EnvVars("FEELCAST_ANALYZER_API_KEY"),
		},
		&cli.DurationFlag{
			Name:        "analyzer-http-timeout",
			Usage:       "Transport timeout of the HTTP analysis client",
			Category:    "Analyzer",
			Value:       time.Minute,
			Destination: &x.timeout,
			Sources:     cli.EnvVars("FEELCAST_ANALYZER_HTTP_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "analyzer-model",
			Usage:       "Gemini model for audio analysis",
			Category:    "Analyzer",
			Value:       emotion.DefaultGeminiModel,
			Destination: &x.model,
			Sources:     cli.EnvVars("FEELCAST_ANALYZER_MODEL"),
		},
	}
}

func (x Analyzer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("endpoint", x.endpoint),
		slog.Bool("api_key", x.apiKey != ""),
		slog.String("model", x.model),
	)
}

// Configure returns nil for AnalyzerNone; scoring is then unavailable.
// resolve maps a storage locator to a URI Gemini can read and is required
// for AnalyzerGemini.
func (x *Analyzer) Configure(ctx context.Context, gemini *Gemini, resolve emotion.URIResolver) (interfaces.EmotionAnalyzer, error) {
	switch x.backend {
	case AnalyzerNone, "":
		return nil, nil

	case AnalyzerHTTP:
		if x.endpoint == "" {
			return nil, goerr.New("analyzer-endpoint is required for the http analyzer")
		}
		opts := []emotion.HTTPOption{
			emotion.WithHTTPClient(&http.Client{Timeout: x.timeout}),
		}
		if x.apiKey != "" {
			opts = append(opts, emotion.WithAPIKey(x.apiKey))
		}
		return emotion.NewHTTPClient(x.endpoint, opts...), nil

	case AnalyzerGemini:
		if gemini.projectID == "" {
			return nil, goerr.New("gemini-project-id is required for the gemini analyzer")
		}
		if resolve == nil {
			return nil, goerr.New("the gemini analyzer requires a storage bucket")
		}
		return emotion.NewGemini(ctx, gemini.projectID, gemini.location, resolve, x.model)
	}

	return nil, goerr.New("unknown analyzer", goerr.V("analyzer", x.backend))
}
