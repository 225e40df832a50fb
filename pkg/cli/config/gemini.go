package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Gemini holds the Vertex AI project shared by speech synthesis and audio
// analysis.
type Gemini struct {
	projectID string
	location  string
}

func (x *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project-id",
			Usage:       "GCP Project ID for Vertex AI",
			Destination: &x.projectID,
			Category:    "Gemini",
			Sources:     cli.EnvVars("FEELCAST_GEMINI_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "GCP Location for Vertex AI",
			Value:       "us-central1",
			Destination: &x.location,
			Category:    "Gemini",
			Sources:     cli.EnvVars("FEELCAST_GEMINI_LOCATION"),
		},
	}
}

func (x Gemini) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", x.projectID),
		slog.String("location", x.location),
	)
}
