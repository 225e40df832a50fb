package config

import (
	"context"
	"log/slog"

	"github.com/feelcast/feelcast/pkg/adapter/tts"
	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	SynthesizerGemini = "gemini"
	SynthesizerSilent = "silent"
)

type Synthesizer struct {
	backend      string
	model        string
	voiceName    string
	languageCode string
}

func (x *Synthesizer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "synthesizer",
			Usage:       "Speech synthesizer [gemini|silent]",
			Category:    "Synthesizer",
			Value:       SynthesizerSilent,
			Destination: &x.backend,
			Sources:     cli.EnvVars("FEELCAST_SYNTHESIZER"),
		},
		&cli.StringFlag{
			Name:        "tts-model",
			Usage:       "Gemini TTS model",
			Category:    "Synthesizer",
			Value:       tts.DefaultGeminiModel,
			Destination: &x.model,
			Sources:     cli.EnvVars("FEELCAST_TTS_MODEL"),
		},
		&cli.StringFlag{
			Name:        "tts-voice",
			Usage:       "Gemini prebuilt voice name",
			Category:    "Synthesizer",
			Value:       tts.DefaultVoiceName,
			Destination: &x.voiceName,
			Sources:     cli.EnvVars("FEELCAST_TTS_VOICE"),
		},
		&cli.StringFlag{
			Name:        "tts-language",
			Usage:       "BCP-47 language code of the prompts, e.g. ko-KR",
			Category:    "Synthesizer",
			Destination: &x.languageCode,
			Sources:     cli.EnvVars("FEELCAST_TTS_LANGUAGE"),
		},
	}
}

func (x Synthesizer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("model", x.model),
		slog.String("voice", x.voiceName),
		slog.String("language", x.languageCode),
	)
}

func (x *Synthesizer) Configure(ctx context.Context, gemini *Gemini) (interfaces.Synthesizer, error) {
	switch x.backend {
	case SynthesizerSilent, "":
		return tts.Silent{}, nil

	case SynthesizerGemini:
		if gemini.projectID == "" {
			return nil, goerr.New("gemini-project-id is required for the gemini synthesizer")
		}
		opts := []tts.GeminiOption{
			tts.WithModel(x.model),
			tts.WithVoiceName(x.voiceName),
		}
		if x.languageCode != "" {
			opts = append(opts, tts.WithLanguageCode(x.languageCode))
		}
		return tts.NewGemini(ctx, gemini.projectID, gemini.location, opts...)
	}

	return nil, goerr.New("unknown synthesizer", goerr.V("synthesizer", x.backend))
}
