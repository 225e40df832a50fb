package emotion

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/emotion"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

const geminiInstruction = `Listen to the recording. It is a person answering a question about their day.
Transcribe what they say in the original language, then rate their overall feeling
from 0 (very negative) to 100 (very positive) based on both the words and the voice.
Respond with JSON only.`

// URIResolver maps a storage-relative locator to a URI Gemini can read,
// e.g. gs://bucket/voice/x.wav.
type URIResolver func(locator string) string

// Gemini scores recordings with a multimodal Gemini model.
type Gemini struct {
	client  *genai.Client
	model   string
	resolve URIResolver
}

var _ interfaces.EmotionAnalyzer = &Gemini{}

func NewGemini(ctx context.Context, projectID, location string, resolve URIResolver, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client",
			goerr.V("project_id", projectID),
			goerr.V("location", location))
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	return &Gemini{
		client:  client,
		model:   model,
		resolve: resolve,
	}, nil
}

var resultSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"feelingState": {
			Type:        genai.TypeNumber,
			Description: "feeling score between 0 and 100",
		},
		"transcribedText": {
			Type:        genai.TypeString,
			Description: "transcription of the speech",
		},
	},
	Required: []string{"feelingState", "transcribedText"},
}

func (x *Gemini) Analyze(ctx context.Context, locator string) (*emotion.Result, error) {
	uri := x.resolve(locator)
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				genai.NewPartFromURI(uri, audioMIMEType(locator)),
				genai.NewPartFromText(geminiInstruction),
			},
		},
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   resultSchema,
	}

	resp, err := x.client.Models.GenerateContent(ctx, x.model, contents, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to analyze recording",
			goerr.V("model", x.model),
			goerr.TV(errs.LocatorKey, locator))
	}

	raw := responseText(resp)
	var result emotion.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, goerr.Wrap(err, "invalid analysis response",
			goerr.V("model", x.model),
			goerr.V("response", raw),
			goerr.TV(errs.LocatorKey, locator))
	}
	if result.FeelingScore < 0 || result.FeelingScore > 100 {
		return nil, goerr.New("feeling score out of range",
			goerr.V("score", result.FeelingScore),
			goerr.TV(errs.LocatorKey, locator))
	}

	return &result, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil {
				b.WriteString(p.Text)
			}
		}
		break
	}
	return b.String()
}

func audioMIMEType(locator string) string {
	switch strings.ToLower(path.Ext(locator)) {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/wav"
	}
}
