package tts

import (
	"context"
	"mime"
	"strconv"
	"strings"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash-preview-tts"
	DefaultVoiceName   = "Kore"

	defaultSampleRate = 24000
)

// Gemini synthesizes speech with the Gemini TTS models on Vertex AI.
type Gemini struct {
	client       *genai.Client
	model        string
	voiceName    string
	languageCode string
}

var _ interfaces.Synthesizer = &Gemini{}

type GeminiOption func(*Gemini)

func WithModel(model string) GeminiOption {
	return func(x *Gemini) {
		x.model = model
	}
}

func WithVoiceName(name string) GeminiOption {
	return func(x *Gemini) {
		x.voiceName = name
	}
}

// WithLanguageCode sets a BCP-47 code such as "ko-KR". Empty lets the model
// detect the language from the text.
func WithLanguageCode(code string) GeminiOption {
	return func(x *Gemini) {
		x.languageCode = code
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*Gemini, error) {
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

	x := &Gemini{
		client:    client,
		model:     DefaultGeminiModel,
		voiceName: DefaultVoiceName,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x, nil
}

func (x *Gemini) Synthesize(ctx context.Context, text string) (*voice.Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.New("text is empty")
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: x.languageCode,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: x.voiceName,
				},
			},
		},
	}

	resp, err := x.client.Models.GenerateContent(ctx, x.model, genai.Text(text), cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate speech", goerr.V("model", x.model))
	}

	blob := firstAudio(resp)
	if blob == nil {
		return nil, goerr.New("no audio in response", goerr.V("model", x.model))
	}

	return &voice.Audio{
		Data:        EncodeWAV(blob.Data, sampleRate(blob.MIMEType)),
		ContentType: "audio/wav",
		Ext:         "wav",
	}, nil
}

func firstAudio(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return p.InlineData
			}
		}
	}
	return nil
}

// sampleRate reads the rate parameter of "audio/L16;codec=pcm;rate=24000".
func sampleRate(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return defaultSampleRate
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return defaultSampleRate
	}
	return rate
}
