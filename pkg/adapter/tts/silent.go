package tts

import (
	"context"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
)

// Silent produces silence whose length grows with the text. It stands in for
// a real synthesizer in local runs.
type Silent struct{}

var _ interfaces.Synthesizer = Silent{}

func (Silent) Synthesize(ctx context.Context, text string) (*voice.Audio, error) {
	// roughly 60ms per character at 8kHz
	samples := len([]rune(text)) * 480
	return &voice.Audio{
		Data:        EncodeWAV(make([]byte, samples*2), 8000),
		ContentType: "audio/wav",
		Ext:         "wav",
	}, nil
}
