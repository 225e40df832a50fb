package emotion

import "github.com/feelcast/feelcast/pkg/domain/types"

// Result is what the analysis service returns for one recording.
type Result struct {
	FeelingScore    float64 `json:"feelingState"`
	TranscribedText string  `json:"transcribedText"`
}

// ScoredAnswer is a Result tied back to the voice it was computed from.
type ScoredAnswer struct {
	VoiceID         types.VoiceID `json:"voice_id"`
	FeelingScore    float64       `json:"feeling_score"`
	TranscribedText string        `json:"transcribed_text"`
}
