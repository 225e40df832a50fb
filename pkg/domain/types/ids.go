package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type UserID string

func (x UserID) String() string {
	return string(x)
}

func NewUserID() UserID {
	return UserID(uuid.New().String())
}

// SessionID identifies one analysis session of a user.
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

func (x SessionID) String() string {
	return string(x)
}

func (x SessionID) Validate() error {
	if x == "" {
		return goerr.New("empty session ID")
	}
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "invalid session ID format", goerr.V("id", x))
	}
	return nil
}

type PromptID string

func NewPromptID() PromptID {
	return PromptID(uuid.New().String())
}

func (x PromptID) String() string {
	return string(x)
}

type AnswerID string

func NewAnswerID() AnswerID {
	return AnswerID(uuid.New().String())
}

func (x AnswerID) String() string {
	return string(x)
}

// VoiceID identifies a stored audio artifact, synthesized or recorded.
type VoiceID string

func NewVoiceID() VoiceID {
	return VoiceID(uuid.New().String())
}

// NewPromptVoiceID returns the ID of the synthesized voice of a prompt. It is
// derived from the prompt key so that stores can reject a second insert.
func NewPromptVoiceID(key PromptKey) VoiceID {
	return VoiceID("prompt-" + key.String())
}

func (x VoiceID) String() string {
	return string(x)
}

// CounselID refers to a counsel record owned by another service.
type CounselID string

func (x CounselID) String() string {
	return string(x)
}
