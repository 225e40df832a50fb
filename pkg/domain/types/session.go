package types

import "github.com/m-mizutani/goerr/v2"

// SessionStatus represents the lifecycle state of an analysis session
type SessionStatus string

const (
	SessionStatusBuilding        SessionStatus = "building"
	SessionStatusAwaitingAnswers SessionStatus = "awaiting_answers"
	SessionStatusScoring         SessionStatus = "scoring"
	SessionStatusScored          SessionStatus = "scored"
)

func (x SessionStatus) String() string {
	return string(x)
}

func (x SessionStatus) Validate() error {
	switch x {
	case SessionStatusBuilding, SessionStatusAwaitingAnswers, SessionStatusScoring, SessionStatusScored:
		return nil
	}
	return goerr.New("invalid session status", goerr.V("status", x))
}

// SocialType is the login provider a user signed up with.
type SocialType string

const (
	SocialTypeKakao  SocialType = "KAKAO"
	SocialTypeGoogle SocialType = "GOOGLE"
	SocialTypeApple  SocialType = "APPLE"
)

func (x SocialType) String() string {
	return string(x)
}

func (x SocialType) Validate() error {
	switch x {
	case SocialTypeKakao, SocialTypeGoogle, SocialTypeApple:
		return nil
	}
	return goerr.New("unsupported social type", goerr.V("social_type", x))
}
