package session

import (
	"context"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/emotion"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/prompt"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/feelcast/feelcast/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
)

// Prompt is one question asked in a session.
type Prompt struct {
	ID      types.PromptID `json:"id" firestore:"id"`
	Content prompt.Content `json:"content" firestore:"content"`
	Voice   *voice.Voice   `json:"voice,omitempty" firestore:"voice"`
}

// Answer is the recorded reply to a Prompt. FeelingScore and
// TranscribedText are filled in when the session is scored.
type Answer struct {
	ID              types.AnswerID `json:"id" firestore:"id"`
	PromptID        types.PromptID `json:"prompt_id" firestore:"prompt_id"`
	Voice           *voice.Voice   `json:"voice" firestore:"voice"`
	FeelingScore    *float64       `json:"feeling_score,omitempty" firestore:"feeling_score"`
	TranscribedText string         `json:"transcribed_text,omitempty" firestore:"transcribed_text"`
	CreatedAt       time.Time      `json:"created_at" firestore:"created_at"`
}

// Session is the analysis aggregate. It owns its prompts and answers;
// deleting a session deletes both.
type Session struct {
	ID           types.SessionID     `json:"id" firestore:"id"`
	UserID       types.UserID        `json:"user_id" firestore:"user_id"`
	Status       types.SessionStatus `json:"status" firestore:"status"`
	Prompts      []*Prompt           `json:"prompts" firestore:"prompts"`
	Answers      []*Answer           `json:"answers" firestore:"answers"`
	FeelingState *float64            `json:"feeling_state,omitempty" firestore:"feeling_state"`
	AnalyzeTime  *time.Time          `json:"analyze_time,omitempty" firestore:"analyze_time"`
	CounselID    types.CounselID     `json:"counsel_id,omitempty" firestore:"counsel_id"`
	CreatedAt    time.Time           `json:"created_at" firestore:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" firestore:"updated_at"`
}

// New builds a session in building state. Prompt voices are attached
// afterwards with AttachPromptVoice.
func New(ctx context.Context, userID types.UserID, contents []prompt.Content) (*Session, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty", goerr.T(errs.TagInvalidArgument))
	}
	if len(contents) == 0 {
		return nil, goerr.New("session requires at least one prompt",
			goerr.TV(errs.UserIDKey, userID),
			goerr.T(errs.TagInvalidArgument))
	}

	now := clock.Now(ctx)
	s := &Session{
		ID:        types.NewSessionID(),
		UserID:    userID,
		Status:    types.SessionStatusBuilding,
		CreatedAt: now,
		UpdatedAt: now,
	}

	seen := make(map[types.PromptKey]struct{}, len(contents))
	for _, c := range contents {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[c.Key]; ok {
			return nil, goerr.New("duplicated prompt in session",
				goerr.TV(errs.PromptKeyKey, c.Key),
				goerr.T(errs.TagInvalidArgument))
		}
		seen[c.Key] = struct{}{}

		s.Prompts = append(s.Prompts, &Prompt{
			ID:      types.NewPromptID(),
			Content: c,
		})
	}

	return s, nil
}

func (x *Session) builder() *goerr.Builder {
	return goerr.NewBuilder(
		goerr.TV(errs.SessionIDKey, x.ID),
		goerr.TV(errs.StatusKey, x.Status),
	)
}

func (x *Session) Prompt(id types.PromptID) *Prompt {
	for _, p := range x.Prompts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (x *Session) answerOf(promptID types.PromptID) *Answer {
	for _, a := range x.Answers {
		if a.PromptID == promptID {
			return a
		}
	}
	return nil
}

// AttachPromptVoice binds the synthesized voice of a prompt.
func (x *Session) AttachPromptVoice(promptID types.PromptID, v *voice.Voice) error {
	eb := x.builder()
	if x.Status != types.SessionStatusBuilding {
		return eb.New("prompt voices can only be attached while building", goerr.T(errs.TagInvariant))
	}

	p := x.Prompt(promptID)
	if p == nil {
		return eb.New("prompt not found in session",
			goerr.TV(errs.PromptIDKey, promptID),
			goerr.T(errs.TagNotFound))
	}
	if v == nil || v.SourceKey != p.Content.Key {
		return eb.New("voice does not belong to prompt",
			goerr.TV(errs.PromptIDKey, promptID),
			goerr.TV(errs.PromptKeyKey, p.Content.Key),
			goerr.T(errs.TagInvalidArgument))
	}

	p.Voice = v
	return nil
}

// MarkAwaitingAnswers completes building. Every prompt must have its voice.
func (x *Session) MarkAwaitingAnswers(ctx context.Context) error {
	eb := x.builder()
	if x.Status != types.SessionStatusBuilding {
		return eb.New("session is not building", goerr.T(errs.TagInvariant))
	}
	for _, p := range x.Prompts {
		if p.Voice == nil {
			return eb.New("prompt has no voice",
				goerr.TV(errs.PromptIDKey, p.ID),
				goerr.T(errs.TagInvariant))
		}
	}

	x.Status = types.SessionStatusAwaitingAnswers
	x.UpdatedAt = clock.Now(ctx)
	return nil
}

// AttachAnswer records the answer voice of a prompt. Each prompt takes at
// most one answer.
func (x *Session) AttachAnswer(ctx context.Context, promptID types.PromptID, v *voice.Voice) (*Answer, error) {
	eb := x.builder()
	if x.Status != types.SessionStatusAwaitingAnswers {
		return nil, eb.New("session is not accepting answers", goerr.T(errs.TagInvariant))
	}
	if x.Prompt(promptID) == nil {
		return nil, eb.New("prompt not found in session",
			goerr.TV(errs.PromptIDKey, promptID),
			goerr.T(errs.TagNotFound))
	}
	if x.answerOf(promptID) != nil {
		return nil, eb.New("prompt already answered",
			goerr.TV(errs.PromptIDKey, promptID),
			goerr.T(errs.TagConflict))
	}
	if v == nil || v.IsSynthesized() {
		return nil, eb.New("answer requires a recorded voice",
			goerr.TV(errs.PromptIDKey, promptID),
			goerr.T(errs.TagInvalidArgument))
	}

	now := clock.Now(ctx)
	a := &Answer{
		ID:        types.NewAnswerID(),
		PromptID:  promptID,
		Voice:     v,
		CreatedAt: now,
	}
	x.Answers = append(x.Answers, a)
	x.UpdatedAt = now
	return a, nil
}

// AnswerVoices returns the voices to be analyzed, one per answer.
func (x *Session) AnswerVoices() []*voice.Voice {
	voices := make([]*voice.Voice, 0, len(x.Answers))
	for _, a := range x.Answers {
		voices = append(voices, a.Voice)
	}
	return voices
}

// BeginScoring moves the session to scoring. A session without answers, or
// with an unanswered prompt, can not be scored and is left untouched.
func (x *Session) BeginScoring() error {
	eb := x.builder()
	if x.Status != types.SessionStatusAwaitingAnswers {
		return eb.New("session is not awaiting answers", goerr.T(errs.TagInvariant))
	}
	if len(x.Answers) == 0 {
		return eb.New("session has no answers to score", goerr.T(errs.TagInvariant))
	}
	for _, p := range x.Prompts {
		if x.answerOf(p.ID) == nil {
			return eb.New("prompt is not answered",
				goerr.TV(errs.PromptIDKey, p.ID),
				goerr.T(errs.TagInvariant))
		}
	}

	x.Status = types.SessionStatusScoring
	return nil
}

// AbortScoring returns a scoring session to awaiting answers.
func (x *Session) AbortScoring() {
	if x.Status == types.SessionStatusScoring {
		x.Status = types.SessionStatusAwaitingAnswers
	}
}

// ApplyScores writes one score per answer, sets FeelingState to their mean
// and stamps AnalyzeTime. scores must map onto the answers one to one;
// otherwise nothing is changed.
func (x *Session) ApplyScores(ctx context.Context, scores []emotion.ScoredAnswer) error {
	eb := x.builder()
	if x.Status != types.SessionStatusScoring {
		return eb.New("session is not scoring", goerr.T(errs.TagInvariant))
	}
	if len(scores) != len(x.Answers) {
		return eb.New("number of scores does not match answers",
			goerr.V("scores", len(scores)),
			goerr.V("answers", len(x.Answers)),
			goerr.T(errs.TagInvariant))
	}

	byVoice := make(map[types.VoiceID]emotion.ScoredAnswer, len(scores))
	for _, s := range scores {
		if _, ok := byVoice[s.VoiceID]; ok {
			return eb.New("duplicated score for voice",
				goerr.TV(errs.VoiceIDKey, s.VoiceID),
				goerr.T(errs.TagInvariant))
		}
		byVoice[s.VoiceID] = s
	}
	for _, a := range x.Answers {
		if _, ok := byVoice[a.Voice.ID]; !ok {
			return eb.New("answer has no score",
				goerr.TV(errs.VoiceIDKey, a.Voice.ID),
				goerr.T(errs.TagInvariant))
		}
	}

	var sum float64
	for _, a := range x.Answers {
		s := byVoice[a.Voice.ID]
		score := s.FeelingScore
		a.FeelingScore = &score
		a.TranscribedText = s.TranscribedText
		sum += score
	}

	mean := sum / float64(len(x.Answers))
	now := clock.Now(ctx)
	x.FeelingState = &mean
	x.AnalyzeTime = &now
	x.UpdatedAt = now
	x.Status = types.SessionStatusScored
	return nil
}

func (x *Session) IsScored() bool {
	return x.Status == types.SessionStatusScored && x.FeelingState != nil && x.AnalyzeTime != nil
}

// RecordedVoices returns the answer voices owned by the session.
func (x *Session) RecordedVoices() []*voice.Voice {
	var voices []*voice.Voice
	for _, a := range x.Answers {
		if a.Voice != nil && !a.Voice.IsSynthesized() {
			voices = append(voices, a.Voice)
		}
	}
	return voices
}

// Copy returns a deep copy of the session.
func (x *Session) Copy() *Session {
	c := *x
	c.Prompts = make([]*Prompt, len(x.Prompts))
	for i, p := range x.Prompts {
		pc := *p
		if p.Voice != nil {
			v := *p.Voice
			pc.Voice = &v
		}
		c.Prompts[i] = &pc
	}
	c.Answers = make([]*Answer, len(x.Answers))
	for i, a := range x.Answers {
		ac := *a
		if a.Voice != nil {
			v := *a.Voice
			ac.Voice = &v
		}
		if a.FeelingScore != nil {
			score := *a.FeelingScore
			ac.FeelingScore = &score
		}
		c.Answers[i] = &ac
	}
	if x.FeelingState != nil {
		fs := *x.FeelingState
		c.FeelingState = &fs
	}
	if x.AnalyzeTime != nil {
		at := *x.AnalyzeTime
		c.AnalyzeTime = &at
	}
	return &c
}

func (x *Session) Validate() error {
	if err := x.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session", goerr.T(errs.TagInvalidArgument))
	}
	if x.UserID == "" {
		return x.builder().New("session has no user", goerr.T(errs.TagInvalidArgument))
	}
	if err := x.Status.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session", goerr.TV(errs.SessionIDKey, x.ID), goerr.T(errs.TagInvalidArgument))
	}
	if x.Status == types.SessionStatusScored && (x.FeelingState == nil || x.AnalyzeTime == nil) {
		return x.builder().New("scored session lacks feeling state", goerr.T(errs.TagInvariant))
	}
	return nil
}
