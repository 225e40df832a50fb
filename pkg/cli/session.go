package cli

import (
	"context"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

type answerView struct {
	Prompt          string   `yaml:"prompt"`
	FeelingScore    *float64 `yaml:"feeling_score,omitempty"`
	TranscribedText string   `yaml:"transcribed_text,omitempty"`
}

type sessionView struct {
	ID           types.SessionID     `yaml:"id"`
	Status       types.SessionStatus `yaml:"status"`
	FeelingState *float64            `yaml:"feeling_state,omitempty"`
	AnalyzeTime  *time.Time          `yaml:"analyze_time,omitempty"`
	CreatedAt    time.Time           `yaml:"created_at"`
	Prompts      []string            `yaml:"prompts,omitempty"`
	Answers      []answerView        `yaml:"answers,omitempty"`
}

func newSessionView(s *session.Session, detail bool) sessionView {
	v := sessionView{
		ID:           s.ID,
		Status:       s.Status,
		FeelingState: s.FeelingState,
		AnalyzeTime:  s.AnalyzeTime,
		CreatedAt:    s.CreatedAt,
	}
	if !detail {
		return v
	}

	for _, p := range s.Prompts {
		v.Prompts = append(v.Prompts, p.Content.Text)
	}
	for _, a := range s.Answers {
		text := ""
		if p := s.Prompt(a.PromptID); p != nil {
			text = p.Content.Text
		}
		v.Answers = append(v.Answers, answerView{
			Prompt:          text,
			FeelingScore:    a.FeelingScore,
			TranscribedText: a.TranscribedText,
		})
	}
	return v
}

type pageView struct {
	Page       int           `yaml:"page"`
	TotalPages int           `yaml:"total_pages"`
	TotalCount int           `yaml:"total_count"`
	Sessions   []sessionView `yaml:"sessions"`
}

func cmdSession() *cli.Command {
	var (
		be      backend
		userRef string
		page    int
		id      string
	)

	idFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "id",
			Usage:       "Session ID",
			Required:    true,
			Destination: &id,
		}
	}

	return &cli.Command{
		Name:  "session",
		Usage: "Inspect and manage analysis sessions",
		Flags: append(be.Flags(), userRefFlag(&userRef)),
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List sessions, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "page",
						Usage:       "Zero-based page number",
						Destination: &page,
					},
				},
				Action: be.withUser(&userRef, func(ctx context.Context, d userScope) error {
					p, err := d.uc.ListSessions(ctx, d.userID, page)
					if err != nil {
						return err
					}
					out := pageView{Page: p.Page, TotalPages: p.TotalPages, TotalCount: p.TotalCount}
					for _, s := range p.Sessions {
						out.Sessions = append(out.Sessions, newSessionView(s, false))
					}
					return printYAML(out)
				}),
			},
			{
				Name:  "show",
				Usage: "Show a session with its answers",
				Flags: []cli.Flag{idFlag()},
				Action: be.withUser(&userRef, func(ctx context.Context, d userScope) error {
					s, err := d.uc.GetSession(ctx, d.userID, types.SessionID(id))
					if err != nil {
						return err
					}
					return printYAML(newSessionView(s, true))
				}),
			},
			{
				Name:  "latest",
				Usage: "Show the most recently scored session",
				Action: be.withUser(&userRef, func(ctx context.Context, d userScope) error {
					s, err := d.uc.LatestSession(ctx, d.userID)
					if err != nil {
						return err
					}
					return printYAML(newSessionView(s, true))
				}),
			},
			{
				Name:  "delete",
				Usage: "Delete a session and its recorded answers",
				Flags: []cli.Flag{idFlag()},
				Action: be.withUser(&userRef, func(ctx context.Context, d userScope) error {
					return d.uc.DeleteSession(ctx, d.userID, types.SessionID(id))
				}),
			},
		},
	}
}
