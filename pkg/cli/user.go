package cli

import (
	"context"

	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

type userView struct {
	ID         types.UserID     `yaml:"id"`
	Ref        string           `yaml:"ref"`
	SocialID   string           `yaml:"social_id"`
	SocialType types.SocialType `yaml:"social_type"`
}

func cmdUser() *cli.Command {
	var (
		be         backend
		socialID   string
		socialType string
	)

	return &cli.Command{
		Name:  "user",
		Usage: "Manage users",
		Flags: be.Flags(),
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register a user for a social login",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "social-id",
						Usage:       "ID issued by the login provider",
						Required:    true,
						Destination: &socialID,
					},
					&cli.StringFlag{
						Name:        "social-type",
						Usage:       "Login provider [KAKAO|GOOGLE|APPLE]",
						Required:    true,
						Destination: &socialType,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := be.Configure(ctx)
					defer closer()
					if err != nil {
						return err
					}

					u, err := uc.RegisterUser(ctx, socialID, types.SocialType(socialType))
					if err != nil {
						return err
					}
					return printYAML(userView{
						ID:         u.ID,
						Ref:        u.Ref(),
						SocialID:   u.SocialID,
						SocialType: u.SocialType,
					})
				},
			},
		},
	}
}
