package commands

import (
	"context"
	"flag"
	"io"

	"SocialSphere/internal/cli/bootstrap"
	"SocialSphere/internal/cli/service"
	"SocialSphere/internal/config"
)

type profileCmd struct{}

func (profileCmd) Name() string        { return "profile" }
func (profileCmd) Description() string { return "Show your profile" }
func (profileCmd) Usage() string       { return "profile" }

func (profileCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		u, err := app.Auth.Profile(ctx)
		if err != nil {
			return err
		}
		printUser(u)
		return nil
	})
}

type profileEditCmd struct{}

func (profileEditCmd) Name() string        { return "profile-edit" }
func (profileEditCmd) Description() string { return "Update email, bio or avatar" }
func (profileEditCmd) Usage() string {
	return "profile-edit [--email=E] [--bio=B] [--avatar=PATH]"
}

func (profileEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("profile-edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "new email")
	bio := fs.String("bio", "", "new bio")
	avatar := fs.String("avatar", "", "path to avatar image")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	var upd service.ProfileUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "email":
			upd.Email = email
		case "bio":
			upd.Bio = bio
		}
	})
	file, err := readFormFile(*avatar)
	if err != nil {
		return err
	}
	upd.Avatar = file
	if upd.Email == nil && upd.Bio == nil && upd.Avatar == nil {
		return ErrUsage
	}

	return withApp(cfg, func(app *bootstrap.App) error {
		u, err := app.Auth.UpdateProfile(ctx, upd)
		if err != nil {
			return err
		}
		printUser(u)
		return nil
	})
}

type userCmd struct{}

func (userCmd) Name() string        { return "user" }
func (userCmd) Description() string { return "Show a user's public profile" }
func (userCmd) Usage() string       { return "user <username>" }

func (userCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		u, err := app.Auth.UserByUsername(ctx, args[0])
		if err != nil {
			return err
		}
		printUser(u)
		return nil
	})
}

func init() {
	RegisterCmd(profileCmd{})
	RegisterCmd(profileEditCmd{})
	RegisterCmd(userCmd{})
}
