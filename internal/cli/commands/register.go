package commands

import (
	"context"
	"fmt"

	"SocialSphere/internal/cli/bootstrap"
	"SocialSphere/internal/cli/service"
	"SocialSphere/internal/config"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and login" }
func (registerCmd) Usage() string       { return "register <username> <email> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	in := service.RegisterInput{Username: args[0], Email: args[1], Password: args[2], PasswordConfirm: args[2]}
	return withApp(cfg, func(app *bootstrap.App) error {
		u, err := app.Auth.Register(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Registered and logged in as @%s\n", u.Username)
		return nil
	})
}

func init() { RegisterCmd(registerCmd{}) }
