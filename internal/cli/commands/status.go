package commands

import (
	"context"
	"fmt"

	"SocialSphere/internal/cli/bootstrap"
	"SocialSphere/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the local session state (no network)" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		sess, err := app.Store.Get()
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "API:     %s\n", app.API.BaseURL())
		if sess.IsZero() {
			fmt.Fprintln(Out, "Status:  not logged in")
			return nil
		}
		u, err := app.Auth.CurrentUser()
		if err != nil {
			return err
		}
		if u != nil {
			fmt.Fprintf(Out, "Status:  logged in as @%s\n", u.Username)
		} else {
			fmt.Fprintln(Out, "Status:  logged in")
		}
		fmt.Fprintf(Out, "Access:  %s\n", present(sess.HasAccess()))
		fmt.Fprintf(Out, "Refresh: %s\n", present(sess.HasRefresh()))
		return nil
	})
}

func present(ok bool) string {
	if ok {
		return "stored"
	}
	return "missing"
}

func init() { RegisterCmd(statusCmd{}) }
