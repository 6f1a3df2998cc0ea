package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"SocialSphere/internal/cli/bootstrap"
	"SocialSphere/internal/config"
)

type commentsCmd struct{}

func (commentsCmd) Name() string        { return "comments" }
func (commentsCmd) Description() string { return "List comments of a post" }
func (commentsCmd) Usage() string       { return "comments <post-id> [page]" }

func (commentsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	postID, err := parseID(args[0])
	if err != nil {
		return err
	}
	page := 1
	if len(args) == 2 {
		if page, err = strconv.Atoi(args[1]); err != nil || page < 1 {
			return ErrUsage
		}
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		p, err := app.Posts.Comments(ctx, postID, page)
		if err != nil {
			return err
		}
		if len(p.Results) == 0 {
			fmt.Fprintln(Out, "No comments")
			return nil
		}
		for i := range p.Results {
			printComment(&p.Results[i])
		}
		printPager(p, page)
		return nil
	})
}

type commentAddCmd struct{}

func (commentAddCmd) Name() string        { return "comment-add" }
func (commentAddCmd) Description() string { return "Comment on a post" }
func (commentAddCmd) Usage() string       { return "comment-add <post-id> <text...>" }

func (commentAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	postID, err := parseID(args[0])
	if err != nil {
		return err
	}
	content := strings.Join(args[1:], " ")
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Posts.AddComment(ctx, postID, content)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Comment #%d added\n", c.ID)
		return nil
	})
}

type commentEditCmd struct{}

func (commentEditCmd) Name() string        { return "comment-edit" }
func (commentEditCmd) Description() string { return "Edit your comment" }
func (commentEditCmd) Usage() string       { return "comment-edit <comment-id> <text...>" }

func (commentEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	content := strings.Join(args[1:], " ")
	return withApp(cfg, func(app *bootstrap.App) error {
		c, err := app.Posts.UpdateComment(ctx, id, content)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Comment #%d updated\n", c.ID)
		printComment(c)
		return nil
	})
}

type commentDeleteCmd struct{}

func (commentDeleteCmd) Name() string        { return "comment-delete" }
func (commentDeleteCmd) Description() string { return "Delete your comment" }
func (commentDeleteCmd) Usage() string       { return "comment-delete <comment-id>" }

func (commentDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		if err := app.Posts.DeleteComment(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Comment #%d deleted\n", id)
		return nil
	})
}

func init() {
	RegisterCmd(commentsCmd{})
	RegisterCmd(commentAddCmd{})
	RegisterCmd(commentEditCmd{})
	RegisterCmd(commentDeleteCmd{})
}
