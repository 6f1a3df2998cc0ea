package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"SocialSphere/internal/cli/bootstrap"
	"SocialSphere/internal/cli/service"
	"SocialSphere/internal/config"
)

type feedCmd struct{}

func (feedCmd) Name() string        { return "feed" }
func (feedCmd) Description() string { return "List posts, newest first" }
func (feedCmd) Usage() string       { return "feed [page|all]" }

func (feedCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	page, all := 1, false
	if len(args) == 1 {
		if args[0] == "all" {
			all = true
		} else {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return ErrUsage
			}
			page = n
		}
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		p, err := app.Posts.List(ctx, page)
		if err != nil {
			return err
		}
		for {
			if len(p.Results) == 0 && page == 1 {
				fmt.Fprintln(Out, "No posts yet")
			}
			for i := range p.Results {
				printPost(&p.Results[i])
			}
			if !all || !p.HasNext() {
				break
			}
			// ссылка next абсолютная, запрашиваем как есть
			page++
			if p, err = app.Posts.ListNext(ctx, *p.Next); err != nil {
				return err
			}
		}
		printPager(p, page)
		return nil
	})
}

type postCmd struct{}

func (postCmd) Name() string        { return "post" }
func (postCmd) Description() string { return "Show a post with its comments" }
func (postCmd) Usage() string       { return "post <id>" }

func (postCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		p, err := app.Posts.Get(ctx, id)
		if err != nil {
			return err
		}
		printPost(p)
		for i := range p.Comments {
			printComment(&p.Comments[i])
		}
		return nil
	})
}

type postCreateCmd struct{}

func (postCreateCmd) Name() string        { return "post-create" }
func (postCreateCmd) Description() string { return "Publish a post, optionally with an image" }
func (postCreateCmd) Usage() string       { return "post-create [--image=PATH] <text...>" }

func (postCreateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("post-create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	image := fs.String("image", "", "path to image file")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return ErrUsage
	}
	content := strings.Join(fs.Args(), " ")
	file, err := readFormFile(*image)
	if err != nil {
		return err
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		p, err := app.Posts.Create(ctx, service.PostInput{Content: content, Image: file})
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Post #%d created\n", p.ID)
		return nil
	})
}

type postEditCmd struct{}

func (postEditCmd) Name() string        { return "post-edit" }
func (postEditCmd) Description() string { return "Replace the text of your post" }
func (postEditCmd) Usage() string       { return "post-edit <id> <text...>" }

func (postEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	content := strings.Join(args[1:], " ")
	return withApp(cfg, func(app *bootstrap.App) error {
		p, err := app.Posts.Update(ctx, id, content)
		if err != nil {
			return err
		}
		printPost(p)
		return nil
	})
}

type postDeleteCmd struct{}

func (postDeleteCmd) Name() string        { return "post-delete" }
func (postDeleteCmd) Description() string { return "Delete your post" }
func (postDeleteCmd) Usage() string       { return "post-delete <id>" }

func (postDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		if err := app.Posts.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Post #%d deleted\n", id)
		return nil
	})
}

type likeCmd struct{}

func (likeCmd) Name() string        { return "like" }
func (likeCmd) Description() string { return "Like or unlike a post" }
func (likeCmd) Usage() string       { return "like <id>" }

func (likeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		liked, err := app.Posts.Like(ctx, id)
		if err != nil {
			return err
		}
		if liked {
			fmt.Fprintf(Out, "Post #%d liked\n", id)
		} else {
			fmt.Fprintf(Out, "Post #%d unliked\n", id)
		}
		return nil
	})
}

func init() {
	RegisterCmd(feedCmd{})
	RegisterCmd(postCmd{})
	RegisterCmd(postCreateCmd{})
	RegisterCmd(postEditCmd{})
	RegisterCmd(postDeleteCmd{})
	RegisterCmd(likeCmd{})
}
