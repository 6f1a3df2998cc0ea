package commands

import (
	"fmt"
	"strings"
	"time"

	"SocialSphere/internal/cli/model"
)

const timeLayout = "2006-01-02 15:04"

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func printUser(u *model.User) {
	fmt.Fprintf(Out, "@%s (id %d)\n", u.Username, u.ID)
	if u.Email != "" {
		fmt.Fprintf(Out, "  email:   %s\n", u.Email)
	}
	if u.Bio != "" {
		fmt.Fprintf(Out, "  bio:     %s\n", u.Bio)
	}
	if u.Avatar != nil && *u.Avatar != "" {
		fmt.Fprintf(Out, "  avatar:  %s\n", *u.Avatar)
	}
	if u.PostsCount != nil {
		fmt.Fprintf(Out, "  posts:   %d\n", *u.PostsCount)
	}
	fmt.Fprintf(Out, "  joined:  %s\n", fmtTime(u.CreatedAt))
}

func printPost(p *model.Post) {
	liked := " "
	if p.IsLiked {
		liked = "♥"
	}
	fmt.Fprintf(Out, "#%d @%s %s\n", p.ID, p.Author.Username, fmtTime(p.CreatedAt))
	for _, line := range strings.Split(p.Content, "\n") {
		fmt.Fprintf(Out, "  %s\n", line)
	}
	if p.Image != nil && *p.Image != "" {
		fmt.Fprintf(Out, "  [image] %s\n", *p.Image)
	}
	fmt.Fprintf(Out, "  %s %d likes, %d comments\n", liked, p.LikesCount, p.CommentsCount)
}

func printComment(c *model.Comment) {
	fmt.Fprintf(Out, "  [%d] @%s %s: %s\n", c.ID, c.Author.Username, fmtTime(c.CreatedAt), c.Content)
}

func printPager[T any](p *model.Page[T], page int) {
	if page < 1 {
		page = 1
	}
	if p.HasNext() {
		fmt.Fprintf(Out, "-- page %d, %d total; next: page %d\n", page, p.Count, page+1)
		return
	}
	fmt.Fprintf(Out, "-- page %d, %d total\n", page, p.Count)
}
