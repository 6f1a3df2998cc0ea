package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"SocialSphere/internal/cli/api"
	"SocialSphere/internal/config"
)

// Dispatch is the single entry point to execute CLI commands.
// It prints help and usage messages and returns a process exit code.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if !flag.Parsed() {
		flag.Parse()
	}

	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	name := strings.ToLower(args[0])
	if isHelpFlag(name) {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 0
	}
	if name == "help" { // socialsphere help [command]
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
		if c, ok := Get(args[1]); ok {
			fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
			return 0
		}
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[1])
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	// socialsphere <command> --help
	for _, a := range args[1:] {
		if isHelpFlag(a) {
			fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
			return 0
		}
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 2
	case errors.Is(err, api.ErrAuthExpired):
		fmt.Fprintf(Out, "%s error: session expired, please login again\n", name)
		return 1
	case errors.Is(err, api.ErrRefreshUnavailable):
		fmt.Fprintf(Out, "%s error: could not refresh session, try again later (%v)\n", name, err)
		return 1
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return 1
	}
}

func isHelpFlag(a string) bool {
	return a == "--help" || a == "-h"
}
