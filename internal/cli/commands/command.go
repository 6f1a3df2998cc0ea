package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"SocialSphere/internal/config"
)

// ErrUsage — аргументы не подходят, dispatcher печатает Usage команды и выходит с кодом 2.
var ErrUsage = errors.New("usage")

// Command — подкоманда CLI.
type Command interface {
	Name() string
	Description() string
	// Usage, e.g. "comment-add <post-id> <text>".
	Usage() string
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// helpSections задаёт порядок групп в общей справке; команды вне списка попадают в "Other".
var helpSections = []struct {
	title string
	names []string
}{
	{"Account", []string{"register", "login", "logout", "status", "profile", "profile-edit", "user"}},
	{"Posts", []string{"feed", "post", "post-create", "post-edit", "post-delete", "like"}},
	{"Comments", []string{"comments", "comment-add", "comment-edit", "comment-delete"}},
}

// RegisterCmd добавляет команду в реестр (вызывается из init()). Повторная регистрация заменяет команду.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds the help text grouped by section.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("SocialSphere CLI\n\n")
	b.WriteString("Usage:\n")
	b.WriteString("  socialsphere [-api-url URL] [-session-store file|sqlite] [-debug] <command> [args]\n")

	seen := make(map[string]bool, len(registry))
	for _, sec := range helpSections {
		var cmds []Command
		for _, name := range sec.names {
			if c, ok := registry[name]; ok {
				cmds = append(cmds, c)
				seen[name] = true
			}
		}
		writeSection(&b, sec.title, cmds)
	}
	var rest []Command
	for _, c := range List() {
		if !seen[c.Name()] {
			rest = append(rest, c)
		}
	}
	writeSection(&b, "Other", rest)
	return b.String()
}

func writeSection(b *strings.Builder, title string, cmds []Command) {
	if len(cmds) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s commands:\n", title)
	for _, c := range cmds {
		fmt.Fprintf(b, "  %-44s %s\n", c.Usage(), c.Description())
	}
}
