package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	due         string
	priority    string
	labels      listFlag
}

// SetFields sets the optional fields (for testing).
func (c *AddCmd) SetFields(description, due, priority string, labels ...string) {
	c.description, c.due, c.priority = description, due, priority
	c.labels = labels
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskview add [--desc <text>] [--due <date>] [--priority <p>] [--label <l>]... <title...>"
}
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.Var(&c.labels, "label", "")
	fs.Var(&c.labels, "l", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	in := service.TaskInput{
		Title:       title,
		Description: c.description,
		DueDate:     strings.TrimSpace(c.due),
		Labels:      dedupeLabels(c.labels),
	}
	if strings.TrimSpace(c.priority) != "" {
		p, err := service.ParsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return exitcode.UserError
		}
		in.Priority = p
	}
	if err := in.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, err := svc.CreateTask(ctx, in); err != nil {
		return reportError(errOut, err, "")
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// dedupeLabels trims labels and drops case-insensitive duplicates, keeping
// the first spelling.
func dedupeLabels(labels []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, l := range labels {
		l = strings.TrimSpace(l)
		key := strings.ToLower(l)
		if l == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
