package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskview/internal/config"
	"taskview/internal/dates"
	"taskview/internal/exitcode"
	"taskview/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd changes the fields of a task given on the command line. An
// explicit empty --due, --desc or --priority clears the field.
type EditCmd struct {
	title       optString
	description optString
	due         optString
	priority    optString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) { c.title.Set(title) }

// SetDue sets the new due date (for testing).
func (c *EditCmd) SetDue(due string) { c.due.Set(due) }

// SetPriority sets the new priority (for testing).
func (c *EditCmd) SetPriority(p string) { c.priority.Set(p) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "taskview edit [--title <t>] [--desc <text>] [--due <date>] [--priority <p>] <ref>"
}
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "desc", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, code := parseRefArg(args, 1, errOut)
	if code != exitcode.Success {
		return code
	}
	if !c.title.set && !c.description.set && !c.due.set && !c.priority.set {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	var priority service.Priority
	if c.priority.set && strings.TrimSpace(c.priority.value) != "" {
		p, err := service.ParsePriority(c.priority.value)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority.value)
			return exitcode.UserError
		}
		priority = p
	}
	if c.title.set && strings.TrimSpace(c.title.value) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if due := strings.TrimSpace(c.due.value); c.due.set && due != "" {
		if _, ok := dates.Parse(due); !ok {
			fmt.Fprintf(errOut, "error: invalid due date: %s\n", due)
			return exitcode.UserError
		}
	}

	task, err := resolveTaskRef(ctx, cfg, svc, ref, false)
	if err != nil {
		return reportError(errOut, err, ref.Raw)
	}

	in := task.Input()
	if c.title.set {
		in.Title = strings.TrimSpace(c.title.value)
	}
	if c.description.set {
		in.Description = c.description.value
	}
	if c.due.set {
		in.DueDate = strings.TrimSpace(c.due.value)
	}
	if c.priority.set {
		in.Priority = priority
	}
	if err := in.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, err := svc.UpdateTask(ctx, task.ID, in); err != nil {
		return reportError(errOut, err, ref.Raw)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseRefArg parses the task reference and checks the positional argument
// count. On failure the error has been printed and the code is non-zero.
func parseRefArg(args []string, want int, errOut io.Writer) (TaskRef, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return TaskRef{}, exitcode.UserError
	}
	if len(args) > want {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[want])
		return TaskRef{}, exitcode.UserError
	}
	return ref, exitcode.Success
}
