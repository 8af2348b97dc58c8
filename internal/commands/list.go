package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/service"
)

func init() {
	Register(&ListCmd{})
	Register(&ArchivedCmd{})
}

// ListCmd implements the dashboard: every active task.
// Handles both `taskview` (no args) and `taskview list`.
type ListCmd struct {
	view viewFlags
}

// SetSearch sets the search query (for testing).
func (c *ListCmd) SetSearch(query string, semantic, contains bool) {
	c.view.search, c.view.semantic, c.view.contains = query, semantic, contains
}

// SetSort sets the sort key (for testing).
func (c *ListCmd) SetSort(key string) {
	c.view.sort = key
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List active tasks" }
func (c *ListCmd) Usage() string      { return "taskview list [view flags]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	data, code := c.view.load(ctx, cfg, svc, "", isActive, errOut)
	if code != exitcode.Success {
		return code
	}
	data.printTasks(cfg, data.tasks, false, out)
	return exitcode.Success
}

// ArchivedCmd lists completed tasks. Its numbers are the ones restore
// accepts.
type ArchivedCmd struct {
	view viewFlags
}

// SetSearch sets the search query (for testing).
func (c *ArchivedCmd) SetSearch(query string, semantic, contains bool) {
	c.view.search, c.view.semantic, c.view.contains = query, semantic, contains
}

func (c *ArchivedCmd) Name() string       { return "archived" }
func (c *ArchivedCmd) Aliases() []string  { return []string{"archive-list"} }
func (c *ArchivedCmd) Synopsis() string   { return "List archived tasks" }
func (c *ArchivedCmd) Usage() string      { return "taskview archived [view flags]" }
func (c *ArchivedCmd) NeedsService() bool { return true }

func (c *ArchivedCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
}

func (c *ArchivedCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	data, code := c.view.load(ctx, cfg, svc, "", isArchived, errOut)
	if code != exitcode.Success {
		return code
	}
	data.printTasks(cfg, data.tasks, false, out)
	return exitcode.Success
}
