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
	"taskview/internal/sorter"
)

func init() {
	Register(&PriorityCmd{})
}

// PriorityCmd lists active tasks most important first, optionally only one
// priority level.
type PriorityCmd struct {
	view  viewFlags
	level string
}

// SetLevel sets the priority filter (for testing).
func (c *PriorityCmd) SetLevel(level string) {
	c.level = level
}

func (c *PriorityCmd) Name() string      { return "priority" }
func (c *PriorityCmd) Aliases() []string { return []string{"pri"} }
func (c *PriorityCmd) Synopsis() string  { return "List active tasks by priority" }
func (c *PriorityCmd) Usage() string {
	return "taskview priority [--level high|medium|low] [view flags]"
}
func (c *PriorityCmd) NeedsService() bool { return true }

func (c *PriorityCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
	fs.StringVar(&c.level, "level", "", "")
}

func (c *PriorityCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	keep := isActive
	if strings.TrimSpace(c.level) != "" {
		level, err := service.ParsePriority(c.level)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.level)
			return exitcode.UserError
		}
		keep = func(t service.Task) bool { return isActive(t) && t.Priority == level }
	}

	data, code := c.view.load(ctx, cfg, svc, sorter.PriorityHigh, keep, errOut)
	if code != exitcode.Success {
		return code
	}
	data.printTasks(cfg, data.tasks, false, out)
	return exitcode.Success
}
