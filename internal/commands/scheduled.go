package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/output"
	"taskview/internal/schedule"
	"taskview/internal/service"
)

func init() {
	Register(&ScheduledCmd{})
}

// ScheduledCmd lists active tasks in due-date sections. Tasks without a
// usable due date are not shown.
type ScheduledCmd struct {
	view viewFlags
	now  func() time.Time
}

// SetNow fixes the reference time (for testing).
func (c *ScheduledCmd) SetNow(now time.Time) {
	c.now = func() time.Time { return now }
}

func (c *ScheduledCmd) Name() string       { return "scheduled" }
func (c *ScheduledCmd) Aliases() []string  { return []string{"due"} }
func (c *ScheduledCmd) Synopsis() string   { return "List active tasks by due date" }
func (c *ScheduledCmd) Usage() string      { return "taskview scheduled [view flags]" }
func (c *ScheduledCmd) NeedsService() bool { return true }

func (c *ScheduledCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
}

func (c *ScheduledCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	data, code := c.view.load(ctx, cfg, svc, "", isActive, errOut)
	if code != exitcode.Success {
		return code
	}

	now := time.Now()
	if c.now != nil {
		now = c.now()
	}
	buckets := schedule.Categorize(data.tasks, now)
	if buckets.Len() == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no scheduled tasks")
		}
		return exitcode.Success
	}

	for _, name := range schedule.Order {
		tasks := buckets.Get(name)
		if len(tasks) == 0 {
			continue
		}
		output.FormatSectionHeader(out, string(name), len(tasks))
		data.printTasks(cfg, tasks, true, out)
	}
	return exitcode.Success
}
