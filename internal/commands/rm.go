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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	archived bool
}

// SetArchived makes numbers refer to the archived view (for testing).
func (c *RmCmd) SetArchived(archived bool) {
	c.archived = archived
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "taskview rm [--archived] <ref>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.archived, "archived", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, code := parseRefArg(args, 1, errOut)
	if code != exitcode.Success {
		return code
	}

	task, err := resolveTaskRef(ctx, cfg, svc, ref, c.archived)
	if err != nil {
		return reportError(errOut, err, ref.Raw)
	}

	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		return reportError(errOut, err, ref.Raw)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
