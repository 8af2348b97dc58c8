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
	Register(&ArchiveCmd{})
	Register(&RestoreCmd{})
}

// ArchiveCmd marks an active task completed.
type ArchiveCmd struct{}

func (c *ArchiveCmd) Name() string       { return "archive" }
func (c *ArchiveCmd) Aliases() []string  { return []string{"done"} }
func (c *ArchiveCmd) Synopsis() string   { return "Archive (complete) a task" }
func (c *ArchiveCmd) Usage() string      { return "taskview archive <ref>" }
func (c *ArchiveCmd) NeedsService() bool { return true }

func (c *ArchiveCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ArchiveCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, svc, args, true, out, errOut)
}

// RestoreCmd moves an archived task back to the active tasks. Numbers
// refer to the archived view.
type RestoreCmd struct{}

func (c *RestoreCmd) Name() string       { return "restore" }
func (c *RestoreCmd) Aliases() []string  { return []string{"undone"} }
func (c *RestoreCmd) Synopsis() string   { return "Restore an archived task" }
func (c *RestoreCmd) Usage() string      { return "taskview restore <ref>" }
func (c *RestoreCmd) NeedsService() bool { return true }

func (c *RestoreCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RestoreCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, svc, args, false, out, errOut)
}

// runSetCompleted is the shared implementation for archive and restore.
func runSetCompleted(ctx context.Context, cfg *config.Config, svc service.Service, args []string, completed bool, out, errOut io.Writer) int {
	ref, code := parseRefArg(args, 1, errOut)
	if code != exitcode.Success {
		return code
	}

	// Numbers for restore index the archived view.
	task, err := resolveTaskRef(ctx, cfg, svc, ref, !completed)
	if err != nil {
		return reportError(errOut, err, ref.Raw)
	}
	if task.Completed == completed {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no change")
		}
		return exitcode.Success
	}

	if err := svc.SetCompleted(ctx, task.ID, completed); err != nil {
		return reportError(errOut, err, ref.Raw)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
