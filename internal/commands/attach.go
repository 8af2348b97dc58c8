package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/service"
)

func init() {
	Register(&AttachCmd{})
}

// AttachCmd uploads a file and links it to a task.
type AttachCmd struct {
	name string
}

func (c *AttachCmd) Name() string       { return "attach" }
func (c *AttachCmd) Aliases() []string  { return nil }
func (c *AttachCmd) Synopsis() string   { return "Attach a file to a task" }
func (c *AttachCmd) Usage() string      { return "taskview attach [--name <filename>] <ref> <file>" }
func (c *AttachCmd) NeedsService() bool { return true }

func (c *AttachCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
}

func (c *AttachCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, code := parseRefArg(args, 2, errOut)
	if code != exitcode.Success {
		return code
	}
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: file required")
		return exitcode.UserError
	}

	path := args[1]
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil && info.IsDir() {
		fmt.Fprintf(errOut, "error: not a file: %s\n", path)
		return exitcode.UserError
	}

	name := c.name
	if name == "" {
		name = filepath.Base(path)
	}

	task, err := resolveTaskRef(ctx, cfg, svc, ref, false)
	if err != nil {
		return reportError(errOut, err, ref.Raw)
	}
	if _, err := svc.UploadAttachment(ctx, task.ID, name, f); err != nil {
		return reportError(errOut, err, ref.Raw)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
