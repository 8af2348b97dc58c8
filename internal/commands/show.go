package commands

import (
	"context"
	"flag"
	"io"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/output"
	"taskview/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints every field of one task.
type ShowCmd struct {
	archived bool
}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return []string{"info"} }
func (c *ShowCmd) Synopsis() string   { return "Show task details" }
func (c *ShowCmd) Usage() string      { return "taskview show [--archived] <ref>" }
func (c *ShowCmd) NeedsService() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.archived, "archived", false, "")
}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, code := parseRefArg(args, 1, errOut)
	if code != exitcode.Success {
		return code
	}
	task, err := resolveTaskRef(ctx, cfg, svc, ref, c.archived)
	if err != nil {
		return reportError(errOut, err, ref.Raw)
	}
	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
