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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskview help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintf(out, "\nSort keys:\n  %s\n", joinKeys())
	return exitcode.Success
}

const helpText = `Usage:
  taskview                                   List active tasks
  taskview list [view flags]                 List active tasks
  taskview archived [view flags]             List archived tasks
  taskview priority [--level <p>] [view flags]
  taskview labels [--label <name>] [view flags]
  taskview scheduled [view flags]            Overdue, Today, This Week, This Month
  taskview show [--archived] <ref>
  taskview add [--desc <text>] [--due <date>] [--priority <p>] [--label <l>]... <title...>
  taskview edit [--title <t>] [--desc <text>] [--due <date>] [--priority <p>] <ref>
  taskview archive <ref>
  taskview restore <ref>
  taskview rm [--archived] <ref>
  taskview tag <ref> [+label|-label]...
  taskview attach [--name <filename>] <ref> <file>
  taskview login
  taskview logout
  taskview help
  taskview version

A <ref> is the number printed by list (archived for restore) or id:<id>.

View flags:
  --search, -s <q>  Search tasks (at least 2 characters)
  --semantic        Use semantic search (default)
  --contains        Use substring search; with --semantic, both
  --sort <key>      Sort order

Common flags:
  --config <dir>    Override config directory
  --quiet           Suppress informational output
  --debug           Print debug logs to stderr
`
