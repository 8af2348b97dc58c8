package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/service"
)

func init() {
	Register(&TagCmd{})
}

// TagCmd adds and removes labels. "+name" or a bare name adds, "-name"
// removes. Labels compare case-insensitively.
type TagCmd struct{}

func (c *TagCmd) Name() string       { return "tag" }
func (c *TagCmd) Aliases() []string  { return []string{"label"} }
func (c *TagCmd) Synopsis() string   { return "Add or remove task labels" }
func (c *TagCmd) Usage() string      { return "taskview tag <ref> [+label|-label]..." }
func (c *TagCmd) NeedsService() bool { return true }

func (c *TagCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TagCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	add, remove, err := parseLabelEdits(args[1:])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	task, err := resolveTaskRef(ctx, cfg, svc, ref, false)
	if err != nil {
		return reportError(errOut, err, ref.Raw)
	}

	labels := applyLabelEdits(task.Labels, add, remove)
	if slices.Equal(labels, task.Labels) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no change")
		}
		return exitcode.Success
	}

	in := task.Input()
	in.Labels = labels
	if _, err := svc.UpdateTask(ctx, task.ID, in); err != nil {
		return reportError(errOut, err, ref.Raw)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseLabelEdits splits "+a", "b" and "-c" arguments into additions and
// removals.
func parseLabelEdits(args []string) (add, remove []string, err error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("label required")
	}
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		switch {
		case strings.HasPrefix(arg, "-"):
			remove = append(remove, strings.TrimSpace(arg[1:]))
		case strings.HasPrefix(arg, "+"):
			add = append(add, strings.TrimSpace(arg[1:]))
		default:
			add = append(add, arg)
		}
	}
	for _, l := range slices.Concat(add, remove) {
		if l == "" {
			return nil, nil, fmt.Errorf("empty label")
		}
	}
	return add, remove, nil
}

// applyLabelEdits returns labels with remove dropped and add appended,
// without duplicates. The input slice is not modified.
func applyLabelEdits(labels, add, remove []string) []string {
	out := slices.DeleteFunc(slices.Clone(labels), func(l string) bool {
		return slices.ContainsFunc(remove, func(r string) bool { return strings.EqualFold(l, r) })
	})
	for _, a := range add {
		if !slices.ContainsFunc(out, func(l string) bool { return strings.EqualFold(l, a) }) {
			out = append(out, a)
		}
	}
	return out
}
