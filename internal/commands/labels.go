package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/output"
	"taskview/internal/service"
)

func init() {
	Register(&LabelsCmd{})
}

// NoLabelSection heads the group of tasks without labels.
const NoLabelSection = "(no label)"

// LabelsCmd lists active tasks grouped by label. A task with several labels
// appears under each of them.
type LabelsCmd struct {
	view  viewFlags
	label string
}

// SetLabel restricts the output to one label (for testing).
func (c *LabelsCmd) SetLabel(label string) {
	c.label = label
}

func (c *LabelsCmd) Name() string       { return "labels" }
func (c *LabelsCmd) Aliases() []string  { return []string{"tags"} }
func (c *LabelsCmd) Synopsis() string   { return "List active tasks grouped by label" }
func (c *LabelsCmd) Usage() string      { return "taskview labels [--label <name>] [view flags]" }
func (c *LabelsCmd) NeedsService() bool { return true }

func (c *LabelsCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs)
	fs.StringVar(&c.label, "label", "", "")
}

func (c *LabelsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	label := strings.TrimSpace(c.label)
	keep := isActive
	if label != "" {
		keep = func(t service.Task) bool { return isActive(t) && t.HasLabel(label) }
	}

	data, code := c.view.load(ctx, cfg, svc, "", keep, errOut)
	if code != exitcode.Success {
		return code
	}
	if label != "" {
		output.FormatSectionHeader(out, label, len(data.tasks))
		data.printTasks(cfg, data.tasks, true, out)
		return exitcode.Success
	}
	if len(data.tasks) == 0 {
		data.printEmpty(cfg, out)
		return exitcode.Success
	}

	for _, g := range groupByLabel(data.tasks, cfg.Locale()) {
		output.FormatSectionHeader(out, g.label, len(g.tasks))
		data.printTasks(cfg, g.tasks, true, out)
	}
	return exitcode.Success
}

type labelGroup struct {
	label string
	tasks []service.Task
}

// groupByLabel groups tasks by case-insensitive label, keeping task order.
// Groups are ordered by label in locale order with unlabelled tasks last.
// A group is titled with the first spelling seen.
func groupByLabel(tasks []service.Task, locale string) []labelGroup {
	var groups []labelGroup
	index := map[string]int{}
	var unlabelled []service.Task

	for _, t := range tasks {
		seen := map[string]bool{}
		for _, l := range t.Labels {
			l = strings.TrimSpace(l)
			key := strings.ToLower(l)
			if l == "" || seen[key] {
				continue
			}
			seen[key] = true
			i, ok := index[key]
			if !ok {
				i = len(groups)
				index[key] = i
				groups = append(groups, labelGroup{label: l})
			}
			groups[i].tasks = append(groups[i].tasks, t)
		}
		if len(seen) == 0 {
			unlabelled = append(unlabelled, t)
		}
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	col := collate.New(tag, collate.IgnoreCase)
	slices.SortStableFunc(groups, func(a, b labelGroup) int {
		return col.CompareString(a.label, b.label)
	})

	if len(unlabelled) > 0 {
		groups = append(groups, labelGroup{label: NoLabelSection, tasks: unlabelled})
	}
	return groups
}
