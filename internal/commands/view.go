package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/output"
	"taskview/internal/search"
	"taskview/internal/service"
	"taskview/internal/session"
	"taskview/internal/sorter"
)

// viewFlags are the search and sort flags shared by every view.
type viewFlags struct {
	search   string
	semantic bool
	contains bool
	sort     string
}

func (v *viewFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&v.search, "search", "", "")
	fs.StringVar(&v.search, "s", "", "")
	fs.BoolVar(&v.semantic, "semantic", false, "")
	fs.BoolVar(&v.contains, "contains", false, "")
	fs.StringVar(&v.sort, "sort", "", "")
}

// viewData is what a view renders: the tasks matching the search, already
// sorted, and the reference number of each task.
type viewData struct {
	tasks   []service.Task
	numbers map[string]int
	query   string
}

// load validates the flags, fetches the listing, applies the search and
// keeps the tasks accepted by keep. viewSort, when set, replaces the
// configured default_sort; --sort overrides both. On failure the returned
// code is non-zero and the error has been printed.
func (v *viewFlags) load(ctx context.Context, cfg *config.Config, svc service.Service, viewSort sorter.Key, keep func(service.Task) bool, errOut io.Writer) (viewData, int) {
	sortKey := sorter.ParseKey(cfg.Settings.DefaultSort)
	if viewSort != "" {
		sortKey = viewSort
	}
	if v.sort != "" {
		if !slices.Contains(sorter.Keys, sorter.Key(v.sort)) {
			fmt.Fprintf(errOut, "error: invalid sort key: %s (one of %s)\n", v.sort, joinKeys())
			return viewData{}, exitcode.UserError
		}
		sortKey = sorter.Key(v.sort)
	}

	// Reject bad input before any backend call.
	if err := search.Validate(v.search); err != nil && !errors.Is(err, search.ErrEmptyQuery) {
		return viewData{}, reportError(errOut, err, "")
	}

	s := session.New(cfg.Locale())
	s.SetModes(v.semantic, v.contains)
	s.SetSortKey(string(sortKey))

	res, err := s.Load(ctx, svc)
	if err != nil {
		return viewData{}, reportError(errOut, err, "")
	}
	if strings.TrimSpace(v.search) != "" {
		res, err = s.Search(ctx, svc, v.search)
		if err != nil {
			return viewData{}, reportError(errOut, err, "")
		}
		if res.Degraded {
			output.FormatDegraded(errOut, res.Query, res.Err)
		}
	}

	var tasks []service.Task
	for _, t := range res.Tasks {
		if keep(t) {
			tasks = append(tasks, t)
		}
	}
	return viewData{
		tasks:   s.Sort(tasks),
		numbers: numbering(cfg, s.Snapshot()),
		query:   res.Query,
	}, exitcode.Success
}

// printTasks prints tasks as numbered lines, or "no tasks found".
func (d viewData) printTasks(cfg *config.Config, tasks []service.Task, indent bool, out io.Writer) {
	if len(tasks) == 0 {
		d.printEmpty(cfg, out)
		return
	}
	for _, t := range tasks {
		if indent {
			output.FormatTaskIndented(out, d.numbers[t.ID], t)
		} else {
			output.FormatTask(out, d.numbers[t.ID], t)
		}
	}
}

func (d viewData) printEmpty(cfg *config.Config, out io.Writer) {
	if cfg.Quiet {
		return
	}
	if d.query != "" {
		fmt.Fprintf(out, "no tasks match %q\n", d.query)
		return
	}
	fmt.Fprintln(out, "no tasks found")
}

func joinKeys() string {
	names := make([]string, len(sorter.Keys))
	for i, k := range sorter.Keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func isActive(t service.Task) bool   { return !t.Completed }
func isArchived(t service.Task) bool { return t.Completed }
