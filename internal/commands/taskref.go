package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskview/internal/config"
	"taskview/internal/service"
	"taskview/internal/sorter"
)

// IDPrefix marks a task reference as a backend ID.
const IDPrefix = "id:"

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based number in view order; 0 when ID is set
	ID  string // backend ID from an "id:" reference
	Raw string
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from the first argument.
//
// A reference is either the task's number as printed by the list view
// (archived for restore) or "id:" followed by the backend ID.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	raw := strings.TrimSpace(args[0])
	if id, ok := strings.CutPrefix(raw, IDPrefix); ok {
		id = strings.TrimSpace(id)
		if id == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
		}
		return TaskRef{ID: id, Raw: raw}, nil
	}

	if isAllDigits(raw) {
		num, err := strconv.Atoi(raw)
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
		}
		return TaskRef{Num: num, Raw: raw}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// resolveTaskRef returns the task a reference points to. Numbers index the
// active tasks, or the archived tasks when archived is set, in the order
// the list view prints them.
func resolveTaskRef(ctx context.Context, cfg *config.Config, svc service.Service, ref TaskRef, archived bool) (service.Task, error) {
	if ref.ID != "" {
		return svc.GetTask(ctx, ref.ID)
	}

	all, err := svc.ListTasks(ctx, service.Query{})
	if err != nil {
		return service.Task{}, err
	}
	ordered := viewOrder(cfg, all, archived)
	if ref.Num > len(ordered) {
		return service.Task{}, service.ErrNotFound
	}
	return ordered[ref.Num-1], nil
}

// viewOrder returns the active (or archived) tasks in numbering order.
func viewOrder(cfg *config.Config, all []service.Task, archived bool) []service.Task {
	var tasks []service.Task
	for _, t := range all {
		if t.Completed == archived {
			tasks = append(tasks, t)
		}
	}
	return sorter.New(cfg.Locale()).Sort(tasks, sorter.ParseKey(cfg.Settings.DefaultSort))
}

// numbering maps task IDs to their reference numbers. Active and archived
// tasks are numbered separately.
func numbering(cfg *config.Config, all []service.Task) map[string]int {
	nums := make(map[string]int, len(all))
	for _, archived := range []bool{false, true} {
		for i, t := range viewOrder(cfg, all, archived) {
			nums[t.ID] = i + 1
		}
	}
	return nums
}
