// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskview/internal/dates"
	"taskview/internal/service"
)

const (
	// SectionSeparator is the separator line around section headers.
	SectionSeparator = "------------"
)

// FormatTask formats a task line.
// Format: "{N:>4}  {TITLE}[  [PRIORITY]][  due {DUE}][  #label...]\n".
// A zero num prints "   -" in place of the number.
func FormatTask(w io.Writer, num int, task service.Task) {
	formatTask(w, "", num, task, time.Local)
}

// FormatTaskIndented formats a task line inside a section.
// Same as FormatTask with a 4-space indent.
func FormatTaskIndented(w io.Writer, num int, task service.Task) {
	formatTask(w, "    ", num, task, time.Local)
}

func formatTask(w io.Writer, indent string, num int, task service.Task, loc *time.Location) {
	var b strings.Builder
	b.WriteString(indent)
	if num > 0 {
		fmt.Fprintf(&b, "%4d", num)
	} else {
		b.WriteString("   -")
	}
	b.WriteString("  ")
	b.WriteString(normalizeTitle(task.Title))
	if task.Priority != "" {
		fmt.Fprintf(&b, "  [%s]", task.Priority)
	}
	if due := FormatDue(task.DueDate, loc); due != "" {
		b.WriteString("  due ")
		b.WriteString(due)
	}
	for _, l := range task.Labels {
		if l = strings.TrimSpace(l); l != "" {
			b.WriteString("  #")
			b.WriteString(l)
		}
	}
	b.WriteByte('\n')
	io.WriteString(w, b.String())
}

// FormatDue renders a raw due date for display. Date-only values print as
// YYYY-MM-DD; timed values print in loc. Unparseable values print as-is.
func FormatDue(raw string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, ok := dates.ParseIn(raw, loc)
	if !ok {
		return raw
	}
	if dates.IsDateOnly(raw) {
		return t.UTC().Format("2006-01-02")
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// FormatSectionHeader formats a section header with its task count.
func FormatSectionHeader(w io.Writer, title string, count int) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintf(w, "%s (%d)\n", normalizeSectionTitle(title), count)
	fmt.Fprintln(w, SectionSeparator)
}

// FormatDegraded reports that search results were filtered locally.
func FormatDegraded(w io.Writer, query string, err error) {
	fmt.Fprintf(w, "warning: search unavailable (%v); showing local matches for %q\n", err, query)
}

// FormatTaskDetail prints every field of a task.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "id:          %s\n", task.ID)
	fmt.Fprintf(w, "title:       %s\n", normalizeTitle(task.Title))
	if task.Description != "" {
		fmt.Fprintf(w, "description: %s\n", strings.ReplaceAll(task.Description, "\n", "\n             "))
	}
	if task.Priority != "" {
		fmt.Fprintf(w, "priority:    %s\n", task.Priority)
	}
	if due := FormatDue(task.DueDate, time.Local); due != "" {
		fmt.Fprintf(w, "due:         %s\n", due)
	}
	if len(task.Labels) > 0 {
		fmt.Fprintf(w, "labels:      %s\n", strings.Join(task.Labels, ", "))
	}
	for _, a := range task.Attachments {
		fmt.Fprintf(w, "attachment:  %s\n", a)
	}
	status := "active"
	if task.Completed {
		status = "archived"
	}
	fmt.Fprintf(w, "status:      %s\n", status)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeSectionTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(none)"
	}
	return title
}
