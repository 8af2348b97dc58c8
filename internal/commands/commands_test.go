package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"taskview/internal/commands"
	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/service"
	"taskview/internal/testutil"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// seeded returns a FakeService whose dashboard numbers are
// 1 "Buy milk", 2 "Write report", 3 "Walk dog"; archived 1 is "Old thing".
func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.Now = func() time.Time { return base.Add(24 * time.Hour) }
	svc.AddTask(service.Task{ID: "t1", Title: "Buy milk", Priority: service.PriorityHigh, Labels: []string{"home"}, DueDate: "2024-01-09", UpdatedAt: base.Add(3 * time.Hour)})
	svc.AddTask(service.Task{ID: "t2", Title: "Write report", Priority: service.PriorityLow, Labels: []string{"work"}, DueDate: "2024-01-10", UpdatedAt: base.Add(2 * time.Hour)})
	svc.AddTask(service.Task{ID: "t3", Title: "Walk dog", Priority: service.PriorityMedium, UpdatedAt: base.Add(time.Hour)})
	svc.AddTask(service.Task{ID: "t4", Title: "Old thing", Completed: true, UpdatedAt: base})
	return svc
}

const (
	lineMilk   = "   1  Buy milk  [High]  due 2024-01-09  #home\n"
	lineReport = "   2  Write report  [Low]  due 2024-01-10  #work\n"
	lineDog    = "   3  Walk dog  [Medium]\n"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:      t.TempDir(),
		Quiet:    quiet,
		Settings: config.DefaultSettings(),
	}

	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expect(t *testing.T, gotOut, gotErr string, gotCode int, wantOut, wantErr string, wantCode int) {
	t.Helper()
	if gotCode != wantCode {
		t.Errorf("expected exit code %d, got %d (stderr %q)", wantCode, gotCode, gotErr)
	}
	if gotOut != wantOut {
		t.Errorf("stdout:\nwant %q\ngot  %q", wantOut, gotOut)
	}
	if gotErr != wantErr {
		t.Errorf("stderr:\nwant %q\ngot  %q", wantErr, gotErr)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)
	expect(t, stdout, stderr, code, "taskview 0.1.0\n", "", exitcode.Success)
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
	for _, want := range []string{"Usage:", "taskview scheduled", "priority-high", "id:<id>"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

// Views

func TestListCommand_Dashboard(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), nil, false)
	expect(t, stdout, stderr, code, lineMilk+lineReport+lineDog, "", exitcode.Success)
}

func TestListCommand_Empty(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, false)
	expect(t, stdout, stderr, code, "no tasks found\n", "", exitcode.Success)

	stdout, stderr, code = runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, true)
	expect(t, stdout, stderr, code, "", "", exitcode.Success)
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), []string{"work"}, false)
	expect(t, stdout, stderr, code, "", "error: unexpected argument: work\n", exitcode.UserError)
}

func TestListCommand_SortKeepsNumbers(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetSort("title-asc")
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)
	expect(t, stdout, stderr, code, lineMilk+lineDog+lineReport, "", exitcode.Success)
}

func TestListCommand_InvalidSort(t *testing.T) {
	svc := seeded()
	cmd := &commands.ListCmd{}
	cmd.SetSort("newest")
	_, stderr, code := runCommand(t, cmd, svc, nil, false)
	if code != exitcode.UserError || !strings.HasPrefix(stderr, "error: invalid sort key: newest") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}
	if len(svc.Queries) != 0 {
		t.Error("backend called for invalid input")
	}
}

func TestListCommand_Search(t *testing.T) {
	svc := seeded()
	cmd := &commands.ListCmd{}
	cmd.SetSearch("milk", false, true)

	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
	expect(t, stdout, stderr, code, lineMilk, "", exitcode.Success)

	last := svc.Queries[len(svc.Queries)-1]
	if last != (service.Query{Contains: "milk"}) {
		t.Errorf("backend query = %+v", last)
	}
}

func TestListCommand_SearchNoMatch(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetSearch("zebra", false, false)
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)
	expect(t, stdout, stderr, code, "no tasks match \"zebra\"\n", "", exitcode.Success)
}

func TestListCommand_SearchTooShort(t *testing.T) {
	svc := seeded()
	cmd := &commands.ListCmd{}
	cmd.SetSearch(" m ", false, false)

	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
	expect(t, stdout, stderr, code, "", "error: search query too short: \" m \" (minimum 2 characters)\n", exitcode.UserError)
	if len(svc.Queries) != 0 {
		t.Errorf("backend called %d times", len(svc.Queries))
	}
}

func TestListCommand_DegradedSearch(t *testing.T) {
	svc := seeded()
	svc.SearchErr = errors.New("503 unavailable")
	cmd := &commands.ListCmd{}
	cmd.SetSearch("MILK", false, false)

	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
	expect(t, stdout, stderr, code, lineMilk,
		"warning: search unavailable (503 unavailable); showing local matches for \"MILK\"\n", exitcode.Success)
}

func TestListCommand_BackendErrors(t *testing.T) {
	tests := []struct {
		err      error
		wantErr  string
		wantCode int
	}{
		{errors.New("connection refused"), "error: backend error: connection refused\n", exitcode.BackendError},
		{fmt.Errorf("%w: token expired", service.ErrAuth), "error: auth error: token expired\n", exitcode.AuthError},
		{service.ErrTimeout, "error: backend error: request timed out\n", exitcode.BackendError},
	}
	for _, tt := range tests {
		svc := seeded()
		svc.ListTasksErr = tt.err
		stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)
		expect(t, stdout, stderr, code, "", tt.wantErr, tt.wantCode)
	}
}

func TestArchivedCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ArchivedCmd{}, seeded(), nil, false)
	expect(t, stdout, stderr, code, "   1  Old thing\n", "", exitcode.Success)
}

func TestPriorityCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.PriorityCmd{}, seeded(), nil, false)
	expect(t, stdout, stderr, code, lineMilk+lineDog+lineReport, "", exitcode.Success)
}

func TestPriorityCommand_Level(t *testing.T) {
	cmd := &commands.PriorityCmd{}
	cmd.SetLevel("LOW")
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)
	expect(t, stdout, stderr, code, lineReport, "", exitcode.Success)
}

func TestPriorityCommand_InvalidLevel(t *testing.T) {
	cmd := &commands.PriorityCmd{}
	cmd.SetLevel("urgent")
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)
	expect(t, stdout, stderr, code, "", "error: invalid priority: urgent\n", exitcode.UserError)
}

func TestLabelsCommand_Grouped(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.LabelsCmd{}, seeded(), nil, false)
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
	testutil.GoldenString(t, "labels_grouped", stdout)
}

func TestLabelsCommand_OneLabel(t *testing.T) {
	cmd := &commands.LabelsCmd{}
	cmd.SetLabel("WORK")
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)
	want := "------------\nWORK (1)\n------------\n    " + lineReport
	expect(t, stdout, stderr, code, want, "", exitcode.Success)
}

func TestScheduledCommand(t *testing.T) {
	svc := seeded()
	svc.AddTask(service.Task{ID: "t5", Title: "Dentist", DueDate: "2024-01-12", UpdatedAt: base.Add(30 * time.Minute)})
	svc.AddTask(service.Task{ID: "t6", Title: "Pay rent", DueDate: "2024-01-25", UpdatedAt: base.Add(10 * time.Minute)})
	svc.AddTask(service.Task{ID: "t7", Title: "Taxes", DueDate: "2024-03-01", UpdatedAt: base.Add(5 * time.Minute)})
	// Completed tasks stay out of every section even when due.
	svc.AddTask(service.Task{ID: "t8", Title: "Filed invoice", DueDate: "2024-01-10", Completed: true, UpdatedAt: base.Add(4 * time.Hour)})
	svc.AddTask(service.Task{ID: "t9", Title: "Booked flights", DueDate: "2024-01-11", Completed: true, UpdatedAt: base.Add(4 * time.Hour)})
	svc.AddTask(service.Task{ID: "t10", Title: "Paid fine", DueDate: "2024-01-02", Completed: true, UpdatedAt: base.Add(4 * time.Hour)})

	cmd := &commands.ScheduledCmd{}
	cmd.SetNow(time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC))
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
	for _, title := range []string{"Filed invoice", "Booked flights", "Paid fine"} {
		if strings.Contains(stdout, title) {
			t.Errorf("completed task %q listed in schedule:\n%s", title, stdout)
		}
	}
	testutil.GoldenString(t, "scheduled", stdout)
}

func TestScheduledCommand_Nothing(t *testing.T) {
	cmd := &commands.ScheduledCmd{}
	cmd.SetNow(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "Someday"})
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
	expect(t, stdout, stderr, code, "no scheduled tasks\n", "", exitcode.Success)
}

// Mutations

func findByTitle(t *testing.T, svc *testutil.FakeService, title string) service.Task {
	t.Helper()
	tasks, _ := svc.ListTasks(context.Background(), service.Query{})
	i := slices.IndexFunc(tasks, func(task service.Task) bool { return task.Title == title })
	if i < 0 {
		t.Fatalf("task %q not found", title)
	}
	return tasks[i]
}

func TestAddCommand_Success(t *testing.T) {
	svc := seeded()
	cmd := &commands.AddCmd{}
	cmd.SetFields("a dozen", "2024-02-01", "high", "home", "Home", "shop")

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "eggs"}, false)
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	task := findByTitle(t, svc, "Buy eggs")
	if task.Description != "a dozen" || task.DueDate != "2024-02-01" || task.Priority != service.PriorityHigh {
		t.Errorf("task = %+v", task)
	}
	if !slices.Equal(task.Labels, []string{"home", "shop"}) {
		t.Errorf("labels = %v", task.Labels)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, seeded(), []string{"Read"}, true)
	expect(t, stdout, stderr, code, "", "", exitcode.Success)
}

func TestAddCommand_ValidationBeforeBackend(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		due     string
		pri     string
		wantErr string
	}{
		{"no title", nil, "", "", "error: title required\n"},
		{"blank title", []string{"  "}, "", "", "error: title required\n"},
		{"bad priority", []string{"x"}, "", "urgent", "error: invalid priority: urgent\n"},
		{"bad due", []string{"x"}, "someday", "", "error: invalid due date: someday\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seeded()
			svc.CreateTaskErr = errors.New("must not be called")
			cmd := &commands.AddCmd{}
			cmd.SetFields("", tt.due, tt.pri)
			stdout, stderr, code := runCommand(t, cmd, svc, tt.args, false)
			expect(t, stdout, stderr, code, "", tt.wantErr, exitcode.UserError)
		})
	}
}

func TestAddCommand_DuplicateTitle(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, seeded(), []string{"buy", "MILK"}, false)
	expect(t, stdout, stderr, code, "", "error: a task with this title already exists\n", exitcode.UserError)
}

func TestEditCommand(t *testing.T) {
	svc := seeded()
	cmd := &commands.EditCmd{}
	cmd.SetTitle("Write summary")
	cmd.SetPriority("high")

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"2"}, false)
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	task, _ := svc.Task("t2")
	if task.Title != "Write summary" || task.Priority != service.PriorityHigh {
		t.Errorf("task = %+v", task)
	}
	if task.DueDate != "2024-01-10" || !slices.Equal(task.Labels, []string{"work"}) {
		t.Errorf("unchanged fields lost: %+v", task)
	}
}

func TestEditCommand_ClearDue(t *testing.T) {
	svc := seeded()
	cmd := &commands.EditCmd{}
	cmd.SetDue("")
	if _, stderr, code := runCommand(t, cmd, svc, []string{"id:t1"}, false); code != exitcode.Success {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
	if task, _ := svc.Task("t1"); task.DueDate != "" {
		t.Errorf("due = %q", task.DueDate)
	}
}

func TestEditCommand_Errors(t *testing.T) {
	withTitle := func(title string) *commands.EditCmd {
		cmd := &commands.EditCmd{}
		cmd.SetTitle(title)
		return cmd
	}
	tests := []struct {
		name     string
		cmd      *commands.EditCmd
		args     []string
		wantErr  string
		wantCode int
	}{
		{"no ref", withTitle("x"), nil, "error: task reference required\n", exitcode.UserError},
		{"bad ref", withTitle("x"), []string{"first"}, "error: invalid task reference: first\n", exitcode.UserError},
		{"nothing to change", &commands.EditCmd{}, []string{"1"}, "error: nothing to change\n", exitcode.UserError},
		{"out of range", withTitle("x"), []string{"9"}, "error: task not found: 9\n", exitcode.UserError},
		{"duplicate", withTitle("Walk dog"), []string{"1"}, "error: a task with this title already exists\n", exitcode.UserError},
		{"blank title", withTitle(" "), []string{"1"}, "error: title required\n", exitcode.UserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCommand(t, tt.cmd, seeded(), tt.args, false)
			expect(t, stdout, stderr, code, "", tt.wantErr, tt.wantCode)
		})
	}
}

func TestArchiveAndRestore(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, &commands.ArchiveCmd{}, svc, []string{"1"}, false)
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	if task, _ := svc.Task("t1"); !task.Completed {
		t.Error("t1 not archived")
	}

	// t4 is archived number 2 now: t1 was modified later.
	stdout, stderr, code = runCommand(t, &commands.RestoreCmd{}, svc, []string{"2"}, false)
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	if task, _ := svc.Task("t4"); task.Completed {
		t.Error("t4 not restored")
	}
}

func TestArchiveCommand_NoChange(t *testing.T) {
	svc := seeded()
	svc.SetCompletedErr = errors.New("must not be called")
	stdout, stderr, code := runCommand(t, &commands.ArchiveCmd{}, svc, []string{"id:t4"}, false)
	expect(t, stdout, stderr, code, "no change\n", "", exitcode.Success)
}

func TestRmCommand(t *testing.T) {
	svc := seeded()
	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"3"}, false)
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	if _, ok := svc.Task("t3"); ok {
		t.Error("t3 not deleted")
	}
}

func TestRmCommand_Archived(t *testing.T) {
	svc := seeded()
	cmd := &commands.RmCmd{}
	cmd.SetArchived(true)
	if _, stderr, code := runCommand(t, cmd, svc, []string{"1"}, true); code != exitcode.Success {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
	if _, ok := svc.Task("t4"); ok {
		t.Error("t4 not deleted")
	}
}

func TestRmCommand_UnknownID(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, seeded(), []string{"id:nope"}, false)
	expect(t, stdout, stderr, code, "", "error: task not found: id:nope\n", exitcode.UserError)
}

func TestTagCommand(t *testing.T) {
	svc := seeded()
	stdout, stderr, code := runCommand(t, &commands.TagCmd{}, svc, []string{"1", "+urgent", "-HOME", "errands"}, false)
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	if task, _ := svc.Task("t1"); !slices.Equal(task.Labels, []string{"urgent", "errands"}) {
		t.Errorf("labels = %v", task.Labels)
	}
}

func TestTagCommand_Errors(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.TagCmd{}, seeded(), []string{"1"}, false)
	expect(t, stdout, stderr, code, "", "error: label required\n", exitcode.UserError)

	stdout, stderr, code = runCommand(t, &commands.TagCmd{}, seeded(), []string{"1", "+"}, false)
	expect(t, stdout, stderr, code, "", "error: empty label\n", exitcode.UserError)

	stdout, stderr, code = runCommand(t, &commands.TagCmd{}, seeded(), []string{"1", "home"}, false)
	expect(t, stdout, stderr, code, "no change\n", "", exitcode.Success)
}

func TestAttachCommand(t *testing.T) {
	svc := seeded()
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCommand(t, &commands.AttachCmd{}, svc, []string{"1", path}, false)
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	data, ok := svc.File("/uploads/t1/notes.txt")
	if !ok || string(data) != "hello" {
		t.Errorf("upload = %q, %v", data, ok)
	}
	if task, _ := svc.Task("t1"); len(task.Attachments) != 1 {
		t.Errorf("attachments = %v", task.Attachments)
	}
}

func TestAttachCommand_Errors(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.AttachCmd{}, seeded(), []string{"1"}, false)
	expect(t, stdout, stderr, code, "", "error: file required\n", exitcode.UserError)

	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, stderr, code = runCommand(t, &commands.AttachCmd{}, seeded(), []string{"1", missing}, false)
	if code != exitcode.UserError || !strings.HasPrefix(stderr, "error: open ") {
		t.Errorf("code %d, stderr %q", code, stderr)
	}

	svc := seeded()
	svc.UploadAttachmentErr = fmt.Errorf("attachments: %w", service.ErrUnsupported)
	path := filepath.Join(t.TempDir(), "a.txt")
	os.WriteFile(path, []byte("x"), 0600)
	_, stderr, code = runCommand(t, &commands.AttachCmd{}, svc, []string{"1", path}, false)
	expect(t, "", stderr, code, "", "error: not supported by this backend: attachments: unsupported by backend\n", exitcode.UserError)
}

func TestShowCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, seeded(), []string{"id:t2"}, false)
	want := "id:          t2\n" +
		"title:       Write report\n" +
		"priority:    Low\n" +
		"due:         2024-01-10\n" +
		"labels:      work\n" +
		"status:      active\n"
	expect(t, stdout, stderr, code, want, "", exitcode.Success)
}
