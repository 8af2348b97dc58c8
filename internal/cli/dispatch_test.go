package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskview/internal/cli"
	"taskview/internal/commands"
	"taskview/internal/config"
	"taskview/internal/exitcode"
	"taskview/internal/service"
	"taskview/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func run(t *testing.T, factory cli.ServiceFactory, args ...string) (int, string, string) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	code, _, stderr := run(t, testFactory(testutil.NewFakeService()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	code, _, stderr := run(t, testFactory(testutil.NewFakeService()), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	code, stdout, stderr := run(t, testFactory(testutil.NewFakeService()), "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	code, stdout, stderr := run(t, testFactory(testutil.NewFakeService()), "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskview 0.1.0\n" {
		t.Errorf("expected 'taskview 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	code, _, stderr := run(t, testFactory(testutil.NewFakeService()), "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	code, _, stderr := run(t, testFactory(testutil.NewFakeService()), "list", "--sort")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -sort\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_DefaultsToList(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "t1", Title: "Buy milk", Priority: service.PriorityHigh})

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	code, stdout, stderr := run(t, testFactory(svc))

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "Buy milk") {
		t.Errorf("expected task in default listing, got %q", stdout)
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"auth", fmt.Errorf("%w: not logged in (run: taskview login)", service.ErrAuth), exitcode.AuthError},
		{"config", errors.New("invalid base_url: ftp://x"), exitcode.ConfigError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
				return nil, tc.err
			}
			code, stdout, stderr := run(t, factory, "list", "--config", t.TempDir())

			if code != tc.wantCode {
				t.Errorf("expected exit code %d, got %d", tc.wantCode, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			want := "error: " + tc.err.Error() + "\n"
			if stderr != want {
				t.Errorf("expected %q, got %q", want, stderr)
			}
		})
	}
}

func TestDispatcher_CommandWithoutServiceSkipsFactory(t *testing.T) {
	called := false
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		called = true
		return nil, errors.New("should not be called")
	}
	code, _, _ := run(t, factory, "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if called {
		t.Error("factory called for a command that needs no service")
	}
}

func TestDispatcher_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("backend: carrier-pigeon\n"), 0600); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := run(t, testFactory(testutil.NewFakeService()), "list", "--config", dir)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.Contains(stderr, "unknown backend") {
		t.Errorf("expected unknown backend error, got %q", stderr)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	code, stdout, stderr := run(t, testFactory(testutil.NewFakeService()), "list", "--debug", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stderr, "dispatch") || !strings.Contains(stderr, "command=list") {
		t.Errorf("expected debug dispatch line on stderr, got %q", stderr)
	}
	if strings.Contains(stdout, "dispatch") {
		t.Errorf("log output leaked to stdout: %q", stdout)
	}
}
