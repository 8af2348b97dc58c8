package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"taskview/internal/service"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task service.Task
		want string
	}{
		{"plain", 1, service.Task{Title: "Buy milk"}, "   1  Buy milk\n"},
		{"untitled", 12, service.Task{Title: "  "}, "  12  (untitled)\n"},
		{"newline", 3, service.Task{Title: "a\nb"}, "   3  a b\n"},
		{"no number", 0, service.Task{Title: "x"}, "   -  x\n"},
		{
			"all fields", 2,
			service.Task{Title: "Report", Priority: service.PriorityHigh, DueDate: "2024-01-10", Labels: []string{"work", " ", "q1"}},
			"   2  Report  [High]  due 2024-01-10  #work  #q1\n",
		},
		{"bad due kept raw", 4, service.Task{Title: "x", DueDate: "someday"}, "   4  x  due someday\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.num, tt.task)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatTaskIndented(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskIndented(&buf, 7, service.Task{Title: "x"})
	if want := "       7  x\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatDue(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	tests := map[string]string{
		"":                          "",
		"2024-03-05":                "2024-03-05",
		"2024-03-05T20:30:00Z":      "2024-03-06 05:30",
		"2024-03-05T00:00:00+09:00": "2024-03-05 00:00",
		"2024-03-05T00:00:00Z":      "2024-03-05 09:00",
	}
	for in, want := range tests {
		if got := FormatDue(in, tokyo); got != want {
			t.Errorf("FormatDue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatSectionHeader(t *testing.T) {
	var buf bytes.Buffer
	FormatSectionHeader(&buf, "Today", 2)
	want := "------------\nToday (2)\n------------\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatDegraded(t *testing.T) {
	var buf bytes.Buffer
	FormatDegraded(&buf, "milk", errors.New("503"))
	want := "warning: search unavailable (503); showing local matches for \"milk\"\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
