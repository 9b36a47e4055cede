package ui

import (
	"strings"
	"testing"

	"pyl/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	model := NewProgressModel("pyl diag", []string{"a.pyl", "b.pyl"}, events).(*progressModel)

	apply := func(ev buildpipeline.Event) {
		t.Helper()
		if _, cmd := model.Update(eventMsg(ev)); cmd == nil {
			t.Fatal("Update must keep listening for events")
		}
	}
	apply(buildpipeline.Event{File: "a.pyl", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	apply(buildpipeline.Event{File: "b.pyl", Stage: buildpipeline.StageDiagnose, Status: buildpipeline.StatusError})
	apply(buildpipeline.Event{File: "unknown.pyl", Stage: buildpipeline.StageSema, Status: buildpipeline.StatusWorking})
	apply(buildpipeline.Event{Stage: buildpipeline.StageDiagnose, Status: buildpipeline.StatusWorking})

	if got := model.percent(); got != 0.75 {
		t.Errorf("percent = %v, want 0.75", got)
	}
	view := model.View()
	for _, want := range []string{"parsing a.pyl", "error b.pyl", "pyl diag (checking)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	apply(buildpipeline.Event{File: "a.pyl", Stage: buildpipeline.StageDiagnose, Status: buildpipeline.StatusDone})
	model.Update(doneMsg{})
	if done, failed := model.Summary(); done != 1 || failed != 1 {
		t.Errorf("summary = %d done, %d failed", done, failed)
	}
	if !strings.Contains(model.View(), "done: pyl diag") {
		t.Errorf("final header missing:\n%s", model.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.pyl", 20, "short.pyl"},
		{"very/long/path/file.pyl", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"файл.pyl", 0, "файл.pyl"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
