package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pyl/internal/buildpipeline"
	"pyl/internal/ui"
)

type diagnoseOutcome struct {
	result buildpipeline.DiagnoseOutcome
	err    error
}

// runDiagnoseWithUI drives buildpipeline.Diagnose in the background while a
// bubbletea progress view consumes its events.
func runDiagnoseWithUI(ctx context.Context, title string, files []string, req buildpipeline.DiagnoseRequest) (buildpipeline.DiagnoseOutcome, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan diagnoseOutcome, 1)

	go func() {
		req.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Diagnose(ctx, req)
		outcomeCh <- diagnoseOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
