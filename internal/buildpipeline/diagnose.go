package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"pyl/internal/driver"
	"pyl/internal/source"
)

// DiagnoseRequest configures one `pyl diag` run.
type DiagnoseRequest struct {
	// TargetPath is a *.pyl file or a directory.
	TargetPath string
	// BaseDir shortens file names in progress events; defaults to the
	// directory target itself.
	BaseDir  string
	Options  driver.DiagnoseOptions
	Jobs     int
	Progress ProgressSink
}

// DiagnoseOutcome holds per-file results in deterministic order.
type DiagnoseOutcome struct {
	FileSet *source.FileSet
	Results []*driver.DiagnoseResult
	// Files are display names parallel to Results.
	Files   []string
	IsDir   bool
	Elapsed time.Duration
}

// ErrorCount sums error diagnostics across all files, including the ones
// dropped by the diagnostics cap.
func (o DiagnoseOutcome) ErrorCount() int {
	return driver.CountErrors(o.Results)
}

// WarningCount is ErrorCount for warnings.
func (o DiagnoseOutcome) WarningCount() int {
	return driver.CountWarnings(o.Results)
}

// ListFiles returns the display names a run over target will report, so a
// progress view can be laid out before the first event.
func ListFiles(target, baseDir string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{displayName(target, baseDir)}, nil
	}
	if baseDir == "" {
		baseDir = target
	}
	paths, err := driver.ListSourceFiles(target)
	if err != nil {
		return nil, err
	}
	return displayNames(paths, baseDir), nil
}

// Diagnose runs the driver over req.TargetPath, translating driver phase
// events into progress events.
func Diagnose(ctx context.Context, req DiagnoseRequest) (DiagnoseOutcome, error) {
	var outcome DiagnoseOutcome
	if ctx == nil {
		ctx = context.Background()
	}
	if req.TargetPath == "" {
		return outcome, errors.New("missing target path")
	}
	info, err := os.Stat(req.TargetPath)
	if err != nil {
		return outcome, fmt.Errorf("stat target: %w", err)
	}
	outcome.IsDir = info.IsDir()

	baseDir := req.BaseDir
	if baseDir == "" && outcome.IsDir {
		baseDir = req.TargetPath
	}

	files, err := ListFiles(req.TargetPath, baseDir)
	if err != nil {
		return outcome, err
	}
	emitQueued(req.Progress, files)
	emit(req.Progress, Event{Stage: StageDiagnose, Status: StatusWorking})

	opts := req.Options
	if req.Progress != nil {
		obs := &phaseObserver{sink: req.Progress, baseDir: baseDir, next: opts.Observer}
		opts.Observer = obs.onPhase
	}

	started := time.Now()
	if outcome.IsDir {
		outcome.FileSet, outcome.Results, err = driver.DiagnoseDir(ctx, req.TargetPath, opts, req.Jobs)
	} else {
		var res *driver.DiagnoseResult
		res, err = driver.Diagnose(ctx, req.TargetPath, opts)
		if res != nil {
			outcome.FileSet = res.FileSet
			outcome.Results = []*driver.DiagnoseResult{res}
		}
	}
	outcome.Elapsed = time.Since(started)

	if err != nil {
		emit(req.Progress, Event{Stage: StageDiagnose, Status: StatusError, Err: err, Elapsed: outcome.Elapsed})
		return outcome, err
	}

	outcome.Files = make([]string, len(outcome.Results))
	for i, r := range outcome.Results {
		if r == nil {
			continue
		}
		outcome.Files[i] = displayName(r.Path, baseDir)
		if r.File == nil {
			// файл не загрузился: драйвер не присылал фаз
			emit(req.Progress, Event{File: outcome.Files[i], Stage: StageLoad, Status: StatusError})
		}
	}

	status := StatusDone
	if outcome.ErrorCount() > 0 {
		status = StatusError
	}
	emit(req.Progress, Event{Stage: StageDiagnose, Status: status, Elapsed: outcome.Elapsed})
	return outcome, nil
}

// phaseObserver is called from driver workers.
type phaseObserver struct {
	mu      sync.Mutex
	sink    ProgressSink
	baseDir string
	next    driver.PhaseObserver
}

func (p *phaseObserver) onPhase(ev driver.PhaseEvent) {
	if p.next != nil {
		p.next(ev)
	}
	file := displayName(ev.File, p.baseDir)

	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case ev.Name == driver.PhaseFile && ev.Status == driver.PhaseEnd:
		status := StatusDone
		if ev.Failed {
			status = StatusError
		}
		p.sink.OnEvent(Event{File: file, Stage: StageDiagnose, Status: status, Elapsed: ev.Elapsed})
	case ev.Status == driver.PhaseStart:
		if stage, ok := stageForPhase(ev.Name); ok {
			p.sink.OnEvent(Event{File: file, Stage: stage, Status: StatusWorking})
		}
	}
}

func stageForPhase(name string) (Stage, bool) {
	switch name {
	case driver.PhaseLoad, driver.PhaseCache:
		return StageLoad, true
	case driver.PhaseTokenize:
		return StageTokenize, true
	case driver.PhaseParse:
		return StageParse, true
	case driver.PhaseSema:
		return StageSema, true
	}
	return "", false
}

func emitQueued(sink ProgressSink, files []string) {
	for _, file := range files {
		emit(sink, Event{File: file, Stage: StageLoad, Status: StatusQueued})
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(ev)
}
