package scan

import (
	"context"
	"io"
	"sync"
	"time"

	"DepthScan/internal/collector"
	"DepthScan/internal/model"
	"DepthScan/internal/notifier"
	"DepthScan/internal/recorder"
	"DepthScan/internal/report"
	"DepthScan/internal/strategy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender delivers a run summary to a chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options wires a Runner.
type Options struct {
	Engine   *strategy.Engine
	Source   collector.Source
	Files    map[model.TableKind]string
	Writer   *report.Writer
	Console  io.Writer
	Recorder recorder.Recorder
	// Sender is optional; nil disables notifications.
	Sender     Sender
	TopK       int
	MaxRetries int
	Manifest   bool
	Log        *zap.Logger
}

// Outcome is the result of one analysis within a run.
type Outcome struct {
	Name  string
	Files []report.Written
	Err   error
}

// Run is everything one invocation produced.
type Run struct {
	ID       string
	Stamp    string
	Started  time.Time
	Finished time.Time
	Outcomes []Outcome
	Scores   []model.ScanScore
	Manifest string
}

// Failed counts analyses that did not complete.
func (r *Run) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Runner executes the selected analyses against a fresh snapshot load.
type Runner struct {
	opts Options
	mu   sync.Mutex
	now  func() time.Time
}

func NewRunner(opts Options) *Runner {
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.Console == nil {
		opts.Console = io.Discard
	}
	return &Runner{opts: opts, now: time.Now}
}

// Run loads the input tables once per run and executes each named analysis
// (all when names is empty) in order. A failed analysis is logged and
// recorded; the others still run.
func (r *Runner) Run(ctx context.Context, names []string) (*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	analyses, err := r.opts.Engine.Select(names)
	if err != nil {
		return nil, err
	}

	started := r.now()
	run := &Run{ID: uuid.New().String(), Stamp: report.Stamp(started), Started: started}
	log := r.opts.Log.With(zap.String("run_id", run.ID))
	log.Info("scan started", zap.String("source", r.opts.Source.Name()), zap.Int("analyses", len(analyses)))

	col := collector.NewCollector(r.opts.Source, r.opts.Files, log)
	for _, a := range analyses {
		if ctx.Err() != nil {
			run.Outcomes = append(run.Outcomes, Outcome{Name: a.Name, Err: ctx.Err()})
			continue
		}
		out, scores := r.runOne(col, a, run.Stamp, log)
		run.Outcomes = append(run.Outcomes, out)
		run.Scores = append(run.Scores, scores...)
	}
	run.Finished = r.now()

	if r.opts.Manifest {
		path, err := report.WriteManifest(r.opts.Writer.Dir(), run.Stamp, r.manifest(run))
		if err != nil {
			log.Error("write manifest", zap.Error(err))
		} else {
			run.Manifest = path
		}
	}
	r.record(run, log)
	r.notify(ctx, run, log)

	log.Info("scan finished",
		zap.Int("failed", run.Failed()),
		zap.Duration("elapsed", run.Finished.Sub(run.Started)),
	)
	return run, nil
}

func (r *Runner) runOne(col *collector.Collector, a strategy.Analysis, stamp string, log *zap.Logger) (Outcome, []model.ScanScore) {
	out := Outcome{Name: a.Name}
	alog := log.With(zap.String("analysis", a.Name))

	snap, err := col.Snapshot(a.Requires, a.Optional)
	if err != nil {
		alog.Error("analysis aborted, input not available", zap.Error(err))
		out.Err = err
		return out, nil
	}
	res, err := a.Run(snap)
	if err != nil {
		alog.Error("analysis failed", zap.Error(err))
		out.Err = err
		return out, nil
	}
	for _, rep := range res.Reports {
		report.Print(r.opts.Console, rep)
	}
	written, err := r.opts.Writer.WriteAll(stamp, res.Reports)
	if err != nil {
		alog.Error("reports not written", zap.Error(err))
		out.Err = err
		return out, nil
	}
	out.Files = written
	alog.Info("analysis complete", zap.Int("files", len(written)))
	return out, res.Scores
}

func (r *Runner) manifest(run *Run) *report.Manifest {
	m := &report.Manifest{
		RunID:    run.ID,
		Started:  run.Started,
		Finished: run.Finished,
		InputDir: r.opts.Source.Name(),
	}
	for _, o := range run.Outcomes {
		e := report.ManifestEntry{Name: o.Name, Status: report.StatusOK}
		if o.Err != nil {
			e.Status, e.Error = report.StatusFailed, o.Err.Error()
		}
		for _, f := range o.Files {
			e.Files = append(e.Files, report.ManifestFile{Path: f.Path, Rows: f.Rows})
		}
		m.Analyses = append(m.Analyses, e)
	}
	return m
}

func (r *Runner) record(run *Run, log *zap.Logger) {
	rec := &recorder.RunRecord{
		RunID:      run.ID,
		StartedAt:  run.Started,
		FinishedAt: run.Finished,
		InputDir:   r.opts.Source.Name(),
		Failed:     run.Failed(),
	}
	for _, o := range run.Outcomes {
		a := recorder.AnalysisResult{Name: o.Name, Status: report.StatusOK, Reports: len(o.Files)}
		for _, f := range o.Files {
			a.Rows += f.Rows
		}
		if o.Err != nil {
			a.Status, a.Error = report.StatusFailed, o.Err.Error()
		}
		rec.Analyses = append(rec.Analyses, a)
	}
	if err := r.opts.Recorder.RecordRun(rec); err != nil {
		log.Error("record run", zap.Error(err))
	}

	scores := make([]recorder.ScoreRecord, 0, len(run.Scores))
	for _, s := range run.Scores {
		scores = append(scores, recorder.ScoreRecord{
			RunID: run.ID, Symbol: s.Symbol, Total: s.Total, Tier: s.Tier.Key,
			Whale: s.Whale, Trend: s.Trend, WhaleCost: s.WhaleCost, Close: s.Close,
		})
	}
	if err := r.opts.Recorder.RecordScores(scores); err != nil {
		log.Error("record scores", zap.Error(err))
	}
}

// Summary condenses a run for the chat notification.
func (r *Runner) Summary(run *Run) *notifier.ScanSummary {
	s := &notifier.ScanSummary{
		RunID:    run.ID,
		Started:  run.Started,
		Duration: run.Finished.Sub(run.Started),
		Analyses: len(run.Outcomes),
	}
	for _, o := range run.Outcomes {
		s.Files += len(o.Files)
		if o.Err != nil {
			s.Failed = append(s.Failed, o.Name)
		}
	}
	top := r.opts.TopK
	if top <= 0 || top > len(run.Scores) {
		top = len(run.Scores)
	}
	s.Top = run.Scores[:top]
	return s
}

func (r *Runner) notify(ctx context.Context, run *Run, log *zap.Logger) {
	if r.opts.Sender == nil {
		return
	}
	text := notifier.FormatScanSummary(r.Summary(run))
	if err := r.opts.Sender.SendWithRetry(ctx, text, r.opts.MaxRetries); err != nil {
		log.Error("send notification", zap.Error(err))
	}
}
