package recorder

import "time"

// RunRecord summarises one scan run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	InputDir   string
	Failed     int
	Analyses   []AnalysisResult
}

// AnalysisResult is the outcome of one analysis within a run.
type AnalysisResult struct {
	Name    string
	Status  string // "ok" or "failed"
	Reports int
	Rows    int
	Error   string
}

// ScoreRecord is one big-scan score.
type ScoreRecord struct {
	RunID     string
	Symbol    string
	Total     int
	Tier      string
	Whale     string
	Trend     string
	WhaleCost float64
	Close     float64
}

// RunSummary is a stored run read back from the database.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Failed    int
	Analyses  int
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordScores(scores []ScoreRecord) error
	Close() error
}
