package recorder

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSQLiteRecorder_RecordAndReadBack(t *testing.T) {
	r, err := NewSQLiteRecorder(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer r.Close()

	base := time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC)
	runs := []*RunRecord{
		{
			RunID: "run-1", StartedAt: base, FinishedAt: base.Add(time.Second), InputDir: "/srv/bist",
			Analyses: []AnalysisResult{{Name: "gap", Status: "ok", Reports: 3, Rows: 40}},
		},
		{
			RunID: "run-2", StartedAt: base.Add(24 * time.Hour), FinishedAt: base.Add(24*time.Hour + time.Second), Failed: 1,
			Analyses: []AnalysisResult{
				{Name: "gap", Status: "ok", Reports: 3, Rows: 41},
				{Name: "squeeze", Status: "failed", Error: "missing table"},
			},
		},
	}
	for _, run := range runs {
		if err := r.RecordRun(run); err != nil {
			t.Fatalf("RecordRun(%s): %v", run.RunID, err)
		}
	}
	if err := r.RecordScores([]ScoreRecord{
		{RunID: "run-2", Symbol: "AKBNK", Total: 70, Tier: "strong_buy"},
		{RunID: "run-2", Symbol: "THYAO", Total: 40, Tier: "watch"},
	}); err != nil {
		t.Fatalf("RecordScores: %v", err)
	}

	got, err := r.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	if got[0].RunID != "run-2" || got[0].Failed != 1 || got[0].Analyses != 2 {
		t.Errorf("unexpected newest run: %+v", got[0])
	}
	if !got[1].StartedAt.Equal(base) {
		t.Errorf("unexpected start time: %v", got[1].StartedAt)
	}

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM big_scan_scores WHERE run_id = ?`, "run-2").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 scores, got %d", n)
	}
}

func TestSQLiteRecorder_DuplicateRunRollsBack(t *testing.T) {
	r, err := NewSQLiteRecorder(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer r.Close()

	run := &RunRecord{RunID: "dup", StartedAt: time.Now(), FinishedAt: time.Now(),
		Analyses: []AnalysisResult{{Name: "gap", Status: "ok"}}}
	if err := r.RecordRun(run); err != nil {
		t.Fatalf("first RecordRun: %v", err)
	}
	if err := r.RecordRun(run); err == nil {
		t.Fatal("expected unique constraint error")
	}
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM analysis_results`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected the failed run to roll back, got %d analysis rows", n)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordRun(&RunRecord{}); err != nil {
		t.Error(err)
	}
	if err := r.Close(); err != nil {
		t.Error(err)
	}
}
