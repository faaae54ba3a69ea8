package recorder

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error       { return nil }
func (n *NoopRecorder) RecordScores(_ []ScoreRecord) error { return nil }
func (n *NoopRecorder) Close() error                       { return nil }
