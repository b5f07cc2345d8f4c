package recorder

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordEvaluation(_ *EvaluationEvent) error     { return nil }
func (n *NoopRecorder) RecordNotification(_ *NotificationEvent) error { return nil }
func (n *NoopRecorder) Close() error                                  { return nil }
