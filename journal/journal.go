// journal/journal.go
package journal

import "time"

// AlertRecord is one emitted alert persisted for audit and for
// deduplicating repeated notifications across cron runs.
type AlertRecord struct {
	RunID     string
	Kind      string
	Ladder    string
	LivePrice string
	Threshold string
	Message   string
	Time      time.Time
}

// RunRecord summarizes one monitoring run.
type RunRecord struct {
	RunID      string
	Gold       string
	Silver     string
	AlertCount int
	Time       time.Time
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordAlert(AlertRecord) error
	ListAlertsSince(start time.Time) ([]AlertRecord, error)
	Close() error
}
