package attendance

import "time"

// Source identifies which export layout a line was read from.
type Source string

const (
	SourcePOS         Source = "pos"         // POS export: gross elapsed time
	SourceSpreadsheet Source = "spreadsheet" // spreadsheet export: already break-adjusted
)

// Record is one externally reported shift. It is never persisted on its own;
// the reconciliation engine folds it into a reconciliation day.
type Record struct {
	Date       time.Time
	StartTime  string // "HH:MM"
	EndTime    string // "HH:MM"
	TotalHours float64
	// IsPreNetted reports whether TotalHours already excludes break time.
	IsPreNetted bool
	Source      Source
}
