package database

import (
	"time"
)

type RunMode string

const (
	RunModeLive   RunMode = "live"
	RunModeReplay RunMode = "replay"
)

// Run is one pipeline execution as recorded in the runs table.
type Run struct {
	ID         int64
	Source     string // Retailer profile name
	Mode       RunMode
	StartedAt  time.Time
	FinishedAt *time.Time // nil while the run is in progress

	Total      int // Stubs handed to the fetch loop
	Fetched    int
	Reused     int // Served from the known catalog
	Failed     int // Transport failures
	Discarded  int
	Errored    int // Records kept with a diagnostic error
	Saved      int
	SaveFailed int

	Error string
}
