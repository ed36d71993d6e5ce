package ui

import (
	"time"
)

// TickMsg is sent on each refresh interval.
type TickMsg time.Time
