package model

import (
	"fmt"
	"strings"
)

// SortKey selects the metric used for ranking.
type SortKey int

const (
	SortBySent SortKey = iota
	SortByRecv
)

// String returns a human-readable name for the SortKey.
func (s SortKey) String() string {
	switch s {
	case SortBySent:
		return "sent"
	case SortByRecv:
		return "recv"
	default:
		return fmt.Sprintf("SortKey(%d)", s)
	}
}

// ParseSortKey parses "sent" or "recv" (also "received").
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sent":
		return SortBySent, nil
	case "recv", "received":
		return SortByRecv, nil
	default:
		return 0, fmt.Errorf("unknown sort key %q", s)
	}
}

// ViewMode selects which metric is displayed.
type ViewMode int

// View modes, in the order 'm' cycles through them.
const (
	ModeKBps ViewMode = iota
	ModeTotalKB
	ModeTotalB
	ModeTotalMB

	numViewModes
)

// Next returns the mode after m, wrapping after the last one.
func (m ViewMode) Next() ViewMode {
	return (m + 1) % numViewModes
}

// Valid reports whether m is one of the defined modes.
func (m ViewMode) Valid() bool {
	return m >= ModeKBps && m < numViewModes
}

// String returns the configuration name of the mode.
func (m ViewMode) String() string {
	switch m {
	case ModeKBps:
		return "kbps"
	case ModeTotalKB:
		return "total-kb"
	case ModeTotalB:
		return "total-b"
	case ModeTotalMB:
		return "total-mb"
	default:
		return fmt.Sprintf("ViewMode(%d)", m)
	}
}

// Unit returns the unit label shown next to the metrics.
// It panics on an undefined mode.
func (m ViewMode) Unit() string {
	switch m {
	case ModeKBps:
		return "KB/sec"
	case ModeTotalKB:
		return "KB"
	case ModeTotalB:
		return "B"
	case ModeTotalMB:
		return "MB"
	default:
		panic(fmt.Sprintf("model: invalid view mode %d", int(m)))
	}
}

// ParseViewMode parses a mode name as returned by ViewMode.String.
func ParseViewMode(s string) (ViewMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m := ModeKBps; m < numViewModes; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown view mode %q", s)
}

// ViewState is the display state shared by input handling, aggregation and
// rendering.
type ViewState struct {
	Sort SortKey
	Mode ViewMode

	// LastTotalRow is the terminal row of the totals line drawn in the
	// previous frame. Rows up to it are cleared before the next frame.
	LastTotalRow int
}

// DefaultViewState sorts by received bytes and shows rates.
func DefaultViewState() ViewState {
	return ViewState{Sort: SortByRecv, Mode: ModeKBps}
}

// Line is the per-refresh display record of one process.
type Line struct {
	Name   string
	Device string
	PID    int32
	UID    uint32
	Sent   float64 // in the unit of the active view mode
	Recv   float64
}

// NewLine builds a display record for p. It panics on a negative pid.
func NewLine(p *Process, sent, recv float64) Line {
	if p.PID < 0 {
		panic(fmt.Sprintf("model: negative pid %d for %q", p.PID, p.Name))
	}
	return Line{
		Name:   p.Name,
		Device: p.Device,
		PID:    p.PID,
		UID:    p.UID,
		Sent:   sent,
		Recv:   recv,
	}
}

// Metric returns the value ranked by key.
func (l Line) Metric(key SortKey) float64 {
	if key == SortByRecv {
		return l.Recv
	}
	return l.Sent
}
