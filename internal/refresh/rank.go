package refresh

import (
	"slices"

	"github.com/kostyay/hogwatch/internal/model"
)

// Rank returns the lines ordered by non-increasing metric: received bytes
// when key is SortByRecv, sent bytes otherwise. Lines with equal metrics
// keep their input order.
func Rank(lines []model.Line, key model.SortKey) []model.Line {
	sorted := make([]model.Line, len(lines))
	copy(sorted, lines)

	slices.SortStableFunc(sorted, func(a, b model.Line) int {
		return greatestFirst(a.Metric(key), b.Metric(key))
	})

	return sorted
}

// greatestFirst orders a before b when a is larger.
func greatestFirst(a, b float64) int {
	if a > b {
		return -1
	}
	if a == b {
		return 0
	}
	return 1
}

// Totals sums the sent and received metrics over all lines.
func Totals(lines []model.Line) (sent, recv float64) {
	for _, l := range lines {
		sent += l.Sent
		recv += l.Recv
	}
	return sent, recv
}
