// Package refresh implements the per-tick eviction, aggregation and ranking
// of the traffic graph.
package refresh

import (
	"fmt"
	"time"

	"github.com/kostyay/hogwatch/internal/model"
)

// Defaults for the refresh cycle.
const (
	DefaultPeriod         = 1 * time.Second
	DefaultConnTimeout    = 50 * time.Second
	DefaultProcessTimeout = 150 * time.Second
)

// Config holds the timing constants of the refresh cycle.
type Config struct {
	Period         time.Duration // Time between ticks, the rate denominator
	ConnTimeout    time.Duration // Idle time after which a connection is dropped
	ProcessTimeout time.Duration // Idle time after which a process is dropped
}

// DefaultConfig returns the default timing constants.
func DefaultConfig() Config {
	return Config{
		Period:         DefaultPeriod,
		ConnTimeout:    DefaultConnTimeout,
		ProcessTimeout: DefaultProcessTimeout,
	}
}

// Result is the outcome of one aggregation pass.
type Result struct {
	Lines            []model.Line // One per surviving process, in graph order
	EvictedProcesses int
	EvictedConns     int
}

// Engine evicts idle entries from the graph and computes display records.
type Engine struct {
	cfg Config
}

// New creates an Engine. It panics on a non-positive period, which would
// make rates meaningless.
func New(cfg Config) *Engine {
	if cfg.Period <= 0 {
		panic(fmt.Sprintf("refresh: invalid period %v", cfg.Period))
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's timing constants.
func (e *Engine) Config() Config {
	return e.cfg
}

// Aggregate walks the graph, removes processes idle for ProcessTimeout
// (sentinels excepted) and connections idle for ConnTimeout, and returns a
// display record for every surviving process.
//
// The caller must hold the graph lock. An invalid mode panics.
func (e *Engine) Aggregate(g *model.Graph, now time.Time, mode model.ViewMode) Result {
	if !mode.Valid() {
		panic(fmt.Sprintf("refresh: invalid view mode %d", int(mode)))
	}

	res := Result{Lines: make([]model.Line, 0, g.Len())}
	connCutoff := now.Add(-e.cfg.ConnTimeout)

	procs, conns := g.Retain(func(p *model.Process) bool {
		if !g.IsSentinel(p) && !p.LastPacket().Add(e.cfg.ProcessTimeout).After(now) {
			return false
		}
		res.EvictedConns += p.RetainConnections(func(c *model.Connection) bool {
			return c.LastPacket().After(connCutoff)
		})
		sent, recv := e.metrics(p, mode)
		res.Lines = append(res.Lines, model.NewLine(p, sent, recv))
		return true
	})
	res.EvictedProcesses = procs
	res.EvictedConns += conns

	if len(res.Lines) != g.Len() {
		panic(fmt.Sprintf("refresh: %d records for %d processes", len(res.Lines), g.Len()))
	}
	return res
}

// metrics computes the sent and received values of p in the unit of mode.
func (e *Engine) metrics(p *model.Process, mode model.ViewMode) (sent, recv float64) {
	switch mode {
	case model.ModeKBps:
		s, r := drainSum(p)
		return e.toKBps(s), e.toKBps(r)
	case model.ModeTotalB:
		s, r := totalSum(p)
		return float64(s), float64(r)
	case model.ModeTotalKB:
		s, r := totalSum(p)
		return toKB(s), toKB(r)
	case model.ModeTotalMB:
		s, r := totalSum(p)
		return toMB(s), toMB(r)
	default:
		panic(fmt.Sprintf("refresh: invalid view mode %d", int(mode)))
	}
}

// drainSum drains every connection's period counters and sums them.
func drainSum(p *model.Process) (sent, recv uint64) {
	for _, c := range p.Connections() {
		s, r := c.Drain()
		sent += s
		recv += r
	}
	return sent, recv
}

// totalSum sums the cumulative counters without resetting anything.
func totalSum(p *model.Process) (sent, recv uint64) {
	for _, c := range p.Connections() {
		s, r := c.Totals()
		sent += s
		recv += r
	}
	return sent, recv
}

func (e *Engine) toKBps(bytes uint64) float64 {
	return float64(bytes) / e.cfg.Period.Seconds() / 1024
}

func toKB(bytes uint64) float64 {
	return float64(bytes) / 1024
}

func toMB(bytes uint64) float64 {
	return float64(bytes) / 1024 / 1024
}
