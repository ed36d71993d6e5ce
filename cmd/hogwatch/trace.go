package main

import (
	"context"
	"log"
	"time"

	"github.com/kostyay/hogwatch/internal/metrics"
	"github.com/kostyay/hogwatch/internal/model"
	"github.com/kostyay/hogwatch/internal/output"
	"github.com/kostyay/hogwatch/internal/refresh"
)

// runTrace prints a refresh every period until ctx is cancelled. When the
// capture finishes cleanly one last refresh is printed before returning.
func runTrace(ctx context.Context, g *model.Graph, e *refresh.Engine, state model.ViewState,
	tw *output.TraceWriter, now func() time.Time, captureDone <-chan error) error {
	ticker := time.NewTicker(e.Config().Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-captureDone:
			if err != nil {
				return err
			}
			return tw.Write(traceTick(g, e, state, now()))
		case <-ticker.C:
			if err := tw.Write(traceTick(g, e, state, now())); err != nil {
				log.Printf("Failed to write trace: %v", err)
				return err
			}
		}
	}
}

// traceTick runs one refresh cycle and collects what the trace prints.
func traceTick(g *model.Graph, e *refresh.Engine, state model.ViewState, now time.Time) output.Tick {
	start := time.Now()

	g.Lock()
	res := e.Aggregate(g, now, state.Mode)
	var unknown []model.ConnKey
	for _, c := range g.UnknownTCP.Connections() {
		unknown = append(unknown, c.Key)
	}
	processes := g.Len()
	g.Unlock()

	metrics.RecordTick(processes, res.EvictedProcesses, res.EvictedConns, time.Since(start))

	return output.Tick{
		Time:    now,
		Mode:    state.Mode,
		Lines:   refresh.Rank(res.Lines, state.Sort),
		Unknown: unknown,
	}
}
