// Package output writes refresh results as plain text or JSON for use
// outside a terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kostyay/hogwatch/internal/model"
	"github.com/kostyay/hogwatch/internal/refresh"
	"github.com/kostyay/hogwatch/internal/services"
	"github.com/kostyay/hogwatch/internal/users"
)

// Format selects the trace encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Tick is one refresh cycle worth of ranked lines.
type Tick struct {
	Time  time.Time
	Mode  model.ViewMode
	Lines []model.Line

	// Unknown lists the connections held by the unknown TCP process.
	Unknown []model.ConnKey
}

// JSONProcess represents one ranked line in JSON output.
type JSONProcess struct {
	Name   string  `json:"name"`
	PID    int32   `json:"pid"`
	UID    uint32  `json:"uid"`
	User   string  `json:"user"`
	Device string  `json:"device"`
	Sent   float64 `json:"sent"`
	Recv   float64 `json:"recv"`
}

// JSONUnknown is a connection no process could be found for.
type JSONUnknown struct {
	Connection string `json:"connection"`
	Service    string `json:"service,omitempty"`
}

// JSONTick is the root JSON output structure, one per refresh.
type JSONTick struct {
	Timestamp          time.Time     `json:"timestamp"`
	Mode               string        `json:"mode"`
	Unit               string        `json:"unit"`
	Processes          []JSONProcess `json:"processes"`
	TotalSent          float64       `json:"total_sent"`
	TotalRecv          float64       `json:"total_recv"`
	UnknownConnections []JSONUnknown `json:"unknown_connections"`
}

// TraceWriter prints every refresh to a stream.
type TraceWriter struct {
	w      io.Writer
	format Format
	users  users.Resolver
	enc    *json.Encoder
}

// NewTraceWriter returns a writer that encodes ticks in format.
func NewTraceWriter(w io.Writer, format Format, resolver users.Resolver) *TraceWriter {
	if resolver == nil {
		resolver = users.NewCache(nil)
	}
	return &TraceWriter{w: w, format: format, users: resolver, enc: json.NewEncoder(w)}
}

// Write emits one tick.
func (t *TraceWriter) Write(tick Tick) error {
	if t.format == FormatJSON {
		return t.writeJSON(tick)
	}
	return t.writeText(tick)
}

func (t *TraceWriter) writeText(tick Tick) error {
	if _, err := io.WriteString(t.w, "\nRefreshing:\n"); err != nil {
		return err
	}
	for _, l := range tick.Lines {
		if _, err := fmt.Fprintf(t.w, "%s/%d/%d\t%s\t%s\n", l.Name, l.PID, l.UID, formatValue(l.Sent), formatValue(l.Recv)); err != nil {
			return err
		}
	}
	for _, key := range tick.Unknown {
		if _, err := fmt.Fprintf(t.w, "Unknown connection: %s\n", key); err != nil {
			return err
		}
	}
	return nil
}

func (t *TraceWriter) writeJSON(tick Tick) error {
	sent, recv := refresh.Totals(tick.Lines)
	out := JSONTick{
		Timestamp:          tick.Time,
		Mode:               tick.Mode.String(),
		Unit:               tick.Mode.Unit(),
		Processes:          make([]JSONProcess, 0, len(tick.Lines)),
		TotalSent:          sent,
		TotalRecv:          recv,
		UnknownConnections: make([]JSONUnknown, 0, len(tick.Unknown)),
	}
	for _, l := range tick.Lines {
		out.Processes = append(out.Processes, JSONProcess{
			Name:   l.Name,
			PID:    l.PID,
			UID:    l.UID,
			User:   t.users.Username(l.UID),
			Device: l.Device,
			Sent:   l.Sent,
			Recv:   l.Recv,
		})
	}
	for _, key := range tick.Unknown {
		out.UnknownConnections = append(out.UnknownConnections, JSONUnknown{
			Connection: key.String(),
			Service:    services.ForConn(key),
		})
	}
	return t.enc.Encode(out)
}

// formatValue prints up to six significant digits, dropping trailing zeros.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
