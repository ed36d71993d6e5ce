package model

import (
	"sync/atomic"
	"time"
)

// Connection carries the byte counters of a single flow.
//
// The period counters accumulate between two refreshes and are drained by
// the refresh engine; the cumulative counters only ever grow.
type Connection struct {
	Key ConnKey

	periodSent atomic.Uint64
	periodRecv atomic.Uint64
	sumSent    atomic.Uint64
	sumRecv    atomic.Uint64
	lastPacket atomic.Int64 // unix nanoseconds
}

// NewConnection creates a connection first seen at the given time.
func NewConnection(key ConnKey, at time.Time) *Connection {
	c := &Connection{Key: key}
	c.lastPacket.Store(at.UnixNano())
	return c
}

// Add accounts n bytes in the given direction and bumps the last packet time.
func (c *Connection) Add(dir Direction, n uint64, at time.Time) {
	switch dir {
	case DirSent:
		c.periodSent.Add(n)
		c.sumSent.Add(n)
	default:
		c.periodRecv.Add(n)
		c.sumRecv.Add(n)
	}
	if ts := at.UnixNano(); ts > c.lastPacket.Load() {
		c.lastPacket.Store(ts)
	}
}

// Drain returns the bytes accumulated since the previous drain and resets
// the period counters to zero.
func (c *Connection) Drain() (sent, recv uint64) {
	return c.periodSent.Swap(0), c.periodRecv.Swap(0)
}

// Pending returns the period counters without resetting them.
func (c *Connection) Pending() (sent, recv uint64) {
	return c.periodSent.Load(), c.periodRecv.Load()
}

// Totals returns the lifetime byte counts.
func (c *Connection) Totals() (sent, recv uint64) {
	return c.sumSent.Load(), c.sumRecv.Load()
}

// LastPacket returns the time of the most recent packet.
func (c *Connection) LastPacket() time.Time {
	return time.Unix(0, c.lastPacket.Load())
}
