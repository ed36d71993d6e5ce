package model

import (
	"slices"
	"time"
)

// Process is a set of connections attributed to one OS process on one device.
type Process struct {
	PID    int32  // 0 for the unknown-traffic sentinels
	UID    uint32 // Owning user
	Name   string // Program name (or path)
	Device string // Network device the traffic was seen on

	lastSeen time.Time
	conns    []*Connection
}

// NewProcess creates a process with no connections.
func NewProcess(pid int32, uid uint32, name, device string) *Process {
	return &Process{PID: pid, UID: uid, Name: name, Device: device}
}

// Touch records activity at the given time.
func (p *Process) Touch(at time.Time) {
	if at.After(p.lastSeen) {
		p.lastSeen = at
	}
}

// LastPacket returns the most recent activity of the process or any of its
// connections.
func (p *Process) LastPacket() time.Time {
	last := p.lastSeen
	for _, c := range p.conns {
		if lp := c.LastPacket(); lp.After(last) {
			last = lp
		}
	}
	return last
}

// Connections returns the connections in insertion order.
// The slice must not be modified by the caller.
func (p *Process) Connections() []*Connection {
	return p.conns
}

// Connection returns the connection with the given key, or nil.
func (p *Process) Connection(key ConnKey) *Connection {
	for _, c := range p.conns {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// AddConnection appends a connection.
func (p *Process) AddConnection(c *Connection) {
	p.conns = append(p.conns, c)
}

// RetainConnections keeps only the connections for which keep returns true,
// preserving order. It returns how many were removed.
func (p *Process) RetainConnections(keep func(*Connection) bool) int {
	before := len(p.conns)
	p.conns = slices.DeleteFunc(p.conns, func(c *Connection) bool {
		return !keep(c)
	})
	return before - len(p.conns)
}

// release drops all connections so they can be collected.
func (p *Process) release() int {
	n := len(p.conns)
	clear(p.conns)
	p.conns = nil
	return n
}
