package model

import (
	"slices"
	"sync"
)

// Sentinel process names.
const (
	UnknownTCPName = "unknown TCP"
	UnknownUDPName = "unknown UDP"
	UnknownIPName  = "unknown IP"
)

// Graph is the set of processes currently carrying traffic.
//
// The capture side inserts into the graph while the refresh engine drains
// and evicts from it. Both must hold the graph lock for the whole
// operation; Graph methods do not lock on their own.
type Graph struct {
	mu    sync.Mutex
	procs []*Process

	// Traffic that could not be attributed to a process. These entries are
	// never evicted and are identified by pointer.
	UnknownTCP *Process
	UnknownUDP *Process
	UnknownIP  *Process
}

// NewGraph returns a graph holding only the three sentinel processes.
func NewGraph() *Graph {
	g := &Graph{
		UnknownTCP: NewProcess(0, 0, UnknownTCPName, ""),
		UnknownUDP: NewProcess(0, 0, UnknownUDPName, ""),
		UnknownIP:  NewProcess(0, 0, UnknownIPName, ""),
	}
	g.procs = []*Process{g.UnknownTCP, g.UnknownUDP, g.UnknownIP}
	return g
}

// Lock acquires the graph lock.
func (g *Graph) Lock() { g.mu.Lock() }

// Unlock releases the graph lock.
func (g *Graph) Unlock() { g.mu.Unlock() }

// Len returns the number of processes, sentinels included.
func (g *Graph) Len() int {
	return len(g.procs)
}

// Processes returns the processes in insertion order.
// The slice must not be modified by the caller.
func (g *Graph) Processes() []*Process {
	return g.procs
}

// Add appends a process.
func (g *Graph) Add(p *Process) {
	g.procs = append(g.procs, p)
}

// Find returns the process with the given pid on the given device, or nil.
// Sentinels are never returned.
func (g *Graph) Find(pid int32, device string) *Process {
	for _, p := range g.procs {
		if p.PID == pid && p.Device == device && !g.IsSentinel(p) {
			return p
		}
	}
	return nil
}

// IsSentinel reports whether p is one of the unknown-traffic processes.
func (g *Graph) IsSentinel(p *Process) bool {
	return p == g.UnknownTCP || p == g.UnknownUDP || p == g.UnknownIP
}

// Sentinel returns the unknown-traffic process for a protocol.
func (g *Graph) Sentinel(proto Protocol) *Process {
	switch proto {
	case ProtocolTCP:
		return g.UnknownTCP
	case ProtocolUDP:
		return g.UnknownUDP
	default:
		return g.UnknownIP
	}
}

// Retain keeps only the processes for which keep returns true, preserving
// order. Removed processes have their connections released. It returns the
// number of processes and connections removed.
func (g *Graph) Retain(keep func(*Process) bool) (procs, conns int) {
	before := len(g.procs)
	g.procs = slices.DeleteFunc(g.procs, func(p *Process) bool {
		if keep(p) {
			return false
		}
		conns += p.release()
		return true
	})
	return before - len(g.procs), conns
}
