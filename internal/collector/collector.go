// Package collector maps local socket endpoints to the processes that own
// them.
package collector

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"github.com/kostyay/hogwatch/internal/model"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcInfo identifies the owner of a socket.
type ProcInfo struct {
	PID  int32
	UID  uint32
	Name string
}

// Attributor resolves a local endpoint to the process owning it.
type Attributor interface {
	// Refresh rebuilds the endpoint table from the operating system.
	Refresh(ctx context.Context) error
	// Lookup returns the owner of a local endpoint.
	Lookup(proto model.Protocol, local netip.AddrPort) (ProcInfo, bool)
}

// ListFunc lists the sockets of the host.
type ListFunc func(ctx context.Context) ([]net.ConnectionStat, error)

// InfoFunc returns the program name and owning uid of a pid.
type InfoFunc func(ctx context.Context, pid int32) (name string, uid uint32, err error)

type socketKey struct {
	proto model.Protocol
	local netip.AddrPort
}

// processInfo holds cached process name and owner.
type processInfo struct {
	name string
	uid  uint32
	ok   bool
}

// SocketTable is an Attributor backed by the kernel socket tables.
type SocketTable struct {
	list ListFunc
	info InfoFunc

	mu      sync.RWMutex
	sockets map[socketKey]ProcInfo

	processCache map[int32]processInfo
}

// NewSocketTable returns a gopsutil-backed table. Nil funcs select the
// gopsutil defaults.
func NewSocketTable(list ListFunc, info InfoFunc) *SocketTable {
	if list == nil {
		list = listSockets
	}
	if info == nil {
		info = lookupProcess
	}
	return &SocketTable{
		list:    list,
		info:    info,
		sockets: make(map[socketKey]ProcInfo),
	}
}

// Refresh rebuilds the table. On error the previous table is kept.
// Refresh must not be called concurrently with itself.
func (t *SocketTable) Refresh(ctx context.Context) error {
	conns, err := t.list(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connections: %w", err)
	}

	t.processCache = make(map[int32]processInfo)
	sockets := make(map[socketKey]ProcInfo, len(conns))

	for _, conn := range conns {
		if err := ctx.Err(); err != nil {
			return err
		}
		if conn.Pid == 0 {
			continue
		}

		proto := protocolOf(conn.Type)
		if proto == model.ProtocolUnknown {
			continue
		}
		addr, err := netip.ParseAddr(conn.Laddr.IP)
		if err != nil {
			continue
		}

		info := t.getProcessInfo(ctx, conn.Pid)
		if !info.ok {
			continue
		}
		uid := info.uid
		if len(conn.Uids) > 0 && conn.Uids[0] >= 0 {
			uid = uint32(conn.Uids[0])
		}

		key := socketKey{proto: proto, local: netip.AddrPortFrom(addr.Unmap(), uint16(conn.Laddr.Port))}
		sockets[key] = ProcInfo{PID: conn.Pid, UID: uid, Name: info.name}
	}

	t.mu.Lock()
	t.sockets = sockets
	t.mu.Unlock()
	return nil
}

// Lookup finds the owner of local, falling back to a socket bound to the
// unspecified address on the same port.
func (t *SocketTable) Lookup(proto model.Protocol, local netip.AddrPort) (ProcInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	local = netip.AddrPortFrom(local.Addr().Unmap(), local.Port())
	if info, ok := t.sockets[socketKey{proto, local}]; ok {
		return info, true
	}
	for _, unspec := range []netip.Addr{netip.IPv4Unspecified(), netip.IPv6Unspecified()} {
		if info, ok := t.sockets[socketKey{proto, netip.AddrPortFrom(unspec, local.Port())}]; ok {
			return info, true
		}
	}
	return ProcInfo{}, false
}

// Len returns the number of known endpoints.
func (t *SocketTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sockets)
}

func (t *SocketTable) getProcessInfo(ctx context.Context, pid int32) processInfo {
	if info, ok := t.processCache[pid]; ok {
		return info
	}
	name, uid, err := t.info(ctx, pid)
	info := processInfo{name: name, uid: uid, ok: err == nil && name != ""}
	t.processCache[pid] = info
	return info
}

func protocolOf(sockType uint32) model.Protocol {
	switch sockType {
	case 1:
		return model.ProtocolTCP
	case 2:
		return model.ProtocolUDP
	default:
		return model.ProtocolUnknown
	}
}

func listSockets(ctx context.Context) ([]net.ConnectionStat, error) {
	return net.ConnectionsWithContext(ctx, "inet")
}

func lookupProcess(ctx context.Context, pid int32) (string, uint32, error) {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", 0, err
	}

	name, err := proc.ExeWithContext(ctx)
	if err != nil || name == "" {
		if name, err = proc.NameWithContext(ctx); err != nil {
			return "", 0, err
		}
	}

	var uid uint32
	if uids, err := proc.UidsWithContext(ctx); err == nil && len(uids) > 0 {
		uid = uint32(uids[0])
	}
	return name, uid, nil
}
