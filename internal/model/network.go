package model

import (
	"fmt"
	"net/netip"
)

// Protocol represents a network protocol.
type Protocol string

const (
	ProtocolTCP     Protocol = "TCP"
	ProtocolUDP     Protocol = "UDP"
	ProtocolUnknown Protocol = "UNK"
)

// Direction tells whether a packet left or reached the local host.
type Direction int

const (
	DirSent Direction = iota
	DirRecv
)

// String returns a human-readable name for the Direction.
func (d Direction) String() string {
	switch d {
	case DirSent:
		return "sent"
	case DirRecv:
		return "recv"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// ConnKey uniquely identifies a connection within a process.
// For non-TCP/UDP traffic the ports are zero.
type ConnKey struct {
	Protocol Protocol
	Local    netip.AddrPort
	Remote   netip.AddrPort
}

// String formats the key as "PROTO local-remote".
func (k ConnKey) String() string {
	return fmt.Sprintf("%s %s-%s", k.Protocol, formatEndpoint(k.Local), formatEndpoint(k.Remote))
}

// formatEndpoint formats an endpoint as "ip:port", "*" when unset, or the
// bare ip when there is no port.
func formatEndpoint(ap netip.AddrPort) string {
	if !ap.Addr().IsValid() {
		return "*"
	}
	if ap.Port() == 0 {
		return ap.Addr().String()
	}
	return ap.String()
}
