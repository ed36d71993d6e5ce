// Package capture reads packets from a device or a pcap file and accounts
// them into the process graph.
package capture

import (
	"errors"
	"net"
	"net/netip"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/kostyay/hogwatch/internal/model"
)

// ErrNotIP is returned for frames without an IPv4 or IPv6 layer.
var ErrNotIP = errors.New("not an IP packet")

// Packet is the part of a captured frame the graph cares about.
type Packet struct {
	Proto model.Protocol
	Src   netip.AddrPort
	Dst   netip.AddrPort
	Len   int // Bytes on the wire
	Time  time.Time
}

// Decode extracts endpoints and length from a decoded frame. Ports are
// zero for traffic other than TCP and UDP.
func Decode(pkt gopacket.Packet) (Packet, error) {
	var src, dst netip.Addr
	switch {
	case pkt.Layer(layers.LayerTypeIPv4) != nil:
		ip := pkt.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
		src, dst = addrOf(ip.SrcIP), addrOf(ip.DstIP)
	case pkt.Layer(layers.LayerTypeIPv6) != nil:
		ip := pkt.Layer(layers.LayerTypeIPv6).(*layers.IPv6)
		src, dst = addrOf(ip.SrcIP), addrOf(ip.DstIP)
	default:
		return Packet{}, ErrNotIP
	}
	if !src.IsValid() || !dst.IsValid() {
		return Packet{}, ErrNotIP
	}

	p := Packet{
		Proto: model.ProtocolUnknown,
		Src:   netip.AddrPortFrom(src, 0),
		Dst:   netip.AddrPortFrom(dst, 0),
		Len:   len(pkt.Data()),
	}
	if meta := pkt.Metadata(); meta != nil {
		p.Time = meta.Timestamp
		if meta.Length > 0 {
			p.Len = meta.Length
		}
	}

	if l := pkt.Layer(layers.LayerTypeTCP); l != nil {
		tcp := l.(*layers.TCP)
		p.Proto = model.ProtocolTCP
		p.Src = netip.AddrPortFrom(src, uint16(tcp.SrcPort))
		p.Dst = netip.AddrPortFrom(dst, uint16(tcp.DstPort))
	} else if l := pkt.Layer(layers.LayerTypeUDP); l != nil {
		udp := l.(*layers.UDP)
		p.Proto = model.ProtocolUDP
		p.Src = netip.AddrPortFrom(src, uint16(udp.SrcPort))
		p.Dst = netip.AddrPortFrom(dst, uint16(udp.DstPort))
	}
	return p, nil
}

func addrOf(ip net.IP) netip.Addr {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}
	}
	return addr.Unmap()
}
