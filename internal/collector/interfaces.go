package collector

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"slices"

	"github.com/shirou/gopsutil/v3/net"
)

// ErrNoDevice is returned when no usable network device exists.
var ErrNoDevice = errors.New("no usable network device")

// InterfacesFunc lists the network interfaces of the host.
type InterfacesFunc func(ctx context.Context) ([]net.InterfaceStat, error)

// AddrSet is a set of local addresses.
type AddrSet map[netip.Addr]struct{}

// Contains reports whether addr is local. IPv4-mapped IPv6 addresses match
// their IPv4 form.
func (s AddrSet) Contains(addr netip.Addr) bool {
	_, ok := s[addr.Unmap()]
	return ok
}

// LocalAddrs returns the addresses assigned to device. An empty device
// selects every interface.
func LocalAddrs(ctx context.Context, list InterfacesFunc, device string) (AddrSet, error) {
	ifaces, err := interfaces(ctx, list)
	if err != nil {
		return nil, err
	}

	set := make(AddrSet)
	found := device == ""
	for _, iface := range ifaces {
		if device != "" && iface.Name != device {
			continue
		}
		found = true
		for _, a := range iface.Addrs {
			if prefix, err := netip.ParsePrefix(a.Addr); err == nil {
				set[prefix.Addr().Unmap()] = struct{}{}
			} else if addr, err := netip.ParseAddr(a.Addr); err == nil {
				set[addr.Unmap()] = struct{}{}
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("device %q: %w", device, ErrNoDevice)
	}
	return set, nil
}

// DefaultDevice returns the first interface that is up, is not a loopback,
// and has at least one address.
func DefaultDevice(ctx context.Context, list InterfacesFunc) (string, error) {
	ifaces, err := interfaces(ctx, list)
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if !slices.Contains(iface.Flags, "up") || slices.Contains(iface.Flags, "loopback") {
			continue
		}
		if len(iface.Addrs) == 0 {
			continue
		}
		return iface.Name, nil
	}
	return "", ErrNoDevice
}

func interfaces(ctx context.Context, list InterfacesFunc) ([]net.InterfaceStat, error) {
	if list == nil {
		list = func(ctx context.Context) ([]net.InterfaceStat, error) {
			return net.InterfacesWithContext(ctx)
		}
	}
	ifaces, err := list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}
	return ifaces, nil
}
