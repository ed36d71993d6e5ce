package collector

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/shirou/gopsutil/v3/net"
)

func fakeInterfaces() InterfacesFunc {
	return func(ctx context.Context) ([]net.InterfaceStat, error) {
		return []net.InterfaceStat{
			{Name: "lo", Flags: []string{"up", "loopback"}, Addrs: []net.InterfaceAddr{{Addr: "127.0.0.1/8"}}},
			{Name: "docker0", Flags: []string{"broadcast", "multicast"}, Addrs: []net.InterfaceAddr{{Addr: "172.17.0.1/16"}}},
			{Name: "eth0", Flags: []string{"up", "broadcast"}, Addrs: []net.InterfaceAddr{
				{Addr: "10.0.0.1/24"},
				{Addr: "fe80::1/64"},
			}},
		}, nil
	}
}

func TestDefaultDevice(t *testing.T) {
	dev, err := DefaultDevice(context.Background(), fakeInterfaces())
	if err != nil {
		t.Fatalf("DefaultDevice failed: %v", err)
	}
	if dev != "eth0" {
		t.Errorf("DefaultDevice() = %q, want eth0", dev)
	}
}

func TestDefaultDevice_None(t *testing.T) {
	list := func(ctx context.Context) ([]net.InterfaceStat, error) {
		return []net.InterfaceStat{{Name: "lo", Flags: []string{"up", "loopback"}}}, nil
	}
	if _, err := DefaultDevice(context.Background(), list); !errors.Is(err, ErrNoDevice) {
		t.Errorf("DefaultDevice() error = %v, want ErrNoDevice", err)
	}
}

func TestLocalAddrs(t *testing.T) {
	set, err := LocalAddrs(context.Background(), fakeInterfaces(), "eth0")
	if err != nil {
		t.Fatalf("LocalAddrs failed: %v", err)
	}

	tests := []struct {
		addr string
		want bool
	}{
		{"10.0.0.1", true},
		{"::ffff:10.0.0.1", true},
		{"fe80::1", true},
		{"127.0.0.1", false},
		{"10.0.0.2", false},
	}
	for _, tt := range tests {
		if got := set.Contains(netip.MustParseAddr(tt.addr)); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestLocalAddrs_AllDevices(t *testing.T) {
	set, err := LocalAddrs(context.Background(), fakeInterfaces(), "")
	if err != nil {
		t.Fatalf("LocalAddrs failed: %v", err)
	}
	if len(set) != 4 {
		t.Errorf("len(set) = %d, want 4", len(set))
	}
}

func TestLocalAddrs_UnknownDevice(t *testing.T) {
	if _, err := LocalAddrs(context.Background(), fakeInterfaces(), "wlan9"); !errors.Is(err, ErrNoDevice) {
		t.Errorf("LocalAddrs() error = %v, want ErrNoDevice", err)
	}
}
