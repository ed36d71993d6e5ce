package collector

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/kostyay/hogwatch/internal/model"
	"github.com/shirou/gopsutil/v3/net"
)

func fakeSockets(conns ...net.ConnectionStat) ListFunc {
	return func(ctx context.Context) ([]net.ConnectionStat, error) {
		return conns, nil
	}
}

func fakeProcesses(names map[int32]string) InfoFunc {
	return func(ctx context.Context, pid int32) (string, uint32, error) {
		name, ok := names[pid]
		if !ok {
			return "", 0, errors.New("no such process")
		}
		return name, 1000, nil
	}
}

func socket(pid int32, typ uint32, ip string, port uint32) net.ConnectionStat {
	return net.ConnectionStat{Pid: pid, Type: typ, Laddr: net.Addr{IP: ip, Port: port}}
}

func TestSocketTable_Lookup(t *testing.T) {
	conns := []net.ConnectionStat{
		socket(100, 1, "10.0.0.1", 52341),
		socket(200, 2, "0.0.0.0", 53),
		socket(300, 1, "::", 8080),
		socket(0, 1, "10.0.0.1", 22),  // kernel socket, skipped
		socket(400, 1, "10.0.0.1", 9), // process vanished
	}
	table := NewSocketTable(fakeSockets(conns...), fakeProcesses(map[int32]string{
		100: "/usr/bin/curl",
		200: "dnsmasq",
		300: "/usr/bin/python3",
	}))
	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}

	tests := []struct {
		name    string
		proto   model.Protocol
		local   string
		wantPID int32
		wantOK  bool
	}{
		{"exact", model.ProtocolTCP, "10.0.0.1:52341", 100, true},
		{"v4 wildcard", model.ProtocolUDP, "10.0.0.1:53", 200, true},
		{"v6 wildcard", model.ProtocolTCP, "192.168.1.5:8080", 300, true},
		{"mapped v4", model.ProtocolTCP, "[::ffff:10.0.0.1]:52341", 100, true},
		{"wrong protocol", model.ProtocolUDP, "10.0.0.1:52341", 0, false},
		{"kernel socket", model.ProtocolTCP, "10.0.0.1:22", 0, false},
		{"vanished", model.ProtocolTCP, "10.0.0.1:9", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := table.Lookup(tt.proto, netip.MustParseAddrPort(tt.local))
			if ok != tt.wantOK || info.PID != tt.wantPID {
				t.Errorf("Lookup(%s, %s) = %+v, %v, want pid %d, %v", tt.proto, tt.local, info, ok, tt.wantPID, tt.wantOK)
			}
		})
	}
}

func TestSocketTable_PrefersSocketUID(t *testing.T) {
	conn := socket(100, 1, "10.0.0.1", 443)
	conn.Uids = []int32{33, 33, 33, 33}
	table := NewSocketTable(fakeSockets(conn), fakeProcesses(map[int32]string{100: "nginx"}))
	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	info, ok := table.Lookup(model.ProtocolTCP, netip.MustParseAddrPort("10.0.0.1:443"))
	if !ok {
		t.Fatal("Lookup failed")
	}
	if info.UID != 33 || info.Name != "nginx" {
		t.Errorf("Lookup() = %+v, want uid 33 name nginx", info)
	}
}

func TestSocketTable_RefreshReplacesTable(t *testing.T) {
	conns := []net.ConnectionStat{socket(100, 1, "10.0.0.1", 1000)}
	table := NewSocketTable(func(ctx context.Context) ([]net.ConnectionStat, error) {
		return conns, nil
	}, fakeProcesses(map[int32]string{100: "a", 200: "b"}))

	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	conns = []net.ConnectionStat{socket(200, 1, "10.0.0.1", 2000)}
	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if _, ok := table.Lookup(model.ProtocolTCP, netip.MustParseAddrPort("10.0.0.1:1000")); ok {
		t.Error("closed socket should be gone after refresh")
	}
	if info, ok := table.Lookup(model.ProtocolTCP, netip.MustParseAddrPort("10.0.0.1:2000")); !ok || info.PID != 200 {
		t.Errorf("Lookup() = %+v, %v, want pid 200", info, ok)
	}
}

func TestSocketTable_RefreshErrorKeepsTable(t *testing.T) {
	fail := false
	table := NewSocketTable(func(ctx context.Context) ([]net.ConnectionStat, error) {
		if fail {
			return nil, errors.New("permission denied")
		}
		return []net.ConnectionStat{socket(100, 1, "10.0.0.1", 1000)}, nil
	}, fakeProcesses(map[int32]string{100: "a"}))

	if err := table.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	fail = true
	if err := table.Refresh(context.Background()); err == nil {
		t.Error("expected an error")
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d after failed refresh, want 1", table.Len())
	}
}

func TestSocketTable_ContextCancellation(t *testing.T) {
	table := NewSocketTable(fakeSockets(socket(100, 1, "10.0.0.1", 1)), fakeProcesses(nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := table.Refresh(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Refresh() = %v, want context.Canceled", err)
	}
}

func TestProtocolOf(t *testing.T) {
	tests := []struct {
		sockType uint32
		want     model.Protocol
	}{
		{1, model.ProtocolTCP},
		{2, model.ProtocolUDP},
		{0, model.ProtocolUnknown},
		{99, model.ProtocolUnknown},
	}
	for _, tt := range tests {
		if got := protocolOf(tt.sockType); got != tt.want {
			t.Errorf("protocolOf(%d) = %q, want %q", tt.sockType, got, tt.want)
		}
	}
}
