package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTick(t *testing.T) {
	ticks := testutil.ToFloat64(TicksTotal)
	procs := testutil.ToFloat64(EvictedProcessesTotal)
	conns := testutil.ToFloat64(EvictedConnectionsTotal)

	RecordTick(7, 2, 5, 3*time.Millisecond)

	if got := testutil.ToFloat64(TicksTotal) - ticks; got != 1.0 {
		t.Errorf("Expected ticks to grow by 1.0, got %f", got)
	}
	if got := testutil.ToFloat64(Processes); got != 7.0 {
		t.Errorf("Expected processes gauge to be 7.0, got %f", got)
	}
	if got := testutil.ToFloat64(EvictedProcessesTotal) - procs; got != 2.0 {
		t.Errorf("Expected evicted processes to grow by 2.0, got %f", got)
	}
	if got := testutil.ToFloat64(EvictedConnectionsTotal) - conns; got != 5.0 {
		t.Errorf("Expected evicted connections to grow by 5.0, got %f", got)
	}
}

func TestRecordPacket(t *testing.T) {
	PacketsTotal.Reset()
	BytesTotal.Reset()

	RecordPacket("TCP", "sent", true, 100)
	RecordPacket("TCP", "sent", true, 50)
	RecordPacket("UDP", "recv", false, 10)

	if got := testutil.ToFloat64(PacketsTotal.WithLabelValues("TCP", "true")); got != 2.0 {
		t.Errorf("Expected 2.0 attributed TCP packets, got %f", got)
	}
	if got := testutil.ToFloat64(PacketsTotal.WithLabelValues("UDP", "false")); got != 1.0 {
		t.Errorf("Expected 1.0 unattributed UDP packet, got %f", got)
	}
	if got := testutil.ToFloat64(BytesTotal.WithLabelValues("sent")); got != 150.0 {
		t.Errorf("Expected 150.0 sent bytes, got %f", got)
	}
	if got := testutil.ToFloat64(BytesTotal.WithLabelValues("recv")); got != 10.0 {
		t.Errorf("Expected 10.0 received bytes, got %f", got)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0")
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}
