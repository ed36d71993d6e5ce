package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/netip"
	"time"

	"github.com/google/gopacket"
	"github.com/kostyay/hogwatch/internal/collector"
	"github.com/kostyay/hogwatch/internal/metrics"
	"github.com/kostyay/hogwatch/internal/model"
)

// Options configure a Sampler.
type Options struct {
	Device string
	Local  collector.AddrSet

	// RefreshEvery is how often the attribution table is rebuilt.
	RefreshEvery time.Duration

	// Pace replays packets with their recorded spacing instead of as fast
	// as they can be read.
	Pace bool

	Clock func() time.Time
}

// Sampler feeds decoded packets into a graph.
type Sampler struct {
	graph *model.Graph
	attr  collector.Attributor
	opts  Options

	skipped int
}

// NewSampler returns a sampler writing into graph.
func NewSampler(graph *model.Graph, attr collector.Attributor, opts Options) *Sampler {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.RefreshEvery <= 0 {
		opts.RefreshEvery = time.Second
	}
	return &Sampler{graph: graph, attr: attr, opts: opts}
}

// Run reads src until it is exhausted or ctx is cancelled.
func (s *Sampler) Run(ctx context.Context, src Source) error {
	ps := gopacket.NewPacketSource(src, src.LinkType())
	ps.DecodeOptions.Lazy = true
	ps.DecodeOptions.NoCopy = true

	s.refresh(ctx)
	ticker := time.NewTicker(s.opts.RefreshEvery)
	defer ticker.Stop()

	var prev time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.refresh(ctx)
		default:
		}

		pkt, err := ps.NextPacket()
		switch {
		case errors.Is(err, io.EOF):
			log.Printf("capture: end of input, %d frames skipped", s.skipped)
			return nil
		case errors.Is(err, ErrIdle):
			continue
		case err != nil:
			return fmt.Errorf("failed to read packet: %w", err)
		}

		p, err := Decode(pkt)
		if err != nil {
			s.skipped++
			continue
		}
		if s.opts.Pace {
			if !prev.IsZero() && p.Time.After(prev) && !sleep(ctx, p.Time.Sub(prev)) {
				return nil
			}
			prev = p.Time
		}
		s.Ingest(p)
	}
}

// Ingest accounts one packet. Packets are stamped with the sampler clock so
// replayed captures age like live traffic. It reports whether the packet
// belonged to this host.
func (s *Sampler) Ingest(p Packet) bool {
	dir, local, remote, ok := s.orient(p)
	if !ok {
		s.skipped++
		return false
	}

	var info collector.ProcInfo
	attributed := false
	if p.Proto != model.ProtocolUnknown {
		info, attributed = s.attr.Lookup(p.Proto, local)
	}

	now := s.opts.Clock()
	key := model.ConnKey{Protocol: p.Proto, Local: local, Remote: remote}

	s.graph.Lock()
	proc := s.graph.Sentinel(p.Proto)
	if attributed {
		proc = s.graph.Find(info.PID, s.opts.Device)
		if proc == nil {
			proc = model.NewProcess(info.PID, info.UID, info.Name, s.opts.Device)
			s.graph.Add(proc)
		}
	}
	conn := proc.Connection(key)
	if conn == nil {
		conn = model.NewConnection(key, now)
		proc.AddConnection(conn)
	}
	conn.Add(dir, uint64(p.Len), now)
	s.graph.Unlock()

	metrics.RecordPacket(string(p.Proto), dir.String(), attributed, p.Len)
	return true
}

// orient decides the direction of p from the local address set, falling
// back to socket ownership when neither endpoint is a known local address.
func (s *Sampler) orient(p Packet) (dir model.Direction, local, remote netip.AddrPort, ok bool) {
	switch {
	case s.opts.Local.Contains(p.Src.Addr()):
		return model.DirSent, p.Src, p.Dst, true
	case s.opts.Local.Contains(p.Dst.Addr()):
		return model.DirRecv, p.Dst, p.Src, true
	}
	if p.Proto == model.ProtocolUnknown {
		return 0, netip.AddrPort{}, netip.AddrPort{}, false
	}
	if _, found := s.attr.Lookup(p.Proto, p.Src); found {
		return model.DirSent, p.Src, p.Dst, true
	}
	if _, found := s.attr.Lookup(p.Proto, p.Dst); found {
		return model.DirRecv, p.Dst, p.Src, true
	}
	return 0, netip.AddrPort{}, netip.AddrPort{}, false
}

func (s *Sampler) refresh(ctx context.Context) {
	if err := s.attr.Refresh(ctx); err != nil && ctx.Err() == nil {
		log.Printf("capture: attribution refresh failed: %v", err)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Skipped returns the number of frames that were not accounted.
func (s *Sampler) Skipped() int {
	return s.skipped
}
