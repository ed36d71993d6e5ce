package capture

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// ErrIdle is returned by a live source when no packet arrived within its
// poll timeout. Readers should retry.
var ErrIdle = errors.New("capture idle")

// Source is a stream of raw frames.
type Source interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
	Close() error
}

type fileSource struct {
	*pcapgo.Reader
	f *os.File
}

func (s *fileSource) Close() error {
	return s.f.Close()
}

// OpenFile opens a pcap file for replay.
func OpenFile(path string) (Source, error) {
	// #nosec G304 - path is supplied by the user on the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	r, err := pcapgo.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read pcap header of %s: %w", path, err)
	}
	return &fileSource{Reader: r, f: f}, nil
}
