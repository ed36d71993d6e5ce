//go:build linux && cgo

package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"
	"github.com/google/gopacket/layers"
)

const pollTimeout = 100 * time.Millisecond

type liveSource struct {
	handle *afpacket.TPacket
}

// OpenLive opens an AF_PACKET ring on device.
func OpenLive(device string) (Source, error) {
	handle, err := afpacket.NewTPacket(
		afpacket.OptInterface(device),
		afpacket.OptFrameSize(4096),
		afpacket.OptBlockSize(4096*128),
		afpacket.OptNumBlocks(16),
		afpacket.OptPollTimeout(pollTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", device, err)
	}
	return &liveSource{handle: handle}, nil
}

func (s *liveSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	data, ci, err := s.handle.ReadPacketData()
	if errors.Is(err, afpacket.ErrTimeout) {
		return nil, ci, ErrIdle
	}
	return data, ci, err
}

func (s *liveSource) LinkType() layers.LinkType {
	return layers.LinkTypeEthernet
}

func (s *liveSource) Close() error {
	s.handle.Close()
	return nil
}
