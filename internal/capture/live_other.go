//go:build !linux || !cgo

package capture

import (
	"errors"
	"fmt"
)

// OpenLive is only available on Linux with cgo. Use OpenFile to replay a
// capture instead.
func OpenLive(device string) (Source, error) {
	return nil, fmt.Errorf("live capture on %s: %w", device, errors.ErrUnsupported)
}
