//go:build !unix

package tree

import (
	"errors"
)

var errDeviceUnsupported = errors.New("device lookup not supported on this platform")

func deviceOf(string) (uint64, error) {
	return 0, errDeviceUnsupported
}
