//go:build unix

package tree

import (
	"golang.org/x/sys/unix"
)

// deviceOf returns the ID of the device holding path.
func deviceOf(path string) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Dev), nil //nolint:unconvert // Dev is narrower on some platforms
}
