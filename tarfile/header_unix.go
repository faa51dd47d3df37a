//go:build linux || darwin || freebsd || netbsd || openbsd

package tarfile

import "golang.org/x/sys/unix"

// Dev combines the device number fields the way the host encodes dev_t.
func (h *Header) Dev() (uint64, error) {
	major, err := ParseNumber[uint32](h.DevMajor())
	if err != nil {
		return 0, err
	}
	minor, err := ParseNumber[uint32](h.DevMinor())
	if err != nil {
		return 0, err
	}
	return unix.Mkdev(major, minor), nil
}
