//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package main

import (
	"errors"
	"fmt"

	"tarview/tarfile"
)

func openMapped(path string, opts ...tarfile.TarFileOption) (*tarfile.TarFile, func() error, error) {
	return nil, nil, errors.New("--mmap is not supported on this platform")
}

func deviceNumber(hdr *tarfile.Header, info *tarfile.TarInfo) string {
	return fmt.Sprintf(" [%d,%d]", info.DevMajor, info.DevMinor)
}
