//go:build linux || darwin || freebsd || netbsd || openbsd

package main

import (
	"fmt"

	"tarview/tarfile"
)

func openMapped(path string, opts ...tarfile.TarFileOption) (*tarfile.TarFile, func() error, error) {
	m, err := tarfile.OpenMapped(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	return m.TarFile, m.Close, nil
}

func deviceNumber(hdr *tarfile.Header, info *tarfile.TarInfo) string {
	dev, err := hdr.Dev()
	if err != nil {
		return fmt.Sprintf(" [%d,%d]", info.DevMajor, info.DevMinor)
	}
	return fmt.Sprintf(" [%d,%d dev=%#x]", info.DevMajor, info.DevMinor, dev)
}
