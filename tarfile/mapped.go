//go:build linux || darwin || freebsd || netbsd || openbsd

package tarfile

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// MappedTarFile is a TarFile backed by a read-only memory mapping of a file.
// Entries must not be used after Close.
type MappedTarFile struct {
	*TarFile
	mem    []byte
	opts   []TarFileOption
	Closed bool
}

// OpenMapped maps the named file into memory without reading it.
func OpenMapped(name string, opts ...TarFileOption) (*MappedTarFile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	// An empty file cannot be mapped; report it the way NewTarFile would.
	if size == 0 {
		return nil, NewCorruptDataError(ReasonEmpty, 0)
	}
	if size > math.MaxInt {
		return nil, fmt.Errorf("%s: file too large to map (%d bytes)", name, size)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", name, err)
	}
	tf, err := NewTarFile(mem, opts...)
	if err != nil {
		_ = unix.Munmap(mem)
		return nil, err
	}
	return &MappedTarFile{TarFile: tf, mem: mem, opts: opts}, nil
}

// Close unmaps the file. The archive reads as empty afterwards.
func (m *MappedTarFile) Close() error {
	if m.Closed {
		return nil
	}
	m.Closed = true
	m.TarFile = newTarFile(nil, m.opts...)
	return unix.Munmap(m.mem)
}
