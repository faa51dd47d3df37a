package tarfile

import (
	"fmt"
	"io/fs"
	"time"
)

// TarInfo is a decoded copy of every header field. Unlike Header it does not
// reference the archive buffer.
type TarInfo struct {
	Name     string      // Resolved name of the archive member
	Mode     fs.FileMode // Permission and type bits
	UID      int         // User ID
	GID      int         // Group ID
	Size     int64       // Size in bytes
	Mtime    time.Time   // Modification time, see Header.Mtime
	Chksum   int         // Header checksum
	Type     TypeFlag    // File type (e.g., REGTYPE, DIRTYPE)
	Linkname string      // Target file name for links
	Uname    string      // User name
	Gname    string      // Group name
	DevMajor int         // Device major number
	DevMinor int         // Device minor number
	Block    int         // Block index of the header in the archive
}

// NewTarInfo decodes the header found at block.
func NewTarInfo(h *Header, block int) (*TarInfo, error) {
	ti := &TarInfo{Block: block}

	var err error
	if ti.Type, err = h.TypeFlag(); err != nil {
		return nil, err
	}
	if ti.Name, err = h.FullName(); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if ti.Mode, err = h.FileMode(); err != nil {
		return nil, fmt.Errorf("mode: %w", err)
	}
	if ti.UID, err = parseInt(h.UID()); err != nil {
		return nil, fmt.Errorf("uid: %w", err)
	}
	if ti.GID, err = parseInt(h.GID()); err != nil {
		return nil, fmt.Errorf("gid: %w", err)
	}
	size, err := h.PayloadSize()
	if err != nil {
		return nil, fmt.Errorf("size: %w", err)
	}
	ti.Size = int64(size)

	mtime, err := h.Mtime().Uint64()
	if err != nil {
		return nil, fmt.Errorf("mtime: %w", err)
	}
	ti.Mtime = time.Unix(int64(mtime), 0)

	if ti.Chksum, err = parseInt(h.Checksum()); err != nil {
		return nil, fmt.Errorf("chksum: %w", err)
	}
	if ti.Linkname, err = h.Linkname().AsString(); err != nil {
		return nil, fmt.Errorf("linkname: %w", err)
	}
	if ti.Uname, err = h.Uname().AsString(); err != nil {
		return nil, fmt.Errorf("uname: %w", err)
	}
	if ti.Gname, err = h.Gname().AsString(); err != nil {
		return nil, fmt.Errorf("gname: %w", err)
	}

	// Device numbers are only meaningful for device nodes; other writers
	// may leave the fields blank.
	if ti.Type == CHRTYPE || ti.Type == BLKTYPE {
		if ti.DevMajor, err = parseInt(h.DevMajor()); err != nil {
			return nil, fmt.Errorf("devmajor: %w", err)
		}
		if ti.DevMinor, err = parseInt(h.DevMinor()); err != nil {
			return nil, fmt.Errorf("devminor: %w", err)
		}
	}
	return ti, nil
}

func parseInt(n Number) (int, error) {
	v, err := ParseNumber[uint32](n)
	return int(v), err
}

// IsReg returns true if the TarInfo represents a regular file.
func (ti *TarInfo) IsReg() bool { return ti.Type.IsRegularFile() }

// IsDir returns true if the TarInfo represents a directory.
func (ti *TarInfo) IsDir() bool { return ti.Type == DIRTYPE }

// IsSym returns true if the TarInfo represents a symbolic link.
func (ti *TarInfo) IsSym() bool { return ti.Type == SYMTYPE }

// IsLnk returns true if the TarInfo represents a hard link.
func (ti *TarInfo) IsLnk() bool { return ti.Type == LNKTYPE }

// IsDev returns true if the TarInfo represents a device (character, block, or FIFO).
func (ti *TarInfo) IsDev() bool {
	return ti.Type == CHRTYPE || ti.Type == BLKTYPE || ti.Type == FIFOTYPE
}

// String returns a string representation of the TarInfo.
func (ti *TarInfo) String() string {
	return fmt.Sprintf("<%s %q at block %d>", "TarInfo", ti.Name, ti.Block)
}
