package tarfile

import (
	"bytes"
	"io/fs"
	"math"
	"strconv"
)

// Header is a single POSIX header block. A *Header obtained from an archive
// aliases the archive buffer; its field accessors return views, not copies.
//
// The layout is also compatible with the ustar, GNU and v7 variants. Only the
// fields needed to locate names and payloads are interpreted by the iterators.
type Header [BLOCKSIZE]byte

// headerAt returns the header stored at block. Callers must have checked that
// the whole block lies inside data.
func headerAt(data []byte, block int) *Header {
	off := block * BLOCKSIZE
	return (*Header)(data[off : off+BLOCKSIZE])
}

var slash = Text{'/'}

func (h *Header) text(off, n int) Text { return Text(h[off : off+n : off+n]) }

func (h *Header) Name() Text   { return h.text(offName, LENGTH_NAME) }
func (h *Header) Mode() Number { return Octal(h.text(offMode, LENGTH_MODE)) }
func (h *Header) UID() Number  { return Octal(h.text(offUID, LENGTH_ID)) }
func (h *Header) GID() Number  { return Octal(h.text(offGID, LENGTH_ID)) }
func (h *Header) Size() Number { return Octal(h.text(offSize, LENGTH_SIZE)) }

// Mtime reads the modification time in base 10. Writers such as GNU tar and
// archive/tar store it in octal; their digits parse without error but give a
// different, larger value.
func (h *Header) Mtime() Number { return Decimal(h.text(offMtime, LENGTH_MTIME)) }

func (h *Header) Checksum() Number  { return Octal(h.text(offChksum, LENGTH_CHKSUM)) }
func (h *Header) RawTypeFlag() byte { return h[offTypeFlag] }
func (h *Header) Linkname() Text    { return h.text(offLinkname, LENGTH_LINK) }
func (h *Header) Magic() Text       { return h.text(offMagic, LENGTH_MAGIC) }
func (h *Header) Version() Text     { return h.text(offVersion, LENGTH_VERSION) }
func (h *Header) Uname() Text       { return h.text(offUname, LENGTH_OWNER) }
func (h *Header) Gname() Text       { return h.text(offGname, LENGTH_OWNER) }
func (h *Header) DevMajor() Number  { return Octal(h.text(offDevMajor, LENGTH_DEV)) }
func (h *Header) DevMinor() Number  { return Octal(h.text(offDevMinor, LENGTH_DEV)) }
func (h *Header) Prefix() Text      { return h.text(offPrefix, LENGTH_PREFIX) }

// TypeFlag decodes the entry type. Unknown bytes are an *InvalidTypeFlagError.
func (h *Header) TypeFlag() (TypeFlag, error) {
	return ParseTypeFlag(h.RawTypeFlag())
}

// PayloadSize returns the declared size of the member in bytes.
func (h *Header) PayloadSize() (int, error) {
	size, err := h.Size().Uint64()
	if err != nil {
		return 0, err
	}
	if size > math.MaxInt {
		return 0, NewNumberError(h.Size().Text.String(), 8, strconv.ErrRange)
	}
	return int(size), nil
}

// PayloadBlockCount returns the number of blocks occupied by the payload.
func (h *Header) PayloadBlockCount() (int, error) {
	size, err := h.PayloadSize()
	if err != nil {
		return 0, err
	}
	blocks := size / BLOCKSIZE
	if size%BLOCKSIZE > 0 {
		blocks++
	}
	return blocks, nil
}

// IsZeroBlock reports whether all bytes of the block are zero. Two zero
// blocks in a row terminate an archive.
func (h *Header) IsZeroBlock() bool {
	return *h == Header{}
}

// IsUstar reports whether the magic and version identify a POSIX ustar header.
// GNU headers use "ustar " with version " \x00" and do not match.
func (h *Header) IsUstar() bool {
	return bytes.Equal(h.Magic().Bytes(), []byte(USTAR_MAGIC)) &&
		bytes.Equal(h.Version().Bytes(), []byte(USTAR_VERSION))
}

// appendFullName writes the member name into dst. For ustar headers with a
// non-empty prefix the result is prefix + "/" + name. dst must be empty and
// LENGTH_FILENAME bytes wide.
func (h *Header) appendFullName(dst Text) error {
	if h.IsUstar() && !h.Prefix().IsEmpty() {
		if err := dst.Append(h.Prefix()); err != nil {
			return err
		}
		if err := dst.Append(slash); err != nil {
			return err
		}
	}
	return dst.Append(h.Name())
}

// FullName returns the resolved member name as a string.
func (h *Header) FullName() (string, error) {
	var buf [LENGTH_FILENAME]byte
	name := Text(buf[:])
	if err := h.appendFullName(name); err != nil {
		return "", err
	}
	return name.AsString()
}

// ComputeChecksum sums all header bytes with the checksum field taken as
// eight spaces.
func (h *Header) ComputeChecksum() uint64 {
	sum := uint64(' ') * LENGTH_CHKSUM
	for i, b := range h {
		if i >= offChksum && i < offChksum+LENGTH_CHKSUM {
			continue
		}
		sum += uint64(b)
	}
	return sum
}

// VerifyChecksum compares the stored checksum with the computed one.
func (h *Header) VerifyChecksum() error {
	stored, err := h.Checksum().Uint64()
	if err != nil {
		return err
	}
	if computed := h.ComputeChecksum(); stored != computed {
		return NewChecksumError(stored, computed)
	}
	return nil
}

// FileMode converts the mode field and type flag to an fs.FileMode.
func (h *Header) FileMode() (fs.FileMode, error) {
	bits, err := h.Mode().Uint64()
	if err != nil {
		return 0, err
	}
	mode := fs.FileMode(bits & 0o777)
	if bits&0o4000 != 0 {
		mode |= fs.ModeSetuid
	}
	if bits&0o2000 != 0 {
		mode |= fs.ModeSetgid
	}
	if bits&0o1000 != 0 {
		mode |= fs.ModeSticky
	}

	typ, err := h.TypeFlag()
	if err != nil {
		return 0, err
	}
	switch typ {
	case DIRTYPE:
		mode |= fs.ModeDir
	case SYMTYPE:
		mode |= fs.ModeSymlink
	case CHRTYPE:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case BLKTYPE:
		mode |= fs.ModeDevice
	case FIFOTYPE:
		mode |= fs.ModeNamedPipe
	}
	return mode, nil
}
