package tarfile

import (
	"bytes"
	"fmt"
)

// Entry is a regular file of an archive. Its data aliases the archive buffer
// and stays valid for as long as that buffer does.
type Entry struct {
	name   [LENGTH_FILENAME]byte
	data   []byte
	header *Header
	block  int
}

// Filename returns the resolved name, prefix included for ustar archives.
func (e *Entry) Filename() Text { return Text(e.name[:]) }

// Name returns the resolved name as UTF-8.
func (e *Entry) Name() (string, error) { return e.Filename().AsString() }

// Data returns the content of the file.
func (e *Entry) Data() []byte { return e.data }

// Size returns the file size in bytes.
func (e *Entry) Size() int { return len(e.data) }

// Header returns the header the entry was decoded from.
func (e *Entry) Header() *Header { return e.header }

// BlockIndex returns the block index of the header.
func (e *Entry) BlockIndex() int { return e.block }

// Info decodes all header fields of the entry.
func (e *Entry) Info() (*TarInfo, error) { return NewTarInfo(e.header, e.block) }

// Reader provides a file-like interface to the content.
func (e *Entry) Reader() *bytes.Reader { return bytes.NewReader(e.data) }

func (e *Entry) String() string {
	return fmt.Sprintf("Entry{filename: %q, size: %d, data: <bytes>}", e.Filename(), e.Size())
}
