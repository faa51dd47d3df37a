package tarfile

import (
	"fmt"
	"io"
	"os"
)

// OwnedTarFile is a TarFile that holds the only reference to its buffer.
// Release hands the buffer back to the caller.
type OwnedTarFile struct {
	*TarFile
	opts []TarFileOption
}

// NewOwnedTarFile takes ownership of data. The caller must not modify data
// until it is given back by Release.
func NewOwnedTarFile(data []byte, opts ...TarFileOption) (*OwnedTarFile, error) {
	tf, err := NewTarFile(data, opts...)
	if err != nil {
		return nil, err
	}
	return &OwnedTarFile{TarFile: tf, opts: opts}, nil
}

// ReadTarFile reads the whole stream into a buffer owned by the archive.
func ReadTarFile(r io.Reader, opts ...TarFileOption) (*OwnedTarFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewReadError(err)
	}
	return NewOwnedTarFile(data, opts...)
}

// Open reads the named file into memory.
func Open(name string, opts ...TarFileOption) (*OwnedTarFile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tf, err := ReadTarFile(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tf, nil
}

// Release returns the buffer and leaves the archive empty. Entries obtained
// before remain valid as long as the caller keeps the buffer unmodified.
func (o *OwnedTarFile) Release() []byte {
	data := o.data
	o.TarFile = newTarFile(nil, o.opts...)
	return data
}
