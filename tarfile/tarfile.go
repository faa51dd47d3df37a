package tarfile

import (
	"bytes"
	"errors"
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"
)

// ErrMemberNotFound is returned by GetMember when no regular file matches.
var ErrMemberNotFound = errors.New("member not found")

// TarFile provides read access to a tar archive that is already in memory.
// The buffer is borrowed, never modified and never copied; entries and
// headers handed out alias it. Any number of iterators may run over the same
// TarFile concurrently.
type TarFile struct {
	data       []byte
	log        logrus.FieldLogger // Diagnostics sink
	verifySums bool               // Stop at headers with a bad checksum
}

// TarFileOption defines options for NewTarFile.
type TarFileOption func(*TarFile)

// WithLogger sets the logger used for diagnostics. The default is the logrus
// standard logger.
func WithLogger(log logrus.FieldLogger) TarFileOption {
	return func(tf *TarFile) { tf.log = log }
}

// WithChecksumVerification makes iteration stop at the first header whose
// stored checksum does not match its content.
func WithChecksumVerification() TarFileOption {
	return func(tf *TarFile) { tf.verifySums = true }
}

// NewTarFile interprets data as a tar archive. data must be a non-empty
// multiple of BLOCKSIZE and hold at least MIN_BLOCKS blocks, otherwise a
// *CorruptDataError is returned.
func NewTarFile(data []byte, opts ...TarFileOption) (*TarFile, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	return newTarFile(data, opts...), nil
}

func newTarFile(data []byte, opts ...TarFileOption) *TarFile {
	tf := &TarFile{
		data: data,
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

func validate(data []byte) error {
	switch {
	case len(data) == 0:
		return NewCorruptDataError(ReasonEmpty, 0)
	case len(data)%BLOCKSIZE != 0:
		return NewCorruptDataError(ReasonNotBlockAligned, len(data))
	case len(data) < MIN_BLOCKS*BLOCKSIZE:
		return NewCorruptDataError(ReasonTooShort, len(data))
	}
	return nil
}

// Bytes returns the archive buffer.
func (tf *TarFile) Bytes() []byte { return tf.data }

// Len returns the size of the archive buffer in bytes.
func (tf *TarFile) Len() int { return len(tf.data) }

// Headers returns a new iterator over every header of the archive, including
// directories and the terminating zero blocks.
func (tf *TarFile) Headers() *HeaderIterator {
	return &HeaderIterator{
		data:       tf.data,
		log:        tf.log,
		verifySums: tf.verifySums,
	}
}

// Entries returns a new iterator over the regular files of the archive.
func (tf *TarFile) Entries() *EntryIterator {
	return &EntryIterator{
		headers: tf.Headers(),
		data:    tf.data,
		log:     tf.log,
	}
}

// All yields the regular files of the archive in on-disk order. Use Entries
// when the reason iteration ended matters.
func (tf *TarFile) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		it := tf.Entries()
		for {
			e, ok := it.Next()
			if !ok || !yield(e) {
				return
			}
		}
	}
}

// GetMember returns the first regular file with the given resolved name.
func (tf *TarFile) GetMember(name string) (Entry, error) {
	it := tf.Entries()
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		if bytes.Equal(e.Filename().Bytes(), []byte(name)) {
			return e, nil
		}
	}
	if err := it.Err(); err != nil {
		return Entry{}, err
	}
	return Entry{}, fmt.Errorf("filename %q: %w", name, ErrMemberNotFound)
}

// GetNames returns the names of all regular files.
func (tf *TarFile) GetNames() ([]string, error) {
	var names []string
	it := tf.Entries()
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		name, err := e.Name()
		if err != nil {
			return names, fmt.Errorf("block %d: %w", e.BlockIndex(), err)
		}
		names = append(names, name)
	}
	return names, it.Err()
}
