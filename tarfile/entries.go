package tarfile

import (
	"github.com/sirupsen/logrus"
)

// EntryIterator yields the regular files of an archive. Directories and other
// member types are skipped; their path components are already part of the
// names of the files below them.
type EntryIterator struct {
	headers *HeaderIterator
	data    []byte
	log     logrus.FieldLogger

	done bool
	err  error
}

// Next returns the next regular file. ok is false at the end of the archive
// or when the archive is corrupt; Err tells which.
func (it *EntryIterator) Next() (e Entry, ok bool) {
	if it.done {
		return Entry{}, false
	}
	block, hdr, ok := it.nextFile()
	if !ok {
		return it.stop(it.headers.Err())
	}

	if hdr.IsZeroBlock() {
		return it.stop(it.checkEnd(block))
	}

	log := it.log.WithField("block", block)
	size, err := hdr.PayloadSize()
	if err != nil {
		log.WithError(err).Warn("tarfile: unreadable size field, archive is likely corrupt")
		return it.stop(err)
	}

	// The payload may not reach into the two zero blocks every archive ends with.
	begin := (block + 1) * BLOCKSIZE
	limit := len(it.data) - TRAILER_BYTES
	if begin > limit || size > limit-begin {
		log.WithField("size", size).Warn("tarfile: payload extends past the end of the archive")
		return it.stop(NewCorruptDataError(ReasonPayloadOutOfBounds, len(it.data)))
	}

	e.header = hdr
	e.block = block
	if err := hdr.appendFullName(e.Filename()); err != nil {
		log.WithError(err).Warn("tarfile: cannot resolve file name")
		return it.stop(err)
	}
	if e.Filename().IsEmpty() {
		log.Warn("tarfile: found empty file name")
	}
	e.data = it.data[begin : begin+size : begin+size]
	return e, true
}

// Err returns the error that ended iteration, or nil after a clean end of
// archive. An *InvariantError means the archive is structurally broken in a
// way this reader cannot recover from.
func (it *EntryIterator) Err() error { return it.err }

// nextFile pulls headers until a regular file shows up. Zero blocks decode as
// old style regular files and are returned as well.
func (it *EntryIterator) nextFile() (int, *Header, bool) {
	for {
		block, hdr, ok := it.headers.Next()
		if !ok {
			return 0, nil, false
		}
		// The header iterator stops before yielding an undecodable type.
		typ, _ := hdr.TypeFlag()
		if typ.IsRegularFile() {
			return block, hdr, true
		}
		it.log.WithFields(logrus.Fields{
			"block": block,
			"name":  hdr.Name().String(),
			"type":  typ.String(),
		}).Debug("tarfile: skipping entry, only regular files are supported")
	}
}

// checkEnd is called after the zero block at block. Only a second zero block
// may follow it.
func (it *EntryIterator) checkEnd(block int) error {
	next, hdr, ok := it.headers.Next()
	switch {
	case ok && hdr.IsZeroBlock():
		it.log.WithField("block", next).Debug("tarfile: end of archive")
		return nil
	case !ok && it.headers.Err() == nil:
		it.log.WithField("block", block).Warn("tarfile: only one zero block at the end of the archive")
		return nil
	case !ok:
		// The archive continues with a header that does not even decode.
		err := NewInvariantError(block+1, "zero block is not followed by a second zero block", it.headers.Err())
		it.log.WithError(err).Error("tarfile: archive is structurally corrupt")
		return err
	}
	err := NewInvariantError(next, "zero block is not followed by a second zero block", nil)
	it.log.WithError(err).Error("tarfile: archive is structurally corrupt")
	return err
}

func (it *EntryIterator) stop(err error) (Entry, bool) {
	it.done = true
	it.err = err
	return Entry{}, false
}
