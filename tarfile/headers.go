package tarfile

import (
	"github.com/sirupsen/logrus"
)

// HeaderIterator walks the archive one header at a time. It yields every
// header, including directories and zero blocks, and steps over the payload
// of regular files.
//
// Zero blocks never carry a payload, so a zero block is always followed by a
// read of the block directly after it. EntryIterator relies on this to tell a
// proper end of archive from a stray zero block.
type HeaderIterator struct {
	data       []byte
	log        logrus.FieldLogger
	verifySums bool

	next      int // block index of the next header
	zeros     int // consecutive zero blocks yielded so far
	truncated bool
	done      bool
	err       error
}

// Next returns the block index and header at the cursor. ok is false once the
// buffer is exhausted or the archive turned out to be corrupt; Err tells which.
func (it *HeaderIterator) Next() (block int, hdr *Header, ok bool) {
	if it.done {
		return 0, nil, false
	}
	if it.truncated {
		it.log.WithField("block", it.next).Warn("tarfile: payload extends past the end of the archive")
		return it.stop(NewCorruptDataError(ReasonPayloadOutOfBounds, len(it.data)))
	}
	if it.next >= len(it.data)/BLOCKSIZE {
		if it.zeros >= 2 {
			it.log.WithField("block", it.next).Debug("tarfile: end of data")
		} else {
			it.log.WithField("block", it.next).Warn("tarfile: reached end of data without finding the zero blocks")
		}
		return it.stop(nil)
	}

	block = it.next
	hdr = headerAt(it.data, block)
	it.next++

	if hdr.IsZeroBlock() {
		it.zeros++
		return block, hdr, true
	}
	it.zeros = 0

	log := it.log.WithField("block", block)
	if it.verifySums {
		if err := hdr.VerifyChecksum(); err != nil {
			log.WithError(err).Warn("tarfile: bad header checksum, archive is likely corrupt")
			return it.stop(err)
		}
	}
	typ, err := hdr.TypeFlag()
	if err != nil {
		log.WithError(err).Warn("tarfile: unknown entry type, archive is likely corrupt")
		return it.stop(err)
	}
	// Other types either have no payload or use the size field for
	// something else, e.g. the space reserved for a directory.
	if typ.IsRegularFile() {
		count, err := hdr.PayloadBlockCount()
		if err != nil {
			log.WithError(err).Warn("tarfile: unreadable size field, archive is likely corrupt")
			return it.stop(err)
		}
		if remaining := len(it.data)/BLOCKSIZE - it.next; count > remaining {
			count = remaining
			it.truncated = true
		}
		it.next += count
	}
	return block, hdr, true
}

// Err returns the error that ended iteration, or nil if the buffer was
// simply exhausted.
func (it *HeaderIterator) Err() error { return it.err }

func (it *HeaderIterator) stop(err error) (int, *Header, bool) {
	it.done = true
	it.err = err
	return 0, nil, false
}
