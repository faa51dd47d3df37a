package tarfile

import (
	"errors"
	"fmt"
)

// ErrCorruptData matches every *CorruptDataError through errors.Is.
var ErrCorruptData = errors.New("corrupt tar data")

type TarError struct {
	msg string
}

func (e *TarError) Error() string { return e.msg }

// Reason tells why a buffer is not a readable archive.
type Reason int

const (
	ReasonEmpty Reason = iota
	ReasonNotBlockAligned
	ReasonTooShort
	ReasonPayloadOutOfBounds
)

func (r Reason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty"
	case ReasonNotBlockAligned:
		return "not a multiple of the block size"
	case ReasonTooShort:
		return "too short"
	case ReasonPayloadOutOfBounds:
		return "payload out of bounds"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// CorruptDataError reports a buffer or member that cannot be read safely.
type CorruptDataError struct {
	TarError
	Reason Reason
	Len    int // length of the archive buffer
}

func (e *CorruptDataError) Is(target error) bool { return target == ErrCorruptData }

// ReadError wraps a failure to load archive data into memory.
type ReadError struct {
	TarError
	Err error
}

func (e *ReadError) Unwrap() error { return e.Err }

type HeaderError struct{ TarError }

type InvalidUTF8Error struct{ HeaderError }

type NumberError struct {
	HeaderError
	Text string
	Base int
	Err  error
}

func (e *NumberError) Unwrap() error { return e.Err }

type InvalidTypeFlagError struct {
	HeaderError
	Flag byte
}

type CapacityError struct {
	HeaderError
	Need, Capacity int
}

type ChecksumError struct {
	HeaderError
	Stored, Computed uint64
}

// InvariantError is returned when the archive reaches a state this reader
// never produces on its own, such as a lone zero block followed by a header.
// Iteration cannot continue after it.
type InvariantError struct {
	TarError
	Block int
	Err   error // cause, when the offending header did not decode
}

func (e *InvariantError) Unwrap() error { return e.Err }

func NewCorruptDataError(reason Reason, length int) error {
	return &CorruptDataError{
		TarError: TarError{msg: fmt.Sprintf("corrupt data: archive %s (%d bytes)", reason, length)},
		Reason:   reason,
		Len:      length,
	}
}

func NewReadError(err error) error {
	return &ReadError{TarError: TarError{msg: "read archive: " + err.Error()}, Err: err}
}

func NewInvalidUTF8Error(b []byte) error {
	return &InvalidUTF8Error{HeaderError{TarError{msg: fmt.Sprintf("invalid utf-8 in field %q", b)}}}
}

func NewNumberError(text string, base int, err error) error {
	return &NumberError{
		HeaderError: HeaderError{TarError{msg: fmt.Sprintf("invalid base %d number field %q", base, text)}},
		Text:        text,
		Base:        base,
		Err:         err,
	}
}

func NewInvalidTypeFlagError(flag byte) error {
	return &InvalidTypeFlagError{
		HeaderError: HeaderError{TarError{msg: fmt.Sprintf("invalid type flag %q", flag)}},
		Flag:        flag,
	}
}

func NewCapacityError(need, capacity int) error {
	return &CapacityError{
		HeaderError: HeaderError{TarError{msg: fmt.Sprintf("result of %d bytes exceeds capacity %d", need, capacity)}},
		Need:        need,
		Capacity:    capacity,
	}
}

func NewChecksumError(stored, computed uint64) error {
	return &ChecksumError{
		HeaderError: HeaderError{TarError{msg: fmt.Sprintf("bad checksum: stored %o, computed %o", stored, computed)}},
		Stored:      stored,
		Computed:    computed,
	}
}

func NewInvariantError(block int, msg string, cause error) error {
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &InvariantError{
		TarError: TarError{msg: fmt.Sprintf("block %d: %s", block, msg)},
		Block:    block,
		Err:      cause,
	}
}
