package tarfile

import (
	"bytes"
	"fmt"
	"math/bits"
	"strconv"
	"unicode/utf8"
)

// Text is a fixed-width field as stored in a header. The logical content ends
// at the first NUL byte, or fills the whole width when there is none.
type Text []byte

// Size returns the number of meaningful bytes.
func (t Text) Size() int {
	if p := bytes.IndexByte(t, NUL); p != -1 {
		return p
	}
	return len(t)
}

func (t Text) IsEmpty() bool { return t.Size() == 0 }

// IsNulTerminated reports whether the field has room left for a NUL.
func (t Text) IsNulTerminated() bool { return t.Size() < len(t) }

// Bytes returns the logical content without copying.
func (t Text) Bytes() []byte { return t[:t.Size()] }

// AsString returns the logical content as UTF-8.
func (t Text) AsString() (string, error) {
	b := t.Bytes()
	if !utf8.Valid(b) {
		return "", NewInvalidUTF8Error(b)
	}
	return string(b), nil
}

// Append copies the logical content of other behind the logical content of t.
// t must be caller owned storage; header fields are never appended to.
func (t Text) Append(other Text) error {
	n, m := t.Size(), other.Size()
	if n+m > len(t) {
		return NewCapacityError(n+m, len(t))
	}
	copy(t[n:], other[:m])
	if n+m < len(t) {
		t[n+m] = NUL
	}
	return nil
}

func (t Text) String() string { return string(t.Bytes()) }

// Unsigned is the set of integer types a Number can be parsed into.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Number is an ASCII encoded unsigned integer field with a fixed base.
// Parsing skips leading spaces, so right-aligned values such as "   755"
// are accepted, then stops at the first space or NUL.
type Number struct {
	Text Text
	Base int
}

func Octal(t Text) Number   { return Number{Text: t, Base: 8} }
func Decimal(t Text) Number { return Number{Text: t, Base: 10} }

// digits returns the field content up to the first space or NUL. Leading
// spaces, as written by some old tar implementations, are skipped.
func (n Number) digits() []byte {
	s := []byte(n.Text)
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	for i, c := range s {
		if c == ' ' || c == NUL {
			return s[:i]
		}
	}
	return s
}

func (n Number) parse(bitSize int) (uint64, error) {
	d := n.digits()
	v, err := strconv.ParseUint(string(d), n.Base, bitSize)
	if err != nil {
		return 0, NewNumberError(string(d), n.Base, err)
	}
	return v, nil
}

func (n Number) Uint64() (uint64, error) { return n.parse(64) }

// ParseNumber parses n into T, failing if the value does not fit.
func ParseNumber[T Unsigned](n Number) (T, error) {
	v, err := n.parse(bits.Len64(uint64(^T(0))))
	if err != nil {
		return 0, err
	}
	return T(v), nil
}

func (n Number) String() string {
	v, err := n.Uint64()
	if err != nil {
		return fmt.Sprintf("%v [%s]", err, n.digits())
	}
	return fmt.Sprintf("%d [%s]", v, n.digits())
}
