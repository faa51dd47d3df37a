package tarfile

import (
	"archive/tar"
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type testFile struct {
	name string
	body []byte
	typ  byte
}

func file(name, body string) testFile { return testFile{name: name, body: []byte(body), typ: tar.TypeReg} }
func dir(name string) testFile        { return testFile{name: name, typ: tar.TypeDir} }

// The files the three-file scenario archives are made of.
var (
	byeWorld   = strings.Repeat("Bye World!\n", 46) + "!!!!!!!"
	helloWorld = strings.Repeat("Hello World\n", 42) + "Hello World\n"[:9]
	threeFiles = []testFile{
		file("bye_world_513b.txt", byeWorld),
		file("hello_world_513b.txt", helloWorld),
		file("hello_world.txt", "Hello World\n"),
	}
)

// buildArchive writes files with archive/tar in the given format.
func buildArchive(t *testing.T, format tar.Format, files ...testFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := tar.NewWriter(&buf)
	for _, f := range files {
		hdr := &tar.Header{
			Typeflag: f.typ,
			Name:     f.name,
			Mode:     0o644,
			Uid:      1000,
			Gid:      1000,
			Uname:    "user",
			Gname:    "group",
			Size:     int64(len(f.body)),
			ModTime:  time.Unix(1600000000, 0),
			Format:   format,
		}
		if f.typ == tar.TypeDir {
			hdr.Mode = 0o755
		}
		require.NoError(t, w.WriteHeader(hdr))
		_, err := w.Write(f.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// rawMember describes a header written byte by byte, for layouts archive/tar
// refuses to produce.
type rawMember struct {
	name   string
	typ    byte
	body   []byte
	size   string // size field override
	magic  string // magic and version, empty for v7
	prefix string
}

func rawHeader(m rawMember) []byte {
	b := make([]byte, BLOCKSIZE)
	copy(b[offName:], m.name)
	copy(b[offMode:], "000644 \x00")
	copy(b[offUID:], "001750 \x00")
	copy(b[offGID:], "001750 \x00")
	size := m.size
	if size == "" {
		size = fmt.Sprintf("%011o ", len(m.body))
	}
	copy(b[offSize:], size)
	copy(b[offMtime:], "1600000000 ")
	b[offTypeFlag] = m.typ
	copy(b[offMagic:], m.magic)
	copy(b[offPrefix:], m.prefix)
	copy(b[offChksum:], fmt.Sprintf("%06o\x00 ", (*Header)(b).ComputeChecksum()))
	return b
}

// rawArchive concatenates headers, padded payloads and two zero blocks.
func rawArchive(members ...rawMember) []byte {
	var out []byte
	for _, m := range members {
		out = append(out, rawHeader(m)...)
		out = append(out, m.body...)
		if rem := len(m.body) % BLOCKSIZE; rem > 0 {
			out = append(out, make([]byte, BLOCKSIZE-rem)...)
		}
	}
	return append(out, make([]byte, TRAILER_BYTES)...)
}

func v7Archive(files ...testFile) []byte {
	members := make([]rawMember, 0, len(files))
	for _, f := range files {
		members = append(members, rawMember{name: f.name, typ: byte(AREGTYPE), body: f.body})
	}
	return rawArchive(members...)
}

func newTestTarFile(t *testing.T, data []byte, opts ...TarFileOption) (*TarFile, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	tf, err := NewTarFile(data, append([]TarFileOption{WithLogger(log)}, opts...)...)
	require.NoError(t, err)
	return tf, hook
}

func collect(it *EntryIterator) []Entry {
	var entries []Entry
	for {
		e, ok := it.Next()
		if !ok {
			return entries
		}
		entries = append(entries, e)
	}
}
