package tarfile

import (
	"archive/tar"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type decoded struct {
	Name  string
	Data  string
	Block int
}

func decodeAll(t *testing.T, it *EntryIterator) []decoded {
	t.Helper()
	var out []decoded
	for _, e := range collect(it) {
		name, err := e.Name()
		require.NoError(t, err)
		out = append(out, decoded{Name: name, Data: string(e.Data()), Block: e.BlockIndex()})
	}
	require.NoError(t, it.Err())
	return out
}

func assertArchiveContent(t *testing.T, entries []Entry) {
	t.Helper()
	require := require.New(t)

	require.Len(entries, 3)
	// order in which the files were stored into the archive
	require.Equal("bye_world_513b.txt", entries[0].Filename().String())
	require.Equal(513, entries[0].Size())
	require.Equal(513, len(entries[0].Data()))
	require.Equal(byte('!'), entries[0].Data()[512])

	require.Equal("hello_world_513b.txt", entries[1].Filename().String())
	require.Equal(513, entries[1].Size())
	require.Equal(helloWorld, string(entries[1].Data()))

	require.Equal("hello_world.txt", entries[2].Filename().String())
	require.Equal(12, entries[2].Size())
	require.Equal("Hello World\n", string(entries[2].Data()))
}

func TestEntries(t *testing.T) {
	archives := map[string][]byte{
		"ustar": buildArchive(t, tar.FormatUSTAR, threeFiles...),
		"gnu":   buildArchive(t, tar.FormatGNU, threeFiles...),
		"v7":    v7Archive(threeFiles...),
	}

	for name, data := range archives {
		t.Run(name, func(t *testing.T) {
			tf, _ := newTestTarFile(t, data)
			it := tf.Entries()
			assertArchiveContent(t, collect(it))
			require.NoError(t, it.Err())
		})
	}
}

func TestEntriesV7UsesLegacyTypeFlag(t *testing.T) {
	tf, _ := newTestTarFile(t, v7Archive(threeFiles...))
	e, ok := tf.Entries().Next()
	require.True(t, ok)

	typ, err := e.Header().TypeFlag()
	require.NoError(t, err)
	require.Equal(t, AREGTYPE, typ)
}

func TestEntriesAreZeroCopy(t *testing.T) {
	require := require.New(t)

	data := buildArchive(t, tar.FormatUSTAR, threeFiles...)
	tf, _ := newTestTarFile(t, data)
	entries := collect(tf.Entries())

	// bye_world starts right after its header.
	require.Same(&data[BLOCKSIZE], &entries[0].Data()[0])
	require.Same((*Header)(data[:BLOCKSIZE]), entries[0].Header())
}

func TestEntriesIdempotent(t *testing.T) {
	data := buildArchive(t, tar.FormatGNU, threeFiles...)
	tf, _ := newTestTarFile(t, data)

	first, second := tf.Entries(), tf.Entries()
	// Interleave the two iterators to show they share no state.
	e1, _ := first.Next()
	e2, _ := second.Next()
	require.Equal(t, e1.BlockIndex(), e2.BlockIndex())

	if diff := cmp.Diff(decodeAll(t, first), decodeAll(t, second)); diff != "" {
		t.Errorf("iterators disagree (-first +second):\n%s", diff)
	}
}

func TestEntriesConcurrent(t *testing.T) {
	data := buildArchive(t, tar.FormatUSTAR, threeFiles...)
	tf, _ := newTestTarFile(t, data)
	want := decodeAll(t, tf.Entries())

	var wg sync.WaitGroup
	results := make([][]decoded, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for e := range tf.All() {
				name, _ := e.Name()
				results[i] = append(results[i], decoded{Name: name, Data: string(e.Data()), Block: e.BlockIndex()})
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("concurrent iteration differs (-want +got):\n%s", diff)
		}
	}
}

func TestEntriesExactBlocks(t *testing.T) {
	require := require.New(t)

	content := strings.Repeat("0123456789abcdef", 2*BLOCKSIZE/16)
	data := buildArchive(t, tar.FormatUSTAR, file("exact.bin", content), file("after.txt", "after"))
	tf, _ := newTestTarFile(t, data)

	entries := decodeAll(t, tf.Entries())
	require.Equal([]decoded{
		{Name: "exact.bin", Data: content, Block: 0},
		{Name: "after.txt", Data: "after", Block: 3},
	}, entries)
}

func TestEntriesSkipDirectories(t *testing.T) {
	require := require.New(t)

	data := buildArchive(t, tar.FormatUSTAR,
		dir("tests/"),
		file("tests/hello_world.txt", "Hello World\n"),
		dir("tests/nested/"),
		dir("tests/nested/deeper/"),
		file("tests/nested/deeper/bye.txt", "bye"),
		testFile{name: "tests/link", typ: tar.TypeSymlink},
		file("top.txt", "top"),
	)
	tf, hook := newTestTarFile(t, data)

	require.Equal([]decoded{
		{Name: "tests/hello_world.txt", Data: "Hello World\n", Block: 1},
		{Name: "tests/nested/deeper/bye.txt", Data: "bye", Block: 5},
		{Name: "top.txt", Data: "top", Block: 8},
	}, decodeAll(t, tf.Entries()))

	var skipped []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.DebugLevel && e.Data["type"] != nil {
			skipped = append(skipped, e.Data["name"].(string))
		}
	}
	require.Equal([]string{"tests/", "tests/nested/", "tests/nested/deeper/", "tests/link"}, skipped)
}

func TestEntriesUstarLongName(t *testing.T) {
	require := require.New(t)

	dirName := strings.Repeat("d", 104)
	fileName := strings.Repeat("f", 100)
	data := buildArchive(t, tar.FormatUSTAR, file(dirName+"/"+fileName, "long"))

	h := headerAt(data, 0)
	require.Equal(dirName, h.Prefix().String())
	require.False(h.Name().IsNulTerminated(), "the name fills its field")

	tf, _ := newTestTarFile(t, data)
	entries := decodeAll(t, tf.Entries())
	require.Len(entries, 1)
	require.Equal(dirName+"/"+fileName, entries[0].Name)
	require.Len(entries[0].Name, 205)
}

func TestEntriesPrefixNeedsUstarMagic(t *testing.T) {
	require := require.New(t)

	data := rawArchive(
		rawMember{name: "a.txt", typ: '0', body: []byte("a"), magic: "ustar\x0000", prefix: "dir"},
		rawMember{name: "b.txt", typ: '0', body: []byte("b"), magic: "ustar  \x00", prefix: "dir"},
		rawMember{name: "c.txt", typ: '0', body: []byte("c"), prefix: "dir"},
	)
	tf, _ := newTestTarFile(t, data)

	names, err := tf.GetNames()
	require.NoError(err)
	require.Equal([]string{"dir/a.txt", "b.txt", "c.txt"}, names)
}

func TestEntriesPayloadOutOfBounds(t *testing.T) {
	testCases := map[string][]byte{
		// Claims far more than the buffer holds.
		"past the end": rawArchive(rawMember{name: "big.bin", typ: '0', size: "77777777777 "}),
		// Fits into the buffer but eats into the terminating zero blocks.
		"into the trailer": append(
			rawHeader(rawMember{name: "big.bin", typ: '0', size: "00000001001 "}),
			make([]byte, 3*BLOCKSIZE)...,
		),
	}

	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			tf, _ := newTestTarFile(t, data)

			it := tf.Entries()
			require.Empty(collect(it))
			require.ErrorIs(it.Err(), ErrCorruptData)

			var corrupt *CorruptDataError
			require.True(errors.As(it.Err(), &corrupt))
			require.Equal(ReasonPayloadOutOfBounds, corrupt.Reason)
		})
	}
}

func TestEntriesStopAtCorruptHeader(t *testing.T) {
	require := require.New(t)

	data := rawArchive(
		rawMember{name: "good.txt", typ: '0', body: []byte("good")},
		rawMember{name: "bad.txt", typ: '0', size: "0000000x000 "},
		rawMember{name: "never.txt", typ: '0', body: []byte("never")},
	)
	tf, _ := newTestTarFile(t, data)

	it := tf.Entries()
	entries := collect(it)
	require.Len(entries, 1)
	require.Equal("good.txt", entries[0].Filename().String())

	var numErr *NumberError
	require.True(errors.As(it.Err(), &numErr))
}

func TestEntriesGnuLongNameUnsupported(t *testing.T) {
	require := require.New(t)

	data := buildArchive(t, tar.FormatGNU,
		file("short.txt", "short"),
		file(strings.Repeat("n", 120), "long"),
	)
	tf, _ := newTestTarFile(t, data)

	it := tf.Entries()
	require.Len(collect(it), 1)

	var flagErr *InvalidTypeFlagError
	require.True(errors.As(it.Err(), &flagErr))
	require.Equal(byte('L'), flagErr.Flag)
}

func TestEntriesUnpairedZeroBlock(t *testing.T) {
	require := require.New(t)

	first := rawArchive(rawMember{name: "first.txt", typ: '0', body: []byte("first")})
	first = first[:len(first)-BLOCKSIZE] // keep a single zero block
	data := append(first, rawArchive(rawMember{name: "second.txt", typ: '0', body: []byte("second")})...)
	tf, hook := newTestTarFile(t, data)

	it := tf.Entries()
	entries := collect(it)
	require.Len(entries, 1)
	require.Equal("first.txt", entries[0].Filename().String())

	var invariant *InvariantError
	require.True(errors.As(it.Err(), &invariant))
	require.Equal(3, invariant.Block)
	require.Equal(logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestEntriesZeroBlockBeforeUndecodableHeader(t *testing.T) {
	// first.txt, its payload and a single zero block take blocks 0 to 2.
	first := rawArchive(rawMember{name: "first.txt", typ: '0', body: []byte("first")})
	first = first[:len(first)-BLOCKSIZE]

	badSum := rawArchive(rawMember{name: "sum.txt", typ: '0', body: []byte("sum")})
	badSum[offName] = 'S'

	testCases := []struct {
		name  string
		tail  []byte
		opts  []TarFileOption
		cause any
	}{
		{"type flag", rawArchive(rawMember{name: "bad", typ: 'Z'}), nil, new(*InvalidTypeFlagError)},
		{"size", rawArchive(rawMember{name: "bad.txt", typ: '0', size: "zzzzzzzzzzz "}), nil, new(*NumberError)},
		{"checksum", badSum, []TarFileOption{WithChecksumVerification()}, new(*ChecksumError)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			data := append(append([]byte{}, first...), tt.tail...)
			tf, hook := newTestTarFile(t, data, tt.opts...)

			it := tf.Entries()
			require.Len(collect(it), 1)

			var invariant *InvariantError
			require.True(errors.As(it.Err(), &invariant))
			require.Equal(3, invariant.Block)
			require.ErrorAs(it.Err(), tt.cause)
			require.Equal(logrus.ErrorLevel, hook.LastEntry().Level)
		})
	}
}

func TestEntriesSingleZeroBlockAtEnd(t *testing.T) {
	require := require.New(t)

	data := rawArchive(rawMember{name: "a/", typ: '5'}, rawMember{name: "b/", typ: '5'})
	data = data[:len(data)-BLOCKSIZE]
	tf, hook := newTestTarFile(t, data)

	it := tf.Entries()
	require.Empty(collect(it))
	require.NoError(it.Err())
	require.Equal(logrus.WarnLevel, hook.LastEntry().Level)
	require.Contains(hook.LastEntry().Message, "only one zero block")
}

func TestEntriesCleanEnd(t *testing.T) {
	require := require.New(t)

	data := buildArchive(t, tar.FormatUSTAR, file("a.txt", "a"))
	// Some writers pad the archive to a full record.
	data = append(data, make([]byte, 16*BLOCKSIZE)...)
	tf, hook := newTestTarFile(t, data)

	it := tf.Entries()
	require.Len(collect(it), 1)
	require.NoError(it.Err())
	require.Equal("tarfile: end of archive", hook.LastEntry().Message)

	_, ok := it.Next()
	require.False(ok)
}

func TestEntriesEmptyArchive(t *testing.T) {
	tf, _ := newTestTarFile(t, make([]byte, MIN_BLOCKS*BLOCKSIZE))
	it := tf.Entries()
	require.Empty(t, collect(it))
	require.NoError(t, it.Err())
}

func TestEntryReader(t *testing.T) {
	require := require.New(t)

	tf, _ := newTestTarFile(t, buildArchive(t, tar.FormatUSTAR, threeFiles...))
	e, err := tf.GetMember("hello_world.txt")
	require.NoError(err)

	r := e.Reader()
	buf := make([]byte, 5)
	_, err = r.ReadAt(buf, 6)
	require.NoError(err)
	require.Equal("World", string(buf))
	require.Equal(int64(12), r.Size())
	require.Equal(`Entry{filename: "hello_world.txt", size: 12, data: <bytes>}`, e.String())
}
