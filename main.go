package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"tarview/tarfile"
)

const name = "tarview"

func main() {
	parser := flags.NewNamedParser(name, flags.Default)

	parser.AddCommand("list", "List regular files",
		"Lists the regular files of an archive in on-disk order.", &listCommand{})
	parser.AddCommand("cat", "Print a file",
		"Writes the content of one regular file to stdout.", &catCommand{})
	parser.AddCommand("headers", "Dump headers",
		"Prints every header block, including directories and zero blocks.", &headersCommand{})

	_, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrCommandRequired {
			parser.WriteHelp(os.Stdout)
		}

		os.Exit(1)
	}
}

type ArchiveOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"log decoding diagnostics"`
	Verify  bool `long:"verify" description:"stop at headers with a bad checksum"`
	Mmap    bool `long:"mmap" description:"map the archive instead of reading it into memory"`
}

// open loads the archive and returns a function releasing it.
func (o *ArchiveOptions) open(path string) (*tarfile.TarFile, func() error, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if o.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	opts := []tarfile.TarFileOption{tarfile.WithLogger(log)}
	if o.Verify {
		opts = append(opts, tarfile.WithChecksumVerification())
	}

	if o.Mmap {
		return openMapped(path, opts...)
	}
	tf, err := tarfile.Open(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	return tf.TarFile, func() error { return nil }, nil
}

type ArchiveArg struct {
	Archive string `positional-arg-name:"archive" required:"yes"`
}

type listCommand struct {
	ArchiveOptions
	Long bool       `short:"l" long:"long" description:"show mode, owner and header block"`
	Args ArchiveArg `positional-args:"yes"`
}

func (c *listCommand) Execute(args []string) error {
	tf, release, err := c.open(c.Args.Archive)
	if err != nil {
		return err
	}
	defer release()

	return listEntries(os.Stdout, tf, c.Long)
}

func listEntries(out io.Writer, tf *tarfile.TarFile, long bool) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	it := tf.Entries()
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		if !long {
			fmt.Fprintf(w, "%d\t%s\n", e.Size(), e.Filename())
			continue
		}
		info, err := e.Info()
		if err != nil {
			w.Flush()
			return fmt.Errorf("%s: %w", e.Filename(), err)
		}
		fmt.Fprintf(w, "%s\t%d/%d\t%d\t%d\t%s\n",
			info.Mode, info.UID, info.GID, e.Size(), e.BlockIndex(), e.Filename())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return it.Err()
}

type catCommand struct {
	ArchiveOptions
	Args struct {
		Archive string `positional-arg-name:"archive" required:"yes"`
		Name    string `positional-arg-name:"name" required:"yes"`
	} `positional-args:"yes"`
}

func (c *catCommand) Execute(args []string) error {
	tf, release, err := c.open(c.Args.Archive)
	if err != nil {
		return err
	}
	defer release()

	e, err := tf.GetMember(c.Args.Name)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(e.Data())
	return err
}

type headersCommand struct {
	ArchiveOptions
	Args ArchiveArg `positional-args:"yes"`
}

func (c *headersCommand) Execute(args []string) error {
	tf, release, err := c.open(c.Args.Archive)
	if err != nil {
		return err
	}
	defer release()

	return dumpHeaders(os.Stdout, tf)
}

func dumpHeaders(out io.Writer, tf *tarfile.TarFile) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	it := tf.Headers()
	zeros := 0
	for zeros < 2 {
		block, hdr, ok := it.Next()
		if !ok {
			break
		}
		if hdr.IsZeroBlock() {
			zeros++
			fmt.Fprintf(w, "%d\tzero block\n", block)
			continue
		}
		zeros = 0
		info, err := tarfile.NewTarInfo(hdr, block)
		if err != nil {
			fmt.Fprintf(w, "%d\tundecodable header: %v\n", block, err)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s/%s\t%s%s\n",
			block, info.Type, info.Mode, info.Size, info.Uname, info.Gname, info.Name, describeLink(hdr, info))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return it.Err()
}

func describeLink(hdr *tarfile.Header, info *tarfile.TarInfo) string {
	switch {
	case info.IsSym() || info.IsLnk():
		return " -> " + info.Linkname
	case info.Type == tarfile.CHRTYPE || info.Type == tarfile.BLKTYPE:
		return deviceNumber(hdr, info)
	}
	return ""
}
