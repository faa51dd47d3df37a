package tarfile

import "fmt"

// TypeFlag is the decoded entry type of a header.
type TypeFlag byte

const (
	REGTYPE  TypeFlag = '0'    // Regular file
	AREGTYPE TypeFlag = '\x00' // Regular file (old format)
	LNKTYPE  TypeFlag = '1'    // Hard link
	SYMTYPE  TypeFlag = '2'    // Symbolic link
	CHRTYPE  TypeFlag = '3'    // Character device
	BLKTYPE  TypeFlag = '4'    // Block device
	DIRTYPE  TypeFlag = '5'    // Directory
	FIFOTYPE TypeFlag = '6'    // FIFO
	CONTTYPE TypeFlag = '7'    // Contiguous file
	XHDTYPE  TypeFlag = 'x'    // POSIX.1-2001 extended header
	XGLTYPE  TypeFlag = 'g'    // POSIX.1-2001 global header
)

var typeNames = map[TypeFlag]string{
	REGTYPE:  "regular",
	AREGTYPE: "regular (old)",
	LNKTYPE:  "hardlink",
	SYMTYPE:  "symlink",
	CHRTYPE:  "char device",
	BLKTYPE:  "block device",
	DIRTYPE:  "directory",
	FIFOTYPE: "fifo",
	CONTTYPE: "contiguous",
	XHDTYPE:  "extended header",
	XGLTYPE:  "global extended header",
}

// ParseTypeFlag decodes the raw typeflag byte of a header.
func ParseTypeFlag(b byte) (TypeFlag, error) {
	f := TypeFlag(b)
	if _, ok := typeNames[f]; !ok {
		return 0, NewInvalidTypeFlagError(b)
	}
	return f, nil
}

// IsRegularFile is true for both encodings of a regular file.
func (f TypeFlag) IsRegularFile() bool {
	return f == REGTYPE || f == AREGTYPE
}

func (f TypeFlag) IsDir() bool { return f == DIRTYPE }

func (f TypeFlag) String() string {
	if name, ok := typeNames[f]; ok {
		return name
	}
	return fmt.Sprintf("TypeFlag(%q)", byte(f))
}
