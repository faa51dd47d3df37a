package tarfile

const (
	NUL       = byte(0) // Null character
	BLOCKSIZE = 512     // Length of headers and payload blocks

	MIN_BLOCKS    = 3 // One header plus the two terminating zero blocks
	TRAILER_BYTES = 2 * BLOCKSIZE

	LENGTH_NAME     = 100 // Max length of filename
	LENGTH_MODE     = 8
	LENGTH_ID       = 8 // uid and gid
	LENGTH_SIZE     = 12
	LENGTH_MTIME    = 12
	LENGTH_CHKSUM   = 8
	LENGTH_LINK     = 100 // Max length of linkname
	LENGTH_MAGIC    = 6
	LENGTH_VERSION  = 2
	LENGTH_OWNER    = 32  // uname and gname
	LENGTH_DEV      = 8   // devmajor and devminor
	LENGTH_PREFIX   = 155 // Max length of prefix field
	LENGTH_FILENAME = LENGTH_PREFIX + 1 + LENGTH_NAME

	USTAR_MAGIC   = "ustar"
	USTAR_VERSION = "00"
)

// Byte offsets of the header fields.
const (
	offName     = 0
	offMode     = offName + LENGTH_NAME
	offUID      = offMode + LENGTH_MODE
	offGID      = offUID + LENGTH_ID
	offSize     = offGID + LENGTH_ID
	offMtime    = offSize + LENGTH_SIZE
	offChksum   = offMtime + LENGTH_MTIME
	offTypeFlag = offChksum + LENGTH_CHKSUM
	offLinkname = offTypeFlag + 1
	offMagic    = offLinkname + LENGTH_LINK
	offVersion  = offMagic + LENGTH_MAGIC
	offUname    = offVersion + LENGTH_VERSION
	offGname    = offUname + LENGTH_OWNER
	offDevMajor = offGname + LENGTH_OWNER
	offDevMinor = offDevMajor + LENGTH_DEV
	offPrefix   = offDevMinor + LENGTH_DEV
	offPadding  = offPrefix + LENGTH_PREFIX
	headerEnd   = offPadding + 12
)

// The layout must add up to exactly one block.
var (
	_ [BLOCKSIZE - headerEnd]struct{}
	_ [headerEnd - BLOCKSIZE]struct{}
)
