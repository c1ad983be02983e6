package snapshot

import "errors"

const (
	// Magic identifies sieve snapshot files (ASCII "SVE0").
	Magic = 0x53564530
	// Version is the current snapshot format version.
	Version = 1
)

// Compression selects the block compression applied to the slot payload.
type Compression uint8

const (
	// CompressionNone stores slot blocks raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd block compression (better ratio).
	CompressionZstd Compression = 2
)

var (
	// ErrInvalidMagic is returned when the input is not a sieve snapshot.
	ErrInvalidMagic = errors.New("snapshot: invalid magic number")
	// ErrInvalidVersion is returned for unsupported format versions.
	ErrInvalidVersion = errors.New("snapshot: unsupported version")
	// ErrTruncated is returned when the input ends before the format says it should.
	ErrTruncated = errors.New("snapshot: truncated input")
	// ErrCorrupt is returned when the payload is structurally invalid.
	ErrCorrupt = errors.New("snapshot: corrupt payload")
)

// header is the fixed-size portion of a snapshot, followed by the instance
// name and the compressed slot blocks. All integers are little-endian.
//
// Layout:
//
//	magic       uint32
//	version     uint32
//	compression uint8
//	sieved      uint8
//	nameLen     uint16
//	range       uint64
//	slotCount   uint64
//
// The file ends with a uint32 CRC32 (IEEE) of everything before it.
type header struct {
	Magic       uint32
	Version     uint32
	Compression uint8
	Sieved      uint8
	NameLen     uint16
	Range       uint64
	SlotCount   uint64
}

const headerSize = 4 + 4 + 1 + 1 + 2 + 8 + 8

const footerSize = 4 // trailing CRC32
