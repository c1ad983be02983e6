package snapshot

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"
)

// Snapshots carry a CRC32 (IEEE) of the header and payload so storage
// corruption is detected on load. CRC32 is not tamper-proof; it only guards
// against accidental corruption.

// checksumWriter wraps an io.Writer and keeps a running CRC32.
type checksumWriter struct {
	w    io.Writer
	hash hash.Hash32
}

func newChecksumWriter(w io.Writer) *checksumWriter {
	return &checksumWriter{
		w:    w,
		hash: crc32.NewIEEE(),
	}
}

func (cw *checksumWriter) Write(p []byte) (int, error) {
	if _, err := cw.hash.Write(p); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}

func (cw *checksumWriter) Sum() uint32 {
	return cw.hash.Sum32()
}

// ChecksumMismatchError is returned when the stored CRC32 does not match the
// recomputed one.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("snapshot: checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch reports whether err is a checksum mismatch.
func IsChecksumMismatch(err error) bool {
	_, ok := err.(*ChecksumMismatchError)
	return ok
}
