// Package snapshot implements the binary container used to persist a sieve
// instance: a fixed header, the instance name, the slot array in compressed
// blocks, and a trailing CRC32.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
)

// Data is the serializable state of one sieve instance.
type Data struct {
	// Name is the registry identifier of the instance.
	Name string
	// Range is the inclusive upper bound the instance was created with.
	Range uint64
	// Sieved reports whether the slot array reflects a completed sieve run.
	Sieved bool
	// Slots is the slot array, one cell per tracked odd integer.
	Slots []uint8
}

// Write serializes d to w using the given compression.
func Write(w io.Writer, d *Data, c Compression) error {
	if len(d.Name) > math.MaxUint16 {
		return fmt.Errorf("snapshot: name too long: %d bytes", len(d.Name))
	}

	cw := newChecksumWriter(w)

	var sieved uint8
	if d.Sieved {
		sieved = 1
	}

	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:], Magic)
	binary.LittleEndian.PutUint32(hdr[4:], Version)
	hdr[8] = uint8(c)
	hdr[9] = sieved
	binary.LittleEndian.PutUint16(hdr[10:], uint16(len(d.Name)))
	binary.LittleEndian.PutUint64(hdr[12:], d.Range)
	binary.LittleEndian.PutUint64(hdr[20:], uint64(len(d.Slots)))

	if _, err := cw.Write(hdr); err != nil {
		return err
	}
	if _, err := io.WriteString(cw, d.Name); err != nil {
		return err
	}
	if err := writeBlocks(cw, d.Slots, c); err != nil {
		return err
	}

	var footer [footerSize]byte
	binary.LittleEndian.PutUint32(footer[:], cw.Sum())
	_, err := w.Write(footer[:])
	return err
}

// Read deserializes a snapshot, verifying its checksum.
func Read(r io.Reader) (*Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// Decode deserializes a snapshot from an in-memory buffer, verifying its
// checksum. The returned Data does not alias raw.
func Decode(raw []byte) (*Data, error) {
	if len(raw) < headerSize+footerSize {
		return nil, ErrTruncated
	}

	body := raw[:len(raw)-footerSize]
	want := binary.LittleEndian.Uint32(raw[len(raw)-footerSize:])
	if got := crc32.ChecksumIEEE(body); got != want {
		return nil, &ChecksumMismatchError{Expected: want, Actual: got}
	}

	if binary.LittleEndian.Uint32(body[0:]) != Magic {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint32(body[4:]); v != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, v)
	}

	c := Compression(body[8])
	sieved := body[9] != 0
	nameLen := int(binary.LittleEndian.Uint16(body[10:]))
	rang := binary.LittleEndian.Uint64(body[12:])
	slotCount := binary.LittleEndian.Uint64(body[20:])

	if len(body) < headerSize+nameLen {
		return nil, ErrTruncated
	}
	name := string(body[headerSize : headerSize+nameLen])
	payload := body[headerSize+nameLen:]

	slots := make([]uint8, slotCount)
	if err := decodeBlocks(payload, slots, c); err != nil {
		return nil, err
	}

	return &Data{
		Name:   name,
		Range:  rang,
		Sieved: sieved,
		Slots:  slots,
	}, nil
}

// Encode serializes d into a fresh buffer.
func Encode(d *Data, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, d, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
