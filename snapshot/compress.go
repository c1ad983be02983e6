package snapshot

import (
	"encoding/binary"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Slot payloads are stored as a sequence of blocks:
//
//	[uncompressedSize uint32][compressedSize uint32][data...]
//
// compressedSize == 0 marks a block stored raw (used when compression does
// not pay off; slot arrays of nearly-prime-free ranges barely compress).

const (
	blockHeaderSize  = 8
	defaultBlockSize = 256 * 1024
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compressBlock encodes one block, falling back to raw storage when the
// compressed form saves less than 10%.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	var compressed []byte

	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case CompressionZstd:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		compressed = nil
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

// writeBlocks encodes data in fixed-size blocks to w.
func writeBlocks(w *checksumWriter, data []byte, c Compression) error {
	for len(data) > 0 {
		n := len(data)
		if n > defaultBlockSize {
			n = defaultBlockSize
		}

		block, err := compressBlock(data[:n], c)
		if err != nil {
			return err
		}
		if _, err := w.Write(block); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// decodeBlocks decodes a full block sequence back into dst, which must be
// sized to the expected uncompressed total.
func decodeBlocks(payload, dst []byte, c Compression) error {
	off := 0
	filled := 0

	for off < len(payload) {
		if off+blockHeaderSize > len(payload) {
			return ErrTruncated
		}
		uncompressedSize := int(binary.LittleEndian.Uint32(payload[off:]))
		compressedSize := int(binary.LittleEndian.Uint32(payload[off+4:]))
		off += blockHeaderSize

		if filled+uncompressedSize > len(dst) {
			return ErrCorrupt
		}
		out := dst[filled : filled+uncompressedSize]

		if compressedSize == 0 {
			if off+uncompressedSize > len(payload) {
				return ErrTruncated
			}
			copy(out, payload[off:off+uncompressedSize])
			off += uncompressedSize
		} else {
			if off+compressedSize > len(payload) {
				return ErrTruncated
			}
			block := payload[off : off+compressedSize]
			off += compressedSize

			switch c {
			case CompressionZstd:
				dec := getZstdDecoder()
				decoded, err := dec.DecodeAll(block, out[:0])
				zstdDecoderPool.Put(dec)
				if err != nil {
					return err
				}
				if len(decoded) != uncompressedSize {
					return ErrCorrupt
				}
			default: // LZ4
				n, err := lz4.UncompressBlock(block, out)
				if err != nil {
					return err
				}
				if n != uncompressedSize {
					return ErrCorrupt
				}
			}
		}

		filled += uncompressedSize
	}

	if filled != len(dst) {
		return ErrTruncated
	}
	return nil
}
