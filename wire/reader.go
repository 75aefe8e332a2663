package wire

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/figkit/endian"
	"github.com/arloliu/figkit/errs"
)

// Reader is a position-tracked read cursor over a byte slice.
//
// The reader never copies the input on construction; scalar reads copy
// out, so decoded values do not alias the source buffer. A Reader is
// exclusively owned by one decode operation and is not safe for
// concurrent use.
type Reader struct {
	data   []byte
	off    int
	engine endian.EndianEngine
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{
		data:   data,
		engine: endian.GetLittleEndianEngine(),
	}
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// ReadByte reads a single raw byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.off >= len(r.data) {
		return 0, fmt.Errorf("read byte at offset %d: %w", r.off, errs.ErrUnexpectedEOF)
	}

	b := r.data[r.off]
	r.off++

	return b, nil
}

// ReadBool reads a single byte and interprets any nonzero value as true.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}

	return b != 0, nil
}

// ReadBytes reads exactly n bytes and returns them as a fresh slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, fmt.Errorf("read %d bytes at offset %d of %d: %w",
			n, r.off, len(r.data), errs.ErrUnexpectedEOF)
	}

	out := make([]byte, n)
	copy(out, r.data[r.off:r.off+n])
	r.off += n

	return out, nil
}

// ReadUvarint reads an unsigned 32-bit variable-length integer.
//
// At most 5 bytes are consumed; the fifth byte contributes only its low
// 4 bits, matching the writer's output for any uint32.
func (r *Reader) ReadUvarint() (uint32, error) {
	var value uint32
	var shift uint

	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("read varuint: %w", err)
		}

		value |= uint32(b&0x7F) << shift
		shift += 7

		if b&0x80 == 0 || shift >= 35 {
			break
		}
	}

	return value, nil
}

// ReadVarint reads a signed 32-bit variable-length integer (zig-zag folded).
func (r *Reader) ReadVarint() (int32, error) {
	v, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}

	// Zigzag decoding: 0 -> 0, 1 -> -1, 2 -> 1, 3 -> -2, ...
	return int32(v>>1) ^ -int32(v&1), nil //nolint:gosec
}

// ReadUvarint64 reads an unsigned 64-bit variable-length integer.
//
// The encoding uses at most 9 bytes: eight 7-bit groups with a
// continuation bit, then one final byte carrying a full 8 bits.
func (r *Reader) ReadUvarint64() (uint64, error) {
	var value uint64
	var shift uint

	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("read varuint64: %w", err)
		}

		if shift == 56 {
			// Ninth byte: all 8 bits are data, no continuation bit.
			value |= uint64(b) << 56
			break
		}

		value |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}

	return value, nil
}

// ReadVarint64 reads a signed 64-bit variable-length integer (zig-zag folded).
func (r *Reader) ReadVarint64() (int64, error) {
	v, err := r.ReadUvarint64()
	if err != nil {
		return 0, err
	}

	return int64(v>>1) ^ -int64(v&1), nil //nolint:gosec
}

// ReadFloat32 reads a var-float.
//
// A leading zero byte decodes to 0; otherwise four little-endian bytes
// hold the rotated IEEE-754 pattern and the inverse rotation restores it.
func (r *Reader) ReadFloat32() (float32, error) {
	if r.off >= len(r.data) {
		return 0, fmt.Errorf("read float at offset %d: %w", r.off, errs.ErrUnexpectedEOF)
	}

	if r.data[r.off] == 0 {
		r.off++
		return 0, nil
	}

	if r.off+4 > len(r.data) {
		return 0, fmt.Errorf("read float at offset %d: %w", r.off, errs.ErrUnexpectedEOF)
	}

	bits := r.engine.Uint32(r.data[r.off : r.off+4])
	r.off += 4

	// Move the exponent back above the mantissa (inverse of the writer's
	// rotation).
	bits = bits<<23 | bits>>9

	return math.Float32frombits(bits), nil
}

// ReadString reads a NUL-terminated UTF-8 string and consumes the
// terminator.
func (r *Reader) ReadString() (string, error) {
	end := bytes.IndexByte(r.data[r.off:], 0)
	if end < 0 {
		return "", fmt.Errorf("read string at offset %d: missing terminator: %w",
			r.off, errs.ErrUnexpectedEOF)
	}

	s := string(r.data[r.off : r.off+end])
	r.off += end + 1

	return s, nil
}
