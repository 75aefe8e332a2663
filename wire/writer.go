package wire

import (
	"math"

	"github.com/arloliu/figkit/endian"
	"github.com/arloliu/figkit/internal/pool"
)

// Writer is an append-only write cursor backed by a pooled buffer.
//
// Writes never fail; the buffer grows as needed. A Writer is exclusively
// owned by one encode operation. Call Detach to take ownership of the
// encoded bytes and return the buffer to the pool, or Release to discard
// the buffer on an error path.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates an empty Writer with a pooled buffer.
func NewWriter() *Writer {
	return &Writer{
		buf:    pool.GetMessageBuffer(),
		engine: endian.GetLittleEndianEngine(),
	}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the written bytes.
//
// The returned slice shares the underlying pooled buffer; it is only
// valid until the next write, Detach or Release. Use Detach for a slice
// the caller can keep.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Detach copies the written bytes into a fresh slice, returns the
// internal buffer to the pool, and leaves the Writer unusable.
func (w *Writer) Detach() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	w.Release()

	return out
}

// Release returns the internal buffer to the pool without copying.
// After calling Release, the Writer must not be used again.
func (w *Writer) Release() {
	if w.buf != nil {
		pool.PutMessageBuffer(w.buf)
		w.buf = nil
	}
}

// WriteByte appends a single raw byte.
func (w *Writer) WriteByte(b byte) {
	w.buf.MustWriteByte(b)
}

// WriteBool appends a bool as a single 0 or 1 byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.MustWriteByte(1)
	} else {
		w.buf.MustWriteByte(0)
	}
}

// WriteRaw appends data verbatim.
func (w *Writer) WriteRaw(data []byte) {
	w.buf.MustWrite(data)
}

// WriteUvarint appends an unsigned 32-bit variable-length integer.
// Values below 128 occupy a single byte; the maximum is 5 bytes.
func (w *Writer) WriteUvarint(v uint32) {
	for v >= 0x80 {
		w.buf.MustWriteByte(byte(v) | 0x80)
		v >>= 7
	}
	w.buf.MustWriteByte(byte(v))
}

// WriteVarint appends a signed 32-bit variable-length integer using
// zig-zag folding, so small negative values stay short.
func (w *Writer) WriteVarint(v int32) {
	w.WriteUvarint(uint32(v<<1) ^ uint32(v>>31)) //nolint:gosec
}

// WriteUvarint64 appends an unsigned 64-bit variable-length integer.
//
// After eight 7-bit continuation groups the ninth byte carries a full
// 8 bits, capping the encoding at 9 bytes.
func (w *Writer) WriteUvarint64(v uint64) {
	for i := 0; v > 0x7F && i < 8; i++ {
		w.buf.MustWriteByte(byte(v&0x7F) | 0x80)
		v >>= 7
	}
	w.buf.MustWriteByte(byte(v))
}

// WriteVarint64 appends a signed 64-bit variable-length integer (zig-zag folded).
func (w *Writer) WriteVarint64(v int64) {
	w.WriteUvarint64(uint64(v<<1) ^ uint64(v>>63)) //nolint:gosec
}

// WriteFloat32 appends a var-float.
//
// The IEEE-754 bit pattern is rotated so the sign and exponent occupy
// the low byte, then written as four little-endian bytes. Zero and
// denormals (rotated low byte zero) collapse to a single zero byte; the
// reader keys off that first byte.
func (w *Writer) WriteFloat32(v float32) {
	bits := math.Float32bits(v)
	bits = bits>>23 | bits<<9

	if bits&0xFF == 0 {
		w.buf.MustWriteByte(0)
		return
	}

	w.buf.B = w.engine.AppendUint32(w.buf.B, bits)
}

// WriteString appends UTF-8 bytes followed by a NUL terminator.
// The string must not itself contain a NUL byte; the format cannot
// represent one.
func (w *Writer) WriteString(s string) {
	w.buf.Grow(len(s) + 1)
	w.buf.MustWrite([]byte(s))
	w.buf.MustWriteByte(0)
}

// PatchByte overwrites one previously written byte at the given offset.
// It panics if the offset has not been written yet; patching is only
// meaningful for reserved slots.
func (w *Writer) PatchByte(off int, b byte) {
	if off < 0 || off >= w.buf.Len() {
		panic("wire: PatchByte offset out of range")
	}
	w.buf.B[off] = b
}
