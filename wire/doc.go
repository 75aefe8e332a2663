// Package wire implements the byte-level primitives of the figkit
// document format.
//
// A Reader is a position-tracked cursor over an immutable byte slice; a
// Writer is an append-only cursor over a pooled buffer. On top of raw
// byte access both sides implement the eight atomic wire types:
//
//   - bool: single byte, 0 or 1
//   - byte: single raw byte
//   - int / uint: variable-length integers, 7 data bits per byte with a
//     continuation high bit, at most 5 bytes; signed values are zig-zag
//     folded before encoding
//   - int64 / uint64: the 64-bit extension of the same scheme, capped at
//     9 bytes (eight 7-bit groups, then one final full byte)
//   - float: a var-float — the IEEE-754 bit pattern barrel-rotated so
//     the sign and exponent land in the low byte, written little-endian;
//     zero and denormals collapse to a single zero byte
//   - string: UTF-8 bytes terminated by NUL
//
// The rotation in the float encoding has no numeric meaning; it clusters
// the exponent bits so the compressed chunks deflate better. It must be
// reproduced bit-exactly or every float field in every document is
// corrupted.
//
// Reading past the end of the buffer is a hard error (errs.ErrUnexpectedEOF),
// never a silent truncation. Writes cannot fail; the buffer grows.
package wire
