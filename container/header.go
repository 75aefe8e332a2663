// Package container implements the outer byte layout of a raw figkit
// document: the fixed 16-byte header, the two-chunk payload split, and
// the compression dispatch for each chunk.
//
// Layout (all little-endian):
//
//	bytes 0-7   ASCII magic "fig-kiwi"
//	byte  8     version, a single ASCII digit stored as a raw byte
//	bytes 9-12  schema chunk length, unsigned 32-bit
//	bytes 13-15 reserved, written as zero, ignored on read
//	bytes 16-   payload: schema chunk || data chunk
//
// The two chunks are contiguous with no delimiter; the schema chunk
// length in the header is authoritative.
package container

import (
	"bytes"
	"fmt"

	"github.com/arloliu/figkit/endian"
	"github.com/arloliu/figkit/errs"
)

const (
	// Magic is the 8-byte literal opening every raw container.
	Magic = "fig-kiwi"

	// HeaderSize is the fixed size of the container header.
	HeaderSize = 16

	// DefaultVersion is the format version written by Build when the
	// caller does not override it.
	DefaultVersion byte = '5'
)

// Header is the parsed fixed-size container header.
type Header struct {
	// Version is the format version byte, an ASCII digit.
	Version byte
	// SchemaSize is the length in bytes of the compressed schema chunk
	// at the start of the payload.
	SchemaSize uint32
}

// ParseHeader validates the magic and decodes the header fields.
//
// The schema chunk length is checked against the actual payload length;
// a header promising more bytes than the buffer holds is a format error.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("container is %d bytes, header needs %d: %w",
			len(data), HeaderSize, errs.ErrInvalidHeaderSize)
	}

	if !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return Header{}, fmt.Errorf("parse container header: %w", errs.ErrInvalidMagic)
	}

	engine := endian.GetLittleEndianEngine()
	h := Header{
		Version:    data[8],
		SchemaSize: engine.Uint32(data[9:13]),
	}

	if int(h.SchemaSize) > len(data)-HeaderSize {
		return Header{}, fmt.Errorf("schema chunk of %d bytes, payload holds %d: %w",
			h.SchemaSize, len(data)-HeaderSize, errs.ErrChunkTooLarge)
	}

	return h, nil
}

// Bytes serializes the header into its fixed 16-byte layout.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	copy(b, Magic)
	b[8] = h.Version
	endian.GetLittleEndianEngine().PutUint32(b[9:13], h.SchemaSize)
	// bytes 13-15 reserved, left zero

	return b
}

// IsRaw reports whether data begins with the raw container magic.
func IsRaw(data []byte) bool {
	return len(data) >= len(Magic) && bytes.Equal(data[:len(Magic)], []byte(Magic))
}
