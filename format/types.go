package format

// CompressionType identifies the compression algorithm applied to one
// container chunk. The value never appears on the wire; chunks are
// identified by content sniffing (zstd and LZ4 frames carry a magic,
// raw deflate is the unmarked fallback).
type CompressionType uint8

const (
	CompressionDeflate CompressionType = 0x1 // CompressionDeflate represents headerless raw deflate.
	CompressionZstd    CompressionType = 0x2 // CompressionZstd represents Zstandard frames.
	CompressionLZ4     CompressionType = 0x3 // CompressionLZ4 represents LZ4 frames.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionDeflate:
		return "Deflate"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
