package compress

import (
	"bytes"
	"fmt"

	"github.com/arloliu/figkit/format"
)

// Compressor compresses one container chunk.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses one container chunk.
//
// Separate interfaces allow asymmetric implementations; the parse path
// only ever needs a Decompressor.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Returns an error if the data is corrupted or was compressed with an
	// incompatible algorithm. The returned slice is newly allocated and
	// owned by the caller.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var (
	// zstdFrameMagic is the little-endian Zstandard frame signature.
	zstdFrameMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	// lz4FrameMagic is the little-endian LZ4 frame signature.
	lz4FrameMagic = []byte{0x04, 0x22, 0x4D, 0x18}
)

// Sniff identifies the compression type of a chunk from its leading
// bytes: zstd frame magic first, then LZ4 frame magic, else raw deflate.
func Sniff(data []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(data, zstdFrameMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(data, lz4FrameMagic):
		return format.CompressionLZ4
	default:
		return format.CompressionDeflate
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionDeflate: NewDeflateCompressor(),
	format.CompressionZstd:    NewZstdCompressor(),
	format.CompressionLZ4:     NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
