package compress

// ZstdCompressor provides Zstandard compression for container chunks.
//
// Documents written by recent versions of the original tool use zstd
// frames for both the schema and data chunks; older documents use raw
// deflate. The frame magic makes zstd the first match in Sniff.
//
// Two implementations exist behind build tags: a cgo binding
// (valyala/gozstd) when cgo is available, and a pure-Go fallback
// (klauspost/compress/zstd) otherwise.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
