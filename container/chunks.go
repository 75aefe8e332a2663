package container

import (
	"fmt"

	"github.com/arloliu/figkit/compress"
	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/format"
)

// Payload returns the bytes after the fixed header.
func Payload(data []byte) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("container is %d bytes, header needs %d: %w",
			len(data), HeaderSize, errs.ErrInvalidHeaderSize)
	}

	return data[HeaderSize:], nil
}

// SplitChunks splits a payload into its schema and data chunks.
//
// The first schemaSize bytes are the compressed schema; the remainder is
// the compressed message data. There is no delimiter between them.
func SplitChunks(payload []byte, schemaSize uint32) (schemaChunk, dataChunk []byte, err error) {
	if int(schemaSize) > len(payload) {
		return nil, nil, fmt.Errorf("schema chunk of %d bytes, payload holds %d: %w",
			schemaSize, len(payload), errs.ErrChunkTooLarge)
	}

	return payload[:schemaSize], payload[schemaSize:], nil
}

// DecompressChunk sniffs a chunk's compression from its leading bytes
// and decompresses it: zstd frames and LZ4 frames are recognized by
// magic, anything else is treated as headerless raw deflate.
func DecompressChunk(data []byte) ([]byte, error) {
	compressionType := compress.Sniff(data)

	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, fmt.Errorf("decompress chunk: %w", err)
	}

	decompressed, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s chunk: %w", compressionType, err)
	}

	return decompressed, nil
}

// CompressChunk compresses a chunk with the given compression type.
// Used by the build path; the parse path never needs a type, it sniffs.
func CompressChunk(data []byte, compressionType format.CompressionType) ([]byte, error) {
	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, fmt.Errorf("compress chunk: %w", err)
	}

	compressed, err := codec.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("compress %s chunk: %w", compressionType, err)
	}

	return compressed, nil
}
