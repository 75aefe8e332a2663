package figkit

import (
	"fmt"

	"github.com/arloliu/figkit/container"
	"github.com/arloliu/figkit/internal/pool"
	"github.com/arloliu/figkit/message"
	"github.com/arloliu/figkit/schema"
)

// Build assembles a raw container from a schema and a root message
// value: both are encoded, independently compressed (raw deflate by
// default; see WithChunkCompression), and laid out behind the fixed
// header. The result parses back with Parse or ParseRaw.
func Build(sch *schema.Schema, msg message.Node, opts ...Option) ([]byte, error) {
	cfg, err := newFileConfig(opts)
	if err != nil {
		return nil, err
	}

	enc := message.NewEncoder(sch)
	dataBytes, err := enc.Encode(cfg.rootName, msg)
	if err != nil {
		return nil, err
	}

	schemaChunk, err := container.CompressChunk(sch.Encode(), cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("schema chunk: %w", err)
	}

	dataChunk, err := container.CompressChunk(dataBytes, cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("data chunk: %w", err)
	}

	header := container.Header{
		Version:    cfg.version,
		SchemaSize: uint32(len(schemaChunk)), //nolint:gosec
	}

	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	buf.Grow(container.HeaderSize + len(schemaChunk) + len(dataChunk))
	buf.MustWrite(header.Bytes())
	buf.MustWrite(schemaChunk)
	buf.MustWrite(dataChunk)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}
