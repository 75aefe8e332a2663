// Package figkit reads and writes the binary container format used by
// a vector design tool's proprietary documents.
//
// A document is a self-describing binary message: an embedded schema
// (decoded first, with zero prior knowledge) describes the enums,
// structs and messages that the data chunk is then decoded against.
// Schema and data travel as two independently compressed chunks behind
// a fixed 16-byte header, and the whole container may additionally be
// wrapped in a ZIP archive that carries side-channel image assets.
//
// # Basic Usage
//
// Parsing a document, eagerly:
//
//	file, err := figkit.Parse(data)
//	if err != nil {
//	    return err
//	}
//	for _, node := range file.NodeChanges {
//	    fmt.Println(node["name"])
//	}
//
// Streaming the node changes instead of materializing the tree:
//
//	doc, err := figkit.StreamParse(data)
//	if err != nil {
//	    return err
//	}
//	for nc, err := range doc.Decoder.All() {
//	    if err != nil {
//	        return err
//	    }
//	    process(nc.Node)
//	}
//
// # Package Structure
//
// This package provides the file-level orchestration. The work happens
// in the subpackages: wire (byte-level primitives), schema (the
// self-describing type system), message (eager and streaming codecs),
// container (header, chunks, compression dispatch) and compress (the
// chunk codecs).
package figkit

import (
	"fmt"

	"github.com/arloliu/figkit/container"
	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/message"
	"github.com/arloliu/figkit/schema"
)

// Parse parses a complete document from raw bytes.
//
// Bytes beginning with the ZIP local-file-header signature are treated
// as the ZIP-wrapped variant: the inner document is located under the
// conventional entry names and any images/ entries are collected into
// the asset map. Anything else must be a raw container; a buffer that
// is neither fails with errs.ErrInvalidMagic.
func Parse(data []byte, opts ...Option) (*ParsedFile, error) {
	cfg, err := newFileConfig(opts)
	if err != nil {
		return nil, err
	}

	if isZipData(data) {
		inner, images, err := unwrapArchive(data)
		if err != nil {
			return nil, err
		}

		file, err := parseRaw(inner, cfg)
		if err != nil {
			return nil, err
		}
		file.Images = images

		return file, nil
	}

	return parseRaw(data, cfg)
}

// ParseRaw parses a raw (non-ZIP) container only.
//
// ZIP-wrapped bytes fail immediately with errs.ErrZipContainer instead
// of being misparsed as a raw container.
func ParseRaw(data []byte, opts ...Option) (*ParsedFile, error) {
	cfg, err := newFileConfig(opts)
	if err != nil {
		return nil, err
	}

	if isZipData(data) {
		return nil, errs.ErrZipContainer
	}

	return parseRaw(data, cfg)
}

// StreamDoc is the result of StreamParse: the decoded schema plus a
// streaming decoder positioned at the start of the root message.
type StreamDoc struct {
	// Schema is the document's decoded schema.
	Schema *schema.Schema
	// Decoder lazily produces the document's node-change records.
	Decoder *message.StreamDecoder
	// Version is the container format version byte.
	Version byte
	// Images holds the side-channel assets of a ZIP-wrapped document,
	// keyed by reference. Empty for raw containers.
	Images map[string]Image
}

// StreamParse unwraps and decompresses a document but defers message
// decoding to a streaming decoder, so node changes can be consumed one
// at a time without materializing the whole tree.
func StreamParse(data []byte, opts ...Option) (*StreamDoc, error) {
	cfg, err := newFileConfig(opts)
	if err != nil {
		return nil, err
	}

	images := map[string]Image{}
	if isZipData(data) {
		inner, zipImages, err := unwrapArchive(data)
		if err != nil {
			return nil, err
		}
		data, images = inner, zipImages
	}

	header, sch, dataBytes, err := openContainer(data)
	if err != nil {
		return nil, err
	}

	dec, err := message.NewStreamDecoder(sch, dataBytes, cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}

	return &StreamDoc{
		Schema:  sch,
		Decoder: dec,
		Version: header.Version,
		Images:  images,
	}, nil
}

// openContainer runs the shared container plumbing: header validation,
// chunk split, decompression of both chunks, and schema decode.
func openContainer(data []byte) (container.Header, *schema.Schema, []byte, error) {
	header, err := container.ParseHeader(data)
	if err != nil {
		return container.Header{}, nil, nil, err
	}

	payload, err := container.Payload(data)
	if err != nil {
		return container.Header{}, nil, nil, err
	}

	schemaChunk, dataChunk, err := container.SplitChunks(payload, header.SchemaSize)
	if err != nil {
		return container.Header{}, nil, nil, err
	}

	schemaBytes, err := container.DecompressChunk(schemaChunk)
	if err != nil {
		return container.Header{}, nil, nil, fmt.Errorf("schema chunk: %w", err)
	}

	dataBytes, err := container.DecompressChunk(dataChunk)
	if err != nil {
		return container.Header{}, nil, nil, fmt.Errorf("data chunk: %w", err)
	}

	sch, err := schema.Decode(schemaBytes)
	if err != nil {
		return container.Header{}, nil, nil, err
	}

	return header, sch, dataBytes, nil
}

// parseRaw decodes a raw container into a fully materialized result.
func parseRaw(data []byte, cfg *fileConfig) (*ParsedFile, error) {
	header, sch, dataBytes, err := openContainer(data)
	if err != nil {
		return nil, err
	}

	dec := message.NewDecoder(sch, dataBytes)
	msg, err := dec.Decode(cfg.rootName)
	if err != nil {
		return nil, err
	}

	return assembleFile(header, sch, msg, cfg), nil
}
