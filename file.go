package figkit

import (
	"github.com/arloliu/figkit/container"
	"github.com/arloliu/figkit/internal/hash"
	"github.com/arloliu/figkit/message"
	"github.com/arloliu/figkit/schema"
)

// DefaultBlobsField is the conventional name of the root message's
// opaque binary records field.
const DefaultBlobsField = "blobs"

// Blob is one opaque binary record carried alongside the node tree.
type Blob struct {
	// Bytes is the raw record payload.
	Bytes []byte
	// ID is the xxHash64 of the payload, a stable content identity for
	// downstream caches.
	ID uint64
}

// Image is one side-channel asset unpacked from a ZIP-wrapped document.
type Image struct {
	// Bytes is the raw image data.
	Bytes []byte
	// MimeType is sniffed from the image's magic bytes, falling back to
	// the entry's file extension.
	MimeType string
	// ID is the xxHash64 of the image data.
	ID uint64
}

// ParsedFile is the complete, immutable result of one parse call.
//
// Downstream consumers (tree building, symbol resolution, rendering)
// read it and never mutate it.
type ParsedFile struct {
	// Schema is the document's decoded schema.
	Schema *schema.Schema
	// Message is the full decoded root record.
	Message message.Node
	// NodeChanges is the document's main repeated array, lifted out of
	// Message. Empty if the root message carries none.
	NodeChanges []message.Node
	// Blobs are the opaque binary records, lifted out of Message.
	Blobs []Blob
	// Images holds the side-channel assets of a ZIP-wrapped document,
	// keyed by reference. Empty for raw containers.
	Images map[string]Image
	// Version is the container format version byte.
	Version byte
}

// assembleFile lifts the conventional collections out of the decoded
// root message. Fields that are absent, or whose shapes were declared
// differently by this document's schema, simply yield empty results.
func assembleFile(header container.Header, sch *schema.Schema, msg message.Node, cfg *fileConfig) *ParsedFile {
	file := &ParsedFile{
		Schema:  sch,
		Message: msg,
		Images:  map[string]Image{},
		Version: header.Version,
	}

	if arr, ok := msg[cfg.nodeFieldName].([]any); ok {
		file.NodeChanges = make([]message.Node, 0, len(arr))
		for _, elem := range arr {
			if node, ok := elem.(message.Node); ok {
				file.NodeChanges = append(file.NodeChanges, node)
			}
		}
	}

	if arr, ok := msg[DefaultBlobsField].([]any); ok {
		file.Blobs = make([]Blob, 0, len(arr))
		for _, elem := range arr {
			node, ok := elem.(message.Node)
			if !ok {
				continue
			}
			if bytes, ok := node["bytes"].([]byte); ok {
				file.Blobs = append(file.Blobs, Blob{Bytes: bytes, ID: hash.ID(bytes)})
			}
		}
	}

	return file
}
