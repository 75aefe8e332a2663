// Package errs defines the sentinel errors shared across figkit packages.
//
// Call sites wrap these with fmt.Errorf("...: %w", err) to add context,
// so callers can match on the sentinel with errors.Is while still seeing
// the offset, tag or entry name that triggered the failure.
package errs

import "errors"

// Format errors: the byte stream is not a valid figkit container.
var (
	// ErrInvalidMagic indicates the buffer starts with neither the raw
	// container magic nor the ZIP local-file-header signature.
	ErrInvalidMagic = errors.New("invalid container magic")

	// ErrInvalidHeaderSize indicates the buffer is too short to hold the
	// fixed 16-byte container header.
	ErrInvalidHeaderSize = errors.New("invalid container header size")

	// ErrUnexpectedEOF indicates a read past the end of the buffer.
	ErrUnexpectedEOF = errors.New("unexpected end of data")

	// ErrChunkTooLarge indicates the schema chunk length recorded in the
	// header exceeds the remaining payload.
	ErrChunkTooLarge = errors.New("schema chunk exceeds payload size")

	// ErrNoDocumentEntry indicates a ZIP archive contains neither of the
	// conventional inner document entries.
	ErrNoDocumentEntry = errors.New("archive contains no document entry")

	// ErrZipContainer indicates ZIP-wrapped bytes were passed to the
	// raw-only entry point.
	ErrZipContainer = errors.New("data is a ZIP archive, not a raw container")
)

// Schema errors: the schema is malformed or does not describe what the
// caller asked for.
var (
	// ErrUnknownDefinition indicates a type ID references a definition
	// index outside the schema.
	ErrUnknownDefinition = errors.New("unknown definition index")

	// ErrUnknownRootMessage indicates the requested root message name is
	// not declared by the schema.
	ErrUnknownRootMessage = errors.New("unknown root message type")

	// ErrInvalidKind indicates a definition kind byte outside enum,
	// struct or message.
	ErrInvalidKind = errors.New("invalid definition kind")

	// ErrDuplicateTag indicates a message definition declares the same
	// field tag twice, or uses the reserved zero tag.
	ErrDuplicateTag = errors.New("duplicate or reserved field tag")
)

// Decode errors: well-formed container, undecodable content.
var (
	// ErrUnknownTag indicates the eager decoder hit a message tag the
	// definition does not declare.
	ErrUnknownTag = errors.New("unknown field tag")
)

// Build errors: a runtime value does not match the shape its field
// declares.
var (
	// ErrValueShape indicates a value's runtime type does not match the
	// field's declared wire type.
	ErrValueShape = errors.New("value shape does not match field type")

	// ErrMissingField indicates a struct value omits one of the
	// definition's positional fields.
	ErrMissingField = errors.New("missing struct field")

	// ErrUnknownEnumName indicates an enum value given by name does not
	// resolve to any declared constant.
	ErrUnknownEnumName = errors.New("unknown enum constant name")

	// ErrNodeCountOverflow indicates the stream encoder finalized with
	// more records than its single-byte count slot can hold.
	ErrNodeCountOverflow = errors.New("node change count exceeds single-byte varint slot")
)

// Streaming codec state errors.
var (
	// ErrNoNodeChangesField indicates the root message does not declare
	// the node-change array field the streaming codec pivots on.
	ErrNoNodeChangesField = errors.New("root message has no node changes array field")

	// ErrHeaderNotWritten indicates a record was written before the
	// stream encoder's header.
	ErrHeaderNotWritten = errors.New("stream header not written")

	// ErrHeaderAlreadyWritten indicates WriteHeader was called twice.
	ErrHeaderAlreadyWritten = errors.New("stream header already written")

	// ErrAlreadyFinalized indicates use of a stream encoder after
	// Finalize.
	ErrAlreadyFinalized = errors.New("stream encoder already finalized")
)
