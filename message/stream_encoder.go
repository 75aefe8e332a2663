package message

import (
	"fmt"

	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/schema"
	"github.com/arloliu/figkit/wire"
)

// StreamEncoder is the incremental mirror of StreamDecoder: it writes
// the root message's header fields once, then appends node-change
// records as they arrive, and patches the true record count into the
// header slot at Finalize.
//
// The count slot is a single reserved byte, because that is what the
// on-disk format's in-place patch allows: a count of 128 or more would
// need a wider varint than the slot can hold, and widening it would
// shift every record byte. Finalize fails with ErrNodeCountOverflow in
// that case rather than emitting a buffer that cannot round-trip;
// callers with more than 127 records should encode eagerly, where the
// count is known up front.
//
// Note: The StreamEncoder is NOT thread-safe and NOT reusable. After
// calling Finalize, a new encoder must be created for further encoding.
type StreamEncoder struct {
	enc       *Encoder
	w         *wire.Writer
	root      *schema.Definition
	nodeField *schema.Field
	nodeDef   *schema.Definition

	countOffset   int
	count         int
	headerWritten bool
	finished      bool
}

// MaxStreamNodeChanges is the largest record count the single-byte
// count slot can represent.
const MaxStreamNodeChanges = 127

// NewStreamEncoder creates a streaming encoder for the schema's root
// message. Root message and node-change field names follow the same
// conventions and options as NewStreamDecoder.
func NewStreamEncoder(s *schema.Schema, opts ...StreamOption) (*StreamEncoder, error) {
	root, field, nodeDef, err := resolveStream(s, opts...)
	if err != nil {
		return nil, err
	}

	w := wire.NewWriter()

	return &StreamEncoder{
		enc:       NewEncoderFrom(s, w),
		w:         w,
		root:      root,
		nodeField: field,
		nodeDef:   nodeDef,
	}, nil
}

// WriteHeader writes the header fields present in header (the
// node-change field is ignored if present), then the node-change tag
// with a placeholder count of zero. It must be called exactly once,
// before any records.
func (e *StreamEncoder) WriteHeader(header Node) error {
	if e.finished {
		return errs.ErrAlreadyFinalized
	}
	if e.headerWritten {
		return errs.ErrHeaderAlreadyWritten
	}

	for i := range e.root.Fields {
		f := &e.root.Fields[i]
		if f.Name == e.nodeField.Name {
			continue
		}

		v, present := header[f.Name]
		if !present || v == nil {
			continue
		}

		e.w.WriteUvarint(f.Value)
		if err := e.enc.encodeField(f, v); err != nil {
			return fmt.Errorf("stream header field %q: %w", f.Name, err)
		}
	}

	// Node-change tag plus a one-byte count slot, patched in Finalize.
	e.w.WriteUvarint(e.nodeField.Value)
	e.countOffset = e.w.Len()
	e.w.WriteByte(0)

	e.headerWritten = true

	return nil
}

// WriteNodeChange encodes one record immediately. It may be called any
// number of times between WriteHeader and Finalize, interleaved with
// other work.
func (e *StreamEncoder) WriteNodeChange(node Node) error {
	if e.finished {
		return errs.ErrAlreadyFinalized
	}
	if !e.headerWritten {
		return errs.ErrHeaderNotWritten
	}

	if err := e.enc.EncodeValue(e.nodeDef, node); err != nil {
		return fmt.Errorf("node change %d: %w", e.count, err)
	}
	e.count++

	return nil
}

// Finalize writes the message terminator, patches the true record count
// into the reserved slot, and returns the encoded message bytes.
func (e *StreamEncoder) Finalize() ([]byte, error) {
	if e.finished {
		return nil, errs.ErrAlreadyFinalized
	}
	if !e.headerWritten {
		return nil, errs.ErrHeaderNotWritten
	}
	e.finished = true

	if e.count > MaxStreamNodeChanges {
		e.w.Release()
		return nil, fmt.Errorf("%d node changes: %w", e.count, errs.ErrNodeCountOverflow)
	}

	e.w.WriteUvarint(0)
	e.w.PatchByte(e.countOffset, byte(e.count))

	return e.w.Detach(), nil
}
