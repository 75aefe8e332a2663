package message

import (
	"fmt"
	"iter"

	"github.com/arloliu/figkit/schema"
	"github.com/arloliu/figkit/wire"
)

// streamPhase tracks where the streaming decoder is in the root
// message. The phase is explicit state, not control-flow position, so
// an abandoned iterator leaves the decoder inspectable.
type streamPhase uint8

const (
	phaseHeader  streamPhase = iota // reading scalar header fields
	phaseNodes                      // positioned inside the node-change array
	phaseTrailer                    // reading header fields after the array
	phaseDone                       // terminator or unknown tag reached
)

// NodeChange is one element yielded by the streaming decoder.
type NodeChange struct {
	// Index is the zero-based position of this record in the array.
	Index int
	// Total is the declared record count for the whole array.
	Total int
	// Node is the decoded record.
	Node Node
}

// StreamDecoder decodes the root message's scalar header fields eagerly
// and produces the repeated node-change records lazily, one at a time,
// without materializing the whole document.
//
// Unlike the eager Decoder, the streaming decoder treats a message tag
// it does not recognize as an implicit end of message rather than an
// error. That asymmetry is deliberate: it lets the header of a document
// written by a newer schema be skimmed without failing on fields this
// schema has never heard of.
//
// The produced sequence is forward-only and non-restartable. Stopping
// early is free: remaining bytes are simply never read, and Offset
// reports where decoding stopped.
//
// Note: The StreamDecoder is NOT thread-safe and NOT reusable.
type StreamDecoder struct {
	dec       *Decoder
	r         *wire.Reader
	root      *schema.Definition
	nodeField *schema.Field
	nodeDef   *schema.Definition

	header    Node
	total     int
	nextIndex int
	phase     streamPhase
}

// NewStreamDecoder creates a streaming decoder over an uncompressed
// message buffer. By default the root message is named "Message" and
// the repeated field "nodeChanges"; both can be overridden with
// options.
func NewStreamDecoder(s *schema.Schema, data []byte, opts ...StreamOption) (*StreamDecoder, error) {
	root, field, nodeDef, err := resolveStream(s, opts...)
	if err != nil {
		return nil, err
	}

	r := wire.NewReader(data)

	return &StreamDecoder{
		dec:       NewDecoderFrom(s, r),
		r:         r,
		root:      root,
		nodeField: field,
		nodeDef:   nodeDef,
		header:    Node{},
	}, nil
}

// Offset returns the cursor's current byte position. After DecodeHeader
// it points at the first node record, so a caller could in principle
// resume record decoding from there.
func (d *StreamDecoder) Offset() int {
	return d.r.Offset()
}

// Total returns the declared node-change count. It is meaningful only
// after DecodeHeader (or the first yield of All).
func (d *StreamDecoder) Total() int {
	return d.total
}

// Header returns the header fields decoded so far. Trailing fields
// stored after the node-change array appear only once the sequence has
// been fully consumed.
func (d *StreamDecoder) Header() Node {
	return d.header
}

// DecodeHeader reads the scalar header fields and stops at the
// node-change array. The array's declared count is recorded in the
// returned header under NodeChangeCountKey; no records are decoded.
//
// If the message ends (or hits an unknown tag) before the node-change
// field, the count is absent and the sequence is empty.
func (d *StreamDecoder) DecodeHeader() (Node, error) {
	if d.phase != phaseHeader {
		return d.header, nil
	}

	for {
		tag, err := d.r.ReadUvarint()
		if err != nil {
			return nil, fmt.Errorf("stream header of %q: %w", d.root.Name, err)
		}
		if tag == 0 {
			d.phase = phaseDone
			return d.header, nil
		}

		f, ok := d.root.FieldByTag(tag)
		if !ok {
			// Forward-compatibility: an unknown tag ends the message on
			// the streaming path.
			d.phase = phaseDone
			return d.header, nil
		}

		if f.Name == d.nodeField.Name {
			count, err := d.r.ReadUvarint()
			if err != nil {
				return nil, fmt.Errorf("stream header of %q: node change count: %w", d.root.Name, err)
			}

			d.total = int(count)
			d.header[NodeChangeCountKey] = d.total
			d.phase = phaseNodes

			return d.header, nil
		}

		v, err := d.dec.decodeField(f)
		if err != nil {
			return nil, fmt.Errorf("stream header of %q field %q: %w", d.root.Name, f.Name, err)
		}
		d.header[f.Name] = v
	}
}

// All returns the lazily decoded node-change sequence.
//
// Each yield carries either one NodeChange or a fatal decode error (the
// sequence ends after an error). Breaking out early stops decoding with
// no cleanup required. After the last record, any trailing header
// fields are decoded into Header before the sequence ends.
func (d *StreamDecoder) All() iter.Seq2[NodeChange, error] {
	return func(yield func(NodeChange, error) bool) {
		if d.phase == phaseHeader {
			if _, err := d.DecodeHeader(); err != nil {
				yield(NodeChange{}, err)
				return
			}
		}

		if d.phase == phaseNodes {
			for d.nextIndex < d.total {
				v, err := d.dec.DecodeValue(d.nodeDef)
				if err != nil {
					yield(NodeChange{}, fmt.Errorf("node change %d of %d: %w", d.nextIndex, d.total, err))
					return
				}

				node, _ := v.(Node)
				nc := NodeChange{Index: d.nextIndex, Total: d.total, Node: node}
				d.nextIndex++

				if !yield(nc, nil) {
					return
				}
			}
			d.phase = phaseTrailer
		}

		if d.phase == phaseTrailer {
			if err := d.decodeTrailer(); err != nil {
				yield(NodeChange{}, err)
			}
		}
	}
}

// decodeTrailer resumes reading header fields declared after the
// node-change array, with the same unknown-tag tolerance as the header
// phase.
func (d *StreamDecoder) decodeTrailer() error {
	for {
		tag, err := d.r.ReadUvarint()
		if err != nil {
			return fmt.Errorf("stream trailer of %q: %w", d.root.Name, err)
		}
		if tag == 0 {
			d.phase = phaseDone
			return nil
		}

		f, ok := d.root.FieldByTag(tag)
		if !ok {
			d.phase = phaseDone
			return nil
		}

		v, err := d.dec.decodeField(f)
		if err != nil {
			return fmt.Errorf("stream trailer of %q field %q: %w", d.root.Name, f.Name, err)
		}
		d.header[f.Name] = v
	}
}
