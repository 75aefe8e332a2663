package message

import (
	"fmt"

	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/schema"
	"github.com/arloliu/figkit/wire"
)

// Decoder is the eager message decoder: it materializes a complete
// value tree for a definition in one call.
//
// Note: The Decoder is NOT thread-safe. Each decoder instance owns its
// cursor and should be used by a single goroutine at a time.
type Decoder struct {
	schema *schema.Schema
	r      *wire.Reader
}

// NewDecoder creates a Decoder over data using the given schema.
func NewDecoder(s *schema.Schema, data []byte) *Decoder {
	return &Decoder{
		schema: s,
		r:      wire.NewReader(data),
	}
}

// NewDecoderFrom creates a Decoder sharing an existing cursor. The
// streaming decoder uses this to hand individual records to the eager
// path without re-slicing the buffer.
func NewDecoderFrom(s *schema.Schema, r *wire.Reader) *Decoder {
	return &Decoder{schema: s, r: r}
}

// Offset returns the cursor's current byte position.
func (d *Decoder) Offset() int {
	return d.r.Offset()
}

// Decode decodes a complete message of the named root type.
func (d *Decoder) Decode(rootName string) (Node, error) {
	def, ok := d.schema.Lookup(rootName)
	if !ok {
		return nil, fmt.Errorf("%q: %w", rootName, errs.ErrUnknownRootMessage)
	}

	v, err := d.DecodeValue(def)
	if err != nil {
		return nil, err
	}

	node, ok := v.(Node)
	if !ok {
		return nil, fmt.Errorf("root type %q is an enum, not a message: %w",
			rootName, errs.ErrUnknownRootMessage)
	}

	return node, nil
}

// DecodeValue decodes one value of the given definition, dispatching by
// its kind.
func (d *Decoder) DecodeValue(def *schema.Definition) (any, error) {
	switch def.Kind {
	case schema.KindEnum:
		return d.decodeEnum(def)
	case schema.KindStruct:
		return d.decodeStruct(def)
	case schema.KindMessage:
		return d.decodeMessage(def)
	default:
		// schema.New rejects any other kind at decode time.
		return nil, fmt.Errorf("definition %q: kind %d: %w", def.Name, def.Kind, errs.ErrInvalidKind)
	}
}

// decodeEnum reads the raw constant and resolves it, preserving unknown
// values under a placeholder name.
func (d *Decoder) decodeEnum(def *schema.Definition) (Enum, error) {
	v, err := d.r.ReadUvarint()
	if err != nil {
		return Enum{}, fmt.Errorf("enum %q: %w", def.Name, err)
	}

	name, ok := def.EnumName(v)
	if !ok {
		name = UnknownEnumName(v)
	}

	return Enum{Value: v, Name: name}, nil
}

// decodeStruct reads every field unconditionally in declaration order;
// struct fields carry no tags on the wire.
func (d *Decoder) decodeStruct(def *schema.Definition) (Node, error) {
	node := make(Node, len(def.Fields))

	for i := range def.Fields {
		f := &def.Fields[i]

		v, err := d.decodeField(f)
		if err != nil {
			return nil, fmt.Errorf("struct %q field %q: %w", def.Name, f.Name, err)
		}
		node[f.Name] = v
	}

	return node, nil
}

// decodeMessage loops over tag/value pairs until the zero terminator.
// A tag the definition does not declare is a fatal decode error on this
// path; only the streaming decoder tolerates unknown tags.
func (d *Decoder) decodeMessage(def *schema.Definition) (Node, error) {
	node := Node{}

	for {
		tag, err := d.r.ReadUvarint()
		if err != nil {
			return nil, fmt.Errorf("message %q: %w", def.Name, err)
		}
		if tag == 0 {
			return node, nil
		}

		f, ok := def.FieldByTag(tag)
		if !ok {
			return nil, fmt.Errorf("message %q: tag %d: %w", def.Name, tag, errs.ErrUnknownTag)
		}

		v, err := d.decodeField(f)
		if err != nil {
			return nil, fmt.Errorf("message %q field %q: %w", def.Name, f.Name, err)
		}
		node[f.Name] = v
	}
}

// decodeField decodes one field value: a count-prefixed array when the
// field is declared as one, a single element otherwise. Byte arrays are
// read as a contiguous []byte rather than element by element.
func (d *Decoder) decodeField(f *schema.Field) (any, error) {
	if !f.IsArray {
		return d.decodeByTypeID(f.TypeID)
	}

	count, err := d.r.ReadUvarint()
	if err != nil {
		return nil, err
	}

	if f.TypeID == schema.TypeByte {
		return d.r.ReadBytes(int(count))
	}

	// Each element occupies at least one byte; a larger count means the
	// buffer is corrupt, not that we should allocate for it.
	if int(count) > d.r.Remaining() {
		return nil, fmt.Errorf("array count %d exceeds %d remaining bytes: %w",
			count, d.r.Remaining(), errs.ErrUnexpectedEOF)
	}

	out := make([]any, count)
	for i := range out {
		v, err := d.decodeByTypeID(f.TypeID)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}

	return out, nil
}

// decodeByTypeID decodes one element: negative IDs dispatch to the
// primitive codec, non-negative IDs recurse into the referenced
// definition.
func (d *Decoder) decodeByTypeID(typeID int32) (any, error) {
	switch typeID {
	case schema.TypeBool:
		return d.r.ReadBool()
	case schema.TypeByte:
		return d.r.ReadByte()
	case schema.TypeInt:
		return d.r.ReadVarint()
	case schema.TypeUint:
		return d.r.ReadUvarint()
	case schema.TypeFloat:
		return d.r.ReadFloat32()
	case schema.TypeString:
		return d.r.ReadString()
	case schema.TypeInt64:
		return d.r.ReadVarint64()
	case schema.TypeUint64:
		return d.r.ReadUvarint64()
	default:
		def, err := d.schema.Definition(typeID)
		if err != nil {
			return nil, err
		}

		return d.DecodeValue(def)
	}
}
