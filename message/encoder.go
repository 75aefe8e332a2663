package message

import (
	"fmt"

	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/schema"
	"github.com/arloliu/figkit/wire"
)

// Encoder is the structural mirror of Decoder: it writes a complete
// value tree against a definition.
//
// Note: The Encoder is NOT reusable. After calling Encode, a new
// encoder must be created for further encoding.
type Encoder struct {
	schema *schema.Schema
	w      *wire.Writer
}

// NewEncoder creates an Encoder writing into a fresh pooled buffer.
func NewEncoder(s *schema.Schema) *Encoder {
	return &Encoder{
		schema: s,
		w:      wire.NewWriter(),
	}
}

// NewEncoderFrom creates an Encoder writing into an existing writer.
// The stream encoder uses this to interleave its own tag bookkeeping
// with generically encoded records.
func NewEncoderFrom(s *schema.Schema, w *wire.Writer) *Encoder {
	return &Encoder{schema: s, w: w}
}

// Encode encodes a complete message of the named root type and returns
// the encoded bytes.
func (e *Encoder) Encode(rootName string, node Node) ([]byte, error) {
	def, ok := e.schema.Lookup(rootName)
	if !ok {
		e.w.Release()
		return nil, fmt.Errorf("%q: %w", rootName, errs.ErrUnknownRootMessage)
	}

	if err := e.EncodeValue(def, node); err != nil {
		e.w.Release()
		return nil, err
	}

	return e.w.Detach(), nil
}

// EncodeValue encodes one value against the given definition,
// dispatching by its kind. A runtime shape that does not match the
// definition is a loud build error, never a silent skip.
func (e *Encoder) EncodeValue(def *schema.Definition, v any) error {
	switch def.Kind {
	case schema.KindEnum:
		return e.encodeEnum(def, v)
	case schema.KindStruct:
		return e.encodeStruct(def, v)
	case schema.KindMessage:
		return e.encodeMessage(def, v)
	default:
		return fmt.Errorf("definition %q: kind %d: %w", def.Name, def.Kind, errs.ErrInvalidKind)
	}
}

// encodeEnum writes the numeric constant, accepting either a decoded
// Enum or a declared constant name.
func (e *Encoder) encodeEnum(def *schema.Definition, v any) error {
	switch ev := v.(type) {
	case Enum:
		e.w.WriteUvarint(ev.Value)
		return nil
	case string:
		value, ok := def.EnumValue(ev)
		if !ok {
			return fmt.Errorf("enum %q has no constant %q: %w", def.Name, ev, errs.ErrUnknownEnumName)
		}
		e.w.WriteUvarint(value)

		return nil
	default:
		return fmt.Errorf("enum %q given %T: %w", def.Name, v, errs.ErrValueShape)
	}
}

// encodeStruct writes every field positionally; a struct value missing
// any declared field cannot be encoded.
func (e *Encoder) encodeStruct(def *schema.Definition, v any) error {
	node, ok := v.(Node)
	if !ok {
		return fmt.Errorf("struct %q given %T: %w", def.Name, v, errs.ErrValueShape)
	}

	for i := range def.Fields {
		f := &def.Fields[i]

		fv, present := node[f.Name]
		if !present || fv == nil {
			return fmt.Errorf("struct %q: field %q: %w", def.Name, f.Name, errs.ErrMissingField)
		}

		if err := e.encodeField(f, fv); err != nil {
			return fmt.Errorf("struct %q field %q: %w", def.Name, f.Name, err)
		}
	}

	return nil
}

// encodeMessage writes present fields as tag/value pairs in declaration
// order, then the zero terminator. Absent and nil fields are skipped.
func (e *Encoder) encodeMessage(def *schema.Definition, v any) error {
	node, ok := v.(Node)
	if !ok {
		return fmt.Errorf("message %q given %T: %w", def.Name, v, errs.ErrValueShape)
	}

	for i := range def.Fields {
		f := &def.Fields[i]

		fv, present := node[f.Name]
		if !present || fv == nil {
			continue
		}

		e.w.WriteUvarint(f.Value)
		if err := e.encodeField(f, fv); err != nil {
			return fmt.Errorf("message %q field %q: %w", def.Name, f.Name, err)
		}
	}

	e.w.WriteUvarint(0)

	return nil
}

// encodeField writes one field value, count-prefixed when the field is
// declared as an array.
func (e *Encoder) encodeField(f *schema.Field, v any) error {
	if !f.IsArray {
		return e.encodeByTypeID(f.TypeID, v)
	}

	if f.TypeID == schema.TypeByte {
		b, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("byte array given %T: %w", v, errs.ErrValueShape)
		}

		e.w.WriteUvarint(uint32(len(b))) //nolint:gosec
		e.w.WriteRaw(b)

		return nil
	}

	elems, err := arrayElements(v)
	if err != nil {
		return err
	}

	e.w.WriteUvarint(uint32(len(elems))) //nolint:gosec
	for i, elem := range elems {
		if err := e.encodeByTypeID(f.TypeID, elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}

	return nil
}

// arrayElements normalizes the accepted array shapes: []any as decoded,
// or []Node for composite arrays built by callers.
func arrayElements(v any) ([]any, error) {
	switch arr := v.(type) {
	case []any:
		return arr, nil
	case []Node:
		elems := make([]any, len(arr))
		for i, n := range arr {
			elems[i] = n
		}

		return elems, nil
	default:
		return nil, fmt.Errorf("array field given %T: %w", v, errs.ErrValueShape)
	}
}

// encodeByTypeID writes one element: negative IDs dispatch to the
// primitive codec, non-negative IDs recurse into the referenced
// definition.
func (e *Encoder) encodeByTypeID(typeID int32, v any) error {
	switch typeID {
	case schema.TypeBool:
		b, ok := v.(bool)
		if !ok {
			return shapeError(typeID, v)
		}
		e.w.WriteBool(b)
	case schema.TypeByte:
		b, ok := v.(byte)
		if !ok {
			return shapeError(typeID, v)
		}
		e.w.WriteByte(b)
	case schema.TypeInt:
		i, ok := v.(int32)
		if !ok {
			return shapeError(typeID, v)
		}
		e.w.WriteVarint(i)
	case schema.TypeUint:
		u, ok := v.(uint32)
		if !ok {
			return shapeError(typeID, v)
		}
		e.w.WriteUvarint(u)
	case schema.TypeFloat:
		f, ok := v.(float32)
		if !ok {
			return shapeError(typeID, v)
		}
		e.w.WriteFloat32(f)
	case schema.TypeString:
		s, ok := v.(string)
		if !ok {
			return shapeError(typeID, v)
		}
		e.w.WriteString(s)
	case schema.TypeInt64:
		i, ok := v.(int64)
		if !ok {
			return shapeError(typeID, v)
		}
		e.w.WriteVarint64(i)
	case schema.TypeUint64:
		u, ok := v.(uint64)
		if !ok {
			return shapeError(typeID, v)
		}
		e.w.WriteUvarint64(u)
	default:
		def, err := e.schema.Definition(typeID)
		if err != nil {
			return err
		}

		return e.EncodeValue(def, v)
	}

	return nil
}

func shapeError(typeID int32, v any) error {
	return fmt.Errorf("%s field given %T: %w", schema.TypeName(typeID), v, errs.ErrValueShape)
}
