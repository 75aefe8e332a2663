package schema

import (
	"fmt"

	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/wire"
)

// Decode decodes a Schema from its bootstrap binary encoding.
//
// The grammar is fixed: a varuint definition count, then per definition
// a NUL-terminated name, a kind byte, a varuint field count, and per
// field a name, a signed-varint type ID, a bool array flag, and a
// varuint value (field tag, or enum constant value).
func Decode(data []byte) (*Schema, error) {
	r := wire.NewReader(data)

	count, err := r.ReadUvarint()
	if err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	// Every definition needs at least name terminator, kind and field
	// count on the wire; a larger count is a corrupt buffer, not a
	// reason to allocate.
	if int(count) > r.Remaining() {
		return nil, fmt.Errorf("decode schema: definition count %d exceeds %d remaining bytes: %w",
			count, r.Remaining(), errs.ErrUnexpectedEOF)
	}

	defs := make([]Definition, count)
	for i := range defs {
		if err := decodeDefinition(r, &defs[i]); err != nil {
			return nil, fmt.Errorf("decode schema definition %d: %w", i, err)
		}
	}

	return New(defs)
}

func decodeDefinition(r *wire.Reader, def *Definition) error {
	name, err := r.ReadString()
	if err != nil {
		return err
	}

	kind, err := r.ReadByte()
	if err != nil {
		return err
	}
	if Kind(kind) > KindMessage {
		return fmt.Errorf("%q: kind byte %d: %w", name, kind, errs.ErrInvalidKind)
	}

	fieldCount, err := r.ReadUvarint()
	if err != nil {
		return err
	}
	if int(fieldCount) > r.Remaining() {
		return fmt.Errorf("%q: field count %d exceeds %d remaining bytes: %w",
			name, fieldCount, r.Remaining(), errs.ErrUnexpectedEOF)
	}

	def.Name = name
	def.Kind = Kind(kind)
	def.Fields = make([]Field, fieldCount)

	for i := range def.Fields {
		f := &def.Fields[i]

		if f.Name, err = r.ReadString(); err != nil {
			return err
		}
		if f.TypeID, err = r.ReadVarint(); err != nil {
			return err
		}
		if f.IsArray, err = r.ReadBool(); err != nil {
			return err
		}
		if f.Value, err = r.ReadUvarint(); err != nil {
			return err
		}
	}

	return nil
}

// Encode serializes the schema back into its bootstrap binary encoding.
// Decode(s.Encode()) reproduces s exactly.
func (s *Schema) Encode() []byte {
	w := wire.NewWriter()

	w.WriteUvarint(uint32(len(s.Defs))) //nolint:gosec
	for i := range s.Defs {
		def := &s.Defs[i]

		w.WriteString(def.Name)
		w.WriteByte(byte(def.Kind))
		w.WriteUvarint(uint32(len(def.Fields))) //nolint:gosec

		for j := range def.Fields {
			f := &def.Fields[j]

			w.WriteString(f.Name)
			w.WriteVarint(f.TypeID)
			w.WriteBool(f.IsArray)
			w.WriteUvarint(f.Value)
		}
	}

	return w.Detach()
}
