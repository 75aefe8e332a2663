// Package schema models the self-describing type system embedded in
// every figkit document.
//
// A Schema is an ordered arena of Definitions; fields reference other
// definitions by index, so forward references and self-referential
// message types (a node holding child nodes of its own type) form no
// ownership cycles. The schema's own binary encoding is fixed and
// decodable with zero prior knowledge — it is the bootstrap grammar the
// rest of the format hangs off.
//
// A decoded Schema is immutable and safe to share across any number of
// concurrent decode or encode operations.
package schema

import (
	"fmt"

	"github.com/arloliu/figkit/errs"
)

// Kind identifies the wire encoding of a Definition.
type Kind uint8

const (
	// KindEnum definitions hold named integer constants; the wire value
	// is a single varuint.
	KindEnum Kind = 0
	// KindStruct definitions encode their fields positionally, untagged,
	// in declaration order.
	KindStruct Kind = 1
	// KindMessage definitions encode present fields as tag/value pairs
	// terminated by a zero tag, enabling forward and backward
	// compatibility.
	KindMessage Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "Enum"
	case KindStruct:
		return "Struct"
	case KindMessage:
		return "Message"
	default:
		return "Unknown"
	}
}

// Primitive type IDs. A Field.TypeID is either one of these negative
// constants or a non-negative index into the schema's definition arena.
const (
	TypeBool   int32 = -1
	TypeByte   int32 = -2
	TypeInt    int32 = -3
	TypeUint   int32 = -4
	TypeFloat  int32 = -5
	TypeString int32 = -6
	TypeInt64  int32 = -7
	TypeUint64 int32 = -8
)

// TypeName returns a human-readable name for a type ID, for error text.
func TypeName(id int32) string {
	switch id {
	case TypeBool:
		return "bool"
	case TypeByte:
		return "byte"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	default:
		if id >= 0 {
			return fmt.Sprintf("definition[%d]", id)
		}

		return fmt.Sprintf("invalid(%d)", id)
	}
}

// Field is one named, typed, optionally-array member of a Definition.
//
// For struct and message fields, Value holds the field tag (zero for
// struct fields, which are positional). For enum members, Value holds
// the constant's integer value.
type Field struct {
	Name    string
	TypeID  int32
	IsArray bool
	Value   uint32
}

// Definition is one named type in the schema: an enum, a fixed-layout
// struct, or a tag-compatible message.
type Definition struct {
	Name   string
	Kind   Kind
	Fields []Field

	byTag     map[uint32]int
	byName    map[string]int
	enumNames map[uint32]string
}

// index builds the lookup maps and validates tag uniqueness.
func (d *Definition) index() error {
	d.byName = make(map[string]int, len(d.Fields))
	for i := range d.Fields {
		d.byName[d.Fields[i].Name] = i
	}

	switch d.Kind {
	case KindMessage:
		d.byTag = make(map[uint32]int, len(d.Fields))
		for i := range d.Fields {
			tag := d.Fields[i].Value
			if tag == 0 {
				return fmt.Errorf("message %q field %q: tag 0 is reserved: %w",
					d.Name, d.Fields[i].Name, errs.ErrDuplicateTag)
			}
			if _, exists := d.byTag[tag]; exists {
				return fmt.Errorf("message %q: tag %d declared twice: %w",
					d.Name, tag, errs.ErrDuplicateTag)
			}
			d.byTag[tag] = i
		}
	case KindEnum:
		d.enumNames = make(map[uint32]string, len(d.Fields))
		for i := range d.Fields {
			if _, exists := d.enumNames[d.Fields[i].Value]; !exists {
				d.enumNames[d.Fields[i].Value] = d.Fields[i].Name
			}
		}
	case KindStruct:
		// Struct fields are positional; nothing to index beyond names.
	}

	return nil
}

// FieldByTag returns the message field declared with the given tag.
func (d *Definition) FieldByTag(tag uint32) (*Field, bool) {
	i, ok := d.byTag[tag]
	if !ok {
		return nil, false
	}

	return &d.Fields[i], true
}

// FieldByName returns the field with the given name.
func (d *Definition) FieldByName(name string) (*Field, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}

	return &d.Fields[i], true
}

// EnumName resolves an enum constant's value to its declared name.
func (d *Definition) EnumName(value uint32) (string, bool) {
	name, ok := d.enumNames[value]
	return name, ok
}

// EnumValue resolves an enum constant's name to its integer value.
func (d *Definition) EnumValue(name string) (uint32, bool) {
	i, ok := d.byName[name]
	if !ok || d.Kind != KindEnum {
		return 0, false
	}

	return d.Fields[i].Value, true
}

// Schema is an ordered, indexable arena of Definitions.
type Schema struct {
	Defs []Definition

	byName map[string]int
}

// New assembles a Schema from definitions, validating kinds, tag
// uniqueness and that every non-negative field type ID is in range.
//
// Decoded schemas go through the same path; New also serves callers
// constructing a schema in memory for the build path.
func New(defs []Definition) (*Schema, error) {
	s := &Schema{
		Defs:   defs,
		byName: make(map[string]int, len(defs)),
	}

	for i := range s.Defs {
		def := &s.Defs[i]
		if def.Kind > KindMessage {
			return nil, fmt.Errorf("definition %q: kind %d: %w", def.Name, def.Kind, errs.ErrInvalidKind)
		}

		if err := def.index(); err != nil {
			return nil, err
		}

		for j := range def.Fields {
			id := def.Fields[j].TypeID
			if id >= 0 && int(id) >= len(defs) {
				return nil, fmt.Errorf("definition %q field %q references %s of %d: %w",
					def.Name, def.Fields[j].Name, TypeName(id), len(defs), errs.ErrUnknownDefinition)
			}
			if id < TypeUint64 {
				return nil, fmt.Errorf("definition %q field %q: type id %d: %w",
					def.Name, def.Fields[j].Name, id, errs.ErrUnknownDefinition)
			}
		}

		s.byName[def.Name] = i
	}

	return s, nil
}

// Definition returns the definition at the given arena index.
func (s *Schema) Definition(i int32) (*Definition, error) {
	if i < 0 || int(i) >= len(s.Defs) {
		return nil, fmt.Errorf("%s: %w", TypeName(i), errs.ErrUnknownDefinition)
	}

	return &s.Defs[i], nil
}

// Lookup returns the definition with the given name.
func (s *Schema) Lookup(name string) (*Definition, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}

	return &s.Defs[i], true
}
