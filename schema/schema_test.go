package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/figkit/errs"
)

func testDefs() []Definition {
	return []Definition{
		{Name: "MessageType", Kind: KindEnum, Fields: []Field{
			{Name: "NODE_CHANGES", Value: 1},
			{Name: "JOIN_START", Value: 2},
		}},
		{Name: "GUID", Kind: KindStruct, Fields: []Field{
			{Name: "sessionID", TypeID: TypeUint},
			{Name: "localID", TypeID: TypeUint},
		}},
		{Name: "NodeChange", Kind: KindMessage, Fields: []Field{
			{Name: "guid", TypeID: 1, Value: 1},
			{Name: "name", TypeID: TypeString, Value: 2},
			{Name: "children", TypeID: 2, IsArray: true, Value: 3},
		}},
	}
}

func TestNew_IndexesDefinitions(t *testing.T) {
	s, err := New(testDefs())
	require.NoError(t, err)

	def, ok := s.Lookup("NodeChange")
	require.True(t, ok)
	require.Equal(t, KindMessage, def.Kind)

	f, ok := def.FieldByTag(2)
	require.True(t, ok)
	require.Equal(t, "name", f.Name)

	_, ok = def.FieldByTag(99)
	require.False(t, ok)

	f, ok = def.FieldByName("guid")
	require.True(t, ok)
	require.Equal(t, int32(1), f.TypeID)
}

func TestNew_EnumLookups(t *testing.T) {
	s, err := New(testDefs())
	require.NoError(t, err)

	def, ok := s.Lookup("MessageType")
	require.True(t, ok)

	name, ok := def.EnumName(2)
	require.True(t, ok)
	require.Equal(t, "JOIN_START", name)

	_, ok = def.EnumName(42)
	require.False(t, ok)

	value, ok := def.EnumValue("NODE_CHANGES")
	require.True(t, ok)
	require.Equal(t, uint32(1), value)
}

func TestNew_RejectsZeroTag(t *testing.T) {
	_, err := New([]Definition{
		{Name: "M", Kind: KindMessage, Fields: []Field{
			{Name: "f", TypeID: TypeBool, Value: 0},
		}},
	})
	require.ErrorIs(t, err, errs.ErrDuplicateTag)
}

func TestNew_RejectsDuplicateTag(t *testing.T) {
	_, err := New([]Definition{
		{Name: "M", Kind: KindMessage, Fields: []Field{
			{Name: "a", TypeID: TypeBool, Value: 1},
			{Name: "b", TypeID: TypeBool, Value: 1},
		}},
	})
	require.ErrorIs(t, err, errs.ErrDuplicateTag)
}

func TestNew_RejectsOutOfRangeTypeID(t *testing.T) {
	_, err := New([]Definition{
		{Name: "M", Kind: KindMessage, Fields: []Field{
			{Name: "f", TypeID: 5, Value: 1},
		}},
	})
	require.ErrorIs(t, err, errs.ErrUnknownDefinition)
}

func TestSchema_Definition_OutOfRange(t *testing.T) {
	s, err := New(testDefs())
	require.NoError(t, err)

	_, err = s.Definition(99)
	require.ErrorIs(t, err, errs.ErrUnknownDefinition)

	_, err = s.Definition(-1)
	require.ErrorIs(t, err, errs.ErrUnknownDefinition)
}

func TestSchema_EncodeDecode_RoundTrip(t *testing.T) {
	s, err := New(testDefs())
	require.NoError(t, err)

	decoded, err := Decode(s.Encode())
	require.NoError(t, err)
	require.Equal(t, s.Defs, decoded.Defs)
}

func TestDecode_Empty(t *testing.T) {
	s, err := Decode([]byte{0})
	require.NoError(t, err)
	require.Empty(t, s.Defs)
}

func TestDecode_Truncated(t *testing.T) {
	s, err := New(testDefs())
	require.NoError(t, err)

	data := s.Encode()
	_, err = Decode(data[:len(data)/2])
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestDecode_InvalidKind(t *testing.T) {
	// One definition: name "X", kind byte 7, no fields.
	data := []byte{1, 'X', 0, 7, 0}

	_, err := Decode(data)
	require.ErrorIs(t, err, errs.ErrInvalidKind)
}

func TestDecode_CorruptCount(t *testing.T) {
	// Definition count far beyond the buffer must fail, not allocate.
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}

	_, err := Decode(data)
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "bool", TypeName(TypeBool))
	require.Equal(t, "uint64", TypeName(TypeUint64))
	require.Equal(t, "definition[3]", TypeName(3))
	require.Equal(t, "invalid(-9)", TypeName(-9))
}
