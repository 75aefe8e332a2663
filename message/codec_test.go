package message

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/schema"
)

// testSchema mirrors the shape of a real document schema: an enum, a
// positional struct, a self-referential node message, and a root
// message holding the repeated node-change array.
func testSchema(t *testing.T) *schema.Schema {
	t.Helper()

	s, err := schema.New([]schema.Definition{
		{Name: "MessageType", Kind: schema.KindEnum, Fields: []schema.Field{
			{Name: "NODE_CHANGES", Value: 1},
			{Name: "JOIN_START", Value: 2},
		}},
		{Name: "GUID", Kind: schema.KindStruct, Fields: []schema.Field{
			{Name: "sessionID", TypeID: schema.TypeUint},
			{Name: "localID", TypeID: schema.TypeUint},
		}},
		{Name: "NodeChange", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "guid", TypeID: 1, Value: 1},
			{Name: "name", TypeID: schema.TypeString, Value: 2},
			{Name: "opacity", TypeID: schema.TypeFloat, Value: 3},
			{Name: "visible", TypeID: schema.TypeBool, Value: 4},
			{Name: "children", TypeID: 2, IsArray: true, Value: 5},
		}},
		{Name: "Blob", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "bytes", TypeID: schema.TypeByte, IsArray: true, Value: 1},
		}},
		{Name: "Message", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "type", TypeID: 0, Value: 1},
			{Name: "sessionID", TypeID: schema.TypeUint, Value: 2},
			{Name: "nodeChanges", TypeID: 2, IsArray: true, Value: 3},
			{Name: "blobs", TypeID: 3, IsArray: true, Value: 4},
		}},
	})
	require.NoError(t, err)

	return s
}

func encodeRoot(t *testing.T, s *schema.Schema, root string, node Node) []byte {
	t.Helper()

	data, err := NewEncoder(s).Encode(root, node)
	require.NoError(t, err)

	return data
}

func decodeRoot(t *testing.T, s *schema.Schema, root string, data []byte) Node {
	t.Helper()

	node, err := NewDecoder(s, data).Decode(root)
	require.NoError(t, err)

	return node
}

func TestCodec_RoundTrip_Message(t *testing.T) {
	s := testSchema(t)

	original := Node{
		"type":      Enum{Value: 1, Name: "NODE_CHANGES"},
		"sessionID": uint32(123),
		"nodeChanges": []any{
			Node{
				"guid":    Node{"sessionID": uint32(1), "localID": uint32(2)},
				"name":    "Frame",
				"opacity": float32(0.5),
				"visible": true,
			},
		},
	}

	decoded := decodeRoot(t, s, "Message", encodeRoot(t, s, "Message", original))
	require.Equal(t, original, decoded)
}

func TestCodec_RoundTrip_SelfReferential(t *testing.T) {
	s := testSchema(t)

	// A node holding children of its own message type, two levels deep.
	original := Node{
		"name": "root",
		"children": []any{
			Node{
				"name": "child",
				"children": []any{
					Node{"name": "grandchild"},
				},
			},
		},
	}

	decoded := decodeRoot(t, s, "NodeChange", encodeRoot(t, s, "NodeChange", original))
	require.Equal(t, original, decoded)
}

func TestCodec_RoundTrip_ByteArray(t *testing.T) {
	s := testSchema(t)

	original := Node{
		"blobs": []any{
			Node{"bytes": []byte{0x00, 0x01, 0xFE, 0xFF}},
		},
	}

	decoded := decodeRoot(t, s, "Message", encodeRoot(t, s, "Message", original))
	require.Equal(t, original, decoded)
}

func TestCodec_MessageSkipsAbsentFields(t *testing.T) {
	s := testSchema(t)

	original := Node{"name": "only a name"}

	decoded := decodeRoot(t, s, "NodeChange", encodeRoot(t, s, "NodeChange", original))
	require.Equal(t, original, decoded)
	require.NotContains(t, decoded, "opacity")
}

func TestCodec_UnknownEnumValuePreserved(t *testing.T) {
	s := testSchema(t)

	data := encodeRoot(t, s, "Message", Node{"type": Enum{Value: 42}})

	decoded := decodeRoot(t, s, "Message", data)
	require.Equal(t, Enum{Value: 42, Name: "unknown(42)"}, decoded["type"])
}

func TestCodec_EnumEncodeByName(t *testing.T) {
	s := testSchema(t)

	data := encodeRoot(t, s, "Message", Node{"type": "JOIN_START"})

	decoded := decodeRoot(t, s, "Message", data)
	require.Equal(t, Enum{Value: 2, Name: "JOIN_START"}, decoded["type"])
}

func TestCodec_EnumEncodeUnknownName(t *testing.T) {
	s := testSchema(t)

	_, err := NewEncoder(s).Encode("Message", Node{"type": "NO_SUCH_CONSTANT"})
	require.ErrorIs(t, err, errs.ErrUnknownEnumName)
}

func TestCodec_EnumEncodeBadShape(t *testing.T) {
	s := testSchema(t)

	_, err := NewEncoder(s).Encode("Message", Node{"type": 42})
	require.ErrorIs(t, err, errs.ErrValueShape)
}

func TestCodec_StructMissingField(t *testing.T) {
	s := testSchema(t)

	_, err := NewEncoder(s).Encode("NodeChange", Node{
		"guid": Node{"sessionID": uint32(1)}, // localID missing
	})
	require.ErrorIs(t, err, errs.ErrMissingField)
}

func TestCodec_ScalarShapeMismatch(t *testing.T) {
	s := testSchema(t)

	_, err := NewEncoder(s).Encode("NodeChange", Node{"name": 3.14})
	require.ErrorIs(t, err, errs.ErrValueShape)
}

func TestCodec_ArrayShapeMismatch(t *testing.T) {
	s := testSchema(t)

	_, err := NewEncoder(s).Encode("NodeChange", Node{"children": "not an array"})
	require.ErrorIs(t, err, errs.ErrValueShape)
}

func TestCodec_ArrayOfNodes(t *testing.T) {
	s := testSchema(t)

	// []Node is accepted on encode and normalized to []any on decode.
	data := encodeRoot(t, s, "NodeChange", Node{
		"children": []Node{{"name": "a"}, {"name": "b"}},
	})

	decoded := decodeRoot(t, s, "NodeChange", data)
	require.Equal(t, []any{Node{"name": "a"}, Node{"name": "b"}}, decoded["children"])
}

func TestDecoder_UnknownTagIsFatal(t *testing.T) {
	s := testSchema(t)

	// A NodeChange with a tag (9) its definition does not declare.
	other, err := schema.New([]schema.Definition{
		{Name: "NodeChange", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "future", TypeID: schema.TypeBool, Value: 9},
		}},
	})
	require.NoError(t, err)

	data, err := NewEncoder(other).Encode("NodeChange", Node{"future": true})
	require.NoError(t, err)

	_, err = NewDecoder(s, data).Decode("NodeChange")
	require.ErrorIs(t, err, errs.ErrUnknownTag)
}

func TestDecoder_UnknownRootMessage(t *testing.T) {
	s := testSchema(t)

	_, err := NewDecoder(s, []byte{0}).Decode("NoSuchMessage")
	require.ErrorIs(t, err, errs.ErrUnknownRootMessage)
}

func TestDecoder_TruncatedMessage(t *testing.T) {
	s := testSchema(t)

	data := encodeRoot(t, s, "Message", Node{"sessionID": uint32(500)})

	_, err := NewDecoder(s, data[:len(data)-2]).Decode("Message")
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

func TestDecoder_CorruptArrayCount(t *testing.T) {
	s := testSchema(t)

	// Message: tag 3 (nodeChanges) with a count far beyond the buffer.
	data := []byte{3, 0xFF, 0xFF, 0xFF, 0xFF, 0x07}

	_, err := NewDecoder(s, data).Decode("Message")
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}
