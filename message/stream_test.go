package message

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/schema"
)

func makeNodeChange(i int) Node {
	return Node{
		"guid": Node{"sessionID": uint32(7), "localID": uint32(i)}, //nolint:gosec
		"name": fmt.Sprintf("node-%d", i),
	}
}

// streamEncode builds a message with the given header fields and node
// count through the incremental encoder.
func streamEncode(t *testing.T, s *schema.Schema, header Node, count int) []byte {
	t.Helper()

	enc, err := NewStreamEncoder(s)
	require.NoError(t, err)
	require.NoError(t, enc.WriteHeader(header))

	for i := 0; i < count; i++ {
		require.NoError(t, enc.WriteNodeChange(makeNodeChange(i)))
	}

	data, err := enc.Finalize()
	require.NoError(t, err)

	return data
}

func TestStream_EagerEquivalence(t *testing.T) {
	s := testSchema(t)

	const total = 5
	data := streamEncode(t, s, Node{
		"type":      Enum{Value: 1, Name: "NODE_CHANGES"},
		"sessionID": uint32(99),
	}, total)

	// Eager decode of the streamed bytes.
	eager := decodeRoot(t, s, "Message", data)
	eagerChanges, ok := eager["nodeChanges"].([]any)
	require.True(t, ok)
	require.Len(t, eagerChanges, total)

	// Streaming decode of the same bytes.
	dec, err := NewStreamDecoder(s, data)
	require.NoError(t, err)

	var streamed []Node
	for nc, err := range dec.All() {
		require.NoError(t, err)
		require.Equal(t, total, nc.Total)
		require.Equal(t, len(streamed), nc.Index)
		streamed = append(streamed, nc.Node)
	}
	require.Len(t, streamed, total)

	// Pairwise structural equality between the two paths.
	for i, node := range streamed {
		require.Equal(t, eagerChanges[i], node)
	}

	// Header fields agree too.
	require.Equal(t, eager["type"], dec.Header()["type"])
	require.Equal(t, eager["sessionID"], dec.Header()["sessionID"])
}

func TestStream_DecodeHeader_StopsBeforeRecords(t *testing.T) {
	s := testSchema(t)

	data := streamEncode(t, s, Node{"sessionID": uint32(42)}, 3)

	dec, err := NewStreamDecoder(s, data)
	require.NoError(t, err)

	header, err := dec.DecodeHeader()
	require.NoError(t, err)
	require.Equal(t, uint32(42), header["sessionID"])
	require.Equal(t, 3, header[NodeChangeCountKey])
	require.Equal(t, 3, dec.Total())

	// The cursor sits at the first record; the whole buffer has not
	// been consumed.
	require.Less(t, dec.Offset(), len(data))

	// Records are still fully consumable afterwards.
	var count int
	for _, err := range dec.All() {
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 3, count)
}

func TestStream_EarlyCancellation(t *testing.T) {
	s := testSchema(t)

	data := streamEncode(t, s, Node{"sessionID": uint32(1)}, 10)

	dec, err := NewStreamDecoder(s, data)
	require.NoError(t, err)

	var seen int
	for nc, err := range dec.All() {
		require.NoError(t, err)
		seen++
		if nc.Index == 2 {
			break
		}
	}
	require.Equal(t, 3, seen)

	// Remaining bytes were never read; the cursor stopped inside the
	// array.
	require.Less(t, dec.Offset(), len(data))
}

func TestStream_UnknownTagEndsMessage(t *testing.T) {
	s := testSchema(t)

	// A schema whose root message declares an extra field this decoder's
	// schema has never heard of.
	newer, err := schema.New([]schema.Definition{
		{Name: "Message", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "sessionID", TypeID: schema.TypeUint, Value: 2},
			{Name: "futureField", TypeID: schema.TypeUint, Value: 77},
		}},
	})
	require.NoError(t, err)

	data, err := NewEncoder(newer).Encode("Message", Node{
		"sessionID":   uint32(8),
		"futureField": uint32(1),
	})
	require.NoError(t, err)

	// The streaming path skims what it recognizes and stops, where the
	// eager path would fail with ErrUnknownTag.
	dec, err := NewStreamDecoder(s, data)
	require.NoError(t, err)

	header, err := dec.DecodeHeader()
	require.NoError(t, err)
	require.Equal(t, uint32(8), header["sessionID"])
	require.NotContains(t, header, NodeChangeCountKey)

	for range dec.All() {
		t.Fatal("no records expected")
	}

	_, err = NewDecoder(s, data).Decode("Message")
	require.ErrorIs(t, err, errs.ErrUnknownTag)
}

func TestStream_TrailerFieldsAfterArray(t *testing.T) {
	// Declaration order puts sessionID after nodeChanges, so its bytes
	// land after the array on the wire.
	s, err := schema.New([]schema.Definition{
		{Name: "NodeChange", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "name", TypeID: schema.TypeString, Value: 1},
		}},
		{Name: "Message", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "nodeChanges", TypeID: 0, IsArray: true, Value: 1},
			{Name: "sessionID", TypeID: schema.TypeUint, Value: 2},
		}},
	})
	require.NoError(t, err)

	data, err := NewEncoder(s).Encode("Message", Node{
		"sessionID":   uint32(11),
		"nodeChanges": []any{Node{"name": "a"}},
	})
	require.NoError(t, err)

	dec, err := NewStreamDecoder(s, data)
	require.NoError(t, err)

	var names []string
	for nc, err := range dec.All() {
		require.NoError(t, err)
		names = append(names, nc.Node["name"].(string))
	}
	require.Equal(t, []string{"a"}, names)

	// The trailer field shows up once the sequence is exhausted.
	require.Equal(t, uint32(11), dec.Header()["sessionID"])
}

func TestStream_MissingNodeChangesField(t *testing.T) {
	s, err := schema.New([]schema.Definition{
		{Name: "Message", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "sessionID", TypeID: schema.TypeUint, Value: 1},
		}},
	})
	require.NoError(t, err)

	_, err = NewStreamDecoder(s, nil)
	require.ErrorIs(t, err, errs.ErrNoNodeChangesField)
}

func TestStream_CustomFieldAndRootNames(t *testing.T) {
	s, err := schema.New([]schema.Definition{
		{Name: "Row", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "name", TypeID: schema.TypeString, Value: 1},
		}},
		{Name: "Document", Kind: schema.KindMessage, Fields: []schema.Field{
			{Name: "rows", TypeID: 0, IsArray: true, Value: 1},
		}},
	})
	require.NoError(t, err)

	opts := []StreamOption{WithRootMessage("Document"), WithNodeChangesField("rows")}

	enc, err := NewStreamEncoder(s, opts...)
	require.NoError(t, err)
	require.NoError(t, enc.WriteHeader(Node{}))
	require.NoError(t, enc.WriteNodeChange(Node{"name": "r1"}))

	data, err := enc.Finalize()
	require.NoError(t, err)

	dec, err := NewStreamDecoder(s, data, opts...)
	require.NoError(t, err)

	var names []string
	for nc, err := range dec.All() {
		require.NoError(t, err)
		names = append(names, nc.Node["name"].(string))
	}
	require.Equal(t, []string{"r1"}, names)
}

func TestStreamEncoder_CountAtCeiling(t *testing.T) {
	s := testSchema(t)

	data := streamEncode(t, s, Node{"sessionID": uint32(1)}, MaxStreamNodeChanges)

	decoded := decodeRoot(t, s, "Message", data)
	changes, ok := decoded["nodeChanges"].([]any)
	require.True(t, ok)
	require.Len(t, changes, MaxStreamNodeChanges)
}

func TestStreamEncoder_CountOverflowFailsFast(t *testing.T) {
	s := testSchema(t)

	enc, err := NewStreamEncoder(s)
	require.NoError(t, err)
	require.NoError(t, enc.WriteHeader(Node{}))

	for i := 0; i < MaxStreamNodeChanges+1; i++ {
		require.NoError(t, enc.WriteNodeChange(makeNodeChange(i)))
	}

	// 128 records cannot be patched into the single-byte count slot;
	// Finalize must report that instead of emitting corrupt output.
	_, err = enc.Finalize()
	require.ErrorIs(t, err, errs.ErrNodeCountOverflow)
}

func TestStreamEncoder_StateErrors(t *testing.T) {
	s := testSchema(t)

	enc, err := NewStreamEncoder(s)
	require.NoError(t, err)

	require.ErrorIs(t, enc.WriteNodeChange(Node{}), errs.ErrHeaderNotWritten)
	_, err = enc.Finalize()
	require.ErrorIs(t, err, errs.ErrHeaderNotWritten)

	require.NoError(t, enc.WriteHeader(Node{}))
	require.ErrorIs(t, enc.WriteHeader(Node{}), errs.ErrHeaderAlreadyWritten)

	_, err = enc.Finalize()
	require.NoError(t, err)
	require.ErrorIs(t, enc.WriteNodeChange(Node{}), errs.ErrAlreadyFinalized)
	_, err = enc.Finalize()
	require.ErrorIs(t, err, errs.ErrAlreadyFinalized)
}
