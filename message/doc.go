// Package message implements the schema-driven codecs for figkit
// document messages.
//
// Two decode paths exist and stay behaviorally equivalent on the bytes
// they both read:
//
//   - Decoder/Encoder materialize a complete value tree in one call.
//     The eager decoder is strict: an unrecognized message tag is a
//     fatal decode error.
//   - StreamDecoder/StreamEncoder handle the document's dominant
//     repeated field — the node-change array — one record at a time.
//     The streaming decoder is deliberately tolerant: an unrecognized
//     tag ends the message instead of failing, so a header can be
//     skimmed from a document written by a newer schema.
//
// Decoded values use a closed set of Go types on Node: bool, byte,
// int32, uint32, float32, string, int64, uint64, Node, Enum, []byte for
// byte arrays, and []any for other arrays. Encoding accepts exactly
// that set back (plus []Node for composite arrays and a constant name
// for enums) and fails loudly on anything else.
package message
