// Package endian provides byte order utilities for binary encoding and decoding.
//
// The figkit wire format is little-endian throughout: the container
// header's payload-size field, the four rotated bytes of a var-float,
// and every multi-byte pattern the codec emits. This package combines
// Go's ByteOrder and AppendByteOrder interfaces into a single
// EndianEngine so encoders can both read fixed-width fields and append
// them without a scratch buffer.
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface for convenient byte order
// operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian
// from the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
// This is the byte order of the figkit container format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
