package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given bytes.
//
// It gives blob records and unpacked image assets a stable 64-bit
// content identity that downstream caches can key on without re-reading
// the payload.
func ID(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// StringID computes the xxHash64 of the given string without copying it.
func StringID(data string) uint64 {
	return xxhash.Sum64String(data)
}
