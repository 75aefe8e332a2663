// Package compress provides the chunk compression codecs for figkit
// containers.
//
// A container payload holds two independently compressed chunks. The
// format carries no compression tag: zstd and LZ4 frames are recognized
// by their leading magic, and anything else is assumed to be headerless
// raw deflate, which has no self-identifying signature and is therefore
// the fallback rather than a detected case. Sniff implements that
// ordered precedence; GetCodec returns the codec for a known type.
//
// All codecs are stateless values safe for concurrent use; internal
// encoder and decoder instances are pooled.
package compress
