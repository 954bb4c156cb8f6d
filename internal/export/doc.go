// Package export serializes CipherSecrets to a compact binary envelope and back.
//
// An export starts with a fixed header (magic, version, flags, digest id) followed by
// the payload: requested length, sequence length, one byte per substitution value and
// the permutation as big-endian uint16 indices. Sealed exports carry the payload as
// AES-SIV encrypted chunks, each bound to the header and its chunk index.
package export
