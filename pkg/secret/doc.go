// Package secret builds a CipherSecret from seed data: a substitution sequence taken
// directly from the expanded digest stream, and a permutation of a fixed 65536-entry
// index space obtained by ranking the first 65536 stream bytes.
package secret
