// Package digest expands a seed into an arbitrarily long deterministic byte stream
// by chaining 512-bit hashes over the growing output.
//
// Block 0 is the hash of the seed. Every following block is the hash of all blocks
// produced so far. After MaxChainBlocks blocks the chain stops and the remainder is
// filled by repeating the first FallbackWindow bytes of the stream.
package digest
