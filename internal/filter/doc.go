// Package filter implements the payload filter pipeline used when dataset
// contents are persisted.
//
// Filters transform a byte payload on the way to storage (Encode) and back
// (Decode). A [Pipeline] applies its filters in order when encoding and in
// reverse order when decoding, so a payload written with
// [Shuffle, Zstd, Fletcher32] is verified first, then decompressed, then
// unshuffled.
//
// # Supported Filters
//
//   - Shuffle (ID 2): groups byte i of every element together, which makes
//     numeric payloads compress better.
//   - Deflate (ID 1): zlib compression (klauspost/compress).
//   - Fletcher32 (ID 3): appends a Fletcher-32 checksum and verifies it.
//   - Zstd (ID 32015): Zstandard compression via klauspost/compress.
//
// # Describing a Pipeline
//
// A pipeline is fully described by a list of [Info] values (filter id plus
// client data), which is what a backend stores next to the payload:
//
//	p, err := filter.NewPipeline([]filter.Info{
//	    {ID: filter.IDShuffle, ClientData: []uint32{8}},
//	    {ID: filter.IDZstd, ClientData: []uint32{3}},
//	    {ID: filter.IDFletcher32},
//	})
//	stored, err := p.Encode(raw)
//	raw, err = p.Decode(stored)
//
// # Key Types
//
//   - [Filter]: interface implemented by all filters
//   - [Pipeline]: ordered filters with Encode and Decode
//   - [Info]: serializable filter description
package filter
