// Package compress provides the pluggable compression codecs applied to
// spilled runs.
//
// A codec is a transparent byte-stream transform: each run is written as one
// self-delimiting compressed stream and decoded back into the exact byte
// sequence that was written. The sort adds no headers, magic numbers, or
// checksums of its own around the codec's framing; run files are private to
// the process that wrote them.
//
// Built-in codecs:
//   - None: pass-through (the default)
//   - LZ4: LZ4 frame format, fastest with moderate ratio
//   - S2: Snappy-compatible S2 stream, fast with good ratio on binary data
//   - Zstd: Zstandard stream, best ratio at higher CPU cost
//
// Custom codecs only need to satisfy the Codec interface.
package compress
