// Package audiometa extracts technical audio parameters and tag
// metadata from audio files without decoding samples: ID3v2, APEv2,
// Vorbis comments, MP4/iTunes atoms, and ASF content description across
// roughly twenty container and codec formats.
//
// The library never mutates or writes metadata, never fetches anything
// over a network, and never decodes audio samples — every operation
// reads a bounded prefix/suffix of a source and returns a normalized
// ParsedAudioMetadata.
//
// Three equivalent ways to parse an input all funnel through the same
// Engine.Parse:
//
//	data, err := audiometa.ParseFile(ctx, "song.flac")
//	data, err := audiometa.ParseBytes(ctx, raw, "song.flac")
//	data, err := audiometa.ParseStream(ctx, r, "song.flac")
//
// Callers doing more than a handful of one-off parses should construct
// an Engine once and reuse it, since an Engine owns the permit pool that
// bounds concurrent parses:
//
//	eng := audiometa.NewEngine(audiometa.WithMaxConcurrentTasks(8))
//	results, err := audiometa.ParseMany(ctx, eng, paths...)
package audiometa
