// Package types holds the core data model shared across the parsing
// pipeline: the audio format enumeration, tag value variants, binary
// digests, diagnostics, and the error taxonomy.
package types

// AudioFormat is a closed enumeration of the container/codec shapes this
// module recognises.
//
//go:generate stringer -type=AudioFormat -linecomment
type AudioFormat int

const (
	FormatUnknown      AudioFormat = iota // unknown
	FormatMP3                             // mp3
	FormatID3                             // id3
	FormatFLAC                            // flac
	FormatMP4                             // mp4
	FormatM4A                             // m4a
	FormatWave                            // wave
	FormatAIFF                            // aiff
	FormatASF                             // asf
	FormatAPEv2                           // apev2
	FormatMusepack                        // musepack
	FormatWavPack                         // wavpack
	FormatTAK                             // tak
	FormatDSF                             // dsf
	FormatDSDIFF                          // dsdiff
	FormatAAC                             // aac
	FormatAC3                             // ac3
	FormatEAC3                            // eac3
	FormatOgg                             // ogg
	FormatOggVorbis                       // oggVorbis
	FormatOggOpus                         // oggOpus
	FormatOggSpeex                        // oggSpeex
	FormatOggTheora                       // oggTheora
	FormatOggFLAC                         // oggFlac
	FormatTrueAudio                       // trueAudio
	FormatOptimFROG                       // optimFrog
	FormatSMF                             // smf
	FormatMonkeysAudio                    // monkeysAudio
)

// Extensions returns the ordered, lowercase file extensions associated
// with a format. The first extension is the canonical one.
func (f AudioFormat) Extensions() []string {
	switch f {
	case FormatMP3:
		return []string{"mp3"}
	case FormatID3:
		return []string{"id3"}
	case FormatFLAC:
		return []string{"flac"}
	case FormatMP4:
		return []string{"mp4", "m4p"}
	case FormatM4A:
		return []string{"m4a", "m4b"}
	case FormatWave:
		return []string{"wav", "wave"}
	case FormatAIFF:
		return []string{"aiff", "aif", "aifc"}
	case FormatASF:
		return []string{"asf", "wma", "wmv"}
	case FormatAPEv2:
		return []string{"apev2"}
	case FormatMusepack:
		return []string{"mpc"}
	case FormatWavPack:
		return []string{"wv"}
	case FormatTAK:
		return []string{"tak"}
	case FormatDSF:
		return []string{"dsf"}
	case FormatDSDIFF:
		return []string{"dff", "dsdiff"}
	case FormatAAC:
		return []string{"aac"}
	case FormatAC3:
		return []string{"ac3"}
	case FormatEAC3:
		return []string{"eac3"}
	case FormatOgg:
		return []string{"ogg", "oga"}
	case FormatOggVorbis:
		return []string{"ogg", "oga"}
	case FormatOggOpus:
		return []string{"opus"}
	case FormatOggSpeex:
		return []string{"spx"}
	case FormatOggTheora:
		return []string{"oggtheora", "ogv"}
	case FormatOggFLAC:
		return []string{"oggflac"}
	case FormatTrueAudio:
		return []string{"tta"}
	case FormatOptimFROG:
		return []string{"ofr", "ofs"}
	case FormatSMF:
		return []string{"mid", "smf"}
	case FormatMonkeysAudio:
		return []string{"ape"}
	default:
		return nil
	}
}

// String implements fmt.Stringer without requiring the generated stringer
// file to exist in this tree (kept hand-written, matching the `-linecomment`
// values above).
func (f AudioFormat) String() string {
	switch f {
	case FormatMP3:
		return "mp3"
	case FormatID3:
		return "id3"
	case FormatFLAC:
		return "flac"
	case FormatMP4:
		return "mp4"
	case FormatM4A:
		return "m4a"
	case FormatWave:
		return "wave"
	case FormatAIFF:
		return "aiff"
	case FormatASF:
		return "asf"
	case FormatAPEv2:
		return "apev2"
	case FormatMusepack:
		return "musepack"
	case FormatWavPack:
		return "wavpack"
	case FormatTAK:
		return "tak"
	case FormatDSF:
		return "dsf"
	case FormatDSDIFF:
		return "dsdiff"
	case FormatAAC:
		return "aac"
	case FormatAC3:
		return "ac3"
	case FormatEAC3:
		return "eac3"
	case FormatOgg:
		return "ogg"
	case FormatOggVorbis:
		return "oggVorbis"
	case FormatOggOpus:
		return "oggOpus"
	case FormatOggSpeex:
		return "oggSpeex"
	case FormatOggTheora:
		return "oggTheora"
	case FormatOggFLAC:
		return "oggFlac"
	case FormatTrueAudio:
		return "trueAudio"
	case FormatOptimFROG:
		return "optimFrog"
	case FormatSMF:
		return "smf"
	case FormatMonkeysAudio:
		return "monkeysAudio"
	default:
		return "unknown"
	}
}
