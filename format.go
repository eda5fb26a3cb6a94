package audiometa

import "github.com/audiometa-go/audiometa/internal/types"

// AudioFormat is a closed enumeration of the container/codec shapes this
// library recognizes.
type AudioFormat = types.AudioFormat

const (
	FormatUnknown      = types.FormatUnknown
	FormatMP3          = types.FormatMP3
	FormatID3          = types.FormatID3
	FormatFLAC         = types.FormatFLAC
	FormatMP4          = types.FormatMP4
	FormatM4A          = types.FormatM4A
	FormatWave         = types.FormatWave
	FormatAIFF         = types.FormatAIFF
	FormatASF          = types.FormatASF
	FormatAPEv2        = types.FormatAPEv2
	FormatMusepack     = types.FormatMusepack
	FormatWavPack      = types.FormatWavPack
	FormatTAK          = types.FormatTAK
	FormatDSF          = types.FormatDSF
	FormatDSDIFF       = types.FormatDSDIFF
	FormatAAC          = types.FormatAAC
	FormatAC3          = types.FormatAC3
	FormatEAC3         = types.FormatEAC3
	FormatOgg          = types.FormatOgg
	FormatOggVorbis    = types.FormatOggVorbis
	FormatOggOpus      = types.FormatOggOpus
	FormatOggSpeex     = types.FormatOggSpeex
	FormatOggTheora    = types.FormatOggTheora
	FormatOggFLAC      = types.FormatOggFLAC
	FormatTrueAudio    = types.FormatTrueAudio
	FormatOptimFROG    = types.FormatOptimFROG
	FormatSMF          = types.FormatSMF
	FormatMonkeysAudio = types.FormatMonkeysAudio
)
