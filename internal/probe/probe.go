// Package probe scores a header prefix and filename hint against the
// closed AudioFormat enumeration. It is advisory only — the registry's
// chosen parser still runs its own canParse check.
package probe

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/audiometa-go/audiometa/internal/types"
)

// Candidate is one scored guess at the input's format.
type Candidate struct {
	Format types.AudioFormat
	Score  int
}

type bump struct {
	format types.AudioFormat
	score  int
}

// Probe scores header (expected to be a prefix of at least a few KiB, the
// engine passes 4 KiB) plus an optional filename hint, returning
// candidates ordered by descending score. Ties break by format name
// ascending.
func Probe(header []byte, nameHint string) []Candidate {
	bumps := make(map[types.AudioFormat]int)
	add := func(b bump) {
		if b.score > bumps[b.format] {
			bumps[b.format] = b.score
		}
	}

	if len(header) >= 3 && string(header[:3]) == "ID3" {
		add(bump{types.FormatMP3, 80})
		add(bump{types.FormatID3, 60})
		// TrueAudio also carries a leading ID3v2 tag ahead of its TTA1
		// chunk; scored below MP3 so a real MPEG frame sync still wins
		// ties, but high enough that mp3's CanParse (which verifies an
		// actual frame sync past the tag) loses out to trueaudio's once
		// no MPEG frame is found.
		add(bump{types.FormatTrueAudio, 70})
	}
	if len(header) >= 4 && string(header[:4]) == "fLaC" {
		add(bump{types.FormatFLAC, 100})
	}
	if len(header) >= 12 && string(header[:4]) == "RIFF" && string(header[8:12]) == "WAVE" {
		add(bump{types.FormatWave, 100})
	}
	if len(header) >= 12 && string(header[:4]) == "FORM" {
		tag := string(header[8:12])
		if tag == "AIFF" || tag == "AIFC" {
			add(bump{types.FormatAIFF, 100})
		}
	}
	if len(header) >= 4 && string(header[:4]) == "OggS" {
		add(bump{types.FormatOgg, 60})
	}
	if len(header) >= 8 && string(header[4:8]) == "ftyp" {
		add(bump{types.FormatMP4, 95})
		add(bump{types.FormatM4A, 95})
	}
	if isASFGUID(header) {
		add(bump{types.FormatASF, 100})
	}
	for magic, f := range magicFormats {
		if hasMagic(header, magic) {
			add(bump{f, 100})
		}
	}
	if len(header) >= 4 && string(header[:4]) == "APET" {
		add(bump{types.FormatAPEv2, 90})
	}
	if len(header) >= 2 && header[0] == 0xFF && (header[1]&0xE0) == 0xE0 {
		add(bump{types.FormatAAC, 65})
		add(bump{types.FormatMP3, 30})
	}
	if len(header) >= 2 && header[0] == 0x0B && header[1] == 0x77 {
		add(bump{types.FormatAC3, 100})
		add(bump{types.FormatEAC3, 100})
	}

	if nameHint != "" {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(nameHint), "."))
		if ext != "" {
			for _, f := range allFormats {
				for _, e := range f.Extensions() {
					if e == ext {
						add(bump{f, 25})
					}
				}
			}
		}
	}

	candidates := make([]Candidate, 0, len(bumps))
	for f, s := range bumps {
		candidates = append(candidates, Candidate{Format: f, Score: s})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Format.String() < candidates[j].Format.String()
	})
	return candidates
}

var magicFormats = map[string]types.AudioFormat{
	"wvpk": types.FormatWavPack,
	"MPCK": types.FormatMusepack,
	"MAC ": types.FormatMonkeysAudio,
	"TTA1": types.FormatTrueAudio,
	"DSD ": types.FormatDSF,
	"FRM8": types.FormatDSDIFF,
	"MThd": types.FormatSMF,
	"OFR ": types.FormatOptimFROG,
	"tBaK": types.FormatTAK,
}

func hasMagic(header []byte, magic string) bool {
	return len(header) >= len(magic) && bytes.Equal(header[:len(magic)], []byte(magic))
}

// isASFGUID checks the 16-byte ASF header object GUID:
// 30 26 B2 75 8E 66 CF 11 A6 D9 00 AA 00 62 CE 6C
func isASFGUID(header []byte) bool {
	if len(header) < 16 {
		return false
	}
	guid := []byte{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11, 0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C}
	return bytes.Equal(header[:16], guid)
}

var allFormats = []types.AudioFormat{
	types.FormatMP3, types.FormatID3, types.FormatFLAC, types.FormatMP4, types.FormatM4A,
	types.FormatWave, types.FormatAIFF, types.FormatASF, types.FormatAPEv2,
	types.FormatMusepack, types.FormatWavPack, types.FormatTAK, types.FormatDSF, types.FormatDSDIFF,
	types.FormatAAC, types.FormatAC3, types.FormatEAC3, types.FormatOgg, types.FormatOggVorbis,
	types.FormatOggOpus, types.FormatOggSpeex, types.FormatOggTheora, types.FormatOggFLAC,
	types.FormatTrueAudio, types.FormatOptimFROG, types.FormatSMF, types.FormatMonkeysAudio,
}
