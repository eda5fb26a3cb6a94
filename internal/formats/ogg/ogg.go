// Package ogg implements the Ogg page walker and demultiplexes the
// logical bitstream carrying the recognised codec (Vorbis, Opus, Speex,
// Theora, or FLAC-in-Ogg), grounded in shape on the other sequential
// chunk/page walkers in this module — no example repo in the retrieval
// pack implements Ogg demuxing directly.
package ogg

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/tagparsers"
	"github.com/audiometa-go/audiometa/internal/types"
)

const (
	maxPages          = 1 << 16
	maxPacketsPerSerial = 8
	headerContinued   = 0x01
	headerEOS         = 0x04
)

type codec int

const (
	codecUnknown codec = iota
	codecVorbis
	codecOpus
	codecSpeex
	codecTheora
	codecOggFLAC
)

type streamState struct {
	serial      uint32
	packets     [][]byte
	continuing  []byte
	lastGranule int64
	sawEOS      bool
}

type Parser struct {
	Options tagparsers.Options
}

func New(opts tagparsers.Options) *Parser { return &Parser{Options: opts} }

func (p *Parser) Format() types.AudioFormat { return types.FormatOgg }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 4 && string(header[:4]) == "OggS"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	first, err := r.Read(0, 4)
	if err != nil || len(first) < 4 || string(first) != "OggS" {
		return nil, types.NewInvalidHeaderError("missing OggS magic", 0)
	}

	streams := make(map[uint32]*streamState)
	order := make([]uint32, 0, 4)
	offset := int64(0)
	sawAnyPacket := false

	for i := 0; i < maxPages; i++ {
		hdr, err := r.Read(offset, 27)
		if err != nil || len(hdr) < 27 {
			break
		}
		if string(hdr[0:4]) != "OggS" {
			if sawAnyPacket {
				break
			}
			return nil, types.NewInvalidHeaderError("invalid Ogg page sync", offset)
		}

		headerType := hdr[5]
		granule := int64(binary.LittleEndian.Uint64(hdr[6:14]))
		serial := binary.LittleEndian.Uint32(hdr[14:18])
		segCount := int(hdr[26])

		segTable, err := r.Read(offset+27, segCount)
		if err != nil || len(segTable) < segCount {
			break
		}
		payloadLen := 0
		for _, s := range segTable {
			payloadLen += int(s)
		}
		payload, err := r.Read(offset+27+int64(segCount), payloadLen)
		if err != nil || len(payload) < payloadLen {
			m := types.NewParsedAudioMetadata(types.FormatOgg)
			if sawAnyPacket {
				m.Diagnostics.AddWarning("truncated Ogg page, using partial reconstruction")
				return finish(m, streams, order, p.Options, r.NameHint())
			}
			return nil, types.NewTruncatedDataError("truncated Ogg page payload", offset, payloadLen, len(payload))
		}

		state, ok := streams[serial]
		if !ok {
			state = &streamState{serial: serial}
			streams[serial] = state
			order = append(order, serial)
		}

		packets, trailing := splitSegments(segTable, payload)
		if headerType&headerContinued != 0 && len(state.continuing) > 0 {
			if len(packets) > 0 {
				packets[0] = append(append([]byte{}, state.continuing...), packets[0]...)
			} else {
				trailing = append(append([]byte{}, state.continuing...), trailing...)
			}
			state.continuing = nil
		}
		for _, pkt := range packets {
			if len(state.packets) < maxPacketsPerSerial {
				state.packets = append(state.packets, pkt)
			}
			sawAnyPacket = true
		}
		state.continuing = trailing
		state.lastGranule = granule
		if headerType&headerEOS != 0 {
			state.sawEOS = true
		}

		offset += 27 + int64(segCount) + int64(payloadLen)

		if allStreamsEnded(streams) {
			break
		}
	}

	m := types.NewParsedAudioMetadata(types.FormatOgg)
	return finish(m, streams, order, p.Options, r.NameHint())
}

// allStreamsEnded reports whether every logical bitstream seen so far has
// reached its EOS page, letting the page walk stop before any trailing
// chained stream or padding.
func allStreamsEnded(streams map[uint32]*streamState) bool {
	if len(streams) == 0 {
		return false
	}
	for _, s := range streams {
		if !s.sawEOS {
			return false
		}
	}
	return true
}

func splitSegments(segTable, payload []byte) (packets [][]byte, trailing []byte) {
	pos := 0
	var current []byte
	for _, segLen := range segTable {
		end := pos + int(segLen)
		if end > len(payload) {
			end = len(payload)
		}
		current = append(current, payload[pos:end]...)
		pos = end
		if segLen < 255 {
			packets = append(packets, current)
			current = nil
		}
	}
	return packets, current
}

func finish(m *types.ParsedAudioMetadata, streams map[uint32]*streamState, order []uint32, opts tagparsers.Options, nameHint string) (*types.ParsedAudioMetadata, error) {
	var chosen *streamState
	var chosenCodec codec

	for _, serial := range order {
		s := streams[serial]
		if len(s.packets) == 0 {
			continue
		}
		if c := detectCodec(s.packets[0]); c != codecUnknown {
			chosen, chosenCodec = s, c
			break
		}
	}

	if chosen == nil && nameHint != "" {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(nameHint), "."))
		want := extensionCodec(ext)
		if want != codecUnknown {
			for _, serial := range order {
				s := streams[serial]
				if len(s.packets) > 0 {
					chosen, chosenCodec = s, want
					break
				}
			}
		}
	}

	if chosen == nil && len(order) > 0 {
		chosen = streams[order[0]]
		chosenCodec = detectCodec(firstPacketOf(chosen))
	}

	if chosen == nil {
		return m, nil
	}

	switch chosenCodec {
	case codecVorbis:
		extractVorbis(chosen, m, opts)
		m.Format = types.FormatOggVorbis
	case codecOpus:
		extractOpus(chosen, m, opts)
		m.Format = types.FormatOggOpus
	case codecSpeex:
		extractSpeex(chosen, m, opts)
		m.Format = types.FormatOggSpeex
	case codecTheora:
		extractTheora(chosen, m, opts)
		m.Format = types.FormatOggTheora
	case codecOggFLAC:
		extractOggFLAC(chosen, m, opts)
		m.Format = types.FormatOggFLAC
	}

	return m, nil
}

func firstPacketOf(s *streamState) []byte {
	if len(s.packets) == 0 {
		return nil
	}
	return s.packets[0]
}

func detectCodec(firstPacket []byte) codec {
	switch {
	case len(firstPacket) >= 7 && firstPacket[0] == 0x01 && string(firstPacket[1:7]) == "vorbis":
		return codecVorbis
	case len(firstPacket) >= 8 && string(firstPacket[0:8]) == "OpusHead":
		return codecOpus
	case len(firstPacket) >= 8 && string(firstPacket[0:8]) == "Speex   ":
		return codecSpeex
	case len(firstPacket) >= 7 && firstPacket[0] == 0x80 && string(firstPacket[1:7]) == "theora":
		return codecTheora
	case bytes.Contains(firstPacket, []byte("fLaC")):
		return codecOggFLAC
	default:
		return codecUnknown
	}
}

func extensionCodec(ext string) codec {
	switch ext {
	case "opus":
		return codecOpus
	case "spx":
		return codecSpeex
	case "oggflac":
		return codecOggFLAC
	case "oggtheora", "ogv":
		return codecTheora
	case "ogg", "oga":
		return codecVorbis
	default:
		return codecUnknown
	}
}

func extractVorbis(s *streamState, m *types.ParsedAudioMetadata, opts tagparsers.Options) {
	p0 := s.packets[0]
	if len(p0) < 16 {
		return
	}
	channels := int(p0[11])
	sampleRate := int(binary.LittleEndian.Uint32(p0[12:16]))
	m.CoreInfo.SetChannels(channels)
	m.CoreInfo.SetSampleRate(sampleRate)

	if len(s.packets) > 1 && len(s.packets[1]) >= 7 {
		if err := tagparsers.ParseVorbisComment(s.packets[1][7:], m); err != nil {
			m.Diagnostics.AddWarning("malformed Vorbis comment packet: " + err.Error())
		}
	}
	if sampleRate > 0 && s.lastGranule > 0 {
		m.CoreInfo.SetLength(float64(s.lastGranule) / float64(sampleRate))
	}
}

func extractOpus(s *streamState, m *types.ParsedAudioMetadata, opts tagparsers.Options) {
	p0 := s.packets[0]
	if len(p0) < 12 {
		return
	}
	channels := int(p0[9])
	preSkip := int(binary.LittleEndian.Uint16(p0[10:12]))
	const sampleRate = 48000
	m.CoreInfo.SetChannels(channels)
	m.CoreInfo.SetSampleRate(sampleRate)

	if len(s.packets) > 1 && len(s.packets[1]) >= 8 && string(s.packets[1][0:8]) == "OpusTags" {
		if err := tagparsers.ParseVorbisComment(s.packets[1][8:], m); err != nil {
			m.Diagnostics.AddWarning("malformed Opus comment packet: " + err.Error())
		}
	}
	if s.lastGranule > int64(preSkip) {
		m.CoreInfo.SetLength(float64(s.lastGranule-int64(preSkip)) / float64(sampleRate))
	}
}

func extractSpeex(s *streamState, m *types.ParsedAudioMetadata, opts tagparsers.Options) {
	p0 := s.packets[0]
	if len(p0) < 52 {
		return
	}
	sampleRate := int(binary.LittleEndian.Uint32(p0[36:40]))
	channels := int(binary.LittleEndian.Uint32(p0[48:52]))
	m.CoreInfo.SetSampleRate(sampleRate)
	m.CoreInfo.SetChannels(channels)

	if len(s.packets) > 1 {
		if err := tagparsers.ParseVorbisComment(s.packets[1], m); err != nil {
			m.Diagnostics.AddWarning("malformed Speex comment packet: " + err.Error())
		}
	}
}

func extractTheora(s *streamState, m *types.ParsedAudioMetadata, opts tagparsers.Options) {
	p0 := s.packets[0]
	if len(p0) < 42 {
		return
	}
	fpsNum := binary.BigEndian.Uint32(p0[22:26])
	fpsDen := binary.BigEndian.Uint32(p0[26:30])
	bitrate := int(p0[37])<<16 | int(p0[38])<<8 | int(p0[39])
	granuleShift := (binary.BigEndian.Uint16(p0[40:42]) >> 5) & 0x1F

	if bitrate > 0 {
		m.CoreInfo.SetBitrate(bitrate)
	}
	if fpsDen > 0 {
		fps := float64(fpsNum) / float64(fpsDen)
		shift := uint(granuleShift)
		granule := uint64(s.lastGranule)
		frames := (granule >> shift) + (granule & ((1 << shift) - 1))
		if fps > 0 {
			m.CoreInfo.SetLength(float64(frames) / fps)
		}
	}

	for _, pkt := range s.packets {
		if len(pkt) > 0 && pkt[0] == 0x81 {
			if len(pkt) > 7 {
				if err := tagparsers.ParseVorbisComment(pkt[7:], m); err != nil {
					m.Diagnostics.AddWarning("malformed Theora comment packet: " + err.Error())
				}
			}
			break
		}
	}
}

func extractOggFLAC(s *streamState, m *types.ParsedAudioMetadata, opts tagparsers.Options) {
	p0 := s.packets[0]
	idx := bytes.Index(p0, []byte("fLaC"))
	if idx < 0 {
		return
	}
	streamInfoStart := idx + 4 + 4 // "fLaC" + metadata block header
	if streamInfoStart+18 > len(p0) {
		return
	}
	block := p0[streamInfoStart : streamInfoStart+18]
	packed := binary.BigEndian.Uint64(block[10:18])
	sampleRate := uint32(packed >> 44)
	channels := uint8((packed>>41)&0x7) + 1
	bitsPerSample := uint8((packed>>36)&0x1F) + 1

	m.CoreInfo.SetSampleRate(int(sampleRate))
	m.CoreInfo.SetChannels(int(channels))
	m.CoreInfo.SetBitsPerSample(int(bitsPerSample))

	if len(s.packets) > 1 {
		if err := tagparsers.ParseVorbisComment(s.packets[1], m); err != nil {
			m.Diagnostics.AddWarning("malformed FLAC-in-Ogg comment packet: " + err.Error())
		}
	}
	if sampleRate > 0 && s.lastGranule > 0 {
		m.CoreInfo.SetLength(float64(s.lastGranule) / float64(sampleRate))
	}
}
