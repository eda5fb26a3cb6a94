// Package smf implements the Standard MIDI File (MThd/MTrk) walker: it
// decodes the header's ticks-per-quarter-note division, walks every track
// accumulating delta-times and tempo meta events (FF 51), and integrates
// the resulting tempo map up to the longest track's final tick to derive
// a playback length. Grounded in shape on the ogg package's bounded,
// multi-stream scan-then-reduce structure (walk every logical stream,
// pick one governing timeline at the end), the closest precedent among
// this module's container walkers for SMF's event-stream-per-track shape.
package smf

import (
	"encoding/binary"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/types"
)

const (
	maxTracks        = 256
	maxEventsPerTrack = 1 << 20
	defaultTempo     = 500000 // microseconds per quarter note, 120 BPM
)

type tempoEvent struct {
	tick         int64
	usPerQuarter uint32
}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() types.AudioFormat { return types.FormatSMF }

func (p *Parser) CanParse(header []byte, nameHint string) bool {
	return len(header) >= 4 && string(header[0:4]) == "MThd"
}

func (p *Parser) Parse(r *reader.WindowedReader) (*types.ParsedAudioMetadata, error) {
	hdr, err := r.ReadExact(0, 14)
	if err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "MThd" {
		return nil, types.NewInvalidHeaderError("missing MThd chunk", 0)
	}

	format := binary.BigEndian.Uint16(hdr[8:10])
	ntrks := binary.BigEndian.Uint16(hdr[10:12])
	division := binary.BigEndian.Uint16(hdr[12:14])

	m := types.NewParsedAudioMetadata(types.FormatSMF)
	m.SetExtension("smf.format", types.NewIntValue(int64(format)))
	m.SetExtension("smf.track_count", types.NewIntValue(int64(ntrks)))

	if division&0x8000 != 0 {
		// SMPTE time code division: negative frames-per-second byte plus
		// ticks-per-frame, not convertible to a ticks-per-quarter model.
		return m, nil
	}
	tpq := int64(division)
	if tpq <= 0 {
		return m, nil
	}

	var tempoEvents []tempoEvent
	var maxTick int64

	offset := int64(14)
	for t := 0; t < int(ntrks) && t < maxTracks; t++ {
		ckHdr, err := r.Read(offset, 8)
		if err != nil || len(ckHdr) < 8 || string(ckHdr[0:4]) != "MTrk" {
			break
		}
		trackLen := int64(binary.BigEndian.Uint32(ckHdr[4:8]))
		dataStart := offset + 8

		body, err := r.Read(dataStart, int(trackLen))
		if err == nil {
			tick, events := walkTrack(body)
			tempoEvents = append(tempoEvents, events...)
			if tick > maxTick {
				maxTick = tick
			}
		}

		offset = dataStart + trackLen
	}

	if maxTick == 0 {
		return m, nil
	}

	length := integrateTempoMap(tempoEvents, maxTick, tpq)
	m.CoreInfo.SetLength(length)

	return m, nil
}

// walkTrack decodes one MTrk event stream, returning its final absolute
// tick and every tempo meta event it contains.
func walkTrack(data []byte) (finalTick int64, events []tempoEvent) {
	var pos int
	var tick int64
	var runningStatus byte

	for i := 0; i < maxEventsPerTrack && pos < len(data); i++ {
		delta, n := readVLQ(data[pos:])
		if n == 0 {
			break
		}
		pos += n
		tick += delta

		if pos >= len(data) {
			break
		}
		status := data[pos]
		if status&0x80 != 0 {
			runningStatus = status
			pos++
		} else {
			status = runningStatus
		}

		switch {
		case status == 0xFF:
			if pos >= len(data) {
				return tick, events
			}
			metaType := data[pos]
			pos++
			length, n := readVLQ(data[pos:])
			pos += n
			if pos+int(length) > len(data) {
				return tick, events
			}
			if metaType == 0x51 && length == 3 {
				us := uint32(data[pos])<<16 | uint32(data[pos+1])<<8 | uint32(data[pos+2])
				events = append(events, tempoEvent{tick: tick, usPerQuarter: us})
			}
			pos += int(length)
		case status == 0xF0 || status == 0xF7:
			length, n := readVLQ(data[pos:])
			pos += n
			pos += int(length)
		case status>>4 == 0xC || status>>4 == 0xD:
			pos++ // one data byte
		case status>>4 >= 0x8 && status>>4 <= 0xE:
			pos += 2 // two data bytes
		default:
			return tick, events
		}
	}
	return tick, events
}

// readVLQ decodes a MIDI variable-length quantity, returning the value
// and the number of bytes consumed (0 if the buffer ran out first).
func readVLQ(data []byte) (int64, int) {
	var v int64
	for i := 0; i < len(data) && i < 4; i++ {
		b := data[i]
		v = v<<7 | int64(b&0x7F)
		if b&0x80 == 0 {
			return v, i + 1
		}
	}
	return 0, 0
}

// integrateTempoMap sums wall-clock seconds across each constant-tempo
// span from tick 0 to totalTicks, using defaultTempo before the first
// tempo event (or throughout, if none occurred).
func integrateTempoMap(events []tempoEvent, totalTicks, tpq int64) float64 {
	for i := 0; i < len(events)-1; i++ {
		for j := i + 1; j < len(events); j++ {
			if events[j].tick < events[i].tick {
				events[i], events[j] = events[j], events[i]
			}
		}
	}

	var seconds float64
	currentTempo := uint32(defaultTempo)
	lastTick := int64(0)

	for _, ev := range events {
		deltaTicks := ev.tick - lastTick
		seconds += float64(deltaTicks) / float64(tpq) * float64(currentTempo) / 1e6
		currentTempo = ev.usPerQuarter
		lastTick = ev.tick
	}
	if totalTicks > lastTick {
		deltaTicks := totalTicks - lastTick
		seconds += float64(deltaTicks) / float64(tpq) * float64(currentTempo) / 1e6
	}

	return seconds
}
