package aac

import (
	"testing"

	"github.com/audiometa-go/audiometa/internal/reader"
	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/types"
)

type bitWriter struct {
	out    []byte
	bitPos int
}

func (w *bitWriter) write(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 0x1)
		byteIdx := w.bitPos / 8
		for byteIdx >= len(w.out) {
			w.out = append(w.out, 0)
		}
		if bit != 0 {
			w.out[byteIdx] |= 1 << uint(7-(w.bitPos%8))
		}
		w.bitPos++
	}
}

func adtsHeader(samplingIdx, channelConfig uint32, frameLen uint32) []byte {
	w := &bitWriter{}
	w.write(0xFFF, 12)
	w.write(0, 1) // ID
	w.write(0, 2) // layer
	w.write(1, 1) // protection_absent
	w.write(1, 2) // profile (LC)
	w.write(samplingIdx, 4)
	w.write(0, 1) // private_bit
	w.write(channelConfig, 3)
	w.write(0, 1) // original_copy
	w.write(0, 1) // home
	w.write(0, 1) // copyright_id_bit
	w.write(0, 1) // copyright_id_start
	w.write(frameLen, 13)
	w.write(0x7FF, 11) // adts_buffer_fullness
	w.write(0, 2)       // number_of_raw_data_blocks_in_frame
	for len(w.out) < 7 {
		w.out = append(w.out, 0)
	}
	return w.out
}

func TestParse_ADTSHeader(t *testing.T) {
	data := adtsHeader(3, 2, 200) // 48000 Hz, 2 channels
	r := reader.New(source.NewMemory(data, "test.aac"), 0, 0)
	p := New()

	m, err := p.Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Format != types.FormatAAC {
		t.Errorf("expected FormatAAC, got %v", m.Format)
	}
	if m.CoreInfo.SampleRate == nil || *m.CoreInfo.SampleRate != 48000 {
		t.Errorf("expected sample rate 48000, got %v", m.CoreInfo.SampleRate)
	}
	if m.CoreInfo.Channels == nil || *m.CoreInfo.Channels != 2 {
		t.Errorf("expected 2 channels, got %v", m.CoreInfo.Channels)
	}
	wantBitrate := 200 * 8 * 48000 / 1024
	if m.CoreInfo.Bitrate == nil || *m.CoreInfo.Bitrate != wantBitrate {
		t.Errorf("expected bitrate %d, got %v", wantBitrate, m.CoreInfo.Bitrate)
	}
}

func TestCanParse_RejectsMissingSync(t *testing.T) {
	p := New()
	if p.CanParse([]byte{0xFF, 0x00}, "") {
		t.Error("expected CanParse to reject non-ADTS bytes")
	}
}
