package engine

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/audiometa-go/audiometa/internal/source"
	"github.com/audiometa-go/audiometa/internal/types"
)

func le32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

func buildWavPackHeader(totalSamples, flags uint32) []byte {
	hdr := make([]byte, 32)
	copy(hdr[0:4], "wvpk")
	binary.LittleEndian.PutUint32(hdr[4:8], 32)
	binary.LittleEndian.PutUint32(hdr[12:16], totalSamples)
	binary.LittleEndian.PutUint32(hdr[24:28], flags)
	return hdr
}

func TestParse_ResolvesRegisteredFormat(t *testing.T) {
	flags := uint32(9<<23) | 0x1
	data := buildWavPackHeader(441000, flags)

	eng := New()
	m, err := eng.Parse(context.Background(), source.NewMemory(data, "test.wv"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Format != types.FormatWavPack {
		t.Fatalf("expected FormatWavPack, got %v", m.Format)
	}
	if m.CoreInfo.SampleRate == nil || *m.CoreInfo.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %v", m.CoreInfo.SampleRate)
	}
	if m.Diagnostics.ParserName != "wavpack" {
		t.Errorf("expected diagnostics to record parser name, got %q", m.Diagnostics.ParserName)
	}
}

func TestParse_UnrecognizedInputFallsBackToUnknown(t *testing.T) {
	data := make([]byte, 64)
	eng := New()
	m, err := eng.Parse(context.Background(), source.NewMemory(data, "mystery.bin"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Format != types.FormatUnknown {
		t.Errorf("expected FormatUnknown, got %v", m.Format)
	}
}

func TestParse_DisablingHeuristicFallbackSkipsRecovery(t *testing.T) {
	data := make([]byte, 64)
	eng := New()
	m, err := eng.Parse(context.Background(), source.NewMemory(data, "mystery.bin"), WithAllowHeuristicFallback(false))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Format != types.FormatUnknown {
		t.Errorf("expected FormatUnknown, got %v", m.Format)
	}
	if len(m.Diagnostics.Warnings) == 0 {
		t.Error("expected a warning explaining recovery was skipped")
	}
}

func TestParse_CanceledContextFailsFastWithoutResolving(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := New()
	data := buildWavPackHeader(1000, 0)
	_, err := eng.Parse(ctx, source.NewMemory(data, "test.wv"))
	if err == nil {
		t.Fatal("expected an error for a canceled context")
	}
	if _, ok := types.AsParseError(err); !ok {
		t.Errorf("expected a typed parse error, got %T", err)
	}
}

func TestNew_ClampsMaxConcurrentTasksFloor(t *testing.T) {
	eng := New(WithMaxConcurrentTasks(0))
	if eng.MaxConcurrentTasks() != 1 {
		t.Errorf("expected floor of 1, got %d", eng.MaxConcurrentTasks())
	}
}

func buildID3TaggedTTA1(channels, bitsPerSample uint16, sampleRate, dataLength uint32) []byte {
	var data []byte
	data = append(data, []byte("ID3")...)
	data = append(data, 3, 0, 0, 0, 0, 0, 0) // 10-byte ID3v2 header, tag size 0

	hdr := make([]byte, 18)
	copy(hdr[0:4], "TTA1")
	binary.LittleEndian.PutUint16(hdr[6:8], channels)
	binary.LittleEndian.PutUint16(hdr[8:10], bitsPerSample)
	binary.LittleEndian.PutUint32(hdr[10:14], sampleRate)
	binary.LittleEndian.PutUint32(hdr[14:18], dataLength)
	data = append(data, hdr...)
	return data
}

func TestParse_RoutesID3TaggedTTA1ToTrueAudioNotMP3(t *testing.T) {
	data := buildID3TaggedTTA1(2, 16, 44100, 441000)

	eng := New()
	m, err := eng.Parse(context.Background(), source.NewMemory(data, "song.tta"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Format != types.FormatTrueAudio {
		t.Fatalf("expected an ID3v2-tagged TTA1 file to route to trueaudio, got %v", m.Format)
	}
	if m.CoreInfo.SampleRate == nil || *m.CoreInfo.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %v", m.CoreInfo.SampleRate)
	}
}
