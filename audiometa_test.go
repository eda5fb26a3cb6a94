package audiometa

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func le32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

func buildWavPackFile(totalSamples, flags uint32) []byte {
	hdr := make([]byte, 32)
	copy(hdr[0:4], "wvpk")
	binary.LittleEndian.PutUint32(hdr[4:8], 32)
	binary.LittleEndian.PutUint32(hdr[12:16], totalSamples)
	binary.LittleEndian.PutUint32(hdr[24:28], flags)
	return hdr
}

func TestParseBytes_RecognizesWavPack(t *testing.T) {
	flags := uint32(9<<23) | 0x1
	data := buildWavPackFile(441000, flags)

	m, err := ParseBytes(context.Background(), data, "song.wv")
	require.NoError(t, err)
	require.Equal(t, FormatWavPack, m.Format)
}

func TestParseStream_BuffersAndParses(t *testing.T) {
	flags := uint32(9<<23) | 0x1
	data := buildWavPackFile(441000, flags)

	m, err := ParseStream(context.Background(), bytes.NewReader(data), "song.wv")
	require.NoError(t, err)
	require.Equal(t, FormatWavPack, m.Format)
}

func TestParseFile_ReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.wv")
	flags := uint32(9<<23) | 0x1
	require.NoError(t, os.WriteFile(path, buildWavPackFile(441000, flags), 0o644))

	m, err := ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, FormatWavPack, m.Format)
}

func TestParseMany_PreservesOrderAndIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.wv")
	flags := uint32(9<<23) | 0x1
	require.NoError(t, os.WriteFile(good, buildWavPackFile(441000, flags), 0o644))
	missing := filepath.Join(dir, "does-not-exist.wv")

	eng := NewEngine()
	results, err := ParseMany(context.Background(), eng, good, missing)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Metadata)
	require.Equal(t, FormatWavPack, results[0].Metadata.Format)

	require.Error(t, results[1].Err)
	require.Equal(t, missing, results[1].Path)
}

func TestAsParseError_NormalizesTypedErrors(t *testing.T) {
	// A truncated wavpack header: the magic is enough for CanParse to
	// claim it, but Parse's ReadExact(0, 32) has only 4 bytes to work
	// with and must fail with a typed truncatedData error.
	_, err := ParseBytes(context.Background(), []byte("wvpk"), "short.wv")
	require.Error(t, err)

	pe, ok := AsParseError(err)
	require.True(t, ok, "expected a typed parse error, got %T", err)
	require.Equal(t, KindTruncatedData, pe.Kind)
}
