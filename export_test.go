package remix

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAVExporter_RoundTrip(t *testing.T) {
	tr := toneTrack(0.2, 440)
	var buf bytes.Buffer
	e := WAVExporter{}
	require.NoError(t, e.Export(&buf, tr))
	assert.Equal(t, "wav", e.Format())
	assert.Equal(t, "audio/wav", e.ContentType())

	got, err := DecodeTrack(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, tr, got)
}

func TestWAVExporter_Requantizes(t *testing.T) {
	tr := Track{Data: []int{1 << 22, -(1 << 23)}, Channels: 1, SampleRate: 48000, BitDepth: 24}
	var buf bytes.Buffer
	require.NoError(t, WAVExporter{}.Export(&buf, tr))

	got, err := DecodeTrack(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []int{16384, -32768}, got.Data)
	assert.Equal(t, 48000, got.SampleRate)
}

func TestOpusExporter(t *testing.T) {
	tr := toneTrack(0.5, 440)
	var buf bytes.Buffer
	e := OpusExporter{Quality: QualityLow}
	require.NoError(t, e.Export(&buf, tr))
	assert.Equal(t, "ogg", e.Format())
	assert.Equal(t, "audio/ogg", e.ContentType())

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("OggS")))
	assert.True(t, bytes.Contains(out, []byte("OpusHead")))
	assert.Less(t, len(out), len(tr.Data))
}

func TestOpusExporter_InvalidBitrate(t *testing.T) {
	var buf bytes.Buffer
	err := OpusExporter{Bitrate: 10}.Export(&buf, toneTrack(0.05, 440))
	require.ErrorIs(t, err, ErrExport)
}

func TestExporters_RejectInvalidTrack(t *testing.T) {
	bad := Track{Data: []int{1}, Channels: 0, SampleRate: 44100, BitDepth: 16}
	for _, e := range []Exporter{OpusExporter{}, WAVExporter{}} {
		err := e.Export(&bytes.Buffer{}, bad)
		require.ErrorIs(t, err, ErrExport)
	}
}

func TestExporterFor(t *testing.T) {
	e, err := ExporterFor("OPUS", 96000, QualityHigh)
	require.NoError(t, err)
	assert.Equal(t, OpusExporter{Bitrate: 96000, Quality: QualityHigh}, e)

	e, err = ExporterFor("wav", 0, QualityHigh)
	require.NoError(t, err)
	assert.Equal(t, WAVExporter{}, e)

	_, err = ExporterFor("mp3", 0, QualityHigh)
	require.ErrorIs(t, err, ErrParameter)
}

func TestExportToDir(t *testing.T) {
	dir := t.TempDir()
	tr := toneTrack(0.1, 440)

	path, err := ExportToDir(dir, WAVExporter{}, tr)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".wav"))
	// 36 characters of UUID plus the extension.
	assert.Len(t, filepath.Base(path), 36+len(".wav"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := DecodeTrack(data)
	require.NoError(t, err)
	assert.Equal(t, tr, got)

	other, err := ExportToDir(dir, WAVExporter{}, tr)
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}

func TestExportToDir_RemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	_, err := ExportToDir(dir, OpusExporter{Bitrate: 1}, toneTrack(0.05, 440))
	require.ErrorIs(t, err, ErrExport)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportToDir_MissingDir(t *testing.T) {
	_, err := ExportToDir(filepath.Join(t.TempDir(), "nope"), WAVExporter{}, toneTrack(0.05, 440))
	require.ErrorIs(t, err, ErrExport)
}
