package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV format constants
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	wavHeaderSize      = 44 // Total WAV header size in bytes
	wavRiffHeaderSize  = 36 // RIFF header size (file size - 8 = riffHeaderSize + dataSize)
	wavPCMSubchunkSize = 16 // fmt subchunk size for PCM format
	bitsPerByte        = 8

	// 8-bit WAV samples are unsigned around this midpoint.
	unsigned8Offset = 128

	wavWriterBufferSize = 64 * 1024
)

// DecodeWAV decodes a PCM WAV file held in memory.
func DecodeWAV(data []byte) (*audio.IntBuffer, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return nil, fmt.Errorf("%w: invalid WAV file: %v", ErrInvalidData, err)
		}
		return nil, fmt.Errorf("%w: invalid WAV file", ErrInvalidData)
	}
	if f := decoder.WavAudioFormat; f != wavFormatPCM && f != wavFormatExtensible {
		return nil, fmt.Errorf("%w: WAV sample format %d is not integer PCM", ErrUnsupportedFormat, f)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: reading WAV samples: %v", ErrInvalidData, err)
	}
	if buf.SourceBitDepth == bitsPerByte {
		for i, v := range buf.Data {
			buf.Data[i] = v - unsigned8Offset
		}
	}

	// Drop a trailing partial frame.
	channels := buf.Format.NumChannels
	buf.Data = buf.Data[:len(buf.Data)-len(buf.Data)%channels]
	return buf, nil
}

// EncodeWAV writes buf as a 16-bit PCM WAV file. Samples are assumed to
// already be 16-bit values and are clamped to that range.
//
// The whole track is in memory, so the header is written with its final
// sizes up front and w does not need to support seeking.
func EncodeWAV(w io.Writer, buf *audio.IntBuffer) error {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate < 1 {
		return fmt.Errorf("%w: missing buffer format", ErrInvalidData)
	}
	const bitDepth = 16
	channels := buf.Format.NumChannels
	bytesPerSample := bitDepth / bitsPerByte
	dataSize := len(buf.Data) * bytesPerSample

	bw := bufio.NewWriterSize(w, wavWriterBufferSize)
	if err := writeWAVHeader(bw, buf.Format.SampleRate, bitDepth, channels, dataSize); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}

	var sample [2]byte
	for _, v := range buf.Data {
		v = min(max(v, -32768), 32767)
		binary.LittleEndian.PutUint16(sample[:], uint16(int16(v)))
		if _, err := bw.Write(sample[:]); err != nil {
			return fmt.Errorf("failed to write WAV samples: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write WAV samples: %w", err)
	}
	return nil
}

func writeWAVHeader(w io.Writer, sampleRate, bitDepth, channels, dataSize int) error {
	blockAlign := channels * bitDepth / bitsPerByte
	header := make([]byte, 0, wavHeaderSize)
	header = append(header, "RIFF"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(wavRiffHeaderSize+dataSize))
	header = append(header, "WAVE"...)
	header = append(header, "fmt "...)
	header = binary.LittleEndian.AppendUint32(header, wavPCMSubchunkSize)
	header = binary.LittleEndian.AppendUint16(header, wavFormatPCM)
	header = binary.LittleEndian.AppendUint16(header, uint16(channels))
	header = binary.LittleEndian.AppendUint32(header, uint32(sampleRate))
	header = binary.LittleEndian.AppendUint32(header, uint32(sampleRate*blockAlign))
	header = binary.LittleEndian.AppendUint16(header, uint16(blockAlign))
	header = binary.LittleEndian.AppendUint16(header, uint16(bitDepth))
	header = append(header, "data"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(dataSize))
	_, err := w.Write(header)
	return err
}
