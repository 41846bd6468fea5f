package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	"gopkg.in/hraban/opus.v2"
)

// Opus stream parameters.
const (
	OpusSampleRate     = 48000
	OpusDefaultBitrate = 128000

	opusFrameSize     = 960 // 20ms at 48kHz
	opusMaxPacketSize = 4000

	// oggwriter always declares this pre-skip in OpusHead.
	opusPreSkip = 3840
	// libopus encoder delay at 48kHz: Fs/400 + Fs/250.
	opusLookahead = 312
	opusMinBitrate    = 6000
	opusMaxBitrate    = 510000
)

// ErrOpusFormat is returned when a buffer cannot be fed to the Opus encoder.
var ErrOpusFormat = errors.New("opus requires 48kHz mono or stereo input")

// EncodeOggOpus encodes buf as an Ogg Opus stream. buf must be 48kHz
// 16-bit mono or stereo. The last page's granule position minus the
// pre-skip equals the input frame count, so decoders play back exactly the
// input.
func EncodeOggOpus(w io.Writer, buf *audio.IntBuffer, bitrate int) error {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("%w: missing buffer format", ErrInvalidData)
	}
	channels := buf.Format.NumChannels
	if buf.Format.SampleRate != OpusSampleRate || channels < 1 || channels > 2 {
		return fmt.Errorf("%w: got %dHz %d channels", ErrOpusFormat, buf.Format.SampleRate, channels)
	}
	if bitrate < opusMinBitrate || bitrate > opusMaxBitrate {
		return fmt.Errorf("%w: bitrate %d outside [%d, %d]", ErrOpusFormat, bitrate, opusMinBitrate, opusMaxBitrate)
	}

	enc, err := opus.NewEncoder(OpusSampleRate, channels, opus.AppAudio)
	if err != nil {
		return fmt.Errorf("failed to create opus encoder: %w", err)
	}
	if err := enc.SetBitrate(bitrate); err != nil {
		return fmt.Errorf("failed to set opus bitrate: %w", err)
	}

	// oggwriter closes its stream when it is an io.Closer; the caller owns w.
	ogg, err := oggwriter.NewWith(writerOnly{w}, OpusSampleRate, uint16(channels))
	if err != nil {
		return fmt.Errorf("failed to create ogg writer: %w", err)
	}

	// Decoders drop opusPreSkip samples. Leading silence fills the part of
	// that not taken by the encoder delay, so playback starts at sample 0.
	frames := len(buf.Data) / channels
	total := opusPreSkip + frames
	packets := (total + opusFrameSize - 1) / opusFrameSize
	pcm := make([]int16, packets*opusFrameSize*channels)
	lead := (opusPreSkip - opusLookahead) * channels
	for i, v := range buf.Data[:frames*channels] {
		pcm[lead+i] = int16(min(max(v, -32768), 32767))
	}

	// oggwriter gives the first page granule 1 and then advances the granule
	// by each timestamp delta. Offsetting later timestamps by granule-1 makes
	// page k end at (k+1) frames and the last page end exactly at total.
	const baseTimestamp = opusFrameSize
	packet := make([]byte, opusMaxPacketSize)
	step := opusFrameSize * channels
	for k := range packets {
		n, err := enc.Encode(pcm[k*step:(k+1)*step], packet)
		if err != nil {
			return fmt.Errorf("opus encode frame %d: %w", k, err)
		}
		ts := baseTimestamp
		if k > 0 {
			ts += min((k+1)*opusFrameSize, total) - 1
		}
		if err := ogg.WriteRTP(&rtp.Packet{
			Header:  rtp.Header{Timestamp: uint32(ts)},
			Payload: packet[:n],
		}); err != nil {
			return fmt.Errorf("failed to write ogg page: %w", err)
		}
	}
	return ogg.Close()
}

type writerOnly struct {
	io.Writer
}
