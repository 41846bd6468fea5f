package remix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-remix/internal/testutil"
)

func allStageKinds() []Stage {
	return []Stage{
		Reverb(0.5, 0.33),
		PitchShift(3),
		LowpassFilter(4000),
		HighpassFilter(200),
		Distortion(10),
		Delay(0.05),
		Chorus(),
		Phaser(2),
		Compressor(),
	}
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "pitch_shift(semitones=-2.5)", PitchShift(-2.5).String())
	assert.Equal(t, "delay(delay_seconds=0.3, feedback=0, mix=0.5)", Delay(0.3).String())
	assert.Equal(t,
		"chorus(rate_hz=1, depth=0.25, centre_delay_ms=7, feedback=0, mix=0.5)",
		Chorus().String())
}

func TestStage_Params(t *testing.T) {
	s := Phaser(2)
	assert.Equal(t, KindPhaser, s.Kind())

	v, ok := s.Param(ParamCentreHz)
	assert.True(t, ok)
	assert.InDelta(t, 1300, v, 0)

	_, ok = s.Param(ParamRoomSize)
	assert.False(t, ok)

	params := s.Params()
	params[0].Value = 99
	v, _ = s.Param(ParamRateHz)
	assert.InDelta(t, 2, v, 0)
}

func TestProcessorRegistryCoversAllKinds(t *testing.T) {
	for _, s := range allStageKinds() {
		_, ok := processors[s.Kind()]
		assert.True(t, ok, "no processor for %s", s.Kind())
	}
	assert.Len(t, processors, len(allStageKinds()))
}

func TestChain_StagesIsCopy(t *testing.T) {
	c := NewChain(PitchShift(1), Chorus())
	stages := c.Stages()
	stages[0] = Compressor()
	assert.Equal(t, KindPitchShift, c.Stages()[0].Kind())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "[]", NewChain().String())
}

func TestChain_ApplyPreservesShape(t *testing.T) {
	in := ToSamples(toneTrack(0.5, 440))
	before := in.Clone()

	out, err := NewChain(allStageKinds()...).Apply(in, CanonicalSampleRate)
	require.NoError(t, err)

	assert.Equal(t, in.Channels(), out.Channels())
	assert.Equal(t, in.Frames(), out.Frames())
	for ch := range out.Channels() {
		testutil.AssertNoNaNOrInf(t, out.Channel(ch))
	}
	assert.Equal(t, before, in, "input matrix was modified")
}

func TestChain_ApplyEachStage(t *testing.T) {
	in := ToSamples(toneTrack(0.25, 440))
	for _, s := range allStageKinds() {
		t.Run(string(s.Kind()), func(t *testing.T) {
			out, err := NewChain(s).Apply(in, CanonicalSampleRate)
			require.NoError(t, err)
			assert.Equal(t, in.Frames(), out.Frames())
			assert.Greater(t, testutil.RMS(out.Channel(0)), 0.01)
		})
	}
}

func TestChain_EmptyIsCopy(t *testing.T) {
	in := ToSamples(toneTrack(0.1, 440))
	out, err := NewChain().Apply(in, CanonicalSampleRate)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.NotSame(t, in, out)
}

func TestChain_RejectsNonCanonicalRate(t *testing.T) {
	in := ToSamples(toneTrack(0.1, 440))
	_, err := NewChain(Chorus()).Apply(in, 48000)
	require.ErrorIs(t, err, ErrProcessing)
}

func TestChain_ConstructionFailureNamesStage(t *testing.T) {
	in := ToSamples(toneTrack(0.1, 440))
	_, err := NewChain(Chorus(), LowpassFilter(-5)).Apply(in, CanonicalSampleRate)
	require.ErrorIs(t, err, ErrProcessing)
	assert.Contains(t, err.Error(), "stage 1")
	assert.Contains(t, err.Error(), "lowpass")
}

func TestChain_UnknownKind(t *testing.T) {
	in := ToSamples(toneTrack(0.1, 440))
	_, err := NewChain(newStage("flanger")).Apply(in, CanonicalSampleRate)
	require.ErrorIs(t, err, ErrProcessing)
	assert.Contains(t, err.Error(), "flanger")
}
