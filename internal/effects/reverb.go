package effects

import "fmt"

// Freeverb tuning, expressed in samples at 44.1 kHz.
var (
	combTunings    = [...]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTunings = [...]int{556, 441, 341, 225}
)

const (
	reverbTuningRate   = 44100.0
	reverbStereoSpread = 23
	reverbInputGain    = 0.015
	reverbRoomScale    = 0.28
	reverbRoomOffset   = 0.7
	reverbDampScale    = 0.4
	reverbWetScale     = 3.0
	reverbDryScale     = 2.0
	reverbAllpassGain  = 0.5
)

// ReverbParams configures the Freeverb-style room reverb. All values are
// normalized to [0, 1].
type ReverbParams struct {
	RoomSize float64
	Damping  float64
	WetLevel float64
	DryLevel float64
	Width    float64
}

// DefaultReverbParams returns the stock room: medium size, half damping,
// one third wet.
func DefaultReverbParams() ReverbParams {
	return ReverbParams{RoomSize: 0.5, Damping: 0.5, WetLevel: 0.33, DryLevel: 0.4, Width: 1.0}
}

// Validate checks that every parameter is within [0, 1].
func (p ReverbParams) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"room size", p.RoomSize},
		{"damping", p.Damping},
		{"wet level", p.WetLevel},
		{"dry level", p.DryLevel},
		{"width", p.Width},
	} {
		if err := checkRange(c.name, c.v, 0, 1); err != nil {
			return err
		}
	}
	return nil
}

type comb struct {
	buf      []float64
	idx      int
	last     float64
	feedback float64
	damp     float64
}

func (c *comb) process(x float64) float64 {
	out := c.buf[c.idx]
	c.last = out*(1-c.damp) + c.last*c.damp
	c.buf[c.idx] = x + c.last*c.feedback
	c.idx++
	if c.idx == len(c.buf) {
		c.idx = 0
	}
	return out
}

type allpass struct {
	buf []float64
	idx int
}

func (a *allpass) process(x float64) float64 {
	buffered := a.buf[a.idx]
	a.buf[a.idx] = x + buffered*reverbAllpassGain
	a.idx++
	if a.idx == len(a.buf) {
		a.idx = 0
	}
	return buffered - x
}

// Reverb is a stereo Schroeder/Moorer reverb: eight damped comb filters
// in parallel feeding four series all-pass diffusers per side, with the
// right side detuned by a fixed spread.
type Reverb struct {
	combs     [2][len(combTunings)]comb
	allpasses [2][len(allpassTunings)]allpass

	wet1, wet2, dry float64
}

// NewReverb creates a reverb for the given sample rate.
func NewReverb(sampleRate float64, p ReverbParams) (*Reverb, error) {
	if err := checkSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}

	r := &Reverb{}
	scale := sampleRate / reverbTuningRate
	feedback := p.RoomSize*reverbRoomScale + reverbRoomOffset
	damp := p.Damping * reverbDampScale

	for side := range 2 {
		spread := side * reverbStereoSpread
		for i, tuning := range combTunings {
			r.combs[side][i] = comb{
				buf:      make([]float64, max(1, int(float64(tuning+spread)*scale))),
				feedback: feedback,
				damp:     damp,
			}
		}
		for i, tuning := range allpassTunings {
			r.allpasses[side][i] = allpass{buf: make([]float64, max(1, int(float64(tuning+spread)*scale)))}
		}
	}

	wet := p.WetLevel * reverbWetScale
	r.wet1 = 0.5 * wet * (1 + p.Width)
	r.wet2 = 0.5 * wet * (1 - p.Width)
	r.dry = p.DryLevel * reverbDryScale
	return r, nil
}

// Process reverberates the first two channels. A mono buffer is treated as
// both sides of the room and receives the left output.
func (r *Reverb) Process(channels [][]float64) error {
	switch len(channels) {
	case 0:
		return nil
	case 1:
		mono := channels[0]
		for i, x := range mono {
			outL, _ := r.tick(x, x)
			mono[i] = outL
		}
	default:
		left, right := channels[0], channels[1]
		n := min(len(left), len(right))
		for i := range n {
			left[i], right[i] = r.tick(left[i], right[i])
		}
	}
	return nil
}

func (r *Reverb) tick(left, right float64) (float64, float64) {
	input := (left + right) * reverbInputGain

	var outL, outR float64
	for i := range combTunings {
		outL += r.combs[0][i].process(input)
		outR += r.combs[1][i].process(input)
	}
	for i := range allpassTunings {
		outL = r.allpasses[0][i].process(outL)
		outR = r.allpasses[1][i].process(outR)
	}

	return outL*r.wet1 + outR*r.wet2 + left*r.dry,
		outR*r.wet1 + outL*r.wet2 + right*r.dry
}
