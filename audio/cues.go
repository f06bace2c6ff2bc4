// Package audio plays short synthesized combat cues from detected change
// sets. It is entirely optional: an uninitialized player swallows every
// request, so headless hosts and tests need no audio device.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/arenaview/diff"
)

const sampleRate = beep.SampleRate(48000)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a fixed-duration raw wave
type oscillator struct {
	freq     float64
	sweep    float64 // per-sample frequency delta, for falling cues
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

func newOscillator(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, false
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		// Fade the tail so short cues do not click
		remaining := o.duration - o.position
		if fade := o.rate.N(10 * time.Millisecond); remaining < fade {
			val *= float64(remaining) / float64(fade)
		}

		samples[i][0] = val * 0.4
		samples[i][1] = val * 0.4

		o.freq += o.sweep
		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// CuePlayer mixes combat cues into a single speaker stream
type CuePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewCuePlayer creates an uninitialized cue player
func NewCuePlayer() *CuePlayer {
	return &CuePlayer{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. Safe to call more than once.
func (p *CuePlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences and detaches all cues
func (p *CuePlayer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.mixer.Clear()
	p.initialized = false
}

// PlayHit plays a short square blip for a landed hit
func (p *CuePlayer) PlayHit() {
	p.play(newOscillator(220, 0, 60*time.Millisecond, WaveSquare, sampleRate))
}

// PlayHeal plays a rising sine chirp
func (p *CuePlayer) PlayHeal() {
	p.play(newOscillator(440, 0.02, 90*time.Millisecond, WaveSine, sampleRate))
}

// PlayDeath plays a falling saw sweep
func (p *CuePlayer) PlayDeath() {
	p.play(newOscillator(330, -0.005, 250*time.Millisecond, WaveSaw, sampleRate))
}

func (p *CuePlayer) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// HandleChanges maps a detected change set onto cues. Deaths take
// priority over the hits that caused them; at most one cue per category
// per tick keeps burst ticks from stacking into noise.
func (p *CuePlayer) HandleChanges(cs diff.ChangeSet) {
	if len(cs.Deaths) > 0 {
		p.PlayDeath()
		return
	}
	if len(cs.Damages) > 0 {
		p.PlayHit()
	}
	if len(cs.Heals) > 0 {
		p.PlayHeal()
	}
}
