// Package audio plays short tones when obstacles enter or leave a light.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/scene"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	DefaultEnterFreq  = 880.0
	DefaultLeaveFreq  = 440.0
	DefaultDuration   = 60 * time.Millisecond
	DefaultVolume     = 0.3
)

// Player consumes finished streamers
type Player interface {
	Play(s ...beep.Streamer)
}

// PlayerFunc adapts a function to Player
type PlayerFunc func(s ...beep.Streamer)

func (f PlayerFunc) Play(s ...beep.Streamer) { f(s...) }

// InitSpeaker opens the default output device and returns a Player for it
func InitSpeaker(rate beep.SampleRate) (Player, error) {
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, errors.Wrap(err, "init speaker")
	}
	return PlayerFunc(speaker.Play), nil
}

// Cues is a light.Notifier that beeps on enter and leave. It is safe to use
// from several lights at once.
type Cues struct {
	mu        sync.Mutex
	player    Player
	rate      beep.SampleRate
	EnterFreq float64
	LeaveFreq float64
	Duration  time.Duration
	Volume    float64
	// Limit caps the cues started per Frame; 0 means no limit
	Limit  int
	played int
	muted  bool
	log    logrus.FieldLogger
}

func NewCues(player Player, rate beep.SampleRate, log logrus.FieldLogger) *Cues {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &Cues{
		player:    player,
		rate:      rate,
		EnterFreq: DefaultEnterFreq,
		LeaveFreq: DefaultLeaveFreq,
		Duration:  DefaultDuration,
		Volume:    DefaultVolume,
		Limit:     4,
		log:       log.WithField("component", "audio"),
	}
}

// Notify plays the tone for ev
func (c *Cues) Notify(obj *scene.Obstacle, ev light.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.muted || c.player == nil {
		return
	}
	if c.Limit > 0 && c.played >= c.Limit {
		return
	}

	freq := c.EnterFreq
	if ev == light.Leave {
		freq = c.LeaveFreq
	}
	s, err := Tone(c.rate, freq, c.Duration, c.Volume)
	if err != nil {
		c.log.WithError(err).WithField("event", ev.String()).Warn("cue skipped")
		return
	}
	c.played++
	c.player.Play(s)
}

// Frame resets the per-frame cue budget
func (c *Cues) Frame() {
	c.mu.Lock()
	c.played = 0
	c.mu.Unlock()
}

// SetMuted silences or restores the cues
func (c *Cues) SetMuted(m bool) {
	c.mu.Lock()
	c.muted = m
	c.mu.Unlock()
}

func (c *Cues) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Tone returns a sine of freq Hz lasting d at linear volume vol
func Tone(rate beep.SampleRate, freq float64, d time.Duration, vol float64) (beep.Streamer, error) {
	if d <= 0 {
		return nil, errors.Errorf("tone duration %v must be positive", d)
	}
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, errors.Wrapf(err, "tone %.1f Hz", freq)
	}
	return volume(beep.Take(rate.N(d), sine), vol), nil
}

// volume wraps s with a linear gain; log2(0) is -Inf so zero is silent
func volume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
