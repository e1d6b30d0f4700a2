// Package audio plays the game's sound effects.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// FootstepDuration is the length of the synthesized footstep.
const FootstepDuration = 60 * time.Millisecond

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager mixes sound effects onto the speaker.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolLevel  float64

	sfxMixer *beep.Mixer

	// Optional recorded footstep; nil uses the synthesized one.
	footstep *beep.Buffer
	steps    int
	rng      *rand.Rand
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		sfxVolLevel:  1.0,
		sfxMixer:     &beep.Mixer{},
		rng:          rand.New(rand.NewSource(1)),
	}
}

// Init opens the speaker at the given rate. A zero rate uses the default.
func (m *Manager) Init(rate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if rate > 0 {
		m.sampleRate = beep.SampleRate(rate)
	}

	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfxMixer)

	m.initialized = true
	return nil
}

// Close stops all playback.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
	return nil
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the SFX volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetSFXVolume returns the SFX volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// LoadFootstep replaces the synthesized footstep with WAV data.
func (m *Manager) LoadFootstep(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read footstep: %w", err)
	}
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	buf := beep.NewBuffer(beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2})
	var src beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		src = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}
	buf.Append(src)
	m.footstep = buf
	return nil
}

// PlayFootstep mixes one footstep, alternating between the left and right foot.
func (m *Manager) PlayFootstep() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}

	var s beep.Streamer
	if m.footstep != nil {
		s = m.footstep.Streamer(0, m.footstep.Len())
	} else {
		s = Footstep(m.sampleRate, m.rng.Int63())
	}

	pan := 0.3
	if m.steps%2 == 1 {
		pan = -pan
	}
	m.steps++

	vol := m.masterVolume * m.sfxVolLevel
	speaker.Lock()
	m.sfxMixer.Add(&effects.Volume{
		Streamer: &effects.Pan{Streamer: s, Pan: pan},
		Base:     2,
		Volume:   gainExponent(vol),
		Silent:   vol <= 0,
	})
	speaker.Unlock()
	return nil
}

// Footstep synthesizes a short burst of low-passed noise with an
// exponential decay.
func Footstep(sr beep.SampleRate, seed int64) beep.Streamer {
	rng := rand.New(rand.NewSource(seed))
	total := sr.N(FootstepDuration)
	decay := 5.0 / float64(total)
	var pos int
	var prev float64

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			noise := rng.Float64()*2 - 1
			prev += (noise - prev) * 0.2
			v := prev * math.Exp(-decay*float64(pos))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}

// gainExponent converts a 0-1 volume to the base-2 exponent effects.Volume
// expects: 1 is 0, 0.5 is -1.
func gainExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
