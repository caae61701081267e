// Package audio is the tone sink for game events: short synthesized cues for
// clicks, the spin crank, the capsule drop, and the prize fanfare. It is an
// explicitly owned resource injected at startup; nothing in the game reaches
// for a process-global audio context.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Manager owns the speaker, a mixer for fire-and-forget cues, and the master
// volume. All trigger methods are safe no-ops before Init or after Cleanup.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      *effects.Volume
	initialized bool
}

// NewManager returns an uninitialized manager. Call Init once the process is
// ready to open the audio device.
func NewManager() *Manager {
	mixer := &beep.Mixer{}
	return &Manager{
		mixer: mixer,
		volume: &effects.Volume{
			Streamer: mixer,
			Base:     2,
		},
	}
}

// Init opens the speaker and starts the mixer. Idempotent: a second call is a
// no-op. Returns the speaker error so the caller can log it and continue
// silent; an unavailable audio device is never fatal to the toy.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*50)); err != nil {
		return err
	}
	speaker.Play(m.volume)
	m.initialized = true
	return nil
}

// Cleanup silences and clears the mixer on teardown.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	m.initialized = false
}

// SetVolume sets the master volume, 0..1. Zero mutes.
func (m *Manager) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	speaker.Lock()
	m.volume.Silent = v == 0
	// Map 0..1 onto roughly -6..0 in base-2 volume steps.
	m.volume.Volume = (v - 1) * 6
	speaker.Unlock()
}

// SetMuted silences all output without touching the volume setting.
func (m *Manager) SetMuted(muted bool) {
	speaker.Lock()
	m.volume.Silent = muted
	speaker.Unlock()
}

// play queues a finite streamer onto the mixer.
func (m *Manager) play(s beep.Streamer) {
	m.mu.Lock()
	ok := m.initialized
	m.mu.Unlock()
	if !ok {
		return
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// Click plays a short UI blip (mode switch, buttons).
func (m *Manager) Click() {
	m.play(beep.Take(sampleRate.N(60*time.Millisecond), newBlip(sampleRate, 880)))
}

// SpinStart plays the rising crank sweep when a draw begins.
func (m *Manager) SpinStart() {
	m.play(beep.Take(sampleRate.N(900*time.Millisecond), newSweep(sampleRate, 90, 340)))
}

// PrizeSpawn plays the capsule-drop pop.
func (m *Manager) PrizeSpawn() {
	m.play(beep.Take(sampleRate.N(200*time.Millisecond), newPop(sampleRate)))
}

// Fanfare plays the claim arpeggio.
func (m *Manager) Fanfare() {
	m.play(beep.Take(sampleRate.N(700*time.Millisecond), newArpeggio(sampleRate, 523.25, 659.25, 783.99)))
}

// sineAt is shared by the generators: amplitude-scaled sine at time t.
func sineAt(freq, t, amp float64) float64 {
	return amp * math.Sin(2*math.Pi*freq*t)
}
