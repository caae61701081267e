package audio

import (
	"testing"

	"github.com/gopxl/beep"
)

// drain pulls n samples from a generator and fails on clipping or a reported
// stream error. No speaker is opened anywhere in this package's tests.
func drain(t *testing.T, g beep.Streamer, n int) {
	t.Helper()
	buf := make([][2]float64, 512)
	for n > 0 {
		chunk := buf
		if n < len(chunk) {
			chunk = chunk[:n]
		}
		got, ok := g.Stream(chunk)
		if !ok || got != len(chunk) {
			t.Fatalf("stream returned %d ok=%v", got, ok)
		}
		for i, s := range chunk {
			if s[0] < -1 || s[0] > 1 || s[1] < -1 || s[1] > 1 {
				t.Fatalf("sample %d clips: %v", i, s)
			}
		}
		n -= len(chunk)
	}
	if err := g.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestGeneratorsStayInRange(t *testing.T) {
	second := int(sampleRate)
	drain(t, newBlip(sampleRate, 880), second/4)
	drain(t, newSweep(sampleRate, 90, 340), second)
	drain(t, newPop(sampleRate), second/2)
	drain(t, newArpeggio(sampleRate, 523.25, 659.25, 783.99), second)
}

func TestBlipDecays(t *testing.T) {
	g := newBlip(sampleRate, 880)
	buf := make([][2]float64, int(sampleRate)/2)
	g.Stream(buf)
	var early, late float64
	for _, s := range buf[:2000] {
		if a := s[0]; a > early {
			early = a
		}
	}
	for _, s := range buf[len(buf)-2000:] {
		if a := s[0]; a > late {
			late = a
		}
	}
	if late >= early/10 {
		t.Fatalf("blip did not decay: early %f late %f", early, late)
	}
}

func TestTriggersBeforeInitAreNoops(t *testing.T) {
	m := NewManager()
	// Must not panic or touch the speaker.
	m.Click()
	m.SpinStart()
	m.PrizeSpawn()
	m.Fanfare()
	m.Cleanup()
}
