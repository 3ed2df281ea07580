package game

import (
	"encoding/binary"
	"testing"

	"github.com/decker502/cardmatch/pkg/storage"
)

func TestSynthesizeCueLength(t *testing.T) {
	steps := []toneStep{{freq: 440, duration: 0.01}, {freq: 0, duration: 0.02}}
	data := synthesizeCue(steps, 1000)

	// 10 + 20 个采样，每个采样 2 声道 × 2 字节
	if len(data) != 30*4 {
		t.Fatalf("len: got %d, want %d", len(data), 30*4)
	}

	// 静音段全部为 0
	for i := 10 * 4; i < len(data); i += 2 {
		if v := binary.LittleEndian.Uint16(data[i:]); v != 0 {
			t.Fatalf("silent sample at byte %d: got %d, want 0", i, v)
		}
	}
}

func TestSynthesizeCueStereo(t *testing.T) {
	data := synthesizeCue([]toneStep{{freq: 880, duration: 0.01}}, SampleRate)
	for i := 0; i+4 <= len(data); i += 4 {
		left := binary.LittleEndian.Uint16(data[i:])
		right := binary.LittleEndian.Uint16(data[i+2:])
		if left != right {
			t.Fatalf("sample %d: left %d != right %d", i/4, left, right)
		}
	}
}

func TestCueTableCoversSounds(t *testing.T) {
	for _, id := range []string{SoundFlip, SoundMatch, SoundMismatch, SoundWin, SoundFail, SoundClick} {
		steps, ok := cueTable[id]
		if !ok || len(steps) == 0 {
			t.Errorf("cue %s: missing", id)
		}
	}
}

// TestAudioManagerWithoutContext 没有音频上下文时不播放也不崩溃
func TestAudioManagerWithoutContext(t *testing.T) {
	am := NewAudioManager(nil, NewSettingsManager(storage.NewMemoryBackend()))
	if am.PlaySound(SoundFlip) {
		t.Error("PlaySound without audio context: got true, want false")
	}
	am.PreloadSounds()
	if len(am.soundPlayers) != 0 {
		t.Errorf("players without audio context: got %d, want 0", len(am.soundPlayers))
	}
}

func TestAudioManagerSoundDisabled(t *testing.T) {
	sm := NewSettingsManager(storage.NewMemoryBackend())
	sm.SetSoundEnabled(false)

	am := NewAudioManager(nil, sm)
	if am.PlaySound(SoundMatch) {
		t.Error("PlaySound with sound disabled: got true, want false")
	}

	am.SetSoundVolume(0.25)
	if got := sm.GetSettings().SoundVolume; got != 0.25 {
		t.Errorf("SoundVolume: got %v, want 0.25", got)
	}
}
