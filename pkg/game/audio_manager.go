package game

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// 音效ID
const (
	SoundFlip     = "SOUND_FLIP"
	SoundMatch    = "SOUND_MATCH"
	SoundMismatch = "SOUND_MISMATCH"
	SoundWin      = "SOUND_WIN"
	SoundFail     = "SOUND_FAIL"
	SoundClick    = "SOUND_CLICK"
)

// SampleRate 音频采样率
const SampleRate = 48000

// toneStep 音效中的一个音符
type toneStep struct {
	freq     float64 // 频率（Hz），0 表示静音
	duration float64 // 时长（秒）
}

// cueTable 每个音效由若干音符合成
var cueTable = map[string][]toneStep{
	SoundFlip:     {{freq: 880, duration: 0.04}},
	SoundClick:    {{freq: 1200, duration: 0.03}},
	SoundMatch:    {{freq: 660, duration: 0.08}, {freq: 990, duration: 0.12}},
	SoundMismatch: {{freq: 220, duration: 0.15}},
	SoundWin:      {{freq: 523, duration: 0.1}, {freq: 659, duration: 0.1}, {freq: 784, duration: 0.1}, {freq: 1047, duration: 0.25}},
	SoundFail:     {{freq: 392, duration: 0.15}, {freq: 330, duration: 0.15}, {freq: 262, duration: 0.3}},
}

// AudioManager 音频管理器
// 职责：
//   - 统一管理游戏中所有音效的播放
//   - 实现音量控制（从 SettingsManager 读取设置）
//   - 音效在首次播放时合成并缓存，不依赖外部资源文件
//
// 由组合根创建后显式传给需要它的组件，不提供全局查找。
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager         // 设置管理器（用于读取音量设置，可为 nil）
	soundPlayers    map[string]*audio.Player // 音效播放器缓存（音效ID -> 播放器）
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文（整个进程只能创建一个）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		soundPlayers:    make(map[string]*audio.Player),
	}
}

// PlaySound 播放音效
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player := am.getSoundPlayer(soundID)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", soundID, err)
	}
	player.Play()
	return true
}

// SetSoundVolume 设置音效音量，影响后续播放的所有音效
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(clampVolume(volume))
	}
}

// PreloadSounds 预合成所有音效，避免首次播放时的延迟
func (am *AudioManager) PreloadSounds() {
	for soundID := range cueTable {
		am.getSoundPlayer(soundID)
	}
	log.Printf("[AudioManager] Preloaded %d sounds", len(cueTable))
}

// getSoundPlayer 获取或合成音效播放器
func (am *AudioManager) getSoundPlayer(soundID string) *audio.Player {
	if player, exists := am.soundPlayers[soundID]; exists {
		return player
	}
	if am.context == nil {
		return nil
	}

	steps, ok := cueTable[soundID]
	if !ok {
		log.Printf("[AudioManager] Warning: Sound not found: %s", soundID)
		return nil
	}

	player := am.context.NewPlayerFromBytes(synthesizeCue(steps, SampleRate))
	am.soundPlayers[soundID] = player
	return player
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8
}

// synthesizeCue 把音符序列合成为 16 位小端立体声 PCM
// 每个音符带 5ms 的淡入淡出，避免爆音
func synthesizeCue(steps []toneStep, sampleRate int) []byte {
	const amplitude = 0.3 * math.MaxInt16
	fade := int(0.005 * float64(sampleRate))

	var total int
	for _, s := range steps {
		total += int(s.duration * float64(sampleRate))
	}
	buf := make([]byte, 0, total*4)

	for _, s := range steps {
		n := int(s.duration * float64(sampleRate))
		for i := 0; i < n; i++ {
			env := 1.0
			if i < fade {
				env = float64(i) / float64(fade)
			} else if n-i < fade {
				env = float64(n-i) / float64(fade)
			}

			var v int16
			if s.freq > 0 {
				v = int16(amplitude * env * math.Sin(2*math.Pi*s.freq*float64(i)/float64(sampleRate)))
			}
			// 左右声道相同
			buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
			buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
		}
	}
	return buf
}
