package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/cardmatch/pkg/storage"
	"gopkg.in/yaml.v3"
)

// SettingsKey 玩家设置的存储键
const SettingsKey = "settings"

// GameSettings 玩家设置
type GameSettings struct {
	// 音频设置
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 0.0 ~ 1.0
	SoundEnabled bool    `yaml:"soundEnabled"` // 音效开关

	// 存档设置
	AutoSaveOnPause bool `yaml:"autoSaveOnPause"` // 暂停/退出时自动存档
	LoadSaveOnStart bool `yaml:"loadSaveOnStart"` // 启动时恢复中途存档
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		SoundVolume:     0.8,
		SoundEnabled:    true,
		AutoSaveOnPause: true,
		LoadSaveOnStart: true,
	}
}

// SettingsManager 设置管理器
// 负责玩家设置的加载、保存和内存管理
type SettingsManager struct {
	backend  storage.Backend // 存储后端，可为 nil（降级模式，仅内存设置）
	settings *GameSettings   // 当前设置
}

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - backend: 存储后端，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例；加载失败时使用默认设置
func NewSettingsManager(backend storage.Backend) *SettingsManager {
	sm := &SettingsManager{
		backend:  backend,
		settings: DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从存储加载设置
//
// 存储为 nil 或没有保存过设置时使用默认设置
//
// 返回：
//   - error: 如果读取或反序列化失败返回错误（此时已回退到默认设置）
func (sm *SettingsManager) Load() error {
	if sm.backend == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.backend.Load(SettingsKey)
	if err != nil {
		sm.settings = DefaultSettings()
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 以默认值为底，缺失字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置
//
// 存储为 nil 时返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.backend == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.backend.Save(SettingsKey, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetSoundVolume 设置音效音量，限制在 0.0 ~ 1.0
// 注意：仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetSoundEnabled 设置音效开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetAutoSaveOnPause 设置暂停/退出时是否自动存档
func (sm *SettingsManager) SetAutoSaveOnPause(enabled bool) {
	sm.settings.AutoSaveOnPause = enabled
}

// SetLoadSaveOnStart 设置启动时是否恢复存档
func (sm *SettingsManager) SetLoadSaveOnStart(enabled bool) {
	sm.settings.LoadSaveOnStart = enabled
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
