package cli

import (
	"fmt"
	"io"

	"github.com/decker502/cardmatch/pkg/config"
	"github.com/decker502/cardmatch/pkg/game"
	"github.com/decker502/cardmatch/pkg/storage"
)

// Tool 各子命令共用的存储、关卡目录和进度
//
// 命令行参数解析与实际操作分开，操作都在 Tool 上完成，便于测试。
type Tool struct {
	Backend  storage.Backend
	Catalog  *config.LevelCatalog
	Progress *game.LevelProgress
	Saves    *game.SaveManager
	Settings *game.SettingsManager
	Prompter Confirmer
}

// Status `cardsave show` 显示的内容
type Status struct {
	Level       string
	Summary     string
	Index       int
	Phase       game.LevelPhase
	HasSave     bool
	Save        game.SaveInfo
	SaveErr     error // 存档存在但无法读取时的错误
	Keys        []string
	Settings    *game.GameSettings
	StoragePath string // 平台存档目录，桌面端由 gdata 决定时为空
}

// SettingsUpdate 要修改的设置项，nil 表示保持不变
type SettingsUpdate struct {
	SoundEnabled    *bool
	SoundVolume     *float64
	AutoSaveOnPause *bool
	LoadSaveOnStart *bool
}

// IsEmpty 是否没有任何修改
func (u SettingsUpdate) IsEmpty() bool {
	return u.SoundEnabled == nil && u.SoundVolume == nil && u.AutoSaveOnPause == nil && u.LoadSaveOnStart == nil
}

// NewTool 在已打开的存储后端上创建工具
//
// 参数：
//   - backend: 已打开的存储后端
//   - catalog: 关卡目录
//   - prompter: 确认提示，nil 时按非交互模式处理
func NewTool(backend storage.Backend, catalog *config.LevelCatalog, prompter Confirmer) (*Tool, error) {
	progress, err := game.NewLevelProgress(catalog, backend)
	if err != nil {
		return nil, err
	}
	if prompter == nil {
		prompter = noopConfirmer{}
	}
	return &Tool{
		Backend:  backend,
		Catalog:  catalog,
		Progress: progress,
		Saves:    game.NewSaveManager(backend),
		Settings: game.NewSettingsManager(backend),
		Prompter: prompter,
	}, nil
}

// Close 关闭持有资源的存储后端
func (t *Tool) Close() error {
	if c, ok := t.Backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Status 汇总进度、存档摘要和已存储的键
func (t *Tool) Status() (Status, error) {
	keys, err := t.Backend.Keys()
	if err != nil {
		return Status{}, fmt.Errorf("listing keys: %w", err)
	}

	st := Status{
		Level:       t.Progress.DisplayName(),
		Summary:     t.Progress.Summary(),
		Index:       t.Progress.CurrentIndex(),
		Phase:       t.Progress.Phase(),
		HasSave:     t.Saves.Exists(),
		Keys:        keys,
		Settings:    t.Settings.GetSettings(),
		StoragePath: storage.StoragePath(),
	}
	if st.HasSave {
		st.Save, st.SaveErr = t.Saves.Info()
	}
	return st, nil
}

// DeleteSave 只删除关卡中途存档，进度不变
func (t *Tool) DeleteSave() error {
	return t.Saves.Delete()
}

// Reset 删除存档并把进度重置到第一关
//
// 参数：
//   - force: 为 false 时需要用户确认
//
// 返回：
//   - bool: 是否执行了重置（用户取消时为 false）
//   - error: 非交互模式下未指定 force，或写入失败
func (t *Tool) Reset(force bool) (bool, error) {
	if !force {
		ok, err := t.Prompter.Confirm("Delete the saved game and reset all level progress?", false)
		if err != nil {
			return false, fmt.Errorf("reset requires --force in non-interactive mode: %w", err)
		}
		if !ok {
			return false, nil
		}
	}

	if err := t.Saves.Delete(); err != nil {
		return false, err
	}
	if err := t.Progress.Reset(); err != nil {
		return false, err
	}
	return true, nil
}

// JumpToMain 跳转到主线关卡 i（从 0 开始），并删除属于之前关卡的存档
func (t *Tool) JumpToMain(i int) error {
	if err := t.Progress.JumpToMain(i); err != nil {
		return err
	}
	return t.Saves.Delete()
}

// JumpToRotating 跳转到轮换槽位 i（从 0 开始），并删除存档
func (t *Tool) JumpToRotating(i int) error {
	if err := t.Progress.JumpToRotating(i); err != nil {
		return err
	}
	return t.Saves.Delete()
}

// UpdateSettings 修改玩家设置并持久化
//
// 音量超出 0.0 ~ 1.0 时截断。写入失败时内存中的设置已修改，但存储不变。
//
// 返回：
//   - *game.GameSettings: 修改后的设置
func (t *Tool) UpdateSettings(u SettingsUpdate) (*game.GameSettings, error) {
	if u.SoundEnabled != nil {
		t.Settings.SetSoundEnabled(*u.SoundEnabled)
	}
	if u.SoundVolume != nil {
		t.Settings.SetSoundVolume(*u.SoundVolume)
	}
	if u.AutoSaveOnPause != nil {
		t.Settings.SetAutoSaveOnPause(*u.AutoSaveOnPause)
	}
	if u.LoadSaveOnStart != nil {
		t.Settings.SetLoadSaveOnStart(*u.LoadSaveOnStart)
	}

	if err := t.Settings.Save(); err != nil {
		return nil, err
	}
	return t.Settings.GetSettings(), nil
}
