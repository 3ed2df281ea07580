// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"

	"github.com/decker502/cardmatch/pkg/board"
	"github.com/decker502/cardmatch/pkg/config"
	"github.com/decker502/cardmatch/pkg/game"
	"github.com/decker502/cardmatch/pkg/storage"
	"github.com/decker502/cardmatch/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// mismatchHideFrames 配对失败后两张牌保持翻开的帧数
const mismatchHideFrames = 45

// volumeStep -/= 键每次调整的音量
const volumeStep = 0.1

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg      *config.AppConfig
	backend  storage.Backend
	session  *game.Session
	board    *board.Board
	settings *game.SettingsManager
	sounds   *game.AudioManager
	hud      *hud

	layout    board.Layout
	pointer   utils.PointerState
	flips     flipTracker
	hideTimer int  // 倒计时结束后盖回未配对的牌
	overlayT  int  // 结束画面已显示的帧数，用于淡入
	paused    bool // Esc 暂停
	focused   bool
	closed    bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 使用内嵌关卡目录时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg *config.AppConfig) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	catalog, err := config.LoadLevelCatalogOrDefault(cfg.LevelsFile)
	if err != nil {
		return nil, fmt.Errorf("关卡目录加载失败: %w", err)
	}

	backend := storage.OpenFromConfig(cfg)
	settings := game.NewSettingsManager(backend)

	// 初始化音频上下文（整个进程只能创建一个）
	audioManager := game.NewAudioManager(audio.NewContext(game.SampleRate), settings)
	audioManager.PreloadSounds()
	log.Printf("[App] AudioManager initialized")

	progress, err := game.NewLevelProgress(catalog, backend)
	if err != nil {
		closeBackend(backend)
		return nil, fmt.Errorf("关卡进度初始化失败: %w", err)
	}

	a := &App{
		cfg:      cfg,
		backend:  backend,
		board:    board.New(cfg.Seed),
		settings: settings,
		sounds:   audioManager,
		hud:      newHUD(utils.IsMobile()),
		focused:  true,
	}

	s := settings.GetSettings()
	a.session, err = game.NewSession(game.SessionConfig{
		Progress:        progress,
		Saves:           game.NewSaveManager(backend),
		Board:           a.board,
		Presenter:       a.hud,
		Sounds:          audioManager,
		LoadOnStart:     s.LoadSaveOnStart,
		AutoSaveOnPause: s.AutoSaveOnPause,
	})
	if err != nil {
		closeBackend(backend)
		return nil, err
	}

	if err := a.session.Start(); err != nil {
		closeBackend(backend)
		return nil, fmt.Errorf("会话启动失败: %w", err)
	}
	a.relayout()

	return a, nil
}

func closeBackend(backend storage.Backend) {
	if c, ok := backend.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("[App] Warning: failed to close storage: %v", err)
		}
	}
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Shutdown()
		return ebiten.Termination
	}

	// 失去焦点视为暂停（移动端切到后台时同样适用）
	if focused := ebiten.IsFocused(); focused != a.focused {
		a.focused = focused
		if !focused {
			a.logError("auto-save on pause", a.session.OnPause())
		}
	}

	a.updateWindow()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.paused = !a.paused
		if a.paused {
			a.logError("auto-save on pause", a.session.OnPause())
		}
	}
	if a.paused {
		return nil
	}

	a.handleKeys()
	a.flips.update(a.board.Slots())
	a.pointer = utils.GetPointerState()
	if a.hud.state != overlayNone {
		a.overlayT++
	} else {
		a.overlayT = 0
	}

	if a.board.AwaitingHide() {
		a.hideTimer--
		if a.hideTimer <= 0 {
			a.board.HideUnmatched()
		}
		return nil
	}

	if a.pointer.JustPressed {
		a.handleClick(a.pointer.X, a.pointer.Y)
	}
	return nil
}

// handleKeys 快捷键：R 重玩、N 下一关（过关后）、F8 删除存档、F9 重置全部进度、
// M 音效开关、-/= 调整音量
func (a *App) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.logError("restart", a.session.Restart())
		a.relayout()
	case inpututil.IsKeyJustPressed(ebiten.KeyN) && a.hud.state == overlayWon:
		a.logError("next level", a.session.NextLevel())
		a.relayout()
	case inpututil.IsKeyJustPressed(ebiten.KeyF8):
		// 删除后从头开始当前关卡，否则下次失去焦点会把棋盘重新存回去
		a.logError("delete save", a.session.DiscardSave())
		a.relayout()
		log.Printf("[App] Deleted game save data")
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		a.logError("reset progress", a.session.ResetProgress())
		a.relayout()
		log.Printf("[App] Deleted all save data and progress")
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		a.settings.SetSoundEnabled(!a.settings.GetSettings().SoundEnabled)
		a.logError("save settings", a.settings.Save())
		a.sounds.PlaySound(game.SoundClick)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		a.changeVolume(-volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		a.changeVolume(volumeStep)
	}
}

// changeVolume 调整音效音量并保存设置，播放提示音反馈新音量
func (a *App) changeVolume(delta float64) {
	a.sounds.SetSoundVolume(stepVolume(a.settings.GetSettings().SoundVolume, delta))
	a.logError("save settings", a.settings.Save())
	a.sounds.PlaySound(game.SoundClick)
	log.Printf("[App] Sound volume: %.1f", a.settings.GetSettings().SoundVolume)
}

// stepVolume 按步长调整音量，结果取到一位小数并限制在 0.0 ~ 1.0
func stepVolume(volume, delta float64) float64 {
	return max(0, min(1, math.Round((volume+delta)*10)/10))
}

// handleClick 处理点击：结束画面上点击进入下一关或重玩，否则翻牌
func (a *App) handleClick(x, y int) {
	switch a.hud.state {
	case overlayWon:
		a.sounds.PlaySound(game.SoundClick)
		a.logError("next level", a.session.NextLevel())
		a.relayout()
		return
	case overlayFailed:
		a.sounds.PlaySound(game.SoundClick)
		a.logError("restart", a.session.Restart())
		a.relayout()
		return
	}

	index, ok := a.layout.SlotAt(x, y)
	if !ok {
		return
	}
	result, err := a.board.Flip(index)
	if err != nil {
		return
	}
	a.sounds.PlaySound(game.SoundFlip)
	if !result.TurnComplete {
		return
	}

	outcome, err := a.session.PlayTurn(result.Matched)
	a.logError("play turn", err)
	if !outcome.Matched {
		a.hideTimer = mismatchHideFrames
	}
}

// relayout 关卡变化后重新计算棋盘布局
func (a *App) relayout() {
	a.layout = board.NewLayout(a.board.Rows(), a.board.Columns(), a.cfg.Width, a.cfg.Height)
	a.flips.reset(a.board.Slots())
	a.hideTimer = 0
}

// updateWindow F11 切换全屏
func (a *App) updateWindow() {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Width, a.cfg.Height)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 34, G: 85, B: 60, A: 255})
	a.drawBoard(screen)
	a.hud.draw(screen, a.cfg.Width, a.cfg.Height, a.paused, overlayAlpha(a.overlayT))
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Width, a.cfg.Height
}

// Shutdown 退出前自动存档并关闭存储，重复调用无效果
func (a *App) Shutdown() {
	if a.closed {
		return
	}
	a.closed = true
	a.logError("auto-save on quit", a.session.OnQuit())
	a.session.Close()
	closeBackend(a.backend)
}

// Session 返回当前会话
func (a *App) Session() *game.Session {
	return a.session
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.cfg.Verbose
}

func (a *App) logError(action string, err error) {
	if err == nil || errors.Is(err, game.ErrSessionBusy) {
		return
	}
	log.Printf("[App] Error: %s failed: %v", action, err)
}
