package app

import (
	"image/color"
	"strings"

	"github.com/decker502/cardmatch/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// overlayState 结束画面状态
type overlayState int

const (
	overlayNone overlayState = iota
	overlayWon
	overlayFailed
)

// hud 状态栏和结束画面
// 同时实现 game.Presenter 和 game.ScoreListener，由会话推送数据
type hud struct {
	printer *message.Printer
	action  string // "Click" 或 "Tap"

	levelName string
	summary   string
	score     int
	turns     int
	maxTurns  int
	combo     int
	matches   int
	total     int

	state   overlayState
	message string
}

// newHUD 创建状态栏
//
// 参数：
//   - mobile: 移动端提示使用 "Tap"，且不提示键盘快捷键
func newHUD(mobile bool) *hud {
	h := &hud{
		printer:  message.NewPrinter(language.English),
		action:   "Click",
		maxTurns: game.NoTurnLimit,
	}
	if mobile {
		h.action = "Tap"
	}
	return h
}

// LevelStarted 新关开始或从存档恢复
func (h *hud) LevelStarted(info game.LevelInfo) {
	h.levelName = info.DisplayName
	if info.Level.Name != "" && info.Level.Name != info.DisplayName {
		h.levelName = info.DisplayName + " - " + info.Level.Name
	}
	h.summary = info.Summary
	h.score = info.Score
	h.turns = info.TurnCount
	h.maxTurns = info.MaxTurns
	h.matches = info.MatchesFound
	h.total = info.TotalMatches
	h.state = overlayNone
	h.message = ""
	if info.Resumed {
		h.message = "Game resumed"
	}
}

// LevelWon 过关
func (h *hud) LevelWon(score, turns int) {
	h.state = overlayWon
	h.message = h.printer.Sprintf("Level Complete!\nScore: %d\nTurns: %d\n\n%s for next level", score, turns, h.prompt("N"))
}

// LevelFailed 关卡失败
func (h *hud) LevelFailed(msg string, score int) {
	h.state = overlayFailed
	h.message = h.printer.Sprintf("%s\nScore: %d\n\n%s to retry", msg, score, h.prompt("R"))
}

// prompt 结束画面的操作提示
func (h *hud) prompt(key string) string {
	if h.action == "Tap" {
		return h.action
	}
	return h.action + " or press " + key
}

func (h *hud) ScoreChanged(score int)         { h.score = score }
func (h *hud) TurnCountChanged(turnCount int) { h.turns = turnCount }
func (h *hud) ComboChanged(combo int)         { h.combo = combo }
func (h *hud) TurnLimitReached(turns, _ int)  { h.turns = turns }

func (h *hud) MatchesChanged(found, total int) {
	h.matches = found
	h.total = total
}

// lines 状态栏文本
func (h *hud) lines() []string {
	turns := h.printer.Sprintf("Turns: %d", h.turns)
	if h.maxTurns > 0 {
		turns = h.printer.Sprintf("Turns: %d/%d", h.turns, h.maxTurns)
	}
	stats := h.printer.Sprintf("Score: %d   %s   Matches: %d/%d", h.score, turns, h.matches, h.total)
	if h.combo > 1 {
		stats += h.printer.Sprintf("   Combo x%d", h.combo)
	}
	return []string{h.levelName + "   (" + h.summary + ")", stats}
}

// draw 绘制状态栏；暂停或关卡结束时绘制遮罩，alpha 为遮罩淡入进度
func (h *hud) draw(screen *ebiten.Image, width, height int, paused bool, alpha float64) {
	for i, line := range h.lines() {
		ebitenutil.DebugPrintAt(screen, line, 12, 10+i*18)
	}

	msg := h.message
	switch {
	case paused:
		msg = "Paused\n\nPress Esc to continue"
		alpha = 1
	case h.state == overlayNone:
		// 恢复提示画在状态栏里，不遮挡棋盘
		if msg != "" {
			ebitenutil.DebugPrintAt(screen, msg, width-120, 10)
		}
		return
	}

	vector.DrawFilledRect(screen, 0, 0, float32(width), float32(height), color.RGBA{0, 0, 0, uint8(160 * alpha)}, false)
	if alpha < 0.5 {
		return
	}
	lines := strings.Split(msg, "\n")
	y := height/2 - len(lines)*8
	for i, line := range lines {
		x := width/2 - len(line)*3
		ebitenutil.DebugPrintAt(screen, line, x, y+i*16)
	}
}
