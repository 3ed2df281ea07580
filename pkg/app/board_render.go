package app

import (
	"hash/fnv"
	"image/color"

	"github.com/decker502/cardmatch/pkg/game"
	"github.com/decker502/cardmatch/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 动画帧数（60 TPS）
const (
	flipFrames    = 12 // 翻牌动画
	overlayFrames = 20 // 结束画面淡入
)

var (
	cardBackColor   = color.RGBA{R: 52, G: 73, B: 140, A: 255}
	cardBorderColor = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	hoverColor      = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	matchedTint     = color.RGBA{R: 0, G: 0, B: 0, A: 110}
)

// flipTracker 记录每个格子上一帧的朝向，朝向变化时播放翻牌动画
type flipTracker struct {
	faceUp []bool
	timers []int
}

// reset 换关或重新发牌后直接采用当前朝向，不播放动画
func (f *flipTracker) reset(slots []*game.BoardSlot) {
	f.faceUp = make([]bool, len(slots))
	f.timers = make([]int, len(slots))
	for i, slot := range slots {
		f.faceUp[i] = isFaceUp(slot)
	}
}

// update 每个 tick 调用一次
func (f *flipTracker) update(slots []*game.BoardSlot) {
	if len(slots) != len(f.faceUp) {
		f.reset(slots)
		return
	}
	for i, slot := range slots {
		if f.timers[i] > 0 {
			f.timers[i]--
		}
		if up := isFaceUp(slot); up != f.faceUp[i] {
			f.faceUp[i] = up
			f.timers[i] = flipFrames
		}
	}
}

// progress 返回格子 i 的翻牌进度 [0, 1]，1 表示没有动画
func (f *flipTracker) progress(i int) float64 {
	if i < 0 || i >= len(f.timers) {
		return 1
	}
	return 1 - float64(f.timers[i])/flipFrames
}

// flipScale 翻牌时卡牌的水平缩放
//
// 前半段从旧的一面收窄到 0，后半段展开新的一面。
//
// 返回：
//   - scale: 水平缩放 [0, 1]
//   - showNew: 是否已经显示新的一面
func flipScale(t float64) (scale float64, showNew bool) {
	e := utils.EaseInOutCubic(t)
	if e < 0.5 {
		return utils.Lerp(1, 0, e*2), false
	}
	return utils.Lerp(0, 1, e*2-1), true
}

// overlayAlpha 结束画面遮罩的不透明度
func overlayAlpha(frames int) float64 {
	return utils.EaseOutCubic(float64(frames) / overlayFrames)
}

func isFaceUp(slot *game.BoardSlot) bool {
	return slot != nil && (slot.IsRevealed || slot.IsMatched)
}

// drawBoard 绘制所有格子：背面为统一颜色，正面按卡牌类型着色并标注类型
func (a *App) drawBoard(screen *ebiten.Image) {
	hovered := -1
	if a.pointer.HoverEnabled() && !a.paused && a.hud.state == overlayNone {
		if i, ok := a.layout.SlotAt(a.pointer.X, a.pointer.Y); ok {
			hovered = i
		}
	}

	for i, slot := range a.board.Slots() {
		if slot == nil {
			continue
		}
		x, y, w, h := a.layout.SlotRect(i)

		faceUp := isFaceUp(slot)
		scale, showNew := flipScale(a.flips.progress(i))
		if !showNew {
			faceUp = !faceUp
		}
		// 以格子中心为轴收窄
		cw := w * scale
		cx := x + (w-cw)/2

		fill := cardBackColor
		if faceUp {
			fill = cardFaceColor(slot.CardType)
		}
		border := cardBorderColor
		if i == hovered && !faceUp {
			border = hoverColor
		}
		vector.DrawFilledRect(screen, float32(cx), float32(y), float32(cw), float32(h), fill, false)
		vector.StrokeRect(screen, float32(cx), float32(y), float32(cw), float32(h), 2, border, false)

		if faceUp && scale > 0.9 {
			ebitenutil.DebugPrintAt(screen, slot.CardType, int(x)+6, int(y+h/2)-8)
		}
		if slot.IsMatched && showNew {
			vector.DrawFilledRect(screen, float32(cx), float32(y), float32(cw), float32(h), matchedTint, false)
		}
	}
}

// cardFaceColor 由卡牌类型得到稳定的正面颜色
func cardFaceColor(cardType string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(cardType))
	v := h.Sum32()
	return color.RGBA{
		R: 96 + uint8(v&0x7f),
		G: 96 + uint8((v>>8)&0x7f),
		B: 96 + uint8((v>>16)&0x7f),
		A: 255,
	}
}
