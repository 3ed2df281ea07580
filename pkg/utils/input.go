// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState 存储当前帧的指针状态
// 用于统一处理鼠标和触摸输入
type PointerState struct {
	// 是否有点击/触摸事件刚刚发生
	JustPressed bool
	// 点击/触摸位置（没有触摸时为鼠标位置，用于悬停高亮）
	X, Y int
	// 是否有活动的触摸
	IsTouching bool
}

// GetPointerState 获取当前帧的指针状态
// 同时支持鼠标点击和触摸输入，优先检测触摸
func GetPointerState() PointerState {
	state := PointerState{}

	// 首先检查触摸输入（移动设备）
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		state.JustPressed = true
		state.X, state.Y = ebiten.TouchPosition(touchIDs[0])
		state.IsTouching = true
		return state
	}

	allTouchIDs := ebiten.AppendTouchIDs(nil)
	if len(allTouchIDs) > 0 {
		state.X, state.Y = ebiten.TouchPosition(allTouchIDs[0])
		state.IsTouching = true
		return state
	}

	// 其次检查鼠标输入（桌面设备）
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		state.JustPressed = true
	}
	state.X, state.Y = ebiten.CursorPosition()
	return state
}

// HoverEnabled 触摸设备没有悬停，只有鼠标指针需要高亮
func (s PointerState) HoverEnabled() bool {
	return !s.IsTouching && !IsMobile()
}
