package board

// 棋盘布局参数
const (
	HUDHeight   = 64.0 // 顶部状态栏高度，棋盘画在它下方
	BoardMargin = 16.0 // 棋盘与窗口边缘的间距
	SlotGap     = 8.0  // 格子之间的间距
)

// Layout 棋盘在屏幕上的位置和格子尺寸
type Layout struct {
	StartX     float64
	StartY     float64
	CellWidth  float64
	CellHeight float64
	Rows       int
	Columns    int
}

// NewLayout 把 rows×columns 的棋盘放进窗口中 HUD 以下的区域，并水平居中
func NewLayout(rows, columns, screenWidth, screenHeight int) Layout {
	l := Layout{Rows: max(1, rows), Columns: max(1, columns)}

	areaW := float64(screenWidth) - 2*BoardMargin
	areaH := float64(screenHeight) - HUDHeight - 2*BoardMargin

	l.CellWidth = max(1, (areaW-SlotGap*float64(l.Columns-1))/float64(l.Columns))
	l.CellHeight = max(1, (areaH-SlotGap*float64(l.Rows-1))/float64(l.Rows))

	gridW := l.CellWidth*float64(l.Columns) + SlotGap*float64(l.Columns-1)
	l.StartX = (float64(screenWidth) - gridW) / 2
	l.StartY = HUDHeight + BoardMargin
	return l
}

// SlotAt 将鼠标屏幕坐标转换为格子索引
//
// 返回：
//   - index: 格子索引 row*Columns + col
//   - isValid: 是否点中了格子（落在间距里不算）
func (l Layout) SlotAt(mouseX, mouseY int) (index int, isValid bool) {
	x := float64(mouseX) - l.StartX
	y := float64(mouseY) - l.StartY
	if x < 0 || y < 0 {
		return 0, false
	}

	strideX := l.CellWidth + SlotGap
	strideY := l.CellHeight + SlotGap
	col := int(x / strideX)
	row := int(y / strideY)
	if col >= l.Columns || row >= l.Rows {
		return 0, false
	}

	// 落在格子之间的间距里
	if x-float64(col)*strideX >= l.CellWidth || y-float64(row)*strideY >= l.CellHeight {
		return 0, false
	}
	return row*l.Columns + col, true
}

// SlotRect 返回格子左上角坐标和尺寸
func (l Layout) SlotRect(index int) (x, y, w, h float64) {
	col := index % l.Columns
	row := index / l.Columns
	x = l.StartX + float64(col)*(l.CellWidth+SlotGap)
	y = l.StartY + float64(row)*(l.CellHeight+SlotGap)
	return x, y, l.CellWidth, l.CellHeight
}
