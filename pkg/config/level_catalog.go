package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMainLevels 关卡目录中没有任何主线关卡（致命配置错误）
	ErrNoMainLevels = errors.New("level catalog has no main levels")
	// ErrLevelOutOfRange 关卡索引越界
	ErrLevelOutOfRange = errors.New("level index out of range")
)

// LevelCatalog 关卡目录
//
// 包含有序的主线关卡列表和独立的轮换关卡列表。
// 会话期间不可变，仅提供查询。
type LevelCatalog struct {
	main     []LevelDefinition
	rotating []LevelDefinition
}

// NewLevelCatalog 创建关卡目录
//
// 主线关卡不能为空（否则返回 ErrNoMainLevels），轮换关卡可以为空。
// 传入的切片会被复制，调用方后续修改不影响目录。
func NewLevelCatalog(main, rotating []LevelDefinition) (*LevelCatalog, error) {
	if len(main) == 0 {
		return nil, ErrNoMainLevels
	}

	c := &LevelCatalog{
		main:     make([]LevelDefinition, len(main)),
		rotating: make([]LevelDefinition, len(rotating)),
	}
	copy(c.main, main)
	copy(c.rotating, rotating)
	for i := range c.main {
		c.main[i].CardTypes = append([]string(nil), c.main[i].CardTypes...)
	}
	for i := range c.rotating {
		c.rotating[i].CardTypes = append([]string(nil), c.rotating[i].CardTypes...)
	}
	return c, nil
}

// TotalMain 返回主线关卡数量
func (c *LevelCatalog) TotalMain() int {
	return len(c.main)
}

// TotalRotating 返回轮换关卡数量
func (c *LevelCatalog) TotalRotating() int {
	return len(c.rotating)
}

// HasMain 是否存在主线关卡
func (c *LevelCatalog) HasMain() bool {
	return len(c.main) > 0
}

// HasRotating 是否存在轮换关卡
func (c *LevelCatalog) HasRotating() bool {
	return len(c.rotating) > 0
}

// MainLevel 返回第 i 个主线关卡
//
// 返回：
//   - LevelDefinition: 关卡定义副本
//   - error: i 越界时返回包装了 ErrLevelOutOfRange 的错误
func (c *LevelCatalog) MainLevel(i int) (LevelDefinition, error) {
	if i < 0 || i >= len(c.main) {
		return LevelDefinition{}, fmt.Errorf("%w: main level %d (valid range 0-%d)", ErrLevelOutOfRange, i, len(c.main)-1)
	}
	return c.main[i], nil
}

// RotatingLevel 返回第 i 个轮换关卡
func (c *LevelCatalog) RotatingLevel(i int) (LevelDefinition, error) {
	if i < 0 || i >= len(c.rotating) {
		return LevelDefinition{}, fmt.Errorf("%w: rotating level %d (total %d)", ErrLevelOutOfRange, i, len(c.rotating))
	}
	return c.rotating[i], nil
}
