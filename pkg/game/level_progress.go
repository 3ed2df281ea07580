package game

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/decker502/cardmatch/pkg/config"
	"github.com/decker502/cardmatch/pkg/storage"
)

// 关卡进度存储键（两个独立的整数值）
const (
	LevelIndexKey    = "CurrentLevelIndex"
	RotatingIndexKey = "CurrentRotatingIndex"
)

// LevelPhase 关卡阶段
type LevelPhase int

const (
	// PhaseMain 主线阶段：按顺序游玩主线关卡
	PhaseMain LevelPhase = iota
	// PhaseRotating 轮换阶段：主线结束后无限循环轮换关卡
	PhaseRotating
)

func (p LevelPhase) String() string {
	switch p {
	case PhaseMain:
		return "main"
	case PhaseRotating:
		return "rotating"
	default:
		return fmt.Sprintf("LevelPhase(%d)", int(p))
	}
}

// LevelProgress 关卡进度状态机
//
// 状态：Main(index) 或 Rotating(index, rotatingCounter)。
// 不变量：phase == PhaseRotating 当且仅当 currentIndex >= TotalMain。
//
// 每次状态变化后立即写入存储；写入失败时回滚内存状态并返回错误，
// 保证“变化”与“保存”成对出现。
type LevelProgress struct {
	catalog *config.LevelCatalog
	backend storage.Backend

	currentIndex    int        // 绝对位置：先数主线关卡，再数轮换槽位
	rotatingCounter int        // 轮换计数，单调递增，只在 Reset/JumpToMain 时清零
	phase           LevelPhase // 当前阶段
}

// progressState 用于回滚的状态快照
type progressState struct {
	index   int
	counter int
	phase   LevelPhase
}

// NewLevelProgress 创建关卡进度，并从存储加载已保存的进度
//
// 参数：
//   - catalog: 关卡目录，不能为 nil，且必须包含主线关卡
//   - backend: 进度存储后端
//
// 返回：
//   - *LevelProgress: 进度状态机，没有存档时为 Main(0)
//   - error: ErrNoLevelCatalog / ErrNoMainLevels 等配置错误
func NewLevelProgress(catalog *config.LevelCatalog, backend storage.Backend) (*LevelProgress, error) {
	if catalog == nil {
		return nil, ErrNoLevelCatalog
	}
	if !catalog.HasMain() {
		return nil, ErrNoMainLevels
	}
	if backend == nil {
		return nil, fmt.Errorf("level progress requires a storage backend")
	}

	p := &LevelProgress{
		catalog: catalog,
		backend: backend,
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

// load 从存储读取两个整数值并推导阶段
func (p *LevelProgress) load() error {
	p.currentIndex = p.loadInt(LevelIndexKey)
	p.rotatingCounter = p.loadInt(RotatingIndexKey)
	p.phase = p.phaseFor(p.currentIndex)

	// 目录在两次会话之间发生变化：存档在轮换阶段，但已没有轮换关卡
	if p.phase == PhaseRotating && !p.catalog.HasRotating() {
		log.Printf("[LevelProgress] Warning: in rotating phase but no rotating levels available, resetting to last main level")
		if err := p.RecoverToLastMain(); err != nil {
			return err
		}
	}

	p.logCurrentProgress()
	return nil
}

// loadInt 读取一个非负整数，缺失或无法解析时返回 0
func (p *LevelProgress) loadInt(key string) int {
	data, err := p.backend.Load(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[LevelProgress] Warning: failed to load %s: %v (using 0)", key, err)
		}
		return 0
	}

	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || value < 0 {
		log.Printf("[LevelProgress] Warning: invalid %s value %q (using 0)", key, string(data))
		return 0
	}
	return value
}

// save 写入两个整数值
// 第二个键写入失败时，尽量把第一个键恢复为 prev 的值
func (p *LevelProgress) save(prev progressState) error {
	if err := p.backend.Save(LevelIndexKey, []byte(strconv.Itoa(p.currentIndex))); err != nil {
		return fmt.Errorf("failed to save level index: %w", err)
	}
	if err := p.backend.Save(RotatingIndexKey, []byte(strconv.Itoa(p.rotatingCounter))); err != nil {
		if rbErr := p.backend.Save(LevelIndexKey, []byte(strconv.Itoa(prev.index))); rbErr != nil {
			log.Printf("[LevelProgress] Warning: failed to roll back level index: %v", rbErr)
		}
		return fmt.Errorf("failed to save rotating index: %w", err)
	}

	log.Printf("[LevelProgress] Progress saved: Level %d, Rotating Index %d", p.currentIndex, p.rotatingCounter)
	return nil
}

func (p *LevelProgress) snapshot() progressState {
	return progressState{index: p.currentIndex, counter: p.rotatingCounter, phase: p.phase}
}

func (p *LevelProgress) rollback(s progressState) {
	p.currentIndex = s.index
	p.rotatingCounter = s.counter
	p.phase = s.phase
}

// transition 执行一次状态变化并立即保存，保存失败时回滚
func (p *LevelProgress) transition(mutate func()) error {
	prev := p.snapshot()
	mutate()
	if err := p.save(prev); err != nil {
		p.rollback(prev)
		return err
	}
	return nil
}

func (p *LevelProgress) phaseFor(index int) LevelPhase {
	if index >= p.catalog.TotalMain() {
		return PhaseRotating
	}
	return PhaseMain
}

// Advance 前进到下一关
//
// 规则：
//   - Main(i), i < 最后一关 -> Main(i+1)
//   - 最后一个主线关卡且有轮换关卡 -> Rotating(TotalMain, 0)
//   - 最后一个主线关卡且没有轮换关卡 -> 原地不动（终点）
//   - Rotating(i, c) -> Rotating(i+1, c+1)
//
// 返回：
//   - bool: 位置是否发生变化
//   - error: 保存失败时返回错误（状态已回滚）
func (p *LevelProgress) Advance() (bool, error) {
	totalMain := p.catalog.TotalMain()
	moved := true

	err := p.transition(func() {
		switch {
		case p.phase == PhaseRotating:
			p.currentIndex++
			p.rotatingCounter++
		case p.currentIndex < totalMain-1:
			p.currentIndex++
		case p.catalog.HasRotating():
			p.phase = PhaseRotating
			p.currentIndex = totalMain
			p.rotatingCounter = 0
		default:
			moved = false
		}
	})
	if err != nil {
		return false, err
	}

	switch {
	case !moved:
		log.Printf("[LevelProgress] All levels complete! No rotating levels available.")
	case p.phase == PhaseRotating:
		log.Printf("[LevelProgress] Advanced in rotating levels: Cycle %d, Position %d/%d",
			p.RotatingCycle()+1, p.PositionInCycle()+1, p.catalog.TotalRotating())
	default:
		log.Printf("[LevelProgress] Advanced to Main Level %d/%d", p.currentIndex+1, totalMain)
	}
	return moved, nil
}

// RestartCurrent 重玩当前关卡：状态不变，只重新保存一次
func (p *LevelProgress) RestartCurrent() error {
	if err := p.transition(func() {}); err != nil {
		return err
	}
	p.logCurrentProgress()
	return nil
}

// Reset 重置进度到 Main(0)
func (p *LevelProgress) Reset() error {
	err := p.transition(func() {
		p.currentIndex = 0
		p.rotatingCounter = 0
		p.phase = PhaseMain
	})
	if err != nil {
		return err
	}
	log.Printf("[LevelProgress] Progress reset to Level 1.")
	return nil
}

// JumpToMain 跳转到指定主线关卡
// 索引越界时返回 ErrOutOfRange，状态保持不变
func (p *LevelProgress) JumpToMain(i int) error {
	if _, err := p.catalog.MainLevel(i); err != nil {
		return err
	}

	err := p.transition(func() {
		p.currentIndex = i
		p.rotatingCounter = 0
		p.phase = PhaseMain
	})
	if err != nil {
		return err
	}
	log.Printf("[LevelProgress] Jumped to Main Level %d", i+1)
	return nil
}

// JumpToRotating 跳转到轮换阶段的第 i 个槽位：Rotating(TotalMain+i, i)
// i 可以超过轮换关卡数量（表示后续循环），但不能为负
func (p *LevelProgress) JumpToRotating(i int) error {
	if !p.catalog.HasRotating() {
		return ErrNoRotatingLevels
	}
	if i < 0 {
		return fmt.Errorf("%w: rotating slot %d", ErrOutOfRange, i)
	}

	err := p.transition(func() {
		p.phase = PhaseRotating
		p.rotatingCounter = i
		p.currentIndex = p.catalog.TotalMain() + i
	})
	if err != nil {
		return err
	}
	log.Printf("[LevelProgress] Jumped to Rotating Level: Cycle %d, Position %d", p.RotatingCycle()+1, p.PositionInCycle()+1)
	return nil
}

// Restore 把进度同步到存档文档记录的绝对关卡索引
//
// 轮换阶段的计数按 index-TotalMain 推导，与 Advance/JumpToRotating 保持一致。
func (p *LevelProgress) Restore(index int) error {
	totalMain := p.catalog.TotalMain()
	if index < 0 {
		return fmt.Errorf("%w: level index %d", ErrOutOfRange, index)
	}
	if index >= totalMain && !p.catalog.HasRotating() {
		return ErrNoRotatingLevels
	}

	return p.transition(func() {
		p.currentIndex = index
		p.phase = p.phaseFor(index)
		if p.phase == PhaseRotating {
			p.rotatingCounter = index - totalMain
		} else {
			p.rotatingCounter = 0
		}
	})
}

// RecoverToLastMain 退回最后一个主线关卡并清除轮换阶段
// 用于目录中已没有轮换关卡时的恢复
func (p *LevelProgress) RecoverToLastMain() error {
	return p.transition(func() {
		p.currentIndex = max(0, p.catalog.TotalMain()-1)
		p.phase = PhaseMain
	})
}

// CurrentLevel 解析当前关卡定义
//
// 返回：
//   - config.LevelDefinition: 当前关卡
//   - error: 主线索引越界返回 ErrOutOfRange；轮换阶段但没有轮换关卡返回 ErrNoRotatingLevels
func (p *LevelProgress) CurrentLevel() (config.LevelDefinition, error) {
	if p.phase == PhaseRotating {
		if !p.catalog.HasRotating() {
			return config.LevelDefinition{}, ErrNoRotatingLevels
		}
		return p.catalog.RotatingLevel(p.PositionInCycle())
	}
	return p.catalog.MainLevel(p.currentIndex)
}

// CurrentIndex 返回绝对关卡索引
func (p *LevelProgress) CurrentIndex() int {
	return p.currentIndex
}

// Phase 返回当前阶段
func (p *LevelProgress) Phase() LevelPhase {
	return p.phase
}

// IsInRotatingPhase 是否处于轮换阶段
func (p *LevelProgress) IsInRotatingPhase() bool {
	return p.phase == PhaseRotating
}

// RotatingCounter 返回轮换计数（未取模）
func (p *LevelProgress) RotatingCounter() int {
	return p.rotatingCounter
}

// RotatingCycle 返回当前轮换循环序号（从 0 开始），没有轮换关卡时为 0
func (p *LevelProgress) RotatingCycle() int {
	total := p.catalog.TotalRotating()
	if total == 0 {
		return 0
	}
	return p.rotatingCounter / total
}

// PositionInCycle 返回当前在轮换循环中的位置（从 0 开始），没有轮换关卡时为 0
func (p *LevelProgress) PositionInCycle() int {
	total := p.catalog.TotalRotating()
	if total == 0 {
		return 0
	}
	return p.rotatingCounter % total
}

// Catalog 返回关卡目录
func (p *LevelProgress) Catalog() *config.LevelCatalog {
	return p.catalog
}

// DisplayName 返回当前关卡的显示名称
// 如 "Level 3" 或 "Rotating Level 2 (Cycle 3)"
func (p *LevelProgress) DisplayName() string {
	if p.phase == PhaseRotating {
		return fmt.Sprintf("Rotating Level %d (Cycle %d)", p.PositionInCycle()+1, p.RotatingCycle()+1)
	}
	return fmt.Sprintf("Level %d", p.currentIndex+1)
}

// Summary 返回进度摘要
// 如 "Main: 3/10" 或 "Rotating: Cycle 3, 2/4"
func (p *LevelProgress) Summary() string {
	if p.phase == PhaseRotating {
		return fmt.Sprintf("Rotating: Cycle %d, %d/%d", p.RotatingCycle()+1, p.PositionInCycle()+1, p.catalog.TotalRotating())
	}
	return fmt.Sprintf("Main: %d/%d", p.currentIndex+1, p.catalog.TotalMain())
}

func (p *LevelProgress) logCurrentProgress() {
	log.Printf("[LevelProgress] Current Progress: %s | %s", p.DisplayName(), p.Summary())
}
