// Package board 实现卡牌翻牌棋盘：发牌、翻牌判定以及从存档恢复格子状态。
package board

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/decker502/cardmatch/pkg/config"
	"github.com/decker502/cardmatch/pkg/game"
)

var (
	// ErrInvalidSlot 格子索引越界
	ErrInvalidSlot = errors.New("slot index out of range")
	// ErrSlotUnavailable 格子为空、已配对或已翻开
	ErrSlotUnavailable = errors.New("slot cannot be flipped")
	// ErrBoardBusy 上一回合的两张牌还没有盖回去
	ErrBoardBusy = errors.New("previous turn is not resolved yet")
)

// FlipResult 翻开一张牌的结果
type FlipResult struct {
	Index int
	// TurnComplete 是否翻开了本回合的第二张牌
	TurnComplete bool
	// Matched 仅在 TurnComplete 时有效：两张牌是否配对
	Matched bool
	// Pair 本回合翻开的两个格子索引，仅在 TurnComplete 时有效
	Pair [2]int
}

// Board 卡牌棋盘
//
// 格子按行优先排列，索引 = row*columns + col。
// 奇数个格子时中间的格子为空（nil）。
type Board struct {
	rows    int
	columns int
	slots   []*game.BoardSlot
	rng     *rand.Rand

	selected []int // 本回合已翻开但未结算的格子
}

// New 创建棋盘
//
// 参数：
//   - seed: 洗牌随机种子，0 表示随机
func New(seed uint64) *Board {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Board{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Setup 按关卡定义重新发牌
//
// 卡牌类型按顺序轮流分配给每一对，然后整体洗牌。
//
// 返回：
//   - int: 本关配对总数
func (b *Board) Setup(level config.LevelDefinition) int {
	b.rows = level.Rows
	b.columns = level.Columns
	b.selected = b.selected[:0]

	n := level.SlotCount()
	pairs := level.PairCount()
	if len(level.CardTypes) == 0 {
		pairs = 0
	}

	cards := make([]*game.BoardSlot, 0, pairs*2)
	for p := 0; p < pairs; p++ {
		cardType := level.CardTypes[p%len(level.CardTypes)]
		cards = append(cards,
			&game.BoardSlot{CardType: cardType},
			&game.BoardSlot{CardType: cardType},
		)
	}
	b.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	b.slots = make([]*game.BoardSlot, n)
	empty := -1
	if n%2 == 1 {
		empty = n / 2
	}
	next := 0
	for i := range b.slots {
		if i == empty || next >= len(cards) {
			continue
		}
		b.slots[i] = cards[next]
		next++
	}

	log.Printf("[Board] Dealt %dx%d board: %d pairs, %d card types", b.rows, b.columns, pairs, len(level.CardTypes))
	return pairs
}

// Restore 先按关卡定义发牌，再用存档条目覆盖对应格子
//
// 越界的条目会被忽略；存档没有覆盖到的格子保持背面朝上、未配对。
// 如果存档中有两张翻开但未配对的牌（上一回合已结算），把它们盖回去。
//
// 返回：
//   - int: 本关配对总数（由关卡布局决定）
func (b *Board) Restore(level config.LevelDefinition, cards []game.CardSaveData) int {
	pairs := b.Setup(level)

	applied := 0
	for _, card := range cards {
		if card.CardIndex < 0 || card.CardIndex >= len(b.slots) {
			log.Printf("[Board] Warning: saved card index %d out of range (slots: %d), ignored", card.CardIndex, len(b.slots))
			continue
		}
		b.slots[card.CardIndex] = &game.BoardSlot{
			CardType:   card.CardType,
			IsMatched:  card.IsMatched,
			IsRevealed: card.IsRevealed || card.IsMatched,
		}
		applied++
	}
	if applied != len(cards) || applied != b.occupied() {
		log.Printf("[Board] Warning: save has %d cards, board has %d occupied slots", len(cards), b.occupied())
	}

	for i, slot := range b.slots {
		if slot != nil && slot.IsRevealed && !slot.IsMatched {
			b.selected = append(b.selected, i)
		}
	}
	if len(b.selected) > 1 {
		b.HideUnmatched()
	}
	return pairs
}

// Flip 翻开一张牌
//
// 返回：
//   - FlipResult: 翻开第二张牌时包含配对结果
//   - error: ErrInvalidSlot / ErrSlotUnavailable / ErrBoardBusy
func (b *Board) Flip(index int) (FlipResult, error) {
	if index < 0 || index >= len(b.slots) {
		return FlipResult{}, fmt.Errorf("%w: %d", ErrInvalidSlot, index)
	}
	if len(b.selected) >= 2 {
		return FlipResult{}, ErrBoardBusy
	}
	slot := b.slots[index]
	if slot == nil || slot.IsMatched || slot.IsRevealed {
		return FlipResult{}, fmt.Errorf("%w: %d", ErrSlotUnavailable, index)
	}

	slot.IsRevealed = true
	b.selected = append(b.selected, index)
	result := FlipResult{Index: index}
	if len(b.selected) < 2 {
		return result, nil
	}

	first, second := b.slots[b.selected[0]], b.slots[b.selected[1]]
	result.TurnComplete = true
	result.Pair = [2]int{b.selected[0], b.selected[1]}
	if first.CardType == second.CardType {
		first.IsMatched = true
		second.IsMatched = true
		result.Matched = true
		b.selected = b.selected[:0]
	}
	return result, nil
}

// HideUnmatched 把本回合翻开但未配对的牌盖回去
func (b *Board) HideUnmatched() {
	for _, i := range b.selected {
		if slot := b.slots[i]; slot != nil && !slot.IsMatched {
			slot.IsRevealed = false
		}
	}
	b.selected = b.selected[:0]
}

// AwaitingHide 是否有一对未配对的牌等待盖回
func (b *Board) AwaitingHide() bool {
	return len(b.selected) >= 2
}

// Slots 当前格子，nil 表示空格子
func (b *Board) Slots() []*game.BoardSlot {
	return b.slots
}

func (b *Board) Rows() int    { return b.rows }
func (b *Board) Columns() int { return b.columns }

func (b *Board) occupied() int {
	n := 0
	for _, slot := range b.slots {
		if slot != nil {
			n++
		}
	}
	return n
}
