package game

import "log"

// 计分规则
const (
	BaseMatchScore = 100 // 每次配对的基础分
	ComboBonus     = 50  // 连击中每多一次配对的额外分
)

// NoTurnLimit 表示不限制回合数
const NoTurnLimit = -1

// ScoreListener 计分变化的观察者
// 通知只用于展示，计分器内部状态不依赖它们
type ScoreListener interface {
	ScoreChanged(score int)
	TurnCountChanged(turnCount int)
	MatchesChanged(found, total int)
	ComboChanged(combo int)
	TurnLimitReached(turnCount, maxTurns int)
}

// TurnResult RecordTurn 的结果
type TurnResult struct {
	TurnCount int
	Failed    bool // 本回合触发了关卡失败（每关只会为 true 一次）
}

// MatchResult RecordMatch 的结果
type MatchResult struct {
	Delta        int // 本次配对得分
	Score        int // 当前总分
	Combo        int // 当前连击数
	MatchesFound int
	TotalMatches int
	Complete     bool // 已找到全部配对
}

// ScoreTracker 单关的计分器
//
// 记录回合数、分数、连击和配对进度，并在限制回合的关卡中检测失败。
// 每开始一关（新关、重玩、下一关）都会创建新的计分器。
type ScoreTracker struct {
	score               int
	turnCount           int
	consecutiveMatches  int
	matchesFound        int
	totalMatchesInLevel int
	isRestrained        bool
	maxTurnCount        int
	failed              bool // 本关是否已经报告过失败

	listeners []listenerEntry
	nextID    int
}

type listenerEntry struct {
	id int
	l  ScoreListener
}

// NewScoreTracker 创建计分器（默认不限回合）
func NewScoreTracker() *ScoreTracker {
	return &ScoreTracker{
		maxTurnCount: NoTurnLimit,
	}
}

// Configure 设置本关的过关参数
// 在创建后、记录任何回合之前调用一次
//
// 参数：
//   - totalMatches: 本关需要找到的配对数（由棋盘布局决定）
//   - restrained: 是否限制回合数
//   - maxTurns: 最大回合数，仅在 restrained 时有效
func (t *ScoreTracker) Configure(totalMatches int, restrained bool, maxTurns int) {
	t.totalMatchesInLevel = max(0, totalMatches)
	t.isRestrained = restrained
	if restrained {
		t.maxTurnCount = maxTurns
	} else {
		t.maxTurnCount = NoTurnLimit
	}
	t.notifyMatches()
}

// Subscribe 注册观察者
//
// 返回：
//   - func(): 取消订阅函数，重复调用是安全的
func (t *ScoreTracker) Subscribe(l ScoreListener) func() {
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, listenerEntry{id: id, l: l})
	return func() {
		for i, e := range t.listeners {
			if e.id == id {
				t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// RecordTurn 记录一个回合
//
// 限制回合的关卡中，回合数达到上限且配对未完成时报告失败。
// 失败只报告一次；之后继续调用仍会累加回合数，但不会再次报告。
func (t *ScoreTracker) RecordTurn() TurnResult {
	t.turnCount++
	for _, e := range t.listeners {
		e.l.TurnCountChanged(t.turnCount)
	}

	result := TurnResult{TurnCount: t.turnCount}
	if !t.failed && t.isRestrained && t.maxTurnCount > 0 &&
		t.turnCount >= t.maxTurnCount && t.matchesFound < t.totalMatchesInLevel {
		t.failed = true
		result.Failed = true
		log.Printf("[ScoreTracker] Level Failed! Exceeded max turns: %d/%d", t.turnCount, t.maxTurnCount)
		for _, e := range t.listeners {
			e.l.TurnLimitReached(t.turnCount, t.maxTurnCount)
		}
	}
	return result
}

// RecordMatch 记录一次配对
// 得分 = 100 + 50 × (连击数 - 1)
func (t *ScoreTracker) RecordMatch() MatchResult {
	t.consecutiveMatches++
	if t.matchesFound < t.totalMatchesInLevel {
		t.matchesFound++
	} else {
		log.Printf("[ScoreTracker] Warning: match reported after all %d matches were found", t.totalMatchesInLevel)
	}

	delta := BaseMatchScore
	if t.consecutiveMatches > 1 {
		delta += ComboBonus * (t.consecutiveMatches - 1)
	}
	t.score += delta

	for _, e := range t.listeners {
		e.l.ScoreChanged(t.score)
		e.l.ComboChanged(t.consecutiveMatches)
	}
	t.notifyMatches()

	log.Printf("[ScoreTracker] Match! Score: +%d (Combo x%d). Total: %d", delta, t.consecutiveMatches, t.score)

	return MatchResult{
		Delta:        delta,
		Score:        t.score,
		Combo:        t.consecutiveMatches,
		MatchesFound: t.matchesFound,
		TotalMatches: t.totalMatchesInLevel,
		Complete:     t.IsComplete(),
	}
}

// RecordMismatch 记录一次配对失败，连击清零
func (t *ScoreTracker) RecordMismatch() {
	t.consecutiveMatches = 0
	for _, e := range t.listeners {
		e.l.ComboChanged(0)
	}
}

// Reset 清零分数、回合、连击和配对数
// 不改变 Configure 设置的过关参数
func (t *ScoreTracker) Reset() {
	t.score = 0
	t.turnCount = 0
	t.consecutiveMatches = 0
	t.matchesFound = 0
	t.failed = false
	t.notifyAll()
}

// LoadFrom 从存档恢复计数
// 过关参数（配对总数、回合上限）来自当前关卡定义，不从存档恢复
func (t *ScoreTracker) LoadFrom(record *SaveRecord) {
	t.score = record.Score
	t.turnCount = record.TurnCount
	t.matchesFound = min(record.MatchesFound, t.totalMatchesInLevel)
	t.consecutiveMatches = record.ConsecutiveMatches
	if t.matchesFound != record.MatchesFound {
		log.Printf("[ScoreTracker] Warning: saved matches %d exceed level total %d, clamped",
			record.MatchesFound, t.totalMatchesInLevel)
	}
	t.notifyAll()
}

// Snapshot 生成存档记录
//
// 参数：
//   - levelIndex: 当前绝对关卡索引
//   - slots: 棋盘格子，nil 表示空格子（不写入存档）
func (t *ScoreTracker) Snapshot(levelIndex int, slots []*BoardSlot) *SaveRecord {
	record := &SaveRecord{
		Version:            SaveVersion,
		CurrentLevelIndex:  levelIndex,
		Score:              t.score,
		TurnCount:          t.turnCount,
		MatchesFound:       t.matchesFound,
		ConsecutiveMatches: t.consecutiveMatches,
		Cards:              []CardSaveData{},
	}

	for i, slot := range slots {
		if slot == nil {
			continue
		}
		record.Cards = append(record.Cards, CardSaveData{
			CardIndex:  i,
			CardType:   slot.CardType,
			IsMatched:  slot.IsMatched,
			IsRevealed: slot.IsRevealed,
		})
	}
	return record
}

// IsComplete 是否已找到全部配对
func (t *ScoreTracker) IsComplete() bool {
	return t.totalMatchesInLevel > 0 && t.matchesFound >= t.totalMatchesInLevel
}

// HasFailed 本关是否已失败
func (t *ScoreTracker) HasFailed() bool {
	return t.failed
}

func (t *ScoreTracker) Score() int               { return t.score }
func (t *ScoreTracker) TurnCount() int           { return t.turnCount }
func (t *ScoreTracker) ConsecutiveMatches() int  { return t.consecutiveMatches }
func (t *ScoreTracker) MatchesFound() int        { return t.matchesFound }
func (t *ScoreTracker) TotalMatchesInLevel() int { return t.totalMatchesInLevel }
func (t *ScoreTracker) IsRestrained() bool       { return t.isRestrained }
func (t *ScoreTracker) MaxTurnCount() int        { return t.maxTurnCount }

func (t *ScoreTracker) notifyMatches() {
	for _, e := range t.listeners {
		e.l.MatchesChanged(t.matchesFound, t.totalMatchesInLevel)
	}
}

func (t *ScoreTracker) notifyAll() {
	for _, e := range t.listeners {
		e.l.ScoreChanged(t.score)
		e.l.TurnCountChanged(t.turnCount)
		e.l.ComboChanged(t.consecutiveMatches)
	}
	t.notifyMatches()
}
