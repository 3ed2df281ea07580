package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/cardmatch/pkg/config"
)

// Board 棋盘协作者
// 负责按关卡定义发牌，并向存档提供格子状态
type Board interface {
	// Setup 按关卡定义重新发牌，返回本关配对总数
	Setup(level config.LevelDefinition) int
	// Restore 按关卡定义发牌后用存档覆盖格子状态，返回本关配对总数
	// 存档条目与当前布局不一致时不能崩溃：越界条目忽略，未覆盖的格子保持背面朝上、未配对
	Restore(level config.LevelDefinition, cards []CardSaveData) int
	// Slots 当前格子，nil 表示空格子
	Slots() []*BoardSlot
}

// LevelInfo 新关开始（或从存档恢复）时提供给展示层的信息
type LevelInfo struct {
	Level        config.LevelDefinition
	Index        int    // 绝对关卡索引
	DisplayName  string // 如 "Level 3"
	Summary      string // 如 "Main: 3/10"
	Score        int
	TurnCount    int
	MatchesFound int
	TotalMatches int
	MaxTurns     int  // 不限回合时为 -1
	Resumed      bool // 是否从存档恢复
}

// Presenter 展示层协作者
//
// 如果同时实现了 ScoreListener，会话会在每个新计分器上为它订阅计分通知。
type Presenter interface {
	LevelStarted(info LevelInfo)
	LevelWon(score, turns int)
	LevelFailed(message string, score int)
}

// SoundPlayer 音效播放（由组合根注入，通常是 *AudioManager）
type SoundPlayer interface {
	PlaySound(soundID string) bool
}

// SessionConfig 会话的协作者与选项
type SessionConfig struct {
	Progress  *LevelProgress
	Saves     *SaveManager
	Board     Board
	Presenter Presenter   // 可为 nil
	Sounds    SoundPlayer // 可为 nil

	LoadOnStart     bool // 启动时如果有存档则恢复
	AutoSaveOnPause bool // 暂停/退出时自动存档
}

// TurnOutcome PlayTurn 的结果
type TurnOutcome struct {
	Matched   bool
	Match     MatchResult // 仅在 Matched 时有效
	Turn      TurnResult
	Completed bool // 本回合完成了关卡
	Failed    bool // 本回合触发了关卡失败
}

// Session 单局会话编排
//
// 独占当前的 LevelProgress 和 ScoreTracker：启动时恢复存档或开始新关，
// 在过关、失败、重玩、下一关时同时切换进度和计分器，并负责存档的写入与删除。
// 所有方法都在主循环上同步调用。
type Session struct {
	progress  *LevelProgress
	saves     *SaveManager
	board     Board
	presenter Presenter
	sounds    SoundPlayer

	loadOnStart     bool
	autoSaveOnPause bool

	level       config.LevelDefinition
	tracker     *ScoreTracker
	unsubscribe func()

	justRestarted bool // 重玩后在记录第一个回合前不自动存档
	levelOver     bool // 已过关或已失败，新关开始前不再自动存档
	inTransition  bool // 防止在切换关卡的过程中重入
}

// NewSession 创建会话
//
// 返回：
//   - error: 缺少关卡进度返回 ErrNoLevelCatalog；缺少存档管理器或棋盘返回错误
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Progress == nil {
		return nil, ErrNoLevelCatalog
	}
	if cfg.Saves == nil {
		return nil, fmt.Errorf("session requires a save manager")
	}
	if cfg.Board == nil {
		return nil, fmt.Errorf("session requires a board")
	}

	return &Session{
		progress:        cfg.Progress,
		saves:           cfg.Saves,
		board:           cfg.Board,
		presenter:       cfg.Presenter,
		sounds:          cfg.Sounds,
		loadOnStart:     cfg.LoadOnStart,
		autoSaveOnPause: cfg.AutoSaveOnPause,
	}, nil
}

// Start 启动会话：有存档且允许恢复时走恢复路径，否则开始新关
func (s *Session) Start() error {
	return s.guarded(func() error {
		if s.loadOnStart && s.saves.Exists() {
			return s.loadGame()
		}
		return s.startNewGame()
	})
}

// guarded 在切换关卡期间拒绝重入（例如展示层回调里再次请求重玩）
func (s *Session) guarded(fn func() error) error {
	if s.inTransition {
		return ErrSessionBusy
	}
	s.inTransition = true
	defer func() { s.inTransition = false }()
	return fn()
}

// resolveLevel 解析当前关卡，并在索引无效时执行恢复策略
//
// 主线索引越界 -> 回到第一关；处于轮换阶段但没有轮换关卡 -> 回到最后一个主线关卡
func (s *Session) resolveLevel() (config.LevelDefinition, error) {
	level, err := s.progress.CurrentLevel()
	switch {
	case err == nil:
		return level, nil
	case errors.Is(err, ErrNoRotatingLevels):
		log.Printf("[Session] Warning: no rotating levels available, returning to last main level")
		if err := s.progress.RecoverToLastMain(); err != nil {
			return config.LevelDefinition{}, err
		}
	case errors.Is(err, ErrOutOfRange):
		log.Printf("[Session] Warning: invalid main level index %d, resetting to 0", s.progress.CurrentIndex())
		if err := s.progress.JumpToMain(0); err != nil {
			return config.LevelDefinition{}, err
		}
	default:
		return config.LevelDefinition{}, err
	}
	return s.progress.CurrentLevel()
}

// startNewGame 新关路径：解析关卡、重新发牌、创建新计分器
func (s *Session) startNewGame() error {
	level, err := s.resolveLevel()
	if err != nil {
		return fmt.Errorf("failed to resolve current level: %w", err)
	}

	total := s.board.Setup(level)
	s.beginLevel(level, total)

	log.Printf("[Session] Started %s | %s (pairs: %d)", s.progress.DisplayName(), s.progress.Summary(), total)
	s.announce(false)
	return s.completeIfEmpty()
}

// loadGame 恢复路径：存档缺失或损坏时退回新关路径
func (s *Session) loadGame() error {
	record, err := s.saves.Load()
	if err != nil {
		log.Printf("[Session] Warning: cannot resume saved game (%v), starting new game", err)
		return s.startNewGame()
	}

	// 存档文档决定恢复哪一关
	if record.CurrentLevelIndex != s.progress.CurrentIndex() {
		if err := s.progress.Restore(record.CurrentLevelIndex); err != nil {
			log.Printf("[Session] Warning: saved level %d cannot be restored (%v), starting new game",
				record.CurrentLevelIndex, err)
			return s.startNewGame()
		}
		log.Printf("[Session] Progress synced to saved level %d", record.CurrentLevelIndex)
	}

	level, err := s.resolveLevel()
	if err != nil {
		return fmt.Errorf("failed to resolve current level: %w", err)
	}

	total := s.board.Restore(level, record.Cards)
	s.beginLevel(level, total)
	s.tracker.LoadFrom(record)

	log.Printf("[Session] Resumed %s | %s (score: %d, turns: %d)",
		s.progress.DisplayName(), s.progress.Summary(), s.tracker.Score(), s.tracker.TurnCount())
	s.announce(true)
	return s.completeIfEmpty()
}

// completeIfEmpty 没有任何配对的棋盘（如 1x1）无法翻牌，直接判为过关
func (s *Session) completeIfEmpty() error {
	if s.tracker.TotalMatchesInLevel() > 0 {
		return nil
	}
	log.Printf("[Session] Warning: %s has no pairs, completing immediately", s.progress.DisplayName())
	return s.LevelCompleted()
}

// beginLevel 替换计分器，并把展示层的订阅转移到新计分器上
func (s *Session) beginLevel(level config.LevelDefinition, totalMatches int) {
	s.releaseSubscription()

	s.level = level
	s.tracker = NewScoreTracker()
	if l, ok := s.presenter.(ScoreListener); ok {
		s.unsubscribe = s.tracker.Subscribe(l)
	}
	s.tracker.Configure(totalMatches, level.Restrained, level.MaxTurns)
	s.levelOver = false
}

func (s *Session) announce(resumed bool) {
	if s.presenter == nil {
		return
	}
	s.presenter.LevelStarted(LevelInfo{
		Level:        s.level,
		Index:        s.progress.CurrentIndex(),
		DisplayName:  s.progress.DisplayName(),
		Summary:      s.progress.Summary(),
		Score:        s.tracker.Score(),
		TurnCount:    s.tracker.TurnCount(),
		MatchesFound: s.tracker.MatchesFound(),
		TotalMatches: s.tracker.TotalMatchesInLevel(),
		MaxTurns:     s.tracker.MaxTurnCount(),
		Resumed:      resumed,
	})
}

func (s *Session) releaseSubscription() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// RecordTurn 记录一个回合；限制回合的关卡达到上限时报告失败
func (s *Session) RecordTurn() TurnResult {
	if s.tracker == nil {
		return TurnResult{}
	}
	s.justRestarted = false

	result := s.tracker.RecordTurn()
	if result.Failed {
		s.onLevelFailed()
	}
	return result
}

// RecordMatch 记录一次配对
func (s *Session) RecordMatch() MatchResult {
	if s.tracker == nil {
		return MatchResult{}
	}
	result := s.tracker.RecordMatch()
	s.play(SoundMatch)
	return result
}

// RecordMismatch 记录一次配对失败
func (s *Session) RecordMismatch() {
	if s.tracker == nil {
		return
	}
	s.tracker.RecordMismatch()
	s.play(SoundMismatch)
}

// PlayTurn 结算翻开两张牌后的一个回合
//
// 先记录配对结果再记录回合，最后一回合恰好完成时不会被判为失败。
// 找到全部配对时自动调用 LevelCompleted。
func (s *Session) PlayTurn(matched bool) (TurnOutcome, error) {
	var outcome TurnOutcome
	if s.tracker == nil || s.levelOver {
		return outcome, nil
	}

	outcome.Matched = matched
	if matched {
		outcome.Match = s.RecordMatch()
	} else {
		s.RecordMismatch()
	}

	outcome.Turn = s.RecordTurn()
	outcome.Failed = outcome.Turn.Failed

	if s.tracker.IsComplete() && !s.tracker.HasFailed() {
		outcome.Completed = true
		if err := s.LevelCompleted(); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

// LevelCompleted 过关：删除存档、展示最终分数，新关开始前不再自动存档
// 重复调用无效果
func (s *Session) LevelCompleted() error {
	if s.tracker == nil || s.levelOver {
		return nil
	}
	s.levelOver = true

	log.Printf("[Session] %s completed! Score: %d, Turns: %d",
		s.progress.DisplayName(), s.tracker.Score(), s.tracker.TurnCount())

	err := s.saves.Delete()
	s.play(SoundWin)
	if s.presenter != nil {
		s.presenter.LevelWon(s.tracker.Score(), s.tracker.TurnCount())
	}
	if err != nil {
		return fmt.Errorf("failed to clear save after completion: %w", err)
	}
	return nil
}

// onLevelFailed 关卡失败：展示回合上限和当前分数，存档保持不变
func (s *Session) onLevelFailed() {
	s.levelOver = true
	s.play(SoundFail)
	if s.presenter != nil {
		message := fmt.Sprintf("Out of Turns!\nMax Turns: %d", s.tracker.MaxTurnCount())
		s.presenter.LevelFailed(message, s.tracker.Score())
	}
}

// Restart 重玩当前关卡
func (s *Session) Restart() error {
	return s.guarded(func() error {
		if err := s.saves.Delete(); err != nil {
			return err
		}
		s.justRestarted = true
		if err := s.progress.RestartCurrent(); err != nil {
			return err
		}
		log.Printf("[Session] Restarted level. Auto-save disabled until first move.")
		return s.startNewGame()
	})
}

// DiscardSave 删除存档并从头开始当前关卡，关卡进度不变
//
// 与 Restart 一样，在记录第一个回合前不自动存档，刚删除的存档不会被立刻写回。
func (s *Session) DiscardSave() error {
	return s.guarded(func() error {
		if err := s.saves.Delete(); err != nil {
			return err
		}
		s.justRestarted = true
		log.Printf("[Session] Save discarded, starting %s fresh", s.progress.DisplayName())
		return s.startNewGame()
	})
}

// NextLevel 进入下一关
func (s *Session) NextLevel() error {
	return s.guarded(func() error {
		if err := s.saves.Delete(); err != nil {
			return err
		}
		if _, err := s.progress.Advance(); err != nil {
			return err
		}
		return s.startNewGame()
	})
}

// JumpToMain 跳转到指定主线关卡并开始新关；索引无效时状态和存档都不变
func (s *Session) JumpToMain(i int) error {
	return s.guarded(func() error {
		if err := s.progress.JumpToMain(i); err != nil {
			return err
		}
		return s.afterJump()
	})
}

// JumpToRotating 跳转到轮换阶段的第 i 个槽位并开始新关
func (s *Session) JumpToRotating(i int) error {
	return s.guarded(func() error {
		if err := s.progress.JumpToRotating(i); err != nil {
			return err
		}
		return s.afterJump()
	})
}

// ResetProgress 清除存档并回到第一关
func (s *Session) ResetProgress() error {
	return s.guarded(func() error {
		if err := s.progress.Reset(); err != nil {
			return err
		}
		return s.afterJump()
	})
}

func (s *Session) afterJump() error {
	if err := s.saves.Delete(); err != nil {
		return err
	}
	s.justRestarted = false
	return s.startNewGame()
}

// SaveGame 保存当前关卡进度
//
// 以下情况不保存（返回 nil）：刚重玩且还没有记录回合、没有进行中的关卡、
// 关卡已结束（过关或失败）。
func (s *Session) SaveGame() error {
	if s.justRestarted {
		log.Printf("[Session] Not saving - game was just restarted. Make progress first!")
		return nil
	}
	if s.tracker == nil {
		return nil
	}
	if s.levelOver {
		log.Printf("[Session] Not saving - level is already over")
		return nil
	}

	record := s.tracker.Snapshot(s.progress.CurrentIndex(), s.board.Slots())
	return s.saves.Save(record)
}

// OnPause 应用失去焦点或暂停时调用
func (s *Session) OnPause() error {
	if !s.autoSaveOnPause {
		return nil
	}
	log.Printf("[Session] Game paused, auto-saving...")
	return s.SaveGame()
}

// OnQuit 应用退出时调用
func (s *Session) OnQuit() error {
	if !s.autoSaveOnPause {
		return nil
	}
	log.Printf("[Session] Game quitting, auto-saving...")
	return s.SaveGame()
}

// Close 释放会话持有的订阅
func (s *Session) Close() {
	s.releaseSubscription()
}

func (s *Session) play(soundID string) {
	if s.sounds != nil {
		s.sounds.PlaySound(soundID)
	}
}

// Tracker 当前计分器，会话启动前为 nil
func (s *Session) Tracker() *ScoreTracker {
	return s.tracker
}

// Progress 关卡进度
func (s *Session) Progress() *LevelProgress {
	return s.progress
}

// Level 当前关卡定义
func (s *Session) Level() config.LevelDefinition {
	return s.level
}

// IsLevelOver 当前关卡是否已经结束（过关或失败）
func (s *Session) IsLevelOver() bool {
	return s.levelOver
}

// JustRestarted 是否处于重玩后的免存档状态
func (s *Session) JustRestarted() bool {
	return s.justRestarted
}
