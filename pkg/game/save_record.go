package game

import (
	"fmt"
)

// SaveVersion 存档格式版本号，加载时版本不一致的文档视为损坏
const SaveVersion = 1

// SaveRecord 关卡中途存档
//
// 包含恢复棋盘所需的全部信息：计分器的计数以及每个非空格子的卡牌状态。
// 总是作为一个完整文档读写，不做部分更新。
type SaveRecord struct {
	Version            int            `yaml:"version"`            // 存档格式版本号，写入时由 SaveManager 填写
	CurrentLevelIndex  int            `yaml:"currentLevelIndex"`  // 绝对关卡索引，恢复时决定继续哪一关
	Score              int            `yaml:"score"`              // 当前分数
	TurnCount          int            `yaml:"turnCount"`          // 已进行回合数
	MatchesFound       int            `yaml:"matchesFound"`       // 已找到的配对数
	ConsecutiveMatches int            `yaml:"consecutiveMatches"` // 当前连击数
	Cards              []CardSaveData `yaml:"cards"`              // 每个非空格子一条
}

// CardSaveData 单个格子的卡牌状态
type CardSaveData struct {
	CardIndex  int    `yaml:"cardIndex"`  // 格子索引，在同一存档内唯一
	CardType   string `yaml:"cardType"`   // 卡牌类型ID
	IsMatched  bool   `yaml:"isMatched"`  // 是否已配对
	IsRevealed bool   `yaml:"isRevealed"` // 是否正面朝上
}

// BoardSlot 棋盘格子上的卡牌（由棋盘提供给存档，也用于恢复）
type BoardSlot struct {
	CardType   string
	IsMatched  bool
	IsRevealed bool
}

// Validate 校验存档的结构约束
//
// 返回：
//   - error: 计数为负、格子索引为负或重复时返回错误
func (r *SaveRecord) Validate() error {
	if r.CurrentLevelIndex < 0 {
		return fmt.Errorf("currentLevelIndex cannot be negative, got %d", r.CurrentLevelIndex)
	}
	if r.Score < 0 || r.TurnCount < 0 || r.MatchesFound < 0 || r.ConsecutiveMatches < 0 {
		return fmt.Errorf("counters cannot be negative (score=%d, turnCount=%d, matchesFound=%d, consecutiveMatches=%d)",
			r.Score, r.TurnCount, r.MatchesFound, r.ConsecutiveMatches)
	}

	seen := make(map[int]bool, len(r.Cards))
	for i, card := range r.Cards {
		if card.CardIndex < 0 {
			return fmt.Errorf("cards[%d]: cardIndex cannot be negative, got %d", i, card.CardIndex)
		}
		if seen[card.CardIndex] {
			return fmt.Errorf("cards[%d]: duplicate cardIndex %d", i, card.CardIndex)
		}
		seen[card.CardIndex] = true
	}
	return nil
}

// SaveInfo 存档摘要，用于调试工具显示
type SaveInfo struct {
	LevelIndex   int
	Score        int
	TurnCount    int
	MatchesFound int
	CardCount    int
}

// Info 提取存档摘要
func (r *SaveRecord) Info() SaveInfo {
	return SaveInfo{
		LevelIndex:   r.CurrentLevelIndex,
		Score:        r.Score,
		TurnCount:    r.TurnCount,
		MatchesFound: r.MatchesFound,
		CardCount:    len(r.Cards),
	}
}
