package game

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/decker502/cardmatch/pkg/storage"
	"gopkg.in/yaml.v3"
)

// SaveKey 关卡中途存档使用的固定键
const SaveKey = "CardMatchGameSave"

// SaveManager 存档管理器
//
// 职责：
//   - 在固定键下保存、加载、删除唯一的一份 SaveRecord
//   - 存档以 YAML 文本文档整体写入（便于人工阅读和调试）
//
// 除存储键之外不持有任何状态，每次调用都直接访问存储后端。
type SaveManager struct {
	backend storage.Backend
	key     string
}

// NewSaveManager 创建存档管理器
//
// 参数：
//   - backend: 存储后端（gdata / sqlite / 内存）
func NewSaveManager(backend storage.Backend) *SaveManager {
	return &SaveManager{
		backend: backend,
		key:     SaveKey,
	}
}

// Exists 检查是否有存档
func (sm *SaveManager) Exists() bool {
	return sm.backend.Exists(sm.key)
}

// Save 保存整个存档，覆盖旧存档
//
// 先在内存中完成校验和序列化，再一次性写入后端，不会留下半份文档。
func (sm *SaveManager) Save(record *SaveRecord) error {
	if record == nil {
		return fmt.Errorf("save record is nil")
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid save record: %w", err)
	}

	doc := *record
	doc.Version = SaveVersion
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal save data: %w", err)
	}

	if err := sm.backend.Save(sm.key, data); err != nil {
		return fmt.Errorf("failed to write save data: %w", err)
	}

	log.Printf("[SaveManager] Game Saved! Level: %d, Score: %d, Turns: %d, Matches: %d/%d cards",
		record.CurrentLevelIndex, record.Score, record.TurnCount, record.MatchesFound, len(record.Cards))
	return nil
}

// Load 加载存档
//
// 返回：
//   - *SaveRecord: 存档数据
//   - error: 没有存档返回 ErrSaveNotFound；无法解析、含未知字段或版本不符
//     返回包装了 ErrSaveCorrupt 的错误
func (sm *SaveManager) Load() (*SaveRecord, error) {
	data, err := sm.backend.Load(sm.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("[SaveManager] No save data found.")
			return nil, ErrSaveNotFound
		}
		return nil, fmt.Errorf("failed to read save data: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrSaveCorrupt)
	}

	var record SaveRecord
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveCorrupt, err)
	}

	// 版本检查同时拒绝与存档无关的文档（解码后是零值记录）
	if record.Version != SaveVersion {
		return nil, fmt.Errorf("%w: incompatible save version: %d (expected %d)",
			ErrSaveCorrupt, record.Version, SaveVersion)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveCorrupt, err)
	}
	if record.Cards == nil {
		record.Cards = []CardSaveData{}
	}

	log.Printf("[SaveManager] Game Loaded! Level: %d, Score: %d, Turns: %d, Matches: %d/%d cards",
		record.CurrentLevelIndex, record.Score, record.TurnCount, record.MatchesFound, len(record.Cards))
	return &record, nil
}

// Delete 删除存档，没有存档时不视为错误
func (sm *SaveManager) Delete() error {
	if !sm.backend.Exists(sm.key) {
		log.Printf("[SaveManager] No save data to delete.")
		return nil
	}
	if err := sm.backend.Delete(sm.key); err != nil {
		return fmt.Errorf("failed to delete save data: %w", err)
	}
	log.Printf("[SaveManager] Save data deleted.")
	return nil
}

// Info 读取存档摘要
func (sm *SaveManager) Info() (SaveInfo, error) {
	record, err := sm.Load()
	if err != nil {
		return SaveInfo{}, err
	}
	return record.Info(), nil
}
