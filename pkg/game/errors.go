package game

import (
	"errors"

	"github.com/decker502/cardmatch/pkg/config"
)

var (
	// ErrOutOfRange 关卡索引越界（与 config.ErrLevelOutOfRange 相同，便于调用方只引用 game 包）
	ErrOutOfRange = config.ErrLevelOutOfRange
	// ErrNoMainLevels 没有任何主线关卡（致命配置错误）
	ErrNoMainLevels = config.ErrNoMainLevels
	// ErrNoRotatingLevels 处于或请求轮换阶段，但目录中没有轮换关卡
	ErrNoRotatingLevels = errors.New("no rotating levels available")
	// ErrNoLevelCatalog 未提供关卡目录（致命配置错误）
	ErrNoLevelCatalog = errors.New("level catalog is not assigned")

	// ErrSaveNotFound 没有存档
	ErrSaveNotFound = errors.New("save data not found")
	// ErrSaveCorrupt 存档存在但无法解析
	ErrSaveCorrupt = errors.New("save data is corrupt")

	// ErrSessionBusy 会话正在切换关卡，拒绝重入
	ErrSessionBusy = errors.New("session transition already in progress")
)
