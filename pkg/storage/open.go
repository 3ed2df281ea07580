package storage

import (
	"log"

	"github.com/decker502/cardmatch/pkg/config"
)

// OpenFromConfig 按配置打开存储后端
// gdata 或 sqlite 打开失败时退回内存存储（本次运行的进度不会保留）
func OpenFromConfig(cfg *config.AppConfig) Backend {
	switch cfg.Storage {
	case config.StorageMemory:
		return NewMemoryBackend()
	case config.StorageSQLite:
		b, err := OpenSQLiteBackend(cfg.SQLitePath)
		if err == nil {
			log.Printf("[Storage] Using sqlite storage: %s", cfg.SQLitePath)
			return b
		}
		log.Printf("[Storage] Warning: failed to open sqlite storage: %v (progress will not be kept)", err)
	default:
		b, err := OpenGdataBackend(cfg.AppName)
		if err == nil {
			log.Printf("[Storage] Using gdata storage, app name: %s", cfg.AppName)
			return b
		}
		log.Printf("[Storage] Warning: failed to open gdata storage: %v (progress will not be kept)", err)
	}
	return NewMemoryBackend()
}
