package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// 存储后端类型
const (
	StorageGdata  = "gdata"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// AppConfig 应用启动配置，从环境变量读取（前缀 CARDMATCH_）
type AppConfig struct {
	AppName    string `env:"APP_NAME" envDefault:"cardmatch"`       // gdata 应用名，决定存档目录
	Storage    string `env:"STORAGE" envDefault:"gdata"`            // 存储后端：gdata / sqlite / memory
	SQLitePath string `env:"SQLITE_PATH" envDefault:"cardmatch.db"` // sqlite 后端的数据库路径
	LevelsFile string `env:"LEVELS_FILE"`                           // 关卡目录文件，空表示使用内嵌目录
	Verbose    bool   `env:"VERBOSE" envDefault:"false"`            // 是否输出详细日志
	Seed       uint64 `env:"SEED" envDefault:"0"`                   // 发牌随机种子，0 表示随机
	Width      int    `env:"WINDOW_WIDTH" envDefault:"800"`         // 逻辑屏幕宽度
	Height     int    `env:"WINDOW_HEIGHT" envDefault:"600"`        // 逻辑屏幕高度
}

// LoadAppConfig 从环境变量加载应用配置
func LoadAppConfig() (*AppConfig, error) {
	cfg, err := env.ParseAsWithOptions[AppConfig](env.Options{Prefix: "CARDMATCH_"})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置取值
func (c *AppConfig) Validate() error {
	switch c.Storage {
	case StorageGdata, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q (want gdata, sqlite or memory)", c.Storage)
	}
	if c.Storage == StorageSQLite && c.SQLitePath == "" {
		return fmt.Errorf("sqlite storage requires CARDMATCH_SQLITE_PATH")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}
