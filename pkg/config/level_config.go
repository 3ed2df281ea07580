package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/decker502/cardmatch/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultLevelCatalogPath 内嵌的默认关卡目录
const DefaultLevelCatalogPath = "data/levels/catalog.yaml"

// LevelDefinition 关卡定义（只读的策划数据）
// 描述了棋盘尺寸、参与发牌的卡牌类型以及回合限制
type LevelDefinition struct {
	Name      string   `yaml:"name" toml:"name"`           // 关卡名称（可选），默认 "Level N"
	Rows      int      `yaml:"rows" toml:"rows"`           // 行数，至少为 1
	Columns   int      `yaml:"columns" toml:"columns"`     // 列数，至少为 1
	CardTypes []string `yaml:"cardTypes" toml:"cardTypes"` // 参与发牌的卡牌类型ID，不能为空

	// 回合限制
	Restrained bool `yaml:"restrained" toml:"restrained"` // 是否限制回合数
	MaxTurns   int  `yaml:"maxTurns" toml:"maxTurns"`     // 最大回合数，仅在 Restrained 时有效；-1 表示不限制
}

// SlotCount 返回棋盘格子总数
func (d *LevelDefinition) SlotCount() int {
	return d.Rows * d.Columns
}

// PairCount 返回本关需要找到的配对数
// 格子数为奇数时，多出的一个格子留空
func (d *LevelDefinition) PairCount() int {
	return d.SlotCount() / 2
}

// levelCatalogFile 关卡目录文件的顶层结构
type levelCatalogFile struct {
	MainLevels     []LevelDefinition `yaml:"mainLevels" toml:"mainLevels"`         // 主线关卡，按顺序只玩一次
	RotatingLevels []LevelDefinition `yaml:"rotatingLevels" toml:"rotatingLevels"` // 轮换关卡，主线结束后无限循环
}

// LoadLevelCatalog 从文件加载关卡目录
//
// 根据扩展名选择格式：.toml 使用 TOML，其余按 YAML 解析
//
// 参数：
//   - path: 关卡目录文件路径
//
// 返回：
//   - *LevelCatalog: 解析并校验后的关卡目录
//   - error: 如果读取、解析或校验失败返回错误
func LoadLevelCatalog(path string) (*LevelCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level catalog file %s: %w", path, err)
	}

	catalog, err := ParseLevelCatalog(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("invalid level catalog %s: %w", path, err)
	}
	return catalog, nil
}

// LoadLevelCatalogOrDefault 加载关卡目录：指定了文件则读文件，否则读内嵌的默认目录
//
// 使用内嵌目录前必须先调用 embedded.Init()。
func LoadLevelCatalogOrDefault(path string) (*LevelCatalog, error) {
	if path != "" {
		log.Printf("[LevelConfig] Loading level catalog from %s", path)
		return LoadLevelCatalog(path)
	}

	data, err := embedded.ReadFile(DefaultLevelCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded level catalog: %w", err)
	}
	return ParseLevelCatalog(data, filepath.Ext(DefaultLevelCatalogPath))
}

// ParseLevelCatalog 从内存数据解析关卡目录
//
// 参数：
//   - data: 文件内容
//   - ext: 格式扩展名（".yaml"、".yml" 或 ".toml"）
func ParseLevelCatalog(data []byte, ext string) (*LevelCatalog, error) {
	var file levelCatalogFile

	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("failed to parse level catalog TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse level catalog YAML: %w", err)
		}
	}

	for i := range file.MainLevels {
		applyDefaults(&file.MainLevels[i], fmt.Sprintf("Level %d", i+1))
		if err := validateLevelDefinition(&file.MainLevels[i]); err != nil {
			return nil, fmt.Errorf("mainLevels[%d]: %w", i, err)
		}
	}
	for i := range file.RotatingLevels {
		applyDefaults(&file.RotatingLevels[i], fmt.Sprintf("Rotating Level %d", i+1))
		if err := validateLevelDefinition(&file.RotatingLevels[i]); err != nil {
			return nil, fmt.Errorf("rotatingLevels[%d]: %w", i, err)
		}
	}

	return NewLevelCatalog(file.MainLevels, file.RotatingLevels)
}

// applyDefaults 为缺失的可选字段设置默认值
func applyDefaults(def *LevelDefinition, name string) {
	if def.Name == "" {
		def.Name = name
	}

	// 非限制关卡统一使用 -1 表示不限回合
	if !def.Restrained {
		def.MaxTurns = -1
	}
}

// validateLevelDefinition 验证关卡定义的完整性和合法性
func validateLevelDefinition(def *LevelDefinition) error {
	if def.Rows < 1 {
		return fmt.Errorf("rows must be at least 1, got %d", def.Rows)
	}
	if def.Columns < 1 {
		return fmt.Errorf("columns must be at least 1, got %d", def.Columns)
	}
	if def.PairCount() < 1 {
		return fmt.Errorf("a %dx%d board needs at least one pair", def.Rows, def.Columns)
	}
	if len(def.CardTypes) == 0 {
		return fmt.Errorf("at least one card type is required")
	}
	for i, cardType := range def.CardTypes {
		if strings.TrimSpace(cardType) == "" {
			return fmt.Errorf("cardTypes[%d]: card type cannot be empty", i)
		}
	}
	if def.Restrained && def.MaxTurns <= 0 {
		return fmt.Errorf("restrained level requires maxTurns > 0, got %d", def.MaxTurns)
	}
	return nil
}
