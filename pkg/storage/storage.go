// Package storage 提供存档使用的键值存储后端
//
// 所有后端都以“整键读写”为单位：Save 覆盖整个值，Load 读取整个值，
// 不存在部分更新。上层（game 包）负责序列化格式。
package storage

import "errors"

// ErrNotFound 键不存在
var ErrNotFound = errors.New("storage key not found")

// Backend 键值存储后端
type Backend interface {
	// Exists 检查键是否存在
	Exists(key string) bool
	// Load 读取键对应的完整数据，键不存在时返回 ErrNotFound
	Load(key string) ([]byte, error)
	// Save 写入键对应的完整数据，覆盖旧值
	Save(key string, data []byte) error
	// Delete 删除键，键不存在时不视为错误
	Delete(key string) error
	// Keys 列出所有已存在的键（用于调试工具）
	Keys() ([]string, error)
}
