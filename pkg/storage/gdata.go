package storage

import (
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
)

// DefaultObject gdata 中存放所有存档属性的对象名
const DefaultObject = "cardmatch"

// GdataBackend 基于 gdata 的跨平台存储
//
// 每个键对应 gdata 对象下的一个属性（桌面端为一个文件，
// Web 端为 localStorage 项，Android 为应用私有目录下的文件）。
type GdataBackend struct {
	manager *gdata.Manager
	object  string
}

// OpenGdataBackend 初始化 gdata 并返回存储后端
//
// 参数：
//   - appName: gdata 应用名（决定存档目录，如 ~/.local/share/{appName}）
//
// 返回：
//   - *GdataBackend: 存储后端
//   - error: gdata 初始化失败时返回错误，调用方可退回 MemoryBackend
func OpenGdataBackend(appName string) (*GdataBackend, error) {
	if err := EnsureStorageDir(); err != nil {
		log.Printf("[GdataBackend] Warning: failed to prepare storage dir: %v", err)
	}

	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata manager for %q: %w", appName, err)
	}

	log.Printf("[GdataBackend] Opened gdata storage for app %q", appName)
	return NewGdataBackend(manager, DefaultObject), nil
}

// NewGdataBackend 用已有的 gdata Manager 创建存储后端
func NewGdataBackend(manager *gdata.Manager, object string) *GdataBackend {
	return &GdataBackend{
		manager: manager,
		object:  object,
	}
}

func (b *GdataBackend) Exists(key string) bool {
	return b.manager.ObjectPropExists(b.object, key)
}

func (b *GdataBackend) Load(key string) ([]byte, error) {
	if !b.manager.ObjectPropExists(b.object, key) {
		return nil, ErrNotFound
	}
	data, err := b.manager.LoadObjectProp(b.object, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", b.object, key, err)
	}
	return data, nil
}

func (b *GdataBackend) Save(key string, data []byte) error {
	if err := b.manager.SaveObjectProp(b.object, key, data); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", b.object, key, err)
	}
	return nil
}

func (b *GdataBackend) Delete(key string) error {
	if !b.manager.ObjectPropExists(b.object, key) {
		return nil
	}
	if err := b.manager.DeleteObjectProp(b.object, key); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", b.object, key, err)
	}
	return nil
}

func (b *GdataBackend) Keys() ([]string, error) {
	if !b.manager.ObjectExists(b.object) {
		return nil, nil
	}
	keys, err := b.manager.ListObjectProps(b.object)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", b.object, err)
	}
	sort.Strings(keys)
	return keys, nil
}
