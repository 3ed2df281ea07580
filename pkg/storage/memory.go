package storage

import "sort"

// MemoryBackend 纯内存存储
// 用于测试，以及无法初始化持久化存储时的降级模式
type MemoryBackend struct {
	data map[string][]byte
}

// NewMemoryBackend 创建内存存储
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Exists(key string) bool {
	_, ok := m.data[key]
	return ok
}

func (m *MemoryBackend) Load(key string) ([]byte, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	// 返回副本
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryBackend) Save(key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)
	m.data[key] = stored
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
