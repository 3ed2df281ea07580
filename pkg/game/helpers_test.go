package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/decker502/cardmatch/pkg/config"
	"github.com/decker502/cardmatch/pkg/storage"
)

// newTestCatalog 创建 main 个主线关卡和 rotating 个轮换关卡
// 主线关卡 i 为 2x(i+2)，轮换关卡 i 为 3x(i+2)，便于按尺寸区分
func newTestCatalog(t *testing.T, main, rotating int) *config.LevelCatalog {
	t.Helper()

	mainLevels := make([]config.LevelDefinition, main)
	for i := range mainLevels {
		mainLevels[i] = config.LevelDefinition{
			Name:      fmt.Sprintf("main-%d", i),
			Rows:      2,
			Columns:   i + 2,
			CardTypes: []string{"a", "b", "c"},
			MaxTurns:  NoTurnLimit,
		}
	}
	rotatingLevels := make([]config.LevelDefinition, rotating)
	for i := range rotatingLevels {
		rotatingLevels[i] = config.LevelDefinition{
			Name:      fmt.Sprintf("rotating-%d", i),
			Rows:      3,
			Columns:   i + 2,
			CardTypes: []string{"x", "y"},
			MaxTurns:  NoTurnLimit,
		}
	}

	catalog, err := config.NewLevelCatalog(mainLevels, rotatingLevels)
	if err != nil {
		t.Fatalf("NewLevelCatalog: %v", err)
	}
	return catalog
}

var errDiskFull = errors.New("disk full")

// flakyBackend 可以让指定键的写入失败
type flakyBackend struct {
	*storage.MemoryBackend
	failKeys map[string]bool
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{
		MemoryBackend: storage.NewMemoryBackend(),
		failKeys:      make(map[string]bool),
	}
}

func (b *flakyBackend) Save(key string, data []byte) error {
	if b.failKeys[key] {
		return errDiskFull
	}
	return b.MemoryBackend.Save(key, data)
}
