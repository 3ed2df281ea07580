package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/decker502/cardmatch/pkg/config"
	"github.com/quasilyte/gdata/v2"
)

// testBackendContract 所有后端共同遵守的键值语义
func testBackendContract(t *testing.T, b Backend) {
	t.Helper()

	// 空存储
	if b.Exists("a") {
		t.Error("Exists on empty store: got true, want false")
	}
	if _, err := b.Load("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load missing key: got %v, want ErrNotFound", err)
	}
	if err := b.Delete("a"); err != nil {
		t.Errorf("Delete missing key: got %v, want nil", err)
	}

	// 写入与覆盖
	if err := b.Save("a", []byte("first")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := b.Save("a", []byte("second")); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	if err := b.Save("b", []byte("other")); err != nil {
		t.Fatalf("Save b: %v", err)
	}
	if !b.Exists("a") {
		t.Error("Exists after Save: got false, want true")
	}
	data, err := b.Load("a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Load after overwrite: got %q, want %q", data, "second")
	}

	keys, err := b.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("Keys: got %v, want [a b]", keys)
	}

	// 删除
	if err := b.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if b.Exists("a") {
		t.Error("Exists after Delete: got true, want false")
	}
	if !b.Exists("b") {
		t.Error("Delete removed an unrelated key")
	}
}

func TestMemoryBackend(t *testing.T) {
	testBackendContract(t, NewMemoryBackend())
}

// TestMemoryBackendCopies 写入和读取都复制数据，调用方修改不影响存储
func TestMemoryBackendCopies(t *testing.T) {
	b := NewMemoryBackend()
	data := []byte("value")
	if err := b.Save("k", data); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data[0] = 'X'

	loaded, _ := b.Load("k")
	if string(loaded) != "value" {
		t.Errorf("stored value changed through caller slice: got %q", loaded)
	}
	loaded[0] = 'Y'
	again, _ := b.Load("k")
	if string(again) != "value" {
		t.Errorf("stored value changed through loaded slice: got %q", again)
	}
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")
	b, err := OpenSQLiteBackend(path)
	if err != nil {
		t.Fatalf("OpenSQLiteBackend: %v", err)
	}
	t.Cleanup(func() { b.Close() })

	testBackendContract(t, b)
}

// TestSQLiteBackendPersists 关闭后重新打开仍能读到数据
func TestSQLiteBackendPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")
	b, err := OpenSQLiteBackend(path)
	if err != nil {
		t.Fatalf("OpenSQLiteBackend: %v", err)
	}
	if err := b.Save("CurrentLevelIndex", []byte("4")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLiteBackend(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	data, err := reopened.Load("CurrentLevelIndex")
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if string(data) != "4" {
		t.Errorf("Load after reopen: got %q, want %q", data, "4")
	}
}

func TestOpenSQLiteBackendRequiresPath(t *testing.T) {
	if _, err := OpenSQLiteBackend("  "); err == nil {
		t.Error("expected error for empty path")
	}
}

// createTestGdataManager 创建用于测试的 gdata Manager，无法创建时返回 nil
func createTestGdataManager(t *testing.T) *gdata.Manager {
	t.Setenv("HOME", t.TempDir())
	appName := fmt.Sprintf("cardmatch_test_%d", time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil
	}

	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})
	return manager
}

func TestGdataBackend(t *testing.T) {
	manager := createTestGdataManager(t)
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	testBackendContract(t, NewGdataBackend(manager, DefaultObject))
}

func TestOpenFromConfig(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		b := OpenFromConfig(&config.AppConfig{Storage: config.StorageMemory})
		if _, ok := b.(*MemoryBackend); !ok {
			t.Errorf("got %T, want *MemoryBackend", b)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		b := OpenFromConfig(&config.AppConfig{
			Storage:    config.StorageSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "cfg.db"),
		})
		s, ok := b.(*SQLiteBackend)
		if !ok {
			t.Fatalf("got %T, want *SQLiteBackend", b)
		}
		s.Close()
	})

	t.Run("sqlite falls back to memory", func(t *testing.T) {
		b := OpenFromConfig(&config.AppConfig{Storage: config.StorageSQLite, SQLitePath: ""})
		if _, ok := b.(*MemoryBackend); !ok {
			t.Errorf("got %T, want *MemoryBackend", b)
		}
	})
}
