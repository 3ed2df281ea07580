//go:build android

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 确保 Android 存档目录存在并可写
// gdata 在 Android 上以 /data/data/{package}/ 为根目录，但不会预先创建子目录，
// OpenGdataBackend 在初始化 gdata 前调用此函数。
//
// 返回：
//   - error: 如果创建目录失败返回错误
func EnsureStorageDir() error {
	app, err := detectAndroidApp()
	if err != nil {
		return fmt.Errorf("failed to detect Android app: %w", err)
	}

	savesDir := filepath.Join("/data/data", app, "saves")

	if err := os.MkdirAll(savesDir, 0755); err != nil {
		return fmt.Errorf("failed to create saves directory %s: %w", savesDir, err)
	}

	// 写一个探针文件确认可写
	probe := filepath.Join(savesDir, ".cardmatch_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("saves directory %s is not writable: %w", savesDir, err)
	}
	os.Remove(probe)

	return nil
}

// detectAndroidApp 检测 Android 应用包名
// 从 /proc/self/cmdline 读取应用标识符
func detectAndroidApp() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}

	// cmdline 以 NUL 分隔，第一段即包名
	name := strings.TrimSpace(strings.SplitN(string(data), "\x00", 2)[0])
	if name == "" {
		return "", fmt.Errorf("got empty output from /proc/self/cmdline")
	}

	return name, nil
}

// StoragePath 返回 Android 存档根目录（cardsave 工具显示用）
func StoragePath() string {
	app, err := detectAndroidApp()
	if err != nil {
		return ""
	}
	return filepath.Join("/data/data", app)
}
