//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。手动构建：
//
//	# Android
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.cardmatch -o build/android/cardmatch.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	ebitenmobile bind -target ios -tags mobile -o build/ios/CardMatch.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/cardmatch/data"
	"github.com/decker502/cardmatch/pkg/app"
	"github.com/decker502/cardmatch/pkg/config"
	"github.com/decker502/cardmatch/pkg/embedded"
)

func init() {
	embedded.Init(data.FS)

	// 移动端没有环境变量，使用 gdata 存储和默认窗口尺寸
	cfg := &config.AppConfig{
		AppName: "cardmatch",
		Storage: config.StorageGdata,
		Verbose: true,
		Width:   800,
		Height:  600,
	}

	gameApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	// 注册游戏到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
