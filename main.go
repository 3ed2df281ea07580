package main

import (
	"log"

	"github.com/decker502/cardmatch/data"
	"github.com/decker502/cardmatch/pkg/app"
	"github.com/decker502/cardmatch/pkg/config"
	"github.com/decker502/cardmatch/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// 初始化嵌入资源
	embedded.Init(data.FS)

	cfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	gameApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}
	defer gameApp.Shutdown()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Card Match")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// 关闭窗口时先由 App 自动存档，再退出
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
