// cardsave 查看和维护卡牌配对游戏的存档与关卡进度
//
// 用法：
//
//	cardsave show                 显示关卡进度和存档摘要
//	cardsave delete               只删除关卡中途存档
//	cardsave reset [--force]      删除存档并重置进度到第一关
//	cardsave jump --main 3        跳转到第 3 个主线关卡
//	cardsave jump --rotating 2    跳转到第 2 个轮换槽位
//	cardsave levels               列出关卡目录
//	cardsave settings --volume 0.5 --sound on
//	                              修改音效和存档设置
//
// 全局参数 --storage / --db / --app / --levels 覆盖 CARDMATCH_* 环境变量。
// 未指定关卡目录时使用与游戏相同的内嵌目录。
package main

import (
	"github.com/decker502/cardmatch/data"
	"github.com/decker502/cardmatch/internal/cli"
	"github.com/decker502/cardmatch/pkg/embedded"
)

func main() {
	embedded.Init(data.FS)
	cli.Run()
}
