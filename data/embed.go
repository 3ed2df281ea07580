// Package data 内嵌游戏数据文件
//
// //go:embed 只能嵌入当前包目录及其子目录的文件，因此声明放在 data/ 目录下，
// 桌面端、移动端和 cardsave 工具都从这里取得同一份内嵌数据。
package data

import "embed"

// FS 内嵌的数据目录，根目录即 data/（如 "levels/catalog.yaml"）
//
//go:embed levels
var FS embed.FS
