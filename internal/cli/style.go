package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// 终端配色，亮色和暗色主题下都可读
var (
	ColorSuccess = lipgloss.AdaptiveColor{Dark: "#22c55e", Light: "#16a34a"}
	ColorError   = lipgloss.AdaptiveColor{Dark: "#ef4444", Light: "#dc2626"}
	ColorWarning = lipgloss.AdaptiveColor{Dark: "#f59e0b", Light: "#d97706"}
	ColorMuted   = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"}
	ColorAccent  = lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"}
)

var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleBold    = lipgloss.NewStyle().Bold(true)
)

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconInfo    = "→"
)

// PrintSuccess 打印带绿色对勾的成功信息
func PrintSuccess(format string, args ...any) {
	fmt.Printf("%s %s\n", StyleSuccess.Render(IconSuccess), fmt.Sprintf(format, args...))
}

// PrintError 向 stderr 打印带红色叉号的错误信息
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", StyleError.Render(IconError), fmt.Sprintf(format, args...))
}

// PrintWarning 向 stderr 打印警告信息
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", StyleWarning.Render(IconWarning), fmt.Sprintf(format, args...))
}

// PrintInfo 打印普通提示信息
func PrintInfo(format string, args ...any) {
	fmt.Printf("%s %s\n", StyleMuted.Render(IconInfo), fmt.Sprintf(format, args...))
}

// TitleBox 用圆角边框突出显示标题
func TitleBox(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 2).
		Bold(true).
		Render(title)
}

// LabelValue 格式化一行 "标签: 值"，标签右对齐到 labelWidth
func LabelValue(label, value string, labelWidth int) string {
	labelStyle := lipgloss.NewStyle().
		Width(labelWidth).
		Align(lipgloss.Right).
		Foreground(ColorMuted)
	return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), value)
}

// Fatal 打印错误并以状态码 1 退出
func Fatal(err error) {
	PrintError("Error: %v", err)
	os.Exit(1)
}
