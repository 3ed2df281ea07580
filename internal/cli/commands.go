package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/ra"
	"github.com/decker502/cardmatch/pkg/game"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer 按英文习惯给数字加千位分隔符（1,250）
var printer = message.NewPrinter(language.English)

// switchValues 开关类设置接受的取值
var switchValues = []string{"on", "off"}

func registerShow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("show")
	cmd.SetDescription("Show level progress and the saved game summary")
	ctx.ShowUsed, _ = parent.RegisterCmd(cmd)
}

func registerDelete(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("delete")
	cmd.SetDescription("Delete the mid-level saved game (progress is kept)")
	ctx.DeleteUsed, _ = parent.RegisterCmd(cmd)
}

func registerReset(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("reset")
	cmd.SetDescription("Delete the saved game and reset progress to the first level")

	ctx.ResetForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.ResetUsed, _ = parent.RegisterCmd(cmd)
}

func registerJump(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("jump")
	cmd.SetDescription("Move progress to a main or rotating level (1-based)")

	ctx.JumpMain, _ = ra.NewInt("main").
		SetShort("m").
		SetOptional(true).
		SetFlagOnly(true).
		SetDefault(0).
		SetUsage("Main level number").
		Register(cmd)

	ctx.JumpRotating, _ = ra.NewInt("rotating").
		SetShort("r").
		SetOptional(true).
		SetFlagOnly(true).
		SetDefault(0).
		SetUsage("Rotating slot number, may exceed the rotating level count to select a later cycle").
		Register(cmd)

	ctx.JumpUsed, _ = parent.RegisterCmd(cmd)
}

func registerLevels(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("levels")
	cmd.SetDescription("List the level catalog")
	ctx.LevelsUsed, _ = parent.RegisterCmd(cmd)
}

func registerSettings(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("settings")
	cmd.SetDescription("Change sound and save settings (no flags prints the current settings)")

	ctx.SettingsSound, _ = ra.NewString("sound").
		SetOptional(true).
		SetFlagOnly(true).
		SetEnumConstraint(switchValues).
		SetUsage("Turn sound effects on or off").
		Register(cmd)

	ctx.SettingsVolume, _ = ra.NewFloat64("volume").
		SetOptional(true).
		SetFlagOnly(true).
		SetMin(0, true).
		SetMax(1, true).
		SetUsage("Sound effect volume, 0.0 to 1.0").
		Register(cmd)

	ctx.SettingsAutosave, _ = ra.NewString("autosave").
		SetOptional(true).
		SetFlagOnly(true).
		SetEnumConstraint(switchValues).
		SetUsage("Save the level in progress on pause and quit").
		Register(cmd)

	ctx.SettingsResume, _ = ra.NewString("resume").
		SetOptional(true).
		SetFlagOnly(true).
		SetEnumConstraint(switchValues).
		SetUsage("Resume the saved level on start").
		Register(cmd)

	ctx.SettingsUsed, _ = parent.RegisterCmd(cmd)
}

func runShow(ctx *CommandContext) {
	tool, cfg := openTool(ctx)
	defer closeTool(tool)

	st, err := tool.Status()
	if err != nil {
		Fatal(err)
	}
	fmt.Print(FormatStatus(st, cfg.Storage))
}

// FormatStatus 生成 `cardsave show` 的输出
//
// 参数：
//   - st: Tool.Status 的结果
//   - storageName: 存储后端名称（gdata / sqlite / memory）
func FormatStatus(st Status, storageName string) string {
	var b strings.Builder
	fmt.Fprintln(&b, TitleBox(st.Level))
	fmt.Fprintln(&b, LabelValue("Storage", storageName, 10))
	if st.StoragePath != "" {
		fmt.Fprintln(&b, LabelValue("Path", st.StoragePath, 10))
	}
	fmt.Fprintln(&b, LabelValue("Progress", st.Summary, 10))
	fmt.Fprintln(&b, LabelValue("Index", fmt.Sprintf("%d (%s)", st.Index, st.Phase), 10))

	switch {
	case !st.HasSave:
		fmt.Fprintln(&b, LabelValue("Save", StyleMuted.Render("none"), 10))
	case st.SaveErr != nil:
		fmt.Fprintln(&b, LabelValue("Save", StyleError.Render(st.SaveErr.Error()), 10))
	default:
		s := st.Save
		fmt.Fprintln(&b, LabelValue("Save", printer.Sprintf("level %d, score %d, turns %d, matches %d, cards %d",
			s.LevelIndex, s.Score, s.TurnCount, s.MatchesFound, s.CardCount), 10))
	}

	if st.Settings != nil {
		fmt.Fprintln(&b, LabelValue("Settings", formatSettings(st.Settings), 10))
	}
	fmt.Fprintln(&b, LabelValue("Keys", StyleMuted.Render(strings.Join(st.Keys, ", ")), 10))
	return b.String()
}

func runDelete(ctx *CommandContext) {
	tool, _ := openTool(ctx)
	defer closeTool(tool)

	if !tool.Saves.Exists() {
		PrintInfo("No saved game")
		return
	}
	if err := tool.DeleteSave(); err != nil {
		Fatal(err)
	}
	PrintSuccess("Deleted saved game")
}

func runReset(ctx *CommandContext, force bool) {
	tool, _ := openTool(ctx)
	defer closeTool(tool)

	done, err := tool.Reset(force)
	if err != nil {
		Fatal(err)
	}
	if !done {
		PrintInfo("Cancelled")
		return
	}
	PrintSuccess("Deleted saved game and reset progress to %s", tool.Progress.DisplayName())
}

func runJump(ctx *CommandContext, mainLevel, rotating int) {
	if (mainLevel > 0) == (rotating > 0) {
		Fatal(fmt.Errorf("pass exactly one of --main N or --rotating N (1-based)"))
	}

	tool, _ := openTool(ctx)
	defer closeTool(tool)

	var err error
	if mainLevel > 0 {
		err = tool.JumpToMain(mainLevel - 1)
	} else {
		err = tool.JumpToRotating(rotating - 1)
	}
	if err != nil {
		Fatal(err)
	}
	PrintSuccess("Jumped to %s (%s)", tool.Progress.DisplayName(), tool.Progress.Summary())
}

func runLevels(ctx *CommandContext) {
	tool, _ := openTool(ctx)
	defer closeTool(tool)

	fmt.Print(FormatLevels(tool))
}

// FormatLevels 列出关卡目录，并标记当前关卡
func FormatLevels(tool *Tool) string {
	var b strings.Builder
	current := tool.Progress.CurrentIndex()
	inRotating := tool.Progress.IsInRotatingPhase()

	fmt.Fprintln(&b, StyleBold.Render("Main levels"))
	for i := 0; i < tool.Catalog.TotalMain(); i++ {
		def, _ := tool.Catalog.MainLevel(i)
		marker := " "
		if !inRotating && i == current {
			marker = StyleAccent.Render(IconInfo)
		}
		fmt.Fprintf(&b, "%s %2d. %s\n", marker, i+1, describeLevel(def.Name, def.Rows, def.Columns, def.Restrained, def.MaxTurns))
	}

	fmt.Fprintln(&b, StyleBold.Render("Rotating levels"))
	if !tool.Catalog.HasRotating() {
		fmt.Fprintln(&b, StyleMuted.Render("  (none)"))
	}
	for i := 0; i < tool.Catalog.TotalRotating(); i++ {
		def, _ := tool.Catalog.RotatingLevel(i)
		marker := " "
		if inRotating && i == tool.Progress.PositionInCycle() {
			marker = StyleAccent.Render(IconInfo)
		}
		fmt.Fprintf(&b, "%s %2d. %s\n", marker, i+1, describeLevel(def.Name, def.Rows, def.Columns, def.Restrained, def.MaxTurns))
	}
	return b.String()
}

func describeLevel(name string, rows, columns int, restrained bool, maxTurns int) string {
	desc := fmt.Sprintf("%s  %dx%d", name, rows, columns)
	if restrained {
		desc += StyleWarning.Render(fmt.Sprintf("  max %d turns", maxTurns))
	}
	return desc
}

func runSettings(ctx *CommandContext) {
	update, err := settingsUpdateFromFlags(ctx)
	if err != nil {
		Fatal(err)
	}

	tool, _ := openTool(ctx)
	defer closeTool(tool)

	if update.IsEmpty() {
		fmt.Println(formatSettings(tool.Settings.GetSettings()))
		return
	}
	settings, err := tool.UpdateSettings(update)
	if err != nil {
		Fatal(err)
	}
	PrintSuccess("Saved settings: %s", formatSettings(settings))
}

// settingsUpdateFromFlags 只收集用户显式指定的参数
func settingsUpdateFromFlags(ctx *CommandContext) (SettingsUpdate, error) {
	var update SettingsUpdate
	var err error

	if ctx.root.Configured("sound") {
		if update.SoundEnabled, err = parseSwitch("sound", *ctx.SettingsSound); err != nil {
			return update, err
		}
	}
	if ctx.root.Configured("volume") {
		volume := *ctx.SettingsVolume
		update.SoundVolume = &volume
	}
	if ctx.root.Configured("autosave") {
		if update.AutoSaveOnPause, err = parseSwitch("autosave", *ctx.SettingsAutosave); err != nil {
			return update, err
		}
	}
	if ctx.root.Configured("resume") {
		if update.LoadSaveOnStart, err = parseSwitch("resume", *ctx.SettingsResume); err != nil {
			return update, err
		}
	}
	return update, nil
}

// parseSwitch 把 "on" / "off" 转换为布尔值
func parseSwitch(name, value string) (*bool, error) {
	var enabled bool
	switch strings.ToLower(value) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return nil, fmt.Errorf("--%s must be on or off, got %q", name, value)
	}
	return &enabled, nil
}

func formatSettings(s *game.GameSettings) string {
	return fmt.Sprintf("sound=%s volume=%.2f autosave=%s resume=%s",
		onOff(s.SoundEnabled), s.SoundVolume, onOff(s.AutoSaveOnPause), onOff(s.LoadSaveOnStart))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
