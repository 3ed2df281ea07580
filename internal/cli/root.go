package cli

import (
	"io"
	"log"
	"os"

	"github.com/amterp/ra"
	"github.com/decker502/cardmatch/pkg/config"
	"github.com/decker502/cardmatch/pkg/storage"
)

// CommandContext 所有命令解析后的参数值和子命令使用标记
type CommandContext struct {
	root *ra.Cmd

	// 全局参数
	Storage        *string
	DB             *string
	AppName        *string
	Levels         *string
	Verbose        *bool
	NonInteractive *bool

	ShowUsed *bool

	DeleteUsed *bool

	ResetUsed  *bool
	ResetForce *bool

	JumpUsed     *bool
	JumpMain     *int
	JumpRotating *int

	LevelsUsed *bool

	SettingsUsed     *bool
	SettingsSound    *string
	SettingsVolume   *float64
	SettingsAutosave *string
	SettingsResume   *string
}

// Run 命令行入口
//
// 未指定 --levels 且未设置 CARDMATCH_LEVELS_FILE 时使用内嵌关卡目录，
// 调用前必须先调用 embedded.Init()。
func Run() {
	cmd := ra.NewCmd("cardsave")
	ctx := &CommandContext{root: cmd}

	cmd.SetDescription("Inspect and maintain card match saves and level progress")

	ctx.Storage, _ = ra.NewString("storage").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Storage backend: gdata, sqlite or memory (default from CARDMATCH_STORAGE)").
		Register(cmd, ra.WithGlobal(true))

	ctx.DB, _ = ra.NewString("db").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("SQLite database path, implies --storage sqlite").
		Register(cmd, ra.WithGlobal(true))

	ctx.AppName, _ = ra.NewString("app").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("gdata app name (default from CARDMATCH_APP_NAME)").
		Register(cmd, ra.WithGlobal(true))

	ctx.Levels, _ = ra.NewString("levels").
		SetShort("l").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Level catalog file (.yaml or .toml), defaults to the built-in catalog").
		Register(cmd, ra.WithGlobal(true))

	ctx.Verbose, _ = ra.NewBool("verbose").
		SetShort("v").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print internal log output").
		Register(cmd, ra.WithGlobal(true))

	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for confirmation").
		Register(cmd, ra.WithGlobal(true))

	registerShow(cmd, ctx)
	registerDelete(cmd, ctx)
	registerReset(cmd, ctx)
	registerJump(cmd, ctx)
	registerLevels(cmd, ctx)
	registerSettings(cmd, ctx)

	cmd.ParseOrExit(os.Args[1:])

	executeCommand(ctx)
}

func executeCommand(ctx *CommandContext) {
	if !*ctx.Verbose {
		log.SetOutput(io.Discard)
	}

	switch {
	case *ctx.ShowUsed:
		runShow(ctx)
	case *ctx.DeleteUsed:
		runDelete(ctx)
	case *ctx.ResetUsed:
		runReset(ctx, *ctx.ResetForce)
	case *ctx.JumpUsed:
		runJump(ctx, *ctx.JumpMain, *ctx.JumpRotating)
	case *ctx.LevelsUsed:
		runLevels(ctx)
	case *ctx.SettingsUsed:
		runSettings(ctx)
	default:
		runShow(ctx)
	}
}

// resolveConfig 合并环境变量配置和命令行参数，命令行优先
func resolveConfig(ctx *CommandContext) (*config.AppConfig, error) {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return nil, err
	}

	if *ctx.Storage != "" {
		cfg.Storage = *ctx.Storage
	}
	if *ctx.DB != "" {
		cfg.Storage = config.StorageSQLite
		cfg.SQLitePath = *ctx.DB
	}
	if *ctx.AppName != "" {
		cfg.AppName = *ctx.AppName
	}
	if *ctx.Levels != "" {
		cfg.LevelsFile = *ctx.Levels
	}
	return cfg, cfg.Validate()
}

// openTool 打开配置的存储后端和关卡目录，失败时直接退出
func openTool(ctx *CommandContext) (*Tool, *config.AppConfig) {
	cfg, err := resolveConfig(ctx)
	if err != nil {
		Fatal(err)
	}

	catalog, err := config.LoadLevelCatalogOrDefault(cfg.LevelsFile)
	if err != nil {
		Fatal(err)
	}

	var prompter Confirmer = huhConfirmer{}
	if *ctx.NonInteractive {
		prompter = noopConfirmer{}
	}

	backend := storage.OpenFromConfig(cfg)
	if _, ok := backend.(*storage.MemoryBackend); ok && cfg.Storage != config.StorageMemory {
		PrintWarning("could not open %s storage, using an empty in-memory store (run with -v for details)", cfg.Storage)
	}

	tool, err := NewTool(backend, catalog, prompter)
	if err != nil {
		Fatal(err)
	}
	return tool, cfg
}

// closeTool 关闭存储后端，失败只打印警告
func closeTool(tool *Tool) {
	if err := tool.Close(); err != nil {
		PrintWarning("closing storage: %v", err)
	}
}
