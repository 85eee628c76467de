package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/Nyukimin/kokoro/internal/adapter/cli"
	"github.com/Nyukimin/kokoro/internal/adapter/config"
	"github.com/Nyukimin/kokoro/internal/infrastructure/logging"
)

// getConfigPath は設定ファイルパスを取得
func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if path := os.Getenv("KOKORO_CONFIG"); path != "" {
		return path
	}
	return config.DefaultPath
}

// setup は設定とロガーを読み込む
func setup() (*config.Config, *zap.Logger, error) {
	path := getConfigPath()

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.LogFile(),
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("config loaded", zap.String("path", path))
	return cfg, logger, nil
}

// runChat は対話ループを起動
func runChat(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	deps, err := buildDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	deps.orchestrator.Restore(ctx)

	var in cli.LineReader
	if readline.DefaultIsTerminal() {
		in, err = cli.NewTerminalReader(cli.Prompt(), filepath.Join(cfg.Path.Logs, ".kokoro_history"))
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
	} else {
		in = cli.NewScannerReader(os.Stdin, os.Stdout, cli.Prompt())
	}

	// speaker が nil のインターフェース値にならないようにする
	var voice cli.VoiceSpeaker
	if deps.speaker != nil {
		voice = deps.speaker
	}

	repl := cli.NewREPL(deps.orchestrator, voice, in, os.Stdout, logger)
	return repl.Run(ctx)
}

// runSay はテキストを直接読み上げる
func runSay(ctx context.Context, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	speaker, err := buildSpeaker(cfg, logger)
	if err != nil {
		return err
	}
	return speaker.Speak(ctx, strings.Join(args, " "))
}

// runHistory は保存済みの履歴を表示または削除
func runHistory(ctx context.Context, out io.Writer, reset bool, n int) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	repo, closeRepo, err := buildRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if reset {
		if err := repo.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	h, err := repo.Load(ctx)
	if err != nil {
		logger.Warn("failed to load part of the history", zap.Error(err))
	}
	cli.PrintHistory(out, h, n)
	return nil
}
