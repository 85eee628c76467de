// Package audio は合成音声を一時ファイルに書き出し、OSのコマンドで再生する。
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/Nyukimin/kokoro/internal/domain/tts"
)

// Runner は外部コマンドを実行し、終了まで待つ
type Runner func(ctx context.Context, name string, args ...string) error

// Option はPlayerの設定
type Option func(*Player)

// WithRunner はコマンド実行関数を差し替える（テスト用）
func WithRunner(run Runner) Option {
	return func(p *Player) {
		p.run = run
	}
}

// WithTempDir は一時ファイルの作成先を設定
func WithTempDir(dir string) Option {
	return func(p *Player) {
		p.tempDir = dir
	}
}

// WithOS は再生コマンドを選ぶOSを設定（テスト用）
func WithOS(goos string) Option {
	return func(p *Player) {
		p.goos = goos
	}
}

// Player はコマンドベースのtts.Player実装
type Player struct {
	command []string // 空の場合はOSごとの既定コマンド
	tempDir string
	goos    string
	run     Runner
}

// NewPlayer は新しいPlayerを作成
// command を指定した場合（例: "paplay", "mpv --no-video"）、末尾に音声ファイルのパスを付けて実行する
func NewPlayer(command string, opts ...Option) *Player {
	p := &Player{
		command: strings.Fields(command),
		tempDir: os.TempDir(),
		goos:    runtime.GOOS,
		run:     runCommand,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play は音声を再生し、終了後に一時ファイルを削除する
func (p *Player) Play(ctx context.Context, audio tts.Audio) error {
	if audio.IsEmpty() {
		return nil
	}

	format := audio.Format
	if format == "" {
		format = tts.FormatWAV
	}

	path := filepath.Join(p.tempDir, fmt.Sprintf("kokoro-%s.%s", uuid.NewString(), format))
	if err := os.WriteFile(path, audio.Data, 0o600); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	defer os.Remove(path)

	name, args, err := p.commandFor(format, path)
	if err != nil {
		return err
	}

	if err := p.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// commandFor は再生コマンドと引数を決定
func (p *Player) commandFor(format, path string) (string, []string, error) {
	if len(p.command) > 0 {
		args := append(append([]string{}, p.command[1:]...), path)
		return p.command[0], args, nil
	}

	switch p.goos {
	case "darwin":
		return "afplay", []string{path}, nil

	case "windows":
		if format != tts.FormatWAV {
			return "", nil, fmt.Errorf("no default %s player on windows, set tts.player", format)
		}
		script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", path)
		return "powershell", []string{"-NoProfile", "-c", script}, nil

	default:
		if format == tts.FormatWAV {
			return "aplay", []string{"-q", path}, nil
		}
		return "ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}, nil
	}
}

// runCommand は既定のRunner
func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
