// Package cli は対話ループ（REPL）を提供する。
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Nyukimin/kokoro/internal/application/orchestrator"
	"github.com/Nyukimin/kokoro/internal/domain/conversation"
)

// defaultHistoryCount は /history で表示する既定の件数
const defaultHistoryCount = 5

// TurnProcessor は1ターンの会話処理を担当
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, input string) (orchestrator.TurnResult, error)
	Reset(ctx context.Context) error
	History() *conversation.History
}

// VoiceSpeaker は読み上げを担当
type VoiceSpeaker interface {
	Speak(ctx context.Context, text string) error
	SetVoice(voice string)
	Voice() string
}

// REPL は入力を読み、応答を表示し、読み上げる対話ループ
type REPL struct {
	turns   TurnProcessor
	speaker VoiceSpeaker // nil の場合は読み上げない
	in      LineReader
	out     io.Writer
	logger  *zap.Logger

	// interruptible はターン処理中のCtrl-Cでそのターンだけを中断するコンテキストを作る
	interruptible func(ctx context.Context) (context.Context, context.CancelFunc)
}

// NewREPL は新しいREPLを作成
func NewREPL(turns TurnProcessor, speaker VoiceSpeaker, in LineReader, out io.Writer, logger *zap.Logger) *REPL {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &REPL{
		turns:   turns,
		speaker: speaker,
		in:      in,
		out:     out,
		logger:  logger,
		interruptible: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}
}

// Run は入力が終わるか /quit が入力されるまでループする
func (r *REPL) Run(ctx context.Context) error {
	defer r.in.Close()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := r.in.Readline()
		if err != nil {
			if errors.Is(err, ErrInterrupt) {
				// 空行でのCtrl-Cは終了、入力途中なら破棄して続行
				if line == "" {
					return nil
				}
				continue
			}
			if isEOF(err) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		cmd, arg := parseCommand(line)
		switch cmd {
		case CommandNone:
			r.handleTurn(ctx, line)
		case CommandQuit:
			return nil
		default:
			r.handleCommand(ctx, cmd, arg)
		}
	}
}

// handleTurn は1ターンを処理して表示・読み上げする
func (r *REPL) handleTurn(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if conversation.ValidateQuery(line) != nil {
		return
	}

	turnCtx, stop := r.interruptible(ctx)
	defer stop()

	result, err := r.turns.ProcessTurn(turnCtx, line)
	if err != nil {
		if errors.Is(turnCtx.Err(), context.Canceled) && ctx.Err() == nil {
			r.printError("interrupted")
			return
		}
		r.logger.Error("turn failed", zap.Error(err))
		r.printError(err.Error())
		return
	}

	fmt.Fprintf(r.out, "%s%s\n", answerStyle.Render("Answer:"), result.Answer)
	fmt.Fprintln(r.out, separator())

	r.speak(turnCtx, result.Answer)
}

// handleCommand はスラッシュコマンドを実行
func (r *REPL) handleCommand(ctx context.Context, cmd Command, arg string) {
	switch cmd {
	case CommandReset:
		if err := r.turns.Reset(ctx); err != nil {
			r.printError(err.Error())
			return
		}
		r.printInfo("History cleared.")

	case CommandHistory:
		n := defaultHistoryCount
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v <= 0 {
				r.printError(fmt.Sprintf("invalid count: %q", arg))
				return
			}
			n = v
		}
		PrintHistory(r.out, r.turns.History(), n)

	case CommandSay:
		if arg == "" {
			r.printError("usage: /say <text>")
			return
		}
		if r.speaker == nil {
			r.printError("speech is disabled (set tts.enabled)")
			return
		}
		turnCtx, stop := r.interruptible(ctx)
		defer stop()
		r.speak(turnCtx, arg)

	case CommandVoice:
		if r.speaker == nil {
			r.printError("speech is disabled (set tts.enabled)")
			return
		}
		if arg == "" {
			r.printInfo(fmt.Sprintf("Voice: %q", r.speaker.Voice()))
			return
		}
		r.speaker.SetVoice(arg)
		r.printInfo(fmt.Sprintf("Voice set to %q", arg))

	case CommandHelp:
		fmt.Fprintln(r.out, helpText)

	case CommandUnknown:
		r.printError(fmt.Sprintf("unknown command: %s (try /help)", arg))
	}
}

// speak は読み上げを実行（失敗しても会話は続行）
func (r *REPL) speak(ctx context.Context, text string) {
	if r.speaker == nil {
		return
	}
	if err := r.speaker.Speak(ctx, text); err != nil {
		r.logger.Warn("speech failed", zap.Error(err))
	}
}

func (r *REPL) printError(msg string) {
	fmt.Fprintln(r.out, errorStyle.Render("Error: "+msg))
}

func (r *REPL) printInfo(msg string) {
	fmt.Fprintln(r.out, infoStyle.Render(msg))
}

// PrintHistory は直近n件のやり取りを表示
func PrintHistory(w io.Writer, h *conversation.History, n int) {
	chats := h.RecentChats(n)
	if len(chats) == 0 {
		fmt.Fprintln(w, infoStyle.Render("No history yet."))
		return
	}
	for _, c := range chats {
		fmt.Fprintf(w, "%s\n%s %s\n%s%s\n",
			infoStyle.Render("["+c.Timestamp+"]"),
			promptStyle.Render("Query:"), c.Query,
			answerStyle.Render("Answer:"), c.Answer,
		)
	}
	fmt.Fprintln(w, separator())
}
