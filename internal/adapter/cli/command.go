package cli

import "strings"

// Command はREPLのスラッシュコマンド
type Command string

const (
	CommandNone    Command = ""
	CommandQuit    Command = "quit"
	CommandReset   Command = "reset"
	CommandHistory Command = "history"
	CommandSay     Command = "say"
	CommandVoice   Command = "voice"
	CommandHelp    Command = "help"
	CommandUnknown Command = "unknown"
)

var commands = map[string]Command{
	"/quit":    CommandQuit,
	"/exit":    CommandQuit,
	"/reset":   CommandReset,
	"/history": CommandHistory,
	"/say":     CommandSay,
	"/voice":   CommandVoice,
	"/help":    CommandHelp,
}

// parseCommand は入力行からコマンドと引数を取り出す
// スラッシュで始まらない行は通常の発話として CommandNone を返す
func parseCommand(line string) (Command, string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return CommandNone, ""
	}

	name, arg, _ := strings.Cut(trimmed, " ")
	cmd, ok := commands[strings.ToLower(name)]
	if !ok {
		return CommandUnknown, name
	}
	return cmd, strings.TrimSpace(arg)
}

const helpText = `Commands:
  /say <text>     speak text without asking the model
  /voice [name]   show or change the TTS voice
  /history [n]    show the last n exchanges (default 5)
  /reset          clear the conversation history
  /help           show this help
  /quit, /exit    leave`
