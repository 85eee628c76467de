package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// separatorWidth は応答後の区切り線の幅
const separatorWidth = 50

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // 明るい水色
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // 黄緑
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // 灰色
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle      = lipgloss.NewStyle().Faint(true)
)

// Prompt は入力プロンプト文字列を返す
func Prompt() string {
	return promptStyle.Render("Query: ")
}

func separator() string {
	return separatorStyle.Render(strings.Repeat("=", separatorWidth))
}
