package cli

import (
	"bufio"
	"errors"
	"io"

	"github.com/chzyer/readline"
)

// ErrInterrupt は入力中のCtrl-C
var ErrInterrupt = readline.ErrInterrupt

// LineReader は1行ずつ入力を読む
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// NewTerminalReader は行編集と入力履歴付きのLineReaderを作成
func NewTerminalReader(prompt, historyFile string) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return nil, err
	}
	return rl, nil
}

// scannerReader は端末以外の入力（パイプ・テスト）用のLineReader
type scannerReader struct {
	scanner *bufio.Scanner
	prompt  string
	out     io.Writer
}

// NewScannerReader はio.ReaderからのLineReaderを作成
func NewScannerReader(in io.Reader, out io.Writer, prompt string) LineReader {
	return &scannerReader{
		scanner: bufio.NewScanner(in),
		prompt:  prompt,
		out:     out,
	}
}

func (s *scannerReader) Readline() (string, error) {
	if s.out != nil && s.prompt != "" {
		io.WriteString(s.out, s.prompt)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scannerReader) Close() error {
	return nil
}

// isEOF は入力終了かを判定
func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
