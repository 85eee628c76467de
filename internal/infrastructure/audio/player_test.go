package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/kokoro/internal/domain/tts"
)

// fakeRunner は実行されたコマンドを記録する
type fakeRunner struct {
	name    string
	args    []string
	content []byte
	err     error
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) error {
	f.name = name
	f.args = args
	// 再生時点でファイルが存在することを確認
	path := args[len(args)-1]
	if strings.HasPrefix(name, "powershell") {
		path = strings.TrimSuffix(strings.TrimPrefix(args[len(args)-1], "(New-Object Media.SoundPlayer '"), "').PlaySync()")
	}
	f.content, _ = os.ReadFile(path)
	return f.err
}

func newTestPlayer(t *testing.T, command, goos string) (*Player, *fakeRunner, string) {
	t.Helper()
	dir := t.TempDir()
	fr := &fakeRunner{}
	return NewPlayer(command, WithRunner(fr.run), WithTempDir(dir), WithOS(goos)), fr, dir
}

func TestPlay_LinuxWAV(t *testing.T) {
	p, fr, dir := newTestPlayer(t, "", "linux")

	require.NoError(t, p.Play(context.Background(), tts.Audio{Data: []byte("RIFF"), Format: tts.FormatWAV}))

	assert.Equal(t, "aplay", fr.name)
	assert.Equal(t, "-q", fr.args[0])
	assert.Equal(t, []byte("RIFF"), fr.content)

	file := filepath.Base(fr.args[len(fr.args)-1])
	assert.True(t, strings.HasPrefix(file, "kokoro-"))
	assert.True(t, strings.HasSuffix(file, ".wav"))

	// 再生後に一時ファイルが削除される
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestPlay_LinuxMP3(t *testing.T) {
	p, fr, _ := newTestPlayer(t, "", "linux")

	require.NoError(t, p.Play(context.Background(), tts.Audio{Data: []byte("ID3"), Format: tts.FormatMP3}))
	assert.Equal(t, "ffplay", fr.name)
	assert.Contains(t, fr.args, "-autoexit")
}

func TestPlay_Darwin(t *testing.T) {
	p, fr, _ := newTestPlayer(t, "", "darwin")

	require.NoError(t, p.Play(context.Background(), tts.Audio{Data: []byte("RIFF"), Format: tts.FormatWAV}))
	assert.Equal(t, "afplay", fr.name)
	assert.Len(t, fr.args, 1)
}

func TestPlay_Windows(t *testing.T) {
	p, fr, _ := newTestPlayer(t, "", "windows")

	require.NoError(t, p.Play(context.Background(), tts.Audio{Data: []byte("RIFF"), Format: tts.FormatWAV}))
	assert.Equal(t, "powershell", fr.name)
	assert.Contains(t, fr.args[len(fr.args)-1], "Media.SoundPlayer")
	assert.Equal(t, []byte("RIFF"), fr.content)
}

func TestPlay_WindowsMP3Unsupported(t *testing.T) {
	p, _, dir := newTestPlayer(t, "", "windows")

	err := p.Play(context.Background(), tts.Audio{Data: []byte("ID3"), Format: tts.FormatMP3})
	assert.Error(t, err)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestPlay_CustomCommand(t *testing.T) {
	p, fr, _ := newTestPlayer(t, "mpv --no-video", "linux")

	require.NoError(t, p.Play(context.Background(), tts.Audio{Data: []byte("x"), Format: tts.FormatMP3}))
	assert.Equal(t, "mpv", fr.name)
	assert.Equal(t, "--no-video", fr.args[0])
	assert.Len(t, fr.args, 2)
}

func TestPlay_RunnerError(t *testing.T) {
	p, fr, dir := newTestPlayer(t, "", "linux")
	fr.err = errors.New("exit status 1")

	err := p.Play(context.Background(), tts.Audio{Data: []byte("RIFF"), Format: tts.FormatWAV})
	assert.ErrorContains(t, err, "aplay")

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestPlay_EmptyAudio(t *testing.T) {
	p, fr, _ := newTestPlayer(t, "", "linux")

	require.NoError(t, p.Play(context.Background(), tts.Audio{}))
	assert.Empty(t, fr.name)
}
