// Package editor opens source locations in the user's editor for the
// panel's navigate messages.
package editor

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Opener places the cursor at a zero-based line/character position in the
// given file.
type Opener interface {
	Open(path string, line, character int) error
}

// CommandOpener launches a configured command with {file}, {line} and
// {column} substituted. Lines and columns are passed one-based, which is
// what every common editor CLI expects.
type CommandOpener struct {
	Template string
	Log      zerolog.Logger
}

// NewCommandOpener returns an opener for the given command template.
func NewCommandOpener(template string, log zerolog.Logger) *CommandOpener {
	return &CommandOpener{Template: template, Log: log}
}

// Open substitutes the target into the template and runs it detached; the
// editor owns its own lifetime.
func (o *CommandOpener) Open(path string, line, character int) error {
	argv := strings.Fields(o.Template)
	if len(argv) == 0 {
		return fmt.Errorf("empty editor command")
	}

	replacer := strings.NewReplacer(
		"{file}", path,
		"{line}", strconv.Itoa(line+1),
		"{column}", strconv.Itoa(character+1),
	)
	for i, a := range argv {
		argv[i] = replacer.Replace(a)
	}

	o.Log.Debug().Strs("argv", argv).Msg("opening editor")

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching editor: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
