package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Player plays the one-shot notification cue.
type Player interface {
	Play(ctx context.Context) error
}

// NopPlayer is used when no sound command is configured.
type NopPlayer struct{}

func (NopPlayer) Play(context.Context) error { return nil }

// CommandPlayer plays the cue by running an external program such as
// "paplay" or "afplay" with the sound file as its last argument.
type CommandPlayer struct {
	argv   []string
	file   string
	logger *zap.Logger
}

// NewCommandPlayer splits command on whitespace.
func NewCommandPlayer(command, file string, logger *zap.Logger) (*CommandPlayer, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("sound command is required")
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("sound command: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandPlayer{argv: argv, file: file, logger: logger}, nil
}

// Play starts the program and returns without waiting for it to finish.
func (p *CommandPlayer) Play(_ context.Context) error {
	args := append(append([]string(nil), p.argv[1:]...), p.file)
	cmd := exec.Command(p.argv[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.argv[0], err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			p.logger.Warn("sound cue exited with error", zap.Error(err))
		}
	}()
	return nil
}
