package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type rangeSetter interface {
	SetRange(days int) error
}

type command struct {
	quit bool
	days int
}

// parseCommand accepts "1", "7", "30", their "1D"-style labels, and "q".
func parseCommand(line string) (command, error) {
	s := strings.ToLower(strings.TrimSpace(line))
	switch s {
	case "":
		return command{}, nil
	case "q", "quit", "exit":
		return command{quit: true}, nil
	}
	days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil {
		return command{}, fmt.Errorf("unknown command %q", line)
	}
	return command{days: days}, nil
}

func readCommands(ctx context.Context, r io.Reader, p rangeSetter, quit func(), logger *zap.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			logger.Warn("ignoring input", zap.Error(err))
			continue
		}
		if cmd.quit {
			quit()
			return
		}
		if cmd.days == 0 {
			continue
		}
		if err := p.SetRange(cmd.days); err != nil {
			logger.Warn("ignoring range", zap.Error(err))
		}
	}
}
