package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingSetter struct {
	days []int
}

func (r *recordingSetter) SetRange(days int) error {
	r.days = append(r.days, days)
	return nil
}

func TestParseCommand(t *testing.T) {
	cases := map[string]command{
		"7":    {days: 7},
		" 30 ": {days: 30},
		"1D":   {days: 1},
		"7d":   {days: 7},
		"q":    {quit: true},
		"":     {},
	}
	for in, want := range cases {
		got, err := parseCommand(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseCommand("weekly")
	assert.Error(t, err)
}

func TestReadCommands(t *testing.T) {
	setter := &recordingSetter{}
	quit := false
	in := strings.NewReader("1D\nbogus\n\n30\nq\n7\n")

	readCommands(context.Background(), in, setter, func() { quit = true }, zaptest.NewLogger(t))

	assert.True(t, quit)
	assert.Equal(t, []int{1, 30}, setter.days, "input after quit is not read")
}
