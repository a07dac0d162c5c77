package main

import (
	"bytes"
	"testing"

	"github.com/deixis/ampyctl/internal/runner"
	"github.com/stretchr/testify/assert"
)

func TestWriteLine(t *testing.T) {
	for _, color := range []bool{false, true} {
		var stdout, stderr bytes.Buffer
		writeLine(&stdout, &stderr, color, runner.Line{Stream: runner.Stdout, Text: "out"})
		writeLine(&stdout, &stderr, color, runner.Line{Stream: runner.Stderr, Text: "err"})

		assert.Equal(t, "out\n", stdout.String(), "color=%v", color)
		if color {
			assert.Equal(t, colorRed+"err"+colorReset+"\n", stderr.String())
		} else {
			assert.Equal(t, "err\n", stderr.String())
		}
	}
}
