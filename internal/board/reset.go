package board

import (
	"errors"
	"fmt"
	"strings"
)

// ResetMode selects how ampy resets the board.
type ResetMode int

// ResetRepl is the zero value and the default.
const (
	ResetRepl ResetMode = iota
	ResetBootloader
	ResetHard
	ResetSafe
)

// ErrInvalidResetMode is returned for a ResetMode outside the known set.
var ErrInvalidResetMode = errors.New("invalid reset mode")

var resetFlags = map[ResetMode]string{
	ResetBootloader: "--bootloader",
	ResetHard:       "--hard",
	ResetRepl:       "--repl",
	ResetSafe:       "--safe",
}

var resetNames = map[ResetMode]string{
	ResetBootloader: "bootloader",
	ResetHard:       "hard",
	ResetRepl:       "repl",
	ResetSafe:       "safe",
}

func (m ResetMode) String() string {
	if name, ok := resetNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ResetMode(%d)", int(m))
}

// Flag returns the ampy flag for m.
func (m ResetMode) Flag() (string, error) {
	f, ok := resetFlags[m]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidResetMode, int(m))
	}
	return f, nil
}

// ParseResetMode parses a mode name ("bootloader", "hard", "repl", "safe").
// An empty string yields ResetRepl.
func ParseResetMode(s string) (ResetMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ResetRepl, nil
	}
	for m, name := range resetNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidResetMode, s)
}

func resetArgs(mode ResetMode) ([]string, error) {
	f, err := mode.Flag()
	if err != nil {
		return nil, err
	}
	return []string{"reset", f}, nil
}
