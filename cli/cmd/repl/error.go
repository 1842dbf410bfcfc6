package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds    = errors.New("index out of range")
	ErrEditDeclined   = errors.New("decline edit")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNotInteractive = errors.New("command requires an interactive terminal")
)
