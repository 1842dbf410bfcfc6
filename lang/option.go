package lang

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ardnew/frisp/log"
)

// Capability is a set of optional special forms.
type Capability uint8

const (
	// CapEval enables the eval special form.
	CapEval Capability = 1 << iota
	// CapInclude enables the include special form.
	CapInclude

	// CapNone disables every optional special form.
	CapNone Capability = 0
	// CapAll enables every optional special form.
	CapAll = CapEval | CapInclude
)

// Has reports whether every capability in c is enabled in s.
func (s Capability) Has(c Capability) bool { return s&c == c }

// ParseCapability parses a capability name: "eval", "include", "all", or
// "none".
func ParseCapability(s string) (Capability, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case formEval:
		return CapEval, true
	case formInclude:
		return CapInclude, true
	case "all":
		return CapAll, true
	case "none":
		return CapNone, true
	default:
		return CapNone, false
	}
}

// Scoping selects the parent of the scope created for a lambda call.
type Scoping uint8

const (
	// ScopeDynamic makes each call scope a child of the calling scope, so
	// free names in a lambda body resolve where the lambda is invoked.
	ScopeDynamic Scoping = iota
	// ScopeLexical makes each call scope a child of the scope in which the
	// lambda was created.
	ScopeLexical
)

func (s Scoping) String() string {
	if s == ScopeLexical {
		return "lexical"
	}

	return "dynamic"
}

// ParseScoping parses "dynamic" or "lexical".
func ParseScoping(s string) (Scoping, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dynamic":
		return ScopeDynamic, true
	case "lexical":
		return ScopeLexical, true
	default:
		return ScopeDynamic, false
	}
}

type config struct {
	logger  log.Logger
	stdout  io.Writer
	stdin   *bufio.Reader
	args    []string
	environ []string
	caps    Capability
	scoping Scoping
}

// Option configures an interpreter runtime.
type Option func(config) config

func makeConfig(opts ...Option) config {
	c := config{
		stdout: os.Stdout,
		stdin:  bufio.NewReader(os.Stdin),
		caps:   CapAll,
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// WithLogger sets the logger receiving evaluation records.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.logger = l

		return c
	}
}

// WithOutput sets the writer used by print and debug.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.stdout = w

		return c
	}
}

// WithInput sets the reader used by read-line.
func WithInput(r io.Reader) Option {
	return func(c config) config {
		if r == nil {
			r = strings.NewReader("")
		}

		if br, ok := r.(*bufio.Reader); ok {
			c.stdin = br
		} else {
			c.stdin = bufio.NewReader(r)
		}

		return c
	}
}

// WithCapabilities sets the enabled optional special forms.
func WithCapabilities(caps Capability) Option {
	return func(c config) config {
		c.caps = caps

		return c
	}
}

// WithScoping sets the lambda call scoping strategy.
func WithScoping(s Scoping) Option {
	return func(c config) config {
		c.scoping = s

		return c
	}
}

// WithArgs binds args in the default environment to a List of String
// holding a.
func WithArgs(a ...string) Option {
	return func(c config) config {
		c.args = append([]string{}, a...)

		return c
	}
}

// WithEnviron binds env in the default environment to a List of
// (name value) pairs parsed from "NAME=value" entries, as returned by
// [os.Environ].
func WithEnviron(environ []string) Option {
	return func(c config) config {
		c.environ = append([]string{}, environ...)

		return c
	}
}
