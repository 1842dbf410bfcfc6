package cli

import (
	"github.com/alecthomas/kong"

	"github.com/ardnew/frisp/lang"
	"github.com/ardnew/frisp/log"
)

type langConfig struct {
	Scoping    string   `default:"dynamic" enum:"dynamic,lexical"          help:"Parent of a lambda call scope: the caller's scope (dynamic) or the defining scope (lexical)."`
	Capability []string `default:"all"     enum:"all,none,eval,include" help:"Enabled optional special forms."                                                                sep:","`
}

func (*langConfig) group() kong.Group {
	return kong.Group{Key: "lang", Title: "Language options"}
}

// capabilities folds the selected names into a set. "none" clears
// everything named before it.
func (c *langConfig) capabilities() lang.Capability {
	var caps lang.Capability

	for _, name := range c.Capability {
		cap, ok := lang.ParseCapability(name)
		if !ok {
			continue
		}

		if cap == lang.CapNone {
			caps = lang.CapNone

			continue
		}

		caps |= cap
	}

	return caps
}

// options returns the interpreter options selected on the command line.
func (c *langConfig) options(logger log.Logger) []lang.Option {
	scoping, _ := lang.ParseScoping(c.Scoping)

	return []lang.Option{
		lang.WithLogger(logger),
		lang.WithScoping(scoping),
		lang.WithCapabilities(c.capabilities()),
	}
}
