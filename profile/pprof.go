//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// Enabled reports whether profiling was compiled in.
const Enabled = true

// Modes returns the supported profiling modes in sorted order.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(mode))
	},
)

var mode = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// option appends profile settings derived from a Profiler.
type option func(opts []func(*profile.Profile), p Profiler) []func(*profile.Profile)

func withMode(opts []func(*profile.Profile), p Profiler) []func(*profile.Profile) {
	if fn, ok := mode[p.Mode]; ok {
		opts = append(opts, fn)
	}

	return opts
}

func withDir(opts []func(*profile.Profile), p Profiler) []func(*profile.Profile) {
	if p.Dir != "" {
		opts = append(opts, profile.ProfilePath(p.Dir))
	}

	return opts
}

func withQuiet(opts []func(*profile.Profile), p Profiler) []func(*profile.Profile) {
	if p.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return opts
}

func start(p Profiler) Stopper {
	if _, ok := mode[p.Mode]; !ok {
		return ignore{}
	}

	var opts []func(*profile.Profile)

	for _, apply := range []option{withMode, withDir, withQuiet} {
		opts = apply(opts, p)
	}

	// Signal handling is left to the host, which cancels evaluation on
	// interrupt and stops the profiler on the way out.
	return profile.Start(append(opts, profile.NoShutdownHook)...)
}
