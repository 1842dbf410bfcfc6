// Package cli contains the command line interface for frisp.
//
// # Usage
//
// With no command, frisp runs its arguments as scripts:
//
//	frisp script.lisp
//	frisp -e '(print (+ 1 2))'
//	frisp repl --plain
//	frisp fmt json script.lisp
//	frisp test ./scripts
//
// # Configuration
//
// Flag defaults are read from config.json and config.lisp in the user
// configuration directory (for example ~/.config/frisp). The directory may
// be overridden with FRISP_CONFIG_DIR, and the cache directory holding
// session history and profiles with FRISP_CACHE_DIR. The environment
// variable prefix follows the executable name.
//
// config.lisp is an ordinary script evaluated with eval and include
// disabled. Every constant it defines names the flag it configures:
//
//	(define log-level "debug")
//	(define scoping "lexical")
//	(define capability (list "eval"))
//
// Run "frisp init" to write the current flag values as a starting point.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Language Options
//
//   - --scoping: Parent of a lambda call scope (dynamic, lexical)
//   - --capability: Enabled optional special forms (all, none, eval, include)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o frisp .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/frisp/pprof)
package cli
