// Package log provides the structured logger used by the interpreter and its
// command line, built on [log/slog].
//
// A [Logger] is an immutable value. Configuration is applied at creation
// time with functional options and derived loggers are produced with
// [Logger.Wrap] and [Logger.With]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//	logger = logger.With(slog.String("file", path))
//	logger.Debug("include", slog.Int("forms", n))
//
// The zero Logger discards everything, so components may hold one without
// checking whether logging was configured.
//
// Context-unaware methods delegate to their context-aware counterparts using
// [DefaultContextProvider].
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-form evaluation
// records. Messages below the configured level are discarded.
//
// # Formats
//
// [FormatJSON] and [FormatText] are supported. With [WithPretty] enabled,
// text output is colorized with lipgloss styles.
package log
