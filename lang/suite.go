package lang

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	// TestFileSuffix marks script files holding tests.
	TestFileSuffix = "test.lisp"
	// TestPrefix marks the bindings of a test file that are tests.
	TestPrefix = "test-"
)

// TestResult is the outcome of one test binding, or of loading a test
// file when Name is empty.
type TestResult struct {
	Err     error
	File    string
	Name    string
	Elapsed time.Duration
}

// Passed reports whether the test succeeded.
func (r TestResult) Passed() bool { return r.Err == nil }

// RunSuite runs script tests. Each path is a test file or a directory
// searched recursively for files named with [TestFileSuffix]. Every file
// is evaluated in its own child scope of env; afterwards each binding of
// that scope named with [TestPrefix] is called with no arguments.
//
// The returned error reports only a failure to find test files. Test
// failures are recorded in the results.
func RunSuite(ctx context.Context, env *Environment, paths ...string) ([]TestResult, error) {
	files, err := TestFiles(paths...)
	if err != nil {
		return nil, err
	}

	var results []TestResult

	for _, file := range files {
		results = append(results, runTestFile(ctx, env, file)...)
	}

	return results, nil
}

func runTestFile(ctx context.Context, env *Environment, file string) []TestResult {
	scope := env.Sub()
	start := time.Now()

	if _, err := EvalFileWithEnv(ctx, file, scope); err != nil {
		return []TestResult{{File: file, Err: err, Elapsed: time.Since(start)}}
	}

	var results []TestResult

	for _, name := range scope.Local() {
		if !strings.HasPrefix(name, TestPrefix) {
			continue
		}

		start := time.Now()
		_, err := scope.Invoke(ctx, name)

		scope.logger().DebugContext(ctx, "test",
			slog.String("file", file),
			slog.String("name", name),
			slog.Bool("passed", err == nil))

		results = append(results, TestResult{
			File:    file,
			Name:    name,
			Err:     err,
			Elapsed: time.Since(start),
		})
	}

	return results
}

// TestFiles expands paths into the sorted list of test files they name.
func TestFiles(paths ...string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, ErrReadInput.With(slog.String("path", path)).Wrap(err)
		}

		if !info.IsDir() {
			files = append(files, path)

			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && strings.HasSuffix(d.Name(), TestFileSuffix) {
				files = append(files, p)
			}

			return nil
		})
		if err != nil {
			return nil, ErrReadInput.With(slog.String("path", path)).Wrap(err)
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}
