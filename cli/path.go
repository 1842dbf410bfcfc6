package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/frisp/pkg"
)

// baseConfig is the base name shared by the configuration files.
const baseConfig = "config"

// Extensions of the configuration files read at startup, in load order.
const (
	extJSON = ".json"
	extLisp = ".lisp"
)

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the identifier used to name the configuration and cache
// directories and to prefix environment variables.
//
// It is the base name of the executable file with these substitutions:
//   - "__debug_bin" (default output of the dlv debugger): replaced with
//     [pkg.Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name,
			regexp.MustCompile(`^\.+`):             "",
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = pkg.Name
		}

		return id
	},
)

// envVar returns the name of the environment variable that overrides the
// directory with the given suffix, e.g. FRISP_CONFIG_DIR.
func envVar(suffix string) string {
	name := strings.ToUpper(basePrefix() + "_" + suffix)

	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}

		return r
	}, name)
}

// userDir resolves a per-user directory for this program. An environment
// override takes precedence. Otherwise the platform directory returned by
// userFunc is used, falling back to fallback under the home directory and
// finally to the working directory.
func userDir(override string, userFunc func() (string, error), fallback string) string {
	if dir := os.Getenv(envVar(override)); dir != "" {
		return dir
	}

	dir, err := userFunc()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

// configDir returns the configuration directory path.
func configDir() string {
	return userDir("CONFIG_DIR", os.UserConfigDir, ".config")
}

// cacheDir returns the directory used for transient files such as the
// interactive session history and profiles.
func cacheDir() string {
	return userDir("CACHE_DIR", os.UserCacheDir, ".cache")
}

// configPath joins the configuration directory with the given elements.
// With no elements it is equivalent to [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
