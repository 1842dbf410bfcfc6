package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/frisp/lang"
	"github.com/ardnew/frisp/log"
	"github.com/ardnew/frisp/pkg"
	"github.com/ardnew/frisp/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# %s configuration\n\n", pkg.Name)

	err = lang.Format(ctx, file, configForms(ktx), defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configForms returns one (define flag value) form for every configurable
// flag with a value.
func configForms(ktx *kong.Context) []lang.Node {
	var forms []lang.Node

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := flagLiteral(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		forms = append(forms, lang.ListNode(
			lang.SymbolNode("define"),
			lang.SymbolNode(flag.Name),
			val,
		))
	}

	return forms
}

// flagLiteral returns the expression that evaluates to a flag value.
// Booleans become 1 or 0 and slices become (list ...) forms. Empty strings,
// empty slices, and unsupported kinds report false.
func flagLiteral(x any) (lang.Node, bool) {
	if x == nil {
		return lang.Node{}, false
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Bool:
		return lang.LiteralNode(lang.BoolValue(rv.Bool())), true

	case reflect.String:
		if rv.String() == "" {
			return lang.Node{}, false
		}

		return lang.LiteralNode(lang.StringValue(rv.String())), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lang.LiteralNode(lang.IntValue(int(rv.Int()))), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lang.LiteralNode(lang.IntValue(int(rv.Uint()))), true

	case reflect.Float32, reflect.Float64:
		return lang.LiteralNode(lang.FloatValue(rv.Float())), true

	case reflect.Slice:
		if rv.Len() == 0 {
			return lang.Node{}, false
		}

		items := make([]lang.Node, 0, rv.Len()+1)
		items = append(items, lang.SymbolNode("list"))

		for i := range rv.Len() {
			item, ok := flagLiteral(rv.Index(i).Interface())
			if !ok {
				return lang.Node{}, false
			}

			items = append(items, item)
		}

		return lang.ListNode(items...), true
	}

	return lang.Node{}, false
}
