package cli

import (
	"testing"

	"github.com/ardnew/frisp/lang"
	"github.com/ardnew/frisp/log"
)

func TestLangConfig_Capabilities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		names []string
		want  lang.Capability
	}{
		{names: []string{"all"}, want: lang.CapAll},
		{names: []string{"none"}, want: lang.CapNone},
		{names: []string{"eval"}, want: lang.CapEval},
		{names: []string{"eval", "include"}, want: lang.CapAll},
		{names: []string{"all", "none", "include"}, want: lang.CapInclude},
		{names: nil, want: lang.CapNone},
	}

	for _, tt := range tests {
		c := langConfig{Capability: tt.names}
		if got := c.capabilities(); got != tt.want {
			t.Errorf("capabilities(%q) = %v, want %v", tt.names, got, tt.want)
		}
	}
}

func TestLangConfig_Options(t *testing.T) {
	t.Parallel()

	c := langConfig{Scoping: "lexical", Capability: []string{"include"}}
	env := lang.NewEnvironment(c.options(log.Logger{})...)

	if got := env.Scoping(); got != lang.ScopeLexical {
		t.Errorf("Scoping() = %v, want %v", got, lang.ScopeLexical)
	}

	if got := env.Capabilities(); got != lang.CapInclude {
		t.Errorf("Capabilities() = %v, want %v", got, lang.CapInclude)
	}
}

// TestLogConfig_Scan reconfigures the default logger, so it does not run in
// parallel.
func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() {
		log.Config(log.WithLevel(log.DefaultLevel), log.WithCaller(false), log.WithPretty(true))
	})

	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantPretty bool
		wantCaller bool
	}{
		{
			name:       "separate_value",
			args:       []string{"run", "--log-level", "debug", "x.lisp"},
			wantLevel:  "debug",
			wantPretty: true,
		},
		{
			name:       "assigned_value",
			args:       []string{"--log-format=json", "--log-caller"},
			wantFormat: "json",
			wantPretty: true,
			wantCaller: true,
		},
		{
			name: "negated_bool",
			args: []string{"--no-log-pretty", "--log-caller=false"},
		},
		{
			name:       "stops_at_terminator",
			args:       []string{"--", "--log-level=error", "--log-caller"},
			wantPretty: true,
		},
		{
			name:       "flag_value_not_consumed",
			args:       []string{"--log-level", "--log-caller"},
			wantPretty: true,
			wantCaller: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", f.Level, tt.wantLevel)
			}

			if f.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", f.Format, tt.wantFormat)
			}

			if f.Pretty != tt.wantPretty {
				t.Errorf("Pretty = %v, want %v", f.Pretty, tt.wantPretty)
			}

			if f.Caller != tt.wantCaller {
				t.Errorf("Caller = %v, want %v", f.Caller, tt.wantCaller)
			}
		})
	}
}

func TestEnvVar(t *testing.T) {
	t.Parallel()

	got := envVar("CONFIG_DIR")
	if want := "CONFIG_DIR"; len(got) <= len(want) || got[len(got)-len(want):] != want {
		t.Errorf("envVar() = %q, want suffix %q", got, want)
	}

	for _, r := range got {
		if r == '-' || r == '.' || ('a' <= r && r <= 'z') {
			t.Errorf("envVar() = %q contains %q", got, r)
		}
	}
}
