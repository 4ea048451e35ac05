package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARNING ", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"diagnostics", zerolog.TraceLevel, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tc := range cases {
		got, ok := ParseLevel(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v,%v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestApplyEnvOverridesProfile(t *testing.T) {
	t.Setenv("CALLWIRE_LOG_LEVEL", "error")
	t.Setenv("CALLWIRE_LOG_TIMESTAMP", "true")
	t.Setenv("CALLWIRE_LOG_NOCOLOR", "1")

	cfg := DefaultConfig(ProfileTest)
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Level != zerolog.ErrorLevel || !cfg.Timestamp || !cfg.NoColor {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestApplyEnvKeepsDefaultsWhenUnset(t *testing.T) {
	cfg := DefaultConfig(ProfileRuntime)
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Level != zerolog.InfoLevel || !cfg.Timestamp {
		t.Fatalf("runtime defaults changed: %+v", cfg)
	}
}

func TestApplyEnvRejectsBadBool(t *testing.T) {
	t.Setenv("CALLWIRE_LOG_TIMESTAMP", "sometimes")
	cfg := DefaultConfig(ProfileRuntime)
	if err := ApplyEnv(&cfg); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNewHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.WarnLevel, NoColor: true, Out: &buf})
	logger.Info().Msg("quiet")
	logger.Warn().Str("function", "add").Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "function=add") {
		t.Fatalf("warn message missing: %q", out)
	}
}
