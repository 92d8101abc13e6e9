package log

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	l := Ctx(context.Background())
	if l.GetLevel() != global.GetLevel() {
		t.Error("Ctx() without a stored logger should return the global logger")
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	child := New(Config{Level: "error"})
	ctx := WithLogger(context.Background(), child)

	got := Ctx(ctx)
	if got.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("stored logger level = %v, want error", got.GetLevel())
	}
}
