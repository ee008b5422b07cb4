package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_WritesJSONAndFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "invgen.log")
	log := Init(Options{Level: "info", Output: &buf, File: file})

	log.Debug().Msg("hidden")
	log.Info().Str("user_id", "u1").Msg("user registered")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug line should be filtered at info level")
	}
	if !strings.Contains(buf.String(), `"user_id":"u1"`) {
		t.Fatalf("expected JSON field in output, got %q", buf.String())
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "user registered") {
		t.Fatalf("log file missing entry")
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}
