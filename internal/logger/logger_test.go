package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitReadsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	Init()
	if got := zerolog.GlobalLevel(); got != zerolog.WarnLevel {
		t.Errorf("global level = %s, want warn", got)
	}
}

func TestInitDefaultsToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	Init()
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level = %s, want info", got)
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "shouting")
	Init()
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level = %s, want info fallback", got)
	}
}

func TestInitWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_LEVEL", "info")
	Init()

	log.Info().Msg("file sink check")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "file sink check") {
		t.Errorf("log file missing entry: %q", data)
	}
}
