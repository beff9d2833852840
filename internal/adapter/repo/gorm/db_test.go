package gormrepo

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestGormConfigRoutesErrorsToLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := gormConfig(log.New(&buf))

	cfg.Logger.Error(context.Background(), "relation %q does not exist", "regions")
	cfg.Logger.Info(context.Background(), "connected")

	out := buf.String()
	if !strings.Contains(out, `relation "regions" does not exist`) {
		t.Fatalf("expected sql error in log, got %q", out)
	}
	if strings.Contains(out, "connected") {
		t.Fatalf("info lines should be filtered, got %q", out)
	}
}

func TestGormConfigWithoutLoggerIsSilent(t *testing.T) {
	cfg := gormConfig(nil)
	if cfg.Logger == nil {
		t.Fatalf("expected a discard logger")
	}
}
