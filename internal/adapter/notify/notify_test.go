package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"waypoint/internal/app/discovery/discoverytest"
	"waypoint/internal/domain/region"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestTitleIsLowercased(t *testing.T) {
	got := Title(region.Region{Name: "Old Camp"})
	if got != "- old camp discovered -" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestLogNotifierWritesTitle(t *testing.T) {
	var buf bytes.Buffer
	n := Log{Logger: log.New(&buf)}
	n.NotifyDiscovered(context.Background(), uuid.New(), region.Region{ID: uuid.New(), Name: "Camp"})
	if !strings.Contains(buf.String(), "- camp discovered -") {
		t.Fatalf("expected title in log output, got %q", buf.String())
	}
}

func TestFanoutDeliversToAll(t *testing.T) {
	a, b := &discoverytest.Notifier{}, &discoverytest.Notifier{}
	f := Fanout{a, nil, b}
	f.NotifyDiscovered(context.Background(), uuid.New(), region.Region{Name: "Camp"})
	if len(a.Sent) != 1 || len(b.Sent) != 1 {
		t.Fatalf("expected one notification each, got %d and %d", len(a.Sent), len(b.Sent))
	}
}
