package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestFallbackSignedOut(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFallbackRunner(&buf, false).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "taskdeck login") {
		t.Errorf("expected login hint, got %q", buf.String())
	}
}

func TestFallbackSignedIn(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFallbackRunner(&buf, true).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "taskdeck tasks list") {
		t.Errorf("expected tasks hint, got %q", out)
	}
	if strings.Contains(out, "taskdeck login") {
		t.Errorf("signed-in guidance should not ask to log in: %q", out)
	}
}
