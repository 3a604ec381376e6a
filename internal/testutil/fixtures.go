// Package testutil provides test helper utilities for taskdeck tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
)

// TempHome creates a temporary home directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempHome(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// Ada is the default account seeded into a FakeAPI by tests.
var Ada = api.User{ID: "u1", Name: "Ada", Email: "a@b.com"}

// AdaPassword is Ada's password.
const AdaPassword = "secret1"

// SampleTasks returns three tasks owned by Ada, in server order.
func SampleTasks() []api.Task {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return []api.Task{
		{ID: "t1", Title: "Write report", Description: "d", CreatedAt: base, CreatedBy: Ada.ID},
		{ID: "t2", Title: "Review PR", Description: "backend", CreatedAt: base.Add(time.Hour), CreatedBy: Ada.ID},
		{ID: "t3", Title: "Plan sprint", Description: "", CreatedAt: base.Add(2 * time.Hour), CreatedBy: Ada.ID},
	}
}
