package state

import (
	"os"
	"path/filepath"
	"testing"
)

// chdirTemp moves the test into an isolated directory so the state dir
// never lands in the developer's tree.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
	return dir
}

func TestUndoRedoRoundTrip(t *testing.T) {
	dir := chdirTemp(t)

	target := filepath.Join(dir, "UIManager.cs")
	if err := os.WriteFile(target, []byte("after"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if m.HasHistory() {
		t.Error("fresh manager must have no history")
	}

	if err := m.Write([]Change{{Path: target, Before: "before", After: "after"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !m.HasHistory() {
		t.Error("expected history after Write")
	}

	restored, failed := m.Undo()
	if len(failed) != 0 {
		t.Fatalf("Undo failed for %v", failed)
	}
	if len(restored) != 1 || restored[0] != target {
		t.Fatalf("Undo restored %v, want [%s]", restored, target)
	}
	if got := readFile(t, target); got != "before" {
		t.Errorf("after undo content = %q, want %q", got, "before")
	}
	if !m.HasRedo() {
		t.Error("expected redo to be available after undo")
	}

	restored, failed = m.Redo()
	if len(failed) != 0 || len(restored) != 1 {
		t.Fatalf("Redo restored %v, failed %v", restored, failed)
	}
	if got := readFile(t, target); got != "after" {
		t.Errorf("after redo content = %q, want %q", got, "after")
	}
}

func TestUndoRefusesModifiedFile(t *testing.T) {
	dir := chdirTemp(t)

	target := filepath.Join(dir, "Minimap.cs")
	if err := os.WriteFile(target, []byte("after"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Write([]Change{{Path: target, Before: "before", After: "after"}}); err != nil {
		t.Fatal(err)
	}

	// Edit the file behind the manager's back.
	if err := os.WriteFile(target, []byte("hand edited"), 0644); err != nil {
		t.Fatal(err)
	}

	restored, failed := m.Undo()
	if len(restored) != 0 {
		t.Errorf("Undo restored %v, want none", restored)
	}
	if len(failed) != 1 || failed[0] != target {
		t.Errorf("Undo failed = %v, want [%s]", failed, target)
	}
	if got := readFile(t, target); got != "hand edited" {
		t.Errorf("file was overwritten despite mismatch: %q", got)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	dir := chdirTemp(t)

	target := filepath.Join(dir, "ArenaManager.cs")
	if err := os.WriteFile(target, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Write([]Change{{Path: target, Before: "v1", After: "v2"}}); err != nil {
		t.Fatal(err)
	}

	// A fresh manager in the same directory sees the recorded run.
	m2, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if !m2.HasHistory() {
		t.Fatal("reloaded manager lost history")
	}

	restored, failed := m2.Undo()
	if len(failed) != 0 || len(restored) != 1 {
		t.Fatalf("Undo after reload: restored %v, failed %v", restored, failed)
	}
	if got := readFile(t, target); got != "v1" {
		t.Errorf("after undo content = %q, want %q", got, "v1")
	}
}

func TestEmptyWriteRecordsNothing(t *testing.T) {
	chdirTemp(t)

	m, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Write(nil); err != nil {
		t.Fatal(err)
	}
	if m.HasHistory() {
		t.Error("empty write must not create a history entry")
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
