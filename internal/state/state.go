// Package state persists run history so a writing run can be undone and
// redone. Each run snapshots both sides of every rewritten file under a
// dot-directory at the repository root.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	stateDirName  = ".desingle"
	stateFileName = "state.desingle"
	snapshotsDir  = "snapshots"
)

// Change holds both sides of one file rewrite for history purposes.
type Change struct {
	Path   string
	Before string
	After  string
}

// Operation is one recorded file rewrite.
type Operation struct {
	Path       string
	BeforeHash string
	AfterHash  string
}

// HistoryEntry represents one complete writing run.
type HistoryEntry struct {
	Timestamp  int64
	Operations []Operation
}

// State is the entire state file.
type State struct {
	History      []HistoryEntry
	CurrentIndex int
}

// Manager handles the lifecycle of the state file and snapshots.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
}

// findGitRoot finds the root of the git repository.
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// New creates and loads a state manager rooted at the git toplevel, falling
// back to the current working directory.
func New() (*Manager, error) {
	rootDir, err := findGitRoot()
	if err != nil {
		rootDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
	}

	stateDir := filepath.Join(rootDir, stateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		m.state = &State{CurrentIndex: -1}
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{CurrentIndex: -1}
			return nil
		}
		return err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")
	if len(blocks) == 0 || strings.TrimSpace(blocks[0]) == "" {
		m.state = &State{CurrentIndex: -1}
		return nil
	}

	index, err := strconv.Atoi(strings.TrimSpace(blocks[0]))
	if err != nil {
		return fmt.Errorf("invalid state file: could not parse current index: %w", err)
	}
	m.state = &State{CurrentIndex: index}

	for _, block := range blocks[1:] {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")

		ts, err := strconv.ParseInt(lines[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid state file: could not parse timestamp from '%s': %w", lines[0], err)
		}

		entry := HistoryEntry{Timestamp: ts}
		opLines := lines[1:]
		for i := 0; i+2 < len(opLines); i += 3 {
			entry.Operations = append(entry.Operations, Operation{
				Path:       opLines[i],
				BeforeHash: opLines[i+1],
				AfterHash:  opLines[i+2],
			})
		}
		if len(opLines)%3 != 0 {
			return fmt.Errorf("invalid state file: incomplete operation record")
		}
		m.state.History = append(m.state.History, entry)
	}
	return nil
}

func (m *Manager) save() error {
	blocks := []string{strconv.Itoa(m.state.CurrentIndex)}

	for _, entry := range m.state.History {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%d", entry.Timestamp))
		for _, op := range entry.Operations {
			b.WriteString("\n" + op.Path)
			b.WriteString("\n" + op.BeforeHash)
			b.WriteString("\n" + op.AfterHash)
		}
		blocks = append(blocks, b.String())
	}

	return os.WriteFile(m.statePath, []byte(strings.Join(blocks, "\n\n")), 0644)
}

// Write records one run: snapshots every change and appends a history
// entry. History past the current pointer is discarded, as after undo.
func (m *Manager) Write(changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}

	entry := HistoryEntry{Timestamp: time.Now().UTC().UnixNano()}
	dir := m.entryDir(entry.Timestamp)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create snapshot directory: %w", err)
	}

	for i, c := range changes {
		if err := os.WriteFile(m.snapshotPath(entry.Timestamp, i, "before"), []byte(c.Before), 0644); err != nil {
			return fmt.Errorf("could not snapshot %s: %w", c.Path, err)
		}
		if err := os.WriteFile(m.snapshotPath(entry.Timestamp, i, "after"), []byte(c.After), 0644); err != nil {
			return fmt.Errorf("could not snapshot %s: %w", c.Path, err)
		}
		entry.Operations = append(entry.Operations, Operation{
			Path:       c.Path,
			BeforeHash: hashContent(c.Before),
			AfterHash:  hashContent(c.After),
		})
	}

	m.state.History = append(m.state.History, entry)
	m.state.CurrentIndex++
	return m.save()
}

// Undo restores the before-snapshots of the last run and moves the history
// pointer back. A file whose on-disk content no longer matches the recorded
// after-hash is reported as failed and left alone.
func (m *Manager) Undo() (restored, failed []string) {
	if m.state.CurrentIndex < 0 {
		return nil, nil
	}
	entry := m.state.History[m.state.CurrentIndex]
	restored, failed = m.restore(entry, "before", func(op Operation) string { return op.AfterHash })
	m.state.CurrentIndex--
	m.save()
	return restored, failed
}

// Redo re-applies the after-snapshots of the next run forward.
func (m *Manager) Redo() (restored, failed []string) {
	nextIndex := m.state.CurrentIndex + 1
	if nextIndex >= len(m.state.History) {
		return nil, nil
	}
	entry := m.state.History[nextIndex]
	restored, failed = m.restore(entry, "after", func(op Operation) string { return op.BeforeHash })
	m.state.CurrentIndex = nextIndex
	m.save()
	return restored, failed
}

// HasHistory reports whether an undoable run exists.
func (m *Manager) HasHistory() bool {
	return m.state.CurrentIndex >= 0
}

// HasRedo reports whether an undone run can be redone.
func (m *Manager) HasRedo() bool {
	return m.state.CurrentIndex+1 < len(m.state.History)
}

func (m *Manager) restore(entry HistoryEntry, side string, expect func(Operation) string) (restored, failed []string) {
	for i, op := range entry.Operations {
		current, err := os.ReadFile(op.Path)
		if err != nil || hashContent(string(current)) != expect(op) {
			failed = append(failed, op.Path)
			continue
		}
		snapshot, err := os.ReadFile(m.snapshotPath(entry.Timestamp, i, side))
		if err != nil {
			failed = append(failed, op.Path)
			continue
		}
		if err := os.WriteFile(op.Path, snapshot, 0644); err != nil {
			failed = append(failed, op.Path)
			continue
		}
		restored = append(restored, op.Path)
	}
	return restored, failed
}

func (m *Manager) entryDir(ts int64) string {
	return filepath.Join(m.StateDir, snapshotsDir, strconv.FormatInt(ts, 10))
}

func (m *Manager) snapshotPath(ts int64, i int, side string) string {
	return filepath.Join(m.entryDir(ts), fmt.Sprintf("%d.%s", i, side))
}

func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
