// Package history keeps the undo/redo log of committed scene snapshots and
// the single live staging snapshot used while a gesture is in progress.
package history

import (
	"canvas-composer/internal/scene"
)

// Capacity is the maximum number of committed snapshots. Committing past
// it evicts the oldest snapshot first.
const Capacity = 20

type entry struct {
	scene *scene.Scene
	label string
}

// Log is an append-only snapshot history with one optional live snapshot.
// Snapshots stored in the log are never handed out directly: Commit clones
// on the way in and Undo/Redo clone on the way out, so callers can mutate
// what they hold without corrupting history.
type Log struct {
	entries []entry
	index   int
	live    *scene.Scene
}

// NewLog creates a history seeded with the initial scene as its first
// committed snapshot.
func NewLog(initial *scene.Scene) *Log {
	return &Log{entries: []entry{{scene: initial.Clone()}}}
}

// Commit appends a snapshot after the current index, discarding any
// redo-able snapshots beyond it, and evicts the oldest entry once the
// capacity is exceeded. The label names the operation for undo menus.
func (l *Log) Commit(sc *scene.Scene, label string) {
	l.entries = append(l.entries[:l.index+1], entry{scene: sc.Clone(), label: label})
	if len(l.entries) > Capacity {
		drop := len(l.entries) - Capacity
		l.entries = append([]entry{}, l.entries[drop:]...)
	}
	l.index = len(l.entries) - 1
}

// CanUndo reports whether an earlier snapshot exists. Always false while a
// live snapshot is active.
func (l *Log) CanUndo() bool {
	return l.live == nil && l.index > 0
}

// CanRedo reports whether a later snapshot exists. Always false while a
// live snapshot is active.
func (l *Log) CanRedo() bool {
	return l.live == nil && l.index < len(l.entries)-1
}

// Undo moves back one snapshot and returns a copy to apply. ok is false at
// the bottom of the stack or while a live snapshot is active.
func (l *Log) Undo() (*scene.Scene, bool) {
	if !l.CanUndo() {
		return nil, false
	}
	l.index--
	return l.entries[l.index].scene.Clone(), true
}

// Redo moves forward one snapshot and returns a copy to apply. ok is false
// at the top of the stack or while a live snapshot is active.
func (l *Log) Redo() (*scene.Scene, bool) {
	if !l.CanRedo() {
		return nil, false
	}
	l.index++
	return l.entries[l.index].scene.Clone(), true
}

// UndoLabel returns the label of the operation Undo would revert, or "".
func (l *Log) UndoLabel() string {
	if !l.CanUndo() {
		return ""
	}
	return l.entries[l.index].label
}

// RedoLabel returns the label of the operation Redo would reapply, or "".
func (l *Log) RedoLabel() string {
	if !l.CanRedo() {
		return ""
	}
	return l.entries[l.index+1].label
}

// BeginLive stages an uncommitted working copy for an in-progress gesture.
// At most one live snapshot exists at a time; a second BeginLive replaces
// the first.
func (l *Log) BeginLive(sc *scene.Scene) {
	l.live = sc
}

// UpdateLive replaces the live snapshot wholesale, so a concurrent reader
// never observes geometry mixing two gesture updates.
func (l *Log) UpdateLive(sc *scene.Scene) {
	l.live = sc
}

// Live returns the live snapshot, or nil when no gesture is staging one.
func (l *Log) Live() *scene.Scene {
	return l.live
}

// EndLive clears the live snapshot. When commit is true it is folded into
// history as a committed snapshot under the given label; otherwise it is
// discarded. Returns the snapshot that was live, or nil if none was.
func (l *Log) EndLive(commit bool, label string) *scene.Scene {
	sc := l.live
	l.live = nil
	if sc != nil && commit {
		l.Commit(sc, label)
	}
	return sc
}

// Len returns the number of committed snapshots.
func (l *Log) Len() int {
	return len(l.entries)
}
