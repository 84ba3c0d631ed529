// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/copilot-tui/internal/ui/styles"
	"github.com/jeranaias/copilot-tui/internal/util"
)

const (
	// DefaultSize is how many entries Recent returns by default.
	DefaultSize = 5

	// LabelRunes is the label length before an ellipsis is added.
	LabelRunes = 40

	// EmptyPlaceholder is shown when nothing has been asked yet.
	EmptyPlaceholder = "No conversations yet"
)

// Entry is one query the user sent.
type Entry struct {
	Query     string
	Timestamp time.Time
}

// Label is the entry's display text: the first 40 characters plus "..."
// when the query is longer. The full query stays in Entry.Query.
func (e Entry) Label() string {
	return util.Ellipsize(norm.NFC.String(e.Query), LabelRunes)
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker is the in-memory log of sent queries. The log grows without
// bound; only the most recent entries are ever displayed. Not safe for
// concurrent use: the view controller owns it.
type Tracker struct {
	entries []Entry
	size    int
	now     func() time.Time
}

// New creates a tracker that shows size recent entries (DefaultSize when
// size <= 0).
func New(size int) *Tracker {
	if size <= 0 {
		size = DefaultSize
	}
	return &Tracker{size: size, now: time.Now}
}

// Record appends query to the log.
func (t *Tracker) Record(query string) {
	t.entries = append(t.entries, Entry{Query: query, Timestamp: t.now()})
}

// Recent returns at most Size entries, most recent first.
func (t *Tracker) Recent() []Entry {
	n := len(t.entries)
	if n > t.size {
		n = t.size
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = t.entries[len(t.entries)-1-i]
	}
	return out
}

// All returns the whole log in insertion order.
func (t *Tracker) All() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Len returns the number of recorded entries, including hidden ones.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Size returns how many entries Recent shows.
func (t *Tracker) Size() int {
	return t.size
}

// Clear empties the log.
func (t *Tracker) Clear() {
	t.entries = nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the recency list for a sidebar of the given width. selected
// is an index into Recent(), or -1 for none.
func (t *Tracker) View(theme *styles.Theme, width, selected int) string {
	recent := t.Recent()
	if len(recent) == 0 {
		return theme.HistoryEmpty.Render(EmptyPlaceholder)
	}

	rows := make([]string, len(recent))
	for i, e := range recent {
		label := util.TruncateWidth(e.Label(), width)
		if i == selected {
			rows[i] = theme.HistorySelected.Render(util.PadRight(label, width))
		} else {
			rows[i] = theme.HistoryItem.Render(label)
		}
	}
	return strings.Join(rows, "\n")
}
