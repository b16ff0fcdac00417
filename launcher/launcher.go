// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: launcher/launcher.go
// Summary: Filtered entry list model with live reload.
// Usage: Feed it a query, read back the ranked entries; Enter launches.

package launcher

import (
	"log"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FrecencyFunc maps an entry id to its usage score. A nil func means no
// history and every entry scores zero.
type FrecencyFunc func(id string) float64

// Launcher holds the discovered entries and the current filter state.
type Launcher struct {
	mu       sync.RWMutex
	dirs     []string
	entries  []*Entry
	frecency FrecencyFunc
	weight   float64 // frecency contribution relative to match score

	query    string
	filtered []*Entry
	selected int

	watcher *fsnotify.Watcher
	reload  chan struct{}
}

// New scans dirs and returns a ready launcher. frecency may be nil.
func New(dirs []string, frecency FrecencyFunc, frecencyWeight float64) *Launcher {
	l := &Launcher{
		dirs:     dirs,
		frecency: frecency,
		weight:   frecencyWeight,
		reload:   make(chan struct{}, 1),
	}
	l.entries = LoadEntries(dirs)
	log.Printf("Launcher: loaded %d entries from %d dirs", len(l.entries), len(dirs))
	l.refilter()
	return l
}

// Watch starts a filesystem watcher over the entry dirs. Changes queue a
// reload signal; the event loop calls Reload when convenient. Best effort:
// a watcher failure only disables live reload.
func (l *Launcher) Watch() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Launcher: watch disabled: %v", err)
		return
	}
	l.watcher = w

	watched := 0
	for _, dir := range l.dirs {
		if err := w.Add(dir); err == nil {
			watched++
		}
	}
	log.Printf("Launcher: watching %d entry dirs", watched)

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					select {
					case l.reload <- struct{}{}:
					default:
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("Launcher: watch error: %v", err)
			}
		}
	}()
}

// ReloadPending reports whether a filesystem change is waiting to be applied.
func (l *Launcher) ReloadPending() bool {
	select {
	case <-l.reload:
		return true
	default:
		return false
	}
}

// Reload rescans the entry dirs and reapplies the current filter.
func (l *Launcher) Reload() {
	entries := LoadEntries(l.dirs)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = entries
	log.Printf("Launcher: reloaded %d entries", len(entries))
	l.refilterLocked()
}

// SetQuery updates the filter text and reranks the list.
func (l *Launcher) SetQuery(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if q == l.query {
		return
	}
	l.query = q
	l.selected = 0
	l.refilterLocked()
}

// Query returns the current filter text.
func (l *Launcher) Query() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.query
}

// Filtered returns the ranked entries for the current query.
func (l *Launcher) Filtered() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filtered
}

// Selected returns the highlighted entry, or nil when the list is empty.
func (l *Launcher) Selected() *Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.selected < 0 || l.selected >= len(l.filtered) {
		return nil
	}
	return l.filtered[l.selected]
}

// SelectedIndex returns the highlight position within the filtered list.
func (l *Launcher) SelectedIndex() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.selected
}

// MoveSelection shifts the highlight by delta, clamped to the list.
func (l *Launcher) MoveSelection(delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.filtered) == 0 {
		l.selected = 0
		return
	}
	l.selected += delta
	if l.selected < 0 {
		l.selected = 0
	}
	if l.selected >= len(l.filtered) {
		l.selected = len(l.filtered) - 1
	}
}

func (l *Launcher) refilter() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refilterLocked()
}

// refilterLocked reranks entries under the current query. With an empty
// query the full list is shown ordered by frecency, then name. Assumes
// l.mu is held.
func (l *Launcher) refilterLocked() {
	type ranked struct {
		entry *Entry
		score float64
	}
	var matches []ranked

	for _, e := range l.entries {
		matchScore, ok := MatchEntry(l.query, e)
		if !ok {
			continue
		}
		score := float64(matchScore)
		if l.frecency != nil {
			score += l.weight * l.frecency(e.ID)
		}
		matches = append(matches, ranked{e, score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	l.filtered = make([]*Entry, len(matches))
	for i, m := range matches {
		l.filtered[i] = m.entry
	}
	if l.selected >= len(l.filtered) {
		l.selected = 0
	}
}

// Close stops the filesystem watcher.
func (l *Launcher) Close() {
	if l.watcher != nil {
		_ = l.watcher.Close()
	}
}
