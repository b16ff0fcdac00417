// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: JSON configuration store for termlaunch.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const configName = "termlaunch.json"

// Settings is the full configuration surface. Zero values are replaced by
// defaults at load time, so a partial config file is fine.
type Settings struct {
	// EntryDirs overrides the XDG .desktop search path when non-empty.
	EntryDirs []string `json:"entry_dirs,omitempty"`

	// ScrollbackRows bounds the per-execution scrollback buffer.
	ScrollbackRows int `json:"scrollback_rows"`

	// FrecencyWeight scales how much usage history influences ranking.
	FrecencyWeight float64 `json:"frecency_weight"`

	// ManageWindow floats/tiles the launcher window via niri IPC.
	ManageWindow bool `json:"manage_window"`

	// HoldAfterExit keeps the output on screen until a key is pressed.
	HoldAfterExit bool `json:"hold_after_exit"`

	// HistoryMaxEntries and HistoryMaxAgeDays bound the usage database.
	HistoryMaxEntries int `json:"history_max_entries"`
	HistoryMaxAgeDays int `json:"history_max_age_days"`
}

var (
	mu      sync.RWMutex
	once    sync.Once
	current Settings
	loadErr error
)

// Defaults returns the built-in configuration.
func Defaults() Settings {
	return Settings{
		ScrollbackRows:    10000,
		FrecencyWeight:    10,
		ManageWindow:      true,
		HoldAfterExit:     true,
		HistoryMaxEntries: 500,
		HistoryMaxAgeDays: 180,
	}
}

// Get returns the current settings, loading the config file on first use.
func Get() Settings {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Err returns the load error from the first Get, if any. A missing file is
// not an error.
func Err() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

// Set replaces the in-memory settings.
func Set(s Settings) {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	current = applyDefaults(s)
}

// Save persists the current settings to the config file.
func Save() error {
	once.Do(initStore)
	mu.RLock()
	s := current
	mu.RUnlock()

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func initStore() {
	mu.Lock()
	defer mu.Unlock()
	current, loadErr = load()
}

func load() (Settings, error) {
	s := Defaults()

	path, err := configPath()
	if err != nil {
		return s, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		// A broken config file falls back to defaults rather than aborting.
		return Defaults(), err
	}
	return applyDefaults(s), nil
}

// applyDefaults fills zero-valued numeric fields so a sparse file cannot
// disable scrollback or history by accident.
func applyDefaults(s Settings) Settings {
	d := Defaults()
	if s.ScrollbackRows <= 0 {
		s.ScrollbackRows = d.ScrollbackRows
	}
	if s.FrecencyWeight < 0 {
		s.FrecencyWeight = d.FrecencyWeight
	}
	if s.HistoryMaxEntries <= 0 {
		s.HistoryMaxEntries = d.HistoryMaxEntries
	}
	if s.HistoryMaxAgeDays <= 0 {
		s.HistoryMaxAgeDays = d.HistoryMaxAgeDays
	}
	return s
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "termlaunch", configName), nil
}

// StatePath returns the path for a mutable state file (log, history db),
// honoring XDG_STATE_HOME.
func StatePath(name string) (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "termlaunch", name), nil
}
