// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: launcher/entry.go
// Summary: Freedesktop .desktop entry discovery and parsing.

package launcher

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one launchable application parsed from a .desktop file.
type Entry struct {
	ID          string // file name without the .desktop suffix
	Name        string
	GenericName string
	Comment     string
	Exec        string // field codes already stripped
	Icon        string
	Categories  []string
	Keywords    []string
	Terminal    bool
	Path        string // source file, for logging
}

// EntryDirs returns the directories scanned for .desktop files, in
// precedence order: XDG_DATA_HOME first, then each XDG_DATA_DIRS entry.
func EntryDirs() []string {
	var dirs []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, ":") {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "applications"))
		}
	}
	return dirs
}

// LoadEntries scans the given directories for .desktop files and returns the
// visible entries sorted by name. An entry id seen in an earlier directory
// shadows the same id in later ones.
func LoadEntries(dirs []string) []*Entry {
	seen := make(map[string]bool)
	var entries []*Entry

	for _, dir := range dirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			// Missing dirs are normal; XDG_DATA_DIRS lists more than exists.
			continue
		}
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || !strings.HasSuffix(name, ".desktop") {
				continue
			}
			id := strings.TrimSuffix(name, ".desktop")
			if seen[id] {
				continue
			}
			seen[id] = true

			path := filepath.Join(dir, name)
			entry, err := ParseEntry(path)
			if err != nil {
				log.Printf("Launcher: skipping %s: %v", path, err)
				continue
			}
			if entry == nil {
				continue // hidden or not launchable
			}
			entry.ID = id
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries
}

// ParseEntry reads one .desktop file. Returns (nil, nil) for entries that
// must not be shown: Hidden, NoDisplay, non-Application types, or no Exec.
func ParseEntry(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	e := &Entry{Path: path}
	inMain := false
	isApp := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inMain = line == "[Desktop Entry]"
			continue
		}
		if !inMain {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		// Localized keys (Name[de]=...) are skipped; the C locale value wins.
		if strings.Contains(key, "[") {
			continue
		}

		switch key {
		case "Type":
			isApp = value == "Application"
		case "Hidden", "NoDisplay":
			if value == "true" {
				return nil, nil
			}
		case "Name":
			e.Name = value
		case "GenericName":
			e.GenericName = value
		case "Comment":
			e.Comment = value
		case "Exec":
			e.Exec = stripFieldCodes(value)
		case "Icon":
			e.Icon = value
		case "Categories":
			e.Categories = splitList(value)
		case "Keywords":
			e.Keywords = splitList(value)
		case "Terminal":
			e.Terminal = value == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !isApp || e.Name == "" || e.Exec == "" {
		return nil, nil
	}
	return e, nil
}

// stripFieldCodes removes %f/%F/%u/%U and friends from an Exec line. The
// launcher never passes files or URLs, so the codes expand to nothing.
func stripFieldCodes(exec string) string {
	var b strings.Builder
	runes := []rune(exec)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '%' && i+1 < len(runes) {
			switch runes[i+1] {
			case '%':
				b.WriteRune('%')
				i++
				continue
			case 'f', 'F', 'u', 'U', 'd', 'D', 'n', 'N', 'i', 'c', 'k', 'v', 'm':
				i++
				continue
			}
		}
		b.WriteRune(runes[i])
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// splitList parses the semicolon-separated list format of .desktop values.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
