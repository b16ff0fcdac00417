// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/termlaunch/main.go
// Summary: termlaunch entry point.
// Usage: Run `termlaunch` in a terminal; type to filter, Enter to execute.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	xterm "golang.org/x/term"

	"termlaunch/app"
	"termlaunch/compositor"
	"termlaunch/config"
	"termlaunch/history"
	"termlaunch/launcher"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("termlaunch", flag.ContinueOnError)
	logPath := fs.String("log", "", "Log file path (default: state dir)")
	noHistory := fs.Bool("no-history", false, "Disable usage history")
	noWindow := fs.Bool("no-window-management", false, "Skip compositor window management")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if !xterm.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal")
	}

	if err := setupLogging(*logPath); err != nil {
		return err
	}
	log.Printf("Main: termlaunch starting")

	settings := config.Get()
	if err := config.Err(); err != nil {
		log.Printf("Main: config load: %v (using defaults)", err)
	}
	if *noWindow {
		settings.ManageWindow = false
	}

	var hist *history.Store
	if !*noHistory {
		dbPath, err := config.StatePath("usage.db")
		if err == nil {
			hist, err = history.Open(dbPath)
		}
		if err != nil {
			log.Printf("Main: history disabled: %v", err)
			hist = nil
		}
	}
	if hist != nil {
		defer hist.Close()
		maxAge := time.Duration(settings.HistoryMaxAgeDays) * 24 * time.Hour
		if err := hist.Prune(settings.HistoryMaxEntries, maxAge); err != nil {
			log.Printf("Main: history prune: %v", err)
		}
	}

	dirs := settings.EntryDirs
	if len(dirs) == 0 {
		dirs = launcher.EntryDirs()
	}
	var frecency launcher.FrecencyFunc
	if hist != nil {
		frecency = hist.Frecency
	}
	l := launcher.New(dirs, frecency, settings.FrecencyWeight)
	defer l.Close()

	var comp *compositor.Client
	if settings.ManageWindow {
		comp = compositor.Connect()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	return app.New(screen, l, hist, comp, settings).Run()
}

// setupLogging redirects the log package to a file; the tty belongs to the
// UI.
func setupLogging(path string) error {
	if path == "" {
		var err error
		path, err = config.StatePath("termlaunch.log")
		if err != nil {
			return fmt.Errorf("resolve log path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return nil
}
