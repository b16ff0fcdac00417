// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: app/app.go
// Summary: Event loop and state machine tying the launcher together.
//
// Three states: Launching shows the filtered list, Executing runs the
// selected entry in the embedded terminal, Reviewing holds the output after
// exit. All state lives on one goroutine; the PTY pumps hand over data
// through the session's channels and are drained from the tick.

package app

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"termlaunch/compositor"
	"termlaunch/config"
	"termlaunch/history"
	"termlaunch/launcher"
	"termlaunch/term"
	"termlaunch/ui"
)

// State is the top-level mode of the application.
type State int

const (
	StateLaunching State = iota
	StateExecuting
	StateReviewing
)

const tickInterval = 25 * time.Millisecond

// App owns the screen and drives everything.
type App struct {
	screen   tcell.Screen
	settings config.Settings

	launcher *launcher.Launcher
	history  *history.Store
	comp     *compositor.Client

	theme    ui.Theme
	listView *ui.ListView
	execView *ui.ExecView

	state   State
	current *term.Term
	dirty   bool
	quit    bool
}

// New wires an App over an initialized screen. history and comp may be nil.
func New(screen tcell.Screen, l *launcher.Launcher, h *history.Store, comp *compositor.Client, settings config.Settings) *App {
	theme := ui.DefaultTheme()
	return &App{
		screen:   screen,
		settings: settings,
		launcher: l,
		history:  h,
		comp:     comp,
		theme:    theme,
		listView: ui.NewListView(theme),
		execView: ui.NewExecView(theme),
		state:    StateLaunching,
		dirty:    true,
	}
}

// Run blocks until the user quits. The screen is not finalized here; the
// caller owns its lifecycle.
func (a *App) Run() error {
	if a.comp != nil && a.settings.ManageWindow {
		a.comp.FloatFocusedWindow()
	}
	a.launcher.Watch()

	events := make(chan tcell.Event, 16)
	quitCh := make(chan struct{})
	go a.screen.ChannelEvents(events, quitCh)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for !a.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				a.quit = true
				break
			}
			a.handleEvent(ev)
		case <-ticker.C:
			a.tick()
		}
		if a.dirty {
			a.draw()
			a.dirty = false
		}
	}

	close(quitCh)
	if a.current != nil {
		a.current.Close()
		a.current = nil
	}
	if a.comp != nil && a.settings.ManageWindow {
		a.comp.UnfloatFocusedWindow()
	}
	return nil
}

// State returns the current mode.
func (a *App) State() State { return a.state }

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		if a.current != nil {
			cols, rows := a.execView.ViewportSize(a.screen)
			a.current.Resize(cols, rows)
		}
		a.dirty = true
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	switch a.state {
	case StateLaunching:
		a.keyLaunching(ev)
	case StateExecuting:
		a.keyExecuting(ev)
	case StateReviewing:
		a.keyReviewing(ev)
	}
}

func (a *App) keyLaunching(ev *tcell.EventKey) {
	a.dirty = true
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyEnter:
		if e := a.launcher.Selected(); e != nil {
			a.launch(e)
		}
	case tcell.KeyUp, tcell.KeyCtrlP:
		a.launcher.MoveSelection(-1)
	case tcell.KeyDown, tcell.KeyCtrlN:
		a.launcher.MoveSelection(1)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if q := []rune(a.launcher.Query()); len(q) > 0 {
			a.launcher.SetQuery(string(q[:len(q)-1]))
		}
	case tcell.KeyCtrlU:
		a.launcher.SetQuery("")
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
			a.launcher.SetQuery(a.launcher.Query() + string(ev.Rune()))
		}
	default:
		a.dirty = false
	}
}

// keyExecuting intercepts the reserved keys and forwards the rest to the
// child. Interception happens before encoding so a scroll key never reaches
// the child as input.
func (a *App) keyExecuting(ev *tcell.EventKey) {
	if a.handleScrollKey(ev) {
		return
	}
	if ev.Key() == tcell.KeyCtrlQ {
		log.Printf("App: kill requested for %q", a.current.Command())
		a.current.Kill()
		return
	}
	a.current.SendKey(ev)
	a.dirty = true
}

func (a *App) keyReviewing(ev *tcell.EventKey) {
	if a.handleScrollKey(ev) {
		return
	}
	a.finishExecution()
}

// handleScrollKey maps the viewport navigation keys. Returns true when the
// key was consumed.
func (a *App) handleScrollKey(ev *tcell.EventKey) bool {
	_, viewRows := a.execView.ViewportSize(a.screen)
	page := viewRows - 1
	if page < 1 {
		page = 1
	}

	shift := ev.Modifiers()&tcell.ModShift != 0
	switch {
	case ev.Key() == tcell.KeyPgUp:
		a.current.ScrollUp(page)
	case ev.Key() == tcell.KeyPgDn:
		a.current.ScrollDown(page)
	case shift && ev.Key() == tcell.KeyUp:
		a.current.ScrollUp(1)
	case shift && ev.Key() == tcell.KeyDown:
		a.current.ScrollDown(1)
	case shift && ev.Key() == tcell.KeyHome:
		a.current.ScrollToTop()
	case shift && ev.Key() == tcell.KeyEnd:
		a.current.ScrollToBottom()
	default:
		return false
	}
	a.dirty = true
	return true
}

// launch starts the selected entry and switches to Executing.
func (a *App) launch(e *launcher.Entry) {
	cols, rows := a.execView.ViewportSize(a.screen)
	if rows <= 0 {
		return
	}

	t, err := term.NewTerm(e.Exec, cols, rows, a.settings.ScrollbackRows)
	if err != nil {
		log.Printf("App: launch %q failed: %v", e.Exec, err)
		return
	}

	if a.history != nil {
		if err := a.history.Record(e.ID); err != nil {
			log.Printf("App: history record failed: %v", err)
		}
	}
	if a.comp != nil && a.settings.ManageWindow {
		a.comp.UnfloatFocusedWindow()
	}

	log.Printf("App: executing %q (%s)", e.Name, e.Exec)
	a.current = t
	a.state = StateExecuting
	a.dirty = true
}

// finishExecution tears the terminal down and returns to the listing.
func (a *App) finishExecution() {
	if a.current != nil {
		a.current.Close()
		a.current = nil
	}
	if a.comp != nil && a.settings.ManageWindow {
		a.comp.FloatFocusedWindow()
	}
	a.launcher.SetQuery("")
	a.state = StateLaunching
	a.dirty = true
}

func (a *App) tick() {
	switch a.state {
	case StateLaunching:
		if a.launcher.ReloadPending() {
			a.launcher.Reload()
			a.dirty = true
		}
	case StateExecuting:
		if a.current.Tick() {
			a.dirty = true
		}
		if !a.current.Running() {
			if a.settings.HoldAfterExit {
				a.state = StateReviewing
			} else {
				a.finishExecution()
			}
			a.dirty = true
		}
	case StateReviewing:
		// Late output behind the exit still lands in the buffer.
		if a.current.Tick() {
			a.dirty = true
		}
	}
}

func (a *App) draw() {
	switch a.state {
	case StateLaunching:
		a.screen.Fill(' ', a.theme.Background)
		a.listView.Draw(a.screen, a.launcher, a.usedMarker())
	case StateExecuting, StateReviewing:
		a.execView.Draw(a.screen, a.current)
	}
	a.screen.Show()
}

// usedMarker reports whether an entry has recorded history.
func (a *App) usedMarker() func(id string) bool {
	if a.history == nil {
		return nil
	}
	return func(id string) bool { return a.history.Frecency(id) > 0 }
}

func (s State) String() string {
	switch s {
	case StateLaunching:
		return "launching"
	case StateExecuting:
		return "executing"
	case StateReviewing:
		return "reviewing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}
