// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/niri_test.go
// Summary: Tests for the niri IPC client against a fake socket.

package compositor

import (
	"bufio"
	"net"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

// fakeNiri accepts one connection, records the request line and replies.
func fakeNiri(t *testing.T, reply string) (socket string, requests chan string) {
	t.Helper()
	socket = filepath.Join(t.TempDir(), "niri.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	requests = make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil {
			return
		}
		requests <- line
		conn.Write([]byte(reply + "\n"))
	}()
	return socket, requests
}

func TestFloatFocusedWindow(t *testing.T) {
	socket, requests := fakeNiri(t, `{"Ok":{"Handled":null}}`)
	c := &Client{socket: socket}

	c.FloatFocusedWindow()

	req := <-requests
	if !gjson.Get(req, "Action.MoveWindowToFloating").Exists() {
		t.Errorf("wrong request: %s", req)
	}
}

func TestRefusedActionDoesNotPanic(t *testing.T) {
	socket, _ := fakeNiri(t, `{"Err":"no focused window"}`)
	c := &Client{socket: socket}

	// Refusals are logged only.
	c.UnfloatFocusedWindow()
}

func TestDeadSocketFailsSoft(t *testing.T) {
	c := &Client{socket: filepath.Join(t.TempDir(), "missing.sock")}
	c.FloatFocusedWindow()

	var nilClient *Client
	nilClient.FloatFocusedWindow()
}

func TestConnectWithoutSocketEnv(t *testing.T) {
	t.Setenv("NIRI_SOCKET", "")
	if c := Connect(); c != nil {
		t.Error("expected nil client without NIRI_SOCKET")
	}
}
