// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/niri.go
// Summary: Best-effort niri compositor IPC client.
//
// The launcher floats its own window while listing and re-tiles it for the
// duration of an execution. Everything here is optional: no socket, a dead
// compositor or a refused action only produce a log line.

package compositor

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

const requestTimeout = time.Second

// Client talks to the niri IPC socket. The zero value is unusable; call
// Connect.
type Client struct {
	socket string
}

// Connect locates the niri socket from $NIRI_SOCKET. Returns nil (not an
// error) when no compositor is reachable; callers treat a nil client as
// "no compositor" and skip all calls.
func Connect() *Client {
	socket := os.Getenv("NIRI_SOCKET")
	if socket == "" {
		log.Printf("Compositor: NIRI_SOCKET not set, window management disabled")
		return nil
	}
	return &Client{socket: socket}
}

// FloatFocusedWindow asks niri to move the focused window to the floating
// layer.
func (c *Client) FloatFocusedWindow() {
	c.action("MoveWindowToFloating")
}

// UnfloatFocusedWindow asks niri to move the focused window back into the
// tiling layer.
func (c *Client) UnfloatFocusedWindow() {
	c.action("MoveWindowToTiling")
}

// action sends one Action request and logs refusals. niri replies with a
// single JSON line, {"Ok":...} or {"Err":"..."}.
func (c *Client) action(name string) {
	if c == nil {
		return
	}

	req := map[string]any{
		"Action": map[string]any{
			name: map[string]any{"id": nil},
		},
	}
	reply, err := c.request(req)
	if err != nil {
		log.Printf("Compositor: %s failed: %v", name, err)
		return
	}
	if msg := gjson.GetBytes(reply, "Err"); msg.Exists() {
		log.Printf("Compositor: %s refused: %s", name, msg.String())
	}
}

func (c *Client) request(req any) ([]byte, error) {
	conn, err := net.DialTimeout("unix", c.socket, requestTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.socket, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(requestTimeout))

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	return line, nil
}
