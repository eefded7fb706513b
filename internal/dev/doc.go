// Package dev implements the development-mode conveniences: a hot-reload
// WebSocket endpoint and a polling content watcher.
//
// In dev mode the server injects ClientScript into the shell, wires the
// watcher to the reload server, and broadcasts on every fragment or
// payload change. None of this runs outside dev mode.
package dev
