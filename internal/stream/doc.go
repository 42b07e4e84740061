// Package stream serves live simulation state over HTTP and websockets.
// A single hub goroutine owns the simulation; REST handlers and socket
// clients communicate with it through a command inbox, so the engine
// itself never needs locking.
package stream
