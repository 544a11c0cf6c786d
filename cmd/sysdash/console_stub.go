//go:build !windows

package main

// hideConsoleWindow is a no-op on non-Windows platforms.
func hideConsoleWindow() {}

// spawnDetachedIfNeeded never re-spawns outside Windows.
func spawnDetachedIfNeeded(bool) bool { return false }
