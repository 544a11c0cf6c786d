//go:build !windows

package main

// startTray is a no-op on non-Windows platforms.
func startTray(*App) {}

// trayQuit is a no-op on non-Windows platforms.
func trayQuit() {}
