//go:build windows

package main

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// backgroundEnv marks the detached child so it does not spawn again.
const backgroundEnv = "SYSDASH_BACKGROUND"

var (
	modKernel32          = windows.NewLazySystemDLL("kernel32.dll")
	modUser32            = windows.NewLazySystemDLL("user32.dll")
	procGetConsoleWindow = modKernel32.NewProc("GetConsoleWindow")
	procShowWindow       = modUser32.NewProc("ShowWindow")
)

const swHide = 0

func consoleWindow() uintptr {
	if procGetConsoleWindow.Find() != nil {
		return 0
	}
	hwnd, _, _ := procGetConsoleWindow.Call()
	return hwnd
}

// hideConsoleWindow hides the console of the current process, if it has one.
func hideConsoleWindow() {
	hwnd := consoleWindow()
	if hwnd == 0 || procShowWindow.Find() != nil {
		return
	}
	procShowWindow.Call(hwnd, uintptr(swHide))
}

// spawnDetachedIfNeeded starts a detached copy of this process and returns
// true when the caller should exit. It only spawns from a console launch.
func spawnDetachedIfNeeded(trayEnabled bool) bool {
	if !trayEnabled || os.Getenv(backgroundEnv) == "1" {
		return false
	}
	if consoleWindow() == 0 {
		return false
	}
	exe, err := os.Executable()
	if err != nil || exe == "" {
		return false
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), backgroundEnv+"=1")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
	}
	return cmd.Start() == nil
}
