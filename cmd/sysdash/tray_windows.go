//go:build windows

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os/exec"

	ico "github.com/Kodeworks/golang-image-ico"
	"github.com/getlantern/systray"

	"sysdash/internal/version"
)

// startTray shows the tray icon and blocks until Quit or trayQuit.
func startTray(app *App) {
	onReady := func() {
		if icon, err := trayIcon(); err == nil {
			systray.SetIcon(icon)
		} else {
			app.manager.Log.Write(fmt.Sprintf("Tray: icon unavailable: %v", err))
		}
		systray.SetTitle("sysdash")
		systray.SetTooltip("sysdash " + version.String())

		mOpen := systray.AddMenuItem("Open UI", "Open the dashboard in a browser")
		mLogs := systray.AddMenuItem("Open Logs Folder", "Open the logs directory")
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Stop sysdash")

		go func() {
			for {
				select {
				case <-mOpen.ClickedCh:
					app.manager.Log.Write("Tray: Open UI")
					_ = launchBrowser(dashboardURL(app))
				case <-mLogs.ClickedCh:
					app.manager.Log.Write("Tray: Open Logs Folder")
					_ = openPath(app.manager.Paths.LogsDir())
				case <-mQuit.ClickedCh:
					app.manager.Log.Write("Tray: Quit")
					systray.Quit()
					return
				}
			}
		}()
	}
	systray.Run(onReady, func() {})
}

func trayQuit() {
	systray.Quit()
}

func dashboardURL(app *App) string {
	proto := "http"
	if app.tlsEnabled {
		proto = "https"
	}
	return fmt.Sprintf("%s://localhost:%d", proto, app.manager.Config.Port)
}

// trayIcon draws a small bar-chart glyph and encodes it as .ico, the only
// format the Windows tray accepts.
func trayIcon() ([]byte, error) {
	const size = 32
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	bg := color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	bar := color.RGBA{R: 0x34, G: 0xd3, B: 0x99, A: 0xff}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, bg)
		}
	}
	for i, height := range []int{10, 18, 26} {
		x0 := 4 + i*9
		for y := size - 3 - height; y < size-3; y++ {
			for x := x0; x < x0+6; x++ {
				img.Set(x, y, bar)
			}
		}
	}
	var buf bytes.Buffer
	if err := ico.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func launchBrowser(url string) error {
	return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
}

func openPath(path string) error {
	return exec.Command("explorer", path).Start()
}
