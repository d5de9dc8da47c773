// Package gui hosts a figure in a desktop window with fyne. The figure is
// rendered by a render.Raster and shown as an image; mouse input over it
// and the window's modifier keys drive the lasso controller through the
// event loop.
package gui

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"plot-lasso/src/clipboard"
	"plot-lasso/src/eventloop"
	"plot-lasso/src/hotkey/global"
	"plot-lasso/src/lasso"
	"plot-lasso/src/plot"
	"plot-lasso/src/render"
)

// AppID identifies the application to fyne for preferences and
// notifications.
const AppID = "io.github.plot-lasso"

// Options configures Run.
type Options struct {
	// Loop owns the controller; it must already be running.
	Loop *eventloop.Loop
	// Host draws the figure through Raster.
	Host   *plot.Host
	Raster *render.Raster
	// Modifiers are the names the controller gates on.
	Modifiers []string
	// GlobalKeys listens for the modifiers system-wide instead of only while
	// the window has focus.
	GlobalKeys bool
	// Clear hides selection highlights. It runs on the loop goroutine.
	Clear func()
	// SavePath is where "Save image" writes the canvas.
	SavePath string
	Logger   *slog.Logger
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if opts.Loop == nil || opts.Host == nil || opts.Raster == nil {
		return errors.New("gui: loop, host and raster are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	enableDPIAwareness()

	a := app.NewWithID(AppID)
	a.SetIcon(iconResource)
	fig := opts.Host.Figure()
	title := fig.Title
	if title == "" {
		title = "plot-lasso"
	}
	w := a.NewWindow(title)

	post := func(ev lasso.Event) {
		if err := opts.Loop.Post(ctx, ev); err != nil {
			logger.Debug("dropping event", "event", ev.String(), "error", err)
		}
	}
	mods := newModSync(opts.Modifiers)
	pw := newPlotWidget(fig, opts.Raster.Snapshot(), mods, post)
	err := opts.Loop.Do(ctx, func() {
		opts.Raster.OnPresent = func(frame *image.RGBA, _ image.Rectangle) {
			fyne.Do(func() { pw.setFrame(frame) })
		}
	})
	if err != nil {
		return err
	}

	if opts.GlobalKeys {
		err := global.Listen(ctx, opts.Modifiers, func(name string, down bool) {
			post(lasso.KeyEvent(name, down))
		}, logger)
		if err != nil {
			return err
		}
	} else if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			for _, e := range mods.key(ev.Name, true) {
				post(e)
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			for _, e := range mods.key(ev.Name, false) {
				post(e)
			}
		})
	} else {
		logger.Warn("canvas does not report key releases; modifier keys only work with the mouse mask")
	}

	menu := fyne.NewMenu("Lasso", menuItems(ctx, a, opts, mods, logger)...)
	w.SetMainMenu(fyne.NewMainMenu(menu))
	if desk, ok := a.(desktop.App); ok {
		desk.SetSystemTrayMenu(fyne.NewMenu("plot-lasso", menuItems(ctx, a, opts, mods, logger)...))
		desk.SetSystemTrayIcon(iconResource)
	}

	w.SetContent(pw)
	w.Resize(fyne.NewSize(float32(fig.Width), float32(fig.Height)))
	w.SetOnClosed(cancel)

	a.Lifecycle().SetOnStarted(func() {
		go func() {
			if err := opts.Loop.Do(ctx, opts.Host.Redraw); err != nil {
				logger.Warn("initial draw failed", "error", err)
			}
		}()
	})
	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()

	logger.Info("window opened", "title", title, "modifiers", opts.Modifiers, "global_keys", opts.GlobalKeys)
	w.ShowAndRun()
	return nil
}

func menuItems(ctx context.Context, a fyne.App, opts Options, mods *modSync, logger *slog.Logger) []*fyne.MenuItem {
	clearSelection := fyne.NewMenuItem("Clear selection", func() {
		// Menu callbacks run on the fyne goroutine; mods is only touched there.
		mods.reset()
		go func() {
			err := opts.Loop.Do(ctx, func() {
				opts.Loop.Controller().Reset()
				if opts.Clear != nil {
					opts.Clear()
				}
				opts.Host.Redraw()
			})
			if err != nil {
				logger.Warn("clear failed", "error", err)
			}
		}()
	})

	save := fyne.NewMenuItem("Save image", func() {
		path := opts.SavePath
		if path == "" {
			path = "plot-lasso.png"
		}
		if err := opts.Raster.Save(path); err != nil {
			logger.Error("save failed", "path", path, "error", err)
			notify("Save failed", err.Error())
			return
		}
		logger.Info("image saved", "path", path)
	})

	copyImage := fyne.NewMenuItem("Copy image", func() {
		png, err := opts.Raster.PNG()
		if err == nil {
			err = clipboard.WriteImage(png)
		}
		if err != nil {
			logger.Error("copy failed", "error", err)
			notify("Copy failed", err.Error())
		}
	})

	quit := fyne.NewMenuItem("Quit", a.Quit)
	quit.IsQuit = true

	return []*fyne.MenuItem{clearSelection, fyne.NewMenuItemSeparator(), save, copyImage, fyne.NewMenuItemSeparator(), quit}
}

// NotifyError shows a handler failure as a desktop notification. It is
// meant for eventloop.Loop.OnError and does nothing before the app starts.
func NotifyError(ev lasso.Event, err error) {
	notify("Lasso selection failed", err.Error())
}

func notify(title, content string) {
	a := fyne.CurrentApp()
	if a == nil {
		return
	}
	a.SendNotification(fyne.NewNotification(title, content))
}
