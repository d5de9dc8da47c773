// Package tui hosts a figure in a terminal. Mouse drags draw the lasso;
// because terminals never report key releases, modifier state is taken from
// each mouse event, and the l key latches the modifiers for terminals that
// do not report them at all.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"

	"plot-lasso/src/eventloop"
	"plot-lasso/src/lasso"
	"plot-lasso/src/plot"
)

// Options configures Run.
type Options struct {
	// Loop owns the controller; it must already be running.
	Loop *eventloop.Loop
	// Host draws the figure through the grid.
	Host *plot.Host
	// Grid is the presenter the host draws through.
	Grid *Grid
	// Modifiers are the names the controller gates on.
	Modifiers []string
	Logger    *slog.Logger
}

// Open creates and initialises a terminal screen with mouse reporting.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tui: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tui: init screen: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.Clear()
	return screen, nil
}

// Run forwards terminal input to the loop until ctx is done or the user
// quits with q or Ctrl+C. Esc cancels an open lasso.
func Run(ctx context.Context, screen tcell.Screen, opts Options) error {
	if opts.Loop == nil || opts.Host == nil || opts.Grid == nil {
		return errors.New("tui: loop, host and grid are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	in := newInput(opts.Grid.Sample, opts.Modifiers)
	status := func() {
		opts.Grid.SetStatus(statusLine(opts.Modifiers, in))
	}

	if err := opts.Loop.Do(ctx, opts.Host.Redraw); err != nil {
		return err
	}
	status()

	events := make(chan tcell.Event)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	post := func(evs []lasso.Event) error {
		for _, ev := range evs {
			if err := opts.Loop.Post(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		var ev tcell.Event
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok = <-events:
			if !ok {
				return nil
			}
		}

		switch e := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			opts.Grid.Resize()
			if err := opts.Loop.Do(ctx, opts.Host.Redraw); err != nil {
				return err
			}
			status()

		case *tcell.EventMouse:
			if err := post(in.mouse(e)); err != nil {
				return err
			}

		case *tcell.EventKey:
			switch {
			case e.Key() == tcell.KeyCtrlC, e.Key() == tcell.KeyRune && e.Rune() == 'q':
				logger.Info("quit requested")
				return nil
			case e.Key() == tcell.KeyEscape:
				in.release()
				err := opts.Loop.Do(ctx, func() { opts.Loop.Controller().Reset() })
				if err != nil {
					return err
				}
				status()
			case e.Key() == tcell.KeyRune && e.Rune() == 'l':
				if err := post(in.toggleLatch()); err != nil {
					return err
				}
				status()
			}
		}
	}
}

func statusLine(modifiers []string, in *input) string {
	gate := strings.Join(modifiers, "+")
	if gate == "" {
		gate = "none"
	}
	latch := "off"
	if in.latched {
		latch = "on"
	}
	return fmt.Sprintf(" lasso: hold %s and drag | l latch (%s) | esc cancel | q quit", gate, latch)
}
