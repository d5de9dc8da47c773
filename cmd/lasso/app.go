package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"plot-lasso/src/clipboard"
	"plot-lasso/src/config"
	"plot-lasso/src/lasso"
	"plot-lasso/src/luahook"
	"plot-lasso/src/plot"
	"plot-lasso/src/selection"
	"plot-lasso/src/worker"
)

// demoSeed fixes the demo figure so repeated runs show the same cloud.
const demoSeed = 1

// app is a figure wired to a controller for one host.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	fig  *plot.Figure
	host *plot.Host
	ctrl *lasso.Controller

	// clear hides selection highlights.
	clear func()
	close func()
}

func loadFigure(cfg *config.Config, logger *slog.Logger) (*plot.Figure, error) {
	if cfg.FigureFile == "" {
		logger.Info("no figure file configured, using demo figure")
		return plot.DemoFigure(demoSeed), nil
	}
	fig, err := plot.LoadFigure(cfg.FigureFile)
	if err != nil {
		return nil, fmt.Errorf("load figure %s: %w", cfg.FigureFile, err)
	}
	logger.Info("figure loaded", "path", cfg.FigureFile, "axes", len(fig.AllAxes()))
	return fig, nil
}

// newReporter returns the configured reporter, or nil when reports are off.
// Clipboard writes run on a one-worker pool; the returned func drains it.
func newReporter(cfg *config.Config, out io.Writer, logger *slog.Logger) (*selection.Reporter, func(), error) {
	switch cfg.Report {
	case config.ReportStdout:
		return selection.NewReporter(selection.StdoutTarget{Writer: out}, logger), func() {}, nil
	case config.ReportClipboard:
		if err := clipboard.Init(); err != nil {
			return nil, nil, fmt.Errorf("clipboard unavailable: %w", err)
		}
		pool := worker.New(1, logger)
		target := worker.AsyncTarget{
			Pool:   pool,
			Target: selection.ClipboardTarget{},
			OnDone: func(err error) {
				if err != nil {
					logger.Error("clipboard report failed", "error", err)
					return
				}
				logger.Debug("report copied to clipboard")
			},
		}
		return selection.NewReporter(target, logger), pool.Close, nil
	default:
		return nil, func() {}, nil
	}
}

// wire builds the selection handler chain and the controller for fig drawn
// through pres. Reports go to out when the stdout target is configured.
func wire(cfg *config.Config, fig *plot.Figure, pres plot.Presenter, out io.Writer, logger *slog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger, fig: fig, close: func() {}}
	a.host = plot.NewHost(fig, pres, logger)

	reporter, closeReporter, err := newReporter(cfg, out, logger)
	if err != nil {
		return nil, err
	}
	a.close = closeReporter
	defer func() {
		if err != nil {
			closeReporter()
		}
	}()

	markers := selection.MarkerStyle{Color: cfg.MarkerColor, Symbol: cfg.MarkerSymbol, Size: cfg.MarkerSize}
	var handler lasso.Handler

	switch cfg.Strategy {
	case config.StrategyXY:
		data := fig.Linked()
		if len(data) == 0 {
			return nil, errors.New("xy strategy needs axes built from record columns (xy = [...])")
		}
		opts := selection.XYOptions{Markers: markers, Logger: logger}
		if reporter != nil {
			opts.OnSelect = reporter.OnSelect
		}
		h, err := selection.NewXYHandler(a.host, data, opts)
		if err != nil {
			return nil, err
		}
		handler, a.clear = h, h.Clear

	default:
		opts := selection.AutoOptions{Markers: markers, Logger: logger}
		if reporter != nil {
			opts.OnPick = reporter.OnPick
		}
		h := selection.NewAutoHandler(a.host, opts)
		handler, a.clear = h, h.Clear
	}

	if cfg.LuaHandler != "" {
		lh, err := luahook.Load(cfg.LuaHandler, handler, logger)
		if err != nil {
			return nil, err
		}
		handler = lh
		a.close = func() {
			lh.Close()
			closeReporter()
		}
		logger.Info("lua handler loaded", "path", cfg.LuaHandler,
			"on_open", lh.Defines("on_open"), "on_close", lh.Defines("on_close"))
	}

	a.ctrl = lasso.New(lasso.Options{
		Handler:   handler,
		Renderer:  a.host,
		Modifiers: cfg.Modifiers,
		Style: lasso.Style{
			Color:     cfg.LassoColor,
			LineStyle: cfg.LassoLineStyle,
			Width:     cfg.LassoLineWidth,
		},
		Logger: logger,
	})
	logger.Debug("controller ready", "strategy", cfg.Strategy, "modifiers", a.ctrl.Modifiers(), "report", cfg.Report)
	return a, nil
}
