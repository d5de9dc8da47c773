package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"plot-lasso/src/config"
	"plot-lasso/src/eventloop"
	"plot-lasso/src/gui"
	"plot-lasso/src/hotkey"
	"plot-lasso/src/lasso"
	"plot-lasso/src/logutil"
	"plot-lasso/src/render"
	"plot-lasso/src/replay"
	"plot-lasso/src/tui"
)

type rootOptions struct {
	figure    string
	out       string
	strategy  string
	modifiers string
	report    string
	lua       string
	keySource string
	verbose   bool
}

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		args = []string{"lasso"}
	}
	cmd := newRootCmd(&rootOptions{})
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "lasso",
		Short:         "Freehand lasso selection on scatter plots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.figure, "figure", "", "Figure description (TOML); default is a demo figure")
	root.PersistentFlags().StringVar(&opts.out, "out", "", "PNG file the canvas is saved to")
	root.PersistentFlags().StringVar(&opts.strategy, "strategy", "", "Selection strategy: auto or xy")
	root.PersistentFlags().StringVar(&opts.modifiers, "modifiers", "", "Modifier keys that arm the lasso, e.g. ctrl+shift")
	root.PersistentFlags().StringVar(&opts.report, "report", "", "Where selection reports go: none, stdout or clipboard")
	root.PersistentFlags().StringVar(&opts.lua, "lua", "", "Lua script with on_open/on_close hooks")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging to stderr")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "Open the figure in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(cmd, opts)
		},
	}
	guiCmd.Flags().StringVar(&opts.keySource, "keys", "", "Modifier source: window or global")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Show the figure in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	replayCmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Feed a scripted input session to the lasso and report the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, opts, args[0])
		},
	}

	root.AddCommand(guiCmd, tuiCmd, replayCmd)
	return root
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ModifiersOverride: opts.modifiers,
		StrategyOverride:  opts.strategy,
		ReportOverride:    opts.report,
		KeySourceOverride: opts.keySource,
		FigureOverride:    opts.figure,
		LuaOverride:       opts.lua,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
		cfg.EnableFileLogging = false
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config, stderr io.Writer) (*slog.Logger, func()) {
	logger, closeLog := logutil.Setup(cfg.EnableFileLogging, cfg.LogLevel, stderr)
	if cfg.EnvFile != "" {
		logger.Debug("configuration loaded", "env_file", cfg.EnvFile)
	}
	return logger, closeLog
}

func runGUI(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closeLog := setupLogging(cfg, cmd.ErrOrStderr())
	defer closeLog()

	fig, err := loadFigure(cfg, logger)
	if err != nil {
		return err
	}
	raster := render.NewRaster(fig.Width, fig.Height, logger)
	a, err := wire(cfg, fig, raster, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	loop := eventloop.New(a.ctrl, logger)
	loop.OnError = gui.NotifyError
	go func() { _ = loop.Run(ctx) }()

	err = gui.Run(ctx, gui.Options{
		Loop:       loop,
		Host:       a.host,
		Raster:     raster,
		Modifiers:  a.ctrl.Modifiers(),
		GlobalKeys: cfg.KeySource == config.KeySourceGlobal,
		Clear:      a.clear,
		SavePath:   opts.out,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	if opts.out != "" {
		return raster.Save(opts.out)
	}
	return nil
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("tui needs an interactive terminal")
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	// The screen owns the terminal: logs only go to the file, reports are
	// printed once the screen is gone.
	var logger *slog.Logger
	closeLog := func() {}
	if cfg.EnableFileLogging {
		logger, closeLog = setupLogging(cfg, cmd.ErrOrStderr())
	} else {
		logger = slog.New(slog.DiscardHandler)
	}
	defer closeLog()

	fig, err := loadFigure(cfg, logger)
	if err != nil {
		return err
	}

	screen, err := tui.Open()
	if err != nil {
		return err
	}
	grid := tui.NewGrid(screen, fig, logger)

	var reports bytes.Buffer
	a, err := wire(cfg, fig, grid, &reports, logger)
	if err != nil {
		screen.Fini()
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	loop := eventloop.New(a.ctrl, logger)
	go func() { _ = loop.Run(ctx) }()

	err = tui.Run(ctx, screen, tui.Options{
		Loop:      loop,
		Host:      a.host,
		Grid:      grid,
		Modifiers: a.ctrl.Modifiers(),
		Logger:    logger,
	})
	stop()
	screen.Fini()

	if _, werr := io.Copy(cmd.OutOrStdout(), &reports); werr != nil && err == nil {
		err = werr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runReplay(cmd *cobra.Command, opts *rootOptions, path string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closeLog := setupLogging(cfg, cmd.ErrOrStderr())
	defer closeLog()

	script, err := replay.Load(path)
	if err != nil {
		return err
	}
	if len(script.Modifiers) > 0 {
		mods, err := hotkey.ParseModifiers(strings.Join(script.Modifiers, ","))
		if err != nil {
			return fmt.Errorf("%s: modifiers: %w", path, err)
		}
		cfg.Modifiers = mods
	}
	events, err := script.Events()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fig, err := loadFigure(cfg, logger)
	if err != nil {
		return err
	}
	raster := render.NewRaster(fig.Width, fig.Height, logger)
	out := cmd.OutOrStdout()
	a, err := wire(cfg, fig, raster, out, logger)
	if err != nil {
		return err
	}
	defer a.close()

	a.host.Redraw()
	if err := replay.Run(a.ctrl, events); err != nil {
		return err
	}

	fmt.Fprintln(out, summary(a.ctrl, len(events), colorEnabled(out)))

	if opts.out != "" {
		if err := raster.Save(opts.out); err != nil {
			return fmt.Errorf("save %s: %w", opts.out, err)
		}
		logger.Info("canvas saved", "path", opts.out)
	}
	return nil
}

func summary(c *lasso.Controller, events int, color bool) string {
	last := "no session"
	if s := c.Last(); s != nil {
		last = fmt.Sprintf("last session on %q with %d samples", s.Surface(), s.Len())
	}
	line := fmt.Sprintf("replayed %d events, state %s, %s", events, c.State(), last)
	if color {
		return "\x1b[32m" + line + "\x1b[0m"
	}
	return line
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
