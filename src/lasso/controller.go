package lasso

import (
	"log/slog"

	"plot-lasso/src/geometry"
	"plot-lasso/src/hotkey"
)

// State is the controller's interaction state.
type State uint8

const (
	// Idle means the modifier gate is not satisfied and no session is open.
	Idle State = iota
	// Armed means all configured modifiers are held and no session is open.
	Armed
	// Open means a session is accumulating samples.
	Open
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Open:
		return "open"
	default:
		return "idle"
	}
}

// Options configures a Controller.
type Options struct {
	// Handler receives open/close notifications. Nil means NopHandler.
	Handler Handler
	// Renderer draws the lasso. Nil means NopRenderer.
	Renderer Renderer
	// Modifiers must all be held to open a session. Nil means
	// hotkey.DefaultModifiers; an empty non-nil slice disables the gate.
	Modifiers []string
	// Style of the lasso outline. The zero value means DefaultStyle.
	Style Style
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Controller turns key and pointer events into lasso sessions. It is not
// safe for concurrent use: all events must come from one goroutine (see the
// eventloop package for serializing several sources).
type Controller struct {
	handler   Handler
	renderer  Renderer
	style     Style
	modifiers *hotkey.ModifierState
	logger    *slog.Logger

	session *Session
	last    *Session

	// outline is the surface still showing the previous session's outline.
	outline    SurfaceID
	hasOutline bool
}

// New creates a controller.
func New(opts Options) *Controller {
	c := &Controller{
		handler:  opts.Handler,
		renderer: opts.Renderer,
		style:    opts.Style,
		logger:   opts.Logger,
	}
	if c.handler == nil {
		c.handler = NopHandler{}
	}
	if c.renderer == nil {
		c.renderer = NopRenderer{}
	}
	if c.style == (Style{}) {
		c.style = DefaultStyle()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	mods := opts.Modifiers
	if mods == nil {
		mods = hotkey.DefaultModifiers
	}
	c.modifiers = hotkey.NewModifierState(mods)
	return c
}

// State returns the current interaction state.
func (c *Controller) State() State {
	if c.session != nil {
		return Open
	}
	if c.modifiers.Armed() {
		return Armed
	}
	return Idle
}

// Session returns the open session, or nil.
func (c *Controller) Session() *Session { return c.session }

// Last returns the most recently released session, or nil.
func (c *Controller) Last() *Session { return c.last }

// Modifiers returns the configured modifier names.
func (c *Controller) Modifiers() []string { return c.modifiers.Names() }

// Style returns the outline style in use.
func (c *Controller) Style() Style { return c.style }

// Handle dispatches one event. The returned error comes from the handler.
func (c *Controller) Handle(ev Event) error {
	switch ev.Kind {
	case KeyPress:
		c.KeyPress(ev.Key)
	case KeyRelease:
		c.KeyRelease(ev.Key)
	case PointerPress:
		return c.Press(ev.Sample)
	case PointerMove:
		return c.Move(ev.Sample)
	case PointerRelease:
		return c.Release(ev.Sample)
	default:
		c.logger.Debug("ignoring unknown event", "kind", ev.Kind)
	}
	return nil
}

// KeyPress records a key or '+'-joined combination going down.
func (c *Controller) KeyPress(combo string) {
	if c.modifiers.Press(combo) {
		c.logger.Debug("lasso armed", "key", combo)
	}
}

// KeyRelease records a key or combination going up. Releasing a modifier
// while a session is open does not close it.
func (c *Controller) KeyRelease(combo string) {
	if c.modifiers.Release(combo) {
		c.logger.Debug("lasso disarmed", "key", combo)
	}
}

// Press opens a session when the gate is armed and the primary button goes
// down over a surface.
func (c *Controller) Press(s Sample) error {
	if c.session != nil || s.Button != ButtonPrimary || !s.Defined() || !c.modifiers.Armed() {
		return nil
	}

	if c.hasOutline {
		c.renderer.ClearLasso(c.outline)
		c.hasOutline = false
	}
	c.renderer.SaveBackground(s.Surface)

	sess := newSession(s)
	c.session = sess
	c.logger.Debug("lasso opened", "surface", s.Surface, "x", s.X, "y", s.Y)

	if err := c.handler.OnOpen(sess); err != nil {
		c.session = nil
		return err
	}

	c.outline, c.hasOutline = s.Surface, true
	c.renderer.DrawLasso(s.Surface, c.frame(sess, s), c.style)
	return nil
}

// Move appends a sample to the open session. Samples from another surface,
// or from outside any surface, are dropped.
func (c *Controller) Move(s Sample) error {
	sess := c.session
	if sess == nil || !s.Defined() || s.Surface != sess.surface {
		return nil
	}

	sess.append(s)
	c.renderer.DrawLasso(sess.surface, c.frame(sess, s), c.style)
	return nil
}

// Release closes the open session on primary button up, wherever the button
// is released: over another surface or outside every surface still ends the
// drag. Sessions with more than three samples are passed to the handler;
// shorter ones are dropped without notification.
func (c *Controller) Release(s Sample) error {
	sess := c.session
	if sess == nil || s.Button != ButtonPrimary {
		return nil
	}

	c.session = nil
	sess.closed = true
	c.last = sess
	c.renderer.FinishLasso(sess.surface, sess.Polygon().Closed(), c.style)

	if !sess.closeable() {
		c.logger.Debug("lasso discarded", "surface", sess.surface, "samples", sess.Len())
		c.renderer.Redraw()
		return nil
	}

	c.logger.Debug("lasso closed", "surface", sess.surface, "samples", sess.Len())
	if err := c.handler.OnClose(sess); err != nil {
		return err
	}
	c.renderer.Redraw()
	return nil
}

// Reset drops the open session without notifying the handler, removes the
// outline left by the previous session and releases every modifier.
func (c *Controller) Reset() {
	c.session = nil
	if c.hasOutline {
		c.renderer.ClearLasso(c.outline)
		c.hasOutline = false
		c.renderer.Redraw()
	}
	c.modifiers.Reset()
}

func (c *Controller) frame(sess *Session, cursor Sample) Frame {
	at := geometry.Point{X: cursor.X, Y: cursor.Y}
	return Frame{
		Path: sess.Polygon(),
		Guides: [2][2]geometry.Point{
			{sess.first(), at},
			{sess.last(), at},
		},
	}
}
