// Package luahook runs Lua scripts on lasso open and close.
//
// A script may define the globals on_open(session) and on_close(session).
// The session table carries:
//
//	surface   surface id (string)
//	n         number of samples
//	x, y      sample coordinates (arrays)
//	closed    whether the pointer was released
//	contains  function(xs, ys) returning an array of booleans
//
// Scripts also get log(msg), which writes to the application log. Only the
// base, table, string and math libraries are opened.
package luahook

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"plot-lasso/src/lasso"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("lua handler closed")

// Handler wraps an inner lasso.Handler and then calls the script.
type Handler struct {
	mu     sync.Mutex
	L      *lua.LState
	inner  lasso.Handler
	logger *slog.Logger
	closed bool
}

// Load runs the script at path and returns a handler calling its hooks.
func Load(path string, inner lasso.Handler, logger *slog.Logger) (*Handler, error) {
	h := newHandler(inner, logger)
	if err := h.L.DoFile(path); err != nil {
		h.L.Close()
		return nil, fmt.Errorf("load lua handler %s: %w", path, err)
	}
	return h, nil
}

// New runs source and returns a handler calling its hooks.
func New(source string, inner lasso.Handler, logger *slog.Logger) (*Handler, error) {
	h := newHandler(inner, logger)
	if err := h.L.DoString(source); err != nil {
		h.L.Close()
		return nil, fmt.Errorf("load lua handler: %w", err)
	}
	return h, nil
}

func newHandler(inner lasso.Handler, logger *slog.Logger) *Handler {
	if inner == nil {
		inner = lasso.NopHandler{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	h := &Handler{L: L, inner: inner, logger: logger}
	L.SetGlobal("log", L.NewFunction(h.luaLog))
	return h
}

// openSafeLibraries opens only the libraries a selection script needs.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Defines reports whether the script defines the named global function.
func (h *Handler) Defines(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	return h.L.GetGlobal(name).Type() == lua.LTFunction
}

func (h *Handler) OnOpen(s *lasso.Session) error {
	if err := h.inner.OnOpen(s); err != nil {
		return err
	}
	return h.call("on_open", s)
}

func (h *Handler) OnClose(s *lasso.Session) error {
	if err := h.inner.OnClose(s); err != nil {
		return err
	}
	return h.call("on_close", s)
}

// Close releases the Lua state.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		h.L.Close()
	}
}

func (h *Handler) call(name string, s *lasso.Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	fn := h.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return nil
	}

	err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, h.sessionTable(s))
	if err != nil {
		return fmt.Errorf("lua %s: %w", name, err)
	}
	return nil
}

func (h *Handler) sessionTable(s *lasso.Session) *lua.LTable {
	L := h.L
	t := L.NewTable()
	xs, ys := s.XY()

	t.RawSetString("surface", lua.LString(s.Surface()))
	t.RawSetString("n", lua.LNumber(s.Len()))
	t.RawSetString("closed", lua.LBool(s.Closed()))
	t.RawSetString("x", numbers(L, xs))
	t.RawSetString("y", numbers(L, ys))
	t.RawSetString("contains", L.NewFunction(func(L *lua.LState) int {
		qx := floats(L, 1)
		qy := floats(L, 2)
		mask, err := s.Contains(qx, qy)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		out := L.CreateTable(len(mask), 0)
		for _, in := range mask {
			out.Append(lua.LBool(in))
		}
		L.Push(out)
		return 1
	}))
	return t
}

func (h *Handler) luaLog(L *lua.LState) int {
	h.logger.Info(L.CheckString(1), "source", "lua")
	return 0
}

func numbers(L *lua.LState, vs []float64) *lua.LTable {
	t := L.CreateTable(len(vs), 0)
	for _, v := range vs {
		t.Append(lua.LNumber(v))
	}
	return t
}

// floats reads argument n as an array of numbers.
func floats(L *lua.LState, n int) []float64 {
	t := L.CheckTable(n)
	out := make([]float64, t.Len())
	for i := range out {
		v, ok := t.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			L.ArgError(n, fmt.Sprintf("element %d is not a number", i+1))
			return nil
		}
		out[i] = float64(v)
	}
	return out
}
