package lasso

// Handler reacts to session lifecycle notifications. Both methods run
// synchronously on the goroutine delivering input; an error is returned to
// that caller unchanged.
type Handler interface {
	// OnOpen is called once a session starts, before any lasso is drawn.
	OnOpen(s *Session) error
	// OnClose is called with the finished session when it has more than
	// three samples.
	OnClose(s *Session) error
}

// NopHandler ignores every notification.
type NopHandler struct{}

func (NopHandler) OnOpen(*Session) error { return nil }
func (NopHandler) OnClose(*Session) error { return nil }

// HandlerFuncs adapts plain functions to a Handler. Nil fields are no-ops.
type HandlerFuncs struct {
	Open  func(s *Session) error
	Close func(s *Session) error
}

func (h HandlerFuncs) OnOpen(s *Session) error {
	if h.Open == nil {
		return nil
	}
	return h.Open(s)
}

func (h HandlerFuncs) OnClose(s *Session) error {
	if h.Close == nil {
		return nil
	}
	return h.Close(s)
}

// Chain calls each handler in order and stops at the first error.
type Chain []Handler

func (c Chain) OnOpen(s *Session) error {
	for _, h := range c {
		if err := h.OnOpen(s); err != nil {
			return err
		}
	}
	return nil
}

func (c Chain) OnClose(s *Session) error {
	for _, h := range c {
		if err := h.OnClose(s); err != nil {
			return err
		}
	}
	return nil
}
