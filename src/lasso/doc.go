// Package lasso implements freehand region selection on 2-D plotting
// surfaces.
//
// A Controller consumes key and pointer events and runs a small state
// machine:
//
//	Idle  --all modifiers held-->            Armed
//	Armed --any modifier released-->         Idle
//	Armed --primary press on a surface-->    Open   (Handler.OnOpen)
//	Open  --move on the same surface-->      Open   (sample appended)
//	Open  --primary release-->               Idle/Armed (Handler.OnClose if > 3 samples)
//
// Moves on other surfaces or outside every surface are ignored, so a lasso
// stays on the surface where it began. Samples are kept in data coordinates
// and the finished outline is queried with Session.Contains.
//
// Handlers run synchronously on the caller's goroutine and their errors are
// returned from the event method unchanged. The Controller is not safe for
// concurrent use.
package lasso
