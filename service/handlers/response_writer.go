package handlers

import "net/http"

// deferredWriter wraps a ResponseWriter and runs registered callbacks right
// before the first header write. The bootstrap middleware uses it to flush
// session and auto-login cookies decided during the request even when the
// route handler writes the response itself.
type deferredWriter struct {
	http.ResponseWriter
	before  []func(http.ResponseWriter)
	written bool
}

func newDeferredWriter(w http.ResponseWriter) *deferredWriter {
	return &deferredWriter{ResponseWriter: w}
}

// Before registers fn to run once, before headers are flushed.
func (w *deferredWriter) Before(fn func(http.ResponseWriter)) {
	w.before = append(w.before, fn)
}

func (w *deferredWriter) flushBefore() {
	if w.written {
		return
	}
	w.written = true
	for _, fn := range w.before {
		fn(w.ResponseWriter)
	}
}

func (w *deferredWriter) WriteHeader(statusCode int) {
	w.flushBefore()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *deferredWriter) Write(b []byte) (int, error) {
	w.flushBefore()
	return w.ResponseWriter.Write(b)
}

// Finish runs pending callbacks for handlers that never wrote a body.
func (w *deferredWriter) Finish() {
	w.flushBefore()
}
