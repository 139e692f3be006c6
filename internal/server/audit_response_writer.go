package server

import (
	"bytes"
	"net/http"
)

// auditResponseWriter tees the status code and body of a response so the
// audit middleware can record what was actually sent.
type auditResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func newAuditResponseWriter(w http.ResponseWriter) *auditResponseWriter {
	return &auditResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *auditResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *auditResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *auditResponseWriter) Status() int {
	return w.status
}

func (w *auditResponseWriter) Body() []byte {
	return w.body.Bytes()
}
