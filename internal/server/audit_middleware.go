package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"
)

func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType := r.Header.Get("Content-Type")
		skipRequestBody := strings.Contains(contentType, "multipart/form-data")
		entry := AuditLogEntry{
			Timestamp: time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Handler:   handlerName(r.URL.Path, r.Method),
			Caller:    r.Header.Get(callerHeader),
		}

		if username, _, ok := r.BasicAuth(); ok {
			entry.AdminUser = username
		}

		entry.ProductID = pathSegmentAfter(r.URL.Path, "products")
		entry.WorkerID = pathSegmentAfter(r.URL.Path, "workers")

		if !skipRequestBody && r.Body != nil {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = string(requestBody)
		}

		arw := newAuditResponseWriter(w)

		next.ServeHTTP(arw, r)

		entry.StatusCode = arw.Status()
		// Binary responses (credential PNGs) are not worth replaying into the
		// audit log.
		if !strings.Contains(arw.Header().Get("Content-Type"), "image/") {
			entry.Response = string(arw.Body())
		}

		s.AuditManager.LogEntry(r.Context(), entry)
	})
}

func pathSegmentAfter(path, marker string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == marker && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func handlerName(path string, method string) string {
	switch {
	case strings.HasPrefix(path, "/workers"):
		switch {
		case method == http.MethodPost:
			return "handleRegisterWorker"
		case strings.HasSuffix(path, "/products"):
			return "handleAssignedProducts"
		case path == "/workers":
			return "handleListWorkers"
		default:
			return "handleGetWorker"
		}
	case strings.HasPrefix(path, "/products"):
		switch {
		case strings.HasSuffix(path, "/history"):
			return "handleProductHistory"
		case strings.HasSuffix(path, "/status"):
			return "handleUpdateStatus"
		case strings.HasSuffix(path, "/transfer"):
			return "handleTransferOwnership"
		case strings.HasSuffix(path, "/credential"):
			return "handleIssueCredential"
		case method == http.MethodPost:
			return "handleAddProduct"
		case path == "/products":
			return "handleListProducts"
		default:
			return "handleGetProduct"
		}
	case strings.HasPrefix(path, "/verify"):
		return "handleVerify"
	}
	return "unknown"
}
