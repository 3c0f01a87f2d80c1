package middleware

import (
	"bufio"
	"net"
	"net/http"
)

// StatusRecorder wraps a ResponseWriter and remembers the status and size of
// the response. The first status written wins, as it does on the wire.
type StatusRecorder struct {
	http.ResponseWriter
	statusCode   int
	wroteHeader  bool
	bytesWritten int64
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (s *StatusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}

	s.statusCode = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *StatusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true

	n, err := s.ResponseWriter.Write(b)
	s.bytesWritten += int64(n)

	return n, err
}

func (s *StatusRecorder) Flush() {
	if flusher, ok := s.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (s *StatusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := s.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}

	return nil, nil, http.ErrNotSupported
}

func (s *StatusRecorder) StatusCode() int {
	return s.statusCode
}

func (s *StatusRecorder) BytesWritten() int64 {
	return s.bytesWritten
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *StatusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// recorderFrom reuses a recorder installed further out in the chain.
func recorderFrom(w http.ResponseWriter) *StatusRecorder {
	if recorder, ok := w.(*StatusRecorder); ok {
		return recorder
	}

	return NewStatusRecorder(w)
}
