package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
)

var errHijackUnsupported = errors.New("response writer does not support hijacking")

// hijackTracker records whether the wrapped connection was taken over
type hijackTracker struct {
	http.ResponseWriter
	hijacked bool
}

// Hijack implements http.Hijacker so WebSocket upgrades pass through
func (t *hijackTracker) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := t.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errHijackUnsupported
	}
	t.hijacked = true
	return hijacker.Hijack()
}
