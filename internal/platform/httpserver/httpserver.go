// Package httpserver builds the server the clan API listens on.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server for addr. Clan endpoints are short request/response
// exchanges; every phase of a connection carries a bounded timeout.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
