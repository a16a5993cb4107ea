package sufast

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server is the listener and router glue of component G: it binds a TCP
// address, wraps the net/http server with h2c cleartext HTTP/2 for the
// no-TLS case, applies the permissive CORS layer, and funnels every method
// and path to the Dispatcher through a single catch-all handler — the
// router itself never registers a per-path net/http pattern.
type Server struct {
	Dispatcher *Dispatcher
	CORS       corsConfig
	Log        logr.Logger

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxBodyBytes      int64

	httpServer *http.Server
	listener   net.Listener
}

// NewServer wires a Server around an already-constructed Dispatcher.
func NewServer(dispatcher *Dispatcher, log logr.Logger) *Server {
	return &Server{
		Dispatcher:        dispatcher,
		CORS:              defaultCORS,
		Log:               log,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxBodyBytes:      4 << 20,
	}
}

// ServeHTTP adapts an *http.Request/ResponseWriter pair to the
// transport-agnostic Dispatcher and writes back whatever it returns.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		defer r.Body.Close()
		b, err := io.ReadAll(io.LimitReader(r.Body, s.MaxBodyBytes))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body = b
	}

	result := s.Dispatcher.Dispatch(requestIn{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Headers:  r.Header,
		Body:     body,
	})

	for _, h := range result.Headers {
		w.Header().Set(h.Name, h.Value)
	}
	w.WriteHeader(result.Status)
	w.Write(result.Body)
}

// Serve binds host:port (applying the port-1 sentinel), starts accepting
// connections, and blocks until ctx is done or the server stops on its
// own. Absent TLS configuration — which is explicitly out of this core's
// scope, left to whatever terminates TLS in front of it — h2c.NewHandler
// upgrades the plaintext listener to also speak cleartext HTTP/2.
func (s *Server) Serve(ctx context.Context, host string, port int) error {
	port = resolvePort(port)
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln

	h2s := &http2.Server{IdleTimeout: s.IdleTimeout}
	handler := withCORS(s.CORS, h2c.NewHandler(http.HandlerFunc(s.ServeHTTP), h2s))

	s.httpServer = &http.Server{
		Handler:           handler,
		ReadTimeout:       s.ReadTimeout,
		ReadHeaderTimeout: s.ReadHeaderTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}

	s.Log.Info("listening", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.Serve(ln) }()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the server, per net/http.Server.Shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the bound address, or "" before Serve has been called.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
