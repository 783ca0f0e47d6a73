package notifserver

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/synergy-au/sep2go/internal/seplog"
	"github.com/synergy-au/sep2go/internal/sep2err"
	"github.com/synergy-au/sep2go/tlsprofile"
)

// Config holds the inputs needed to build a ClientNotifServer (IEEE 2030.5
// §6): listen address, server keypair, trust root, and the admission
// limit (component J).
type Config struct {
	ListenAddr     string
	CertPath       string
	KeyPath        string
	RootCAPath     string
	AdmissionLimit int // 0 selects DefaultAdmissionLimit
	Log            seplog.Logger
}

// ClientNotifServer is the embedded mutual-TLS notification receiver
// (IEEE 2030.5 §4.F). Build one with Configure, register routes with Add,
// then Run it; Shutdown stops it.
type ClientNotifServer struct {
	cfg    Config
	log    seplog.Logger
	router *Router
	tlsCfg *tls.Config

	mu       sync.Mutex
	listener net.Listener
	httpSrv  *http.Server
	conns    map[net.Conn]struct{}
	inFlight sync.WaitGroup
}

// Configure builds the TLS acceptor and an empty router; it does not bind
// a listener or start serving (IEEE 2030.5 §4.F's builder-pattern contract).
func Configure(cfg Config) (*ClientNotifServer, error) {
	if cfg.AdmissionLimit <= 0 {
		cfg.AdmissionLimit = DefaultAdmissionLimit
	}
	log := cfg.Log
	if log == (seplog.Logger{}) {
		log = seplog.Nop()
	}

	tlsCfg, err := tlsprofile.NewServerAcceptor(tlsprofile.ServerConfig{
		CertPath:   cfg.CertPath,
		KeyPath:    cfg.KeyPath,
		RootCAPath: cfg.RootCAPath,
	})
	if err != nil {
		return nil, sep2err.Wrap(sep2err.Config, "building TLS server acceptor", err)
	}

	return &ClientNotifServer{
		cfg:    cfg,
		log:    log,
		router: newRouter(),
		tlsCfg: tlsCfg,
		conns:  make(map[net.Conn]struct{}),
	}, nil
}

// Run binds the listen address, wraps it in the TLS acceptor and the
// admission-control listener, and serves until ctx is cancelled. It
// returns an error only if the server could not be started (bind or TLS
// config failure); per-connection failures are logged and do not abort
// the server, matching IEEE 2030.5 §7's "self-healing for per-connection
// failures but not for bind failures."
//
// The accept loop and the shutdown watcher run as an errgroup.Group: two
// fixed members instead of one-per-check, but the same
// run-concurrently-and-surface-the-first-real-error shape.
func (s *ClientNotifServer) Run(ctx context.Context) error {
	rawListener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return sep2err.Wrap(sep2err.Transport, "binding notification server listener", err)
	}
	listener := newAdmissionListener(tls.NewListener(rawListener, s.tlsCfg), s.cfg.AdmissionLimit)

	httpSrv := &http.Server{
		Handler:   http.HandlerFunc(s.serveHTTP),
		ConnState: s.trackConnState,
	}

	s.mu.Lock()
	s.listener = listener
	s.httpSrv = httpSrv
	s.mu.Unlock()

	s.log.Infof("notification server listening on %s", s.cfg.ListenAddr)

	serveDone := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(serveDone)
		err := httpSrv.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			s.log.Debugf("notification server aborting all in-flight connections")
			s.abortConnections()
			_ = httpSrv.Close()
		case <-serveDone:
		}
		return nil
	})

	err = g.Wait()
	s.log.Infof("notification server has been shut down")
	return err
}

// serveHTTP dispatches req through the router. A router error (currently
// only a non-UTF-8 body) is never turned into a SepResponse: it's logged
// and the connection is aborted via http.ErrAbortHandler, matching IEEE
// 2030.5 §4.F's "non-UTF-8 body is a connection-serving error, not an
// HTTP response."
func (s *ClientNotifServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.inFlight.Add(1)
	defer s.inFlight.Done()

	resp, err := s.router.route(r)
	if err != nil {
		s.log.Errorf("aborting connection for %s: %v", r.URL.Path, err)
		panic(http.ErrAbortHandler)
	}
	resp.WriteTo(w)
}

func (s *ClientNotifServer) trackConnState(conn net.Conn, state http.ConnState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch state {
	case http.StateNew:
		s.conns[conn] = struct{}{}
	case http.StateClosed, http.StateHijacked:
		delete(s.conns, conn)
	}
}

// abortConnections closes every currently tracked connection directly,
// forcing any in-flight handler to observe a read/write error and return,
// then waits for every handler invocation to actually finish — abort,
// not drain, matching IEEE 2030.5 §4.F.3/§5's "per-connection tasks are
// aborted (hard cancel), not drained" and the original source's
// JoinSet::shutdown (abort_all + await), not a graceful http.Server.Shutdown.
func (s *ClientNotifServer) abortConnections() {
	s.mu.Lock()
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
	s.inFlight.Wait()
}

// Shutdown aborts a running server: every tracked connection is closed
// directly and every in-flight handler is awaited, then the listener is
// closed. This is a hard cancel, not a graceful drain — equivalent to
// cancelling the context passed to Run. ctx is accepted for interface
// symmetry with Run but is not used as a drain deadline, since the abort
// itself is what bounds how long in-flight handlers take to return.
func (s *ClientNotifServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.abortConnections()
	return srv.Close()
}
