package notifserver

import (
	"net"
	"sync"
	"time"
)

// admissionListener bounds the number of connections concurrently being
// served to its semaphore's capacity. Accept acquires a slot before
// returning the connection; the slot is released when the connection is
// closed. A caller with no free slot blocks rather than being rejected,
// matching IEEE 2030.5 §9's resolution that admission control blocks instead
// of rejecting (the baseline contract has no concurrency cap at all; this
// is an additive, generous bound).
type admissionListener struct {
	net.Listener
	sem chan struct{}
}

func newAdmissionListener(l net.Listener, limit int) *admissionListener {
	return &admissionListener{Listener: l, sem: make(chan struct{}, limit)}
}

func (a *admissionListener) Accept() (net.Conn, error) {
	start := time.Now()
	a.sem <- struct{}{}
	admissionWaitSeconds.Observe(time.Since(start).Seconds())

	conn, err := a.Listener.Accept()
	if err != nil {
		<-a.sem
		return nil, err
	}
	acceptedConnections.Inc()
	inFlightConnections.Inc()
	return &admittedConn{Conn: conn, release: func() { <-a.sem; inFlightConnections.Dec() }}, nil
}

// admittedConn releases its admission slot exactly once, on the first
// Close call, regardless of how many times Close is invoked afterward.
type admittedConn struct {
	net.Conn
	release func()
	once    sync.Once
}

func (c *admittedConn) Close() error {
	c.once.Do(c.release)
	return c.Conn.Close()
}
