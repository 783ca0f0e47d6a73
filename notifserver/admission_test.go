package notifserver

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAdmissionListenerBoundsConcurrentAccepts(t *testing.T) {
	raw, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer raw.Close()

	al := newAdmissionListener(raw, 1)

	dial := func() net.Conn {
		conn, err := net.Dial("tcp", raw.Addr().String())
		require.NoError(t, err)
		return conn
	}

	go dial()
	first, err := al.Accept()
	require.NoError(t, err)
	defer first.Close()

	go dial()
	acceptedSecond := make(chan net.Conn, 1)
	go func() {
		c, err := al.Accept()
		if err == nil {
			acceptedSecond <- c
		}
	}()

	select {
	case <-acceptedSecond:
		t.Fatal("second Accept should have blocked while the first connection's slot is held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Close())

	select {
	case c := <-acceptedSecond:
		defer c.Close()
	case <-time.After(time.Second):
		t.Fatal("second Accept did not unblock after the first connection's slot was released")
	}
}
