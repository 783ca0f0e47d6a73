package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/synergy-au/sep2go/resource"
)

func TestStartPollForceRunTriggersImmediateGet(t *testing.T) {
	var calls int32
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return httpResponse(http.StatusOK, `<EndDevice><sFDI>9</sFDI></EndDevice>`, nil), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan resource.EndDevice, 4)
	StartPoll[resource.EndDevice](ctx, c, "/edev", PollOptions{Rate: time.Hour}, func(r resource.EndDevice) {
		done <- r
	})

	// StartPoll subscribes before it returns; give the goroutine a moment
	// to reach its wait before forcing.
	time.Sleep(20 * time.Millisecond)
	c.ForcePoll()

	select {
	case r := <-done:
		require.Equal(t, uint64(9), r.SFDI)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forced poll callback")
	}
}

func TestStartPollCancelStopsFurtherCallbacks(t *testing.T) {
	var calls int32
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return httpResponse(http.StatusOK, `<EndDevice><sFDI>1</sFDI></EndDevice>`, nil), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoll[resource.EndDevice](ctx, c, "/edev", PollOptions{Rate: 5 * time.Millisecond}, func(resource.EndDevice) {
		atomic.AddInt32(&calls, 100)
	})

	time.Sleep(10 * time.Millisecond)
	c.CancelPolls()
	time.Sleep(50 * time.Millisecond)
	after := atomic.LoadInt32(&calls)

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, after, atomic.LoadInt32(&calls))
}

func TestBroadcastSendWithNoSubscribersIsNoop(t *testing.T) {
	b := newBroadcaster()
	require.NotPanics(t, func() { b.send(pollForceRun) })
}

func TestBroadcastFansOutToAllSubscribers(t *testing.T) {
	b := newBroadcaster()
	ch1, unsub1 := b.subscribe()
	defer unsub1()
	ch2, unsub2 := b.subscribe()
	defer unsub2()

	b.send(pollCancel)

	require.Equal(t, pollCancel, <-ch1)
	require.Equal(t, pollCancel, <-ch2)
}
