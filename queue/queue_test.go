package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/tradingengine/core"
)

func record(msg string) core.Record {
	return core.NewRecord(core.Information, "Test", msg)
}

func TestQueue_FIFO(t *testing.T) {
	q := New()
	for i := 0; i < 5000; i++ {
		require.True(t, q.Post(record(fmt.Sprint(i))))
	}
	require.Equal(t, 5000, q.Len())

	ctx := context.Background()
	for i := 0; i < 5000; i++ {
		r, err := q.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprint(i), r.Message)
	}
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, uint64(5000), q.Stats().GetSnapshot().Posted)
}

func TestQueue_ReceiveBlocksUntilPost(t *testing.T) {
	q := New()
	got := make(chan core.Record, 1)
	go func() {
		r, err := q.Receive(context.Background())
		if err == nil {
			got <- r
		}
	}()

	select {
	case <-got:
		t.Fatal("Receive returned before anything was posted")
	case <-time.After(20 * time.Millisecond):
	}

	q.Post(record("wake"))
	select {
	case r := <-got:
		assert.Equal(t, "wake", r.Message)
	case <-time.After(time.Second):
		t.Fatal("Receive did not return after Post")
	}
}

func TestQueue_ReceiveCancelled(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := q.Receive(ctx)
		errCh <- err
	}()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, core.ErrCancelled)
	case <-time.After(time.Second):
		t.Fatal("Receive did not observe cancellation")
	}
}

func TestQueue_ReceivePendingAfterCancel(t *testing.T) {
	q := New()
	q.Post(record("pending"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pending", r.Message)

	_, err = q.Receive(ctx)
	assert.ErrorIs(t, err, core.ErrCancelled)
}

func TestQueue_Close(t *testing.T) {
	q := New()
	require.True(t, q.Post(record("before")))

	q.Close()
	q.Close()
	assert.True(t, q.Closed())
	assert.False(t, q.Post(record("after")))

	r, err := q.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "before", r.Message)

	_, err = q.Receive(context.Background())
	assert.ErrorIs(t, err, core.ErrQueueClosed)

	snap := q.Stats().GetSnapshot()
	assert.Equal(t, uint64(1), snap.Posted)
	assert.Equal(t, uint64(1), snap.Rejected)
}

func TestQueue_CloseWakesReceiver(t *testing.T) {
	q := New()
	errCh := make(chan error, 1)
	go func() {
		_, err := q.Receive(context.Background())
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, core.ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("Close did not wake the receiver")
	}
}

func TestQueue_Discard(t *testing.T) {
	q := New()
	for i := 0; i < 3; i++ {
		q.Post(record("x"))
	}
	assert.Equal(t, 3, q.Discard())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, uint64(3), q.Appended())
	assert.Equal(t, uint64(3), q.Skipped())

	_, ok := q.TryReceive()
	assert.False(t, ok)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 2000

	q := New()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Post(record(fmt.Sprintf("%d:%d", p, i)))
			}
		}(p)
	}

	seen := make(map[string]bool, producers*perProducer)
	last := make(map[int]int)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for len(seen) < producers*perProducer {
			r, err := q.Receive(context.Background())
			if err != nil {
				return
			}
			if seen[r.Message] {
				t.Errorf("record %s received twice", r.Message)
			}
			seen[r.Message] = true

			var p, i int
			fmt.Sscanf(r.Message, "%d:%d", &p, &i)
			if prev, ok := last[p]; ok && i <= prev {
				t.Errorf("producer %d out of order: %d after %d", p, i, prev)
			}
			last[p] = i
		}
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not receive every record")
	}
	assert.Len(t, seen, producers*perProducer)
}
