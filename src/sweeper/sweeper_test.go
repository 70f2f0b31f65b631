package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	mu    sync.Mutex
	calls int
	err   error
	ticks chan struct{}
}

func (f *fakeExpirer) ExpireDueOrders(_ context.Context, _ time.Time) (int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.ticks != nil {
		select {
		case f.ticks <- struct{}{}:
		default:
		}
	}
	if f.err != nil {
		return 0, f.err
	}
	return 2, nil
}

func TestRunOnce(t *testing.T) {
	n, err := RunOnce(context.Background(), &fakeExpirer{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = RunOnce(context.Background(), &fakeExpirer{err: errors.New("db down")}, time.Now())
	assert.EqualError(t, err, "db down")
}

func TestStartLoop_KeepsGoingAfterErrorsUntilCancelled(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("db down"), ticks: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- StartLoop(ctx, expirer, 5*time.Millisecond) }()

	for i := 0; i < 3; i++ {
		select {
		case <-expirer.ticks:
		case <-time.After(2 * time.Second):
			t.Fatal("loop did not tick")
		}
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}
