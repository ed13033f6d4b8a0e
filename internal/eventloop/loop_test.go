package eventloop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestFlush_RunsTasksInOrder(t *testing.T) {
	l := New(clockwork.NewFakeClock(), nil)

	var got []int
	l.Post(func() { got = append(got, 1) })
	l.Post(func() {
		got = append(got, 2)
		l.Post(func() { got = append(got, 4) })
	})
	l.Post(func() { got = append(got, 3) })

	assert.Equal(t, 4, l.Flush())
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestAfterFunc_FiresOnlyWhenDue(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock, nil)

	fired := 0
	l.AfterFunc(200*time.Millisecond, func() { fired++ })

	l.Flush()
	assert.Equal(t, 0, fired)

	clock.Advance(199 * time.Millisecond)
	l.Flush()
	assert.Equal(t, 0, fired)

	clock.Advance(time.Millisecond)
	l.Flush()
	assert.Equal(t, 1, fired)

	clock.Advance(time.Second)
	l.Flush()
	assert.Equal(t, 1, fired, "timers fire once")
}

func TestAfterFunc_OrderByDueThenCreation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock, nil)

	var got []string
	l.AfterFunc(20*time.Millisecond, func() { got = append(got, "late") })
	l.AfterFunc(10*time.Millisecond, func() { got = append(got, "early-a") })
	l.AfterFunc(10*time.Millisecond, func() { got = append(got, "early-b") })

	clock.Advance(time.Second)
	l.Flush()
	assert.Equal(t, []string{"early-a", "early-b", "late"}, got)
}

func TestTimerStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock, nil)

	fired := false
	tm := l.AfterFunc(10*time.Millisecond, func() { fired = true })
	other := l.AfterFunc(5*time.Millisecond, func() {})

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop(), "second stop reports nothing to cancel")

	clock.Advance(time.Second)
	l.Flush()
	assert.False(t, fired)
	assert.False(t, other.Stop(), "already fired")

	_, timers := l.Pending()
	assert.Zero(t, timers)
}

func TestNextFrame_ReschedulingDoesNotSpin(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock, nil)

	frames := 0
	var poll func()
	poll = func() {
		frames++
		l.NextFrame(poll)
	}
	l.NextFrame(poll)

	l.Flush()
	assert.Equal(t, 0, frames)

	clock.Advance(FrameInterval)
	l.Flush()
	assert.Equal(t, 1, frames)

	clock.Advance(FrameInterval)
	l.Flush()
	assert.Equal(t, 2, frames)
}

func TestClose_DropsPendingWork(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(clock, nil)

	ran := false
	l.Post(func() { ran = true })
	tm := l.AfterFunc(time.Millisecond, func() { ran = true })
	l.Close()
	l.Close()

	l.Post(func() { ran = true })
	clock.Advance(time.Second)
	assert.Zero(t, l.Flush())
	assert.False(t, ran)
	assert.False(t, tm.Stop())
}

func TestRun_ExecutesPostedWorkAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	var count atomic.Int32
	require.True(t, l.Do(ctx, func() { count.Add(1) }))

	fired := make(chan struct{})
	l.Post(func() {
		l.AfterFunc(5*time.Millisecond, func() { close(fired) })
	})
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired on running loop")
	}

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, int32(1), count.Load())
	assert.False(t, l.Do(context.Background(), func() {}), "closed loop rejects work")
}

func TestRun_CloseReturnsNil(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := New(nil, nil)
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(context.Background()) }()

	l.AfterFunc(time.Hour, func() {})
	l.Close()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}
