package mock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func queue(n int) []domain.Track {
	out := make([]domain.Track, n)
	for i := range out {
		out[i] = domain.Track{ID: int64(i + 1), Title: string(rune('A' + i))}
	}
	return out
}

func connected(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	engine := NewEngine()
	engine.SetClock(clock.Now)
	require.NoError(t, engine.Connect(context.Background()))
	t.Cleanup(func() { _ = engine.Close() })
	return engine, clock
}

// drain returns every event currently buffered.
func drain(engine *Engine) []domain.Event {
	var out []domain.Event
	for {
		select {
		case e, ok := <-engine.Events():
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func eventTypes(events []domain.Event) []domain.EventType {
	out := make([]domain.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type()
	}
	return out
}

func TestConnect(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	assert.ErrorIs(t, engine.SetQueue(queue(1), 0), domain.ErrNotConnected)

	require.NoError(t, engine.Connect(context.Background()))
	require.NoError(t, engine.Connect(context.Background()), "second connect is a no-op")
}

func TestConnectFailure(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()
	engine.SetFailConnect(true)

	err := engine.Connect(context.Background())
	require.Error(t, err)

	var engineErr *domain.PlaybackEngineError
	assert.ErrorAs(t, err, &engineErr)
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestConnectCancelled(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, engine.Connect(ctx), context.Canceled)
}

func TestSetQueueValidation(t *testing.T) {
	engine, _ := connected(t)

	assert.ErrorIs(t, engine.SetQueue(nil, 0), domain.ErrQueueEmpty)
	assert.ErrorIs(t, engine.SetQueue(queue(2), 2), domain.ErrInvalidIndex)
	assert.ErrorIs(t, engine.SetQueue(queue(2), -1), domain.ErrInvalidIndex)
}

func TestSetQueueEmitsItemChanged(t *testing.T) {
	engine, _ := connected(t)

	require.NoError(t, engine.SetQueue(queue(3), 1))

	events := drain(engine)
	require.Len(t, events, 1)
	item := events[0].(domain.ItemChangedEvent)
	assert.Equal(t, int64(2), item.Item.ID)
	assert.Equal(t, 1, item.Index)
	assert.Equal(t, DefaultDuration, item.Duration)
	assert.True(t, item.HasNext)
	assert.True(t, item.HasPrevious)
}

func TestPlayEventSequence(t *testing.T) {
	engine, _ := connected(t)
	require.NoError(t, engine.SetQueue(queue(1), 0))
	drain(engine)

	require.NoError(t, engine.Play())
	assert.Equal(t, []domain.EventType{
		domain.EventBufferingChanged,
		domain.EventBufferingChanged,
		domain.EventPlayingChanged,
	}, eventTypes(drain(engine)))

	// already playing
	require.NoError(t, engine.Play())
	assert.Empty(t, drain(engine))
}

func TestPlayWithoutQueue(t *testing.T) {
	engine, _ := connected(t)
	assert.ErrorIs(t, engine.Play(), domain.ErrQueueEmpty)
}

func TestPlayFailure(t *testing.T) {
	engine, _ := connected(t)
	require.NoError(t, engine.SetQueue(queue(1), 0))
	drain(engine)
	engine.SetFailPlay(true)

	err := engine.Play()
	assert.ErrorIs(t, err, domain.ErrPlaybackFailed)

	events := drain(engine)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPlaybackError, events[0].Type())
	assert.False(t, engine.Snapshot().Playing)
}

func TestPositionFollowsClock(t *testing.T) {
	engine, clock := connected(t)
	require.NoError(t, engine.SetQueue(queue(1), 0))
	require.NoError(t, engine.Play())

	clock.Advance(10 * time.Second)
	assert.Equal(t, 10*time.Second, engine.Position())

	require.NoError(t, engine.Pause())
	clock.Advance(time.Minute)
	assert.Equal(t, 10*time.Second, engine.Position(), "paused position must not move")

	require.NoError(t, engine.Play())
	clock.Advance(5 * time.Second)
	assert.Equal(t, 15*time.Second, engine.Position())
}

func TestSeek(t *testing.T) {
	engine, clock := connected(t)
	require.NoError(t, engine.SetQueue(queue(1), 0))

	require.NoError(t, engine.Seek(time.Minute))
	assert.Equal(t, time.Minute, engine.Position())

	require.NoError(t, engine.Play())
	clock.Advance(time.Second)
	assert.Equal(t, time.Minute+time.Second, engine.Position())

	assert.ErrorIs(t, engine.Seek(-time.Second), domain.ErrInvalidPosition)
	assert.ErrorIs(t, engine.Seek(DefaultDuration+time.Second), domain.ErrInvalidPosition)
}

func TestStopRewinds(t *testing.T) {
	engine, clock := connected(t)
	require.NoError(t, engine.SetQueue(queue(1), 0))
	require.NoError(t, engine.Play())
	clock.Advance(20 * time.Second)
	drain(engine)

	require.NoError(t, engine.Stop())
	assert.Equal(t, time.Duration(0), engine.Position())
	assert.Equal(t, []domain.EventType{domain.EventPlayingChanged}, eventTypes(drain(engine)))
}

func TestSkipBounds(t *testing.T) {
	engine, _ := connected(t)
	require.NoError(t, engine.SetQueue(queue(2), 0))

	assert.ErrorIs(t, engine.SkipPrevious(), domain.ErrStartOfQueue)
	require.NoError(t, engine.SkipNext())
	assert.Equal(t, 1, engine.Snapshot().Index)
	assert.ErrorIs(t, engine.SkipNext(), domain.ErrEndOfQueue)
	require.NoError(t, engine.SkipPrevious())
	assert.Equal(t, 0, engine.Snapshot().Index)
}

func TestAutoAdvanceAndEnd(t *testing.T) {
	engine, clock := connected(t)
	engine.SetDuration(1, 10*time.Second)
	engine.SetDuration(2, 10*time.Second)
	require.NoError(t, engine.SetQueue(queue(2), 0))
	require.NoError(t, engine.Play())
	drain(engine)

	clock.Advance(13 * time.Second)
	snap := engine.Snapshot()
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, 3*time.Second, snap.Position)
	assert.True(t, snap.Playing)

	clock.Advance(time.Minute)
	snap = engine.Snapshot()
	assert.False(t, snap.Playing)
	assert.Equal(t, 10*time.Second, snap.Position)

	assert.Equal(t, []domain.EventType{
		domain.EventItemChanged,
		domain.EventPlayingChanged,
	}, eventTypes(drain(engine)))
}

func TestRepeatModes(t *testing.T) {
	engine, clock := connected(t)
	engine.SetDefaultDuration(10 * time.Second)
	require.NoError(t, engine.SetQueue(queue(2), 1))

	require.NoError(t, engine.SetRepeatMode(domain.RepeatOne))
	require.NoError(t, engine.Play())
	clock.Advance(25 * time.Second)
	snap := engine.Snapshot()
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, 5*time.Second, snap.Position)
	assert.True(t, snap.Playing)

	require.NoError(t, engine.SetRepeatMode(domain.RepeatAll))
	assert.True(t, engine.Snapshot().HasNext)
	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, engine.Snapshot().Index, "repeat all wraps to the start")
}

func TestShuffleKeepsCurrentAndVisitsAll(t *testing.T) {
	engine, _ := connected(t)
	engine.SetSeed(7)
	require.NoError(t, engine.SetQueue(queue(5), 2))

	require.NoError(t, engine.SetShuffle(true))
	assert.Equal(t, 2, engine.Snapshot().Index)

	seen := map[int]bool{2: true}
	for engine.SkipNext() == nil {
		seen[engine.Snapshot().Index] = true
	}
	assert.Len(t, seen, 5)

	current := engine.Snapshot().Index
	require.NoError(t, engine.SetShuffle(false))
	assert.Equal(t, current, engine.Snapshot().Index)
}

func TestSimulateError(t *testing.T) {
	engine, _ := connected(t)
	require.NoError(t, engine.SetQueue(queue(1), 0))
	require.NoError(t, engine.Play())
	drain(engine)

	boom := errors.New("decoder exploded")
	engine.SimulateError(boom)

	events := drain(engine)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventPlayingChanged, events[0].Type())
	assert.ErrorIs(t, events[1].(domain.PlaybackErrorEvent).Err, boom)
}

func TestCloseClosesEvents(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Connect(context.Background()))
	require.NoError(t, engine.Close())
	require.NoError(t, engine.Close())

	_, ok := <-engine.Events()
	assert.False(t, ok)
	assert.ErrorIs(t, engine.Play(), domain.ErrClosed)
	assert.ErrorIs(t, engine.Connect(context.Background()), domain.ErrClosed)
}

func TestSnapshotEmpty(t *testing.T) {
	engine, _ := connected(t)

	snap := engine.Snapshot()
	assert.Nil(t, snap.Current)
	assert.Equal(t, -1, snap.Index)
	assert.Zero(t, snap.QueueLength)
}

func TestEventOverflowDrops(t *testing.T) {
	engine, _ := connected(t)
	require.NoError(t, engine.SetQueue(queue(2), 0))

	for i := 0; i < eventBuffer*2; i++ {
		_ = engine.SkipNext()
		_ = engine.SkipPrevious()
	}
	assert.Len(t, drain(engine), eventBuffer)
}
