package loop_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/fiberparty/fiber"
	"github.com/delaneyj/fiberparty/memhost"
	"github.com/delaneyj/fiberparty/pkg/loop"
)

func start(t *testing.T, opts ...loop.Option) (*loop.Loop, context.CancelFunc) {
	t.Helper()
	l := loop.New(opts...)
	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		errs <- l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-errs, context.Canceled)
	})
	return l, cancel
}

func TestRunsInOrder(t *testing.T) {
	l, _ := start(t)
	ctx := context.Background()

	var got []int
	for i := range 100 {
		require.NoError(t, l.Submit(func() { got = append(got, i) }))
	}
	require.NoError(t, l.Do(ctx, func() {}))
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
	assert.EqualValues(t, 101, l.Ran())
}

func TestConcurrentSubmit(t *testing.T) {
	l, _ := start(t)
	count := 0
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.NoError(t, l.Submit(func() { count++ }))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, l.Do(context.Background(), func() {}))
	assert.Equal(t, 400, count)
}

func TestPanicDoesNotStopLoop(t *testing.T) {
	l, _ := start(t)
	ctx := context.Background()
	require.NoError(t, l.Do(ctx, func() { panic("oops") }))

	ran := false
	require.NoError(t, l.Do(ctx, func() { ran = true }))
	assert.True(t, ran)
}

func TestDebounceDelaysDrain(t *testing.T) {
	const window = 20 * time.Millisecond
	l, _ := start(t, loop.WithDebounce(window))

	count := 0
	began := time.Now()
	for range 5 {
		require.NoError(t, l.Submit(func() { count++ }))
	}
	var waited time.Duration
	require.NoError(t, l.Do(context.Background(), func() {
		waited = time.Since(began)
	}))
	assert.Equal(t, 5, count)
	assert.GreaterOrEqual(t, waited, window)
}

func TestStopped(t *testing.T) {
	l, cancel := start(t)
	require.NoError(t, l.Do(context.Background(), func() {}))
	require.ErrorIs(t, l.Run(context.Background()), loop.ErrRunning)

	cancel()
	<-l.Done()
	assert.ErrorIs(t, l.Submit(func() {}), loop.ErrStopped)
	assert.ErrorIs(t, l.Do(context.Background(), func() {}), loop.ErrStopped)
	// Enqueue drops silently
	l.Enqueue(func() { t.Fail() })
}

// should render root updates on the loop goroutine, once per burst
func TestDrivesRoot(t *testing.T) {
	l, _ := start(t)
	ctx := context.Background()
	doc := memhost.NewDocument()

	cycles := 0
	rt := fiber.Attach(doc, doc.Root, fiber.WithQueue(l), fiber.WithObserver(func(fiber.CycleStats) {
		cycles++
	}))

	var set fiber.Setter[int]
	app := func(r *fiber.Render, p fiber.Props) any {
		n, s := fiber.UseState(r, 0)
		set = s
		return fiber.H("output", nil, n)
	}
	require.NoError(t, l.Do(ctx, func() {
		assert.NoError(t, rt.RenderRoot(fiber.H(app, nil)))
	}))

	require.NoError(t, l.Do(ctx, func() {
		for range 10 {
			set.Update(func(n int) int { return n + 1 })
		}
	}))

	var html string
	require.NoError(t, l.Do(ctx, func() {
		html = doc.HTML()
	}))
	assert.Equal(t, "<output>10</output>", html)
	assert.Equal(t, 2, cycles)
	assert.Same(t, l, rt.Queue())
}
