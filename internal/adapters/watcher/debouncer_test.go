package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/watcher"
)

// batches records debouncer callbacks.
type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) add(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, paths)
}

func (b *batches) snapshot() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.got...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add("scss/b.scss")
		d.Add("scss/a.scss")
		d.Add("scss/b.scss")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, b.snapshot(), 1)
		assert.Equal(t, []string{"scss/a.scss", "scss/b.scss"}, b.snapshot()[0])
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add("a")
		time.Sleep(60 * time.Millisecond)
		d.Add("b")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, b.snapshot())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		require.Len(t, b.snapshot(), 1)
		assert.Equal(t, []string{"a", "b"}, b.snapshot()[0])
	})
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(50*time.Millisecond, b.add)

		d.Add("a")
		time.Sleep(100 * time.Millisecond)
		d.Add("b")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"a"}, {"b"}}, b.snapshot())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Flush()
		assert.Empty(t, b.snapshot())

		d.Add("a")
		d.Flush()
		assert.Equal(t, [][]string{{"a"}}, b.snapshot())

		time.Sleep(200 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, b.snapshot(), 1)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(50*time.Millisecond, b.add)

		d.Add("a")
		d.Stop()
		d.Add("b")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, b.snapshot())
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)
		d.Add("a")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Flush()
	})
}
