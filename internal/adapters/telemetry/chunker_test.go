package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/telemetry"
)

type sink struct {
	mu     sync.Mutex
	chunks []string
}

func (s *sink) take(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, string(data))
}

func (s *sink) got() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.chunks...)
}

func write(t *testing.T, c *telemetry.Chunker, s string) {
	t.Helper()
	n, err := c.Write([]byte(s))
	require.NoError(t, err)
	require.Equal(t, len(s), n)
}

func TestChunker_DeliversAtChunkSize(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var s sink
		c := telemetry.NewChunker(s.take, telemetry.WithChunkSize(5), telemetry.WithFlushDelay(time.Hour))
		defer func() { _ = c.Close() }()

		write(t, c, "123")
		assert.Empty(t, s.got())

		write(t, c, "456")
		assert.Equal(t, []string{"123456"}, s.got())
	})
}

func TestChunker_DelayCountsFromOldestByte(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var s sink
		c := telemetry.NewChunker(s.take, telemetry.WithFlushDelay(50*time.Millisecond))
		defer func() { _ = c.Close() }()

		write(t, c, "compiling ")
		time.Sleep(30 * time.Millisecond)
		write(t, c, "done")
		synctest.Wait()
		assert.Empty(t, s.got())

		time.Sleep(21 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"compiling done"}, s.got())

		write(t, c, "next")
		time.Sleep(51 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"compiling done", "next"}, s.got())
	})
}

func TestChunker_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var s sink
		c := telemetry.NewChunker(s.take)
		defer func() { _ = c.Close() }()

		c.Flush()
		assert.Empty(t, s.got())

		write(t, c, "a")
		write(t, c, "")
		c.Flush()
		assert.Equal(t, []string{"a"}, s.got())

		time.Sleep(2 * telemetry.DefaultFlushDelay)
		synctest.Wait()
		assert.Equal(t, []string{"a"}, s.got())
	})
}

func TestChunker_Close(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var s sink
		c := telemetry.NewChunker(s.take, telemetry.WithFlushDelay(time.Hour))

		write(t, c, "tail")
		require.NoError(t, c.Close())
		assert.Equal(t, []string{"tail"}, s.got())

		require.NoError(t, c.Close())
		c.Flush()

		_, err := c.Write([]byte("late"))
		require.Error(t, err)
		assert.Equal(t, []string{"tail"}, s.got())
	})
}

func TestChunker_Defaults(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var s sink
		c := telemetry.NewChunker(s.take, telemetry.WithChunkSize(0), telemetry.WithFlushDelay(0))
		defer func() { _ = c.Close() }()

		write(t, c, "x")
		time.Sleep(telemetry.DefaultFlushDelay + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"x"}, s.got())
	})
}
