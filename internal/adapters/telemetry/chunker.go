package telemetry

import (
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultChunkSize is the amount of pending output that triggers delivery.
	DefaultChunkSize = 4096
	// DefaultFlushDelay bounds how long output may wait before delivery.
	DefaultFlushDelay = 50 * time.Millisecond
)

var errChunkerClosed = zerr.New("output chunker is closed")

// Chunker coalesces task output for a sink. Pending output is delivered once
// it reaches the chunk size or once its oldest byte has waited for the flush
// delay. Chunks reach the sink in write order.
type Chunker struct {
	size  int
	delay time.Duration
	sink  func([]byte)

	mu      sync.Mutex
	pending []byte
	timer   *time.Timer
	closed  bool
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the delivery threshold. Values below one are ignored.
func WithChunkSize(n int) ChunkerOption {
	return func(c *Chunker) {
		if n > 0 {
			c.size = n
		}
	}
}

// WithFlushDelay sets the longest time output stays pending. Non-positive
// values are ignored.
func WithFlushDelay(d time.Duration) ChunkerOption {
	return func(c *Chunker) {
		if d > 0 {
			c.delay = d
		}
	}
}

// NewChunker returns a Chunker that hands chunks to sink.
func NewChunker(sink func([]byte), opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		size:  DefaultChunkSize,
		delay: DefaultFlushDelay,
		sink:  sink,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Write appends p to the pending chunk.
func (c *Chunker) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, errChunkerClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if len(c.pending) == 0 {
		c.arm()
	}
	c.pending = append(c.pending, p...)
	if len(c.pending) >= c.size {
		c.deliver()
	}
	return len(p), nil
}

// Flush delivers pending output now.
func (c *Chunker) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.deliver()
	}
}

// Close delivers pending output and rejects further writes.
func (c *Chunker) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.deliver()
	return nil
}

// arm starts the delay for the oldest pending byte. Callers hold mu.
func (c *Chunker) arm() {
	if c.timer == nil {
		c.timer = time.AfterFunc(c.delay, c.Flush)
		return
	}
	c.timer.Reset(c.delay)
}

// deliver hands the pending chunk to the sink. Callers hold mu, so the sink
// never sees two chunks at once.
func (c *Chunker) deliver() {
	if c.timer != nil {
		c.timer.Stop()
	}
	if len(c.pending) == 0 {
		return
	}
	chunk := c.pending
	c.pending = nil
	if c.sink != nil {
		c.sink(chunk)
	}
}
