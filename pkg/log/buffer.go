package log

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// Transporter is a destination for log entries (stdout, rotating file...).
type Transporter interface {
	Name() string
	Write(entry Entry) error
	Close() error
}

// Buffer delivers entries asynchronously to its transporters.
// When full, the oldest queued entry is dropped.
type Buffer struct {
	entries      chan Entry
	transporters []Transporter
	dropped      atomic.Int64
	closed       atomic.Bool
	done         chan struct{}
	wg           sync.WaitGroup
}

// NewBuffer starts a delivery worker with the given queue capacity.
func NewBuffer(capacity int, transporters ...Transporter) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		entries:      make(chan Entry, capacity),
		transporters: transporters,
		done:         make(chan struct{}),
	}

	b.wg.Add(1)
	go b.worker()

	return b
}

// Send queues an entry. Safe for concurrent use.
func (b *Buffer) Send(entry Entry) {
	if b.closed.Load() {
		return
	}

	select {
	case b.entries <- entry:
		return
	default:
	}

	// full: make room by discarding the oldest
	select {
	case <-b.entries:
		b.dropped.Add(1)
	default:
	}
	select {
	case b.entries <- entry:
	default:
		b.dropped.Add(1)
	}
}

// DroppedCount is the number of entries lost to overflow.
func (b *Buffer) DroppedCount() int64 {
	return b.dropped.Load()
}

// Close stops the worker, flushes what is queued and closes transporters.
// Safe to call more than once.
func (b *Buffer) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}

	close(b.done)
	b.wg.Wait()

	for {
		select {
		case entry := <-b.entries:
			b.deliver(entry)
		default:
			for _, t := range b.transporters {
				if err := t.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "log transporter %q close failed: %v\n", t.Name(), err)
				}
			}
			return
		}
	}
}

func (b *Buffer) worker() {
	defer b.wg.Done()

	for {
		select {
		case entry := <-b.entries:
			b.deliver(entry)
		case <-b.done:
			return
		}
	}
}

// deliver writes to every transporter, reporting failures on stderr.
func (b *Buffer) deliver(entry Entry) {
	for _, t := range b.transporters {
		if err := t.Write(entry); err != nil {
			fmt.Fprintf(os.Stderr, "log transporter %q failed: %v\n", t.Name(), err)
		}
	}
}
