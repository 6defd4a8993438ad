package speech

import (
	"context"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Queue hands text to an Engine on a single worker goroutine. Say never blocks;
// text is dropped when the buffer is full or the queue is closed.
type Queue struct {
	engine Engine
	log    log.FieldLogger

	mu     sync.Mutex
	closed bool
	ch     chan string
	done   chan struct{}

	abortOnce sync.Once
	abort     chan struct{}
}

func NewQueue(engine Engine, size int, logger log.FieldLogger) *Queue {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Queue{engine: engine, log: logger, ch: make(chan string, size), done: make(chan struct{}), abort: make(chan struct{})}
}

// Start runs the worker until ctx is cancelled, Abort is called, or Close
// drains the buffer.
func (q *Queue) Start(ctx context.Context) {
	defer close(q.done)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-q.abort:
			cancel()
		case <-ctx.Done():
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case text, ok := <-q.ch:
			if !ok {
				return
			}
			select {
			case <-q.abort:
				return
			default:
			}
			if err := q.engine.Speak(ctx, text); err != nil {
				q.log.WithError(err).WithField("engine", q.engine.Name()).Warn("speech failed")
			}
		}
	}
}

func (q *Queue) Say(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	select {
	case q.ch <- trimmed:
	default:
		q.log.WithField("text", trimmed).Debug("speech queue full; dropping")
	}
}

// Close stops accepting text. Wait blocks until Start has returned.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()
}

// Abort closes the queue, discards buffered text and interrupts the
// utterance in progress.
func (q *Queue) Abort() {
	q.abortOnce.Do(func() { close(q.abort) })
	q.Close()
}

func (q *Queue) Wait() { <-q.done }
