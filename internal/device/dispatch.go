package device

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// matcher decides whether an inbound frame answers a registered wait.
type matcher func(msg []byte) bool

type waiter struct {
	id    uuid.UUID
	match matcher
	ch    chan []byte
}

// dispatcher routes inbound frames to at most one registered waiter each.
// Waiters are one-shot and keyed by operation id, so a cancelled operation
// can drop its registration and a late reply cannot misattribute to a later
// unrelated wait.
type dispatcher struct {
	log zerolog.Logger

	mu      sync.Mutex
	waiters map[uuid.UUID]*waiter
	closed  bool

	done chan struct{}
}

func newDispatcher(in <-chan []byte, log zerolog.Logger) *dispatcher {
	d := &dispatcher{
		log:     log,
		waiters: make(map[uuid.UUID]*waiter),
		done:    make(chan struct{}),
	}
	go d.run(in)
	return d
}

func (d *dispatcher) run(in <-chan []byte) {
	for msg := range in {
		d.deliver(msg)
	}
	d.mu.Lock()
	d.closed = true
	d.waiters = map[uuid.UUID]*waiter{}
	d.mu.Unlock()
	close(d.done)
}

func (d *dispatcher) deliver(msg []byte) {
	d.mu.Lock()
	var target *waiter
	for _, w := range d.waiters {
		if w.match(msg) {
			target = w
			delete(d.waiters, w.id)
			break
		}
	}
	d.mu.Unlock()

	if target == nil {
		d.log.Debug().Int("len", len(msg)).Msg("unmatched inbound message dropped")
		return
	}
	target.ch <- msg
}

// register adds a one-shot waiter and returns its operation id and delivery
// channel. The channel is buffered so delivery never blocks the run loop.
func (d *dispatcher) register(match matcher) (uuid.UUID, <-chan []byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return uuid.Nil, nil, ErrDisconnected
	}
	w := &waiter{id: uuid.New(), match: match, ch: make(chan []byte, 1)}
	d.waiters[w.id] = w
	return w.id, w.ch, nil
}

// cancel drops a registration. Safe to call after delivery.
func (d *dispatcher) cancel(id uuid.UUID) {
	d.mu.Lock()
	delete(d.waiters, id)
	d.mu.Unlock()
}

// disconnected is closed once the inbound stream has ended.
func (d *dispatcher) disconnected() <-chan struct{} { return d.done }
