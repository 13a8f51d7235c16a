package device

import (
	"sync"
	"time"
)

// Transport is the byte-level MIDI link the session drives. Implementations
// deliver every inbound SysEx frame on Messages and close that channel when
// the link drops. Port discovery and raw I/O live behind this boundary; the
// session never touches a device directly.
type Transport interface {
	Send(data []byte) error
	Messages() <-chan []byte
	Close() error
}

// AuxPort is the secondary control-surface port used for the note/CC slot
// selection burst. Optional: sessions without one fall back to the
// template-change SysEx alone.
type AuxPort interface {
	Send(data []byte) error
}

// SentFrame is one outbound frame captured by a SpyTransport.
type SentFrame struct {
	Data []byte
	At   time.Time
}

// SpyTransport decorates a Transport and records outbound traffic. It is the
// sanctioned way to observe a session's wire behavior in tests and
// diagnostics, in place of patching a backend's send path.
type SpyTransport struct {
	inner Transport

	mu   sync.Mutex
	sent []SentFrame
}

func NewSpyTransport(inner Transport) *SpyTransport {
	return &SpyTransport{inner: inner}
}

func (s *SpyTransport) Send(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.mu.Lock()
	s.sent = append(s.sent, SentFrame{Data: cp, At: time.Now()})
	s.mu.Unlock()
	return s.inner.Send(data)
}

func (s *SpyTransport) Messages() <-chan []byte { return s.inner.Messages() }

func (s *SpyTransport) Close() error { return s.inner.Close() }

// Sent returns a snapshot of the captured outbound frames in send order.
func (s *SpyTransport) Sent() []SentFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentFrame, len(s.sent))
	copy(out, s.sent)
	return out
}
