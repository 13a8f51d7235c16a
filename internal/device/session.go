package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"xl3ctl/internal/mode"
	"xl3ctl/internal/sysex"
)

// State is the session lifecycle position.
type State int

const (
	StateDisconnected State = iota
	StateHandshaking
	StateReady
	StateReading
	StateWriting
)

func (s State) String() string {
	switch s {
	case StateHandshaking:
		return "handshaking"
	case StateReady:
		return "ready"
	case StateReading:
		return "reading"
	case StateWriting:
		return "writing"
	default:
		return "disconnected"
	}
}

// Config bounds the session's waits and paces its sends. The link is a
// serial MIDI connection where inter-message gaps are semantically
// significant, not a tuning knob.
type Config struct {
	// HandshakeTimeout bounds the wait for the SYN-ACK. Observed reply
	// latencies run from well under a second to several seconds.
	HandshakeTimeout time.Duration
	// PageTimeout bounds each page read wait; one retry per page.
	PageTimeout time.Duration
	// AckTimeout bounds each write-acknowledgement wait. Acks usually land
	// within tens of milliseconds but the bound stays generous.
	AckTimeout time.Duration
	// SendGap is the minimum spacing between consecutive outbound frames.
	SendGap time.Duration
	// SettleDelay follows a template change before the write it guards.
	SettleDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 5 * time.Second,
		PageTimeout:      time.Second,
		AckTimeout:       500 * time.Millisecond,
		SendGap:          10 * time.Millisecond,
		SettleDelay:      50 * time.Millisecond,
	}
}

// Session drives custom-mode transfers over one physical connection. All
// operations are serialized: concurrent callers queue on the session mutex
// rather than interleave on the wire. A session is bound to its transport
// for life; reconnection means a new Dial.
type Session struct {
	tr   Transport
	aux  AuxPort
	cfg  Config
	log  zerolog.Logger
	disp *dispatcher

	opMu sync.Mutex // serializes read/write operations

	stateMu  sync.Mutex
	state    State
	serial   string
	lastSend time.Time
}

// Option configures a Session before the handshake runs.
type Option func(*Session)

// WithAuxPort attaches the control-surface port used for the slot-selection
// burst alongside the template-change SysEx.
func WithAuxPort(p AuxPort) Option {
	return func(s *Session) { s.aux = p }
}

func WithConfig(cfg Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// Dial performs the handshake over an already-open transport and returns a
// ready session. No SYN-ACK within the configured bound is fatal: writes to
// an unverified device are unsafe, so the session never proceeds silently.
func Dial(tr Transport, opts ...Option) (*Session, error) {
	s := &Session{
		tr:    tr,
		cfg:   DefaultConfig(),
		log:   zerolog.Nop(),
		state: StateHandshaking,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.disp = newDispatcher(tr.Messages(), s.log)

	id, ch, err := s.disp.register(func(msg []byte) bool {
		_, ok := sysex.ParseHandshakeAck(msg)
		return ok
	})
	if err != nil {
		return nil, err
	}

	if err := s.send(sysex.HandshakeSyn()); err != nil {
		s.disp.cancel(id)
		return nil, fmt.Errorf("device: handshake send: %w", err)
	}

	timer := time.NewTimer(s.cfg.HandshakeTimeout)
	defer timer.Stop()
	select {
	case msg := <-ch:
		serial, _ := sysex.ParseHandshakeAck(msg)
		s.stateMu.Lock()
		s.serial = serial
		s.state = StateReady
		s.stateMu.Unlock()
		s.log.Info().Str("serial", serial).Msg("device handshake complete")
		return s, nil
	case <-s.disp.disconnected():
		s.disp.cancel(id)
		return nil, ErrDisconnected
	case <-timer.C:
		s.disp.cancel(id)
		s.setState(StateDisconnected)
		return nil, ErrConnectTimeout
	}
}

// Serial returns the unit serial number reported in the SYN-ACK.
func (s *Session) Serial() string {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.serial
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// Close tears the session down. In-flight waits fail with ErrDisconnected
// once the transport's inbound stream closes.
func (s *Session) Close() error {
	s.setState(StateDisconnected)
	return s.tr.Close()
}

// send paces outbound frames so consecutive sends respect the minimum
// inter-message gap the hardware needs.
func (s *Session) send(data []byte) error {
	s.stateMu.Lock()
	since := time.Since(s.lastSend)
	gap := s.cfg.SendGap
	s.stateMu.Unlock()

	if since < gap {
		time.Sleep(gap - since)
	}
	err := s.tr.Send(data)
	s.stateMu.Lock()
	s.lastSend = time.Now()
	s.stateMu.Unlock()
	return err
}

func checkSlot(slot int) error {
	if slot < sysex.SlotMin || slot > sysex.SlotMax {
		return fmt.Errorf("%w: %d (valid range %d-%d)", ErrInvalidSlot, slot, sysex.SlotMin, sysex.SlotMax)
	}
	return nil
}

// enterOp transitions Ready -> op state under the operation lock.
func (s *Session) enterOp(st State) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	switch s.state {
	case StateReady:
		s.state = st
		return nil
	case StateDisconnected:
		return ErrDisconnected
	default:
		return fmt.Errorf("%w: state %s", ErrBusy, s.state)
	}
}

func (s *Session) leaveOp() {
	s.stateMu.Lock()
	if s.state != StateDisconnected {
		s.state = StateReady
	}
	s.stateMu.Unlock()
}

// ReadCustomMode fetches both pages of a slot and merges them. Pages are
// requested up front and correlated by the selector byte in each response,
// never by arrival order. Each page gets one retry on timeout. An empty slot
// decodes to a mode for which IsEmpty reports true; it is not an error.
func (s *Session) ReadCustomMode(ctx context.Context, slot int) (*mode.CustomMode, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := s.enterOp(StateReading); err != nil {
		return nil, err
	}
	defer s.leaveOp()

	// Both requests go out before either response is awaited: the device is
	// free to answer in any order, so each response is claimed by the
	// selector byte it carries, never by arrival position.
	selectors := []byte{sysex.PageA, sysex.PageB}
	waits := make(map[byte]*pageWait, len(selectors))
	defer func() {
		for _, w := range waits {
			s.disp.cancel(w.id)
		}
	}()
	for _, sel := range selectors {
		w, err := s.awaitPage(slot, sel)
		if err != nil {
			return nil, err
		}
		waits[sel] = w
		if err := s.send(sysex.ReadRequest(sel, byte(slot))); err != nil {
			return nil, fmt.Errorf("device: read request: %w", err)
		}
	}

	pages := make(map[byte]*sysex.Page, len(selectors))
	for _, sel := range selectors {
		p, err := s.collectPage(ctx, slot, sel, waits[sel])
		if err != nil {
			return nil, err
		}
		pages[sel] = p
	}

	m, mismatch, err := mode.Merge(pages[sysex.PageA], pages[sysex.PageB])
	if err != nil {
		return nil, err
	}
	if mismatch != nil {
		s.log.Warn().Int("slot", slot).
			Str("page_a", mismatch.PageA).Str("page_b", mismatch.PageB).
			Bool("page_a_factory", mismatch.PageAFactory).
			Bool("page_b_factory", mismatch.PageBFactory).
			Msg("page name copies disagree, keeping page A")
	}
	s.log.Info().Int("slot", slot).Bool("empty", m.IsEmpty()).Msg("custom mode read")
	return m, nil
}

type pageWait struct {
	id uuid.UUID
	ch <-chan []byte
}

// awaitPage registers a waiter claiming the read response for one page of
// one slot.
func (s *Session) awaitPage(slot int, sel byte) (*pageWait, error) {
	id, ch, err := s.disp.register(func(msg []byte) bool {
		page, respSlot, _, ok := sysex.ParseReadResponse(msg)
		return ok && page == sel && int(respSlot) == slot
	})
	if err != nil {
		return nil, err
	}
	return &pageWait{id: id, ch: ch}, nil
}

// collectPage waits on a registered page response, re-requesting the page
// once on timeout before failing with a ReadTimeoutError.
func (s *Session) collectPage(ctx context.Context, slot int, sel byte, w *pageWait) (*sysex.Page, error) {
	for attempt := 0; attempt < 2; attempt++ {
		timer := time.NewTimer(s.cfg.PageTimeout)
		select {
		case msg := <-w.ch:
			timer.Stop()
			_, _, payload, _ := sysex.ParseReadResponse(msg)
			p, err := sysex.DecodePage(payload, sysex.ReadLayout)
			if err != nil {
				return nil, err
			}
			return p, nil
		case <-s.disp.disconnected():
			timer.Stop()
			return nil, ErrDisconnected
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
			if attempt > 0 {
				break
			}
			s.log.Warn().Int("slot", slot).Uint8("page", sel).Msg("page read timed out, retrying")
			s.disp.cancel(w.id)
			fresh, err := s.awaitPage(slot, sel)
			if err != nil {
				return nil, err
			}
			*w = *fresh
			if err := s.send(sysex.ReadRequest(sel, byte(slot))); err != nil {
				return nil, fmt.Errorf("device: read request: %w", err)
			}
		}
	}
	return nil, &ReadTimeoutError{Slot: slot, Page: sel}
}

// WriteCustomMode stores a mode into a slot. The target slot is pre-selected
// unconditionally before any page goes out; page B is only sent after page
// A's acknowledgement arrives. Writes are never retried: a duplicate write
// risks double-applying on hardware state.
func (s *Session) WriteCustomMode(ctx context.Context, slot int, m *mode.CustomMode) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: nil mode", mode.ErrValidation)
	}
	if m.Factory {
		return fmt.Errorf("%w: factory modes are write-protected", mode.ErrValidation)
	}
	pa, pb, err := mode.Split(m)
	if err != nil {
		return err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := s.enterOp(StateWriting); err != nil {
		return err
	}
	defer s.leaveOp()

	if err := s.preselectSlot(slot); err != nil {
		return err
	}

	for _, p := range []*sysex.Page{pa, pb} {
		payload, err := sysex.EncodePage(p, sysex.WriteLayout)
		if err != nil {
			return err
		}
		if err := s.writePage(ctx, slot, p.Selector, payload); err != nil {
			return err
		}
	}
	s.log.Info().Int("slot", slot).Str("name", m.Name).Msg("custom mode written")
	return nil
}

// preselectSlot makes the target slot active before a write. Skipping this
// races the device into rejecting the write or landing it in the wrong slot.
func (s *Session) preselectSlot(slot int) error {
	if err := s.send(sysex.TemplateChange(byte(slot))); err != nil {
		return fmt.Errorf("device: template change: %w", err)
	}
	if s.aux != nil {
		burst, err := sysex.AuxSlotBurst(slot)
		if err != nil {
			return err
		}
		for _, msg := range burst {
			if err := s.aux.Send(msg); err != nil {
				return fmt.Errorf("device: aux slot select: %w", err)
			}
		}
	}
	time.Sleep(s.cfg.SettleDelay)
	return nil
}

// writePage sends one page and blocks for its acknowledgement.
func (s *Session) writePage(ctx context.Context, slot int, sel byte, payload []byte) error {
	id, ch, err := s.disp.register(func(msg []byte) bool {
		page, _, ok := sysex.ParseWriteAck(msg)
		return ok && page == sel
	})
	if err != nil {
		return err
	}

	if err := s.send(sysex.WriteRequest(sel, byte(slot), payload)); err != nil {
		s.disp.cancel(id)
		return fmt.Errorf("device: write request: %w", err)
	}

	timer := time.NewTimer(s.cfg.AckTimeout)
	defer timer.Stop()
	select {
	case msg := <-ch:
		_, status, _ := sysex.ParseWriteAck(msg)
		if status != sysex.StatusAccepted {
			return &WriteRejectedError{Slot: slot, Page: sel, Status: status}
		}
		s.log.Debug().Int("slot", slot).Uint8("page", sel).Msg("page write acknowledged")
		return nil
	case <-s.disp.disconnected():
		s.disp.cancel(id)
		return ErrDisconnected
	case <-ctx.Done():
		s.disp.cancel(id)
		return ctx.Err()
	case <-timer.C:
		s.disp.cancel(id)
		return &WriteTimeoutError{Slot: slot, Page: sel}
	}
}
