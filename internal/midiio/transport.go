package midiio

import (
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const inboundBuffer = 64

// Transport is a device.Transport over one gomidi input/output port pair.
// Inbound SysEx frames are forwarded on a buffered channel; the channel
// closes when the transport does.
type Transport struct {
	out  drivers.Out
	stop func()
	msgs chan []byte

	closeOnce sync.Once
	closeErr  error
}

// OpenTransport opens the output port and starts a SysEx listener on the
// input port.
func OpenTransport(in drivers.In, out drivers.Out) (*Transport, error) {
	if !out.IsOpen() {
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("midiio: open output: %w", err)
		}
	}

	t := &Transport{
		out:  out,
		msgs: make(chan []byte, inboundBuffer),
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		if len(msg) == 0 || msg[0] != 0xF0 {
			return
		}
		cp := make([]byte, len(msg))
		copy(cp, msg)
		// Never block the driver callback; a full buffer drops the frame.
		select {
		case t.msgs <- cp:
		default:
		}
	}, midi.UseSysEx(), midi.SysExBufferSize(2048))
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("midiio: listen: %w", err)
	}
	t.stop = stop
	return t, nil
}

func (t *Transport) Send(data []byte) error {
	return t.out.Send(data)
}

func (t *Transport) Messages() <-chan []byte {
	return t.msgs
}

func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.stop()
		t.closeErr = t.out.Close()
		close(t.msgs)
	})
	return t.closeErr
}

// AuxPort is a device.AuxPort over a single output port, used for the
// control-surface slot-selection burst.
type AuxPort struct {
	out drivers.Out
}

func OpenAuxPort(out drivers.Out) (*AuxPort, error) {
	if !out.IsOpen() {
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("midiio: open aux output: %w", err)
		}
	}
	return &AuxPort{out: out}, nil
}

func (p *AuxPort) Send(data []byte) error {
	return p.out.Send(data)
}

func (p *AuxPort) Close() error {
	return p.out.Close()
}
