package mode

import (
	"errors"
	"fmt"

	"xl3ctl/internal/sysex"
)

var ErrValidation = errors.New("mode: validation failed")

// ControlType is the hardware role of a physical control. The byte values
// follow the device's row grouping convention.
type ControlType byte

const (
	KnobTop    ControlType = 0x05
	KnobMiddle ControlType = 0x09
	KnobBottom ControlType = 0x0D
	Fader      ControlType = 0x11
	Button     ControlType = 0x19
)

func (t ControlType) valid() bool {
	switch t {
	case KnobTop, KnobMiddle, KnobBottom, Fader, Button:
		return true
	}
	return false
}

// Behavior is how a control emits value changes.
type Behavior byte

const (
	Absolute Behavior = 0x00
	Relative Behavior = 0x01
	Toggle   Behavior = 0x02
)

// ControlMapping is one physical control's MIDI assignment. Immutable once
// encoded into a page; each mapping belongs to exactly one CustomMode.
type ControlMapping struct {
	Type     ControlType `json:"type"`
	Channel  uint8       `json:"channel"`
	CC       uint8       `json:"cc"`
	Min      uint8       `json:"min"`
	Max      uint8       `json:"max"`
	Behavior Behavior    `json:"behavior"`
}

// CustomMode is a named configuration of the 48 controls. Map keys are
// control ids in [0x10, 0x3F]; absent ids are unconfigured. Labels hold
// per-control text (0-15 ASCII chars), Colors hold LED color codes for
// controls that have LEDs.
type CustomMode struct {
	Name    string `json:"name"`
	Factory bool   `json:"factory,omitempty"`

	Controls map[uint8]ControlMapping `json:"controls"`
	Labels   map[uint8]string         `json:"labels,omitempty"`
	Colors   map[uint8]uint8          `json:"colors,omitempty"`
}

// IsEmpty reports whether the mode is the defined empty-slot result: no name,
// no configured controls, no annotations.
func (m *CustomMode) IsEmpty() bool {
	return m.Name == "" && !m.Factory &&
		len(m.Controls) == 0 && len(m.Labels) == 0 && len(m.Colors) == 0
}

// Validate fails fast on caller input before any wire bytes are built.
func (m *CustomMode) Validate() error {
	if m.Factory && m.Name != "" {
		return fmt.Errorf("%w: factory modes carry no name", ErrValidation)
	}
	if len(m.Name) > sysex.NameLenMax {
		return fmt.Errorf("%w: name %q exceeds %d bytes", ErrValidation, m.Name, sysex.NameLenMax)
	}
	if !printableASCII(m.Name) {
		return fmt.Errorf("%w: name %q is not printable ASCII", ErrValidation, m.Name)
	}
	for id, c := range m.Controls {
		if id < sysex.ControlIDMin || id > sysex.ControlIDMax {
			return fmt.Errorf("%w: control id 0x%02X out of range", ErrValidation, id)
		}
		if !c.Type.valid() {
			return fmt.Errorf("%w: control 0x%02X has unknown type 0x%02X", ErrValidation, id, byte(c.Type))
		}
		if c.Channel > 15 {
			return fmt.Errorf("%w: control 0x%02X channel %d", ErrValidation, id, c.Channel)
		}
		if c.CC > 127 || c.Min > 127 || c.Max > 127 {
			return fmt.Errorf("%w: control 0x%02X has 7-bit field out of range", ErrValidation, id)
		}
		if c.Behavior > Toggle {
			return fmt.Errorf("%w: control 0x%02X behavior 0x%02X", ErrValidation, id, byte(c.Behavior))
		}
	}
	for id, text := range m.Labels {
		if id < sysex.ControlIDMin || id > sysex.ControlIDMax {
			return fmt.Errorf("%w: label id 0x%02X out of range", ErrValidation, id)
		}
		if len(text) > sysex.LabelLenMax {
			return fmt.Errorf("%w: label %q for 0x%02X exceeds %d bytes", ErrValidation, text, id, sysex.LabelLenMax)
		}
		if !printableASCII(text) {
			return fmt.Errorf("%w: label %q is not printable ASCII", ErrValidation, text)
		}
	}
	for id := range m.Colors {
		if id < sysex.ControlIDMin || id > sysex.ControlIDMax {
			return fmt.Errorf("%w: color id 0x%02X out of range", ErrValidation, id)
		}
	}
	return nil
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}
