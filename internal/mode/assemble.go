package mode

import (
	"fmt"
	"sort"

	"xl3ctl/internal/sysex"
)

// NameMismatch reports that a mode's two page copies of its name field
// disagreed during a merge. Recoverable: the merge keeps page A's copy, since
// devices have been observed returning a stale name on one page mid-race. The
// factory flags are part of the field, so a flag disagreement is carried too.
type NameMismatch struct {
	PageA        string
	PageB        string
	PageAFactory bool
	PageBFactory bool
}

func (d *NameMismatch) String() string {
	if d.PageAFactory != d.PageBFactory {
		return fmt.Sprintf("page name fields disagree: %q (factory=%v) vs %q (factory=%v)",
			d.PageA, d.PageAFactory, d.PageB, d.PageBFactory)
	}
	return fmt.Sprintf("page names disagree: %q vs %q", d.PageA, d.PageB)
}

// Split partitions a custom mode into its two wire pages by control-id range.
// Both pages carry an identical copy of the name; unconfigured positions
// become blank records. Annotation records are emitted in ascending id order
// so that encoding the same mode twice is byte-identical.
func Split(m *CustomMode) (*sysex.Page, *sysex.Page, error) {
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	pa := buildPage(m, sysex.PageA)
	pb := buildPage(m, sysex.PageB)
	return pa, pb, nil
}

func buildPage(m *CustomMode, selector byte) *sysex.Page {
	p := &sysex.Page{Selector: selector, Name: m.Name, Factory: m.Factory}

	lo, hi := sysex.PageRange(selector)
	for i := 0; i < sysex.ControlsPage; i++ {
		id := lo + byte(i)
		rec := sysex.ControlRecord{ID: id}
		if c, ok := m.Controls[id]; ok {
			rec.Type = byte(c.Type)
			rec.Channel = c.Channel
			rec.Behavior = byte(c.Behavior)
			rec.Min = c.Min
			rec.CC = c.CC
			rec.Max = c.Max
		}
		p.Controls[i] = rec
	}

	for _, id := range sortedIDs(m.Labels, lo, hi) {
		if m.Labels[id] == "" {
			continue
		}
		p.Labels = append(p.Labels, sysex.LabelRecord{ID: id, Text: m.Labels[id]})
	}
	for _, id := range sortedIDs(m.Colors, lo, hi) {
		p.Colors = append(p.Colors, sysex.ColorRecord{ID: id, Color: m.Colors[id]})
	}
	return p
}

func sortedIDs[V any](m map[uint8]V, lo, hi byte) []uint8 {
	ids := make([]uint8, 0, len(m))
	for id := range m {
		if id >= lo && id <= hi {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Merge combines the two pages of a read back into one custom mode. Blank
// control records decode to absent map entries. A name disagreement between
// the pages is surfaced as a diagnostic, not a failure.
func Merge(pa, pb *sysex.Page) (*CustomMode, *NameMismatch, error) {
	if pa == nil || pb == nil {
		return nil, nil, fmt.Errorf("%w: missing page", sysex.ErrMalformedPage)
	}
	if pa.Selector != sysex.PageA || pb.Selector != sysex.PageB {
		return nil, nil, fmt.Errorf("%w: selectors 0x%02X/0x%02X", sysex.ErrMalformedPage, pa.Selector, pb.Selector)
	}

	m := &CustomMode{
		Name:     pa.Name,
		Factory:  pa.Factory,
		Controls: make(map[uint8]ControlMapping),
	}

	var mismatch *NameMismatch
	if pa.Name != pb.Name || pa.Factory != pb.Factory {
		mismatch = &NameMismatch{
			PageA:        pa.Name,
			PageB:        pb.Name,
			PageAFactory: pa.Factory,
			PageBFactory: pb.Factory,
		}
	}

	for _, p := range []*sysex.Page{pa, pb} {
		for _, rec := range p.Controls {
			if rec.IsBlank() {
				continue
			}
			m.Controls[rec.ID] = ControlMapping{
				Type:     ControlType(rec.Type),
				Channel:  rec.Channel,
				CC:       rec.CC,
				Min:      rec.Min,
				Max:      rec.Max,
				Behavior: Behavior(rec.Behavior),
			}
		}
		for _, l := range p.Labels {
			if m.Labels == nil {
				m.Labels = make(map[uint8]string)
			}
			m.Labels[l.ID] = l.Text
		}
		for _, c := range p.Colors {
			if m.Colors == nil {
				m.Colors = make(map[uint8]uint8)
			}
			m.Colors[c.ID] = c.Color
		}
	}
	return m, mismatch, nil
}
