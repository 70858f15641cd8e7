package chart

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	NoteKeyBase = 60 // MIDI key of fret 0. Fret n is written to NoteKeyBase+n.

	noteVelocity   = 100
	noteChannel    = 0 // Channel for N events.
	specialChannel = 1 // Channel for S events, keyed by their kind.

	// The resolution is written as SMF metric ticks, which only have 15 bits.
	maxMetricTicks = 1<<15 - 1
)

// Messages at the same tick are written note-offs first, then meta events, then note-ons,
// so a note ending where the next one starts doesn't cut the new one off.
const (
	orderOff = iota
	orderMeta
	orderOn
)

type timedMessage struct {
	tick  uint32
	order int
	msg   []byte
}

// ToSMF converts the tempo map, the global events and the note track called trackName into a
// format 1 Standard MIDI File with the chart resolution as its ticks per quarter note.
func (c *Chart) ToSMF(trackName string) (*smf.SMF, error) {
	if c.Song.Resolution == 0 || c.Song.Resolution > maxMetricTicks {
		return nil, fmt.Errorf("resolution %d cannot be stored in a MIDI file (allowed range 1..%d)", c.Song.Resolution, maxMetricTicks)
	}
	track, ok := c.Track(trackName)
	if !ok {
		return nil, fmt.Errorf("chart has no track named %q", trackName)
	}

	tempoMessages, err := c.tempoMessages()
	if err != nil {
		return nil, err
	}
	noteMessages, err := track.noteMessages()
	if err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(uint16(c.Song.Resolution))

	tracks := [][]timedMessage{tempoMessages, c.eventMessages(), noteMessages}
	for _, msgs := range tracks {
		if err := s.Add(toTrack(msgs)); err != nil {
			return nil, fmt.Errorf("error adding MIDI track: %w", err)
		}
	}
	return s, nil
}

// WriteMIDI writes the result of ToSMF to w.
func (c *Chart) WriteMIDI(w io.Writer, trackName string) error {
	s, err := c.ToSMF(trackName)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}

func (c *Chart) tempoMessages() ([]timedMessage, error) {
	name, _ := c.Song.Property("Name")
	msgs := []timedMessage{{tick: 0, order: orderMeta, msg: smf.MetaTrackSequenceName(trimQuotes(name))}}

	for _, e := range c.SyncTrack {
		switch e := e.(type) {
		case *Tempo:
			if e.Value == 0 {
				return nil, fmt.Errorf("tempo at tick %d is zero", e.Tick)
			}
			msgs = append(msgs, timedMessage{tick: e.Tick, order: orderMeta, msg: smf.MetaTempo(e.BPM())})
		case *TimeSignature:
			denominator := e.DenominatorValue()
			if e.Numerator == 0 || e.Numerator > 255 || denominator == 0 || denominator > 128 {
				return nil, fmt.Errorf("time signature %d/%d at tick %d cannot be stored in a MIDI file", e.Numerator, denominator, e.Tick)
			}
			msgs = append(msgs, timedMessage{tick: e.Tick, order: orderMeta, msg: smf.MetaMeter(uint8(e.Numerator), uint8(denominator))})
		case *Anchor:
			// MIDI has no way to pin a tick to an audio timestamp.
		}
	}
	return msgs, nil
}

func (c *Chart) eventMessages() []timedMessage {
	msgs := []timedMessage{{tick: 0, order: orderMeta, msg: smf.MetaTrackSequenceName("EVENTS")}}
	for _, e := range c.Events {
		var msg []byte
		switch e := e.(type) {
		case *SectionMarker:
			msg = smf.MetaMarker(e.Name)
		case *Lyric:
			msg = smf.MetaLyric(e.Text)
		default:
			msg = smf.MetaText(e.Payload())
		}
		msgs = append(msgs, timedMessage{tick: e.Position(), order: orderMeta, msg: msg})
	}
	return msgs
}

func (t *Track) noteMessages() ([]timedMessage, error) {
	msgs := []timedMessage{{tick: 0, order: orderMeta, msg: smf.MetaTrackSequenceName(t.Name)}}

	addNote := func(channel uint8, key, tick, length uint32) error {
		if key > 127 {
			return fmt.Errorf("event at tick %d maps to MIDI key %d, which is out of range", tick, key)
		}
		// Zero-length notes still need a note-off after them.
		end := tick + max(length, 1)
		msgs = append(msgs,
			timedMessage{tick: tick, order: orderOn, msg: midi.NoteOn(channel, uint8(key), noteVelocity)},
			timedMessage{tick: end, order: orderOff, msg: midi.NoteOff(channel, uint8(key))},
		)
		return nil
	}

	for _, e := range t.Events {
		switch e := e.(type) {
		case *Note:
			if err := addNote(noteChannel, NoteKeyBase+e.Fret, e.Tick, e.Sustain); err != nil {
				return nil, fmt.Errorf("track %s: %w", t.Name, err)
			}
		case *Special:
			if err := addNote(specialChannel, e.Kind, e.Tick, e.Length); err != nil {
				return nil, fmt.Errorf("track %s: %w", t.Name, err)
			}
		case *TrackText:
			msgs = append(msgs, timedMessage{tick: e.Tick, order: orderMeta, msg: smf.MetaText(e.Word)})
		}
	}
	return msgs, nil
}

// toTrack sorts msgs by time and converts them into a closed track with delta times.
func toTrack(msgs []timedMessage) smf.Track {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].order < msgs[j].order
	})

	var tr smf.Track
	var last uint32
	for _, m := range msgs {
		tr.Add(m.tick-last, m.msg)
		last = m.tick
	}
	tr.Close(0)
	return tr
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
