package chart

import (
	"fmt"
	"strings"
)

// Payload prefixes and keywords of the [Events] section.
const (
	PhraseStartKeyword = "phrase_start"
	PhraseEndKeyword   = "phrase_end"
	SectionPrefix      = "section "
	LyricPrefix        = "lyric "
)

// An event of the [Events] section: one of *PhraseStart, *PhraseEnd, *SectionMarker,
// *Lyric or *TextEvent.
type GlobalEvent interface {
	Position() uint32
	setPosition(tick uint32)
	Payload() string
}

// Start of a vocal phrase.
type PhraseStart struct {
	Tick uint32
}

// End of a vocal phrase.
type PhraseEnd struct {
	Tick uint32
}

// A named song section (practice mode marker).
type SectionMarker struct {
	Tick uint32
	Name string
}

// A single lyric syllable.
type Lyric struct {
	Tick uint32
	Text string
}

// Any other quoted event, kept verbatim.
type TextEvent struct {
	Tick  uint32
	Value string
}

func (e *PhraseStart) Position() uint32   { return e.Tick }
func (e *PhraseEnd) Position() uint32     { return e.Tick }
func (e *SectionMarker) Position() uint32 { return e.Tick }
func (e *Lyric) Position() uint32         { return e.Tick }
func (e *TextEvent) Position() uint32     { return e.Tick }

func (e *PhraseStart) setPosition(tick uint32)   { e.Tick = tick }
func (e *PhraseEnd) setPosition(tick uint32)     { e.Tick = tick }
func (e *SectionMarker) setPosition(tick uint32) { e.Tick = tick }
func (e *Lyric) setPosition(tick uint32)         { e.Tick = tick }
func (e *TextEvent) setPosition(tick uint32)     { e.Tick = tick }

// Payload returns the quoted text of the event as it appears in the file.
func (e *PhraseStart) Payload() string   { return PhraseStartKeyword }
func (e *PhraseEnd) Payload() string     { return PhraseEndKeyword }
func (e *SectionMarker) Payload() string { return SectionPrefix + e.Name }
func (e *Lyric) Payload() string         { return LyricPrefix + e.Text }
func (e *TextEvent) Payload() string     { return e.Value }

func writeGlobalEvent(b *strings.Builder, e GlobalEvent) {
	fmt.Fprintf(b, "  %d = E \"%s\"\n", e.Position(), e.Payload())
}
