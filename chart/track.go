package chart

import (
	"fmt"
	"strings"
)

// A note track section, named after its difficulty and instrument (e.g. ExpertSingle).
type Track struct {
	Name   string
	Events []TrackEvent
}

// An event of a note track: one of *Note, *Special or *TrackText.
type TrackEvent interface {
	Position() uint32
	setPosition(tick uint32)
	writeLine(b *strings.Builder)
	scaleLength(factor uint32)
}

// A note ("N") on a fret or lane, held for Sustain ticks.
type Note struct {
	Tick    uint32
	Fret    uint32
	Sustain uint32
}

// A special phrase ("S"), e.g. star power (kind 2), lasting Length ticks.
type Special struct {
	Tick   uint32
	Kind   uint32
	Length uint32
}

// A bare word event ("E") inside a track, e.g. solo or soloend.
type TrackText struct {
	Tick uint32
	Word string
}

func (e *Note) Position() uint32      { return e.Tick }
func (e *Special) Position() uint32   { return e.Tick }
func (e *TrackText) Position() uint32 { return e.Tick }

func (e *Note) setPosition(tick uint32)      { e.Tick = tick }
func (e *Special) setPosition(tick uint32)   { e.Tick = tick }
func (e *TrackText) setPosition(tick uint32) { e.Tick = tick }

func (e *Note) scaleLength(factor uint32)    { scale(factor, &e.Sustain) }
func (e *Special) scaleLength(factor uint32) { scale(factor, &e.Length) }
func (e *TrackText) scaleLength(uint32)      {}

func (e *Note) writeLine(b *strings.Builder) {
	fmt.Fprintf(b, "  %d = N %d %d\n", e.Tick, e.Fret, e.Sustain)
}

func (e *Special) writeLine(b *strings.Builder) {
	fmt.Fprintf(b, "  %d = S %d %d\n", e.Tick, e.Kind, e.Length)
}

func (e *TrackText) writeLine(b *strings.Builder) {
	fmt.Fprintf(b, "  %d = E %s\n", e.Tick, e.Word)
}

func (t *Track) rescale(factor uint32) {
	rescalePreservingGaps(t.Events, factor)
	for _, e := range t.Events {
		e.scaleLength(factor)
	}
}

func (t *Track) writeTo(b *strings.Builder) {
	fmt.Fprintf(b, "[%s]\n{\n", t.Name)
	for _, e := range t.Events {
		e.writeLine(b)
	}
	b.WriteString("}\n")
}
