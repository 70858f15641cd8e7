package chart

import (
	"fmt"
	"strings"
)

// An event of the [SyncTrack] section: one of *Tempo, *TimeSignature or *Anchor.
type SyncEvent interface {
	Position() uint32
	writeLine(b *strings.Builder)
	rescale(factor uint32)
}

// A tempo change ("B"). Value is beats per minute multiplied by 1000.
type Tempo struct {
	Tick  uint32
	Value uint32
}

// A time signature change ("TS"). The denominator is stored as a power of two and is
// optional in the file; when absent it means a quarter note (2).
type TimeSignature struct {
	Tick           uint32
	Numerator      uint32
	Denominator    uint32
	HasDenominator bool
}

// An anchor ("A") locking a tempo marker to an absolute audio time in microseconds.
type Anchor struct {
	Tick  uint32
	Value uint32
}

func (e *Tempo) Position() uint32         { return e.Tick }
func (e *TimeSignature) Position() uint32 { return e.Tick }
func (e *Anchor) Position() uint32        { return e.Tick }

// Tempo events are scaled uniformly; there is no adjacency handling in this section.
func (e *Tempo) rescale(factor uint32)         { scale(factor, &e.Tick) }
func (e *TimeSignature) rescale(factor uint32) { scale(factor, &e.Tick) }
func (e *Anchor) rescale(factor uint32)        { scale(factor, &e.Tick) }

func (e *Tempo) writeLine(b *strings.Builder) {
	fmt.Fprintf(b, "  %d = B %d\n", e.Tick, e.Value)
}

func (e *TimeSignature) writeLine(b *strings.Builder) {
	if e.HasDenominator {
		fmt.Fprintf(b, "  %d = TS %d %d\n", e.Tick, e.Numerator, e.Denominator)
		return
	}
	fmt.Fprintf(b, "  %d = TS %d\n", e.Tick, e.Numerator)
}

func (e *Anchor) writeLine(b *strings.Builder) {
	fmt.Fprintf(b, "  %d = A %d\n", e.Tick, e.Value)
}

// BPM returns the tempo in beats per minute.
func (e *Tempo) BPM() float64 {
	return float64(e.Value) / 1000
}

// DenominatorValue returns the actual note value of the denominator (4 for x/4).
func (e *TimeSignature) DenominatorValue() uint32 {
	if !e.HasDenominator {
		return 4
	}
	return 1 << e.Denominator
}
