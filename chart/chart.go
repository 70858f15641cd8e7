// Package chart models .chart note chart documents: song metadata, the tempo map, global
// events and one or more note tracks, all positioned in integer ticks.
//
// A Chart is not safe for concurrent use; Rescale mutates it in place.
package chart

import (
	"io"
	"strings"
)

// A complete chart document.
type Chart struct {
	Song      Song
	SyncTrack []SyncEvent
	Events    []GlobalEvent
	Tracks    []Track // At least one in a parsed chart.
}

// New assembles a chart from its sections.
func New(song Song, syncTrack []SyncEvent, events []GlobalEvent, tracks []Track) *Chart {
	return &Chart{
		Song:      song,
		SyncTrack: syncTrack,
		Events:    events,
		Tracks:    tracks,
	}
}

// Rescale multiplies the resolution and every tick and duration in the chart by factor.
//
// Tempo map ticks are multiplied directly. Global events and note tracks keep events that sat
// one tick after their predecessor one tick after it (see rescalePreservingGaps).
// A factor of 0 zeroes everything; overflow wraps like any uint32 multiplication.
func (c *Chart) Rescale(factor uint32) {
	c.Song.rescale(factor)
	for _, e := range c.SyncTrack {
		e.rescale(factor)
	}
	rescalePreservingGaps(c.Events, factor)
	for i := range c.Tracks {
		c.Tracks[i].rescale(factor)
	}
}

// Track returns the first track called name.
func (c *Chart) Track(name string) (*Track, bool) {
	for i := range c.Tracks {
		if c.Tracks[i].Name == name {
			return &c.Tracks[i], true
		}
	}
	return nil, false
}

// String serializes the chart in canonical form.
func (c *Chart) String() string {
	var b strings.Builder

	b.WriteString("[Song]\n{\n")
	c.Song.writeTo(&b)
	b.WriteString("}\n")

	b.WriteString("[SyncTrack]\n{\n")
	for _, e := range c.SyncTrack {
		e.writeLine(&b)
	}
	b.WriteString("}\n")

	b.WriteString("[Events]\n{\n")
	for _, e := range c.Events {
		writeGlobalEvent(&b, e)
	}
	b.WriteString("}\n")

	for i := range c.Tracks {
		c.Tracks[i].writeTo(&b)
	}
	return b.String()
}

// WriteTo writes the canonical form of the chart to w.
func (c *Chart) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.String())
	return int64(n), err
}
