package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func globalTicks(events []GlobalEvent) []uint32 {
	ticks := make([]uint32, 0, len(events))
	for _, e := range events {
		ticks = append(ticks, e.Position())
	}
	return ticks
}

func textEvents(ticks ...uint32) []GlobalEvent {
	events := make([]GlobalEvent, 0, len(ticks))
	for _, tick := range ticks {
		events = append(events, &TextEvent{Tick: tick, Value: "crowd_clap"})
	}
	return events
}

func TestRescalePreservingGaps(t *testing.T) {
	tests := []struct {
		name   string
		ticks  []uint32
		factor uint32
		want   []uint32
	}{
		{name: "empty", ticks: nil, factor: 3, want: []uint32{}},
		{name: "single", ticks: []uint32{7}, factor: 3, want: []uint32{21}},
		{name: "adjacent chain", ticks: []uint32{10, 11, 12}, factor: 3, want: []uint32{30, 31, 34}},
		{name: "chain from zero", ticks: []uint32{0, 1, 2}, factor: 2, want: []uint32{0, 1, 3}},
		{name: "no adjacency", ticks: []uint32{10, 20}, factor: 3, want: []uint32{30, 60}},
		{name: "same tick", ticks: []uint32{10, 10, 11}, factor: 4, want: []uint32{40, 40, 41}},
		{name: "mixed", ticks: []uint32{0, 192, 193, 384, 385, 386, 768}, factor: 2, want: []uint32{0, 384, 385, 768, 769, 771, 1536}},
		{name: "factor one", ticks: []uint32{5, 6, 7}, factor: 1, want: []uint32{5, 6, 7}},
		{name: "factor zero", ticks: []uint32{5, 6, 9}, factor: 0, want: []uint32{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := textEvents(tt.ticks...)
			rescalePreservingGaps(events, tt.factor)
			assert.Equal(t, tt.want, globalTicks(events))
		})
	}
}

func TestRescaleChart(t *testing.T) {
	c := New(
		Song{Resolution: 192, Properties: []Property{{Name: "Name", Value: `"Test"`}}},
		[]SyncEvent{
			&TimeSignature{Tick: 10, Numerator: 4},
			&Tempo{Tick: 11, Value: 120000},
			&Anchor{Tick: 12, Value: 500000},
		},
		textEvents(10, 11, 12),
		[]Track{{
			Name: "ExpertSingle",
			Events: []TrackEvent{
				&Note{Tick: 10, Fret: 0, Sustain: 100},
				&Note{Tick: 11, Fret: 5, Sustain: 0},
				&Special{Tick: 12, Kind: 2, Length: 50},
				&TrackText{Tick: 40, Word: "solo"},
			},
		}},
	)

	c.Rescale(3)

	assert.Equal(t, uint32(576), c.Song.Resolution)

	// The tempo map is scaled uniformly.
	assert.Equal(t, &TimeSignature{Tick: 30, Numerator: 4}, c.SyncTrack[0])
	assert.Equal(t, &Tempo{Tick: 33, Value: 120000}, c.SyncTrack[1])
	assert.Equal(t, &Anchor{Tick: 36, Value: 500000}, c.SyncTrack[2])

	assert.Equal(t, []uint32{30, 31, 34}, globalTicks(c.Events))

	// Durations are scaled directly, whatever happens to the tick.
	events := c.Tracks[0].Events
	assert.Equal(t, &Note{Tick: 30, Fret: 0, Sustain: 300}, events[0])
	assert.Equal(t, &Note{Tick: 31, Fret: 5, Sustain: 0}, events[1])
	assert.Equal(t, &Special{Tick: 34, Kind: 2, Length: 150}, events[2])
	assert.Equal(t, &TrackText{Tick: 120, Word: "solo"}, events[3])
}

func TestRescaleTracksIndependently(t *testing.T) {
	c := New(
		Song{Resolution: 192},
		[]SyncEvent{&Tempo{Tick: 0, Value: 120000}},
		textEvents(0),
		[]Track{
			{Name: "ExpertSingle", Events: []TrackEvent{&Note{Tick: 100}, &Note{Tick: 101}}},
			// The first event of a track is never treated as adjacent to the previous track.
			{Name: "HardSingle", Events: []TrackEvent{&Note{Tick: 102}, &Note{Tick: 103}}},
		},
	)

	c.Rescale(4)

	assert.Equal(t, uint32(400), c.Tracks[0].Events[0].Position())
	assert.Equal(t, uint32(401), c.Tracks[0].Events[1].Position())
	assert.Equal(t, uint32(408), c.Tracks[1].Events[0].Position())
	assert.Equal(t, uint32(409), c.Tracks[1].Events[1].Position())
}

func TestRescaleSustainIgnoresAdjacency(t *testing.T) {
	track := Track{Name: "ExpertDrums", Events: []TrackEvent{
		&Note{Tick: 0, Sustain: 100},
		&Note{Tick: 1, Sustain: 100},
		&Note{Tick: 50, Sustain: 100},
	}}

	track.rescale(4)

	for _, e := range track.Events {
		assert.Equal(t, uint32(400), e.(*Note).Sustain)
	}
}

func TestRescaleByZero(t *testing.T) {
	c := New(
		Song{Resolution: 192},
		[]SyncEvent{&Tempo{Tick: 768, Value: 120000}},
		textEvents(768),
		[]Track{{Name: "ExpertSingle", Events: []TrackEvent{&Note{Tick: 768, Sustain: 10}}}},
	)

	c.Rescale(0)

	assert.Zero(t, c.Song.Resolution)
	assert.Zero(t, c.SyncTrack[0].Position())
	assert.Zero(t, c.Events[0].Position())
	assert.Equal(t, &Note{Tick: 0, Sustain: 0}, c.Tracks[0].Events[0])
}
