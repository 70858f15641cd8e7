package chartfile

import (
	"fmt"

	"github.com/QEStudios/ChartScaler/chart"
	c "github.com/QEStudios/ChartScaler/parser/combinator"
)

// eventPrefix parses the "<tick> = " opening shared by every event line.
func eventPrefix() c.Parser[uint32] {
	return c.Terminated(c.Uint32(), c.Tag(" = "))
}

// section parses a bracketed header followed by a brace block of one or more items.
func section[T any](name string, item c.Parser[T]) c.Parser[[]T] {
	return c.Context(name, c.Preceded(
		c.Spaced(c.Tag("["+name+"]")),
		c.Curlied(c.Many1(c.Spaced(item))),
	))
}

// property parses `Name = value`, the value running to the end of the line.
func property(input string) (string, chart.Property, error) {
	rest, name, err := c.Alphanumeric1()(input)
	if err != nil {
		return input, chart.Property{}, err
	}
	rest, _, err = c.Tag(" = ")(rest)
	if err != nil {
		return input, chart.Property{}, err
	}
	rest, value, _ := c.NotLineEnding()(rest)
	return rest, chart.Property{Name: name, Value: value}, nil
}

func songSection(input string) (string, []chart.Property, error) {
	return section("Song", c.Parser[chart.Property](property))(input)
}

// syncEvent parses one [SyncTrack] line: `<tick> = TS n [d]`, `B v` or `A v`.
// Event lines commit once "<tick> = " has matched; only "}" may follow the last line.
func syncEvent(input string) (string, chart.SyncEvent, error) {
	rest, tick, err := eventPrefix()(input)
	if err != nil {
		return input, nil, err
	}
	arg := c.Preceded(c.Space1(), c.Uint32())

	timeSignature := c.Preceded(c.Tag("TS"), c.Parser[chart.SyncEvent](func(input string) (string, chart.SyncEvent, error) {
		rest, numerator, err := arg(input)
		if err != nil {
			return input, nil, err
		}
		rest, denominator, err := c.Opt(arg)(rest)
		if err != nil {
			return input, nil, err
		}
		return rest, &chart.TimeSignature{
			Tick:           tick,
			Numerator:      numerator,
			Denominator:    denominator.Value,
			HasDenominator: denominator.Ok,
		}, nil
	}))
	tempo := c.Map(c.Preceded(c.Tag("B"), arg), func(v uint32) chart.SyncEvent {
		return &chart.Tempo{Tick: tick, Value: v}
	})
	anchor := c.Map(c.Preceded(c.Tag("A"), arg), func(v uint32) chart.SyncEvent {
		return &chart.Anchor{Tick: tick, Value: v}
	})

	return c.Context("tempo event", c.Cut(c.Alt(timeSignature, tempo, anchor)))(rest)
}

func syncTrackSection(input string) (string, []chart.SyncEvent, error) {
	return section("SyncTrack", c.Parser[chart.SyncEvent](syncEvent))(input)
}

// keyword matches word only when it is the whole quoted payload.
func keyword(word string) c.Parser[string] {
	return c.Terminated(c.Tag(word), c.Peek(c.Tag(`"`)))
}

// globalEvent parses one [Events] line: `<tick> = E "<payload>"`.
//
// Once a payload starts with "section " or "lyric " it must be closed by a quote; such a
// line never falls back to a plain text event.
func globalEvent(input string) (string, chart.GlobalEvent, error) {
	rest, tick, err := eventPrefix()(input)
	if err != nil {
		return input, nil, err
	}
	payload := c.Alt(
		c.Map(keyword(chart.PhraseStartKeyword), func(string) chart.GlobalEvent {
			return &chart.PhraseStart{Tick: tick}
		}),
		c.Map(keyword(chart.PhraseEndKeyword), func(string) chart.GlobalEvent {
			return &chart.PhraseEnd{Tick: tick}
		}),
		c.Map(c.Preceded(c.Tag(chart.SectionPrefix), c.Cut(c.TakeUntil(`"`))), func(name string) chart.GlobalEvent {
			return &chart.SectionMarker{Tick: tick, Name: name}
		}),
		c.Map(c.Preceded(c.Tag(chart.LyricPrefix), c.Cut(c.TakeUntil(`"`))), func(text string) chart.GlobalEvent {
			return &chart.Lyric{Tick: tick, Text: text}
		}),
		c.Map(c.TakeUntil(`"`), func(value string) chart.GlobalEvent {
			return &chart.TextEvent{Tick: tick, Value: value}
		}),
	)

	return c.Context("global event", c.Cut(c.Preceded(c.Tag("E "), c.Quoted(payload))))(rest)
}

func eventsSection(input string) (string, []chart.GlobalEvent, error) {
	return section("Events", c.Parser[chart.GlobalEvent](globalEvent))(input)
}

// trackEvent parses one note track line: `<tick> = N fret sustain`, `S kind length` or `E word`.
func trackEvent(input string) (string, chart.TrackEvent, error) {
	rest, tick, err := eventPrefix()(input)
	if err != nil {
		return input, nil, err
	}
	pair := c.Parser[[2]uint32](func(input string) (string, [2]uint32, error) {
		rest, first, err := c.Uint32()(input)
		if err != nil {
			return input, [2]uint32{}, err
		}
		rest, second, err := c.Preceded(c.Space1(), c.Uint32())(rest)
		if err != nil {
			return input, [2]uint32{}, err
		}
		return rest, [2]uint32{first, second}, nil
	})

	note := c.Map(c.Preceded(c.Tag("N "), pair), func(v [2]uint32) chart.TrackEvent {
		return &chart.Note{Tick: tick, Fret: v[0], Sustain: v[1]}
	})
	special := c.Map(c.Preceded(c.Tag("S "), pair), func(v [2]uint32) chart.TrackEvent {
		return &chart.Special{Tick: tick, Kind: v[0], Length: v[1]}
	})
	text := c.Map(c.Preceded(c.Tag("E "), c.Alpha1()), func(word string) chart.TrackEvent {
		return &chart.TrackText{Tick: tick, Word: word}
	})

	return c.Context("track event", c.Cut(c.Alt(note, special, text)))(rest)
}

// track parses a note track section: `[Name]`, whitespace, and a brace block of events.
// The block is mandatory once the header has matched.
func track(input string) (string, chart.Track, error) {
	rest, name, err := c.Terminated(c.Squared(c.Alpha1()), c.Multispace0())(input)
	if err != nil {
		return input, chart.Track{}, err
	}
	rest, events, err := c.Context(name, c.Cut(c.Curlied(c.Many1(c.Spaced(c.Parser[chart.TrackEvent](trackEvent))))))(rest)
	if err != nil {
		return input, chart.Track{}, err
	}
	return rest, chart.Track{Name: name, Events: events}, nil
}

// document parses a whole file. Anything before the first "[" is skipped.
func document(input string) (string, *chart.Chart, error) {
	rest, _, err := c.TakeUntil("[")(input)
	if err != nil {
		return input, nil, err
	}

	rest, props, err := songSection(rest)
	if err != nil {
		return input, nil, err
	}
	song, err := chart.NewSong(props)
	if err != nil {
		return input, nil, fmt.Errorf("[Song] section: %w", err)
	}

	rest, _, _ = c.Multispace0()(rest)
	rest, syncTrack, err := syncTrackSection(rest)
	if err != nil {
		return input, nil, err
	}

	rest, _, _ = c.Multispace0()(rest)
	rest, events, err := eventsSection(rest)
	if err != nil {
		return input, nil, err
	}

	rest, _, _ = c.Multispace0()(rest)
	rest, tracks, err := c.SeparatedList1(c.Multispace1(), c.Parser[chart.Track](track))(rest)
	if err != nil {
		return input, nil, err
	}

	rest, _, err = c.AllConsuming(c.Multispace0())(rest)
	if err != nil {
		return input, nil, err
	}

	return rest, chart.New(song, syncTrack, events, tracks), nil
}
