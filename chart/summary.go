package chart

// Summary gives an overview of a chart without its events.
type Summary struct {
	Name       string         `json:"name,omitempty"`
	Artist     string         `json:"artist,omitempty"`
	Resolution uint32         `json:"resolution"`
	Properties int            `json:"properties"`
	SyncEvents int            `json:"syncEvents"`
	Events     int            `json:"events"`
	Sections   []string       `json:"sections"`
	Tracks     []TrackSummary `json:"tracks"`
	LastTick   uint32         `json:"lastTick"`
}

type TrackSummary struct {
	Name     string `json:"name"`
	Notes    int    `json:"notes"`
	Specials int    `json:"specials"`
	Texts    int    `json:"texts"`
}

// Summarize counts the contents of every section.
func (c *Chart) Summarize() Summary {
	s := Summary{
		Resolution: c.Song.Resolution,
		Properties: len(c.Song.Properties),
		SyncEvents: len(c.SyncTrack),
		Events:     len(c.Events),
		Sections:   []string{},
		Tracks:     make([]TrackSummary, 0, len(c.Tracks)),
	}
	name, _ := c.Song.Property("Name")
	artist, _ := c.Song.Property("Artist")
	s.Name = trimQuotes(name)
	s.Artist = trimQuotes(artist)

	for _, e := range c.SyncTrack {
		s.LastTick = max(s.LastTick, e.Position())
	}
	for _, e := range c.Events {
		s.LastTick = max(s.LastTick, e.Position())
		if m, ok := e.(*SectionMarker); ok {
			s.Sections = append(s.Sections, m.Name)
		}
	}
	for _, t := range c.Tracks {
		ts := TrackSummary{Name: t.Name}
		for _, e := range t.Events {
			s.LastTick = max(s.LastTick, e.Position())
			switch e.(type) {
			case *Note:
				ts.Notes++
			case *Special:
				ts.Specials++
			case *TrackText:
				ts.Texts++
			}
		}
		s.Tracks = append(s.Tracks, ts)
	}
	return s
}
