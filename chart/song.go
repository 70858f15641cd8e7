package chart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ResolutionKey is the reserved [Song] property holding the ticks-per-beat base.
const ResolutionKey = "Resolution"

var (
	ErrMissingResolution = errors.New("missing resolution")
	ErrInvalidResolution = errors.New("invalid resolution")
)

// A single "Name = value" line of the [Song] section. The value is kept verbatim.
type Property struct {
	Name  string
	Value string
}

// The metadata ([Song]) section of a chart.
type Song struct {
	Resolution uint32 // Ticks per beat.

	// Every other property, in file order. Names are not required to be unique.
	Properties []Property

	// Index Resolution occupied among the properties, so it is written back in place.
	resolutionAt int
}

// NewSong extracts the Resolution property from props and builds a Song from the rest.
func NewSong(props []Property) (Song, error) {
	idx := -1
	for i, prop := range props {
		if prop.Name == ResolutionKey {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Song{}, ErrMissingResolution
	}

	resolution, err := strconv.ParseUint(props[idx].Value, 10, 32)
	if err != nil {
		return Song{}, fmt.Errorf("%w %q: %w", ErrInvalidResolution, props[idx].Value, err)
	}

	rest := make([]Property, 0, len(props)-1)
	rest = append(rest, props[:idx]...)
	rest = append(rest, props[idx+1:]...)

	return Song{
		Resolution:   uint32(resolution),
		Properties:   rest,
		resolutionAt: idx,
	}, nil
}

// Property returns the value of the first property called name.
func (s *Song) Property(name string) (string, bool) {
	if name == ResolutionKey {
		return strconv.FormatUint(uint64(s.Resolution), 10), true
	}
	for _, prop := range s.Properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

func (s *Song) rescale(factor uint32) {
	scale(factor, &s.Resolution)
}

func (s *Song) writeTo(b *strings.Builder) {
	at := min(max(s.resolutionAt, 0), len(s.Properties))
	for i, prop := range s.Properties {
		if i == at {
			fmt.Fprintf(b, "  %s = %d\n", ResolutionKey, s.Resolution)
		}
		fmt.Fprintf(b, "  %s = %s\n", prop.Name, prop.Value)
	}
	if at == len(s.Properties) {
		fmt.Fprintf(b, "  %s = %d\n", ResolutionKey, s.Resolution)
	}
}
