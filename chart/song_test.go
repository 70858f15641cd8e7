package chart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSong(t *testing.T) {
	props := []Property{
		{Name: "Name", Value: `"Second Sight"`},
		{Name: "Offset", Value: "0"},
		{Name: "Resolution", Value: "192"},
		{Name: "Player2", Value: "bass"},
	}

	song, err := NewSong(props)
	require.NoError(t, err)

	assert.Equal(t, uint32(192), song.Resolution)
	assert.Equal(t, []Property{
		{Name: "Name", Value: `"Second Sight"`},
		{Name: "Offset", Value: "0"},
		{Name: "Player2", Value: "bass"},
	}, song.Properties)

	// The input slice is left untouched.
	assert.Len(t, props, 4)
	assert.Equal(t, "Resolution", props[2].Name)
}

func TestNewSongErrors(t *testing.T) {
	tests := []struct {
		name  string
		props []Property
		want  error
	}{
		{name: "missing", props: []Property{{Name: "Name", Value: `"x"`}}, want: ErrMissingResolution},
		{name: "not a number", props: []Property{{Name: "Resolution", Value: "abc"}}, want: ErrInvalidResolution},
		{name: "negative", props: []Property{{Name: "Resolution", Value: "-192"}}, want: ErrInvalidResolution},
		{name: "too large", props: []Property{{Name: "Resolution", Value: "4294967296"}}, want: ErrInvalidResolution},
		{name: "quoted", props: []Property{{Name: "Resolution", Value: `"192"`}}, want: ErrInvalidResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSong(tt.props)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewSongUsesFirstResolution(t *testing.T) {
	song, err := NewSong([]Property{
		{Name: "Resolution", Value: "480"},
		{Name: "Resolution", Value: "192"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(480), song.Resolution)
	assert.Equal(t, []Property{{Name: "Resolution", Value: "192"}}, song.Properties)
}

func TestSongWritesResolutionInPlace(t *testing.T) {
	song, err := NewSong([]Property{
		{Name: "Name", Value: `"x"`},
		{Name: "Resolution", Value: "192"},
		{Name: "Genre", Value: `"rock"`},
	})
	require.NoError(t, err)
	song.rescale(2)

	var b strings.Builder
	song.writeTo(&b)
	assert.Equal(t, "  Name = \"x\"\n  Resolution = 384\n  Genre = \"rock\"\n", b.String())
}

func TestSongWritesResolutionLast(t *testing.T) {
	song, err := NewSong([]Property{
		{Name: "Name", Value: `"x"`},
		{Name: "Resolution", Value: "192"},
	})
	require.NoError(t, err)

	var b strings.Builder
	song.writeTo(&b)
	assert.Equal(t, "  Name = \"x\"\n  Resolution = 192\n", b.String())

	// A Song built by hand has no recorded position and starts with Resolution.
	b.Reset()
	manual := Song{Resolution: 480, Properties: []Property{{Name: "Name", Value: `"y"`}}}
	manual.writeTo(&b)
	assert.Equal(t, "  Resolution = 480\n  Name = \"y\"\n", b.String())
}

func TestSongProperty(t *testing.T) {
	song := Song{Resolution: 192, Properties: []Property{{Name: "Artist", Value: `"Adagio"`}}}

	v, ok := song.Property("Artist")
	assert.True(t, ok)
	assert.Equal(t, `"Adagio"`, v)

	v, ok = song.Property("Resolution")
	assert.True(t, ok)
	assert.Equal(t, "192", v)

	_, ok = song.Property("Charter")
	assert.False(t, ok)
}
