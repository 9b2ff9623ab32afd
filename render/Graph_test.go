package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/simpleenv/environment/simple"
)

func fiveState(t *testing.T) *simple.SimpleEnv {
	env, err := simple.New(simple.FiveState(), 0.0, 1)
	require.NoError(t, err)
	return env
}

func TestNewGraphValueCount(t *testing.T) {
	_, err := NewGraph(fiveState(t), []float64{1, 2, 3})
	assert.Error(t, err)

	_, err = NewGraph(fiveState(t), nil)
	assert.NoError(t, err)
}

func TestImage(t *testing.T) {
	g, err := NewGraph(fiveState(t), []float64{0.72, 0.8, 0, 1, 0})
	require.NoError(t, err)
	g.SetSize(320)

	img := g.Image()
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 320, img.Bounds().Dy())

	// The corner is background and the centre of every state is
	// filled with a node colour
	assert.Equal(t, background, img.At(0, 0))
	for s := 0; s < 5; s++ {
		x, y := g.Position(s)
		assert.NotEqual(t, background, img.At(int(x)+int(NodeRadius/2),
			int(y)), "state %d", s)
	}
}

func TestShade(t *testing.T) {
	g, err := NewGraph(fiveState(t), []float64{0.5, 0.8, 0, 1, 0})
	require.NoError(t, err)

	assert.Equal(t, terminalColour, g.shade(4))
	assert.Equal(t, lowColour, g.shade(2))
	assert.Equal(t, highColour, g.shade(3))

	flat, err := NewGraph(fiveState(t), []float64{1, 1, 1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, lerp(lowColour, highColour, 0.5), flat.shade(0))
}

func TestPositionsDistinct(t *testing.T) {
	g, err := NewGraph(fiveState(t), nil)
	require.NoError(t, err)

	for s := 0; s < 5; s++ {
		x1, y1 := g.Position(s)
		for o := s + 1; o < 5; o++ {
			x2, y2 := g.Position(o)
			assert.False(t, x1 == x2 && y1 == y2, "states %d and %d", s, o)
		}
	}
}

func TestSavePNG(t *testing.T) {
	g, err := NewGraph(fiveState(t), nil)
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "graph.png")
	require.NoError(t, g.SavePNG(filename))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
}
