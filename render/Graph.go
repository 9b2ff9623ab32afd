// Package render draws finite MDPs as state graphs. States are drawn on
// a circle and annotated with their values, and each transition is drawn
// as an arrow labelled with its action and reward.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/simpleenv/environment"
)

// Default dimensions of a rendered graph, in pixels
const (
	DefaultSize   int     = 640
	NodeRadius    float64 = 28
	arrowHeadSize float64 = 9
)

var (
	background   = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	edgeColour   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	labelColour  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	rewardColour = color.RGBA{R: 255, G: 166, B: 0, A: 255}

	// Nodes are shaded from lowColour at the lowest state value to
	// highColour at the highest
	lowColour      = color.RGBA{R: 77, G: 77, B: 128, A: 255}
	highColour     = color.RGBA{R: 128, G: 102, B: 230, A: 255}
	terminalColour = color.RGBA{R: 61, G: 53, B: 122, A: 255}
)

// Graph renders an MDP as a state graph
type Graph struct {
	mdp    environment.MDP
	values []float64
	size   int

	terminal []bool
}

// NewGraph returns a Graph rendering m with each state annotated with its
// value in values. If values is nil, states are not annotated.
func NewGraph(m environment.MDP, values []float64) (*Graph, error) {
	if values != nil && len(values) != m.NumStates() {
		return nil, fmt.Errorf("newGraph: got %d values for %d states",
			len(values), m.NumStates())
	}

	terminal := make([]bool, m.NumStates())
	for _, s := range m.TerminalStates() {
		if s < 0 || s >= len(terminal) {
			return nil, fmt.Errorf("newGraph: terminal state %d out of "+
				"range [0, %d)", s, len(terminal))
		}
		terminal[s] = true
	}

	return &Graph{
		mdp:      m,
		values:   values,
		size:     DefaultSize,
		terminal: terminal,
	}, nil
}

// SetSize sets the width and height of rendered images
func (g *Graph) SetSize(size int) {
	g.size = size
}

// Position returns the pixel coordinates of the centre of a state
func (g *Graph) Position(state int) (x, y float64) {
	centre := float64(g.size) / 2
	radius := centre - 2*NodeRadius

	angle := 2*math.Pi*float64(state)/float64(g.mdp.NumStates()) - math.Pi/2
	return centre + radius*math.Cos(angle), centre + radius*math.Sin(angle)
}

// Image renders the graph
func (g *Graph) Image() image.Image {
	return g.draw().Image()
}

// SavePNG renders the graph to a PNG file
func (g *Graph) SavePNG(filename string) error {
	if err := g.draw().SavePNG(filename); err != nil {
		return fmt.Errorf("savePNG: %w", err)
	}
	return nil
}

func (g *Graph) draw() *gg.Context {
	dc := gg.NewContext(g.size, g.size)
	dc.SetColor(background)
	dc.Clear()

	transitions, rewards := g.mdp.Transitions(), g.mdp.Rewards()
	actions := g.mdp.NumActions()
	for s := range transitions {
		if g.terminal[s] {
			continue
		}
		for a, next := range transitions[s] {
			g.drawEdge(dc, s, next, a, actions, rewards[s][a])
		}
	}

	for s := 0; s < g.mdp.NumStates(); s++ {
		g.drawNode(dc, s)
	}

	return dc
}

// drawEdge draws the transition of action a from state s to state next.
// Parallel edges are bent by an amount depending on the action so that
// their labels do not overlap.
func (g *Graph) drawEdge(dc *gg.Context, s, next, a, actions int,
	reward float64) {
	x1, y1 := g.Position(s)
	label := fmt.Sprintf("a%d: %.2g", a, reward)

	dc.SetColor(edgeColour)
	dc.SetLineWidth(2)

	if s == next {
		loopRadius := NodeRadius * (0.6 + 0.2*float64(a))
		cx, cy := g.outward(x1, y1, NodeRadius+loopRadius*0.8)
		dc.DrawCircle(cx, cy, loopRadius)
		dc.Stroke()

		lx, ly := g.outward(cx, cy, loopRadius+8)
		dc.SetColor(rewardColour)
		dc.DrawStringAnchored(label, lx, ly, 0.5, 0.5)
		return
	}

	x2, y2 := g.Position(next)
	angle := math.Atan2(y2-y1, x2-x1)

	// Bend each action's edge to a different side of the straight line
	bend := (float64(a) - float64(actions-1)/2) * 24
	mx := (x1+x2)/2 - bend*math.Sin(angle)
	my := (y1+y2)/2 + bend*math.Cos(angle)

	sx, sy := x1+NodeRadius*math.Cos(angle), y1+NodeRadius*math.Sin(angle)
	ex, ey := x2-NodeRadius*math.Cos(angle), y2-NodeRadius*math.Sin(angle)
	dc.MoveTo(sx, sy)
	dc.QuadraticTo(mx, my, ex, ey)
	dc.Stroke()

	// Arrow head along the tangent at the end of the curve
	tangent := math.Atan2(ey-my, ex-mx)
	dc.MoveTo(ex, ey)
	dc.LineTo(ex-arrowHeadSize*math.Cos(tangent-math.Pi/6),
		ey-arrowHeadSize*math.Sin(tangent-math.Pi/6))
	dc.LineTo(ex-arrowHeadSize*math.Cos(tangent+math.Pi/6),
		ey-arrowHeadSize*math.Sin(tangent+math.Pi/6))
	dc.ClosePath()
	dc.Fill()

	dc.SetColor(rewardColour)
	dc.DrawStringAnchored(label, mx, my, 0.5, 0.5)
}

func (g *Graph) drawNode(dc *gg.Context, s int) {
	x, y := g.Position(s)

	dc.SetColor(g.shade(s))
	dc.DrawCircle(x, y, NodeRadius)
	dc.Fill()

	dc.SetColor(labelColour)
	dc.SetLineWidth(2)
	dc.DrawCircle(x, y, NodeRadius)
	dc.Stroke()
	if g.terminal[s] {
		dc.DrawCircle(x, y, NodeRadius-5)
		dc.Stroke()
	}

	if g.values == nil {
		dc.DrawStringAnchored(fmt.Sprint(s), x, y, 0.5, 0.5)
		return
	}
	dc.DrawStringAnchored(fmt.Sprint(s), x, y-7, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.3f", g.values[s]), x, y+7, 0.5, 0.5)
}

// shade returns the fill colour of a state
func (g *Graph) shade(s int) color.Color {
	if g.terminal[s] {
		return terminalColour
	}
	if g.values == nil {
		return lowColour
	}

	low, high := floats.Min(g.values), floats.Max(g.values)
	t := 0.5
	if high > low {
		t = (g.values[s] - low) / (high - low)
	}
	return lerp(lowColour, highColour, t)
}

// outward moves the point (x, y) a distance d further from the centre of
// the image
func (g *Graph) outward(x, y, d float64) (float64, float64) {
	centre := float64(g.size) / 2
	angle := math.Atan2(y-centre, x-centre)
	return x + d*math.Cos(angle), y + d*math.Sin(angle)
}

func lerp(from, to color.RGBA, t float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
	}
	return color.RGBA{
		R: mix(from.R, to.R),
		G: mix(from.G, to.G),
		B: mix(from.B, to.B),
		A: 255,
	}
}
