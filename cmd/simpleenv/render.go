package main

import (
	"github.com/samuelfneumann/simpleenv/environment"
	"github.com/samuelfneumann/simpleenv/render"
)

type RenderCmd struct {
	Overrides `embed:""`

	Out   string `short:"o" help:"PNG file to write" default:"mdp.png" type:"path"`
	Size  int    `help:"Width and height of the image in pixels" default:"640"`
	Solve bool   `help:"Annotate states with their optimal values"`
}

func (cmd *RenderCmd) Run(g *Globals) error {
	var values []float64
	var env environment.Environment

	if cmd.Solve {
		_, e, vf, err := solve(g, &cmd.Overrides, false)
		if err != nil {
			return err
		}
		env, values = e, vf.Values()
	} else {
		f, err := g.File()
		if err != nil {
			return err
		}
		if err := cmd.Overrides.Apply(f); err != nil {
			return err
		}
		if env, err = f.Environment.Create(); err != nil {
			return err
		}
	}

	if err := renderPNG(env, values, cmd.Out, cmd.Size); err != nil {
		return err
	}
	g.Logger.Info("rendered environment", "file", cmd.Out)
	return nil
}

// renderPNG renders env to a PNG file. A size of 0 uses the default size.
func renderPNG(env environment.MDP, values []float64, filename string,
	size int) error {
	graph, err := render.NewGraph(env, values)
	if err != nil {
		return err
	}
	if size > 0 {
		graph.SetSize(size)
	}
	return graph.SavePNG(filename)
}
