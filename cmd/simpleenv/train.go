package main

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/simpleenv/agent/valueiteration"
	"github.com/samuelfneumann/simpleenv/environment"
	"github.com/samuelfneumann/simpleenv/environment/envconfig"
	"github.com/samuelfneumann/simpleenv/plot"
)

// Overrides are flags overriding the run configuration file
type Overrides struct {
	Env        string   `help:"Registered environment to use instead of the configured one" placeholder:"ID"`
	RandomProb *float64 `help:"Probability of replacing the chosen action at random"`
	Seed       *uint64  `help:"Environment seed"`
	Gamma      *float64 `help:"Discount factor"`
	Theta      *float64 `help:"Convergence threshold"`
	LogEvery   *int     `help:"Sweeps between progress logs, negative to disable"`
	Noise      string   `help:"Noise model of the back-up (step or residual)"`
	MaxSweeps  *int     `help:"Maximum number of sweeps, 0 for no limit"`
}

// Apply applies the overrides to a run configuration
func (o *Overrides) Apply(f *envconfig.File) error {
	if o.Env != "" {
		f.Environment.Name = o.Env
		f.Environment.MDP = nil
	}
	if o.RandomProb != nil {
		f.Environment.RandomProb = o.RandomProb
	}
	if o.Seed != nil {
		f.Environment.Seed = *o.Seed
	}
	if o.Gamma != nil {
		f.Solver.Gamma = o.Gamma
	}
	if o.Theta != nil {
		f.Solver.Theta = o.Theta
	}
	if o.LogEvery != nil {
		f.Solver.LogEvery = *o.LogEvery
	}
	if o.Noise != "" {
		f.Solver.Noise = o.Noise
	}
	if o.MaxSweeps != nil {
		f.Solver.MaxSweeps = *o.MaxSweeps
	}
	return f.Validate()
}

// solve loads the run configuration, creates its environment and solves
// it by Value Iteration. The per-sweep history is only recorded if
// history is set.
func solve(g *Globals, o *Overrides, history bool) (*envconfig.File,
	environment.Environment, *valueiteration.ValueFunction, error) {
	f, err := g.File()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := o.Apply(f); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	env, err := f.Environment.Create()
	if err != nil {
		return nil, nil, nil, err
	}
	g.Logger.Debug("created environment", "env", env)

	c := f.SolverConfig(g.Logger)
	c.History = history

	vf := valueiteration.New()
	if _, err := vf.Train(env, c); err != nil {
		return nil, nil, nil, err
	}
	return f, env, vf, nil
}

type TrainCmd struct {
	Overrides `embed:""`

	Render string `help:"Also render the solved environment to this PNG file" type:"path"`
	Chart  string `help:"Also chart the convergence of the solver to this HTML file" type:"path"`
}

func (cmd *TrainCmd) Run(g *Globals) error {
	_, env, vf, err := solve(g, &cmd.Overrides, cmd.Chart != "")
	if err != nil {
		return err
	}

	printValues(g.Out, vf)

	if cmd.Render != "" {
		if err := renderPNG(env, vf.Values(), cmd.Render, 0); err != nil {
			return err
		}
		g.Logger.Info("rendered value function", "file", cmd.Render)
	}

	if cmd.Chart != "" {
		if err := plot.Save(cmd.Chart, plot.Convergence(vf),
			plot.Values(vf)); err != nil {
			return err
		}
		g.Logger.Info("charted convergence", "file", cmd.Chart)
	}
	return nil
}

func printValues(w io.Writer, vf *valueiteration.ValueFunction) {
	fmt.Fprintf(w, "%s\n", headerStyle.Render(fmt.Sprintf(
		"Converged after %d sweeps (delta %.3g)", vf.Sweeps(), vf.Delta())))
	fmt.Fprintf(w, "%s\n", headerStyle.Render(fmt.Sprintf("%-6s %12s %8s",
		"state", "value", "action")))

	for s, value := range vf.Values() {
		if vf.IsTerminal(s) {
			fmt.Fprintln(w, terminalStyle.Render(fmt.Sprintf("%-6d %12.6f %8s",
				s, value, "-")))
			continue
		}
		fmt.Fprintln(w, valueStyle.Render(fmt.Sprintf("%-6d %12.6f %8d", s,
			value, vf.GreedyAction(s))))
	}
}
