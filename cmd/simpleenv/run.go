package main

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/simpleenv/agent/valueiteration"
	"github.com/samuelfneumann/simpleenv/experiment"
	"github.com/samuelfneumann/simpleenv/experiment/trackers"
	"github.com/samuelfneumann/simpleenv/plot"
	"github.com/samuelfneumann/simpleenv/utils/progressbar"
)

type RunCmd struct {
	Overrides `embed:""`

	Episodes   *int   `help:"Number of episodes to run"`
	Cutoff     *int   `help:"Maximum number of steps per episode, 0 for no limit"`
	WithReward bool   `help:"Select actions by full action values instead of successor values"`
	Out        string `help:"Save the episodic returns to this file" type:"path"`
	Progress   bool   `help:"Display a progress bar over episodes"`
	Chart      string `help:"Chart the episodic returns to this HTML file" type:"path"`
}

func (cmd *RunCmd) Run(g *Globals) error {
	f, env, vf, err := solve(g, &cmd.Overrides, false)
	if err != nil {
		return err
	}

	episodes, cutoff := f.Experiment.Episodes, *f.Experiment.Cutoff
	if cmd.Episodes != nil {
		episodes = *cmd.Episodes
	}
	if cmd.Cutoff != nil {
		cutoff = *cmd.Cutoff
	}
	withReward := f.Experiment.WithReward || cmd.WithReward

	policy := valueiteration.NewGreedy(vf, withReward, f.Experiment.Seed)
	returns, lengths := trackers.NewReturn(), trackers.NewEpisodeLength()

	e := experiment.NewOnline(env, policy, episodes, cutoff, returns, lengths)
	e.SetLogger(g.Logger)
	if cmd.Progress && episodes > 0 {
		err = runWithProgress(e, progressbar.New(g.Err, 40, episodes))
	} else {
		err = e.Run()
	}
	if err != nil {
		return err
	}

	data := returns.Data()
	fmt.Fprintln(g.Out, headerStyle.Render(fmt.Sprintf("%d episodes", len(data))))
	if len(data) > 0 {
		mean, std := stat.MeanStdDev(data, nil)
		fmt.Fprintln(g.Out, valueStyle.Render(fmt.Sprintf(
			"return: %.4f ± %.4f", mean, std)))
		fmt.Fprintln(g.Out, valueStyle.Render(fmt.Sprintf(
			"length: %.2f", stat.Mean(lengths.Data(), nil))))
	}

	if cmd.Out != "" {
		if err := trackers.Save(returns, cmd.Out); err != nil {
			return err
		}
		g.Logger.Info("saved returns", "file", cmd.Out)
	}

	if cmd.Chart != "" {
		if err := plot.Save(cmd.Chart, plot.Returns(data)); err != nil {
			return err
		}
		g.Logger.Info("charted returns", "file", cmd.Chart)
	}
	return nil
}

// runWithProgress runs an experiment episode by episode, displaying its
// progress after each episode that was actually run
func runWithProgress(e *experiment.Online, bar *progressbar.ProgressBar) error {
	if e.Episodes() >= e.MaxEpisodes() {
		return nil
	}
	defer bar.Done()

	for {
		before := e.Episodes()
		ended, err := e.RunEpisode()
		if err != nil {
			return err
		}
		if e.Episodes() > before {
			bar.Increment()
			bar.Display()
		}
		if ended {
			return nil
		}
	}
}
