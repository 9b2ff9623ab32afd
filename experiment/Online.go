package experiment

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/samuelfneumann/simpleenv/agent"
	env "github.com/samuelfneumann/simpleenv/environment"
	"github.com/samuelfneumann/simpleenv/experiment/trackers"
	ts "github.com/samuelfneumann/simpleenv/timestep"
)

// Online is an Experiment that runs a fixed policy online for a number
// of episodes. Episodes end when the environment reaches a terminal
// state or when the episode step limit is reached.
type Online struct {
	env.Environment
	agent.Policy

	ender           env.Ender
	maxEpisodes     int
	currentEpisodes int
	trackers        []trackers.Tracker
	logger          *log.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The episodes parameter determines
// how many episodes the experiment is run for, and episodes are cut off
// after cutoff steps (0 meaning no cutoff). The t parameter is a slice of
// trackers.Tracker which determine what data is kept.
func NewOnline(e env.Environment, p agent.Policy, episodes, cutoff int,
	t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		Policy:      p,
		ender:       env.NewStepLimit(cutoff),
		maxEpisodes: episodes,
		trackers:    t,
		logger:      log.Default(),
	}
}

// SetLogger sets the logger that episode summaries are logged to
func (o *Online) SetLogger(l *log.Logger) {
	o.logger = l
}

// Register registers a trackers.Tracker with an Experiment so that data
// generated during the experiment can be tracked
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment and returns
// whether or not the maximum number of episodes has been reached
func (o *Online) RunEpisode() (bool, error) {
	if o.currentEpisodes >= o.maxEpisodes {
		return true, nil
	}

	step, err := o.Environment.Reset()
	if err != nil {
		return true, fmt.Errorf("runEpisode: could not reset environment: %w",
			err)
	}
	o.track(step)

	var episodeReturn float64
	for !step.Last() {
		action := o.Policy.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return true, fmt.Errorf("runEpisode: could not step "+
				"environment: %w", err)
		}
		o.ender.End(&step)

		episodeReturn += step.Reward
		o.track(step)
	}

	o.currentEpisodes++
	_, cutoff := step.Info[env.CutoffKey]
	o.logger.Debug("episode complete", "episode", o.currentEpisodes,
		"steps", step.Number, "return", episodeReturn, "cutoff", cutoff)

	return o.currentEpisodes >= o.maxEpisodes, nil
}

// Run runs the entire experiment for all episodes
func (o *Online) Run() error {
	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}
}

// MaxEpisodes returns the number of episodes the experiment runs for
func (o *Online) MaxEpisodes() int {
	return o.maxEpisodes
}

// Episodes returns the number of episodes run so far
func (o *Online) Episodes() int {
	return o.currentEpisodes
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
