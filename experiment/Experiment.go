// Package experiment implements functionality for running a policy in an
// environment and tracking the data it generates
package experiment

import (
	"github.com/samuelfneumann/simpleenv/experiment/trackers"
	ts "github.com/samuelfneumann/simpleenv/timestep"
)

// Experiment outlines structs that can run experiments. Experiments
// send every environment TimeStep to their Trackers, which determine
// which data generated during the experiment is kept. The Run() method
// runs all episodes of the experiment, and the RunEpisode() method runs
// a single episode.
type Experiment interface {
	Run() error

	// RunEpisode runs a single episode and returns whether or not the
	// experiment has finished
	RunEpisode() (bool, error)

	// Register adds a new Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t trackers.Tracker)

	// Tracks current timestep by sending it to Trackers
	track(ts.TimeStep)
}
