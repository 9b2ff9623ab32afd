package environment

import "github.com/samuelfneumann/simpleenv/timestep"

// CutoffKey is the TimeStep.Info key set by StepLimit when it truncates
// an episode that has not reached a terminal state
const CutoffKey = "cutoff"

// StepLimit implements the Ender interface to truncate episodes after a
// fixed number of steps
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit(episodeSteps int) StepLimit {
	return StepLimit{episodeSteps}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. A timestep that
// is already the last of its episode is left untouched. Otherwise, if
// the step limit has been reached, End() sets the StepType to
// timestep.Last and marks the truncation under CutoffKey in the Info map.
func (s StepLimit) End(t *timestep.TimeStep) bool {
	if t.Last() {
		return true
	}
	if s.episodeSteps > 0 && t.Number >= s.episodeSteps {
		t.StepType = timestep.Last
		if t.Info == nil {
			t.Info = map[string]interface{}{}
		}
		t.Info[CutoffKey] = true
		return true
	}
	return false
}

// Limit returns the maximum number of steps in an episode, 0 meaning
// that episodes are never truncated
func (s StepLimit) Limit() int {
	return s.episodeSteps
}
