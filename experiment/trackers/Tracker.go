// Package trackers implements Trackers, which track data generated
// during an experiment and optionally save it to disk
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/samuelfneumann/simpleenv/timestep"
)

// Tracker keeps track of experiment data. Data() returns the data
// collected so far, one entry per finished episode.
type Tracker interface {
	Track(t ts.TimeStep)
	Data() []float64
}

// Save saves the data collected by a Tracker to disk with gob encoding
func Save(t Tracker, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(t.Data()); err != nil {
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return nil
}

// LoadData loads and returns the data saved by Save
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64
	if err = dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}

	return data, nil
}
