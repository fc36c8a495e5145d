package slurm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Job records one attempt to submit a script.
type Job struct {
	Script    string `yaml:"script"`
	ID        string `yaml:"id,omitempty"`
	Submitted string `yaml:"submitted"`
	Error     string `yaml:"error,omitempty"`
}

// Ledger is the list of every submission attempt made for a simulation.
type Ledger struct {
	Jobs []Job `yaml:"jobs"`
}

// ReadLedger reads a ledger file. A missing file is an empty Ledger.
func ReadLedger(fname string) (*Ledger, error) {
	l := &Ledger{Jobs: []Job{}}
	data, err := os.ReadFile(fname)
	if os.IsNotExist(err) {
		return l, nil
	} else if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("Could not parse job ledger %s: %s",
			fname, err.Error())
	}
	return l, nil
}

// Write writes the ledger to fname.
func (l *Ledger) Write(fname string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(fname, data, 0644)
}

// Add appends a job to the ledger.
func (l *Ledger) Add(job Job) { l.Jobs = append(l.Jobs, job) }

// Latest returns the most recent record for each script, in the order that
// the scripts were first submitted.
func (l *Ledger) Latest() []Job {
	idx := map[string]int{}
	out := []Job{}
	for _, job := range l.Jobs {
		if i, ok := idx[job.Script]; ok {
			out[i] = job
		} else {
			idx[job.Script] = len(out)
			out = append(out, job)
		}
	}
	return out
}

// Failed returns the scripts whose most recent submission failed.
func (l *Ledger) Failed() []string {
	failed := []string{}
	for _, job := range l.Latest() {
		if job.Error != "" {
			failed = append(failed, job.Script)
		}
	}
	return failed
}
