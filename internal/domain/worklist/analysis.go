package worklist

import (
	"context"
	"time"
)

// Progress is one snapshot of a running analysis. Consumers observe a
// strictly increasing sequence of Percent values from 0 to 100 with no
// skipped steps.
type Progress struct {
	StudyID string  `json:"studyId"`
	Step    int     `json:"step"`
	Steps   int     `json:"steps"`
	Percent float64 `json:"percent"`
}

// Done reports whether this is the final snapshot of the run.
func (p Progress) Done() bool {
	return p.Step == p.Steps
}

// Analyzer simulates the AI analysis pass: a fixed number of evenly spaced
// progress steps over a fixed wall-clock duration. There is no model here;
// the findings attached afterwards are canned batches.
type Analyzer struct {
	duration time.Duration
	steps    int
}

// NewAnalyzer creates an Analyzer emitting steps+1 snapshots (0..steps)
// spread over duration.
func NewAnalyzer(duration time.Duration, steps int) *Analyzer {
	if steps < 1 {
		steps = 1
	}
	return &Analyzer{duration: duration, steps: steps}
}

// Steps returns the configured step count.
func (a *Analyzer) Steps() int {
	return a.steps
}

// Run starts the simulation for studyID and returns the snapshot channel.
// Snapshots arrive in order, one per interval; the channel is closed after
// the final snapshot, or early when ctx is cancelled. Cancellation is the
// only way to stop a run before completion.
func (a *Analyzer) Run(ctx context.Context, studyID string) <-chan Progress {
	out := make(chan Progress, a.steps+1)
	interval := a.duration / time.Duration(a.steps)

	go func() {
		defer close(out)

		ticker := time.NewTicker(maxDuration(interval, time.Millisecond))
		defer ticker.Stop()

		for step := 0; step <= a.steps; step++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			snapshot := Progress{
				StudyID: studyID,
				Step:    step,
				Steps:   a.steps,
				Percent: float64(step) / float64(a.steps) * 100,
			}
			select {
			case <-ctx.Done():
				return
			case out <- snapshot:
			}
		}
	}()

	return out
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
