package worklist

import (
	"context"
	"testing"
	"time"
)

func TestAnalyzerRun_EmitsEverySnapshot(t *testing.T) {
	a := NewAnalyzer(80*time.Millisecond, 40)

	var snapshots []Progress
	for p := range a.Run(context.Background(), "ST001") {
		snapshots = append(snapshots, p)
	}

	if len(snapshots) != 41 {
		t.Fatalf("expected 41 snapshots (steps 0..40), got %d", len(snapshots))
	}
	for i, p := range snapshots {
		if p.Step != i {
			t.Fatalf("snapshot %d has step %d, steps must not be skipped", i, p.Step)
		}
		if p.StudyID != "ST001" {
			t.Errorf("snapshot %d carries study %q", i, p.StudyID)
		}
		want := float64(i) / 40 * 100
		if p.Percent != want {
			t.Errorf("snapshot %d percent = %v, want %v", i, p.Percent, want)
		}
	}
	if snapshots[0].Percent != 0 {
		t.Error("first snapshot must be 0%")
	}
	last := snapshots[len(snapshots)-1]
	if last.Percent != 100 || !last.Done() {
		t.Errorf("final snapshot must be done at 100%%, got %+v", last)
	}
}

func TestAnalyzerRun_MonotonicPercent(t *testing.T) {
	a := NewAnalyzer(20*time.Millisecond, 10)

	prev := -1.0
	for p := range a.Run(context.Background(), "ST002") {
		if p.Percent <= prev {
			t.Fatalf("percent went from %v to %v, must be strictly increasing", prev, p.Percent)
		}
		prev = p.Percent
	}
}

func TestAnalyzerRun_CancelStopsEarly(t *testing.T) {
	a := NewAnalyzer(time.Hour, 40)

	ctx, cancel := context.WithCancel(context.Background())
	ch := a.Run(ctx, "ST003")
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return // closed without reaching completion
			}
		case <-deadline:
			t.Fatal("channel not closed after cancellation")
		}
	}
}

func TestNewAnalyzer_ClampsStepCount(t *testing.T) {
	a := NewAnalyzer(time.Millisecond, 0)
	if a.Steps() != 1 {
		t.Errorf("expected step count clamped to 1, got %d", a.Steps())
	}
}
