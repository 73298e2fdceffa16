package worklist

import (
	"context"
	"errors"
)

// ErrStudyNotFound is returned by repository lookups for unknown ids.
var ErrStudyNotFound = errors.New("study not found")

// StudyRepository is the catalog backing store. Implementations must
// preserve insertion order: List returns studies front to back, Insert
// places a study at the front (newest uploads first), and Replace swaps
// the whole catalog for the given rows.
type StudyRepository interface {
	List(ctx context.Context) ([]*Study, error)
	Get(ctx context.Context, id string) (*Study, error)
	Insert(ctx context.Context, s *Study) error
	Update(ctx context.Context, s *Study) error
	Replace(ctx context.Context, studies []*Study) error
	// FindPrior returns another study for the same patient, excluding
	// excludeID, or ErrStudyNotFound when none exists.
	FindPrior(ctx context.Context, patientID, excludeID string) (*Study, error)
}
