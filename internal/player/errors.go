package player

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy rejects a second mutating operation while one is in flight.
	// The caller should disable its controls and retry after the pending
	// operation settles.
	ErrBusy = errors.New("player: operation already in flight")

	// ErrQuizAlreadyGraded rejects a repeat attempt at a quiz that already
	// has a recorded score this session.
	ErrQuizAlreadyGraded = errors.New("player: quiz already graded")

	// ErrStaleContext marks a remote response that arrived for a lesson or
	// attempt that is no longer active. The response is discarded, not
	// applied.
	ErrStaleContext = errors.New("player: stale response context")
)

// CompletionPendingError reports the split-failure window in quiz
// submission: the attempt was graded server-side but the follow-up lesson
// completion call failed. The score is already recorded locally; the caller
// should retry MarkLessonComplete alone, not resubmit the quiz.
type CompletionPendingError struct {
	LessonID string
	Score    float64
	Err      error
}

func (e *CompletionPendingError) Error() string {
	return fmt.Sprintf("quiz graded (%.1f%%) but completion of lesson %s is pending: %v", e.Score, e.LessonID, e.Err)
}

func (e *CompletionPendingError) Unwrap() error {
	return e.Err
}
