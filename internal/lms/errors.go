package lms

import "errors"

var (
	// ErrNotFound signals an absent or malformed course/lesson/quiz resource.
	ErrNotFound = errors.New("lms: not found")

	// ErrNotEnrolled signals the learner has no enrollment for the course.
	ErrNotEnrolled = errors.New("lms: not enrolled")

	// ErrRemoteUnavailable signals a network or service failure. The
	// operation left no local trace and may be retried as-is.
	ErrRemoteUnavailable = errors.New("lms: service unavailable")
)
