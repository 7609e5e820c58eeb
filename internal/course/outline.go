// Package course holds the in-memory outline of a loaded course and the
// cursor over its lessons. An outline lives for one course-learning session:
// it is built once from the remote payload, mutated only by completion-change
// events for the current learner, and thrown away on navigation to another
// course.
package course

import (
	"fmt"
	"time"

	"github.com/p-n-ai/pai-learn/internal/lms"
)

// Lesson is one piece of course content with per-learner completion state.
type Lesson struct {
	ID              string
	Title           string
	Content         string
	Resources       []string
	QuizID          string
	DurationMinutes int

	// completedBy maps learner ID to the client-advisory completion time.
	// Advisory only: never used for ordering or eligibility decisions.
	completedBy map[string]time.Time
}

// CompletedBy reports whether the given learner has completed the lesson.
func (l *Lesson) CompletedBy(learnerID string) bool {
	_, ok := l.completedBy[learnerID]
	return ok
}

// CompletedAt returns the completion time recorded for the learner, if any.
func (l *Lesson) CompletedAt(learnerID string) (time.Time, bool) {
	t, ok := l.completedBy[learnerID]
	return t, ok
}

// HasQuiz reports whether the lesson has an associated quiz.
func (l *Lesson) HasQuiz() bool {
	return l.QuizID != ""
}

// Unit is an ordered group of lessons.
type Unit struct {
	ID      string
	Title   string
	Lessons []*Lesson
}

type position struct {
	unit   int
	lesson int
}

// Outline is the unit/lesson tree of one loaded course. Unit and lesson
// ordering is fixed for the lifetime of the outline.
type Outline struct {
	CourseID string
	Title    string
	Units    []*Unit

	byID map[string]position
}

// LoadOutline builds an outline from the course payload, marking the given
// lessons completed for the learner. A payload with no addressable lesson is
// malformed: the cursor must always point at something.
func LoadOutline(c lms.Course, learnerID string, completedLessonIDs []string) (*Outline, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("course payload has no id: %w", lms.ErrNotFound)
	}

	o := &Outline{
		CourseID: c.ID,
		Title:    c.Title,
		byID:     make(map[string]position),
	}

	lessonCount := 0
	for ui, wu := range c.Units {
		unit := &Unit{ID: wu.ID, Title: wu.Title}
		for li, wl := range wu.Lessons {
			if wl.ID == "" {
				return nil, fmt.Errorf("course %s: unit %s has a lesson without id: %w", c.ID, wu.ID, lms.ErrNotFound)
			}
			if _, dup := o.byID[wl.ID]; dup {
				return nil, fmt.Errorf("course %s: duplicate lesson id %s: %w", c.ID, wl.ID, lms.ErrNotFound)
			}
			lesson := &Lesson{
				ID:              wl.ID,
				Title:           wl.Title,
				Content:         wl.Content,
				Resources:       append([]string{}, wl.Resources...),
				QuizID:          wl.QuizID,
				DurationMinutes: wl.DurationMinutes,
				completedBy:     make(map[string]time.Time),
			}
			unit.Lessons = append(unit.Lessons, lesson)
			o.byID[wl.ID] = position{unit: ui, lesson: li}
			lessonCount++
		}
		o.Units = append(o.Units, unit)
	}

	if lessonCount == 0 {
		return nil, fmt.Errorf("course %s has no lessons: %w", c.ID, lms.ErrNotFound)
	}

	now := time.Now()
	for _, id := range completedLessonIDs {
		if pos, ok := o.byID[id]; ok {
			o.Units[pos.unit].Lessons[pos.lesson].completedBy[learnerID] = now
		}
	}

	return o, nil
}

// ApplyCompletion toggles completion membership for the learner. Idempotent:
// re-applying the current state is a successful no-op.
func (o *Outline) ApplyCompletion(lessonID string, completed bool, learnerID string) error {
	pos, ok := o.byID[lessonID]
	if !ok {
		return fmt.Errorf("lesson %s: %w", lessonID, lms.ErrNotFound)
	}
	lesson := o.Units[pos.unit].Lessons[pos.lesson]

	if completed {
		if _, done := lesson.completedBy[learnerID]; !done {
			lesson.completedBy[learnerID] = time.Now()
		}
	} else {
		delete(lesson.completedBy, learnerID)
	}
	return nil
}

// FindLesson returns the lesson at the given indices.
func (o *Outline) FindLesson(unitIndex, lessonIndex int) (*Lesson, bool) {
	if unitIndex < 0 || unitIndex >= len(o.Units) {
		return nil, false
	}
	unit := o.Units[unitIndex]
	if lessonIndex < 0 || lessonIndex >= len(unit.Lessons) {
		return nil, false
	}
	return unit.Lessons[lessonIndex], true
}

// LessonByID returns the lesson with the given ID.
func (o *Outline) LessonByID(lessonID string) (*Lesson, bool) {
	pos, ok := o.byID[lessonID]
	if !ok {
		return nil, false
	}
	return o.Units[pos.unit].Lessons[pos.lesson], true
}

// TotalDurationMinutes sums the lesson durations. Display only.
func (o *Outline) TotalDurationMinutes() int {
	total := 0
	for _, u := range o.Units {
		for _, l := range u.Lessons {
			total += l.DurationMinutes
		}
	}
	return total
}

// LessonCount returns the number of lessons across all units.
func (o *Outline) LessonCount() int {
	return len(o.byID)
}

// CompletedCount returns how many lessons the learner has completed.
func (o *Outline) CompletedCount(learnerID string) int {
	n := 0
	for _, u := range o.Units {
		for _, l := range u.Lessons {
			if l.CompletedBy(learnerID) {
				n++
			}
		}
	}
	return n
}
