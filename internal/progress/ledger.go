// Package progress keeps the learner's session scorekeeping: the
// server-reported points/level/percentage ledger and the per-lesson quiz
// score book. Nothing here is computed client-side; the ledger only applies
// snapshots the service returned.
package progress

import (
	"log/slog"

	"github.com/p-n-ai/pai-learn/internal/lms"
)

// Delta describes what changed when a snapshot was applied, for the
// presentation layer to turn into notices.
type Delta struct {
	PointsEarned int
	LevelUp      bool
	NewLevel     int
}

// Ledger holds the learner's current gamification state for one session.
type Ledger struct {
	learnerID  string
	points     int
	level      int
	percentage map[string]int     // course ID -> progress percentage
	quizScores map[string]float64 // lesson ID -> percentage score
}

// NewLedger seeds a ledger from the learner's profile. Points are floored at
// zero and level at one.
func NewLedger(learnerID string, points, level int) *Ledger {
	if points < 0 {
		points = 0
	}
	if level < 1 {
		level = 1
	}
	return &Ledger{
		learnerID:  learnerID,
		points:     points,
		level:      level,
		percentage: make(map[string]int),
		quizScores: make(map[string]float64),
	}
}

// Apply folds a server snapshot into the ledger and reports the delta.
// Points and level are monotonically non-decreasing within a session; a
// decrease is a server anomaly and is ignored (logged, state kept).
func (g *Ledger) Apply(courseID string, snap lms.ProgressSnapshot) Delta {
	var d Delta

	if snap.Points < g.points || snap.Level < g.level {
		slog.Warn("snapshot reports decreased points or level, keeping current values",
			"learner_id", g.learnerID,
			"points", g.points, "snapshot_points", snap.Points,
			"level", g.level, "snapshot_level", snap.Level,
		)
	}
	if snap.Points > g.points {
		d.PointsEarned = snap.Points - g.points
		g.points = snap.Points
	}
	if snap.Level > g.level {
		d.LevelUp = true
		g.level = snap.Level
	}
	d.NewLevel = g.level

	g.percentage[courseID] = clampPercentage(snap.ProgressPercentage)

	return d
}

// LearnerID returns the learner this ledger belongs to.
func (g *Ledger) LearnerID() string { return g.learnerID }

// Points returns the current points balance.
func (g *Ledger) Points() int { return g.points }

// Level returns the current level.
func (g *Ledger) Level() int { return g.level }

// ProgressPercentage returns the last server-reported percentage for the
// course, zero if none has been applied yet.
func (g *Ledger) ProgressPercentage(courseID string) int {
	return g.percentage[courseID]
}

// SetQuizScore records a graded quiz score keyed by lesson.
func (g *Ledger) SetQuizScore(lessonID string, score float64) {
	g.quizScores[lessonID] = score
}

// QuizScore returns the recorded score for a lesson, if any.
func (g *Ledger) QuizScore(lessonID string) (float64, bool) {
	s, ok := g.quizScores[lessonID]
	return s, ok
}

// HasQuizScore reports whether a graded score exists for the lesson.
func (g *Ledger) HasQuizScore(lessonID string) bool {
	_, ok := g.quizScores[lessonID]
	return ok
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
