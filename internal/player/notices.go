package player

import "github.com/p-n-ai/pai-learn/internal/lms"

// NoticeKind discriminates the notices an operation can produce.
type NoticeKind int

const (
	// NoticePointsEarned reports a points increase; Points carries the delta.
	NoticePointsEarned NoticeKind = iota
	// NoticeLevelUp reports a level increase; Level carries the new level.
	NoticeLevelUp
	// NoticeQuizCompleted reports a graded quiz with no other fanfare; Score
	// carries the percentage.
	NoticeQuizCompleted
	// NoticeReward surfaces the first reward of a fresh award event.
	NoticeReward
)

// Notice describes one thing the presentation layer should tell the learner.
// Pure data: rendering lives in the notify package.
type Notice struct {
	Kind   NoticeKind
	Points int
	Level  int
	Score  float64
	Reward lms.Reward
}

// Outcome describes everything observable that one controller operation did.
type Outcome struct {
	// AlreadyCompleted is set when a completion request was a no-op because
	// the lesson was already completed. Informational, not an error.
	AlreadyCompleted bool
	// QuizGraded is set when the operation graded a quiz; QuizScore holds
	// the percentage score.
	QuizGraded bool
	QuizScore  float64

	Notices []Notice
}

func (o *Outcome) hasProgressNotice() bool {
	for _, n := range o.Notices {
		if n.Kind == NoticePointsEarned || n.Kind == NoticeLevelUp {
			return true
		}
	}
	return false
}

// dropRewardNotices removes reward notices, used when a later award event in
// the same operation replaces the queue.
func (o *Outcome) dropRewardNotices() {
	kept := o.Notices[:0]
	for _, n := range o.Notices {
		if n.Kind != NoticeReward {
			kept = append(kept, n)
		}
	}
	o.Notices = kept
}
