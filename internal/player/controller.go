// Package player orchestrates one course-learning session: it reacts to
// navigation, completion and quiz intents, issues at most one remote call per
// intent, and folds the returned progress deltas into the outline, ledger and
// reward queue atomically per event.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/p-n-ai/pai-learn/internal/course"
	"github.com/p-n-ai/pai-learn/internal/lms"
	"github.com/p-n-ai/pai-learn/internal/progress"
	"github.com/p-n-ai/pai-learn/internal/quiz"
	"github.com/p-n-ai/pai-learn/internal/reward"
)

// Direction selects lesson navigation.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Action is what the UI should offer for the active lesson.
type Action int

const (
	// ActionCompleted: lesson already completed, nothing to offer.
	ActionCompleted Action = iota
	// ActionTakeQuiz: the lesson has a quiz and no score yet; the quiz path
	// is the only way to complete it.
	ActionTakeQuiz
	// ActionMarkComplete: direct mark-complete is allowed.
	ActionMarkComplete
)

// Config holds dependencies for the controller.
type Config struct {
	Service lms.Service
	Events  EventLogger // defaults to NopEventLogger
}

// Controller owns the state of one learner working through one course.
// Mutating operations are single-in-flight: a second request while one is
// pending fails with ErrBusy.
type Controller struct {
	svc       lms.Service
	events    EventLogger
	learnerID string
	courseID  string

	mu      sync.Mutex
	busy    bool
	outline *course.Outline
	cursor  *course.Cursor
	ledger  *progress.Ledger
	session *quiz.Session
	rewards *reward.Queue
}

// LoadSession fetches the course, enrollment and profile and builds a ready
// controller. Returns lms.ErrNotEnrolled when the learner has no enrollment;
// the caller redirects to the course overview.
func LoadSession(ctx context.Context, cfg Config, courseID, learnerID string) (*Controller, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("player: service is required")
	}
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}

	wireCourse, err := cfg.Service.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("loading course %s: %w", courseID, err)
	}

	enrollment, err := cfg.Service.GetEnrollment(ctx, courseID, learnerID)
	if err != nil {
		return nil, fmt.Errorf("loading enrollment: %w", err)
	}

	profile, err := cfg.Service.GetProfile(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	outline, err := course.LoadOutline(wireCourse, learnerID, enrollment.CompletedLessonIDs)
	if err != nil {
		return nil, err
	}
	cursor, err := course.NewCursor(outline)
	if err != nil {
		return nil, err
	}

	ledger := progress.NewLedger(learnerID, profile.Points, profile.Level)
	ledger.Apply(courseID, enrollment.Progress)

	c := &Controller{
		svc:       cfg.Service,
		events:    events,
		learnerID: learnerID,
		courseID:  courseID,
		outline:   outline,
		cursor:    cursor,
		ledger:    ledger,
		session:   quiz.NewSession(),
		rewards:   reward.NewQueue(),
	}

	c.logEvent("session_loaded", map[string]any{
		"lessons":   outline.LessonCount(),
		"completed": outline.CompletedCount(learnerID),
	})
	slog.Info("course session loaded",
		"course_id", courseID,
		"learner_id", learnerID,
		"lessons", outline.LessonCount(),
	)

	return c, nil
}

// MarkLessonComplete records a completion change for a lesson. Completing an
// already-completed lesson is a no-op reported via Outcome.AlreadyCompleted
// with no remote call. On remote failure no local state changes.
func (c *Controller) MarkLessonComplete(ctx context.Context, lessonID string, completed bool) (Outcome, error) {
	if err := c.begin(); err != nil {
		return Outcome{}, err
	}
	defer c.end()

	return c.applyCompletion(ctx, lessonID, completed)
}

// applyCompletion is the shared completion path. Callers hold the busy flag.
func (c *Controller) applyCompletion(ctx context.Context, lessonID string, completed bool) (Outcome, error) {
	lesson, ok := c.outline.LessonByID(lessonID)
	if !ok {
		return Outcome{}, fmt.Errorf("lesson %s: %w", lessonID, lms.ErrNotFound)
	}

	if completed && lesson.CompletedBy(c.learnerID) {
		slog.Debug("lesson already completed", "lesson_id", lessonID)
		return Outcome{AlreadyCompleted: true}, nil
	}

	res, err := c.svc.PostLessonProgress(ctx, c.courseID, lessonID, completed)
	if err != nil {
		return Outcome{}, fmt.Errorf("posting lesson progress: %w", err)
	}

	// Fetch reward records before touching local state so a fetch failure
	// leaves the operation fully unapplied.
	var rewards []lms.Reward
	if len(res.AwardedRewardIDs) > 0 {
		rewards, err = c.svc.GetRewardsByIDs(ctx, res.AwardedRewardIDs)
		if err != nil {
			return Outcome{}, fmt.Errorf("fetching awarded rewards: %w", err)
		}
	}

	delta := c.ledger.Apply(c.courseID, res.Snapshot)
	if err := c.outline.ApplyCompletion(lessonID, completed, c.learnerID); err != nil {
		return Outcome{}, err
	}

	var out Outcome
	if completed && delta.PointsEarned > 0 {
		out.Notices = append(out.Notices, Notice{Kind: NoticePointsEarned, Points: delta.PointsEarned})
	}
	if delta.LevelUp {
		out.Notices = append(out.Notices, Notice{Kind: NoticeLevelUp, Level: delta.NewLevel})
	}
	if len(rewards) > 0 {
		c.rewards.Replace(rewards)
		out.Notices = append(out.Notices, Notice{Kind: NoticeReward, Reward: rewards[0]})
	}

	c.logEvent("lesson_progress", map[string]any{
		"lesson_id": lessonID,
		"completed": completed,
		"points":    c.ledger.Points(),
		"level":     c.ledger.Level(),
	})

	return out, nil
}

// StartQuiz creates an attempt for the active lesson's quiz. Repeat attempts
// at an already-graded quiz are rejected with ErrQuizAlreadyGraded.
func (c *Controller) StartQuiz(ctx context.Context, quizID string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	lesson := c.cursor.Lesson()
	if lesson.QuizID != quizID {
		return fmt.Errorf("quiz %s does not belong to lesson %s: %w", quizID, lesson.ID, lms.ErrNotFound)
	}
	if c.ledger.HasQuizScore(lesson.ID) {
		return fmt.Errorf("lesson %s: %w", lesson.ID, ErrQuizAlreadyGraded)
	}
	if c.session.State() != quiz.Idle {
		return fmt.Errorf("start in state %s: %w", c.session.State(), quiz.ErrInvalidTransition)
	}

	lessonID := lesson.ID
	att, err := c.svc.StartQuizAttempt(ctx, quizID)
	if err != nil {
		return fmt.Errorf("starting quiz attempt: %w", err)
	}

	// The response is only applied if its lesson context is still current.
	if c.cursor.Lesson().ID != lessonID {
		slog.Warn("discarding quiz attempt for inactive lesson",
			"lesson_id", lessonID, "attempt_id", att.AttemptID)
		return fmt.Errorf("attempt %s: %w", att.AttemptID, ErrStaleContext)
	}

	if err := c.session.Begin(quizID, lessonID, att); err != nil {
		return err
	}

	c.logEvent("quiz_started", map[string]any{
		"quiz_id":    quizID,
		"lesson_id":  lessonID,
		"attempt_id": att.AttemptID,
	})
	return nil
}

// RecordQuizAnswer upserts an answer in the open attempt.
func (c *Controller) RecordQuizAnswer(questionID, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.RecordAnswer(questionID, value)
}

// SubmitQuiz submits the complete answer set for grading, then completes the
// lesson the quiz belongs to. A grading failure rolls the session back to
// answering with answers preserved. A completion failure after a successful
// grade returns *CompletionPendingError: the score is recorded, the session
// is reset, and only MarkLessonComplete needs retrying.
func (c *Controller) SubmitQuiz(ctx context.Context) (Outcome, error) {
	if err := c.begin(); err != nil {
		return Outcome{}, err
	}
	defer c.end()

	if err := c.session.BeginSubmit(); err != nil {
		return Outcome{}, err
	}

	attemptID := c.session.AttemptID()
	lessonID := c.session.LessonID()

	grade, err := c.svc.SubmitQuizAttempt(ctx, attemptID, c.session.Answers())
	if err != nil {
		if rbErr := c.session.RollbackSubmit(); rbErr != nil {
			slog.Error("rollback after failed submission", "error", rbErr)
		}
		return Outcome{}, fmt.Errorf("submitting quiz attempt: %w", err)
	}

	if c.session.State() != quiz.Submitting || c.session.AttemptID() != attemptID {
		slog.Warn("discarding grade for superseded attempt", "attempt_id", attemptID)
		return Outcome{}, fmt.Errorf("attempt %s: %w", attemptID, ErrStaleContext)
	}
	if err := c.session.FinishGraded(grade.PercentageScore); err != nil {
		return Outcome{}, err
	}

	// The grade is server-side fact from here on; record it before anything
	// else can fail so it is never dropped.
	c.ledger.SetQuizScore(lessonID, grade.PercentageScore)

	out := Outcome{QuizGraded: true, QuizScore: grade.PercentageScore}

	completion, err := c.applyCompletion(ctx, lessonID, true)
	if err != nil {
		c.session.Cancel()
		c.logEvent("quiz_submitted", map[string]any{
			"lesson_id": lessonID, "score": grade.PercentageScore, "completion_pending": true,
		})
		return out, &CompletionPendingError{LessonID: lessonID, Score: grade.PercentageScore, Err: err}
	}
	out.Notices = append(out.Notices, completion.Notices...)

	if len(grade.AwardedRewardIDs) > 0 {
		rewards, err := c.svc.GetRewardsByIDs(ctx, grade.AwardedRewardIDs)
		if err != nil {
			// Grade and completion are already applied; degrade to a plain
			// score notice rather than failing the whole operation.
			slog.Warn("fetching quiz rewards failed", "error", err)
			out.Notices = append(out.Notices, Notice{Kind: NoticeQuizCompleted, Score: grade.PercentageScore})
		} else if len(rewards) > 0 {
			c.rewards.Replace(rewards)
			out.dropRewardNotices()
			out.Notices = append(out.Notices, Notice{Kind: NoticeReward, Reward: rewards[0]})
		}
	} else if !out.hasProgressNotice() {
		out.Notices = append(out.Notices, Notice{Kind: NoticeQuizCompleted, Score: grade.PercentageScore})
	}

	c.session.Cancel()

	c.logEvent("quiz_submitted", map[string]any{
		"lesson_id": lessonID,
		"score":     grade.PercentageScore,
		"passed":    quiz.Passing(grade.PercentageScore),
	})

	return out, nil
}

// Navigate moves the cursor one lesson forward or back. A successful move
// cancels any open quiz attempt without submitting it.
func (c *Controller) Navigate(dir Direction) (bool, error) {
	if err := c.begin(); err != nil {
		return false, err
	}
	defer c.end()

	var moved bool
	if dir == Next {
		moved = c.cursor.Next()
	} else {
		moved = c.cursor.Prev()
	}
	if moved {
		c.cancelOpenAttempt()
	}
	return moved, nil
}

// JumpTo moves the cursor directly to (unitIndex, lessonIndex). Out-of-range
// indices return false with no mutation.
func (c *Controller) JumpTo(unitIndex, lessonIndex int) (bool, error) {
	if err := c.begin(); err != nil {
		return false, err
	}
	defer c.end()

	moved := c.cursor.JumpTo(unitIndex, lessonIndex)
	if moved {
		c.cancelOpenAttempt()
	}
	return moved, nil
}

// CancelQuiz discards the open attempt without grading.
func (c *Controller) CancelQuiz() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelOpenAttempt()
}

// LessonAction decides what the UI offers for the active lesson, in strict
// precedence: completed beats quiz-required beats direct mark-complete.
func (c *Controller) LessonAction() Action {
	c.mu.Lock()
	defer c.mu.Unlock()

	lesson := c.cursor.Lesson()
	switch {
	case lesson.CompletedBy(c.learnerID):
		return ActionCompleted
	case lesson.HasQuiz() && !c.ledger.HasQuizScore(lesson.ID):
		return ActionTakeQuiz
	default:
		return ActionMarkComplete
	}
}

// ActiveLesson returns the lesson under the cursor.
func (c *Controller) ActiveLesson() *course.Lesson {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.Lesson()
}

// Position returns the cursor's (unit, lesson) indices.
func (c *Controller) Position() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.Position()
}

// CourseID returns the loaded course.
func (c *Controller) CourseID() string { return c.courseID }

// LearnerID returns the learner this session belongs to.
func (c *Controller) LearnerID() string { return c.learnerID }

// Outline returns the loaded outline.
func (c *Controller) Outline() *course.Outline { return c.outline }

// Ledger returns the session ledger.
func (c *Controller) Ledger() *progress.Ledger { return c.ledger }

// Points returns the learner's current points balance.
func (c *Controller) Points() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Points()
}

// Level returns the learner's current level.
func (c *Controller) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Level()
}

// ProgressPercentage returns the last server-reported completion percentage.
func (c *Controller) ProgressPercentage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.ProgressPercentage(c.courseID)
}

// HasQuizScore reports whether a score is recorded for the lesson.
func (c *Controller) HasQuizScore(lessonID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.HasQuizScore(lessonID)
}

// QuizScore returns the recorded score for the lesson, if any.
func (c *Controller) QuizScore(lessonID string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.QuizScore(lessonID)
}

// QuizState returns the attempt session's lifecycle state.
func (c *Controller) QuizState() quiz.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State()
}

// QuizQuestions returns the open attempt's question set.
func (c *Controller) QuizQuestions() []quiz.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Questions()
}

// NextReward pops the next reward to present, front-to-back.
func (c *Controller) NextReward() (lms.Reward, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rewards.Next()
	if ok {
		c.logEvent("reward_presented", map[string]any{"reward_id": r.ID})
	}
	return r, ok
}

// PendingRewards returns how many rewards remain queued.
func (c *Controller) PendingRewards() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rewards.Len()
}

func (c *Controller) cancelOpenAttempt() {
	if c.session.State() == quiz.Idle {
		return
	}
	slog.Info("cancelling open quiz attempt",
		"attempt_id", c.session.AttemptID(),
		"lesson_id", c.session.LessonID(),
	)
	c.session.Cancel()
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) logEvent(eventType string, data map[string]any) {
	err := c.events.LogEvent(Event{
		LearnerID: c.learnerID,
		CourseID:  c.courseID,
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		slog.Error("failed to log event", "type", eventType, "error", err)
	}
}
