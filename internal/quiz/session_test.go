package quiz_test

import (
	"errors"
	"testing"

	"github.com/p-n-ai/pai-learn/internal/lms"
	"github.com/p-n-ai/pai-learn/internal/quiz"
)

func twoQuestionAttempt() lms.Attempt {
	return lms.Attempt{
		AttemptID: "att-1",
		Questions: []lms.Question{
			{ID: "q1", Text: "2+2?", Type: "multiple-choice", Options: []string{"3", "4"}},
			{ID: "q2", Text: "Is the sky blue?", Type: "true-false"},
		},
	}
}

func startedSession(t *testing.T) *quiz.Session {
	t.Helper()
	s := quiz.NewSession()
	if err := s.Begin("quiz-1", "lesson-1", twoQuestionAttempt()); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	return s
}

func TestBegin(t *testing.T) {
	s := startedSession(t)

	if s.State() != quiz.Started {
		t.Errorf("State() = %v, want Started", s.State())
	}
	if s.QuizID() != "quiz-1" || s.LessonID() != "lesson-1" || s.AttemptID() != "att-1" {
		t.Errorf("session identity = (%s, %s, %s)", s.QuizID(), s.LessonID(), s.AttemptID())
	}

	qs := s.Questions()
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	// True/false questions get canonical options.
	if got := qs[1].Options; len(got) != 2 || got[0] != "true" || got[1] != "false" {
		t.Errorf("true-false options = %v, want [true false]", got)
	}
}

func TestBeginRejectsBadAttempts(t *testing.T) {
	tests := []struct {
		name    string
		attempt lms.Attempt
	}{
		{"no attempt id", lms.Attempt{Questions: twoQuestionAttempt().Questions}},
		{"no questions", lms.Attempt{AttemptID: "att-1"}},
		{
			"question without id",
			lms.Attempt{AttemptID: "att-1", Questions: []lms.Question{{Type: "true-false"}}},
		},
		{
			"unrecognized question type",
			lms.Attempt{AttemptID: "att-1", Questions: []lms.Question{{ID: "q1", Type: "essay"}}},
		},
		{
			"multiple-choice with one option",
			lms.Attempt{AttemptID: "att-1", Questions: []lms.Question{
				{ID: "q1", Type: "multiple-choice", Options: []string{"only"}},
			}},
		},
		{
			"duplicate question ids",
			lms.Attempt{AttemptID: "att-1", Questions: []lms.Question{
				{ID: "q1", Type: "true-false"},
				{ID: "q1", Type: "true-false"},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := quiz.NewSession()
			if err := s.Begin("quiz-1", "lesson-1", tt.attempt); err == nil {
				t.Fatal("Begin() error = nil, want error")
			}
			if s.State() != quiz.Idle {
				t.Errorf("State() after failed Begin = %v, want Idle", s.State())
			}
		})
	}
}

func TestBeginTwiceRejected(t *testing.T) {
	s := startedSession(t)
	err := s.Begin("quiz-2", "lesson-2", twoQuestionAttempt())
	if !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Errorf("second Begin() error = %v, want ErrInvalidTransition", err)
	}
}

func TestRecordAnswer(t *testing.T) {
	s := startedSession(t)

	if err := s.RecordAnswer("q1", "4"); err != nil {
		t.Fatalf("RecordAnswer() error = %v", err)
	}
	if s.State() != quiz.Answering {
		t.Errorf("State() = %v, want Answering", s.State())
	}

	// Re-answering overwrites, count stays.
	if err := s.RecordAnswer("q1", "3"); err != nil {
		t.Fatalf("RecordAnswer() overwrite error = %v", err)
	}
	if s.AnswerCount() != 1 {
		t.Errorf("AnswerCount() = %d, want 1", s.AnswerCount())
	}

	if err := s.RecordAnswer("bogus", "x"); !errors.Is(err, quiz.ErrUnknownQuestion) {
		t.Errorf("RecordAnswer(bogus) error = %v, want ErrUnknownQuestion", err)
	}
}

func TestSubmitRequiresAllAnswers(t *testing.T) {
	s := startedSession(t)
	if err := s.RecordAnswer("q1", "4"); err != nil {
		t.Fatalf("RecordAnswer() error = %v", err)
	}

	err := s.BeginSubmit()
	if !errors.Is(err, quiz.ErrIncompleteAnswers) {
		t.Fatalf("BeginSubmit() error = %v, want ErrIncompleteAnswers", err)
	}
	if s.State() != quiz.Answering {
		t.Errorf("State() = %v, want Answering", s.State())
	}

	if err := s.RecordAnswer("q2", "true"); err != nil {
		t.Fatalf("RecordAnswer() error = %v", err)
	}
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit() error = %v", err)
	}
	if s.State() != quiz.Submitting {
		t.Errorf("State() = %v, want Submitting", s.State())
	}
}

func TestRollbackPreservesAnswers(t *testing.T) {
	s := startedSession(t)
	s.RecordAnswer("q1", "4")
	s.RecordAnswer("q2", "true")
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit() error = %v", err)
	}

	if err := s.RollbackSubmit(); err != nil {
		t.Fatalf("RollbackSubmit() error = %v", err)
	}
	if s.State() != quiz.Answering {
		t.Errorf("State() = %v, want Answering", s.State())
	}
	if s.AnswerCount() != 2 {
		t.Errorf("AnswerCount() = %d, want 2 (answers kept)", s.AnswerCount())
	}

	// The learner can immediately retry.
	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit() after rollback error = %v", err)
	}
	if err := s.FinishGraded(85); err != nil {
		t.Fatalf("FinishGraded() error = %v", err)
	}
	if s.State() != quiz.Graded || s.Score() != 85 {
		t.Errorf("session = (%v, %v), want (Graded, 85)", s.State(), s.Score())
	}
}

func TestAnswersInQuestionOrder(t *testing.T) {
	s := startedSession(t)
	s.RecordAnswer("q2", "true")
	s.RecordAnswer("q1", "4")

	answers := s.Answers()
	if len(answers) != 2 {
		t.Fatalf("got %d answers, want 2", len(answers))
	}
	if answers[0].QuestionID != "q1" || answers[1].QuestionID != "q2" {
		t.Errorf("answer order = [%s %s], want [q1 q2]", answers[0].QuestionID, answers[1].QuestionID)
	}
}

func TestCancelFromAnyState(t *testing.T) {
	s := startedSession(t)
	s.RecordAnswer("q1", "4")
	s.Cancel()

	if s.State() != quiz.Idle {
		t.Errorf("State() = %v, want Idle", s.State())
	}
	if s.AttemptID() != "" || s.AnswerCount() != 0 {
		t.Error("Cancel() should clear attempt state")
	}

	// The session is reusable.
	if err := s.Begin("quiz-1", "lesson-1", twoQuestionAttempt()); err != nil {
		t.Fatalf("Begin() after Cancel error = %v", err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	s := quiz.NewSession()

	if err := s.RecordAnswer("q1", "4"); !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Errorf("RecordAnswer() while idle error = %v, want ErrInvalidTransition", err)
	}
	if err := s.BeginSubmit(); !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Errorf("BeginSubmit() while idle error = %v, want ErrInvalidTransition", err)
	}
	if err := s.RollbackSubmit(); !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Errorf("RollbackSubmit() while idle error = %v, want ErrInvalidTransition", err)
	}
	if err := s.FinishGraded(50); !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Errorf("FinishGraded() while idle error = %v, want ErrInvalidTransition", err)
	}
}

func TestPassing(t *testing.T) {
	tests := []struct {
		score float64
		want  bool
	}{
		{69.9, false},
		{70, true},
		{100, true},
		{0, false},
	}
	for _, tt := range tests {
		if got := quiz.Passing(tt.score); got != tt.want {
			t.Errorf("Passing(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
