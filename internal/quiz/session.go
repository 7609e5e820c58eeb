// Package quiz implements the lifecycle of a single server-graded quiz
// attempt. The session is a small state machine; the controller drives the
// transitions around the remote calls, grading itself stays on the server.
package quiz

import (
	"errors"
	"fmt"

	"github.com/p-n-ai/pai-learn/internal/lms"
)

// State is the attempt lifecycle position.
type State int

const (
	Idle State = iota
	Started
	Answering
	Submitting
	Graded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Started:
		return "started"
	case Answering:
		return "answering"
	case Submitting:
		return "submitting"
	case Graded:
		return "graded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PassingScore is the pass/fail display threshold. Presentation only; no
// transition depends on it.
const PassingScore = 70.0

var (
	// ErrIncompleteAnswers rejects submission before every question has an
	// answer. Resolved locally, never reaches the service.
	ErrIncompleteAnswers = errors.New("quiz: not all questions answered")

	// ErrInvalidTransition rejects an operation in the wrong state.
	ErrInvalidTransition = errors.New("quiz: invalid state transition")

	// ErrUnknownQuestion rejects an answer for a question not in the attempt.
	ErrUnknownQuestion = errors.New("quiz: unknown question")
)

// Session manages one quiz attempt. The zero value is not usable; create
// with NewSession.
type Session struct {
	state     State
	quizID    string
	lessonID  string
	attemptID string
	questions []Question
	answers   map[string]string
	score     float64
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{answers: make(map[string]string)}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// QuizID returns the quiz under attempt, empty when idle.
func (s *Session) QuizID() string { return s.quizID }

// LessonID returns the lesson the attempt belongs to, empty when idle.
func (s *Session) LessonID() string { return s.lessonID }

// AttemptID returns the server-issued attempt ID, empty when idle.
func (s *Session) AttemptID() string { return s.attemptID }

// Questions returns the ordered question set.
func (s *Session) Questions() []Question {
	return append([]Question{}, s.questions...)
}

// Score returns the graded percentage score. Valid only in Graded.
func (s *Session) Score() float64 { return s.score }

// Begin moves Idle -> Started with the attempt the service created. The wire
// questions are validated here; a bad question set leaves the session idle.
func (s *Session) Begin(quizID, lessonID string, att lms.Attempt) error {
	if s.state != Idle {
		return fmt.Errorf("begin in state %s: %w", s.state, ErrInvalidTransition)
	}
	if att.AttemptID == "" {
		return fmt.Errorf("attempt has no id")
	}
	questions, err := DecodeQuestions(att.Questions)
	if err != nil {
		return fmt.Errorf("attempt %s: %w", att.AttemptID, err)
	}

	s.state = Started
	s.quizID = quizID
	s.lessonID = lessonID
	s.attemptID = att.AttemptID
	s.questions = questions
	s.answers = make(map[string]string)
	s.score = 0
	return nil
}

// RecordAnswer upserts the learner's answer for a question. One answer per
// question; re-answering overwrites.
func (s *Session) RecordAnswer(questionID, value string) error {
	if s.state != Started && s.state != Answering {
		return fmt.Errorf("answer in state %s: %w", s.state, ErrInvalidTransition)
	}
	if !s.hasQuestion(questionID) {
		return fmt.Errorf("question %s: %w", questionID, ErrUnknownQuestion)
	}
	s.answers[questionID] = value
	s.state = Answering
	return nil
}

// AnswerCount returns how many questions have an answer recorded.
func (s *Session) AnswerCount() int { return len(s.answers) }

// Complete reports whether every question has an answer.
func (s *Session) Complete() bool {
	for _, q := range s.questions {
		if _, ok := s.answers[q.ID]; !ok {
			return false
		}
	}
	return len(s.questions) > 0
}

// BeginSubmit moves Answering -> Submitting. No partial submission: every
// question must have an answer.
func (s *Session) BeginSubmit() error {
	if s.state != Answering {
		return fmt.Errorf("submit in state %s: %w", s.state, ErrInvalidTransition)
	}
	if !s.Complete() {
		return fmt.Errorf("%d of %d answered: %w", len(s.answers), len(s.questions), ErrIncompleteAnswers)
	}
	s.state = Submitting
	return nil
}

// RollbackSubmit moves Submitting -> Answering after a remote failure,
// preserving answers so the learner can retry.
func (s *Session) RollbackSubmit() error {
	if s.state != Submitting {
		return fmt.Errorf("rollback in state %s: %w", s.state, ErrInvalidTransition)
	}
	s.state = Answering
	return nil
}

// FinishGraded moves Submitting -> Graded. The session is immutable after.
func (s *Session) FinishGraded(percentageScore float64) error {
	if s.state != Submitting {
		return fmt.Errorf("grade in state %s: %w", s.state, ErrInvalidTransition)
	}
	s.state = Graded
	s.score = percentageScore
	return nil
}

// Answers returns the answers in question order, ready for submission.
func (s *Session) Answers() []lms.QuizAnswer {
	answers := make([]lms.QuizAnswer, 0, len(s.answers))
	for _, q := range s.questions {
		if v, ok := s.answers[q.ID]; ok {
			answers = append(answers, lms.QuizAnswer{QuestionID: q.ID, SelectedAnswer: v})
		}
	}
	return answers
}

// Cancel discards the attempt from any state without grading and returns the
// session to Idle.
func (s *Session) Cancel() {
	s.state = Idle
	s.quizID = ""
	s.lessonID = ""
	s.attemptID = ""
	s.questions = nil
	s.answers = make(map[string]string)
	s.score = 0
}

// Passing reports whether a score clears the display threshold.
func Passing(score float64) bool {
	return score >= PassingScore
}

func (s *Session) hasQuestion(id string) bool {
	for _, q := range s.questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
