package quiz

import (
	"fmt"

	"github.com/p-n-ai/pai-learn/internal/lms"
)

// QuestionType discriminates the question variants the player can render.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
)

// Question is the decoded, validated form of a wire question.
type Question struct {
	ID      string
	Text    string
	Type    QuestionType
	Options []string
}

// decodeQuestion validates one wire question. Unrecognized types and
// option-less multiple-choice questions are rejected outright rather than
// rendered as nothing.
func decodeQuestion(w lms.Question) (Question, error) {
	if w.ID == "" {
		return Question{}, fmt.Errorf("question has no id")
	}

	q := Question{ID: w.ID, Text: w.Text}

	switch QuestionType(w.Type) {
	case MultipleChoice:
		if len(w.Options) < 2 {
			return Question{}, fmt.Errorf("question %s: multiple-choice needs at least 2 options, got %d", w.ID, len(w.Options))
		}
		q.Type = MultipleChoice
		q.Options = append([]string{}, w.Options...)
	case TrueFalse:
		q.Type = TrueFalse
		q.Options = []string{"true", "false"}
	default:
		return Question{}, fmt.Errorf("question %s: unrecognized type %q", w.ID, w.Type)
	}

	return q, nil
}

// DecodeQuestions validates an ordered wire question set.
func DecodeQuestions(ws []lms.Question) ([]Question, error) {
	if len(ws) == 0 {
		return nil, fmt.Errorf("attempt has no questions")
	}
	questions := make([]Question, 0, len(ws))
	seen := make(map[string]bool, len(ws))
	for _, w := range ws {
		q, err := decodeQuestion(w)
		if err != nil {
			return nil, err
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = true
		questions = append(questions, q)
	}
	return questions, nil
}
