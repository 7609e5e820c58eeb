// Package lms talks to the remote learning-management service. It defines the
// wire types, the Service interface the rest of the client programs against,
// an HTTP implementation, a Redis-backed caching decorator and a mock.
package lms

import "context"

// Course is the course detail payload including nested units and lessons.
type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Units []Unit `json:"units"`
}

// Unit groups an ordered sequence of lessons.
type Unit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson is a single piece of course content. QuizID is empty for lessons
// without an associated quiz.
type Lesson struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content,omitempty"`
	Resources       []string `json:"resources,omitempty"`
	QuizID          string   `json:"quiz_id,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
}

// ProgressSnapshot is the server-authoritative points/level/percentage tuple
// for a learner and course. The client never computes any of these itself.
type ProgressSnapshot struct {
	Points             int `json:"points"`
	Level              int `json:"level"`
	ProgressPercentage int `json:"progress_percentage"`
}

// Enrollment is the learner's standing in a course.
type Enrollment struct {
	Progress           ProgressSnapshot `json:"progress"`
	CompletedLessonIDs []string         `json:"completed_lesson_ids"`
}

// Profile holds the learner's global gamification counters.
type Profile struct {
	Points int `json:"points"`
	Level  int `json:"level"`
}

// ProgressResult is returned by PostLessonProgress.
type ProgressResult struct {
	Snapshot         ProgressSnapshot `json:"progress_snapshot"`
	AwardedRewardIDs []string         `json:"awarded_reward_ids"`
}

// Attempt is a freshly created quiz attempt with its question set.
type Attempt struct {
	AttemptID string     `json:"attempt_id"`
	Questions []Question `json:"questions"`
}

// Question is the wire form of a quiz question. Type discriminates the
// variant; see the quiz package for the decoded form.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// QuizAnswer pairs a question with the learner's selected answer.
type QuizAnswer struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
}

// GradeResult is the server's verdict on a submitted attempt.
type GradeResult struct {
	PercentageScore  float64  `json:"percentage_score"`
	AwardedRewardIDs []string `json:"awarded_reward_ids"`
}

// Reward is a badge, trophy or certificate earned on a learning milestone.
type Reward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageRef    string `json:"image_ref,omitempty"`
	Rarity      string `json:"rarity,omitempty"`
}

// Service is the remote course/quiz/progress service contract.
type Service interface {
	GetCourse(ctx context.Context, courseID string) (Course, error)
	GetEnrollment(ctx context.Context, courseID, learnerID string) (Enrollment, error)
	GetProfile(ctx context.Context, learnerID string) (Profile, error)
	PostLessonProgress(ctx context.Context, courseID, lessonID string, completed bool) (ProgressResult, error)
	StartQuizAttempt(ctx context.Context, quizID string) (Attempt, error)
	SubmitQuizAttempt(ctx context.Context, attemptID string, answers []QuizAnswer) (GradeResult, error)
	GetRewardsByIDs(ctx context.Context, ids []string) ([]Reward, error)
}
